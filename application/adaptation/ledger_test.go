package adaptation

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/touka-aoi/boss-director/application/config"
	"github.com/touka-aoi/boss-director/domain"
)

const (
	sword domain.WeaponKey = 5
	bow   domain.WeaponKey = 9
	magic domain.WeaponKey = -4
)

func newTestLedger(maxReduction float64) *Ledger {
	return NewLedger(config.AdaptationConfig{
		Enabled:       true,
		StartRatio:    2,
		CompleteRatio: 3,
		MinDamage:     100,
		MaxReduction:  maxReduction,
	})
}

func kinds(events []Event) []domain.NotificationKind {
	out := make([]domain.NotificationKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestLedger_IgnoresUnattributedAndNonPositive(t *testing.T) {
	l := newTestLedger(0.5)
	l.RecordDamage(domain.NoWeapon, 100)
	l.RecordDamage(sword, 0)
	l.RecordDamage(sword, -5)
	if l.Total() != 0 || l.Weapons() != 0 {
		t.Fatalf("expected empty ledger, total=%v weapons=%d", l.Total(), l.Weapons())
	}
}

func TestLedger_TopKeepsExistingOnTie(t *testing.T) {
	l := newTestLedger(0.5)
	l.RecordDamage(sword, 100)
	l.RecordDamage(bow, 100)
	key, dmg := l.Top()
	if key != sword || dmg != 100 {
		t.Fatalf("Top() = %v,%v, want sword,100", key, dmg)
	}
	l.RecordDamage(bow, 1)
	if key, _ := l.Top(); key != bow {
		t.Fatalf("Top() = %v, want bow", key)
	}
}

func TestLedger_SingleWeaponNeverAdapts(t *testing.T) {
	l := newTestLedger(0.5)
	for i := 0; i < 10; i++ {
		if ev := l.RecordDamage(sword, 1000); len(ev) != 0 {
			t.Fatalf("unexpected events: %v", ev)
		}
	}
	if l.Multiplier(sword) != 1 {
		t.Fatalf("Multiplier = %v, want 1", l.Multiplier(sword))
	}
}

func TestLedger_MinDamageGate(t *testing.T) {
	l := newTestLedger(0.5)
	l.RecordDamage(bow, 10)
	if ev := l.RecordDamage(sword, 90); len(ev) != 0 {
		t.Fatalf("adaptation below min damage: %v", ev)
	}
}

func TestLedger_WarnThenAdapt(t *testing.T) {
	l := newTestLedger(0.5)
	l.RecordDamage(sword, 100)
	l.RecordDamage(bow, 100)

	ev := l.RecordDamage(sword, 150)
	if got := kinds(ev); len(got) != 1 || got[0] != domain.NotificationBeginning {
		t.Fatalf("events = %v, want [beginning]", got)
	}
	if !l.Warned(sword) {
		t.Fatal("sword should be warned")
	}
	if l.Multiplier(sword) != 1 {
		t.Fatal("warning alone must not reduce damage")
	}

	ev = l.RecordDamage(sword, 100)
	if got := kinds(ev); len(got) != 1 || got[0] != domain.NotificationAdapted {
		t.Fatalf("events = %v, want [adapted]", got)
	}
	// 100/350 は下限 0.5 に丸められる
	if l.Multiplier(sword) != 0.5 {
		t.Fatalf("Multiplier = %v, want 0.5", l.Multiplier(sword))
	}
}

func TestLedger_FurtherAdaptationNeverRelaxes(t *testing.T) {
	l := newTestLedger(0.1)
	l.RecordDamage(sword, 100)
	l.RecordDamage(bow, 100)

	ev := l.RecordDamage(sword, 200)
	if got := kinds(ev); len(got) != 2 || got[0] != domain.NotificationBeginning || got[1] != domain.NotificationAdapted {
		t.Fatalf("events = %v, want [beginning adapted]", got)
	}
	if f := l.Multiplier(sword); f != float32(100.0/300.0) {
		t.Fatalf("Multiplier = %v", f)
	}

	ev = l.RecordDamage(sword, 100)
	if got := kinds(ev); len(got) != 1 || got[0] != domain.NotificationFurtherAdapted {
		t.Fatalf("events = %v, want [further_adapted]", got)
	}
	if f := l.Multiplier(sword); f != 0.25 {
		t.Fatalf("Multiplier = %v, want 0.25", f)
	}

	l.RecordDamage(bow, 100)
	if ev := l.RecordDamage(sword, 1); len(ev) != 0 {
		t.Fatalf("unexpected events: %v", ev)
	}
	if f := l.Multiplier(sword); f != 0.25 {
		t.Fatalf("factor relaxed to %v", f)
	}
}

func TestLedger_FactorOfOneIsIdentity(t *testing.T) {
	l := NewLedger(config.AdaptationConfig{StartRatio: 1, CompleteRatio: 1, MinDamage: 0, MaxReduction: 0.5})
	l.RecordDamage(sword, 100)
	l.RecordDamage(bow, 100)
	f, ok := l.Factor(bow)
	if !ok || f != 1 {
		t.Fatalf("Factor = %v,%v, want 1,true", f, ok)
	}
	if l.Multiplier(bow) != 1 {
		t.Fatalf("Multiplier = %v, want 1", l.Multiplier(bow))
	}
}

func TestLedger_Reset(t *testing.T) {
	l := newTestLedger(0.1)
	l.RecordDamage(sword, 100)
	l.RecordDamage(bow, 100)
	l.RecordDamage(sword, 500)
	l.Reset(config.DefaultBossConfig().Adaptation)
	if l.Total() != 0 || l.Weapons() != 0 || l.Warned(sword) || l.Multiplier(sword) != 1 {
		t.Fatal("Reset did not clear ledger")
	}
	if key, dmg := l.Top(); key != domain.NoWeapon || dmg != 0 {
		t.Fatalf("Top() = %v,%v after reset", key, dmg)
	}
}

func TestLedger_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxReduction := rapid.Float64Range(0.1, 1).Draw(t, "maxReduction")
		l := NewLedger(config.AdaptationConfig{
			Enabled:       true,
			StartRatio:    rapid.Float64Range(1, 10).Draw(t, "start"),
			CompleteRatio: rapid.Float64Range(1, 20).Draw(t, "complete"),
			MinDamage:     rapid.Float64Range(0, 500).Draw(t, "minDamage"),
			MaxReduction:  maxReduction,
		})
		keys := []domain.WeaponKey{sword, bow, magic, domain.NoWeapon}
		last := map[domain.WeaponKey]float32{}
		beginnings := map[domain.WeaponKey]int{}
		adapted := map[domain.WeaponKey]int{}
		sum := 0.0

		steps := rapid.IntRange(1, 100).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			key := rapid.SampledFrom(keys).Draw(t, "key")
			amount := float64(rapid.IntRange(-10, 1000).Draw(t, "amount"))
			for _, ev := range l.RecordDamage(key, amount) {
				switch ev.Kind {
				case domain.NotificationBeginning:
					beginnings[ev.Weapon]++
				case domain.NotificationAdapted:
					adapted[ev.Weapon]++
				}
			}
			if key != domain.NoWeapon && amount > 0 {
				sum += amount
			}
			for _, k := range keys {
				f, ok := l.Factor(k)
				if !ok {
					continue
				}
				if float64(f) < float64(float32(maxReduction)) || f > 1 {
					t.Fatalf("factor %v out of [%v,1]", f, maxReduction)
				}
				if prev, seen := last[k]; seen && f > prev {
					t.Fatalf("factor relaxed for %v: %v -> %v", k, prev, f)
				}
				last[k] = f
			}
		}
		if l.Total() != sum {
			t.Fatalf("Total = %v, want %v", l.Total(), sum)
		}
		for k, n := range beginnings {
			if n > 1 {
				t.Fatalf("beginning emitted %d times for %v", n, k)
			}
		}
		for k, n := range adapted {
			if n > 1 {
				t.Fatalf("adapted emitted %d times for %v", n, k)
			}
		}
		if l.Damage(domain.NoWeapon) != 0 {
			t.Fatal("unattributed damage recorded")
		}
	})
}
