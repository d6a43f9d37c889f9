// Package adaptation は武器ごとのダメージを集計し、突出した武器に対する軽減率を段階的に決めます。
package adaptation

import (
	"math"

	"github.com/touka-aoi/boss-director/application/config"
	"github.com/touka-aoi/boss-director/domain"
)

// relaxEpsilon より小さい改善では既存の軽減率を更新しない。
const relaxEpsilon = 0.001

// Event は軽減状態が遷移したときに返されます。
type Event struct {
	Kind   domain.NotificationKind
	Weapon domain.WeaponKey
	Factor float32
}

// Ledger は1体のボスが受けた武器別ダメージと軽減率を保持します。
type Ledger struct {
	cfg config.AdaptationConfig

	damage map[domain.WeaponKey]float64
	factor map[domain.WeaponKey]float32
	warned map[domain.WeaponKey]struct{}

	total     float64
	topKey    domain.WeaponKey
	topDamage float64
}

func NewLedger(cfg config.AdaptationConfig) *Ledger {
	l := &Ledger{}
	l.Reset(cfg)
	return l
}

// Reset は集計を破棄し、新しい設定で初期化します。
func (l *Ledger) Reset(cfg config.AdaptationConfig) {
	l.cfg = cfg
	l.damage = make(map[domain.WeaponKey]float64)
	l.factor = make(map[domain.WeaponKey]float32)
	l.warned = make(map[domain.WeaponKey]struct{})
	l.total = 0
	l.topKey = domain.NoWeapon
	l.topDamage = 0
}

// RecordDamage は武器のダメージを加算し、適応判定の結果として発生したイベントを返します。
func (l *Ledger) RecordDamage(key domain.WeaponKey, amount float64) []Event {
	if key == domain.NoWeapon || !(amount > 0) || math.IsInf(amount, 1) {
		return nil
	}
	l.total += amount
	cur := l.damage[key] + amount
	l.damage[key] = cur
	if cur > l.topDamage {
		l.topKey = key
		l.topDamage = cur
	}
	return l.check(key)
}

func (l *Ledger) check(key domain.WeaponKey) []Event {
	count := len(l.damage)
	if count < 2 {
		return nil
	}
	dmg := l.damage[key]
	meanOthers := (l.total - dmg) / float64(count-1)
	if meanOthers <= 0 || dmg < l.cfg.MinDamage {
		return nil
	}
	ratio := dmg / meanOthers

	var events []Event
	_, warned := l.warned[key]
	existing, adapted := l.factor[key]
	if ratio >= l.cfg.StartRatio && !warned && !adapted {
		l.warned[key] = struct{}{}
		events = append(events, Event{Kind: domain.NotificationBeginning, Weapon: key})
	}
	if ratio >= l.cfg.CompleteRatio {
		f := float32(math.Max(l.cfg.MaxReduction, math.Min(1, meanOthers/dmg)))
		switch {
		case !adapted:
			l.factor[key] = f
			events = append(events, Event{Kind: domain.NotificationAdapted, Weapon: key, Factor: f})
		case f < existing-relaxEpsilon:
			l.factor[key] = f
			events = append(events, Event{Kind: domain.NotificationFurtherAdapted, Weapon: key, Factor: f})
		}
	}
	return events
}

// Multiplier は武器に掛ける軽減率を返します。未適応なら 1 です。
func (l *Ledger) Multiplier(key domain.WeaponKey) float32 {
	if f, ok := l.factor[key]; ok && f < 1 {
		return f
	}
	return 1
}

func (l *Ledger) Total() float64 { return l.total }

func (l *Ledger) Damage(key domain.WeaponKey) float64 { return l.damage[key] }

func (l *Ledger) Top() (domain.WeaponKey, float64) { return l.topKey, l.topDamage }

func (l *Ledger) Weapons() int { return len(l.damage) }

func (l *Ledger) Warned(key domain.WeaponKey) bool {
	_, ok := l.warned[key]
	return ok
}

// Factor は記録済みの軽減率を返します。
func (l *Ledger) Factor(key domain.WeaponKey) (float32, bool) {
	f, ok := l.factor[key]
	return f, ok
}
