package domain

import (
	"math"
	"testing"
)

func TestItemKey(t *testing.T) {
	if got := ItemKey(ItemNone); got != NoWeapon {
		t.Fatalf("ItemKey(None) = %d, want %d", got, NoWeapon)
	}
	if got := ItemKey(4); got != 5 {
		t.Fatalf("ItemKey(4) = %d, want 5", got)
	}
	it, ok := ItemKey(4).Item()
	if !ok || it != 4 {
		t.Fatalf("Item() = %d,%v, want 4,true", it, ok)
	}
}

func TestProjectileKey_PrefersHeldItem(t *testing.T) {
	if got := ProjectileKey(10, 7); got != ItemKey(7) {
		t.Fatalf("ProjectileKey with held item = %d, want %d", got, ItemKey(7))
	}
	got := ProjectileKey(10, ItemNone)
	if got != -11 {
		t.Fatalf("ProjectileKey without held item = %d, want -11", got)
	}
	p, ok := got.Projectile()
	if !ok || p != 10 {
		t.Fatalf("Projectile() = %d,%v, want 10,true", p, ok)
	}
	if got := ProjectileKey(0, ItemNone); got != -1 {
		t.Fatalf("ProjectileKey(0) = %d, want -1", got)
	}
}

func TestProjectileKey_FallsBackWhenHeldItemInvalid(t *testing.T) {
	if got := ProjectileKey(10, -3); got != -11 {
		t.Fatalf("ProjectileKey with negative held item = %d, want -11", got)
	}
	if got := ProjectileKey(10, math.MaxInt32); got != -11 {
		t.Fatalf("ProjectileKey with overflowing held item = %d, want -11", got)
	}
}

func TestWeaponKey_NoOverflow(t *testing.T) {
	if got := ItemKey(math.MaxInt32); got != NoWeapon {
		t.Fatalf("ItemKey(MaxInt32) = %d, want %d", got, NoWeapon)
	}
	if got := ItemKey(math.MaxInt32 - 1); got != math.MaxInt32 || !got.IsItem() {
		t.Fatalf("ItemKey(MaxInt32-1) = %d", got)
	}
	if got := ProjectileKey(math.MaxInt32, ItemNone); got != NoWeapon {
		t.Fatalf("ProjectileKey(MaxInt32) = %d, want %d", got, NoWeapon)
	}
	if got := ProjectileKey(math.MaxInt32-1, ItemNone); got != math.MinInt32+1 || !got.IsProjectile() {
		t.Fatalf("ProjectileKey(MaxInt32-1) = %d", got)
	}
}

func TestWeaponKey_String(t *testing.T) {
	cases := map[WeaponKey]string{
		NoWeapon: "none",
		5:        "item:4",
		-3:       "projectile:2",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}

func TestCombatant_Alive(t *testing.T) {
	cases := []struct {
		name string
		c    Combatant
		want bool
	}{
		{"active", Combatant{Life: 100, State: StateActive}, true},
		{"offline", Combatant{Life: 100}, false},
		{"dead", Combatant{Life: 100, State: StateActive | StateDead}, false},
		{"ghost", Combatant{Life: 100, State: StateActive | StateGhost}, false},
		{"no life", Combatant{Life: 0, State: StateActive}, false},
	}
	for _, tc := range cases {
		if got := tc.c.Alive(); got != tc.want {
			t.Errorf("%s: Alive() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestNotification_Message(t *testing.T) {
	n := Notification{Kind: NotificationBeginning, BossName: "Eye", WeaponName: "Minishark"}
	if got := n.Message(); got != "Eye is beginning to adapt to Minishark..." {
		t.Fatalf("unexpected message: %q", got)
	}
	n.Kind = NotificationAdapted
	if got := n.Message(); got != "Eye has successfully adapted to Minishark!" {
		t.Fatalf("unexpected message: %q", got)
	}
	n.Kind = NotificationFurtherAdapted
	n.WeaponName = ""
	n.Weapon = 5
	if got := n.Message(); got != "Eye has further adapted to item:4!" {
		t.Fatalf("unexpected message: %q", got)
	}
	n.BossName = ""
	n.BossID = "b1"
	if got := n.Message(); got != "b1 has further adapted to item:4!" {
		t.Fatalf("unexpected message without boss name: %q", got)
	}
}

func TestCombatantState_String(t *testing.T) {
	if got := (StateActive | StateGhost).String(); got != "active|ghost" {
		t.Fatalf("String() = %q", got)
	}
}
