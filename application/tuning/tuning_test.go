package tuning

import (
	"math"
	"testing"

	"github.com/touka-aoi/boss-director/application/config"
)

func TestMultiplier(t *testing.T) {
	if got := Multiplier(0); got != 1 {
		t.Fatalf("Multiplier(0) = %v", got)
	}
	if got := Multiplier(2); math.Abs(float64(got)-1.44) > 1e-6 {
		t.Fatalf("Multiplier(2) = %v, want 1.44", got)
	}
	if got := Multiplier(-1); math.Abs(float64(got)-1/1.2) > 1e-6 {
		t.Fatalf("Multiplier(-1) = %v", got)
	}
}

func TestModifications_UseDeathsAndOverrides(t *testing.T) {
	cfg := config.PlayerConfig{
		DealDamage: 1,
		TakeDamage: -2,
		Overrides: map[string]config.PlayerTuning{
			"alice":                     {DealOffset: 2, TakeOffset: 1},
			config.TemplateOverrideName: {DealOffset: -1},
		},
	}
	if got := DealModification(cfg, cfg.Lookup("alice"), 3); got != 1+3+2 {
		t.Fatalf("deal alice = %d", got)
	}
	if got := TakeModification(cfg, cfg.Lookup("alice"), 3); got != -2+6+1 {
		t.Fatalf("take alice = %d", got)
	}
	if got := DealModification(cfg, cfg.Lookup("bob"), 0); got != 0 {
		t.Fatalf("deal bob = %d, want template offset applied", got)
	}
	if got := DealMultiplier(cfg, "bob", 0); got != 1 {
		t.Fatalf("DealMultiplier bob = %v", got)
	}
	if got := TakeMultiplier(cfg, "bob", 1); got != 1 {
		t.Fatalf("TakeMultiplier bob = %v", got)
	}
}
