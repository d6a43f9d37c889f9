package config

import (
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.Addr != "localhost" || s.Port != "9090" || s.StateMode != "single" {
		t.Fatalf("unexpected server defaults: %+v", s)
	}
	if s.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v, want info", s.LogLevel)
	}
	if s.PingInterval != 10*time.Second || s.IdleTimeout != 30*time.Second {
		t.Fatalf("unexpected heartbeat defaults: %v %v", s.PingInterval, s.IdleTimeout)
	}
	got := s.Boss.Resolve()
	if got != DefaultBossConfig() {
		t.Fatalf("Resolve() = %+v, want %+v", got, DefaultBossConfig())
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"BOSS_EXPECTED_TOTAL_MINUTES", "5")
	t.Setenv(EnvPrefix+"BOSS_WEAPON_ADAPTATION_ENABLED", "true")
	t.Setenv(EnvPrefix+"BOSS_ADAPTATION_MAX_REDUCTION", "0.25")
	t.Setenv(EnvPrefix+"PLAYER_DEAL_DAMAGE", "3")
	t.Setenv(EnvPrefix+"PLAYER_OVERRIDES", "alice=1/2/true;playername=-1/-1")
	t.Setenv(EnvPrefix+"LOG_LEVEL", "debug")
	t.Setenv(EnvPrefix+"STATE_MODE", StateModeParallel)
	t.Setenv(EnvPrefix+"PING_INTERVAL", "2s")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	boss := s.Boss.Resolve()
	if boss.ExpectedMinutes != 5 || !boss.Adaptation.Enabled || boss.Adaptation.MaxReduction != 0.25 {
		t.Fatalf("unexpected boss config: %+v", boss)
	}
	if s.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v, want debug", s.LogLevel)
	}
	if s.StateMode != StateModeParallel || s.PingInterval != 2*time.Second {
		t.Fatalf("unexpected server settings: %+v", s)
	}
	players, err := s.Player.Resolve()
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if players.DealDamage != 3 {
		t.Fatalf("DealDamage = %d, want 3", players.DealDamage)
	}
	if got := players.Lookup("alice"); got != (PlayerTuning{DealOffset: 1, TakeOffset: 2, SkilledMode: true}) {
		t.Fatalf("alice tuning = %+v", got)
	}
	if got := players.Lookup("bob"); got != (PlayerTuning{DealOffset: -1, TakeOffset: -1}) {
		t.Fatalf("template tuning = %+v", got)
	}
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv(EnvPrefix+"BOSS_EXPECTED_TOTAL_MINUTES", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestBossConfig_Normalize_FallsBackPerField(t *testing.T) {
	cfg := BossConfig{
		ExpectedMinutes: 0,
		Adaptation: AdaptationConfig{
			Enabled:       true,
			StartRatio:    math.NaN(),
			CompleteRatio: 25,
			MinDamage:     -1,
			MaxReduction:  0.3,
		},
	}.Normalize()

	if cfg.ExpectedMinutes != DefaultExpectedMinutes {
		t.Errorf("ExpectedMinutes = %v", cfg.ExpectedMinutes)
	}
	if cfg.Adaptation.StartRatio != DefaultStartRatio {
		t.Errorf("StartRatio = %v", cfg.Adaptation.StartRatio)
	}
	if cfg.Adaptation.CompleteRatio != DefaultCompleteRatio {
		t.Errorf("CompleteRatio = %v", cfg.Adaptation.CompleteRatio)
	}
	if cfg.Adaptation.MinDamage != DefaultMinDamage {
		t.Errorf("MinDamage = %v", cfg.Adaptation.MinDamage)
	}
	if cfg.Adaptation.MaxReduction != 0.3 {
		t.Errorf("MaxReduction = %v", cfg.Adaptation.MaxReduction)
	}
	if !cfg.Adaptation.Enabled {
		t.Error("Enabled should be preserved")
	}
}

func TestPlayerSettings_Resolve_SkipsBadOverrides(t *testing.T) {
	s := PlayerSettings{
		DealDamage: 42,
		TakeDamage: -4,
		Overrides: map[string]string{
			"alice": "2/3",
			"bob":   "x/1",
		},
	}
	cfg, err := s.Resolve()
	if !errors.Is(err, ErrInvalidOverride) {
		t.Fatalf("expected ErrInvalidOverride, got %v", err)
	}
	if cfg.DealDamage != 0 {
		t.Fatalf("out of range deal should fall back to 0, got %d", cfg.DealDamage)
	}
	if cfg.TakeDamage != -4 {
		t.Fatalf("TakeDamage = %d, want -4", cfg.TakeDamage)
	}
	if _, ok := cfg.Overrides["bob"]; ok {
		t.Fatal("bad override should be dropped")
	}
	if got := cfg.Lookup("alice"); got.DealOffset != 2 || got.TakeOffset != 3 || got.SkilledMode {
		t.Fatalf("alice tuning = %+v", got)
	}
	if got := cfg.Lookup("carol"); got != (PlayerTuning{}) {
		t.Fatalf("carol should get zero tuning, got %+v", got)
	}
}

func TestParseOverride(t *testing.T) {
	cases := []struct {
		raw     string
		want    PlayerTuning
		wantErr bool
	}{
		{raw: "1/2", want: PlayerTuning{DealOffset: 1, TakeOffset: 2}},
		{raw: " -3 / 4 / true ", want: PlayerTuning{DealOffset: -3, TakeOffset: 4, SkilledMode: true}},
		{raw: "1", wantErr: true},
		{raw: "1/2/3/4", wantErr: true},
		{raw: "1/2/maybe", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseOverride(tc.raw)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidOverride) {
				t.Errorf("%q: expected ErrInvalidOverride, got %v", tc.raw, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: got %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}
