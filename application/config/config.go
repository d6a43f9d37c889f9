// Package config はプロセス設定を環境変数から読み込み、エンカウンターごとに使う値型へ解決します。
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const EnvPrefix = "BOSS_DIRECTOR_"

// 既定値と許容範囲。範囲外や不正な値は既定値に戻す。
const (
	DefaultExpectedMinutes = 12.0
	MinExpectedMinutes     = 1.0
	MaxExpectedMinutes     = 240.0

	DefaultStartRatio = 2.0
	MinStartRatio     = 1.0
	MaxStartRatio     = 10.0

	DefaultCompleteRatio = 3.0
	MinCompleteRatio     = 1.0
	MaxCompleteRatio     = 20.0

	DefaultMinDamage = 100.0
	MaxMinDamage     = 1_000_000.0

	DefaultMaxReduction = 0.5
	MinMaxReduction     = 0.1
	MaxMaxReduction     = 1.0

	MinDamageDifficulty = -10
	MaxDamageDifficulty = 10
)

// TemplateOverrideName はどのプレイヤー名にも一致しなかったときに使う上書き設定のキーです。
const TemplateOverrideName = "playername"

var ErrInvalidOverride = errors.New("config: invalid player override")

// StateMode の取りうる値。
const (
	StateModeSingle   = "single"
	StateModeParallel = "parallel"
)

// Settings は環境変数から読み込む生の設定です。
type Settings struct {
	Addr      string     `env:"ADDR" envDefault:"localhost"`
	Port      string     `env:"PORT" envDefault:"9090"`
	StateMode string     `env:"STATE_MODE" envDefault:"single"`
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	QueueSize int        `env:"QUEUE_SIZE" envDefault:"1024"`

	PingInterval time.Duration `env:"PING_INTERVAL" envDefault:"10s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"30s"`

	Boss   BossSettings   `envPrefix:"BOSS_"`
	Player PlayerSettings `envPrefix:"PLAYER_"`
}

type BossSettings struct {
	ExpectedTotalMinutes    float64 `env:"EXPECTED_TOTAL_MINUTES" envDefault:"12"`
	WeaponAdaptationEnabled bool    `env:"WEAPON_ADAPTATION_ENABLED" envDefault:"false"`
	AdaptationStartRatio    float64 `env:"ADAPTATION_START_RATIO" envDefault:"2"`
	AdaptationCompleteRatio float64 `env:"ADAPTATION_COMPLETE_RATIO" envDefault:"3"`
	AdaptationMinDamage     float64 `env:"ADAPTATION_MIN_DAMAGE" envDefault:"100"`
	AdaptationMaxReduction  float64 `env:"ADAPTATION_MAX_REDUCTION" envDefault:"0.5"`
	TargetHighestHealth     bool    `env:"TARGET_HIGHEST_HEALTH" envDefault:"false"`
}

type PlayerSettings struct {
	DealDamage int `env:"DEAL_DAMAGE" envDefault:"0"`
	TakeDamage int `env:"TAKE_DAMAGE" envDefault:"0"`
	// Overrides は "name=deal/take/skilled;..." 形式。
	Overrides map[string]string `env:"OVERRIDES" envSeparator:";" envKeyValSeparator:"="`
}

// ParseEnv は環境変数を target に読み込みます。
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load は環境変数から Settings を読み込みます。
func Load() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// AdaptationConfig は武器適応の解決済み設定です。
type AdaptationConfig struct {
	Enabled       bool    `json:"enabled"`
	StartRatio    float64 `json:"start_ratio"`
	CompleteRatio float64 `json:"complete_ratio"`
	MinDamage     float64 `json:"min_damage"`
	MaxReduction  float64 `json:"max_reduction"`
}

// BossConfig はスポーン時に確定するエンカウンター設定です。
type BossConfig struct {
	ExpectedMinutes     float64          `json:"expected_minutes"`
	Adaptation          AdaptationConfig `json:"adaptation"`
	TargetHighestHealth bool             `json:"target_highest_health"`
}

func DefaultBossConfig() BossConfig {
	return BossConfig{
		ExpectedMinutes: DefaultExpectedMinutes,
		Adaptation: AdaptationConfig{
			StartRatio:    DefaultStartRatio,
			CompleteRatio: DefaultCompleteRatio,
			MinDamage:     DefaultMinDamage,
			MaxReduction:  DefaultMaxReduction,
		},
	}
}

// Normalize は範囲外・非有限の値を既定値に置き換えた設定を返します。失敗はしません。
func (c BossConfig) Normalize() BossConfig {
	c.ExpectedMinutes = inRange(c.ExpectedMinutes, MinExpectedMinutes, MaxExpectedMinutes, DefaultExpectedMinutes)
	c.Adaptation.StartRatio = inRange(c.Adaptation.StartRatio, MinStartRatio, MaxStartRatio, DefaultStartRatio)
	c.Adaptation.CompleteRatio = inRange(c.Adaptation.CompleteRatio, MinCompleteRatio, MaxCompleteRatio, DefaultCompleteRatio)
	c.Adaptation.MinDamage = inRange(c.Adaptation.MinDamage, 0, MaxMinDamage, DefaultMinDamage)
	c.Adaptation.MaxReduction = inRange(c.Adaptation.MaxReduction, MinMaxReduction, MaxMaxReduction, DefaultMaxReduction)
	return c
}

// Resolve は BossSettings を正規化済みの BossConfig に変換します。
func (s BossSettings) Resolve() BossConfig {
	return BossConfig{
		ExpectedMinutes: s.ExpectedTotalMinutes,
		Adaptation: AdaptationConfig{
			Enabled:       s.WeaponAdaptationEnabled,
			StartRatio:    s.AdaptationStartRatio,
			CompleteRatio: s.AdaptationCompleteRatio,
			MinDamage:     s.AdaptationMinDamage,
			MaxReduction:  s.AdaptationMaxReduction,
		},
		TargetHighestHealth: s.TargetHighestHealth,
	}.Normalize()
}

// PlayerTuning はプレイヤー単位の上書きです。難易度は全体設定への差分として加算されます。
type PlayerTuning struct {
	DealOffset  int
	TakeOffset  int
	SkilledMode bool
}

// PlayerConfig は全体の難易度とプレイヤー名ごとの上書きを保持します。
type PlayerConfig struct {
	DealDamage int
	TakeDamage int
	Overrides  map[string]PlayerTuning
}

// Lookup は名前の完全一致、テンプレートの順で上書きを探します。どちらもなければゼロ値を返します。
func (c PlayerConfig) Lookup(name string) PlayerTuning {
	if t, ok := c.Overrides[name]; ok {
		return t
	}
	return c.Overrides[TemplateOverrideName]
}

// Resolve は PlayerSettings を PlayerConfig に変換します。
// 解析できない上書きは捨て、その理由をまとめたエラーを返します。返り値の設定は常に使えます。
func (s PlayerSettings) Resolve() (PlayerConfig, error) {
	cfg := PlayerConfig{
		DealDamage: difficulty(s.DealDamage),
		TakeDamage: difficulty(s.TakeDamage),
		Overrides:  make(map[string]PlayerTuning, len(s.Overrides)),
	}
	var errs []error
	for name, raw := range s.Overrides {
		t, err := ParseOverride(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		cfg.Overrides[strings.TrimSpace(name)] = t
	}
	return cfg, errors.Join(errs...)
}

// ParseOverride は "deal/take/skilled" 形式の文字列を解析します。skilled は省略可能です。
func ParseOverride(raw string) (PlayerTuning, error) {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) < 2 || len(parts) > 3 {
		return PlayerTuning{}, fmt.Errorf("%w: %q", ErrInvalidOverride, raw)
	}
	deal, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return PlayerTuning{}, fmt.Errorf("%w: deal %q", ErrInvalidOverride, parts[0])
	}
	take, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return PlayerTuning{}, fmt.Errorf("%w: take %q", ErrInvalidOverride, parts[1])
	}
	t := PlayerTuning{DealOffset: deal, TakeOffset: take}
	if len(parts) == 3 {
		skilled, err := strconv.ParseBool(strings.TrimSpace(parts[2]))
		if err != nil {
			return PlayerTuning{}, fmt.Errorf("%w: skilled %q", ErrInvalidOverride, parts[2])
		}
		t.SkilledMode = skilled
	}
	return t, nil
}

func inRange(v, lo, hi, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < lo || v > hi {
		return def
	}
	return v
}

func difficulty(v int) int {
	if v < MinDamageDifficulty || v > MaxDamageDifficulty {
		return 0
	}
	return v
}
