// Package command はアプリケーション層とストアの間で受け渡すコマンドと結果を定義します。
package command

import (
	"fmt"

	"github.com/touka-aoi/boss-director/application/config"
	"github.com/touka-aoi/boss-director/application/fairness"
	"github.com/touka-aoi/boss-director/application/pace"
	"github.com/touka-aoi/boss-director/domain"
)

// SpawnBoss はボスの出現を表すコマンド。Config が nil ならストアの既定設定を使う。
type SpawnBoss struct {
	BossID domain.BossID
	Name   string
	Tick   domain.Tick
	Config *config.BossConfig
}

type SpawnResult struct {
	BossID domain.BossID     `json:"boss_id"`
	Config config.BossConfig `json:"config"`
}

// IncomingHit はボスが攻撃を受ける直前のコマンド。
type IncomingHit struct {
	BossID         domain.BossID
	Tick           domain.Tick
	HealthFraction float64
	Damage         float64
}

type IncomingHitResult struct {
	Offense    float64     `json:"offense"`
	Defense    float64     `json:"defense"`
	Damage     float64     `json:"damage"`
	Recomputed bool        `json:"recomputed"`
	Report     pace.Report `json:"report"`
}

// WeaponQuery は命中前に武器の軽減率を問い合わせるコマンド。
type WeaponQuery struct {
	BossID domain.BossID
	Weapon domain.WeaponKey
}

type WeaponQueryResult struct {
	Multiplier float32 `json:"multiplier"`
}

// WeaponHit は命中後に確定したダメージを武器へ帰属させるコマンド。
type WeaponHit struct {
	BossID domain.BossID
	Weapon domain.WeaponKey
	Damage float64
}

type WeaponHitResult struct {
	Notifications []domain.Notification `json:"notifications"`
}

// CombatantDamaged はプレイヤーが被弾する直前のコマンド。
type CombatantDamaged struct {
	CombatantID domain.CombatantID
	Name        string
	Tick        domain.Tick
	Roster      domain.Roster
	Damage      float64
}

type DamageTaken struct {
	TakeMultiplier     float32           `json:"take_multiplier"`
	FairnessMultiplier float64           `json:"fairness_multiplier"`
	Skilled            bool              `json:"skilled"`
	Snapshot           fairness.Snapshot `json:"snapshot"`
	Damage             float64           `json:"damage"`
}

// CombatantDealt はプレイヤーが与えるダメージのコマンド。
type CombatantDealt struct {
	CombatantID domain.CombatantID
	Name        string
	Damage      float64
}

type DamageDealt struct {
	Multiplier float32 `json:"multiplier"`
	Damage     float64 `json:"damage"`
}

// CombatantDied はプレイヤーの死亡を表すコマンド。
type CombatantDied struct {
	CombatantID domain.CombatantID
}

type DeathResult struct {
	Counted         bool `json:"counted"`
	DeathsThisFight int  `json:"deaths_this_fight"`
	TotalBossDeaths int  `json:"total_boss_deaths"`
}

type BossRemoved struct {
	BossID domain.BossID
}

// PostUpdate はtickの終わりに呼ばれるコマンド。
type PostUpdate struct {
	Tick   domain.Tick
	Roster domain.Roster
}

type PostUpdateResult struct {
	BossActive bool              `json:"boss_active"`
	Snapshot   fairness.Snapshot `json:"snapshot"`
}

// SelectTarget はボスが狙うプレイヤーを問い合わせるコマンド。
type SelectTarget struct {
	BossID   domain.BossID
	Position domain.Vec2
	Roster   domain.Roster
}

type TargetResult struct {
	CombatantID domain.CombatantID `json:"combatant_id"`
	Found       bool               `json:"found"`
}

// StatsQuery は死亡統計の問い合わせ。CombatantID は省略可能。
type StatsQuery struct {
	CombatantID domain.CombatantID
}

type Stats struct {
	TotalBossDeaths    int `json:"total_boss_deaths"`
	CurrentFightDeaths int `json:"current_fight_deaths"`
	YourDeaths         int `json:"your_deaths"`
	ActiveBosses       int `json:"active_bosses"`
}

// Message はチャットに返す統計の文言です。
func (s Stats) Message() string {
	return fmt.Sprintf("Total boss deaths so far: %d. Your deaths this fight: %d.", s.TotalBossDeaths, s.YourDeaths)
}
