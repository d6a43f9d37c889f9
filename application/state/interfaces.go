package state

import (
	"context"
	"time"

	"github.com/touka-aoi/boss-director/application/command"
)

// EncounterState はボス戦の難易度調整状態を扱うストアです。
// 単一ループ版と排他制御版の両方がこのインターフェースを満たします。
type EncounterState interface {
	SpawnBoss(ctx context.Context, cmd command.SpawnBoss) (command.SpawnResult, error)
	RemoveBoss(ctx context.Context, cmd command.BossRemoved) error
	IncomingHit(ctx context.Context, cmd command.IncomingHit) (command.IncomingHitResult, error)
	WeaponMultiplier(ctx context.Context, cmd command.WeaponQuery) (command.WeaponQueryResult, error)
	RecordWeaponHit(ctx context.Context, cmd command.WeaponHit) (command.WeaponHitResult, error)
	CombatantDamaged(ctx context.Context, cmd command.CombatantDamaged) (command.DamageTaken, error)
	CombatantDealt(ctx context.Context, cmd command.CombatantDealt) (command.DamageDealt, error)
	CombatantDied(ctx context.Context, cmd command.CombatantDied) (command.DeathResult, error)
	PostUpdate(ctx context.Context, cmd command.PostUpdate) (command.PostUpdateResult, error)
	SelectTarget(ctx context.Context, cmd command.SelectTarget) (command.TargetResult, error)
	Stats(ctx context.Context, q command.StatsQuery) (command.Stats, error)
}

type MetricsRecorder interface {
	RecordLatency(ctx context.Context, endpoint string, duration time.Duration)
	RecordContention(ctx context.Context, endpoint string, wait time.Duration)
	IncrementCounter(ctx context.Context, name string, delta int)
}
