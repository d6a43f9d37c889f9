package memory

import (
	"context"
	"sync"
	"time"

	"github.com/touka-aoi/boss-director/application/command"
	"github.com/touka-aoi/boss-director/application/state"
)

// ConcurrentStore は Store をラップし、排他制御付きで EncounterState を実装する。
type ConcurrentStore struct {
	base    *Store
	clk     func() time.Time
	metrics state.MetricsRecorder
	mu      sync.RWMutex
}

// NewConcurrentStore は新しい ConcurrentStore を生成する。
func NewConcurrentStore(base *Store) *ConcurrentStore {
	return &ConcurrentStore{
		base: base,
		clk:  time.Now,
	}
}

// WithClock はテスト用に時間ソースを差し替える。
func (c *ConcurrentStore) WithClock(clock func() time.Time) *ConcurrentStore {
	if clock != nil {
		c.clk = clock
	}
	return c
}

// WithMetrics を設定するとロック待ち時間を記録する。
func (c *ConcurrentStore) WithMetrics(m state.MetricsRecorder) *ConcurrentStore {
	c.metrics = m
	return c
}

func (c *ConcurrentStore) lock(ctx context.Context, endpoint string) {
	if c.metrics == nil {
		c.mu.Lock()
		return
	}
	start := c.clk()
	c.mu.Lock()
	c.metrics.RecordContention(ctx, endpoint, c.clk().Sub(start))
}

func (c *ConcurrentStore) rlock(ctx context.Context, endpoint string) {
	if c.metrics == nil {
		c.mu.RLock()
		return
	}
	start := c.clk()
	c.mu.RLock()
	c.metrics.RecordContention(ctx, endpoint, c.clk().Sub(start))
}

func (c *ConcurrentStore) SpawnBoss(ctx context.Context, cmd command.SpawnBoss) (command.SpawnResult, error) {
	c.lock(ctx, "spawn_boss")
	defer c.mu.Unlock()
	return c.base.spawnBoss(cmd)
}

func (c *ConcurrentStore) RemoveBoss(ctx context.Context, cmd command.BossRemoved) error {
	c.lock(ctx, "remove_boss")
	defer c.mu.Unlock()
	return c.base.removeBoss(cmd)
}

func (c *ConcurrentStore) IncomingHit(ctx context.Context, cmd command.IncomingHit) (command.IncomingHitResult, error) {
	c.lock(ctx, "incoming_hit")
	defer c.mu.Unlock()
	return c.base.incomingHit(cmd), nil
}

func (c *ConcurrentStore) WeaponMultiplier(ctx context.Context, cmd command.WeaponQuery) (command.WeaponQueryResult, error) {
	c.rlock(ctx, "weapon_query")
	defer c.mu.RUnlock()
	return c.base.weaponMultiplier(cmd), nil
}

func (c *ConcurrentStore) RecordWeaponHit(ctx context.Context, cmd command.WeaponHit) (command.WeaponHitResult, error) {
	c.lock(ctx, "weapon_hit")
	defer c.mu.Unlock()
	return c.base.recordWeaponHit(cmd), nil
}

// CombatantDamaged は共有の集計を更新しうるため書き込みロックを取る。
func (c *ConcurrentStore) CombatantDamaged(ctx context.Context, cmd command.CombatantDamaged) (command.DamageTaken, error) {
	c.lock(ctx, "combatant_damaged")
	defer c.mu.Unlock()
	return c.base.combatantDamaged(cmd), nil
}

func (c *ConcurrentStore) CombatantDealt(ctx context.Context, cmd command.CombatantDealt) (command.DamageDealt, error) {
	c.rlock(ctx, "combatant_dealt")
	defer c.mu.RUnlock()
	return c.base.combatantDealt(cmd), nil
}

func (c *ConcurrentStore) CombatantDied(ctx context.Context, cmd command.CombatantDied) (command.DeathResult, error) {
	c.lock(ctx, "combatant_died")
	defer c.mu.Unlock()
	return c.base.combatantDied(cmd), nil
}

func (c *ConcurrentStore) PostUpdate(ctx context.Context, cmd command.PostUpdate) (command.PostUpdateResult, error) {
	c.lock(ctx, "post_update")
	defer c.mu.Unlock()
	return c.base.postUpdate(cmd), nil
}

func (c *ConcurrentStore) SelectTarget(ctx context.Context, cmd command.SelectTarget) (command.TargetResult, error) {
	c.rlock(ctx, "select_target")
	defer c.mu.RUnlock()
	return c.base.selectTarget(cmd)
}

func (c *ConcurrentStore) Stats(ctx context.Context, q command.StatsQuery) (command.Stats, error) {
	c.rlock(ctx, "stats")
	defer c.mu.RUnlock()
	return c.base.stats(q), nil
}

var _ state.EncounterState = (*ConcurrentStore)(nil)
