package memory

import (
	"context"

	"github.com/touka-aoi/boss-director/application/command"
	"github.com/touka-aoi/boss-director/application/state"
)

// SingleThreadStore は Store をロックなしで公開する。呼び出しは1つのイベントループからのみ行うこと。
type SingleThreadStore struct {
	base *Store
}

func NewSingleThreadStore(base *Store) *SingleThreadStore {
	return &SingleThreadStore{base: base}
}

func (s *SingleThreadStore) SpawnBoss(ctx context.Context, cmd command.SpawnBoss) (command.SpawnResult, error) {
	_ = ctx
	return s.base.spawnBoss(cmd)
}

func (s *SingleThreadStore) RemoveBoss(ctx context.Context, cmd command.BossRemoved) error {
	_ = ctx
	return s.base.removeBoss(cmd)
}

func (s *SingleThreadStore) IncomingHit(ctx context.Context, cmd command.IncomingHit) (command.IncomingHitResult, error) {
	_ = ctx
	return s.base.incomingHit(cmd), nil
}

func (s *SingleThreadStore) WeaponMultiplier(ctx context.Context, cmd command.WeaponQuery) (command.WeaponQueryResult, error) {
	_ = ctx
	return s.base.weaponMultiplier(cmd), nil
}

func (s *SingleThreadStore) RecordWeaponHit(ctx context.Context, cmd command.WeaponHit) (command.WeaponHitResult, error) {
	_ = ctx
	return s.base.recordWeaponHit(cmd), nil
}

func (s *SingleThreadStore) CombatantDamaged(ctx context.Context, cmd command.CombatantDamaged) (command.DamageTaken, error) {
	_ = ctx
	return s.base.combatantDamaged(cmd), nil
}

func (s *SingleThreadStore) CombatantDealt(ctx context.Context, cmd command.CombatantDealt) (command.DamageDealt, error) {
	_ = ctx
	return s.base.combatantDealt(cmd), nil
}

func (s *SingleThreadStore) CombatantDied(ctx context.Context, cmd command.CombatantDied) (command.DeathResult, error) {
	_ = ctx
	return s.base.combatantDied(cmd), nil
}

func (s *SingleThreadStore) PostUpdate(ctx context.Context, cmd command.PostUpdate) (command.PostUpdateResult, error) {
	_ = ctx
	return s.base.postUpdate(cmd), nil
}

func (s *SingleThreadStore) SelectTarget(ctx context.Context, cmd command.SelectTarget) (command.TargetResult, error) {
	_ = ctx
	return s.base.selectTarget(cmd)
}

func (s *SingleThreadStore) Stats(ctx context.Context, q command.StatsQuery) (command.Stats, error) {
	_ = ctx
	return s.base.stats(q), nil
}

var _ state.EncounterState = (*SingleThreadStore)(nil)
