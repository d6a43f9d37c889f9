package memory

import (
	"errors"

	"github.com/touka-aoi/boss-director/application/command"
	"github.com/touka-aoi/boss-director/application/config"
	"github.com/touka-aoi/boss-director/application/encounter"
	"github.com/touka-aoi/boss-director/application/fairness"
	"github.com/touka-aoi/boss-director/application/tuning"
	"github.com/touka-aoi/boss-director/domain"
)

var (
	ErrBossNotFound    = errors.New("memory: boss not found")
	ErrTargetingOff    = errors.New("memory: targeting disabled for boss")
	ErrEmptyIdentifier = errors.New("memory: empty identifier")
)

// Store はボスごとのコントローラーとプロセス全体の集計を保持する共通ストレージ。
// 並行実装・単一ループ実装は本ストアをラップして利用し、ロック戦略のみを差し替える。
type Store struct {
	bossDefaults config.BossConfig
	players      config.PlayerConfig

	controllers map[domain.BossID]*encounter.Controller
	// order はスポーン順。「現在の戦闘」は最初に見つかった生存ボスを指す。
	order []domain.BossID

	fairness        *fairness.State
	totalBossDeaths int
	deaths          map[domain.CombatantID]int
}

// NewStore は設定を受け取ってストアを生成する。
func NewStore(boss config.BossConfig, players config.PlayerConfig) *Store {
	return &Store{
		bossDefaults: boss.Normalize(),
		players:      players,
		controllers:  make(map[domain.BossID]*encounter.Controller),
		fairness:     fairness.NewState(),
		deaths:       make(map[domain.CombatantID]int),
	}
}

func (s *Store) spawnBoss(cmd command.SpawnBoss) (command.SpawnResult, error) {
	if cmd.BossID.IsEmpty() {
		return command.SpawnResult{}, ErrEmptyIdentifier
	}
	cfg := s.bossDefaults
	if cmd.Config != nil {
		cfg = *cmd.Config
	}
	ctrl, ok := s.controllers[cmd.BossID]
	if !ok {
		ctrl = encounter.NewController(cmd.BossID, cmd.Name)
		s.controllers[cmd.BossID] = ctrl
		s.order = append(s.order, cmd.BossID)
	}
	ctrl.Spawn(cmd.Tick, cfg)
	return command.SpawnResult{BossID: cmd.BossID, Config: ctrl.Config()}, nil
}

func (s *Store) removeBoss(cmd command.BossRemoved) error {
	if _, ok := s.controllers[cmd.BossID]; !ok {
		return ErrBossNotFound
	}
	delete(s.controllers, cmd.BossID)
	for i, id := range s.order {
		if id == cmd.BossID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// 未登録のボスは倍率1のまま返す。
func (s *Store) incomingHit(cmd command.IncomingHit) command.IncomingHitResult {
	ctrl, ok := s.controllers[cmd.BossID]
	if !ok {
		return command.IncomingHitResult{Offense: 1, Defense: 1, Damage: cmd.Damage}
	}
	off, def, recomputed := ctrl.IncomingHit(cmd.Tick, cmd.HealthFraction)
	return command.IncomingHitResult{
		Offense:    off,
		Defense:    def,
		Damage:     ctrl.ApplyPace(cmd.Damage),
		Recomputed: recomputed,
		Report:     ctrl.PaceReport(),
	}
}

func (s *Store) weaponMultiplier(cmd command.WeaponQuery) command.WeaponQueryResult {
	ctrl, ok := s.controllers[cmd.BossID]
	if !ok {
		return command.WeaponQueryResult{Multiplier: 1}
	}
	return command.WeaponQueryResult{Multiplier: ctrl.WeaponMultiplier(cmd.Weapon)}
}

func (s *Store) recordWeaponHit(cmd command.WeaponHit) command.WeaponHitResult {
	ctrl, ok := s.controllers[cmd.BossID]
	if !ok {
		return command.WeaponHitResult{}
	}
	return command.WeaponHitResult{Notifications: ctrl.RecordWeaponHit(cmd.Weapon, cmd.Damage)}
}

func (s *Store) combatantDamaged(cmd command.CombatantDamaged) command.DamageTaken {
	yours := s.deaths[cmd.CombatantID]
	t := s.players.Lookup(cmd.Name)
	out := command.DamageTaken{
		TakeMultiplier:     tuning.Multiplier(tuning.TakeModification(s.players, t, yours)),
		FairnessMultiplier: 1,
		Skilled:            t.SkilledMode,
		Snapshot:           s.fairness.Snapshot(),
	}
	if t.SkilledMode && s.bossActive() {
		out.Snapshot = s.fairness.Refresh(cmd.Tick, cmd.Roster, true)
		out.FairnessMultiplier = out.Snapshot.Multiplier(s.currentFightDeaths(), yours)
	}
	out.Damage = cmd.Damage * float64(out.TakeMultiplier) * out.FairnessMultiplier
	return out
}

func (s *Store) combatantDealt(cmd command.CombatantDealt) command.DamageDealt {
	m := tuning.Multiplier(tuning.DealModification(s.players, s.players.Lookup(cmd.Name), s.deaths[cmd.CombatantID]))
	return command.DamageDealt{Multiplier: m, Damage: cmd.Damage * float64(m)}
}

// ボスが1体もいないときの死亡は数えない。
func (s *Store) combatantDied(cmd command.CombatantDied) command.DeathResult {
	if !s.bossActive() {
		return command.DeathResult{DeathsThisFight: s.deaths[cmd.CombatantID], TotalBossDeaths: s.totalBossDeaths}
	}
	s.deaths[cmd.CombatantID]++
	s.totalBossDeaths++
	for _, ctrl := range s.controllers {
		ctrl.RecordDeath()
	}
	return command.DeathResult{
		Counted:         true,
		DeathsThisFight: s.deaths[cmd.CombatantID],
		TotalBossDeaths: s.totalBossDeaths,
	}
}

func (s *Store) postUpdate(cmd command.PostUpdate) command.PostUpdateResult {
	active := s.bossActive()
	snap := s.fairness.Refresh(cmd.Tick, cmd.Roster, active)
	if !active && len(s.deaths) > 0 {
		clear(s.deaths)
	}
	return command.PostUpdateResult{BossActive: active, Snapshot: snap}
}

func (s *Store) selectTarget(cmd command.SelectTarget) (command.TargetResult, error) {
	ctrl, ok := s.controllers[cmd.BossID]
	if !ok {
		return command.TargetResult{}, ErrBossNotFound
	}
	if !ctrl.Config().TargetHighestHealth {
		return command.TargetResult{}, ErrTargetingOff
	}
	id, found := encounter.SelectTarget(cmd.Position, cmd.Roster)
	return command.TargetResult{CombatantID: id, Found: found}, nil
}

func (s *Store) stats(q command.StatsQuery) command.Stats {
	return command.Stats{
		TotalBossDeaths:    s.totalBossDeaths,
		CurrentFightDeaths: s.currentFightDeaths(),
		YourDeaths:         s.deaths[q.CombatantID],
		ActiveBosses:       len(s.controllers),
	}
}

func (s *Store) bossActive() bool {
	return len(s.controllers) > 0
}

func (s *Store) currentFightDeaths() int {
	for _, id := range s.order {
		if ctrl, ok := s.controllers[id]; ok {
			return ctrl.DeathsThisFight()
		}
	}
	return 0
}
