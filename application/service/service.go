package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/touka-aoi/boss-director/application/command"
	"github.com/touka-aoi/boss-director/application/request"
	"github.com/touka-aoi/boss-director/application/state"
	"github.com/touka-aoi/boss-director/domain"
)

//go:generate go tool mockgen -destination=./mocks/notifier_mock.go -package=mocks . Notifier

var (
	ErrInvalidPayload = errors.New("service: invalid payload")
)

// Notifier は武器適応の通知をプレイヤーへ届ける。
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// NameResolver は武器キーを表示名に変換する。ホストが提供しない場合はキーの文字列表現を使う。
type NameResolver interface {
	WeaponName(key domain.WeaponKey) string
}

// DiscoveryListener は外部のアイテム図鑑連携が実装する任意の機能。
type DiscoveryListener interface {
	ItemDiscovered(ctx context.Context, id domain.CombatantID, name string, item domain.ItemType) error
}

type EncounterService struct {
	state     state.EncounterState
	metrics   state.MetricsRecorder
	clock     Clock
	validate  Validator
	notifier  Notifier
	names     NameResolver
	discovery DiscoveryListener
	logger    *slog.Logger
}

func NewEncounterService(s state.EncounterState, m state.MetricsRecorder, clock Clock, validator Validator, notifier Notifier) (*EncounterService, error) {
	if s == nil || m == nil || clock == nil || validator == nil || notifier == nil {
		return nil, fmt.Errorf("service: missing dependencies: state=%v metrics=%v clock=%v validator=%v notifier=%v", s, m, clock, validator, notifier)
	}
	return &EncounterService{
		state:    s,
		metrics:  m,
		clock:    clock,
		validate: validator,
		notifier: notifier,
		logger:   slog.Default(),
	}, nil
}

func (s *EncounterService) WithNameResolver(r NameResolver) *EncounterService {
	s.names = r
	return s
}

func (s *EncounterService) WithDiscoveryListener(l DiscoveryListener) *EncounterService {
	s.discovery = l
	return s
}

func (s *EncounterService) WithLogger(l *slog.Logger) *EncounterService {
	if l != nil {
		s.logger = l
	}
	return s
}

func (s *EncounterService) SpawnBoss(ctx context.Context, payload request.SpawnBoss) (command.SpawnResult, error) {
	start := s.clock.Now()
	defer s.record("spawn_boss", start)

	if err := s.validate.SpawnBoss(payload); err != nil {
		return command.SpawnResult{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	res, err := s.state.SpawnBoss(ctx, payload.Command)
	if err != nil {
		return command.SpawnResult{}, err
	}
	s.logger.InfoContext(ctx, "boss spawned",
		"boss_id", res.BossID,
		"name", payload.Command.Name,
		"expected_minutes", res.Config.ExpectedMinutes,
		"adaptation", res.Config.Adaptation.Enabled,
	)
	return res, nil
}

func (s *EncounterService) RemoveBoss(ctx context.Context, payload request.RemoveBoss) error {
	start := s.clock.Now()
	defer s.record("remove_boss", start)

	if err := s.state.RemoveBoss(ctx, payload.Command); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "boss removed", "boss_id", payload.Command.BossID)
	return nil
}

func (s *EncounterService) IncomingHit(ctx context.Context, payload request.IncomingHit) (command.IncomingHitResult, error) {
	start := s.clock.Now()
	defer s.record("incoming_hit", start)

	if err := s.validate.IncomingHit(payload); err != nil {
		return command.IncomingHitResult{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	res, err := s.state.IncomingHit(ctx, payload.Command)
	if err != nil {
		return command.IncomingHitResult{}, err
	}
	if res.Recomputed {
		s.logger.DebugContext(ctx, "pace recomputed", "boss_id", payload.Command.BossID, "pace", res.Report.String())
	}
	return res, nil
}

func (s *EncounterService) WeaponMultiplier(ctx context.Context, payload request.WeaponQuery) (command.WeaponQueryResult, error) {
	start := s.clock.Now()
	defer s.record("weapon_query", start)

	return s.state.WeaponMultiplier(ctx, payload.Command)
}

// WeaponHit はダメージを記録し、発生した通知を Notifier に渡す。通知の失敗は記録結果に影響しない。
func (s *EncounterService) WeaponHit(ctx context.Context, payload request.WeaponHit) (command.WeaponHitResult, error) {
	start := s.clock.Now()
	defer s.record("weapon_hit", start)

	if err := s.validate.WeaponHit(payload); err != nil {
		return command.WeaponHitResult{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	res, err := s.state.RecordWeaponHit(ctx, payload.Command)
	if err != nil {
		return command.WeaponHitResult{}, err
	}
	for i := range res.Notifications {
		n := &res.Notifications[i]
		if s.names != nil {
			n.WeaponName = s.names.WeaponName(n.Weapon)
		}
		s.logger.InfoContext(ctx, "weapon adaptation", "boss_id", n.BossID, "kind", n.Kind, "weapon", n.Weapon, "factor", n.Factor)
		if err := s.notifier.Notify(ctx, *n); err != nil {
			s.logger.WarnContext(ctx, "notify failed", "err", err, "kind", n.Kind)
			s.metrics.IncrementCounter(ctx, "notifications.failed", 1)
			continue
		}
		s.metrics.IncrementCounter(ctx, "notifications."+n.Kind.String(), 1)
	}
	return res, nil
}

func (s *EncounterService) CombatantDamaged(ctx context.Context, payload request.CombatantDamaged) (command.DamageTaken, error) {
	start := s.clock.Now()
	defer s.record("combatant_damaged", start)

	if err := s.validate.CombatantDamaged(payload); err != nil {
		return command.DamageTaken{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return s.state.CombatantDamaged(ctx, payload.Command)
}

func (s *EncounterService) CombatantDealt(ctx context.Context, payload request.CombatantDealt) (command.DamageDealt, error) {
	start := s.clock.Now()
	defer s.record("combatant_dealt", start)

	if err := s.validate.CombatantDealt(payload); err != nil {
		return command.DamageDealt{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return s.state.CombatantDealt(ctx, payload.Command)
}

func (s *EncounterService) CombatantDied(ctx context.Context, payload request.CombatantDied) (command.DeathResult, error) {
	start := s.clock.Now()
	defer s.record("combatant_died", start)

	if err := s.validate.CombatantDied(payload); err != nil {
		return command.DeathResult{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	res, err := s.state.CombatantDied(ctx, payload.Command)
	if err != nil {
		return command.DeathResult{}, err
	}
	if res.Counted {
		s.logger.InfoContext(ctx, "combatant died during boss fight",
			"combatant_id", payload.Command.CombatantID,
			"deaths_this_fight", res.DeathsThisFight,
			"total_boss_deaths", res.TotalBossDeaths,
		)
	}
	return res, nil
}

func (s *EncounterService) PostUpdate(ctx context.Context, payload request.PostUpdate) (command.PostUpdateResult, error) {
	return s.state.PostUpdate(ctx, payload.Command)
}

func (s *EncounterService) SelectTarget(ctx context.Context, payload request.SelectTarget) (command.TargetResult, error) {
	start := s.clock.Now()
	defer s.record("select_target", start)

	if err := s.validate.SelectTarget(payload); err != nil {
		return command.TargetResult{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return s.state.SelectTarget(ctx, payload.Command)
}

func (s *EncounterService) Stats(ctx context.Context, payload request.Stats) (command.Stats, error) {
	return s.state.Stats(ctx, payload.Command)
}

// ItemDiscovered は連携先があれば転送する。なくても他の処理には影響しない。
func (s *EncounterService) ItemDiscovered(ctx context.Context, payload request.ItemDiscovered) error {
	if s.discovery == nil {
		s.logger.DebugContext(ctx, "item discovered without listener", "combatant_id", payload.CombatantID, "item", payload.Item)
		return nil
	}
	return s.discovery.ItemDiscovered(ctx, payload.CombatantID, payload.Name, payload.Item)
}

func (s *EncounterService) record(endpoint string, started time.Time) {
	duration := s.clock.Since(started)
	ctx := context.Background()
	s.metrics.RecordLatency(ctx, endpoint, duration)
	s.metrics.IncrementCounter(ctx, "requests."+endpoint, 1)
}

type Clock interface {
	Now() time.Time
	Since(time.Time) time.Duration
}

type Validator interface {
	SpawnBoss(request.SpawnBoss) error
	IncomingHit(request.IncomingHit) error
	WeaponHit(request.WeaponHit) error
	CombatantDamaged(request.CombatantDamaged) error
	CombatantDealt(request.CombatantDealt) error
	CombatantDied(request.CombatantDied) error
	SelectTarget(request.SelectTarget) error
}
