// Package dispatch は受信フレームを EncounterService の呼び出しへ振り分けます。
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/touka-aoi/boss-director/application/request"
	"github.com/touka-aoi/boss-director/application/service"
)

var ErrUnsupportedRequest = errors.New("dispatch: unsupported request")

// Executor はデコード済みのリクエストを実行し、応答ペイロードを返します。
type Executor interface {
	Execute(ctx context.Context, req any) (any, error)
}

// ServiceExecutor は EncounterService を呼び出し側のゴルーチンで直接実行します。
type ServiceExecutor struct {
	svc *service.EncounterService
}

var _ Executor = (*ServiceExecutor)(nil)

func NewServiceExecutor(svc *service.EncounterService) *ServiceExecutor {
	return &ServiceExecutor{svc: svc}
}

func (e *ServiceExecutor) Execute(ctx context.Context, req any) (any, error) {
	switch r := req.(type) {
	case request.SpawnBoss:
		return e.svc.SpawnBoss(ctx, r)
	case request.RemoveBoss:
		return nil, e.svc.RemoveBoss(ctx, r)
	case request.IncomingHit:
		return e.svc.IncomingHit(ctx, r)
	case request.WeaponQuery:
		return e.svc.WeaponMultiplier(ctx, r)
	case request.WeaponHit:
		return e.svc.WeaponHit(ctx, r)
	case request.CombatantDamaged:
		return e.svc.CombatantDamaged(ctx, r)
	case request.CombatantDealt:
		return e.svc.CombatantDealt(ctx, r)
	case request.CombatantDied:
		return e.svc.CombatantDied(ctx, r)
	case request.PostUpdate:
		return e.svc.PostUpdate(ctx, r)
	case request.SelectTarget:
		return e.svc.SelectTarget(ctx, r)
	case request.Stats:
		stats, err := e.svc.Stats(ctx, r)
		if err != nil {
			return nil, err
		}
		return statsReply{Stats: stats, Message: stats.Message()}, nil
	case request.ItemDiscovered:
		return nil, e.svc.ItemDiscovered(ctx, r)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedRequest, req)
	}
}
