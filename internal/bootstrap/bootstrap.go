// Package bootstrap は設定から状態ストア・サービス・websocket ハンドラを組み立てます。
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/touka-aoi/boss-director/application/config"
	"github.com/touka-aoi/boss-director/application/metrics"
	"github.com/touka-aoi/boss-director/application/service"
	"github.com/touka-aoi/boss-director/application/state"
	"github.com/touka-aoi/boss-director/application/state/memory"
	"github.com/touka-aoi/boss-director/internal/handler"
	"github.com/touka-aoi/boss-director/server"
	"github.com/touka-aoi/boss-director/server/dispatch"
	"github.com/touka-aoi/boss-director/server/domain"
	"github.com/touka-aoi/boss-director/server/frame"
	serverhandler "github.com/touka-aoi/boss-director/server/handler"
)

// Runtime は組み立て済みのサーバー部品です。
type Runtime struct {
	Handler http.Handler
	Service *service.EncounterService
	Hub     *domain.Hub
	Mode    string

	loop *handler.Loop
}

type realClock struct{}

func (realClock) Now() time.Time                  { return time.Now() }
func (realClock) Since(t time.Time) time.Duration { return time.Since(t) }

// New は Settings から Runtime を作ります。プレイヤー上書き設定の不正な項目は警告して読み飛ばします。
func New(s config.Settings, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}
	players, err := s.Player.Resolve()
	if err != nil {
		logger.Warn("ignoring invalid player overrides", "err", err)
	}
	boss := s.Boss.Resolve()

	recorder, err := metrics.NewGlobalRecorder()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: metrics: %w", err)
	}

	base := memory.NewStore(boss, players)
	var store state.EncounterState
	switch s.StateMode {
	case config.StateModeParallel:
		store = memory.NewConcurrentStore(base).WithMetrics(recorder)
	case config.StateModeSingle, "":
		store = memory.NewSingleThreadStore(base)
	default:
		return nil, fmt.Errorf("bootstrap: unknown state mode %q", s.StateMode)
	}

	hub := domain.NewHub(0)
	svc, err := service.NewEncounterService(store, recorder, realClock{}, service.SimpleValidator{}, dispatch.NewHubNotifier(hub))
	if err != nil {
		return nil, fmt.Errorf("bootstrap: service: %w", err)
	}
	svc.WithLogger(logger)

	rt := &Runtime{Service: svc, Hub: hub, Mode: s.StateMode}
	if rt.Mode == "" {
		rt.Mode = config.StateModeSingle
	}

	var exec dispatch.Executor = dispatch.NewServiceExecutor(svc)
	if rt.Mode == config.StateModeSingle {
		loop, err := handler.New(handler.Config{
			Handler:   dispatch.LoopHandler(exec),
			QueueSize: s.QueueSize,
			Logger:    logger,
		})
		if err != nil {
			return nil, fmt.Errorf("bootstrap: loop: %w", err)
		}
		rt.loop = loop
		exec = dispatch.NewLoopExecutor(loop)
	}

	decoder := frame.NewDecoder(boss)
	decoder.Logger = logger
	dispatcher := dispatch.NewFrameDispatcher(decoder, exec)
	rt.Handler = server.Route(dispatcher, hub, rt.Mode, serverhandler.WithHeartbeat(s.PingInterval, s.IdleTimeout))
	return rt, nil
}

// Start は single モードのイベントループを起動します。
func (rt *Runtime) Start(ctx context.Context) error {
	if rt.loop == nil {
		return nil
	}
	return rt.loop.Start(ctx)
}

// Stop はイベントループに残ったリクエストを処理してから止めます。
func (rt *Runtime) Stop(timeout time.Duration) error {
	if rt.loop == nil {
		return nil
	}
	return rt.loop.DrainTimeout(timeout)
}
