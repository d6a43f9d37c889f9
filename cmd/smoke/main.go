// smoke はサーバーをプロセス内で起動し、websocket 越しに1戦分のフレームを流して応答を確認します。
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/lmittmann/tint"

	"github.com/touka-aoi/boss-director/application/config"
	"github.com/touka-aoi/boss-director/internal/bootstrap"
	"github.com/touka-aoi/boss-director/server"
)

// 1戦分の台本。武器 4 に偏らせて適応通知まで進める。
var script = []string{
	`{"type":"boss_spawned","request_id":"1","payload":{"boss_id":"eye","name":"Eye of Cthulhu","tick":0,"config":{"adaptation":{"enabled":true}}}}`,
	`{"type":"incoming_hit","request_id":"2","payload":{"boss_id":"eye","tick":3600,"health_fraction":0.95,"damage":50}}`,
	`{"type":"weapon_hit","request_id":"3","payload":{"boss_id":"eye","weapon":{"item":4},"damage":100}}`,
	`{"type":"weapon_hit","request_id":"4","payload":{"boss_id":"eye","weapon":{"projectile":1},"damage":100}}`,
	`{"type":"weapon_hit","request_id":"5","payload":{"boss_id":"eye","weapon":{"item":4},"damage":300}}`,
	`{"type":"weapon_query","request_id":"6","payload":{"boss_id":"eye","weapon":{"item":4}}}`,
	`{"type":"combatant_died","request_id":"7","payload":{"combatant_id":"p1"}}`,
	`{"type":"stats","request_id":"8","payload":{"combatant_id":"p1"}}`,
	`{"type":"boss_removed","request_id":"9","payload":{"boss_id":"eye"}}`,
	`{"type":"post_update","request_id":"10","payload":{"tick":7200,"roster":[{"id":"p1","life":100,"state":1}]}}`,
}

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("SMOKE TEST FAILED", "err", err)
		os.Exit(1)
	}
	logger.Info("SMOKE TEST PASSED!")
}

func run(logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	settings, err := config.Load()
	if err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%s", settings.Addr, settings.Port)
	rt, err := bootstrap.New(settings, logger)
	if err != nil {
		return err
	}
	if err := rt.Start(ctx); err != nil {
		return err
	}
	defer rt.Stop(time.Second)

	srv := server.NewServer(addr, rt.Handler)
	go func() {
		if err := srv.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "server error", "err", err)
		}
	}()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "err", err)
		}
	}()
	logger.Info("server started", "addr", addr, "mode", rt.Mode)
	time.Sleep(100 * time.Millisecond)

	conn, _, err := websocket.Dial(ctx, "ws://"+addr+"/ws", nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	notifications := 0
	for _, raw := range script {
		if err := conn.Write(ctx, websocket.MessageText, []byte(raw)); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		// 通知は応答より先に届くことがあるので、応答が来るまで読む
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return fmt.Errorf("read: %w", err)
			}
			var out struct {
				Type    string          `json:"type"`
				Payload json.RawMessage `json:"payload"`
				Error   string          `json:"error"`
			}
			if err := json.Unmarshal(data, &out); err != nil {
				return fmt.Errorf("decode reply: %w", err)
			}
			if out.Error != "" {
				return fmt.Errorf("%s: %s", out.Type, out.Error)
			}
			if out.Type == "notification" {
				notifications++
				logger.Info("notification", "payload", string(out.Payload))
				continue
			}
			logger.Info("reply", "type", out.Type, "payload", string(out.Payload))
			break
		}
	}
	if notifications < 2 {
		// 応答のあとに届いた分を拾う
		readCtx, readCancel := context.WithTimeout(ctx, time.Second)
		defer readCancel()
		for notifications < 2 {
			if _, _, err := conn.Read(readCtx); err != nil {
				break
			}
			notifications++
		}
	}
	if notifications != 2 {
		return fmt.Errorf("expected 2 adaptation notifications, got %d", notifications)
	}
	return nil
}
