package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	"github.com/touka-aoi/boss-director/application/config"
	"github.com/touka-aoi/boss-director/internal/bootstrap"
	"github.com/touka-aoi/boss-director/server"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      settings.LogLevel,
		TimeFormat: time.TimeOnly,
	}))
	slog.SetDefault(logger)

	if err := run(settings, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(settings config.Settings, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.New(settings, logger)
	if err != nil {
		return err
	}
	if err := rt.Start(ctx); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%s", settings.Addr, settings.Port)
	s := server.NewServer(addr, rt.Handler)
	// シグナルで websocket セッションも閉じる
	s.HTTP.BaseContext = func(net.Listener) context.Context { return ctx }

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.InfoContext(ctx, "server listening", "addr", addr, "mode", rt.Mode)
		if err := s.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		logger.Info("shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "err", err)
			if err := s.Close(); err != nil {
				logger.Error("forced close failed", "err", err)
			}
		}
		if err := rt.Stop(5 * time.Second); err != nil {
			logger.Warn("event loop did not drain", "err", err)
		}
		logger.Info("server shutdown complete")
		return nil
	})
	return eg.Wait()
}
