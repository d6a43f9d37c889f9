package handler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"
)

var (
	ErrHandlerRequired = errors.New("loop: handler is required")
	ErrAlreadyStarted  = errors.New("loop: start called multiple times")
	ErrNotStarted      = errors.New("loop: not started")
	ErrStopped         = errors.New("loop: stopped")
)

// Handler processes requests submitted to the loop.
type Handler interface {
	Handle(ctx context.Context, req any) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req any) error

func (f HandlerFunc) Handle(ctx context.Context, req any) error { return f(ctx, req) }

// Config controls the behaviour of the single thread loop.
type Config struct {
	Handler   Handler
	QueueSize int
	Logger    *slog.Logger
}

// Loop delivers incoming requests to the provided handler on a single goroutine.
// Everything the handler touches is owned by that goroutine, so state behind it needs no locks.
type Loop struct {
	handler Handler
	queue   chan any
	logger  *slog.Logger

	started atomic.Bool
	stopped atomic.Bool

	done chan struct{}
}

// New creates a Loop with the supplied configuration.
func New(cfg Config) (*Loop, error) {
	if cfg.Handler == nil {
		return nil, ErrHandlerRequired
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 1024
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		handler: cfg.Handler,
		queue:   make(chan any, queueSize),
		logger:  logger,
		done:    make(chan struct{}),
	}, nil
}

// Start launches the single-thread loop. It must be called once.
func (l *Loop) Start(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	go l.run(ctx)
	return nil
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			l.logger.InfoContext(ctx, "loop: context cancelled, shutting down", "err", ctx.Err())
			return
		case req, ok := <-l.queue:
			if !ok {
				l.logger.Info("loop: queue closed, exiting")
				return
			}
			if err := l.handler.Handle(ctx, req); err != nil {
				l.logger.WarnContext(ctx, "loop: handler error", "err", err)
			}
		}
	}
}

// Submit enqueues a request to be processed by the loop.
func (l *Loop) Submit(ctx context.Context, req any) error {
	if !l.started.Load() {
		return ErrNotStarted
	}
	if l.stopped.Load() {
		return ErrStopped
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	case l.queue <- req:
		return nil
	}
}

// Stop drains the loop and waits for graceful completion.
func (l *Loop) Stop(ctx context.Context) error {
	if !l.stopped.CompareAndSwap(false, true) {
		return errors.New("loop: stop called multiple times")
	}
	close(l.queue)
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DrainTimeout closes the queue and waits for completion with the given timeout.
func (l *Loop) DrainTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return l.Stop(ctx)
}
