package handler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNew_RequiresHandler(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrHandlerRequired) {
		t.Fatalf("expected ErrHandlerRequired, got %v", err)
	}
}

func TestLoop_ProcessesInOrderOnOneGoroutine(t *testing.T) {
	var (
		mu  sync.Mutex
		got []int
	)
	l, err := New(Config{Handler: HandlerFunc(func(_ context.Context, req any) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, req.(int))
		return nil
	})})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := context.Background()
	if err := l.Submit(ctx, 0); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := l.Start(ctx); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
	for i := 0; i < 100; i++ {
		if err := l.Submit(ctx, i); err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
	}
	if err := l.DrainTimeout(time.Second); err != nil {
		t.Fatalf("DrainTimeout returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 100 {
		t.Fatalf("processed %d requests, want 100", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("out of order at %d: %d", i, v)
		}
	}
	if err := l.Submit(ctx, 1); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestLoop_HandlerErrorDoesNotStopLoop(t *testing.T) {
	done := make(chan struct{})
	calls := 0
	l, _ := New(Config{Handler: HandlerFunc(func(_ context.Context, req any) error {
		calls++
		if calls == 2 {
			close(done)
		}
		return errors.New("boom")
	})})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.Start(ctx)
	l.Submit(ctx, 1)
	l.Submit(ctx, 2)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop stopped after handler error")
	}
}
