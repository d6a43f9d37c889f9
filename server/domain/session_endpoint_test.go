package domain_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	domain "github.com/touka-aoi/boss-director/server/domain"
	"github.com/touka-aoi/boss-director/server/domain/mocks"
)

type endpointHarness struct {
	endpoint  *domain.SessionEndpoint
	session   *domain.Session
	hub       *domain.Hub
	transport *mocks.MockTransport
	dispatch  *mocks.MockDispatcher
	reads     chan []byte
	written   chan []byte
	done      chan error
}

// newHarness は読み込みを reads チャネルから供給するエンドポイントを作ります。reads を閉じると切断扱いになります。
func newHarness(t *testing.T, opts ...domain.EndpointOption) *endpointHarness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &endpointHarness{
		session:   domain.NewSession(),
		hub:       domain.NewHub(8),
		transport: mocks.NewMockTransport(ctrl),
		dispatch:  mocks.NewMockDispatcher(ctrl),
		reads:     make(chan []byte, 8),
		written:   make(chan []byte, 8),
		done:      make(chan error, 1),
	}
	h.transport.EXPECT().Read(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]byte, error) {
		select {
		case data, ok := <-h.reads:
			if !ok {
				return nil, io.EOF
			}
			return data, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}).AnyTimes()
	h.transport.EXPECT().Write(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, data []byte) error {
		h.written <- data
		return nil
	}).AnyTimes()

	conn := domain.NewConnection(h.session.ID(), h.transport)
	opts = append([]domain.EndpointOption{domain.WithPingInterval(0)}, opts...)
	se, err := domain.NewSessionEndpoint(context.Background(), h.session, conn, h.dispatch, h.hub, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.endpoint = se
	return h
}

func (h *endpointHarness) run() {
	go func() { h.done <- h.endpoint.Run() }()
}

func (h *endpointHarness) waitWritten(t *testing.T) []byte {
	t.Helper()
	select {
	case data := <-h.written:
		return data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for write")
		return nil
	}
}

func (h *endpointHarness) waitDone(t *testing.T, timeout time.Duration) {
	t.Helper()
	select {
	case err := <-h.done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(timeout):
		t.Fatal("endpoint did not stop")
	}
}

func TestNewSessionEndpoint_RequiresDependencies(t *testing.T) {
	s := domain.NewSession()
	if _, err := domain.NewSessionEndpoint(context.Background(), s, nil, nil, nil); !errors.Is(err, domain.ErrInitializationFailed) {
		t.Fatalf("expected ErrInitializationFailed, got %v", err)
	}
}

func TestSessionEndpoint_WritesReply(t *testing.T) {
	h := newHarness(t)
	h.dispatch.EXPECT().Dispatch(gomock.Any(), []byte("ping-frame")).Return([]byte("reply"), nil)
	h.transport.EXPECT().Close(domain.CloseGoingAway, "").Return(nil)

	h.run()
	h.reads <- []byte("ping-frame")
	if got := string(h.waitWritten(t)); got != "reply" {
		t.Fatalf("written = %q, want reply", got)
	}

	close(h.reads)
	h.waitDone(t, time.Second)
	if !h.session.IsClosed() {
		t.Fatal("session should be closed after disconnect")
	}
	if h.hub.Len() != 0 {
		t.Fatalf("hub should be empty after Run returns, got %d", h.hub.Len())
	}
}

func TestSessionEndpoint_DispatchErrorStillReplies(t *testing.T) {
	h := newHarness(t)
	h.dispatch.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return([]byte("error-frame"), errors.New("bad frame"))
	h.transport.EXPECT().Close(gomock.Any(), gomock.Any()).Return(nil)

	h.run()
	h.reads <- []byte("garbage")
	if got := string(h.waitWritten(t)); got != "error-frame" {
		t.Fatalf("written = %q, want error-frame", got)
	}
	close(h.reads)
	h.waitDone(t, time.Second)
}

func TestSessionEndpoint_ForwardsHubBroadcast(t *testing.T) {
	h := newHarness(t)
	h.transport.EXPECT().Close(gomock.Any(), gomock.Any()).Return(nil)

	h.run()
	deadline := time.Now().Add(time.Second)
	for h.hub.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("endpoint never subscribed")
		}
		time.Sleep(time.Millisecond)
	}
	if n := h.hub.Publish(context.Background(), []byte("notification")); n != 1 {
		t.Fatalf("delivered to %d sessions, want 1", n)
	}
	if got := string(h.waitWritten(t)); got != "notification" {
		t.Fatalf("written = %q, want notification", got)
	}
	h.endpoint.ForceClose()
	h.waitDone(t, time.Second)
}

func TestSessionEndpoint_ClosesWhenPongStops(t *testing.T) {
	h := newHarness(t, domain.WithPingInterval(10*time.Millisecond), domain.WithIdleTimeout(20*time.Millisecond))
	h.transport.EXPECT().Ping(gomock.Any()).Return(errors.New("no pong")).AnyTimes()
	h.transport.EXPECT().Close(domain.ClosePolicyViolate, "pong timeout").Return(nil)

	h.run()
	h.waitDone(t, 3*time.Second)
	if h.session.CloseReason() != domain.CloseReasonPongTimeout {
		t.Fatalf("close reason = %v, want pong", h.session.CloseReason())
	}
}

func TestSessionEndpoint_SendBackpressure(t *testing.T) {
	h := newHarness(t)
	var err error
	for i := 0; i < 2048 && err == nil; i++ {
		err = h.endpoint.Send([]byte("x"))
	}
	if !errors.Is(err, domain.ErrBackpressure) {
		t.Fatalf("expected ErrBackpressure, got %v", err)
	}
}
