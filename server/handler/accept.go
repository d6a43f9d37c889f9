package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	adapterwebsocket "github.com/touka-aoi/boss-director/server/adapter/websocket"
	"github.com/touka-aoi/boss-director/server/domain"
)

type AcceptHandler struct {
	dispatcher   domain.Dispatcher
	hub          *domain.Hub
	readLimit    int64
	idleTimeout  time.Duration
	pingInterval time.Duration
}

type AcceptOption func(*AcceptHandler)

// WithReadLimit は1フレームの最大バイト数を設定します。
func WithReadLimit(n int64) AcceptOption {
	return func(h *AcceptHandler) { h.readLimit = n }
}

func WithHeartbeat(pingInterval, idleTimeout time.Duration) AcceptOption {
	return func(h *AcceptHandler) {
		h.pingInterval = pingInterval
		h.idleTimeout = idleTimeout
	}
}

func NewAcceptHandler(dispatcher domain.Dispatcher, hub *domain.Hub, opts ...AcceptOption) *AcceptHandler {
	h := &AcceptHandler{
		dispatcher:   dispatcher,
		hub:          hub,
		readLimit:    1 << 20,
		idleTimeout:  domain.DefaultIdleTimeout,
		pingInterval: domain.DefaultPingInterval,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *AcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // 開発用: Origin チェックをスキップ
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to accept", "err", err)
		return
	}
	// ロスターを含むフレームは既定の 32KiB を超えることがある
	conn.SetReadLimit(h.readLimit)

	session := domain.NewSession()
	transport := adapterwebsocket.NewTransportFrom(conn)
	connection := domain.NewConnection(session.ID(), transport)
	endpoint, err := domain.NewSessionEndpoint(ctx, session, connection, h.dispatcher, h.hub,
		domain.WithIdleTimeout(h.idleTimeout),
		domain.WithPingInterval(h.pingInterval),
	)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create session endpoint", "err", err)
		_ = conn.Close(websocket.StatusInternalError, "endpoint init failed")
		return
	}
	slog.DebugContext(ctx, "accepted new connection", "session_id", session.ID())
	if err := endpoint.Run(); err != nil {
		slog.ErrorContext(ctx, "failed to run session endpoint", "err", err)
		return
	}
	slog.DebugContext(ctx, "connection closed", "session_id", session.ID(), "reason", session.CloseReason())
}
