package domain

import (
	"context"
	"log/slog"
	"time"
)

// HeartbeatService は定期的に ping を送り、pong を受け取った時刻をセッションへ記録します。
type HeartbeatService struct {
	pingInterval time.Duration
	session      *Session
	pinger       interface {
		Ping(ctx context.Context) error
	}
}

// NewHeartbeatService は新しいHeartbeatServiceを生成します。
func NewHeartbeatService(pingInterval time.Duration, session *Session, connection *Connection) *HeartbeatService {
	return &HeartbeatService{
		pingInterval: pingInterval,
		session:      session,
		pinger:       connection,
	}
}

// Run はpingInterval間隔でpingを送信します。
// ctxがキャンセルされると終了します。
func (h *HeartbeatService) Run(ctx context.Context) {
	if h.pingInterval <= 0 {
		return
	}
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, h.pingInterval)
			err := h.pinger.Ping(pingCtx)
			cancel()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.WarnContext(ctx, "heartbeat: ping failed", "sessionID", h.session.ID(), "err", err)
				continue
			}
			h.session.TouchPong()
			slog.DebugContext(ctx, "heartbeat: pong received", "sessionID", h.session.ID())
		}
	}
}
