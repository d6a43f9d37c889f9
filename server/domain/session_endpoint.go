package domain

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrBackpressure は書き込みチャネルが満杯の場合に返されるエラーです。
	ErrBackpressure = errors.New("write channel is full, apply backpressure")
	// ErrInitializationFailed はセッションエンドポイントの初期化に失敗した場合に返されるエラーです。
	ErrInitializationFailed = errors.New("failed to initialize session endpoint")
	// ErrEndpointClosed は閉じたエンドポイントへ送信した場合に返されるエラーです。
	ErrEndpointClosed = errors.New("session endpoint is closed")
)

const (
	DefaultIdleTimeout  = 30 * time.Second
	DefaultPingInterval = 10 * time.Second
	defaultWriteBuffer  = 1024
)

type EndpointOption func(*SessionEndpoint)

// WithIdleTimeout は pong が途絶えてから切断するまでの時間を設定します。0 以下で無効です。
func WithIdleTimeout(d time.Duration) EndpointOption {
	return func(se *SessionEndpoint) { se.idleTimeout = d }
}

// WithPingInterval は ping の間隔を設定します。0 以下で ping を送りません。
func WithPingInterval(d time.Duration) EndpointOption {
	return func(se *SessionEndpoint) { se.pingInterval = d }
}

// SessionEndpoint は1接続分の読み書きと、ディスパッチャー・Hub との橋渡しを行います。
type SessionEndpoint struct {
	ctx    context.Context
	cancel context.CancelFunc

	session    *Session
	connection *Connection
	dispatcher Dispatcher
	hub        *Hub

	idleTimeout  time.Duration
	pingInterval time.Duration

	ctrlCh  chan endpointEvent // 制御用チャネル
	writeCh chan []byte        // 書き込み用チャネル

	// lifecycle
	closed atomic.Bool
}

func NewSessionEndpoint(ctx context.Context, session *Session, connection *Connection, dispatcher Dispatcher, hub *Hub, opts ...EndpointOption) (*SessionEndpoint, error) {
	if session == nil || connection == nil || dispatcher == nil || hub == nil {
		return nil, ErrInitializationFailed
	}
	ctx, cancel := context.WithCancel(ctx)
	se := &SessionEndpoint{
		ctx:          ctx,
		cancel:       cancel,
		session:      session,
		connection:   connection,
		dispatcher:   dispatcher,
		hub:          hub,
		idleTimeout:  DefaultIdleTimeout,
		pingInterval: DefaultPingInterval,
		ctrlCh:       make(chan endpointEvent, 16),
		writeCh:      make(chan []byte, defaultWriteBuffer),
	}
	for _, opt := range opts {
		opt(se)
	}
	return se, nil
}

// Run は接続が閉じるまでブロックします。
func (se *SessionEndpoint) Run() error {
	msgCh := se.hub.Subscribe(se.session.ID())
	defer se.hub.Unsubscribe(se.session.ID())
	defer se.close(CloseReasonNormal)

	heartbeat := NewHeartbeatService(se.pingInterval, se.session, se.connection)

	eg, ctx := errgroup.WithContext(se.ctx)
	eg.Go(func() error {
		se.ownerLoop(ctx)
		return nil
	})
	eg.Go(func() error {
		se.readLoop(ctx)
		return nil
	})
	eg.Go(func() error {
		se.writeLoop(ctx)
		return nil
	})
	eg.Go(func() error {
		se.subscribeLoop(ctx, msgCh)
		return nil
	})
	eg.Go(func() error {
		heartbeat.Run(ctx)
		return nil
	})
	return eg.Wait()
}

func (se *SessionEndpoint) Send(data []byte) error {
	if se.closed.Load() {
		return ErrEndpointClosed
	}
	select {
	case se.writeCh <- data:
		return nil
	default:
		return ErrBackpressure
	}
}

func (se *SessionEndpoint) Close(ctx context.Context) {
	se.sendCtrlEvent(ctx, endpointEvent{kind: evClose})
}

func (se *SessionEndpoint) ForceClose() {
	se.close(CloseReasonShutdown)
}

// ownerLoop は論理セッションの状態を監視し、必要に応じて接続の管理を行います。
func (se *SessionEndpoint) ownerLoop(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-se.ctrlCh:
			se.handleControlEvent(ctx, ev)
		case <-ticker.C:
			if se.pingInterval <= 0 {
				continue
			}
			// ホストは戦闘の合間に黙ることがあるので、pong だけを見る
			if se.session.IsPongIdle(se.idleTimeout) {
				se.handleControlEvent(ctx, endpointEvent{kind: evClose, reason: CloseReasonPongTimeout})
			}
		}
	}
}

func (se *SessionEndpoint) readLoop(ctx context.Context) {
	for {
		data, err := se.connection.Read(ctx)
		if err != nil {
			se.sendCtrlEvent(ctx, endpointEvent{kind: evReadError, err: err})
			return
		}
		se.handleData(ctx, data)
	}
}

func (se *SessionEndpoint) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-se.writeCh:
			if err := se.connection.Write(ctx, data); err != nil {
				se.sendCtrlEvent(ctx, endpointEvent{kind: evWriteError, err: err})
			}
		}
	}
}

// subscribeLoop はHubからの配信をwriteChに転送します。
func (se *SessionEndpoint) subscribeLoop(ctx context.Context, msgCh <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-msgCh:
			if !ok {
				return
			}
			select {
			case se.writeCh <- data:
			default:
				slog.WarnContext(ctx, "subscribeLoop: writeCh full, message dropped", "sessionID", se.session.ID())
			}
		}
	}
}

func (se *SessionEndpoint) handleData(ctx context.Context, data []byte) {
	reply, err := se.dispatcher.Dispatch(ctx, data)
	if err != nil {
		se.sendCtrlEvent(ctx, endpointEvent{kind: evDispatchError, err: err})
	}
	if reply == nil {
		return
	}
	if err := se.Send(reply); err != nil {
		slog.WarnContext(ctx, "failed to queue reply", "sessionID", se.session.ID(), "err", err)
	}
}

func (se *SessionEndpoint) close(reason CloseReason) {
	if !se.closed.CompareAndSwap(false, true) {
		return
	}
	se.cancel()
	se.session.Close(reason)
	se.connection.Close(reason.Code(), reason.message())
}

// handleControlEvent は制御チャネルからのイベントを処理し論理セッションの状態を更新する唯一の関数です。
func (se *SessionEndpoint) handleControlEvent(ctx context.Context, ev endpointEvent) {
	switch ev.kind {
	case evClose:
		reason := ev.reason
		if reason == CloseReasonNone {
			reason = CloseReasonNormal
		} else {
			slog.InfoContext(ctx, "closing session", "sessionID", se.session.ID(), "reason", reason)
		}
		se.close(reason)
	case evPong:
		se.session.TouchPong()
	case evReadError:
		slog.DebugContext(ctx, "connection read failed", "sessionID", se.session.ID(), "err", ev.err)
		se.close(CloseReasonHangup)
	case evWriteError:
		slog.WarnContext(ctx, "connection write failed", "sessionID", se.session.ID(), "err", ev.err)
	case evDispatchError:
		slog.WarnContext(ctx, "dispatch failed", "sessionID", se.session.ID(), "err", ev.err)
	default:
		slog.WarnContext(ctx, "unknown endpoint event kind", "kind", ev.kind)
	}
}

func (se *SessionEndpoint) sendCtrlEvent(ctx context.Context, ev endpointEvent) {
	select {
	case se.ctrlCh <- ev:
	case <-ctx.Done():
	}
}
