package domain

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// SessionID は接続ごとに払い出す識別子です。
type SessionID string

func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

func (id SessionID) String() string { return string(id) }

// Session は1接続の論理的な接続状態を表す構造体です。
type Session struct {
	id SessionID

	lastPong atomic.Int64

	// lifecycle
	closed      atomic.Bool
	closeReason atomic.Uint32
}

func NewSession() *Session {
	s := &Session{
		id: NewSessionID(),
	}
	s.lastPong.Store(time.Now().UnixNano())
	return s
}

func (s *Session) ID() SessionID { return s.id }

func (s *Session) TouchPong() {
	s.lastPong.Store(time.Now().UnixNano())
}

// Close は最初の呼び出しでのみ true を返し、理由を記録します。
func (s *Session) Close(reason CloseReason) bool {
	if s.closed.CompareAndSwap(false, true) {
		s.closeReason.Store(uint32(reason))
		return true
	}
	return false
}

func (s *Session) CloseReason() CloseReason {
	return CloseReason(s.closeReason.Load())
}

// IsPongIdle は最後の pong から timeout を過ぎたかを返します。timeout<=0 なら常に false です。
func (s *Session) IsPongIdle(timeout time.Duration) bool {
	if timeout <= 0 {
		return false
	}
	return time.Since(time.Unix(0, s.lastPong.Load())) > timeout
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}
