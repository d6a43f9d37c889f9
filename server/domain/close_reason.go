package domain

import "fmt"

// CloseReason はセッションが閉じた理由です。
type CloseReason uint8

const (
	CloseReasonNone        CloseReason = iota // まだ閉じていない
	CloseReasonNormal                         // Run の終了または Close
	CloseReasonHangup                         // ホスト側からの切断
	CloseReasonPongTimeout                    // pong が途絶えた
	CloseReasonShutdown                       // サーバー側の強制終了
)

func (r CloseReason) String() string {
	switch r {
	case CloseReasonNone:
		return "none"
	case CloseReasonNormal:
		return "normal"
	case CloseReasonHangup:
		return "hangup"
	case CloseReasonPongTimeout:
		return "pong_timeout"
	case CloseReasonShutdown:
		return "shutdown"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(r))
	}
}

// Code は WebSocket のクローズコードを返します。
func (r CloseReason) Code() int32 {
	switch r {
	case CloseReasonHangup, CloseReasonShutdown:
		return CloseGoingAway
	case CloseReasonPongTimeout:
		return ClosePolicyViolate
	default:
		return CloseNormal
	}
}

// message はクローズフレームに載せる文言です。
func (r CloseReason) message() string {
	if r == CloseReasonPongTimeout {
		return "pong timeout"
	}
	return ""
}
