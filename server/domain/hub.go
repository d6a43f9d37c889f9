package domain

import (
	"context"
	"log/slog"
	"sync"
)

// Hub は接続中の全セッションへフレームを配信します。
type Hub struct {
	mu     sync.RWMutex
	subs   map[SessionID]chan []byte
	buffer int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{
		subs:   make(map[SessionID]chan []byte),
		buffer: buffer,
	}
}

// Subscribe はセッション宛の配信チャネルを登録します。同じIDで呼ぶと前のチャネルは閉じられます。
func (h *Hub) Subscribe(id SessionID) <-chan []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.subs[id]; ok {
		close(old)
	}
	ch := make(chan []byte, h.buffer)
	h.subs[id] = ch
	return ch
}

func (h *Hub) Unsubscribe(id SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		close(ch)
		delete(h.subs, id)
	}
}

// Publish は全購読者へ配信し、届いた数を返します。バッファが満杯の購読者には捨てます。
func (h *Hub) Publish(ctx context.Context, data []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for id, ch := range h.subs {
		select {
		case ch <- data:
			delivered++
		default:
			slog.WarnContext(ctx, "hub: subscriber full, message dropped", "sessionID", id)
		}
	}
	return delivered
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
