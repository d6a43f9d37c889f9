package server

import (
	"net/http"

	"github.com/touka-aoi/boss-director/server/domain"
	"github.com/touka-aoi/boss-director/server/handler"
)

type healthReporter struct {
	hub  *domain.Hub
	mode string
}

func (h healthReporter) Sessions() int { return h.hub.Len() }
func (h healthReporter) Mode() string  { return h.mode }

// Route は /ws、POST /frame、/healthz を持つ mux を返します。
func Route(dispatcher domain.Dispatcher, hub *domain.Hub, mode string, opts ...handler.AcceptOption) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", handler.NewAcceptHandler(dispatcher, hub, opts...))
	mux.Handle("POST /frame", handler.NewFrameHandler(dispatcher))
	mux.Handle("/healthz", handler.NewHealthHandler(healthReporter{hub: hub, mode: mode}))
	return mux
}
