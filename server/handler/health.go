package handler

import (
	"encoding/json"
	"net/http"
)

// HealthReporter はヘルスチェックに載せる状態を返します。
type HealthReporter interface {
	Sessions() int
	Mode() string
}

func NewHealthHandler(r HealthReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":   "ok",
			"mode":     r.Mode(),
			"sessions": r.Sessions(),
		})
	}
}
