package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/touka-aoi/boss-director/application/service"
	"github.com/touka-aoi/boss-director/server/domain"
	"github.com/touka-aoi/boss-director/server/frame"
)

const maxFrameBytes = 1 << 20

// FrameHandler は websocket を使わないホスト向けに、1リクエスト1フレームで処理します。
// 適応通知は応答の payload にだけ含まれ、配信はされません。
type FrameHandler struct {
	dispatcher domain.Dispatcher
}

func NewFrameHandler(dispatcher domain.Dispatcher) *FrameHandler {
	return &FrameHandler{dispatcher: dispatcher}
}

func (h *FrameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxFrameBytes))
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	reply, err := h.dispatcher.Dispatch(r.Context(), body)
	if reply == nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(err))
	_, _ = w.Write(reply)
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, frame.ErrMalformed), errors.Is(err, frame.ErrUnknownType), errors.Is(err, service.ErrInvalidPayload):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func httpError(w http.ResponseWriter, status int, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	http.Error(w, msg, status)
}
