package http

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/16navigabraham/Tipjar/internal/domain"
)

const wsWriteTimeout = 10 * time.Second

// streamEvent is one websocket frame: a phase transition or the final result.
type streamEvent struct {
	Type   string         `json:"type"`
	Status *domain.Status `json:"status,omitempty"`
	tipResponse
	Code int `json:"code,omitempty"`
}

// StreamTip accepts one tip request over a websocket and streams its phase
// transitions, ending with the final result.
func (h *TipsHTTPHandler) StreamTip(w http.ResponseWriter, r *http.Request) {
	var sender string
	if h.auth != nil {
		s, err := h.auth.Sender(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error(), Kind: "unauthorized"})
			return
		}
		sender = s
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	var body tipRequestBody
	if err := conn.ReadJSON(&body); err != nil {
		h.write(conn, streamEvent{Type: "result", tipResponse: tipResponse{Error: "invalid request"}, Code: http.StatusBadRequest})
		return
	}
	if sender != "" {
		body.Sender = sender
	}

	code, resp := h.sendTip(r.Context(), body, func(st domain.Status) {
		h.write(conn, streamEvent{Type: "status", Status: &st})
	})
	h.write(conn, streamEvent{Type: "result", tipResponse: resp, Code: code})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(wsWriteTimeout))
}

func (h *TipsHTTPHandler) write(conn *websocket.Conn, ev streamEvent) {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(ev); err != nil {
		h.logger.Debug("websocket write failed", "err", err)
	}
}
