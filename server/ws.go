package server

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The HTTP layer already allows any origin; the browser page is served
	// from this same process.
	CheckOrigin: func(*http.Request) bool { return true },
}

type wsRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type wsEvent struct {
	Type   string `json:"type"`
	Reply  string `json:"reply,omitempty"`
	Memory string `json:"memory,omitempty"`
	Error  string `json:"error,omitempty"`
}

// handleChatWS runs a chat session over a websocket. Each inbound frame is
// one turn; the server pushes a reply event and, when the agent updated the
// memory, a memory_updated event carrying the new memory string.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket closed unexpectedly", "err", err)
			}
			return
		}
		if req.UserID == "" || req.Message == "" {
			if err := conn.WriteJSON(wsEvent{Type: "error", Error: "user_id and message are required"}); err != nil {
				return
			}
			continue
		}
		if s.limiter != nil && !s.limiter.Allow(req.UserID) {
			if err := conn.WriteJSON(wsEvent{Type: "error", Error: "rate limit exceeded"}); err != nil {
				return
			}
			continue
		}

		turn, err := s.agent.HandleTurn(r.Context(), req.UserID, req.Message)
		if err != nil {
			turnsTotal.WithLabelValues("error").Inc()
			s.logger.Error("turn failed", "user_id", req.UserID, "err", err)
			if err := conn.WriteJSON(wsEvent{Type: "error", Error: err.Error()}); err != nil {
				return
			}
			continue
		}
		turnsTotal.WithLabelValues("ok").Inc()

		if err := conn.WriteJSON(wsEvent{Type: "reply", Reply: turn.Reply}); err != nil {
			return
		}
		if turn.MemoryUpdated {
			memoryUpdatesTotal.Inc()
			if err := conn.WriteJSON(wsEvent{Type: "memory_updated", Memory: turn.Memory}); err != nil {
				return
			}
		}
	}
}
