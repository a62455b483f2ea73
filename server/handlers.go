package server

import (
	"embed"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/attiklabs/recall/memory"
)

//go:embed web/index.html
var webFS embed.FS

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	Reply         string `json:"reply"`
	MemoryUpdated bool   `json:"memory_updated"`
}

type memoryResponse struct {
	UserID string `json:"user_id"`
	Memory string `json:"memory"`
}

type memoryUpdateRequest struct {
	Memory string `json:"memory"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleChat processes one turn. The agent decides autonomously whether the
// message contains anything worth remembering.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserID == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "user_id and message are required")
		return
	}
	if s.limiter != nil && !s.limiter.Allow(req.UserID) {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	turn, err := s.agent.HandleTurn(r.Context(), req.UserID, req.Message)
	if err != nil {
		turnsTotal.WithLabelValues("error").Inc()
		s.logger.Error("turn failed", "user_id", req.UserID, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	turnsTotal.WithLabelValues("ok").Inc()
	if turn.MemoryUpdated {
		memoryUpdatesTotal.Inc()
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Reply:         turn.Reply,
		MemoryUpdated: turn.MemoryUpdated,
	})
}

// handleGetMemory returns the user's memory; absent memory reads as empty,
// matching the store's read contract at the API edge.
func (s *Server) handleGetMemory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	content, err := s.store.Read(r.Context(), userID)
	if err != nil && !errors.Is(err, memory.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, memoryResponse{UserID: userID, Memory: content})
}

// handlePutMemory sets the memory directly, bypassing the agent. It replaces
// the entire string.
func (s *Server) handlePutMemory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req memoryUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.store.Write(r.Context(), userID, req.Memory); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, memoryResponse{UserID: userID, Memory: req.Memory})
}

func (s *Server) handleDeleteMemory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := s.store.Delete(r.Context(), userID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "memory deleted for user " + userID,
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if users == nil {
		users = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"users": users})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}
