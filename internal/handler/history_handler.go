package handler

import (
	"net/http"
	"strings"

	"papalote/internal/model"
	"papalote/internal/search"
	"papalote/internal/service"

	"github.com/rs/zerolog"
)

// SessionHeader carries the storefront session whose history is addressed.
const SessionHeader = "X-Session-ID"

// anonymousSession is used when no session header is sent.
const anonymousSession = "anonymous"

// HistoryHandler manages a session's recent searches.
type HistoryHandler struct {
	history service.SearchHistory
	logger  zerolog.Logger
}

// NewHistoryHandler creates a new search history handler.
func NewHistoryHandler(history service.SearchHistory, logger zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger.With().Str("handler", "history").Logger(),
	}
}

// HistoryResponse is the body of every history endpoint.
type HistoryResponse struct {
	History []search.Entry `json:"history"`
}

// AddHistoryRequest is the body of POST /api/search/history.
type AddHistoryRequest struct {
	Query string `json:"query"`
}

// Get handles GET /api/search/history requests.
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entries := h.history.Get(r.Context(), session(r))
	writeJSON(w, http.StatusOK, HistoryResponse{History: entries})
}

// Add handles POST /api/search/history requests.
func (h *HistoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddHistoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	entries := h.history.Add(r.Context(), session(r), req.Query)
	writeJSON(w, http.StatusOK, HistoryResponse{History: entries})
}

// Delete handles DELETE /api/search/history requests. With ?q= only that
// query is removed; otherwise the whole history is cleared.
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := session(r)

	if r.URL.Query().Has("q") {
		entries := h.history.Remove(r.Context(), sess, r.URL.Query().Get("q"))
		writeJSON(w, http.StatusOK, HistoryResponse{History: entries})
		return
	}

	h.history.Clear(r.Context(), sess)
	writeJSON(w, http.StatusOK, HistoryResponse{History: []search.Entry{}})
}

func session(r *http.Request) string {
	if s := strings.TrimSpace(r.Header.Get(SessionHeader)); s != "" {
		return s
	}
	return anonymousSession
}
