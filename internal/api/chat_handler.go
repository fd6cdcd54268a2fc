package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"github.com/rsanthanam/techdesk/internal/common"
	"github.com/rsanthanam/techdesk/internal/kb"
)

// handleChat answers one turn over SSE. Each chunk of the rendered answer is
// framed as `data: {"chunk": ...}`; when the turn opened a new thread the
// final frame carries its id. The accumulated text is persisted together
// with the prompt once streaming ends.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	ctx := r.Context()
	user := currentUser(ctx)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("prompt required"))
		return
	}

	offer := kb.PendingOffer{}
	if req.ConversationID != 0 {
		conv, _, err := s.conversations.Get(ctx, user.ID, req.ConversationID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if conv == nil {
			writeError(w, http.StatusNotFound, fmt.Errorf("conversation not found"))
			return
		}
		offer, err = s.conversations.PendingOffer(ctx, user.ID, req.ConversationID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	intent := kb.DetectIntent(prompt)
	result, status := s.resolver.Resolve(prompt, offer)
	chunks := kb.Render(result, status, intent)
	logger.Info("api: chat resolved", "user", user.Username, "intent", string(intent), "mode", string(result.Mode), "status", string(status))

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	var answer strings.Builder
	for _, chunk := range chunks {
		select {
		case <-ctx.Done():
			logger.Debug("api: chat client gone", "user", user.Username)
			return
		default:
		}
		answer.WriteString(chunk)
		writeEvent(w, flusher, map[string]string{"chunk": chunk})
	}

	id, created, err := s.conversations.RecordExchange(ctx, user.ID, req.ConversationID, prompt, answer.String())
	if err != nil {
		logger.Error("api: persisting chat turn failed", "error", err)
		return
	}
	if created {
		writeEvent(w, flusher, map[string]int64{"conversation_id": id})
	}
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	if flusher != nil {
		flusher.Flush()
	}
}

func conversationID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid conversation id %q", raw)
	}
	return id, nil
}
