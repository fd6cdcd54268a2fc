package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rsanthanam/techdesk/internal/auth"
	"github.com/rsanthanam/techdesk/internal/common"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	user, err := s.auth.Signup(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrUsernameTaken) {
		writeError(w, http.StatusConflict, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	logger.Info("api: user registered", "username", user.Username)
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	user, token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	logger.Info("api: user logged in", "username", user.Username)
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.auth.Logout(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	conversations, err := s.conversations.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, conversations)
}

func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	id, err := conversationID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	conv, messages, err := s.conversations.Get(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if conv == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("conversation not found"))
		return
	}
	writeJSON(w, http.StatusOK, conversationResponse{Conversation: *conv, Messages: messages})
}
