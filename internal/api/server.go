package api

import (
	"encoding/json"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rsanthanam/techdesk/internal/auth"
	"github.com/rsanthanam/techdesk/internal/common"
	"github.com/rsanthanam/techdesk/internal/conversation"
	"github.com/rsanthanam/techdesk/internal/ingest"
	"github.com/rsanthanam/techdesk/internal/kb"
	"github.com/rsanthanam/techdesk/internal/sqlite"
)

// Server routes the chat, auth and admin endpoints. Request handling is
// stateless; all state lives in the injected collaborators.
type Server struct {
	router        *chi.Mux
	auth          *auth.Service
	conversations *conversation.Service
	resolver      *kb.Resolver
	store         *sqlite.Store
	ingest        *ingest.Service
}

func NewServer(authSvc *auth.Service, conv *conversation.Service, resolver *kb.Resolver, store *sqlite.Store, ingestSvc *ingest.Service) *Server {
	s := &Server{
		router:        chi.NewRouter(),
		auth:          authSvc,
		conversations: conv,
		resolver:      resolver,
		store:         store,
		ingest:        ingestSvc,
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(middleware.Recoverer)
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Post("/auth/signup", s.handleSignup)
	s.router.Post("/auth/login", s.handleLogin)
	s.router.Post("/auth/logout", s.handleLogout)

	s.router.Group(func(r chi.Router) {
		r.Use(s.requireUser)
		r.Get("/api/conversations", s.handleConversations)
		r.Get("/api/conversations/{id}", s.handleConversation)
		r.Post("/api/chat", s.handleChat)
	})

	s.router.Group(func(r chi.Router) {
		r.Use(s.requireUser, s.requireAdmin)
		r.Get("/admin/users", s.handleAdminUsers)
		r.Get("/admin/kb", s.handleAdminPreview)
		r.Post("/admin/kb/upload", s.handleAdminUpload)
		r.Get("/admin/kb/backups", s.handleAdminBackups)
		r.Post("/admin/kb/revert/{name}", s.handleAdminRevert)
		r.Get("/admin/logs", s.handleAdminLogs)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
