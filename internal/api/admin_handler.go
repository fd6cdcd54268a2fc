package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"github.com/rsanthanam/techdesk/internal/common"
)

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.AllUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// handleAdminPreview serves the raw table browser: up to limit rows,
// optionally filtered by a substring of code or name.
func (s *Server) handleAdminPreview(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = parsed
	}
	rows, err := s.store.PreviewRecords(r.Context(), search, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleAdminUpload(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	const maxMemory = 32 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse upload form: %w", err))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("no file selected"))
		return
	}
	defer file.Close()

	backup, count, err := s.ingest.Upload(r.Context(), file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("update failed: %w", err))
		return
	}
	logger.Info("api: knowledge base uploaded", "filename", header.Filename, "records", count, "backup", backup)
	writeJSON(w, http.StatusOK, uploadResponse{Records: count, Backup: backup})
}

func (s *Server) handleAdminBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := s.ingest.Backups()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if backups == nil {
		backups = []string{}
	}
	writeJSON(w, http.StatusOK, backups)
}

func (s *Server) handleAdminRevert(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	name := chi.URLParam(r, "name")
	count, err := s.ingest.Revert(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("revert failed: %w", err))
		return
	}
	logger.Info("api: knowledge base reverted", "backup", name, "records", count)
	writeJSON(w, http.StatusOK, revertResponse{Records: count, Reverted: name})
}

func (s *Server) handleAdminLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, common.LogEntries())
}
