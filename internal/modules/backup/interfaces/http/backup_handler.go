package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/captainhq/captain-backend/internal/gateway/middleware"
	"github.com/captainhq/captain-backend/internal/modules/backup/application"
)

type BackupHandler struct {
	service *application.BackupService
}

func NewBackupHandler(service *application.BackupService) *BackupHandler {
	return &BackupHandler{service: service}
}

// RecordBackup marks a completed backup for the current user.
func (h *BackupHandler) RecordBackup(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	backedUpAt, err := h.service.RecordBackup(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to record backup", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"backed_up_at": backedUpAt.Format(time.RFC3339),
	})
}

// Status returns the current backup-need verdict on demand.
func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	payload, err := h.service.Status(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to evaluate backup status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"backup_needed": payload != nil,
		"reminder":      payload,
	})
}
