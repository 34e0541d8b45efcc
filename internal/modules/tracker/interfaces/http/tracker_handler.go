package http

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/captainhq/captain-backend/internal/gateway/middleware"
	filestorage "github.com/captainhq/captain-backend/internal/modules/filestorage/application"
	"github.com/captainhq/captain-backend/internal/modules/tracker/application"
	"github.com/captainhq/captain-backend/internal/modules/tracker/domain"
)

// maxImportSize caps import uploads; legacy export files are small.
const maxImportSize = 10 << 20

type TrackerHandler struct {
	service *application.TrackerService
	files   *filestorage.FileService
}

func NewTrackerHandler(service *application.TrackerService, files *filestorage.FileService) *TrackerHandler {
	return &TrackerHandler{service: service, files: files}
}

func (h *TrackerHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var app domain.Application
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		http.Error(w, "invalid application payload", http.StatusBadRequest)
		return
	}
	if app.Company == "" && app.Position == "" {
		http.Error(w, "company or position is required", http.StatusBadRequest)
		return
	}

	if err := h.service.Create(r.Context(), userID, &app); err != nil {
		log.Printf("[Tracker] create failed: %v", err)
		http.Error(w, "failed to create application", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(app)
}

func (h *TrackerHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	apps, err := h.service.List(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to fetch applications", http.StatusInternalServerError)
		return
	}
	if apps == nil {
		apps = []domain.Application{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": apps})
}

func (h *TrackerHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	app, err := h.service.Get(r.Context(), r.PathValue("id"), userID)
	if errors.Is(err, domain.ErrApplicationNotFound) {
		http.Error(w, "application not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to fetch application", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(app)
}

func (h *TrackerHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var app domain.Application
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		http.Error(w, "invalid application payload", http.StatusBadRequest)
		return
	}
	app.ID = r.PathValue("id")

	err := h.service.Update(r.Context(), userID, &app)
	if errors.Is(err, domain.ErrApplicationNotFound) {
		http.Error(w, "application not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to update application", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(app)
}

func (h *TrackerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	err := h.service.Delete(r.Context(), r.PathValue("id"), userID)
	if errors.Is(err, domain.ErrApplicationNotFound) {
		http.Error(w, "application not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to delete application", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Import accepts a .json file upload plus a merge strategy and runs the
// normalizer. Parse and shape errors surface with readable messages.
func (h *TrackerHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".json" {
		http.Error(w, "only .json files are accepted", http.StatusBadRequest)
		return
	}

	strategy, err := application.ParseStrategy(r.FormValue("strategy"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	result, err := h.service.Import(r.Context(), userID, data, strategy)
	if errors.Is(err, domain.ErrMalformedJSON) || errors.Is(err, domain.ErrEmptyPayload) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		log.Printf("[Tracker] import failed: %v", err)
		http.Error(w, "import failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Export streams the user's collection as a downloadable JSON file.
func (h *TrackerHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	container, err := h.service.Export(r.Context(), userID)
	if err != nil {
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="job-applications-backup.json"`)
	json.NewEncoder(w).Encode(container)
}

// UploadResume stores a resume file and attaches its URL to the
// application.
func (h *TrackerHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, _, err := h.files.Upload(r.Context(), file, header, "resumes")
	if err != nil {
		log.Printf("[Tracker] resume upload failed: %v", err)
		http.Error(w, "failed to store resume", http.StatusInternalServerError)
		return
	}

	id := r.PathValue("id")
	err = h.service.SetResume(r.Context(), id, userID, url)
	if errors.Is(err, domain.ErrApplicationNotFound) {
		http.Error(w, "application not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to attach resume", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"resume":      url,
		"uploaded_at": time.Now().Format(time.RFC3339),
	})
}
