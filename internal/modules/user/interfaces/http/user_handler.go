package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/captainhq/captain-backend/internal/gateway/middleware"
	fileapp "github.com/captainhq/captain-backend/internal/modules/filestorage/application"
	"github.com/captainhq/captain-backend/internal/modules/user/application"
	"github.com/captainhq/captain-backend/internal/shared/utils"
)

const maxAvatarSize = 5 << 20 // 5 MB

// UserService defines the interface for profile operations
type UserService interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, req application.UpdateProfileRequest) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*application.ProfileResponse, error)
}

type UserHandler struct {
	service UserService
	files   *fileapp.FileService
}

func NewUserHandler(service UserService, files *fileapp.FileService) *UserHandler {
	return &UserHandler{service: service, files: files}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "user not authenticated", nil)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to load profile", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "user not authenticated", nil)
		return
	}

	var req application.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.service.UpdateProfile(r.Context(), userID, req); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to update profile", err)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to load profile", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, profile)
}

// UploadAvatar accepts a multipart image, resizes it to fit 500x500 and
// stores it as a JPEG. The old avatar, if any, is deleted.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "user not authenticated", nil)
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "failed to parse form", err)
		return
	}

	file, _, err := r.FormFile("avatar")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "avatar file is required", err)
		return
	}
	defer file.Close()

	src, err := imaging.Decode(file)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "failed to decode image", err)
		return
	}

	dst := imaging.Fit(src, 500, 500, imaging.Lanczos)
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, dst, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to encode image", err)
		return
	}

	key := fmt.Sprintf("avatars/%s.jpg", uuid.New().String())
	url, err := h.files.Storage().Put(r.Context(), key, buf, "image/jpeg")
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to upload avatar", err)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err == nil && profile.AvatarURL != nil && *profile.AvatarURL != "" {
		_ = h.files.Delete(r.Context(), *profile.AvatarURL)
	}

	if err := h.service.UpdateProfile(r.Context(), userID, application.UpdateProfileRequest{AvatarURL: &url}); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to save avatar", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"avatar_url": url})
}
