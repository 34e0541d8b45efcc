package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/captainhq/captain-backend/internal/gateway/middleware"
	"github.com/captainhq/captain-backend/internal/modules/auth/application"
	"github.com/captainhq/captain-backend/internal/modules/auth/domain"
	fileapp "github.com/captainhq/captain-backend/internal/modules/filestorage/application"
	"github.com/captainhq/captain-backend/internal/shared/utils"
)

// AuthService defines the interface for auth operations
type AuthService interface {
	Register(ctx context.Context, req application.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req application.LoginRequest) (string, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GoogleLogin(ctx context.Context, googleClientID string, req application.GoogleLoginRequest) (string, error)
}

type AuthHandler struct {
	service        AuthService
	files          *fileapp.FileService
	googleClientID string
}

func NewAuthHandler(service AuthService, files *fileapp.FileService, googleClientID string) *AuthHandler {
	return &AuthHandler{
		service:        service,
		files:          files,
		googleClientID: googleClientID,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			utils.WriteError(w, http.StatusConflict, "user already exists", nil)
			return
		}
		utils.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	token, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			utils.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "login failed", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req application.GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	token, err := h.service.GoogleLogin(r.Context(), h.googleClientID, req)
	if err != nil {
		log.Printf("[Auth] google login failed: %v", err)
		utils.WriteError(w, http.StatusUnauthorized, err.Error(), nil)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "user not authenticated", nil)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			utils.WriteError(w, http.StatusNotFound, "user not found", nil)
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "failed to load user", err)
		return
	}

	// Swap the stored avatar URL for a short-lived download link.
	if h.files != nil && user.AvatarURL != nil && *user.AvatarURL != "" {
		key, err := h.files.Storage().KeyFromURL(*user.AvatarURL)
		if err == nil {
			presigned, err := h.files.DownloadURL(r.Context(), key, "", time.Hour)
			if err == nil {
				user.AvatarURL = &presigned
			}
		}
	}

	utils.WriteJSON(w, http.StatusOK, user)
}
