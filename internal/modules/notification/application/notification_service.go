package application

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/captainhq/captain-backend/internal/modules/notification/domain"
	"github.com/captainhq/captain-backend/internal/modules/notification/infrastructure/websocket"
	"github.com/captainhq/captain-backend/internal/shared/infrastructure/localstore"
)

// mirrorLimit caps how many records the local-storage mirror carries.
// The product keeps hundreds of notifications at most.
const mirrorLimit = 500

// NotificationService is the single source of truth for a user's
// notification list and delivery policy.
type NotificationService struct {
	repo     domain.NotificationRepository
	settings domain.SettingsRepository
	hub      *websocket.Hub
	local    *localstore.Store
}

func NewNotificationService(repo domain.NotificationRepository, settings domain.SettingsRepository, hub *websocket.Hub, local *localstore.Store) *NotificationService {
	return &NotificationService{repo: repo, settings: settings, hub: hub, local: local}
}

// Create applies the delivery policy and stores the notification.
// Returns uuid.Nil with no mutation when settings suppress the type.
// Push delivery failures are logged, never propagated.
func (s *NotificationService) Create(ctx context.Context, userID uuid.UUID, draft domain.Draft) (uuid.UUID, error) {
	if !domain.ValidType(draft.Type) {
		return uuid.Nil, domain.ErrUnknownType
	}

	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	if !settings.Allows(draft.Type) {
		return uuid.Nil, nil
	}

	return s.store(ctx, userID, draft, settings)
}

// CreateTest stores a test notification for the user. Category gates do
// not apply to test notifications; the master switch still does.
func (s *NotificationService) CreateTest(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	if !settings.Enabled {
		return uuid.Nil, nil
	}

	draft := domain.Draft{
		Type:    domain.NotificationTypeTest,
		Title:   "Test notification",
		Message: "Notifications are working. This is what they will look like.",
	}
	return s.store(ctx, userID, draft, settings)
}

func (s *NotificationService) store(ctx context.Context, userID uuid.UUID, draft domain.Draft, settings *domain.Settings) (uuid.UUID, error) {
	notification := &domain.Notification{
		ID:            uuid.New(),
		UserID:        userID,
		Type:          draft.Type,
		Title:         draft.Title,
		Message:       draft.Message,
		ActionURL:     draft.ActionURL,
		ReferenceID:   draft.ReferenceID,
		ReferenceType: draft.ReferenceType,
		IsRead:        false,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return uuid.Nil, err
	}

	s.mirror(ctx, userID)

	if settings.BrowserNotifications && settings.BrowserPermission == domain.PermissionGranted {
		if msg, err := json.Marshal(notification); err != nil {
			log.Printf("[Notifications] encode for push failed: %v", err)
		} else {
			s.hub.SendToUser(userID, msg)
		}
	}

	return notification.ID, nil
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Notification, error) {
	return s.repo.GetByUserID(ctx, userID, limit, offset)
}

// MarkRead marks one notification read. A missing id is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	err := s.repo.MarkAsRead(ctx, notificationID, userID)
	if errors.Is(err, domain.ErrNotificationNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	s.mirror(ctx, userID)
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	s.mirror(ctx, userID)
	return nil
}

// Delete removes one notification. Deleting an absent id is not an error.
func (s *NotificationService) Delete(ctx context.Context, notificationID, userID uuid.UUID) error {
	err := s.repo.Delete(ctx, notificationID, userID)
	if errors.Is(err, domain.ErrNotificationNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	s.mirror(ctx, userID)
	return nil
}

func (s *NotificationService) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteAll(ctx, userID); err != nil {
		return err
	}
	if err := s.local.Clear(ctx, userID, localstore.KeyNotifications); err != nil {
		log.Printf("[Notifications] clear mirror failed: %v", err)
	}
	return nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// GetSettings loads the user's settings, falling back to defaults for
// users who never saved any.
func (s *NotificationService) GetSettings(ctx context.Context, userID uuid.UUID) (*domain.Settings, error) {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		defaults := domain.DefaultSettings(userID)
		return &defaults, nil
	}
	return settings, nil
}

// UpdateSettings persists the new preferences and mirrors them.
func (s *NotificationService) UpdateSettings(ctx context.Context, settings *domain.Settings) error {
	settings.UpdatedAt = time.Now()
	if err := s.settings.Upsert(ctx, settings); err != nil {
		return err
	}
	if err := s.local.Set(ctx, settings.UserID, localstore.KeyNotificationSettings, settings); err != nil {
		log.Printf("[Notifications] mirror settings failed: %v", err)
	}
	return nil
}

// RecordPermission stores the outcome of the browser permission prompt.
// A denial downgrades delivery to in-app only; it is never an error.
func (s *NotificationService) RecordPermission(ctx context.Context, userID uuid.UUID, permission domain.BrowserPermission) (*domain.Settings, error) {
	switch permission {
	case domain.PermissionDefault, domain.PermissionGranted, domain.PermissionDenied:
	default:
		return nil, errors.New("invalid permission state")
	}

	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings.BrowserPermission = permission
	if permission == domain.PermissionDenied {
		settings.BrowserNotifications = false
	}

	if err := s.UpdateSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *NotificationService) GetHub() *websocket.Hub {
	return s.hub
}

// mirror write-through persists the user's full collection to the local
// adapter. Failures leave the database state authoritative.
func (s *NotificationService) mirror(ctx context.Context, userID uuid.UUID) {
	notifications, err := s.repo.GetByUserID(ctx, userID, mirrorLimit, 0)
	if err != nil {
		log.Printf("[Notifications] mirror read failed: %v", err)
		return
	}
	if err := s.local.Set(ctx, userID, localstore.KeyNotifications, notifications); err != nil {
		log.Printf("[Notifications] mirror write failed: %v", err)
	}
}
