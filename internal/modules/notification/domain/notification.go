package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeAchievement   NotificationType = "achievement"
	NotificationTypeLevelUp       NotificationType = "level_up"
	NotificationTypeEventReminder NotificationType = "event_reminder"
	NotificationTypeNewEvent      NotificationType = "new_event"
	NotificationTypeEventUpdate   NotificationType = "event_update"
	NotificationTypeSystem        NotificationType = "system"
	NotificationTypeTest          NotificationType = "test"
)

type Notification struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	UserID        uuid.UUID        `json:"user_id" db:"user_id"`
	Type          NotificationType `json:"type" db:"type"`
	Title         string           `json:"title" db:"title"`
	Message       string           `json:"message" db:"message"`
	ActionURL     *string          `json:"action_url,omitempty" db:"action_url"`
	ReferenceID   *string          `json:"reference_id,omitempty" db:"reference_id"`
	ReferenceType *string          `json:"reference_type,omitempty" db:"reference_type"`
	IsRead        bool             `json:"is_read" db:"is_read"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}

// Draft is what producers hand to the store; id and timestamp are
// assigned on accept.
type Draft struct {
	Type          NotificationType
	Title         string
	Message       string
	ActionURL     *string
	ReferenceID   *string
	ReferenceType *string
}

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUnknownType          = errors.New("unknown notification type")
)

func ValidType(t NotificationType) bool {
	switch t {
	case NotificationTypeAchievement, NotificationTypeLevelUp,
		NotificationTypeEventReminder, NotificationTypeNewEvent,
		NotificationTypeEventUpdate, NotificationTypeSystem,
		NotificationTypeTest:
		return true
	}
	return false
}
