package domain

import (
	"time"

	"github.com/google/uuid"
)

type BrowserPermission string

const (
	PermissionDefault BrowserPermission = "default"
	PermissionGranted BrowserPermission = "granted"
	PermissionDenied  BrowserPermission = "denied"
)

// Settings holds a user's notification delivery preferences. Email delivery
// is a placeholder carried for forward compatibility; nothing sends email.
type Settings struct {
	UserID               uuid.UUID         `json:"user_id" db:"user_id"`
	Enabled              bool              `json:"enabled" db:"enabled"`
	BrowserNotifications bool              `json:"browser_notifications" db:"browser_notifications"`
	InAppNotifications   bool              `json:"in_app_notifications" db:"in_app_notifications"`
	EmailNotifications   bool              `json:"email_notifications" db:"email_notifications"`
	DefaultReminderTime  string            `json:"default_reminder_time" db:"default_reminder_time"`
	NotifyOnNewEvents    bool              `json:"notify_on_new_events" db:"notify_on_new_events"`
	NotifyOnEventUpdates bool              `json:"notify_on_event_updates" db:"notify_on_event_updates"`
	NotifyOnReminders    bool              `json:"notify_on_event_reminders" db:"notify_on_event_reminders"`
	NotifyOnSystem       bool              `json:"notify_on_system_updates" db:"notify_on_system_updates"`
	BrowserPermission    BrowserPermission `json:"browser_permission" db:"browser_permission"`
	UpdatedAt            time.Time         `json:"updated_at" db:"updated_at"`
}

// DefaultSettings returns the preferences a new user starts with.
func DefaultSettings(userID uuid.UUID) Settings {
	return Settings{
		UserID:               userID,
		Enabled:              true,
		BrowserNotifications: false,
		InAppNotifications:   true,
		EmailNotifications:   false,
		DefaultReminderTime:  "30",
		NotifyOnNewEvents:    true,
		NotifyOnEventUpdates: true,
		NotifyOnReminders:    true,
		NotifyOnSystem:       true,
		BrowserPermission:    PermissionDefault,
	}
}

// Allows reports whether a notification of the given type may be created.
// Enabled=false suppresses everything; category gates apply on top.
// Achievement, level-up and test notifications have no category gate.
func (s Settings) Allows(t NotificationType) bool {
	if !s.Enabled {
		return false
	}
	switch t {
	case NotificationTypeNewEvent:
		return s.NotifyOnNewEvents
	case NotificationTypeEventUpdate:
		return s.NotifyOnEventUpdates
	case NotificationTypeEventReminder:
		return s.NotifyOnReminders
	case NotificationTypeSystem:
		return s.NotifyOnSystem
	default:
		return true
	}
}
