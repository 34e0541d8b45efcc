package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/captainhq/captain-backend/internal/modules/notification/domain"
)

type PgSettingsRepository struct {
	db *sqlx.DB
}

func NewPgSettingsRepository(db *sqlx.DB) *PgSettingsRepository {
	return &PgSettingsRepository{db: db}
}

// Get returns nil without error when the user never saved settings;
// callers fall back to defaults.
func (r *PgSettingsRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Settings, error) {
	settings := &domain.Settings{}
	query := `SELECT * FROM notification_settings WHERE user_id = $1`

	err := r.db.GetContext(ctx, settings, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *PgSettingsRepository) Upsert(ctx context.Context, settings *domain.Settings) error {
	query := `
		INSERT INTO notification_settings (
			user_id, enabled, browser_notifications, in_app_notifications, email_notifications,
			default_reminder_time, notify_on_new_events, notify_on_event_updates,
			notify_on_event_reminders, notify_on_system_updates, browser_permission, updated_at
		) VALUES (
			:user_id, :enabled, :browser_notifications, :in_app_notifications, :email_notifications,
			:default_reminder_time, :notify_on_new_events, :notify_on_event_updates,
			:notify_on_event_reminders, :notify_on_system_updates, :browser_permission, :updated_at
		)
		ON CONFLICT (user_id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			browser_notifications = EXCLUDED.browser_notifications,
			in_app_notifications = EXCLUDED.in_app_notifications,
			email_notifications = EXCLUDED.email_notifications,
			default_reminder_time = EXCLUDED.default_reminder_time,
			notify_on_new_events = EXCLUDED.notify_on_new_events,
			notify_on_event_updates = EXCLUDED.notify_on_event_updates,
			notify_on_event_reminders = EXCLUDED.notify_on_event_reminders,
			notify_on_system_updates = EXCLUDED.notify_on_system_updates,
			browser_permission = EXCLUDED.browser_permission,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.NamedExecContext(ctx, query, settings)
	return err
}
