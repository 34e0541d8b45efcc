package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/captainhq/captain-backend/internal/modules/backup/domain"
	notifdomain "github.com/captainhq/captain-backend/internal/modules/notification/domain"
	"github.com/captainhq/captain-backend/internal/shared/infrastructure/localstore"
)

// Notifier is the slice of the notification service the backup module
// needs.
type Notifier interface {
	Create(ctx context.Context, userID uuid.UUID, draft notifdomain.Draft) (uuid.UUID, error)
}

// UserModeSource reports which users keep their data local-only.
// Cloud-synced users never get backup reminders.
type UserModeSource interface {
	ListLocalOnly(ctx context.Context) ([]uuid.UUID, error)
	IsLocalOnly(ctx context.Context, userID uuid.UUID) (bool, error)
}

// BackupService gathers evaluator inputs from the local persistence
// adapter and records completed backups.
type BackupService struct {
	local *localstore.Store
	users UserModeSource
	now   func() time.Time
}

func NewBackupService(local *localstore.Store, users UserModeSource) *BackupService {
	return &BackupService{local: local, users: users, now: time.Now}
}

// Status runs the evaluator for one user. A nil payload means no
// reminder is due.
func (s *BackupService) Status(ctx context.Context, userID uuid.UUID) (*domain.ReminderPayload, error) {
	localOnly, err := s.users.IsLocalOnly(ctx, userID)
	if err != nil {
		return nil, err
	}

	var lastBackup *time.Time
	var stored time.Time
	err = s.local.Get(ctx, userID, localstore.KeyLastBackupDate, &stored)
	switch {
	case err == nil:
		lastBackup = &stored
	case errors.Is(err, localstore.ErrKeyNotFound):
		// never backed up
	default:
		return nil, err
	}

	newEntries, err := s.local.GetCounter(ctx, userID, localstore.KeyNewEntries)
	if err != nil {
		return nil, err
	}

	size, err := s.local.Size(ctx, userID, localstore.KeyJobApplications)
	if err != nil {
		return nil, err
	}

	return domain.Evaluate(lastBackup, int(newEntries), sizeLabel(size), localOnly, s.now()), nil
}

// RecordBackup marks a backup as completed now: stores the timestamp and
// resets the new-entry counter.
func (s *BackupService) RecordBackup(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	backedUpAt := s.now()
	if err := s.local.Set(ctx, userID, localstore.KeyLastBackupDate, backedUpAt); err != nil {
		return time.Time{}, err
	}
	if err := s.local.Clear(ctx, userID, localstore.KeyNewEntries); err != nil {
		log.Printf("[Backup] reset new-entry counter failed: %v", err)
	}
	return backedUpAt, nil
}

// LocalOnlyUsers lists the users the scheduler should evaluate.
func (s *BackupService) LocalOnlyUsers(ctx context.Context) ([]uuid.UUID, error) {
	return s.users.ListLocalOnly(ctx)
}

// sizeLabel renders a byte count the way the product shows it.
func sizeLabel(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}
