package application

import (
	"context"
	"log"
	"sync"
	"time"

	notifdomain "github.com/captainhq/captain-backend/internal/modules/notification/domain"
)

const backupReminderReference = "backup_reminder"

// ReminderScheduler periodically evaluates backup need for local-only
// users and forwards results to the notification store. It carries no
// business logic of its own.
type ReminderScheduler struct {
	service  *BackupService
	notifier Notifier
	interval time.Duration

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewReminderScheduler(service *BackupService, notifier Notifier, interval time.Duration) *ReminderScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &ReminderScheduler{
		service:  service,
		notifier: notifier,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs one evaluation immediately, then one per interval until
// Stop is called.
func (s *ReminderScheduler) Start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce()
		for {
			select {
			case <-ticker.C:
				s.runOnce()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop cancels the pending timer deterministically and waits for any
// in-flight evaluation to finish.
func (s *ReminderScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}

func (s *ReminderScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	users, err := s.service.LocalOnlyUsers(ctx)
	if err != nil {
		log.Printf("[Backup] list local-only users failed: %v", err)
		return
	}

	for _, userID := range users {
		payload, err := s.service.Status(ctx, userID)
		if err != nil {
			log.Printf("[Backup] evaluate for %s failed: %v", userID, err)
			continue
		}
		if payload == nil {
			continue
		}

		title, message := payload.Message()
		ref := backupReminderReference
		refType := "backup"
		priority := string(payload.Priority)
		_, err = s.notifier.Create(ctx, userID, notifdomain.Draft{
			Type:          notifdomain.NotificationTypeSystem,
			Title:         title,
			Message:       message,
			ReferenceID:   &ref,
			ReferenceType: &refType,
		})
		if err != nil {
			log.Printf("[Backup] notify %s (priority %s) failed: %v", userID, priority, err)
		}
	}
}
