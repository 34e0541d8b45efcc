package backup

import (
	"time"

	"github.com/captainhq/captain-backend/internal/modules/backup/application"
	backup_http "github.com/captainhq/captain-backend/internal/modules/backup/interfaces/http"
	"github.com/captainhq/captain-backend/internal/shared/infrastructure/localstore"
)

type Module struct {
	service   *application.BackupService
	scheduler *application.ReminderScheduler
	handler   *backup_http.BackupHandler
}

func NewModule(local *localstore.Store, users application.UserModeSource, notifier application.Notifier, interval time.Duration) *Module {
	service := application.NewBackupService(local, users)
	scheduler := application.NewReminderScheduler(service, notifier, interval)
	handler := backup_http.NewBackupHandler(service)

	return &Module{
		service:   service,
		scheduler: scheduler,
		handler:   handler,
	}
}

func (m *Module) HTTPHandler() *backup_http.BackupHandler {
	return m.handler
}

func (m *Module) Service() *application.BackupService {
	return m.service
}

// StartScheduler begins periodic reminder evaluation.
func (m *Module) StartScheduler() {
	m.scheduler.Start()
}

// StopScheduler cancels the pending timer and waits for completion.
func (m *Module) StopScheduler() {
	m.scheduler.Stop()
}
