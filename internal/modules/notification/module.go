package notification

import (
	"github.com/jmoiron/sqlx"

	"github.com/captainhq/captain-backend/internal/modules/notification/application"
	"github.com/captainhq/captain-backend/internal/modules/notification/infrastructure/persistence/postgres"
	"github.com/captainhq/captain-backend/internal/modules/notification/infrastructure/websocket"
	notification_http "github.com/captainhq/captain-backend/internal/modules/notification/interfaces/http"
	"github.com/captainhq/captain-backend/internal/shared/infrastructure/localstore"
)

type Module struct {
	service *application.NotificationService
	handler *notification_http.NotificationHandler
	hub     *websocket.Hub
}

func NewModule(db *sqlx.DB, local *localstore.Store) *Module {
	repo := postgres.NewPgNotificationRepository(db)
	settingsRepo := postgres.NewPgSettingsRepository(db)
	hub := websocket.NewHub()
	go hub.Run()

	service := application.NewNotificationService(repo, settingsRepo, hub, local)
	handler := notification_http.NewNotificationHandler(service, hub)

	return &Module{
		service: service,
		handler: handler,
		hub:     hub,
	}
}

func (m *Module) HTTPHandler() *notification_http.NotificationHandler {
	return m.handler
}

func (m *Module) Service() *application.NotificationService {
	return m.service
}

func (m *Module) Shutdown() {
	m.hub.Stop()
}
