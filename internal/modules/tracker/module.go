package tracker

import (
	"github.com/jmoiron/sqlx"

	filestorage "github.com/captainhq/captain-backend/internal/modules/filestorage/application"
	"github.com/captainhq/captain-backend/internal/modules/tracker/application"
	"github.com/captainhq/captain-backend/internal/modules/tracker/infrastructure/persistence/postgres"
	tracker_http "github.com/captainhq/captain-backend/internal/modules/tracker/interfaces/http"
	"github.com/captainhq/captain-backend/internal/shared/infrastructure/localstore"
)

type Module struct {
	service *application.TrackerService
	handler *tracker_http.TrackerHandler
}

func NewModule(db *sqlx.DB, local *localstore.Store, files *filestorage.FileService) *Module {
	repo := postgres.NewPgApplicationRepository(db)
	service := application.NewTrackerService(repo, local)
	handler := tracker_http.NewTrackerHandler(service, files)

	return &Module{
		service: service,
		handler: handler,
	}
}

func (m *Module) HTTPHandler() *tracker_http.TrackerHandler {
	return m.handler
}

func (m *Module) Service() *application.TrackerService {
	return m.service
}
