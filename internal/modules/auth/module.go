package auth

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/captainhq/captain-backend/internal/modules/auth/application"
	"github.com/captainhq/captain-backend/internal/modules/auth/infrastructure/persistence/postgres"
	auth_http "github.com/captainhq/captain-backend/internal/modules/auth/interfaces/http"
	fileapp "github.com/captainhq/captain-backend/internal/modules/filestorage/application"
)

// Module represents the Auth module
type Module struct {
	service    *application.AuthService
	repository *postgres.PgUserRepository
	handler    *auth_http.AuthHandler
	modeSource *application.ModeSource
}

// NewModule creates and initializes the Auth module
func NewModule(db *sqlx.DB, jwtSecret string, jwtExpiry time.Duration, files *fileapp.FileService, googleClientID string) (*Module, error) {
	repository := postgres.NewUserRepository(db)
	service := application.NewAuthService(repository, jwtSecret, jwtExpiry)
	handler := auth_http.NewAuthHandler(service, files, googleClientID)

	return &Module{
		service:    service,
		repository: repository,
		handler:    handler,
		modeSource: application.NewModeSource(repository),
	}, nil
}

func (m *Module) Service() *application.AuthService {
	return m.service
}

func (m *Module) UserRepository() *postgres.PgUserRepository {
	return m.repository
}

func (m *Module) HTTPHandler() *auth_http.AuthHandler {
	return m.handler
}

// ModeSource reports which accounts run in local-only mode.
func (m *Module) ModeSource() *application.ModeSource {
	return m.modeSource
}
