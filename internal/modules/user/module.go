package user

import (
	authdomain "github.com/captainhq/captain-backend/internal/modules/auth/domain"
	fileapp "github.com/captainhq/captain-backend/internal/modules/filestorage/application"
	"github.com/captainhq/captain-backend/internal/modules/user/application"
	user_http "github.com/captainhq/captain-backend/internal/modules/user/interfaces/http"
)

// Module represents the User module
type Module struct {
	service *application.UserService
	handler *user_http.UserHandler
}

// NewModule creates and initializes the User module
func NewModule(repo authdomain.UserRepository, files *fileapp.FileService) *Module {
	service := application.NewUserService(repo)
	handler := user_http.NewUserHandler(service, files)

	return &Module{
		service: service,
		handler: handler,
	}
}

// HTTPHandler returns the HTTP handler for the user module
func (m *Module) HTTPHandler() *user_http.UserHandler {
	return m.handler
}

// Service returns the user service
func (m *Module) Service() *application.UserService {
	return m.service
}
