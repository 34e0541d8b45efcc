package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/captainhq/captain-backend/internal/gateway/middleware"
	auth_http "github.com/captainhq/captain-backend/internal/modules/auth/interfaces/http"
	backup_http "github.com/captainhq/captain-backend/internal/modules/backup/interfaces/http"
	notification_http "github.com/captainhq/captain-backend/internal/modules/notification/interfaces/http"
	tracker_http "github.com/captainhq/captain-backend/internal/modules/tracker/interfaces/http"
	user_http "github.com/captainhq/captain-backend/internal/modules/user/interfaces/http"
)

func testRouterConfig() RouterConfig {
	return RouterConfig{
		AuthHandler:         &auth_http.AuthHandler{},
		AuthMiddleware:      middleware.NewAuthMiddleware("test-secret"),
		UserHandler:         &user_http.UserHandler{},
		TrackerHandler:      &tracker_http.TrackerHandler{},
		NotificationHandler: &notification_http.NotificationHandler{},
		BackupHandler:       &backup_http.BackupHandler{},
	}
}

func TestSetupRoutes(t *testing.T) {
	mux := SetupRoutes(testRouterConfig())
	if mux == nil {
		t.Fatal("Expected mux to be created, got nil")
	}
}

func TestSetupRoutes_HealthCheck(t *testing.T) {
	mux := SetupRoutes(testRouterConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if rr.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", rr.Body.String())
	}
}

func TestSetupRoutes_ProtectedRoutesRequireAuth(t *testing.T) {
	mux := SetupRoutes(testRouterConfig())

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/me"},
		{http.MethodGet, "/users/profile"},
		{http.MethodGet, "/applications"},
		{http.MethodGet, "/applications/export"},
		{http.MethodGet, "/notifications"},
		{http.MethodGet, "/notifications/settings"},
		{http.MethodGet, "/backups/status"},
	}

	for _, route := range protected {
		req := httptest.NewRequest(route.method, route.path, nil)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected %d without a token, got %d",
				route.method, route.path, http.StatusUnauthorized, rr.Code)
		}
	}
}
