package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/captainhq/captain-backend/internal/gateway/middleware"
	auth_http "github.com/captainhq/captain-backend/internal/modules/auth/interfaces/http"
	backup_http "github.com/captainhq/captain-backend/internal/modules/backup/interfaces/http"
	notification_http "github.com/captainhq/captain-backend/internal/modules/notification/interfaces/http"
	tracker_http "github.com/captainhq/captain-backend/internal/modules/tracker/interfaces/http"
	user_http "github.com/captainhq/captain-backend/internal/modules/user/interfaces/http"
)

// RouterConfig holds all the handlers and middleware needed for routing
type RouterConfig struct {
	AuthHandler         *auth_http.AuthHandler
	AuthMiddleware      *middleware.AuthMiddleWare
	UserHandler         *user_http.UserHandler
	TrackerHandler      *tracker_http.TrackerHandler
	NotificationHandler *notification_http.NotificationHandler
	BackupHandler       *backup_http.BackupHandler
}

// SetupRoutes creates and configures all application routes
func SetupRoutes(config RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	// Health Check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus Metrics Endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Auth Routes
	mux.HandleFunc("POST /register", config.AuthHandler.Register)
	mux.HandleFunc("POST /login", config.AuthHandler.Login)
	mux.HandleFunc("POST /auth/google", config.AuthHandler.GoogleLogin)
	mux.Handle("GET /me", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.AuthHandler.Me)))

	// User Routes
	mux.Handle("GET /users/profile", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.UserHandler.GetProfile)))
	mux.Handle("PATCH /users/profile", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.UserHandler.UpdateProfile)))
	mux.Handle("POST /users/profile/avatar", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.UserHandler.UploadAvatar)))

	// Application Tracker Routes
	mux.Handle("POST /applications", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.TrackerHandler.Create)))
	mux.Handle("GET /applications", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.TrackerHandler.List)))
	mux.Handle("GET /applications/export", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.TrackerHandler.Export)))
	mux.Handle("POST /applications/import", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.TrackerHandler.Import)))
	mux.Handle("GET /applications/{id}", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.TrackerHandler.Get)))
	mux.Handle("PATCH /applications/{id}", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.TrackerHandler.Update)))
	mux.Handle("DELETE /applications/{id}", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.TrackerHandler.Delete)))
	mux.Handle("POST /applications/{id}/resume", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.TrackerHandler.UploadResume)))

	// Notification Routes
	mux.Handle("GET /notifications", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.NotificationHandler.List)))
	mux.Handle("PATCH /notifications/read-all", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.NotificationHandler.MarkAllAsRead)))
	mux.Handle("GET /notifications/unread-count", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.NotificationHandler.UnreadCount)))
	mux.Handle("POST /notifications/test", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.NotificationHandler.CreateTest)))
	mux.Handle("GET /notifications/settings", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.NotificationHandler.GetSettings)))
	mux.Handle("PUT /notifications/settings", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.NotificationHandler.UpdateSettings)))
	mux.Handle("POST /notifications/permission", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.NotificationHandler.RecordPermission)))
	mux.Handle("PATCH /notifications/{id}/read", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.NotificationHandler.MarkAsRead)))
	mux.Handle("DELETE /notifications/{id}", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.NotificationHandler.Delete)))
	mux.Handle("DELETE /notifications", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.NotificationHandler.DeleteAll)))
	mux.Handle("GET /ws", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.NotificationHandler.Subscribe)))

	// Backup Routes
	mux.Handle("GET /backups/status", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.BackupHandler.Status)))
	mux.Handle("POST /backups", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.BackupHandler.RecordBackup)))

	return mux
}
