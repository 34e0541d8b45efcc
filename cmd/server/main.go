package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/captainhq/captain-backend/internal/gateway"
	"github.com/captainhq/captain-backend/internal/gateway/middleware"
	"github.com/captainhq/captain-backend/internal/modules/auth"
	"github.com/captainhq/captain-backend/internal/modules/backup"
	"github.com/captainhq/captain-backend/internal/modules/filestorage"
	"github.com/captainhq/captain-backend/internal/modules/notification"
	"github.com/captainhq/captain-backend/internal/modules/tracker"
	"github.com/captainhq/captain-backend/internal/modules/user"
	"github.com/captainhq/captain-backend/internal/shared/infrastructure/config"
	"github.com/captainhq/captain-backend/internal/shared/infrastructure/database"
	"github.com/captainhq/captain-backend/internal/shared/infrastructure/localstore"
	"github.com/captainhq/captain-backend/pkg/migration"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	log.Println("Connecting to DB...")
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.Close()
	log.Printf("Database Connected Successfully!")

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := migration.AutoMigrate(cfg.Database.URL(), migrationsPath, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := database.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	local := localstore.NewStore(redisClient)

	publicBaseURL := os.Getenv("PUBLIC_BASE_URL")
	if publicBaseURL == "" {
		publicBaseURL = "http://localhost:" + cfg.Server.Port
	}

	fileModule, err := filestorage.NewModule(ctx, cfg.FileStorage, publicBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	authModule, err := auth.NewModule(db, cfg.JWT.Secret, cfg.JWT.Expiry, fileModule.Service(), cfg.Google.ClientID)
	if err != nil {
		log.Fatalf("Failed to initialize auth module: %v", err)
	}

	userModule := user.NewModule(authModule.UserRepository(), fileModule.Service())
	trackerModule := tracker.NewModule(db, local, fileModule.Service())
	notificationModule := notification.NewModule(db, local)
	backupModule := backup.NewModule(local, authModule.ModeSource(), notificationModule.Service(), cfg.Backup.ReminderInterval)

	backupModule.StartScheduler()

	routerConfig := gateway.RouterConfig{
		AuthHandler:         authModule.HTTPHandler(),
		AuthMiddleware:      middleware.NewAuthMiddleware(cfg.JWT.Secret),
		UserHandler:         userModule.HTTPHandler(),
		TrackerHandler:      trackerModule.HTTPHandler(),
		NotificationHandler: notificationModule.HTTPHandler(),
		BackupHandler:       backupModule.HTTPHandler(),
	}

	mux := gateway.SetupRoutes(routerConfig)

	var handler http.Handler = mux
	handler = middleware.PrometheusMiddleware(handler)
	handler = middleware.CORSMiddleware(handler, cfg.Server.AllowedOrigins)

	server := gateway.NewServer(cfg.Server.Port, handler)
	server.OnShutdown(backupModule.StopScheduler)
	server.OnShutdown(notificationModule.Shutdown)

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
