package main

import (
	"context"
	"log"
	"os"

	"baggr-backend/config"
	"baggr-backend/database"
	"baggr-backend/firebase"
	"baggr-backend/identity"
	"baggr-backend/logger"
	"baggr-backend/routes"
	"baggr-backend/server"

	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()

	appEnv := config.GetEnv("APP_ENV", "production")
	zlog, err := logger.New(appEnv)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zlog.Sync()

	sentryEnabled, flush := logger.InitSentry(os.Getenv("SENTRY_DSN"), appEnv)
	defer flush()

	if err := config.ValidateEnv(); err != nil {
		zlog.Fatal("environment validation failed", zap.Error(err))
	}
	cfg := config.LoadDirectoryConfig()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.MigrateDirectory(db); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	deps := routes.DirectoryDeps{
		DB:       db,
		Config:   cfg,
		Identity: identity.NewClient(cfg.IdentityServiceURL, cfg.IdentityTimeout),
	}
	// Assigned only on success so a nil *Storage never hides in the interface.
	storage, err := firebase.New(context.Background(), os.Getenv("FIREBASE_STORAGE_BUCKET"), os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	if err != nil {
		zlog.Warn("file storage unavailable, uploads will fail", zap.Error(err))
	} else {
		deps.Storage = storage
	}

	r := server.NewEngine(server.Options{
		AppEnv:      appEnv,
		Sentry:      sentryEnabled,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      zlog,
	})
	routes.SetupDirectoryRoutes(r, deps)

	zlog.Info("identity provider", zap.String("url", cfg.IdentityServiceURL), zap.Duration("timeout", cfg.IdentityTimeout))
	server.Run("directory", server.Addr(cfg.Port), r, db, zlog)
}
