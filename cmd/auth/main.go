package main

import (
	"context"
	"log"
	"os"
	"time"

	"baggr-backend/config"
	"baggr-backend/database"
	"baggr-backend/firebase"
	"baggr-backend/logger"
	"baggr-backend/middleware"
	"baggr-backend/routes"
	"baggr-backend/server"
	"baggr-backend/utils"

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

	if err := config.ValidateAuthEnv(); err != nil {
		zlog.Fatal("environment validation failed", zap.Error(err))
	}
	cfg := config.LoadAuthConfig()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.MigrateAuth(db); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}
	if config.GetBool("CREATE_DEFAULT_STAFF", true) {
		if err := database.CreateDefaultStaff(db); err != nil {
			zlog.Warn("could not create default staff user", zap.Error(err))
		}
	}

	limiter := middleware.NewRateLimiter(
		config.GetInt("AUTH_RATE_LIMIT_BURST", 10),
		config.GetDuration("AUTH_RATE_LIMIT_WINDOW", time.Minute),
	)
	defer limiter.Stop()

	deps := routes.AuthDeps{
		DB:      db,
		Config:  cfg,
		Mailer:  utils.SMTPMailer{Config: utils.GetEmailConfig()},
		Limiter: limiter,
	}
	storage, err := firebase.New(context.Background(), os.Getenv("FIREBASE_STORAGE_BUCKET"), os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	if err != nil {
		zlog.Warn("file storage unavailable, profile pictures cannot be uploaded", zap.Error(err))
	} else {
		deps.Storage = storage
	}

	r := server.NewEngine(server.Options{
		AppEnv:      appEnv,
		Sentry:      sentryEnabled,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      zlog,
	})
	routes.SetupAuthRoutes(r, deps)

	server.Run("auth", server.Addr(cfg.Port), r, db, zlog)
}
