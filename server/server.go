// Package server holds the HTTP plumbing shared by the directory and auth
// binaries: engine construction and graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"baggr-backend/middleware"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxMultipartMemory = 10 << 20
	shutdownTimeout    = 30 * time.Second
)

type Options struct {
	AppEnv      string
	Sentry      bool
	CORSOrigins []string
	Logger      *zap.Logger
}

// NewEngine returns a gin engine with the middleware both services share.
func NewEngine(opts Options) *gin.Engine {
	if opts.AppEnv != "development" && opts.AppEnv != "test" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// The logger sits outside Recovery so panicking requests are logged as 500s.
	if opts.Logger != nil {
		r.Use(middleware.RequestLogger(opts.Logger))
	}
	r.Use(gin.Recovery())
	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.MaxMultipartMemory = maxMultipartMemory

	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	return r
}

// Run serves handler on addr until SIGINT or SIGTERM, then drains requests
// and closes db.
func Run(name, addr string, handler http.Handler, db *gorm.DB, log *zap.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("service starting", zap.String("service", name), zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", zap.String("service", name), zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("shutting down server", zap.String("service", name))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	closeDB(db, log)
	log.Info("server exited gracefully", zap.String("service", name))
}

func closeDB(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("error closing database connection", zap.Error(err))
	}
}

// Addr turns a PORT value into a listen address.
func Addr(port string) string {
	if port == "" {
		port = "8000"
	}
	return ":" + port
}
