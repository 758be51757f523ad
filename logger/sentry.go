package logger

import (
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// InitSentry enables error tracking when dsn is set. The returned flush
// function is safe to call either way.
func InitSentry(dsn, environment string) (enabled bool, flush func()) {
	flush = func() {}
	if dsn == "" {
		return false, flush
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
		Environment:      environment,
	}); err != nil {
		zap.L().Error("sentry init failed", zap.Error(err))
		return false, flush
	}

	return true, func() { sentry.Flush(2 * time.Second) }
}
