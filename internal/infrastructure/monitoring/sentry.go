package monitoring

import (
	"errors"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/kidpech/runtime_logviewer/internal/config"
	"github.com/kidpech/runtime_logviewer/internal/domain/logcapture"
)

// InitSentry configures sentry if DSN provided.
func InitSentry(cfg config.MonitoringConfig, app config.AppConfig) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Release:          app.Version,
		Environment:      app.Env,
		TracesSampleRate: cfg.SentrySampleRate,
	})
}

// ReportExportFailure forwards export I/O failures. An empty history is not a
// failure and is never reported.
func ReportExportFailure(err error) {
	if err == nil || errors.Is(err, logcapture.ErrNothingToExport) {
		return
	}
	sentry.CaptureException(err)
}

// Flush ensures buffered events ship.
func Flush() {
	sentry.Flush(2 * time.Second)
}
