package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger according to env. When hub is non-nil every entry
// is also fanned out to the hub's listeners.
func New(env string, hub *Hub) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if env == "development" {
		config = zap.NewDevelopmentConfig()
	}
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if hub == nil {
		return config.Build()
	}
	return config.Build(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, hub)
	}))
}

// WithRequestID attaches request context to logger.
func WithRequestID(logger *zap.Logger, requestID string) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger.With(zap.String("request_id", requestID))
}

// ReplaceGlobals ensures go-kit libs use same logger.
func ReplaceGlobals(logger *zap.Logger) {
	zap.ReplaceGlobals(logger)
}

// CaptureStdLog routes the standard library logger through logger under the
// "stdlog" category. The returned func restores the previous output.
func CaptureStdLog(logger *zap.Logger) func() {
	if logger == nil {
		return func() {}
	}
	return zap.RedirectStdLog(logger.Named("stdlog"))
}

// Sync flushes logger.
func Sync(logger *zap.Logger) {
	if logger == nil {
		return
	}
	_ = logger.Sync()
}
