package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kidpech/runtime_logviewer/internal/infrastructure/logging"
	"github.com/kidpech/runtime_logviewer/internal/infrastructure/monitoring"
)

// RequestLogger logs request info and records metrics. The log line goes
// through the capture hub like any other entry.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		logging.WithRequestID(logger, c.GetString(requestIDKey)).Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
		)
		monitoring.ObserveRequest(path, c.Request.Method, strconv.Itoa(status), latency.Seconds())
	}
}
