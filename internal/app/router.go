package app

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kidpech/runtime_logviewer/internal/app/diagnostics"
	"github.com/kidpech/runtime_logviewer/internal/app/middleware"
	"github.com/kidpech/runtime_logviewer/internal/config"
	"github.com/kidpech/runtime_logviewer/internal/infrastructure/auth"
	"github.com/kidpech/runtime_logviewer/internal/infrastructure/ratelimit"
)

// RouterDeps aggregates HTTP dependencies.
type RouterDeps struct {
	Config         *config.Config
	Diagnostics    *diagnostics.Handler
	Verifier       *auth.Verifier
	Logger         *zap.Logger
	ConsoleLimiter ratelimit.Limiter
}

// NewRouter builds the gin engine.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config != nil && deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if deps.Config != nil {
		r.Use(middleware.CORS(deps.Config.Cors))
	}
	r.Use(middleware.RequestLogger(deps.Logger))

	var operatorMW gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if deps.Verifier != nil {
		operatorMW = middleware.OperatorOnly(deps.Verifier)
	}

	api := r.Group("/api/v1")
	deps.Diagnostics.RegisterPublic(api)

	protected := r.Group("/api/v1")
	protected.Use(operatorMW)
	deps.Diagnostics.RegisterProtected(protected, middleware.RateLimit(deps.ConsoleLimiter))

	if deps.Config == nil || deps.Config.Monitoring.PrometheusEnabled {
		api.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return r
}
