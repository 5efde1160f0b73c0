package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kidpech/runtime_logviewer/internal/app/console"
	"github.com/kidpech/runtime_logviewer/internal/app/diagnostics"
	"github.com/kidpech/runtime_logviewer/internal/config"
	"github.com/kidpech/runtime_logviewer/internal/domain/logcapture"
	"github.com/kidpech/runtime_logviewer/internal/domain/logview"
	"github.com/kidpech/runtime_logviewer/internal/infrastructure/auth"
	"github.com/kidpech/runtime_logviewer/internal/infrastructure/ratelimit"
)

type fixture struct {
	router *gin.Engine
	store  *logcapture.Store
	dir    string
	token  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Defaults()
	cfg.Monitoring.PrometheusEnabled = false
	dir := t.TempDir()
	store := logcapture.NewStore(10, logcapture.NewExporter(dir, "viewer", zap.NewNop()), nil)
	capture := logcapture.NewService(store, nil, zap.NewNop(), false)

	registry := console.NewRegistry()
	require.NoError(t, registry.Register(console.Command{
		Name: console.ExportCommand,
		Help: "Export captured logs",
		Run:  capture.Export,
	}))

	verifier := auth.NewVerifier(cfg.Operator)
	token, err := verifier.Issue("qa", auth.RoleOperator, time.Minute)
	require.NoError(t, err)

	router := NewRouter(RouterDeps{
		Config:         cfg,
		Diagnostics:    diagnostics.NewHandler(logview.NewService(store), registry, 0),
		Verifier:       verifier,
		Logger:         zap.NewNop(),
		ConsoleLimiter: ratelimit.NewMemoryLimiter(1, 1),
	})
	return &fixture{router: router, store: store, dir: dir, token: token}
}

func (f *fixture) do(method, target string, authorized bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if authorized {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthIsPublic(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/api/v1/health", false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestLogsRequireOperator(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/v1/debug/logs", false).Code)

	viewer, err := auth.NewVerifier(config.Defaults().Operator).Issue("guest", "viewer", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/debug/logs", nil)
	req.Header.Set("Authorization", "Bearer "+viewer)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestFilteredLogsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.store.Append("Player died", logcapture.SeverityError, "Gameplay")
	f.store.Append("Loaded level", logcapture.SeverityLog, "Engine")

	rec := f.do(http.MethodGet, "/api/v1/debug/logs?errors=true&q=DIED", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Logs []struct {
			Message     string `json:"message"`
			Category    string `json:"category"`
			Severity    string `json:"severity"`
			DisplayTime string `json:"display_time"`
		} `json:"logs"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	require.Equal(t, "Player died", body.Logs[0].Message)
	require.Equal(t, "Error", body.Logs[0].Severity)
	require.NotEmpty(t, body.Logs[0].DisplayTime)

	rec = f.do(http.MethodGet, "/api/v1/debug/logs?errors=true&q=died&case_sensitive=true", true)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)

	rec = f.do(http.MethodGet, "/api/v1/debug/logs", true)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 0, body.Count)

	rec = f.do(http.MethodGet, "/api/v1/debug/logs/raw", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Loaded level")
}

func TestFilteredLogsValidation(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/api/v1/debug/logs?errors=notabool", true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConsoleExportCommand(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/debug/console/logviewer.export", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "nothing_to_export")

	f.store.Append("Player died", logcapture.SeverityError, "Gameplay")
	rec = f.do(http.MethodPost, "/api/v1/debug/console/logviewer.export", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), f.dir)

	files, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	rec = f.do(http.MethodPost, "/api/v1/debug/console/logviewer.export", true)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestConsoleUnknownAndList(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/api/v1/debug/console/nope", true).Code)

	rec := f.do(http.MethodGet, "/api/v1/debug/console", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), console.ExportCommand)
}
