package diagnostics

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kidpech/runtime_logviewer/internal/app/console"
	"github.com/kidpech/runtime_logviewer/internal/domain/logcapture"
	"github.com/kidpech/runtime_logviewer/internal/domain/logview"
	"github.com/kidpech/runtime_logviewer/pkg/response"
)

// Handler exposes health, log views and the operator console.
type Handler struct {
	logs      *logview.Service
	console   *console.Registry
	utcOffset int
}

// NewHandler returns handler. utcOffset is applied to display timestamps.
func NewHandler(logs *logview.Service, registry *console.Registry, utcOffset int) *Handler {
	return &Handler{logs: logs, console: registry, utcOffset: utcOffset}
}

// RegisterPublic attaches non-auth endpoints.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/health", h.health)
}

// RegisterProtected attaches debug endpoints requiring operator auth.
// consoleMW guards command execution only.
func (h *Handler) RegisterProtected(rg *gin.RouterGroup, consoleMW ...gin.HandlerFunc) {
	debug := rg.Group("/debug")
	{
		debug.GET("/logs", h.filteredLogs)
		debug.GET("/logs/raw", h.rawLogs)
		debug.GET("/console", h.listCommands)
		debug.POST("/console/:command", append(consoleMW, h.runCommand)...)
	}
}

type logQuery struct {
	Errors        bool   `form:"errors"`
	Warnings      bool   `form:"warnings"`
	Logs          bool   `form:"logs"`
	Text          string `form:"q" binding:"max=256"`
	CaseSensitive bool   `form:"case_sensitive"`
}

type logItem struct {
	Message     string              `json:"message"`
	Category    string              `json:"category"`
	Severity    logcapture.Severity `json:"severity"`
	Timestamp   time.Time           `json:"timestamp"`
	DisplayTime string              `json:"display_time"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) filteredLogs(c *gin.Context) {
	var q logQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, err)
		return
	}
	entries := h.logs.Query(logview.Criteria{
		ShowErrors:    q.Errors,
		ShowWarnings:  q.Warnings,
		ShowLogs:      q.Logs,
		FilterText:    q.Text,
		CaseSensitive: q.CaseSensitive,
	})
	items := make([]logItem, len(entries))
	for i, e := range entries {
		items[i] = logItem{
			Message:     e.Message,
			Category:    e.Category,
			Severity:    e.Severity,
			Timestamp:   e.Timestamp,
			DisplayTime: logview.FormatTimestamp(e.Timestamp, h.utcOffset),
		}
	}
	c.JSON(http.StatusOK, gin.H{"logs": items, "count": len(items)})
}

func (h *Handler) rawLogs(c *gin.Context) {
	entries := h.logs.GetCapturedLogs()
	if entries == nil {
		entries = []logcapture.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"logs": entries, "count": len(entries)})
}

func (h *Handler) listCommands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"commands": h.console.List()})
}

func (h *Handler) runCommand(c *gin.Context) {
	name := c.Param("command")
	err := h.console.Execute(name)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"command": name, "status": "ok"})
	case errors.Is(err, console.ErrUnknownCommand):
		response.NotFound(c, "command")
	case errors.Is(err, logcapture.ErrNothingToExport):
		c.JSON(http.StatusOK, gin.H{"command": name, "status": "nothing_to_export"})
	default:
		response.InternalServerError(c, err)
	}
}
