package logview

import (
	"time"

	"github.com/kidpech/runtime_logviewer/internal/domain/logcapture"
)

// PresentableEntry is a per-request copy of a captured entry handed to the
// presentation layer.
type PresentableEntry struct {
	Message   string              `json:"message"`
	Category  string              `json:"category"`
	Severity  logcapture.Severity `json:"severity"`
	Timestamp time.Time           `json:"timestamp"`
}

// Criteria selects which entries surface.
type Criteria struct {
	ShowErrors    bool
	ShowWarnings  bool
	ShowLogs      bool
	FilterText    string
	CaseSensitive bool
}

func (c Criteria) empty() bool {
	return !c.ShowErrors && !c.ShowWarnings && !c.ShowLogs && c.FilterText == ""
}

func (c Criteria) matchesSeverity(s logcapture.Severity) bool {
	switch {
	case c.ShowErrors && s <= logcapture.SeverityError:
		return true
	case c.ShowWarnings && s == logcapture.SeverityWarning:
		return true
	case c.ShowLogs && (s == logcapture.SeverityLog || s == logcapture.SeverityDisplay):
		return true
	}
	return false
}

func newPresentable(e logcapture.Entry) PresentableEntry {
	return PresentableEntry{
		Message:   e.Message,
		Category:  e.Category,
		Severity:  e.Severity,
		Timestamp: e.Timestamp,
	}
}
