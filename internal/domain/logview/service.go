package logview

import (
	"fmt"
	"strings"
	"time"

	"github.com/kidpech/runtime_logviewer/internal/domain/logcapture"
)

// Source provides point-in-time copies of the captured history.
type Source interface {
	Snapshot() []logcapture.Entry
}

// Service answers read requests from the presentation layer.
type Service struct {
	source Source
}

// NewService wires a Service.
func NewService(source Source) *Service {
	return &Service{source: source}
}

// GetCapturedLogs returns the full snapshot.
func (s *Service) GetCapturedLogs() []logcapture.Entry {
	if s.source == nil {
		return nil
	}
	return s.source.Snapshot()
}

// GetFilteredLogObjects filters with a case-insensitive substring match.
func (s *Service) GetFilteredLogObjects(showErrors, showWarnings, showLogs bool, filterText string) []PresentableEntry {
	return s.Query(Criteria{
		ShowErrors:   showErrors,
		ShowWarnings: showWarnings,
		ShowLogs:     showLogs,
		FilterText:   filterText,
	})
}

// Query filters a fresh snapshot with c.
func (s *Service) Query(c Criteria) []PresentableEntry {
	if c.empty() {
		return []PresentableEntry{}
	}
	return Filter(s.GetCapturedLogs(), c)
}

// Filter returns the entries matching c, in snapshot order. With no severity
// toggle and no text nothing is returned.
func Filter(entries []logcapture.Entry, c Criteria) []PresentableEntry {
	out := make([]PresentableEntry, 0)
	if c.empty() {
		return out
	}
	needle := c.FilterText
	if !c.CaseSensitive {
		needle = strings.ToLower(needle)
	}
	for _, e := range entries {
		if !c.matchesSeverity(e.Severity) {
			continue
		}
		if needle != "" {
			haystack := e.Message
			if !c.CaseSensitive {
				haystack = strings.ToLower(haystack)
			}
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		out = append(out, newPresentable(e))
	}
	return out
}

// FormatTimestamp shifts t (UTC) by utcOffsetHours and renders it as
// HH:MM:SS:mmm, DD/MM/YYYY.
func FormatTimestamp(t time.Time, utcOffsetHours int) string {
	t = t.UTC().Add(time.Duration(utcOffsetHours) * time.Hour)
	return fmt.Sprintf("%02d:%02d:%02d:%03d, %02d/%02d/%04d",
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/int(time.Millisecond),
		t.Day(), t.Month(), t.Year())
}
