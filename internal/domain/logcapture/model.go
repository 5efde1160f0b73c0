package logcapture

import (
	"time"

	"github.com/kidpech/runtime_logviewer/internal/infrastructure/logging"
)

// Severity orders log importance; smaller values are more severe.
type Severity uint8

const (
	SeverityFatal Severity = iota
	SeverityError
	SeverityWarning
	SeverityDisplay
	SeverityLog
	SeverityVerbose
	SeverityVeryVerbose
)

var severityNames = [...]string{
	SeverityFatal:       "Fatal",
	SeverityError:       "Error",
	SeverityWarning:     "Warning",
	SeverityDisplay:     "Display",
	SeverityLog:         "Log",
	SeverityVerbose:     "Verbose",
	SeverityVeryVerbose: "VeryVerbose",
}

// String returns the export name of the severity.
func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return severityNames[SeverityLog]
}

// MarshalText lets severities render by name in JSON.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity is the inverse of String.
func ParseSeverity(name string) (Severity, bool) {
	for i, n := range severityNames {
		if n == name {
			return Severity(i), true
		}
	}
	return SeverityLog, false
}

// SeverityFromVerbosity maps host verbosity levels 1:1. Anything the host
// defines outside that set is coerced to SeverityLog.
func SeverityFromVerbosity(v logging.Verbosity) Severity {
	switch v {
	case logging.VerbosityFatal:
		return SeverityFatal
	case logging.VerbosityError:
		return SeverityError
	case logging.VerbosityWarning:
		return SeverityWarning
	case logging.VerbosityDisplay:
		return SeverityDisplay
	case logging.VerbosityLog:
		return SeverityLog
	case logging.VerbosityVerbose:
		return SeverityVerbose
	case logging.VerbosityVeryVerbose:
		return SeverityVeryVerbose
	default:
		return SeverityLog
	}
}

// Entry is one captured log line. Values are never mutated after capture.
type Entry struct {
	Message   string    `json:"message"`
	Category  string    `json:"category"`
	Severity  Severity  `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}
