package logcapture

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Exporter writes snapshots as plain text into a logs directory.
type Exporter struct {
	dir     string
	appName string
	logger  *zap.Logger
	now     func() time.Time
}

// NewExporter builds an Exporter writing into dir.
func NewExporter(dir, appName string, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if appName == "" {
		appName = "app"
	}
	return &Exporter{dir: dir, appName: appName, logger: logger, now: time.Now}
}

// DefaultDir returns the per-application logs directory under the user cache
// dir, or ./logs when no cache dir is available.
func DefaultDir(appName string) string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		return "logs"
	}
	return filepath.Join(base, appName, "logs")
}

// Export writes entries oldest-first and returns the file path.
func (e *Exporter) Export(entries []Entry, name string) (string, error) {
	if len(entries) == 0 {
		e.logger.Warn("log export skipped: history is empty")
		return "", ErrNothingToExport
	}

	path := filepath.Join(e.dir, e.fileName(name))
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if err := writeLines(path, entries); err != nil {
		e.logger.Error("log export failed", zap.String("path", path), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrExportWrite, err)
	}
	e.logger.Info("log export written", zap.String("path", path), zap.Int("entries", len(entries)))
	return path, nil
}

func (e *Exporter) fileName(name string) string {
	name = strings.TrimSpace(name)
	if name != "" {
		name = filepath.Base(filepath.Clean(name))
	}
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = e.appName + "-" + e.now().Local().Format("2006.01.02-15.04.05")
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".log":
		return name
	default:
		return name + ".txt"
	}
}

func writeLines(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, entry := range entries {
		w.WriteString(FormatLine(entry))
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FormatLine renders an entry as [Timestamp][Category][Severity] Message.
func FormatLine(entry Entry) string {
	return "[" + FormatExportTime(entry.Timestamp) + "][" + entry.Category + "][" + entry.Severity.String() + "] " + entry.Message
}

// FormatExportTime renders t in UTC as YYYY.MM.DD-HH:MM:SS:mmm.
func FormatExportTime(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%04d.%02d.%02d-%02d:%02d:%02d:%03d",
		t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/int(time.Millisecond))
}
