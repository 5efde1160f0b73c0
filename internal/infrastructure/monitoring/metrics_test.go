package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/kidpech/runtime_logviewer/internal/domain/logcapture"
)

func TestCaptureRecorderCountsStoreActivity(t *testing.T) {
	rec := NewCaptureRecorder()
	store := logcapture.NewStore(1, nil, rec)

	beforeWarn := testutil.ToFloat64(capturedCounter.WithLabelValues("Warning"))
	beforeEvict := testutil.ToFloat64(evictedCounter)

	store.Append("first", logcapture.SeverityWarning, "Test")
	store.Append("second", logcapture.SeverityWarning, "Test")

	require.Equal(t, beforeWarn+2, testutil.ToFloat64(capturedCounter.WithLabelValues("Warning")))
	require.Equal(t, beforeEvict+1, testutil.ToFloat64(evictedCounter))

	beforeUnavailable := testutil.ToFloat64(exportCounter.WithLabelValues("error"))
	_, err := store.ExportToFile("")
	require.ErrorIs(t, err, logcapture.ErrExportUnavailable)
	require.Equal(t, beforeUnavailable, testutil.ToFloat64(exportCounter.WithLabelValues("error")))
}

func TestInitIsIdempotent(t *testing.T) {
	require.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestReportExportFailureIgnoresEmptyHistory(t *testing.T) {
	require.NotPanics(t, func() {
		ReportExportFailure(nil)
		ReportExportFailure(logcapture.ErrNothingToExport)
	})
}
