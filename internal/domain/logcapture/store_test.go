package logcapture

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kidpech/runtime_logviewer/internal/infrastructure/logging"
)

func messages(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func TestAppendEvictsOldestFirst(t *testing.T) {
	store := NewStore(3, nil, nil)
	for _, msg := range []string{"a", "b", "c", "d"} {
		store.Append(msg, SeverityLog, "Test")
	}

	require.Equal(t, []string{"b", "c", "d"}, messages(store.Snapshot()))
}

func TestAppendKeepsLastMaxCount(t *testing.T) {
	store := NewStore(10, nil, nil)
	for i := 0; i < 57; i++ {
		store.Append(fmt.Sprintf("m%d", i), SeverityLog, "Test")
		require.LessOrEqual(t, store.Len(), 10)
	}

	want := make([]string, 0, 10)
	for i := 47; i < 57; i++ {
		want = append(want, fmt.Sprintf("m%d", i))
	}
	require.Equal(t, want, messages(store.Snapshot()))
}

func TestAppendDropsEmptyMessage(t *testing.T) {
	store := NewStore(5, nil, nil)
	store.Append("kept", SeverityWarning, "Test")
	store.Append("", SeverityError, "Test")

	require.Equal(t, 1, store.Len())
}

func TestAppendStampsUTC(t *testing.T) {
	store := NewStore(5, nil, nil)
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.FixedZone("ICT", 7*3600))
	store.now = func() time.Time { return fixed }

	store.Append("stamped", SeverityDisplay, "Engine")

	entry := store.Snapshot()[0]
	require.Equal(t, time.UTC, entry.Timestamp.Location())
	require.True(t, fixed.Equal(entry.Timestamp))
	require.Equal(t, "Engine", entry.Category)
	require.Equal(t, SeverityDisplay, entry.Severity)
}

func TestNewStoreDefaultsMaxCount(t *testing.T) {
	require.Equal(t, DefaultMaxCount, NewStore(0, nil, nil).MaxCount())
	require.Equal(t, DefaultMaxCount, NewStore(-4, nil, nil).MaxCount())
}

func TestSnapshotIsIsolated(t *testing.T) {
	store := NewStore(5, nil, nil)
	store.Append("first", SeverityLog, "Test")

	snap := store.Snapshot()
	store.Append("second", SeverityLog, "Test")
	require.Equal(t, []string{"first"}, messages(snap))

	snap[0].Message = "mutated"
	require.Equal(t, []string{"first", "second"}, messages(store.Snapshot()))
}

func TestConcurrentAppend(t *testing.T) {
	const workers, perWorker = 8, 250
	store := NewStore(workers*perWorker, nil, nil)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				store.Append(fmt.Sprintf("w%d-%d", w, i), Severity(w%7), fmt.Sprintf("cat-%d", w))
			}
		}(w)
	}
	// readers run alongside producers
	largest := make(chan int, 1)
	go func() {
		max := 0
		for i := 0; i < 50; i++ {
			if n := len(store.Snapshot()); n > max {
				max = n
			}
		}
		largest <- max
	}()
	wg.Wait()
	require.LessOrEqual(t, <-largest, workers*perWorker)

	entries := store.Snapshot()
	require.Len(t, entries, workers*perWorker)

	seen := make(map[string]struct{}, len(entries))
	next := make([]int, workers)
	for _, e := range entries {
		var w, i int
		_, err := fmt.Sscanf(e.Message, "w%d-%d", &w, &i)
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("cat-%d", w), e.Category)
		require.Equal(t, Severity(w%7), e.Severity)
		require.Equal(t, next[w], i, "per-producer order must hold")
		next[w]++
		_, dup := seen[e.Message]
		require.False(t, dup)
		seen[e.Message] = struct{}{}
	}
}

type countingRecorder struct {
	mu       sync.Mutex
	captured map[Severity]int
	evicted  int
	exports  []string
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{captured: make(map[Severity]int)}
}

func (c *countingRecorder) Captured(s Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.captured[s]++
}

func (c *countingRecorder) Evicted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evicted++
}

func (c *countingRecorder) Exported(result string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exports = append(c.exports, result)
}

func TestRecorderObservesAppends(t *testing.T) {
	rec := newCountingRecorder()
	store := NewStore(2, nil, rec)
	store.Append("a", SeverityError, "Test")
	store.Append("b", SeverityWarning, "Test")
	store.Append("c", SeverityError, "Test")
	store.Append("", SeverityError, "Test")

	require.Equal(t, 2, rec.captured[SeverityError])
	require.Equal(t, 1, rec.captured[SeverityWarning])
	require.Equal(t, 1, rec.evicted)
}

func TestSeverityFromVerbosity(t *testing.T) {
	cases := map[logging.Verbosity]Severity{
		logging.VerbosityFatal:       SeverityFatal,
		logging.VerbosityError:       SeverityError,
		logging.VerbosityWarning:     SeverityWarning,
		logging.VerbosityDisplay:     SeverityDisplay,
		logging.VerbosityLog:         SeverityLog,
		logging.VerbosityVerbose:     SeverityVerbose,
		logging.VerbosityVeryVerbose: SeverityVeryVerbose,
		logging.VerbosityNone:        SeverityLog,
		logging.Verbosity(42):        SeverityLog,
		logging.Verbosity(255):       SeverityLog,
	}
	for in, want := range cases {
		require.Equal(t, want, SeverityFromVerbosity(in), "verbosity %d", in)
	}
}

func TestSeverityNamesRoundTrip(t *testing.T) {
	for s := SeverityFatal; s <= SeverityVeryVerbose; s++ {
		parsed, ok := ParseSeverity(s.String())
		require.True(t, ok)
		require.Equal(t, s, parsed)
	}
	_, ok := ParseSeverity("Trace")
	require.False(t, ok)
	require.Equal(t, "Log", Severity(99).String())
}
