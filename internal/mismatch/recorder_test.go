package mismatch

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/errors"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
)

type fakeWriter struct {
	mu      sync.Mutex
	written []*domain.Mismatch
	failAt  int // fail the nth call (1-based), 0 means never
	calls   int
}

func (f *fakeWriter) UpsertMismatch(_ context.Context, m *domain.Mismatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failAt > 0 && f.calls == f.failAt {
		return errors.Unavailable("storage down")
	}
	f.written = append(f.written, m)
	return nil
}

func (f *fakeWriter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.written)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Writer: os.Stderr, Environment: "test", Level: slog.LevelError})
}

func testInput(value string) Input {
	return Input{
		Type:           domain.PicklistTypeCategory,
		AttemptedValue: value,
		Similarity:     0.42,
		Source:         "ai-verification",
	}
}

func TestRecordBuffersUntilFlush(t *testing.T) {
	writer := &fakeWriter{}
	r := NewRecorder(writer, testLogger(), 50, time.Hour)

	r.Record(testInput("Random Category"))
	r.Record(testInput("Another One"))

	assert.Equal(t, 2, r.Pending())
	assert.Zero(t, writer.count())

	require.NoError(t, r.Flush(context.Background()))
	assert.Zero(t, r.Pending())
	assert.Equal(t, 2, writer.count())
}

func TestRecordNormalizesDedupKey(t *testing.T) {
	writer := &fakeWriter{}
	r := NewRecorder(writer, testLogger(), 50, time.Hour)

	r.Record(testInput("Stainless  Steel!"))
	require.NoError(t, r.Flush(context.Background()))

	require.Equal(t, 1, writer.count())
	assert.Equal(t, "stainless steel", writer.written[0].NormalizedValue)
	assert.Equal(t, "Stainless  Steel!", writer.written[0].AttemptedValue)
	assert.Equal(t, 1, writer.written[0].OccurrenceCount)
	assert.False(t, writer.written[0].FirstSeen.IsZero())
}

func TestRecordSkipsEmptyValues(t *testing.T) {
	writer := &fakeWriter{}
	r := NewRecorder(writer, testLogger(), 50, time.Hour)

	r.Record(testInput("   "))
	r.Record(testInput("!@#"))

	assert.Zero(t, r.Pending())
}

func TestSizeThresholdTriggersSynchronousFlush(t *testing.T) {
	writer := &fakeWriter{}
	r := NewRecorder(writer, testLogger(), 3, time.Hour)

	r.Record(testInput("one"))
	r.Record(testInput("two"))
	assert.Zero(t, writer.count())

	r.Record(testInput("three"))
	assert.Equal(t, 3, writer.count())
	assert.Zero(t, r.Pending())
}

func TestFlushFailureRequeuesRemainder(t *testing.T) {
	writer := &fakeWriter{failAt: 2}
	r := NewRecorder(writer, testLogger(), 50, time.Hour)

	r.Record(testInput("first"))
	r.Record(testInput("second"))
	r.Record(testInput("third"))

	err := r.Flush(context.Background())
	require.Error(t, err)

	// First item landed; the failed one and its successor are requeued.
	assert.Equal(t, 1, writer.count())
	assert.Equal(t, 2, r.Pending())

	require.NoError(t, r.Flush(context.Background()))
	assert.Equal(t, 3, writer.count())
	assert.Zero(t, r.Pending())
	assert.Equal(t, "second", writer.written[1].AttemptedValue)
}

func TestFlushEmptyBufferIsIdempotent(t *testing.T) {
	writer := &fakeWriter{}
	r := NewRecorder(writer, testLogger(), 50, time.Hour)

	require.NoError(t, r.Flush(context.Background()))
	require.NoError(t, r.Flush(context.Background()))
	assert.Zero(t, writer.count())
}

func TestPeriodicFlush(t *testing.T) {
	writer := &fakeWriter{}
	r := NewRecorder(writer, testLogger(), 50, 20*time.Millisecond)
	r.Start()
	defer r.Close(context.Background())

	r.Record(testInput("periodic"))

	require.Eventually(t, func() bool {
		return writer.count() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestCloseFlushesBuffer(t *testing.T) {
	writer := &fakeWriter{}
	r := NewRecorder(writer, testLogger(), 50, time.Hour)
	r.Start()

	r.Record(testInput("pending at shutdown"))
	require.NoError(t, r.Close(context.Background()))

	assert.Equal(t, 1, writer.count())
}

func TestConcurrentRecord(t *testing.T) {
	writer := &fakeWriter{}
	r := NewRecorder(writer, testLogger(), 1000, time.Hour)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 10 {
				r.Record(testInput(valueFor(n, j)))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 200, r.Pending())
	require.NoError(t, r.Flush(context.Background()))
	assert.Equal(t, 200, writer.count())
}

func valueFor(worker, n int) string {
	return "value-" + string(rune('a'+worker)) + "-" + string(rune('0'+n))
}
