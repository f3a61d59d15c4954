// Package mismatch buffers unresolved match candidates and drains them
// into durable storage in batches.
package mismatch

import (
	"context"
	"sync"
	"time"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/id"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/normalize"
)

// Input carries everything known about a candidate at match-failure time.
type Input struct {
	Type           domain.PicklistType
	AttemptedValue string
	Similarity     float64
	ClosestMatches []domain.ClosestMatch
	Source         string
	ProductContext string
	AIContext      string
	RawContext     string
}

// Writer applies one buffered item durably as an atomic
// upsert-with-increment.
type Writer interface {
	UpsertMismatch(ctx context.Context, m *domain.Mismatch) error
}

// Recorder accepts mismatch observations without blocking the matching
// caller. Items accumulate in an in-memory buffer that drains on a size
// threshold, a periodic timer, or shutdown. Durability failures requeue
// the unwritten remainder of a batch; mismatches are never silently
// dropped.
type Recorder struct {
	writer Writer
	logger *logger.Logger

	bufferSize    int
	flushInterval time.Duration

	mu       sync.Mutex
	buffer   []*domain.Mismatch
	flushing bool
	started  bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewRecorder creates a recorder draining into the given writer. The
// flush timer does not run until Start is called.
func NewRecorder(writer Writer, log *logger.Logger, bufferSize int, flushInterval time.Duration) *Recorder {
	if bufferSize <= 0 {
		bufferSize = 50
	}
	if flushInterval <= 0 {
		flushInterval = 10 * time.Second
	}
	return &Recorder{
		writer:        writer,
		logger:        log,
		bufferSize:    bufferSize,
		flushInterval: flushInterval,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start launches the periodic flush loop.
func (r *Recorder) Start() {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.mu.Unlock()

	go r.run()
}

func (r *Recorder) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.Flush(context.Background()); err != nil {
				r.logger.Warn("periodic mismatch flush failed", "error", err)
			}
		case <-r.stop:
			return
		}
	}
}

// Record buffers one observation. It never blocks on durable writes and
// never reports storage failures to the caller; a full buffer triggers
// a synchronous flush whose failure is logged and retried later.
func (r *Recorder) Record(input Input) {
	normalized := normalize.DedupKey(input.AttemptedValue)
	if normalized == "" {
		return
	}

	now := time.Now()
	record := &domain.Mismatch{
		ID:              id.MustGenerate("mm"),
		Type:            input.Type,
		AttemptedValue:  input.AttemptedValue,
		NormalizedValue: normalized,
		Similarity:      input.Similarity,
		ClosestMatches:  input.ClosestMatches,
		OccurrenceCount: 1,
		FirstSeen:       now,
		LastSeen:        now,
		Source:          input.Source,
		ProductContext:  input.ProductContext,
		AIContext:       input.AIContext,
		RawContext:      input.RawContext,
	}

	r.mu.Lock()
	r.buffer = append(r.buffer, record)
	full := len(r.buffer) >= r.bufferSize
	r.mu.Unlock()

	if full {
		if err := r.Flush(context.Background()); err != nil {
			r.logger.Warn("size-triggered mismatch flush failed", "error", err)
		}
	}
}

// Pending reports how many observations await a flush.
func (r *Recorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buffer)
}

// Flush drains the buffer into durable storage. Idempotent when the
// buffer is empty; a second flush arriving while one runs returns
// immediately so overlapping timers cannot race duplicate upserts.
func (r *Recorder) Flush(ctx context.Context) error {
	r.mu.Lock()
	if r.flushing || len(r.buffer) == 0 {
		r.mu.Unlock()
		return nil
	}
	r.flushing = true
	batch := r.buffer
	r.buffer = nil
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.flushing = false
		r.mu.Unlock()
	}()

	for i, record := range batch {
		if err := r.writer.UpsertMismatch(ctx, record); err != nil {
			// Requeue the failed item and everything after it. Items
			// already written stay written, so their counts are not
			// double-incremented on retry.
			r.mu.Lock()
			r.buffer = append(batch[i:], r.buffer...)
			r.mu.Unlock()

			r.logger.Warn("mismatch flush interrupted",
				"written", i,
				"requeued", len(batch)-i,
				"error", err,
			)
			return err
		}
	}

	r.logger.Debug("mismatch buffer flushed", "count", len(batch))
	return nil
}

// Close stops the flush loop and performs a final drain so buffered
// observations survive shutdown.
func (r *Recorder) Close(ctx context.Context) error {
	r.stopOnce.Do(func() { close(r.stop) })

	r.mu.Lock()
	started := r.started
	r.mu.Unlock()
	if started {
		<-r.done
	}

	return r.Flush(ctx)
}
