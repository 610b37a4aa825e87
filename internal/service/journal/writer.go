// Package journal moves audit records off the request path. Records are
// queued in memory and written by a single background loop.
package journal

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/heartmarshall/ndt-conclusions/internal/domain"
)

// ErrQueueFull is returned by Log when the buffer has no room left.
var ErrQueueFull = errors.New("audit queue full")

type store interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

// Writer buffers audit records and persists them from Run.
type Writer struct {
	store   store
	queue   chan domain.AuditRecord
	timeout time.Duration
	log     *slog.Logger
}

// NewWriter creates a Writer holding up to size pending records. Each write
// to store is bounded by timeout.
func NewWriter(log *slog.Logger, store store, size int, timeout time.Duration) *Writer {
	if size < 1 {
		size = 1
	}
	return &Writer{
		store:   store,
		queue:   make(chan domain.AuditRecord, size),
		timeout: timeout,
		log:     log.With("service", "journal"),
	}
}

// Log enqueues a record without blocking.
func (w *Writer) Log(_ context.Context, record domain.AuditRecord) error {
	select {
	case w.queue <- record:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending returns the number of queued records.
func (w *Writer) Pending() int { return len(w.queue) }

// Run writes queued records until ctx is cancelled, then flushes what is
// left in the buffer and returns.
func (w *Writer) Run(ctx context.Context) error {
	for {
		select {
		case rec := <-w.queue:
			w.write(rec)
		case <-ctx.Done():
			w.flush()
			return nil
		}
	}
}

func (w *Writer) flush() {
	for {
		select {
		case rec := <-w.queue:
			w.write(rec)
		default:
			return
		}
	}
}

func (w *Writer) write(rec domain.AuditRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.store.Log(ctx, rec); err != nil {
		w.log.Warn("audit write failed",
			slog.String("action", rec.Action.String()),
			slog.String("session_id", rec.SessionID.String()),
			slog.String("conclusion_id", rec.ConclusionID.String()),
			slog.String("error", err.Error()),
		)
	}
}
