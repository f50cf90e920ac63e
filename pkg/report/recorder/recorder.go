package recorder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"mercator-hq/verity/pkg/report"
)

// Defaults.
const (
	DefaultAsyncBuffer  = 256
	DefaultWriteTimeout = 5 * time.Second
)

// ErrClosed is returned by Record after Close.
var ErrClosed = errors.New("recorder is closed")

// Config contains configuration for the recorder.
type Config struct {
	// AsyncBuffer is the capacity of the write queue.
	// Default: 256
	AsyncBuffer int

	// WriteTimeout bounds a single storage write and how long Record waits
	// for room in a full queue.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// Recorder writes records to storage asynchronously.
type Recorder struct {
	storage report.Storage
	config  Config
	queue   chan *report.Record
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	logger  *slog.Logger

	onError func(op string, err error)
}

// New creates a recorder and starts its worker. A nil config uses the
// defaults.
func New(storage report.Storage, cfg *Config) *Recorder {
	c := Config{AsyncBuffer: DefaultAsyncBuffer, WriteTimeout: DefaultWriteTimeout}
	if cfg != nil {
		if cfg.AsyncBuffer > 0 {
			c.AsyncBuffer = cfg.AsyncBuffer
		}
		if cfg.WriteTimeout > 0 {
			c.WriteTimeout = cfg.WriteTimeout
		}
	}

	r := &Recorder{
		storage: storage,
		config:  c,
		queue:   make(chan *report.Record, c.AsyncBuffer),
		done:    make(chan struct{}),
		logger:  slog.Default().With("component", "report.recorder"),
	}

	r.wg.Add(1)
	go r.worker()
	return r
}

// OnError registers fn to be told about every failed or dropped write.
// It must be called before the first Record.
func (r *Recorder) OnError(fn func(op string, err error)) {
	r.onError = fn
}

// Record enqueues rec for writing. It waits up to WriteTimeout for room in
// a full queue and fails with context.DeadlineExceeded after that.
func (r *Recorder) Record(ctx context.Context, rec *report.Record) error {
	select {
	case <-r.done:
		return ErrClosed
	default:
	}

	timer := time.NewTimer(r.config.WriteTimeout)
	defer timer.Stop()

	select {
	case r.queue <- rec:
		r.logger.Debug("report enqueued", "record_id", rec.ID)
		return nil
	case <-timer.C:
		r.logger.Error("report queue full, dropping record",
			"record_id", rec.ID,
			"queue_capacity", r.config.AsyncBuffer,
		)
		r.fail("enqueue", context.DeadlineExceeded)
		return context.DeadlineExceeded
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrClosed
	}
}

// Close stops the recorder after writing every queued record.
func (r *Recorder) Close() error {
	r.once.Do(func() {
		close(r.done)
		r.wg.Wait()
	})
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case rec := <-r.queue:
			r.write(rec)
		case <-r.done:
			for {
				select {
				case rec := <-r.queue:
					r.write(rec)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(rec *report.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	if err := r.storage.Store(ctx, rec); err != nil {
		r.logger.Error("failed to store report",
			"record_id", rec.ID,
			"rule_file", rec.RuleFile,
			"error", err,
		)
		r.fail("store", err)
		return
	}

	r.logger.Debug("report stored",
		"record_id", rec.ID,
		"status", rec.Status(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func (r *Recorder) fail(op string, err error) {
	if r.onError != nil {
		r.onError(op, err)
	}
}
