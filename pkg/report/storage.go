package report

import (
	"context"
	"io"
	"time"
)

// Storage persists check records. Implementations must be safe for
// concurrent use.
type Storage interface {
	// Store persists a record.
	Store(ctx context.Context, rec *Record) error

	// Get returns the record with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Query returns records matching q, newest first unless q says
	// otherwise. It returns an empty slice when nothing matches.
	Query(ctx context.Context, q *Query) ([]*Record, error)

	// Count returns the number of records matching q, ignoring pagination.
	Count(ctx context.Context, q *Query) (int64, error)

	// DeleteBefore removes records checked before cutoff and returns how
	// many were removed.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases the backend's resources.
	Close() error
}

// Exporter writes records in some format.
type Exporter interface {
	Export(ctx context.Context, records []*Record, w io.Writer) error
}
