package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"mercator-hq/verity/pkg/report"
	"mercator-hq/verity/pkg/report/storage"
)

func TestRecorder_CloseDrains(t *testing.T) {
	store := storage.NewMemoryStorage()
	r := New(store, &Config{AsyncBuffer: 100})

	for i := 0; i < 50; i++ {
		rec := &report.Record{ID: fmt.Sprintf("r%02d", i), CheckedAt: time.Now()}
		if err := r.Record(context.Background(), rec); err != nil {
			t.Fatalf("Record(%d) error = %v", i, err)
		}
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if store.Size() != 50 {
		t.Errorf("stored %d records, want 50", store.Size())
	}
}

func TestRecorder_RecordAfterClose(t *testing.T) {
	r := New(storage.NewMemoryStorage(), nil)
	r.Close()
	r.Close()

	err := r.Record(context.Background(), &report.Record{ID: "late"})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Record() after Close error = %v, want ErrClosed", err)
	}
}

type failingStorage struct {
	report.Storage
}

func (failingStorage) Store(context.Context, *report.Record) error {
	return errors.New("disk full")
}

func TestRecorder_OnError(t *testing.T) {
	r := New(failingStorage{Storage: storage.NewMemoryStorage()}, nil)

	var mu sync.Mutex
	var ops []string
	r.OnError(func(op string, err error) {
		mu.Lock()
		defer mu.Unlock()
		ops = append(ops, op)
	})

	if err := r.Record(context.Background(), &report.Record{ID: "x"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	r.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(ops) != 1 || ops[0] != "store" {
		t.Errorf("OnError ops = %v, want [store]", ops)
	}
}

func TestNew_Defaults(t *testing.T) {
	r := New(storage.NewMemoryStorage(), &Config{})
	defer r.Close()

	if r.config.AsyncBuffer != DefaultAsyncBuffer {
		t.Errorf("AsyncBuffer = %d, want %d", r.config.AsyncBuffer, DefaultAsyncBuffer)
	}
	if r.config.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %v, want %v", r.config.WriteTimeout, DefaultWriteTimeout)
	}
}
