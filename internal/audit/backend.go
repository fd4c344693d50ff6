package audit

import (
	"context"
	"fmt"
	"sync"
)

// #region backend
// Backend persists records in append order. Append must not return until the
// record is durable.
type Backend interface {
	Append(ctx context.Context, r Record) error
	Load(ctx context.Context) ([]Record, error)
	Close() error
}

// #endregion backend

// #region memory
// MemoryBackend keeps records in process memory.
type MemoryBackend struct {
	mu      sync.Mutex
	records []Record
	closed  bool
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Append(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrBackendClosed
	}
	if n := uint64(len(m.records)); r.Sequence != n {
		return fmt.Errorf("append sequence %d: backend holds %d records", r.Sequence, n)
	}
	m.records = append(m.records, r)
	return nil
}

func (m *MemoryBackend) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrBackendClosed
	}
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// #endregion memory
