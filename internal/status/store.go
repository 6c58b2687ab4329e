package status

import (
	"context"
	"sync"
	"time"
)

const maxListSize = 1000

const timeLayout = time.RFC3339Nano

type Store interface {
	Insert(ctx context.Context, c Check) error
	List(ctx context.Context) ([]Check, error)
}

// MemoryStore backs tests and the STORE_DRIVER=memory mode.
type MemoryStore struct {
	mu     sync.RWMutex
	checks []Check
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(_ context.Context, c Check) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks = append(s.checks, c)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Check, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.checks)
	if n > maxListSize {
		n = maxListSize
	}
	out := make([]Check, n)
	copy(out, s.checks[:n])
	return out, nil
}
