package tasks

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps tasks in a process-local map. It backs tests and the
// STORE_DRIVER=memory mode.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	store map[string]Task
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{store: make(map[string]Task)}
}

func (s *MemoryStore) Insert(_ context.Context, t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.store[t.ID] = t
	return nil
}

func (s *MemoryStore) List(_ context.Context, f Filter) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, 0, len(s.store))
	for _, id := range s.order {
		t, ok := s.store[id]
		if !ok {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if f.Priority != nil && t.Priority != *f.Priority {
			continue
		}
		out = append(out, t)
		if len(out) == maxListSize {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.store[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return t, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, p Patch) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.store[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	if p.IsEmpty() {
		return t, nil
	}

	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	t.UpdatedAt = time.Now().UTC()

	s.store[id] = t
	return t, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store[id]; !ok {
		return ErrNotFound
	}
	delete(s.store, id)
	return nil
}

func (s *MemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	for _, t := range s.store {
		st.Total++
		switch t.Status {
		case StatusPending:
			st.Pending++
		case StatusInProgress:
			st.InProgress++
		case StatusCompleted:
			st.Completed++
		}
		switch t.Priority {
		case PriorityHigh:
			st.HighPriority++
		case PriorityMedium:
			st.MediumPriority++
		case PriorityLow:
			st.LowPriority++
		}
	}
	return st, nil
}
