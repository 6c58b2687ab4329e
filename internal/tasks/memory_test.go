package tasks

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := New("first", "", PriorityHigh)
	b := New("second", "desc", PriorityLow)
	for _, task := range []Task{a, b} {
		if err := store.Insert(ctx, task); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := store.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "first" || got.Priority != PriorityHigh {
		t.Fatalf("bad task: %+v", got)
	}

	list, err := store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(list))
	}
	if list[0].ID != a.ID || list[1].ID != b.ID {
		t.Fatalf("expected insertion order, got %+v", list)
	}

	if err := store.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryStore_Update(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	task := New("original", "", PriorityMedium)
	if err := store.Insert(ctx, task); err != nil {
		t.Fatalf("insert: %v", err)
	}

	title := "renamed"
	st := StatusCompleted
	got, err := store.Update(ctx, task.ID, Patch{Title: &title, Status: &st})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "renamed" || got.Status != StatusCompleted {
		t.Fatalf("patch not applied: %+v", got)
	}
	if got.Priority != PriorityMedium {
		t.Fatalf("unpatched field changed: %+v", got)
	}
	if !got.UpdatedAt.After(task.UpdatedAt) {
		t.Fatalf("updated_at did not advance: %v -> %v", task.UpdatedAt, got.UpdatedAt)
	}

	unchanged, err := store.Update(ctx, task.ID, Patch{})
	if err != nil {
		t.Fatalf("empty patch: %v", err)
	}
	if !unchanged.UpdatedAt.Equal(got.UpdatedAt) {
		t.Fatalf("empty patch moved updated_at")
	}

	if _, err := store.Update(ctx, "missing", Patch{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_FilterAndStats(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, s := range []struct {
		priority Priority
		status   Status
	}{
		{PriorityHigh, StatusPending},
		{PriorityHigh, StatusInProgress},
		{PriorityMedium, StatusCompleted},
	} {
		task := New("t", "", s.priority)
		task.Status = s.status
		if err := store.Insert(ctx, task); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	high := PriorityHigh
	list, err := store.List(ctx, Filter{Priority: &high})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 high tasks, got %d", len(list))
	}

	pending := StatusPending
	list, err = store.List(ctx, Filter{Priority: &high, Status: &pending})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 high+pending task, got %d", len(list))
	}

	st, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := Stats{Total: 3, Pending: 1, InProgress: 1, Completed: 1, HighPriority: 2, MediumPriority: 1}
	if st != want {
		t.Fatalf("stats mismatch:\n got %+v\nwant %+v", st, want)
	}
}
