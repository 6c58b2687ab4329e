package status_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/taskflow/taskflow-api/internal/status"
	"github.com/taskflow/taskflow-api/internal/tasks"
)

func TestSQLiteStore_InsertListRoundTrip(t *testing.T) {
	ctx := context.Background()

	db, err := tasks.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := status.NewSQLiteStore(db)
	if err := store.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap error: %v", err)
	}

	a := status.New("probe-a")
	b := status.New("probe-b")
	for _, c := range []status.Check{a, b} {
		if err := store.Insert(ctx, c); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(list))
	}
	if list[0].ClientName != "probe-a" || list[1].ClientName != "probe-b" {
		t.Fatalf("unexpected order: %+v", list)
	}
	if !list[0].Timestamp.Equal(a.Timestamp) {
		t.Fatalf("timestamp did not survive text storage: %v vs %v", list[0].Timestamp, a.Timestamp)
	}
}
