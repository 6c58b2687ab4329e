package tasks

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("task not found")
	ErrTitleRequired = errors.New("title required")
)

// maxListSize caps every list read; there is no pagination beyond it.
const maxListSize = 1000

// timeLayout is the text form every backend stores timestamps in.
const timeLayout = time.RFC3339Nano

// Store is the shared handle every handler works against. Implementations must
// be safe for concurrent use; the process opens one store at startup and closes
// it at shutdown.
type Store interface {
	Insert(ctx context.Context, t Task) error
	List(ctx context.Context, f Filter) ([]Task, error)
	Get(ctx context.Context, id string) (Task, error)
	// Update applies a partial patch and returns the stored post-image. A
	// non-empty patch refreshes updated_at; an empty patch is a pure read.
	Update(ctx context.Context, id string, p Patch) (Task, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (Stats, error)
}
