package tasks

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens the shared embedded database for the process. Both the
// tasks and status_checks stores hang off the returned handle.
func OpenSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", "file:"+filepath.ToSlash(abs)+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Bootstrap ensures the tasks table exists.
func (s *SQLiteStore) Bootstrap(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	priority TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
	`)
	return err
}

func (s *SQLiteStore) Insert(ctx context.Context, t Task) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, priority, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, t.Description, string(t.Priority), string(t.Status),
		t.CreatedAt.Format(timeLayout), t.UpdatedAt.Format(timeLayout))
	return err
}

func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]Task, error) {
	where := []string{}
	args := []any{}
	if f.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*f.Status))
	}
	if f.Priority != nil {
		where = append(where, "priority = ?")
		args = append(args, string(*f.Priority))
	}

	q := `SELECT id, title, description, priority, status, created_at, updated_at FROM tasks`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " LIMIT ?"
	args = append(args, maxListSize)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, priority, status, created_at, updated_at
		FROM tasks WHERE id = ?
	`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id string, p Patch) (Task, error) {
	if p.IsEmpty() {
		return s.Get(ctx, id)
	}

	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC().Format(timeLayout)}
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	if p.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*p.Priority))
	}
	if p.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*p.Status))
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, "UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return Task{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Task{}, err
	}
	if n == 0 {
		return Task{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var (
		st  Stats
		err error
	)
	count := func(q string, args ...any) int64 {
		if err != nil {
			return 0
		}
		var n int64
		err = s.db.QueryRowContext(ctx, q, args...).Scan(&n)
		return n
	}

	st.Total = count(`SELECT COUNT(*) FROM tasks`)
	st.Pending = count(`SELECT COUNT(*) FROM tasks WHERE status = ?`, string(StatusPending))
	st.InProgress = count(`SELECT COUNT(*) FROM tasks WHERE status = ?`, string(StatusInProgress))
	st.Completed = count(`SELECT COUNT(*) FROM tasks WHERE status = ?`, string(StatusCompleted))
	st.HighPriority = count(`SELECT COUNT(*) FROM tasks WHERE priority = ?`, string(PriorityHigh))
	st.MediumPriority = count(`SELECT COUNT(*) FROM tasks WHERE priority = ?`, string(PriorityMedium))
	st.LowPriority = count(`SELECT COUNT(*) FROM tasks WHERE priority = ?`, string(PriorityLow))
	if err != nil {
		return Stats{}, err
	}
	return st, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var (
		t                  Task
		priority, status   string
		createdAt, updated string
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &priority, &status, &createdAt, &updated); err != nil {
		return Task{}, err
	}
	return taskFromDoc(taskDoc{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    priority,
		Status:      status,
		CreatedAt:   createdAt,
		UpdatedAt:   updated,
	})
}
