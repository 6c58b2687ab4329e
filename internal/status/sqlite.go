package status

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteStore shares the process-wide handle opened by tasks.OpenSQLite.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Bootstrap(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS status_checks (
	id TEXT PRIMARY KEY,
	client_name TEXT NOT NULL,
	timestamp TEXT NOT NULL
);
	`)
	return err
}

func (s *SQLiteStore) Insert(ctx context.Context, c Check) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO status_checks (id, client_name, timestamp)
		VALUES (?, ?, ?)
	`, c.ID, c.ClientName, c.Timestamp.Format(timeLayout))
	return err
}

func (s *SQLiteStore) List(ctx context.Context) ([]Check, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_name, timestamp FROM status_checks LIMIT ?
	`, maxListSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Check, 0)
	for rows.Next() {
		var (
			c  Check
			ts string
		)
		if err := rows.Scan(&c.ID, &c.ClientName, &ts); err != nil {
			return nil, err
		}
		c.Timestamp, err = time.Parse(timeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("status check %s: parse timestamp: %w", c.ID, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
