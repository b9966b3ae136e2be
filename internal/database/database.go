// Package database holds the local sqlite state that must survive
// restarts: the log of expiry notifications already sent.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS notification_log (
	period_end TEXT NOT NULL,
	threshold  TEXT NOT NULL,
	sent_at    TIMESTAMP NOT NULL,
	PRIMARY KEY (period_end, threshold)
);`

// DB wraps the sqlite connection.
type DB struct {
	sql *sql.DB
}

// NewDB opens (creating if needed) the sqlite database at path.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &DB{sql: conn}, nil
}

// WasSent reports whether the expiry notice for (periodEnd, threshold)
// was already delivered.
func (db *DB) WasSent(ctx context.Context, periodEnd, threshold string) (bool, error) {
	var n int
	err := db.sql.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM notification_log WHERE period_end = ? AND threshold = ?`,
		periodEnd, threshold,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query notification log: %w", err)
	}
	return n > 0, nil
}

// MarkSent records a delivered expiry notice.
func (db *DB) MarkSent(ctx context.Context, periodEnd, threshold string) error {
	_, err := db.sql.ExecContext(ctx,
		`INSERT OR IGNORE INTO notification_log (period_end, threshold, sent_at) VALUES (?, ?, ?)`,
		periodEnd, threshold, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert notification log: %w", err)
	}
	return nil
}

// PingContext checks the connection for the readiness probe.
func (db *DB) PingContext(ctx context.Context) error {
	return db.sql.PingContext(ctx)
}

// Close closes the connection.
func (db *DB) Close() error {
	return db.sql.Close()
}
