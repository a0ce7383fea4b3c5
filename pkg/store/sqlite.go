package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS bouquets (
	id            TEXT PRIMARY KEY,
	sender_name   TEXT NOT NULL,
	receiver_name TEXT NOT NULL,
	message       TEXT NOT NULL,
	theme         TEXT NOT NULL,
	created_at    INTEGER NOT NULL
);`

// SQLiteStore keeps records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		sqliteSchema,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, rec *Record) (string, error) {
	if err := prepare(rec); err != nil {
		return "", err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bouquets (id, sender_name, receiver_name, message, theme, created_at)
		 VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		rec.ID, rec.SenderName, rec.ReceiverName, rec.Message, rec.Theme, rec.CreatedAt.UnixMilli())
	if err != nil {
		return "", storageErr(transient(err), "insert bouquet")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", storageErr(err, "insert bouquet")
	}
	if n == 0 {
		return "", conflict(rec.ID)
	}
	return rec.ID, nil
}

func (s *SQLiteStore) Fetch(ctx context.Context, id string) (*Record, error) {
	var (
		rec     Record
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, sender_name, receiver_name, message, theme, created_at
		 FROM bouquets WHERE id = ?`, id).
		Scan(&rec.ID, &rec.SenderName, &rec.ReceiverName, &rec.Message, &rec.Theme, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr(transient(err), "select bouquet")
	}
	rec.CreatedAt = time.UnixMilli(created).UTC()
	return &rec, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
