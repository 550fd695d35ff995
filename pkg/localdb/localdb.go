// Package localdb persists submitted checklist entries in an on-device SQLite
// file. The table is an append-only log: every submit adds one row per
// service, duplicates included.
package localdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"netcheck/pkg/model"
)

const schema = `CREATE TABLE IF NOT EXISTS form_data (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id TEXT,
	system TEXT,
	service_name TEXT,
	state TEXT,
	comment TEXT
)`

const insertSQL = `INSERT INTO form_data (task_id, system, service_name, state, comment) VALUES (?, ?, ?, ?, ?)`

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("local store closed")

// Store owns one SQLite handle.
type Store struct {
	db   *sql.DB
	path string
	log  *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Open opens (creating if needed) the database at path and ensures the schema.
// Every failure is a *SchemaError. A failure after the file was opened leaves
// the store open so the caller can still report it and Close it.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, &SchemaError{Err: fmt.Errorf("create data dir: %w", err)}
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &SchemaError{Err: fmt.Errorf("open sqlite %s: %w", path, err)}
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &SchemaError{Err: fmt.Errorf("ping sqlite %s: %w", path, err)}
	}
	s.db = db
	s.log.Debug("local store opened", zap.String("path", path))
	if err := s.EnsureSchema(ctx); err != nil {
		return s, err
	}
	return s, nil
}

// Path is the file the store was opened on.
func (s *Store) Path() string { return s.path }

// Close releases the handle. Closing twice is harmless.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// EnsureSchema creates form_data if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return &SchemaError{Err: ErrClosed}
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		s.log.Error("create form_data failed", zap.Error(err))
		return &SchemaError{Err: err}
	}
	return nil
}

// InsertEntry appends one row and returns its id.
func (s *Store) InsertEntry(ctx context.Context, e model.Entry) (int64, error) {
	if s.db == nil {
		return 0, &WriteError{Index: -1, Err: ErrClosed}
	}
	res, err := s.db.ExecContext(ctx, insertSQL, e.TaskID, e.System, e.ServiceName, e.State, e.Comment)
	if err != nil {
		return 0, &WriteError{Index: -1, Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &WriteError{Index: -1, Err: err}
	}
	return id, nil
}

// InsertBatch appends all entries in one transaction. On any failure nothing
// is written.
func (s *Store) InsertBatch(ctx context.Context, entries []model.Entry) error {
	if s.db == nil {
		return &WriteError{Index: -1, Err: ErrClosed}
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &WriteError{Index: -1, Err: fmt.Errorf("begin: %w", err)}
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		_ = tx.Rollback()
		return &WriteError{Index: -1, Err: fmt.Errorf("prepare: %w", err)}
	}
	defer stmt.Close()
	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.TaskID, e.System, e.ServiceName, e.State, e.Comment); err != nil {
			_ = tx.Rollback()
			s.log.Warn("batch insert rolled back", zap.Int("index", i), zap.Error(err))
			return &WriteError{Index: i, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &WriteError{Index: -1, Err: fmt.Errorf("commit: %w", err)}
	}
	s.log.Info("entries saved", zap.Int("count", len(entries)))
	return nil
}

// FetchAll returns every saved row in insertion order.
func (s *Store) FetchAll(ctx context.Context) ([]model.Entry, error) {
	if s.db == nil {
		return nil, &FetchError{Err: ErrClosed}
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, task_id, system, service_name, state, comment FROM form_data ORDER BY id`)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer rows.Close()
	var out []model.Entry
	for rows.Next() {
		var e model.Entry
		var taskID, system, service, state, cmnt sql.NullString
		if err := rows.Scan(&e.ID, &taskID, &system, &service, &state, &cmnt); err != nil {
			return nil, &FetchError{Err: err}
		}
		e.TaskID, e.System, e.ServiceName, e.State, e.Comment = taskID.String, system.String, service.String, state.String, cmnt.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &FetchError{Err: err}
	}
	return out, nil
}
