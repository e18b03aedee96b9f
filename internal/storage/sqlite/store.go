// Package sqlite provides a SQLite-backed KV store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/valuechain/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS set_members (
	key    TEXT NOT NULL,
	member TEXT NOT NULL,
	seq    INTEGER NOT NULL,
	PRIMARY KEY (key, member)
);
CREATE TABLE IF NOT EXISTS list_entries (
	key    TEXT NOT NULL,
	seq    INTEGER NOT NULL,
	member TEXT NOT NULL,
	PRIMARY KEY (key, seq)
);
`

// Store implements storage.KV over a single SQLite file.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite-backed store and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get decodes the value at key into out.
func (s *Store) Get(ctx context.Context, key string, out any) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	var payload []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("select %q: %w", key, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("unmarshal %q: %w", key, err)
	}
	return nil
}

// Set stores value at key.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, payload)
	if err != nil {
		return fmt.Errorf("upsert %q: %w", key, err)
	}
	return nil
}

// SAdd adds member to the set at key.
func (s *Store) SAdd(ctx context.Context, key, member string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO set_members (key, member, seq)
		 VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM set_members WHERE key = ?))
		 ON CONFLICT (key, member) DO NOTHING`, key, member, key)
	if err != nil {
		return fmt.Errorf("sadd %q: %w", key, err)
	}
	return nil
}

// SMembers returns the members of the set at key in insertion order.
func (s *Store) SMembers(ctx context.Context, key string) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return s.queryMembers(ctx, `SELECT member FROM set_members WHERE key = ? ORDER BY seq`, key)
}

// RPush appends member to the list at key.
func (s *Store) RPush(ctx context.Context, key, member string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO list_entries (key, seq, member)
		 VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM list_entries WHERE key = ?), ?)`,
		key, key, member)
	if err != nil {
		return fmt.Errorf("rpush %q: %w", key, err)
	}
	return nil
}

// LRange returns list members from start through stop inclusive.
func (s *Store) LRange(ctx context.Context, key string, start, stop int) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	list, err := s.queryMembers(ctx, `SELECT member FROM list_entries WHERE key = ? ORDER BY seq`, key)
	if err != nil {
		return nil, err
	}
	from, to, ok := storage.ResolveRange(len(list), start, stop)
	if !ok {
		return nil, nil
	}
	return list[from:to], nil
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func (s *Store) queryMembers(ctx context.Context, query, key string) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", key, err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, fmt.Errorf("scan %q: %w", key, err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %q: %w", key, err)
	}
	return members, nil
}
