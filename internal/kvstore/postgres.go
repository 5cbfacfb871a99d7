package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PostgresStore implements Store on top of a single Postgres table
// (catalog_kv). It uses database/sql with parameterized queries only; the
// table is created by the migration package.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgresStore over an open connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

// Get returns the value stored under key, or ErrKeyNotFound.
func (s *PostgresStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	const q = `SELECT value FROM catalog_kv WHERE key = $1`
	var value []byte
	if err := s.db.QueryRowContext(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return json.RawMessage(value), nil
}

// Set upserts the whole value under key. Concurrent writers race on the full
// document; the last commit wins.
func (s *PostgresStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	const q = `
		INSERT INTO catalog_kv (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	_, err := s.db.ExecContext(ctx, q, key, []byte(value))
	return err
}

// Delete removes the key. Missing rows are not an error.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM catalog_kv WHERE key = $1`
	_, err := s.db.ExecContext(ctx, q, key)
	return err
}

// ScanPrefix returns all entries under the prefix in key order.
func (s *PostgresStore) ScanPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	const q = `
		SELECT key, value FROM catalog_kv
		WHERE key LIKE $1 || '%'
		ORDER BY key
	`
	rows, err := s.db.QueryContext(ctx, q, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var value []byte
		if err := rows.Scan(&e.Key, &value); err != nil {
			return nil, err
		}
		e.Value = json.RawMessage(value)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
