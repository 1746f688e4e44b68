// Package paramstore is a namespaced key/value parameter store backed by
// sqlite. The pose filter reads its static calibration priors from here
// once, at construction.
package paramstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"
)

// Store is a namespaced key/value parameter store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the parameter database at path and migrates it
// to the latest schema. Use ":memory:" for a private in-memory store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open param store: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Set stores value under namespace/key, replacing any previous value.
func (s *Store) Set(namespace, key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO params (namespace, key, value) VALUES (?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		namespace, key, value)
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", namespace, key, err)
	}
	return nil
}

// SetFloat stores a float64 parameter.
func (s *Store) SetFloat(namespace, key string, value float64) error {
	return s.Set(namespace, key, strconv.FormatFloat(value, 'g', -1, 64))
}

// Get returns the raw value under namespace/key. ok is false when the key
// is absent.
func (s *Store) Get(namespace, key string) (value string, ok bool, err error) {
	err = s.db.QueryRow(`SELECT value FROM params WHERE namespace = ? AND key = ?`, namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s/%s: %w", namespace, key, err)
	}
	return value, true, nil
}

// Float returns the float64 parameter under namespace/key, or def when it
// is absent. A value that does not parse as a number is an error.
func (s *Store) Float(namespace, key string, def float64) (float64, error) {
	raw, ok, err := s.Get(namespace, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("param %s/%s is not a number: %w", namespace, key, err)
	}
	return v, nil
}
