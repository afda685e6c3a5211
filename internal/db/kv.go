package db

import (
	"database/sql"
	"fmt"
	"time"
)

// KV is the persistent key-value collaborator scoped to a fixed namespace.
// It mirrors the settings interface the capture firmware stores codes
// under: get/set/erase plus a namespace-wide wipe.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Erase(key string) error
	EraseAll() error
}

// SQLiteKV implements KV on the shared sqlite handle.
type SQLiteKV struct {
	db        *sql.DB
	namespace string
}

// NewKV returns a KV scoped to the given namespace.
func NewKV(database *sql.DB, namespace string) *SQLiteKV {
	return &SQLiteKV{db: database, namespace: namespace}
}

// Get returns the value for key, and whether it existed.
func (s *SQLiteKV) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM kv WHERE namespace = ? AND key = ?`,
		s.namespace, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %s/%s: %w", s.namespace, key, err)
	}
	return value, true, nil
}

// Set writes or overwrites the value for key.
func (s *SQLiteKV) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.namespace, key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("kv set %s/%s: %w", s.namespace, key, err)
	}
	return nil
}

// Erase removes key. Erasing an absent key is not an error.
func (s *SQLiteKV) Erase(key string) error {
	_, err := s.db.Exec(
		`DELETE FROM kv WHERE namespace = ? AND key = ?`,
		s.namespace, key,
	)
	if err != nil {
		return fmt.Errorf("kv erase %s/%s: %w", s.namespace, key, err)
	}
	return nil
}

// EraseAll removes every key in the namespace.
func (s *SQLiteKV) EraseAll() error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE namespace = ?`, s.namespace)
	if err != nil {
		return fmt.Errorf("kv erase namespace %s: %w", s.namespace, err)
	}
	return nil
}
