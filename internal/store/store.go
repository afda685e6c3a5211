// Package store persists named IR codes through the key-value
// collaborator. Layout mirrors the firmware's NVS namespace: one
// "code_<name>" key per record plus a comma-joined "code_list" index in
// insertion order.
package store

import (
	"log"
	"strings"

	"github.com/hpungsan/irdeck/internal/code"
	"github.com/hpungsan/irdeck/internal/config"
	"github.com/hpungsan/irdeck/internal/db"
	"github.com/hpungsan/irdeck/internal/errors"
)

const (
	// Namespace is the kv namespace learned codes live under.
	Namespace = "ir_codes"

	keyPrefix = "code_"
	indexKey  = "code_list"
)

// Store is the code store. It owns the index invariants: no duplicate
// names, index length equals entry count, never more than MaxCodes
// entries. It is accessed from the worker thread and from dispatch calls
// documented as running with the worker quiesced; it does not lock.
type Store struct {
	kv       db.KV
	maxCodes int
	maxName  int
}

// Entry is one listed code.
type Entry struct {
	Name    string       `json:"name"`
	Command code.Command `json:"command"`
}

// New creates a store over the kv collaborator.
func New(kv db.KV, cfg *config.Config) *Store {
	return &Store{
		kv:       kv,
		maxCodes: cfg.MaxCodes,
		maxName:  cfg.MaxNameBytes,
	}
}

// TruncateName applies the store's name discipline; exported so callers
// (send, delete) address entries exactly the way Save keyed them.
func (s *Store) TruncateName(name string) string {
	return code.TruncateName(name, s.maxName)
}

// Save persists a named command. An existing truncated name is
// overwritten in place and the index is untouched; a new name appends to
// the index unless the store is at capacity. The entry is written before
// the index so a failure between the two writes leaves no index
// reference to a missing entry; re-running the save repairs the rest.
func (s *Store) Save(name string, cmd code.Command) error {
	truncated := s.TruncateName(name)
	if truncated == "" {
		return errors.NewInvalidRequest("code name must not be empty")
	}
	if truncated != strings.TrimSpace(name) {
		log.Printf("code name %q stored under key %q (%d byte key limit)", name, truncated, s.maxName)
	}

	record, err := cmd.MarshalRecord()
	if err != nil {
		return errors.NewInternal(err)
	}

	index, err := s.index()
	if err != nil {
		return err
	}
	exists := false
	for _, existing := range index {
		if existing == truncated {
			exists = true
			break
		}
	}
	if !exists && s.maxCodes > 0 && len(index) >= s.maxCodes {
		return errors.NewStoreFull(s.maxCodes)
	}

	if err := s.kv.Set(keyPrefix+truncated, record); err != nil {
		return errors.NewBackendWriteFailed(err)
	}
	if !exists {
		if err := s.writeIndex(append(index, truncated)); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a code and its index reference, reporting whether
// anything was removed. Deleting the last entry leaves an empty-but-valid
// store: the index key is erased, not an error state. The index reference
// goes first, the mirror of Save's ordering: a failure between the two
// writes leaves at worst an unindexed record, and re-running the delete
// finishes the job.
func (s *Store) Delete(name string) (bool, error) {
	truncated := s.TruncateName(name)

	if _, found, err := s.kv.Get(keyPrefix + truncated); err != nil {
		return false, errors.NewInternal(err)
	} else if !found {
		return false, nil
	}

	index, err := s.index()
	if err != nil {
		return false, err
	}
	remaining := make([]string, 0, len(index))
	for _, existing := range index {
		if existing != truncated {
			remaining = append(remaining, existing)
		}
	}
	if len(remaining) == 0 {
		if err := s.kv.Erase(indexKey); err != nil {
			return false, errors.NewBackendWriteFailed(err)
		}
	} else if err := s.writeIndex(remaining); err != nil {
		return false, err
	}

	if err := s.kv.Erase(keyPrefix + truncated); err != nil {
		return false, errors.NewBackendWriteFailed(err)
	}
	return true, nil
}

// DeleteAll clears every entry and the index.
func (s *Store) DeleteAll() error {
	if err := s.kv.EraseAll(); err != nil {
		return errors.NewBackendWriteFailed(err)
	}
	return nil
}

// Get looks up one code by name, applying the same truncation as Save.
func (s *Store) Get(name string) (code.Command, error) {
	truncated := s.TruncateName(name)
	record, found, err := s.kv.Get(keyPrefix + truncated)
	if err != nil {
		return code.Command{}, errors.NewInternal(err)
	}
	if !found {
		return code.Command{}, errors.NewNotFound(truncated)
	}
	cmd, err := code.UnmarshalRecord(record)
	if err != nil {
		return code.Command{}, errors.NewInternal(err)
	}
	return cmd, nil
}

// List returns entries in index (insertion) order. Entries whose
// underlying record is missing or corrupt are skipped with a log line,
// never fatal.
func (s *Store) List() ([]Entry, error) {
	index, err := s.index()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(index))
	for _, name := range index {
		record, found, err := s.kv.Get(keyPrefix + name)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		if !found {
			log.Printf("code %q is indexed but has no record, skipping", name)
			continue
		}
		cmd, err := code.UnmarshalRecord(record)
		if err != nil {
			log.Printf("code %q has a corrupt record, skipping: %v", name, err)
			continue
		}
		entries = append(entries, Entry{Name: name, Command: cmd})
	}
	return entries, nil
}

// Count returns the number of indexed codes.
func (s *Store) Count() (int, error) {
	index, err := s.index()
	if err != nil {
		return 0, err
	}
	return len(index), nil
}

// MaxCodes returns the configured capacity.
func (s *Store) MaxCodes() int { return s.maxCodes }

// index reads the insertion-order name list.
func (s *Store) index() ([]string, error) {
	raw, found, err := s.kv.Get(indexKey)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if !found || raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) writeIndex(index []string) error {
	if err := s.kv.Set(indexKey, strings.Join(index, ",")); err != nil {
		return errors.NewBackendWriteFailed(err)
	}
	return nil
}
