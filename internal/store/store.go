// Package store implements the local cache of complaints, A/B stats
// and settings.
//
// The store owns the on-device copy of the data: one JSON file per
// logical key inside a cache directory. Every read is resilient - a
// missing file, a malformed payload or a stored null silently yields
// the documented default value, so a damaged cache can never take a
// page down.
//
// Thread-safety:
//   - All operations are protected by mutex
//   - Safe for concurrent access from multiple goroutines
//
// There is no cross-key transaction: a crash between two writes can
// leave the cache partially updated, and the next writer wins.
package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"resolvex/internal/complaint"
)

// Logical keys, each persisted as <dir>/<key>.json.
const (
	keyComplaints = "complaints"
	keyAB         = "ab"
	keySettings   = "settings"
	keySeeded     = "seeded"
)

// Store provides durable-ish keyed storage with resilient decoding.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// read decodes the stored value for key into v. It reports false when
// the key is missing, the payload is malformed or the payload decodes
// to null; in all three cases v is left untouched so the caller's
// fallback survives. read never returns an error.
func (s *Store) read(key string, v any) bool {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}
	if string(bytes.TrimSpace(raw)) == "null" {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false
	}
	return true
}

// write serializes v and persists it under key. Best effort: there is
// no durability guarantee beyond what the filesystem provides.
func (s *Store) write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(key), data, 0o644)
}

// Complaints returns the cached complaint collection. Unknown enum
// values are coerced on the way out, and a damaged cache yields an
// empty collection.
func (s *Store) Complaints() []complaint.Complaint {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []complaint.Complaint
	if !s.read(keyComplaints, &rows) || rows == nil {
		return []complaint.Complaint{}
	}
	return complaint.NormalizeAll(rows)
}

// SaveComplaints replaces the cached complaint collection.
func (s *Store) SaveComplaints(rows []complaint.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(keyComplaints, rows)
}

// AB returns the cached A/B interaction counters, zeroed when absent.
func (s *Store) AB() complaint.AbStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ab complaint.AbStats
	s.read(keyAB, &ab)
	return ab
}

// SaveAB replaces the cached A/B counters.
func (s *Store) SaveAB(ab complaint.AbStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(keyAB, ab)
}

// Settings returns the cached settings merged onto the defaults.
// A partially populated payload can never produce a missing field.
func (s *Store) Settings() complaint.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	var patch complaint.SettingsPatch
	s.read(keySettings, &patch)
	return complaint.MergeSettings(patch)
}

// SaveSettings replaces the cached settings.
func (s *Store) SaveSettings(settings complaint.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(keySettings, settings)
}

// Snapshot bundles the full cached state for export or sync.
func (s *Store) Snapshot() complaint.Snapshot {
	return complaint.Snapshot{
		Complaints: s.Complaints(),
		AB:         s.AB(),
		Settings:   s.Settings(),
	}
}

// ApplySnapshot replaces the cached state with snap, for example after
// pulling from the backend or importing a backup. The snapshot is
// assumed validated by the caller.
func (s *Store) ApplySnapshot(snap complaint.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := snap.Complaints
	if rows == nil {
		rows = []complaint.Complaint{}
	}
	if err := s.write(keyComplaints, complaint.NormalizeAll(rows)); err != nil {
		return err
	}
	if err := s.write(keyAB, snap.AB); err != nil {
		return err
	}
	return s.write(keySettings, snap.Settings)
}

// Clear empties the complaint collection and A/B counters. Settings
// survive a clear.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(keyComplaints, []complaint.Complaint{}); err != nil {
		return err
	}
	return s.write(keyAB, complaint.AbStats{})
}
