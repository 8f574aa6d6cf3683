package store

import (
	_ "embed"
	"encoding/json"
	"log"
	"os"

	"resolvex/internal/complaint"
)

// defaultDataset is the bundled demo data used on first run when the
// backend is unreachable. Embedded so the binary works standalone.
//
//go:embed db.json
var defaultDataset []byte

// PullFunc fetches a richer bootstrap snapshot, typically from the
// backend. It reports false when no snapshot could be fetched.
type PullFunc func() (*complaint.Snapshot, bool)

// SeedIfAbsent populates the cache on first run.
//
// Behaviour:
//   - If the seeded flag is already set, nothing happens.
//   - If any local data exists, only the flag is set; user data is
//     never overwritten.
//   - Otherwise the cache is filled from pull when it succeeds, or
//     from the bundled default dataset when it does not.
//
// The flag makes this idempotent for the lifetime of the cache
// directory: calling it twice leaves the same stored state as once.
func (s *Store) SeedIfAbsent(pull PullFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.flagSet(keySeeded) {
		return nil
	}

	if s.hasAny(keyComplaints, keyAB, keySettings) {
		return s.write(keySeeded, true)
	}

	snap := s.bootstrapSnapshot(pull)
	if err := s.write(keyComplaints, complaint.NormalizeAll(snap.Complaints)); err != nil {
		return err
	}
	if err := s.write(keyAB, snap.AB); err != nil {
		return err
	}
	if err := s.write(keySettings, snap.Settings); err != nil {
		return err
	}
	return s.write(keySeeded, true)
}

// bootstrapSnapshot picks the seed source: backend first, bundled
// defaults otherwise. A fetched snapshot without a complaints array is
// treated as unusable.
func (s *Store) bootstrapSnapshot(pull PullFunc) complaint.Snapshot {
	if pull != nil {
		if snap, ok := pull(); ok && snap != nil && snap.Complaints != nil {
			log.Println("✓ Seeded cache from backend bootstrap document")
			return *snap
		}
	}

	var snap complaint.Snapshot
	if err := json.Unmarshal(defaultDataset, &snap); err != nil || snap.Complaints == nil {
		// The embedded dataset ships with the binary; if it is ever
		// unreadable, fall back to an empty but well-formed state.
		snap = complaint.Snapshot{
			Complaints: []complaint.Complaint{},
			Settings:   complaint.DefaultSettings(),
		}
	}
	log.Println("✓ Seeded cache from bundled default dataset")
	return snap
}

func (s *Store) flagSet(key string) bool {
	var v bool
	return s.read(key, &v) && v
}

func (s *Store) hasAny(keys ...string) bool {
	for _, key := range keys {
		if _, err := os.Stat(s.path(key)); err == nil {
			return true
		}
	}
	return false
}
