package server

import (
	"encoding/json"
	"os"
	"sync"

	"resolvex/internal/complaint"
)

// DocumentStore persists the backend state: one JSON file holding the
// full snapshot, replaced as a whole on every write.
//
// Thread-safety:
//   - Every read and write holds the mutex
//   - Update runs read-modify-write as a single critical section
//
// An unreadable or malformed file yields an empty well-formed document
// instead of an error, so a fresh or damaged data file never stops the
// service.
type DocumentStore struct {
	path string
	mu   sync.Mutex
}

// NewDocumentStore creates a store backed by the JSON file at path.
// The file is created on first write.
func NewDocumentStore(path string) *DocumentStore {
	return &DocumentStore{path: path}
}

// emptyDocument is the state of a brand-new backend.
func emptyDocument() complaint.Snapshot {
	return complaint.Snapshot{
		Complaints: []complaint.Complaint{},
		Settings:   complaint.DefaultSettings(),
	}
}

// load reads the document from disk. Callers must hold the mutex.
func (d *DocumentStore) load() complaint.Snapshot {
	raw, err := os.ReadFile(d.path)
	if err != nil {
		return emptyDocument()
	}

	var doc complaint.Snapshot
	if err := json.Unmarshal(raw, &doc); err != nil {
		return emptyDocument()
	}
	if doc.Complaints == nil {
		doc.Complaints = []complaint.Complaint{}
	}
	doc.Complaints = complaint.NormalizeAll(doc.Complaints)
	return doc
}

// save writes the document to disk. Callers must hold the mutex.
func (d *DocumentStore) save(doc complaint.Snapshot) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(d.path, data, 0o644)
}

// Read returns the current document.
func (d *DocumentStore) Read() complaint.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.load()
}

// Update applies fn to the current document and persists the result.
// When fn returns an error nothing is written and the error is passed
// through.
func (d *DocumentStore) Update(fn func(doc *complaint.Snapshot) error) (complaint.Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	doc := d.load()
	if err := fn(&doc); err != nil {
		return doc, err
	}
	if err := d.save(doc); err != nil {
		return doc, err
	}
	return doc, nil
}
