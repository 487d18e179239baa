package ports

import "time"

// LexiconStore persists named lexicon snapshots (the parsed source rows, in
// order) so large vocabularies can be imported once and reloaded quickly.
// The backing store (bbolt) keeps one bucket per lexicon name. Analysis
// results are never stored.
//
// Crash safety: SaveLexicon must be transactional. A crash mid-write must not
// corrupt a previously committed snapshot.
type LexiconStore interface {
	// SaveLexicon replaces the snapshot stored under name.
	SaveLexicon(name string, rows []Row) error

	// LoadLexicon returns the rows stored under name in insertion order.
	// Returns nil, nil if no snapshot exists.
	LoadLexicon(name string) ([]Row, error)

	// ListLexicons describes the stored snapshots, sorted by name.
	ListLexicons() ([]LexiconInfo, error)

	// DeleteLexicon removes a snapshot. Deleting a missing name is not an error.
	DeleteLexicon(name string) error

	Close() error
}

// LexiconInfo describes one stored snapshot.
type LexiconInfo struct {
	Name    string    `json:"name"`
	Rows    int       `json:"rows"`
	SavedAt time.Time `json:"saved_at"`
}
