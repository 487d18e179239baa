// Package bbolt implements ports.LexiconStore using bbolt (embedded B+ tree).
// Every snapshot lives in its own sub-bucket of the top-level "lexicons"
// bucket, holding the encoded rows and a small metadata record. Writes are
// transactional: a crash mid-write cannot corrupt previously committed data.
package bbolt

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/cefr/internal/ports"
)

// Bucket keys
var (
	bucketLexicons = []byte("lexicons")
	keyRows        = []byte("rows")
	keyMeta        = []byte("meta")
)

// meta is stored next to the rows of each snapshot.
type meta struct {
	Rows    int
	SavedAt time.Time
}

// Store implements ports.LexiconStore backed by bbolt.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

var _ ports.LexiconStore = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveLexicon replaces the snapshot stored under name.
func (s *Store) SaveLexicon(name string, rows []ports.Row) error {
	if name == "" {
		return fmt.Errorf("empty lexicon name")
	}
	rowsBlob, err := encodeRows(rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	metaBlob, err := encodeGob(meta{Rows: len(rows), SavedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(bucketLexicons)
		if err != nil {
			return err
		}
		// Replace wholesale so a shorter snapshot leaves no stale keys.
		if err := root.DeleteBucket([]byte(name)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		b, err := root.CreateBucket([]byte(name))
		if err != nil {
			return err
		}
		if err := b.Put(keyRows, rowsBlob); err != nil {
			return err
		}
		return b.Put(keyMeta, metaBlob)
	})
}

// LoadLexicon returns the rows stored under name in insertion order.
// Returns nil, nil if no snapshot exists.
func (s *Store) LoadLexicon(name string) ([]ports.Row, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		b := lexiconBucket(tx, name)
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := b.Get(keyRows); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	rows, err := decodeRows(data)
	if err != nil {
		return nil, fmt.Errorf("decode lexicon %q: %w", name, err)
	}
	return rows, nil
}

// ListLexicons describes the stored snapshots, sorted by name (bbolt keys
// iterate in byte order).
func (s *Store) ListLexicons() ([]ports.LexiconInfo, error) {
	var out []ports.LexiconInfo
	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketLexicons)
		if root == nil {
			return nil
		}
		return root.ForEachBucket(func(k []byte) error {
			info := ports.LexiconInfo{Name: string(k)}
			if v := root.Bucket(k).Get(keyMeta); v != nil {
				var m meta
				if err := decodeGob(v, &m); err != nil {
					return fmt.Errorf("decode meta %q: %w", k, err)
				}
				info.Rows = m.Rows
				info.SavedAt = m.SavedAt
			}
			out = append(out, info)
			return nil
		})
	})
	return out, err
}

// DeleteLexicon removes a snapshot.
// Idempotent: deleting a nonexistent snapshot is not an error.
func (s *Store) DeleteLexicon(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketLexicons)
		if root == nil {
			return nil
		}
		if err := root.DeleteBucket([]byte(name)); errors.Is(err, bolt.ErrBucketNotFound) {
			return nil // idempotent
		} else {
			return err
		}
	})
}

func lexiconBucket(tx *bolt.Tx, name string) *bolt.Bucket {
	root := tx.Bucket(bucketLexicons)
	if root == nil {
		return nil
	}
	return root.Bucket([]byte(name))
}
