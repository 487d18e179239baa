// Package fstindex implements the compact dictionary: a vellum FST mapping
// lowercased words to byte offsets in a data blob of length-prefixed JSON
// records. The blob may be gzip-compressed as a whole; offsets always refer
// to the decompressed stream.
package fstindex

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/blevesearch/vellum"
)

var (
	// ErrIndexBusy is returned when a load is attempted while another is running.
	ErrIndexBusy = errors.New("fstindex: load already in progress")

	// ErrNotLoaded is returned by lookups before any index has been loaded.
	ErrNotLoaded = errors.New("fstindex: no index loaded")

	// ErrBadRecord is returned when an offset does not address a complete record.
	ErrBadRecord = errors.New("fstindex: malformed record")

	// ErrBadIndex is returned when FST bytes pass the header check but the
	// body cannot be walked.
	ErrBadIndex = errors.New("fstindex: malformed index")
)

// Index is a loaded, immutable FST.
type Index struct {
	fst *vellum.FST
}

// ParseIndex validates and loads serialized FST bytes. The index keeps its
// own copy of data. vellum only checks the header on load, so every key is
// walked once and the count must match the footer.
func ParseIndex(data []byte) (ix *Index, err error) {
	defer func() {
		if r := recover(); r != nil {
			ix, err = nil, fmt.Errorf("%w: %v", ErrBadIndex, r)
		}
	}()

	fst, err := vellum.Load(bytes.Clone(data))
	if err != nil {
		return nil, fmt.Errorf("load fst: %w", err)
	}
	ix = &Index{fst: fst}

	n := 0
	if err := ix.Keys(func(string, uint64) bool { n++; return true }); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadIndex, err)
	}
	if n == 0 || n != fst.Len() {
		return nil, fmt.Errorf("%w: walked %d keys, footer says %d", ErrBadIndex, n, fst.Len())
	}
	return ix, nil
}

// LookupOffset returns the data offset stored for the lowercased word.
func (ix *Index) LookupOffset(word string) (uint64, bool) {
	if word == "" {
		return 0, false
	}
	v, ok, err := ix.fst.Get([]byte(strings.ToLower(word)))
	if err != nil || !ok {
		return 0, false
	}
	return v, true
}

// Len returns the number of keys.
func (ix *Index) Len() int { return ix.fst.Len() }

// Keys calls fn for every key in order until fn returns false.
func (ix *Index) Keys(fn func(key string, offset uint64) bool) error {
	it, err := ix.fst.Iterator(nil, nil)
	for err == nil {
		k, v := it.Current()
		if !fn(string(k), v) {
			return nil
		}
		err = it.Next()
	}
	if errors.Is(err, vellum.ErrIteratorDone) {
		return nil
	}
	return err
}

// Holder keeps the active index. Lookups are lock-free; a load swaps the
// reference atomically, so readers see the old or the new index and never a
// partial one. Only one load runs at a time.
type Holder struct {
	active atomic.Pointer[Index]
	loadMu sync.Mutex
}

// LoadIndex parses data and makes it the active index. On any error the
// previous index stays active.
func (h *Holder) LoadIndex(data []byte) error {
	if !h.loadMu.TryLock() {
		return ErrIndexBusy
	}
	defer h.loadMu.Unlock()

	ix, err := ParseIndex(data)
	if err != nil {
		return err
	}
	h.active.Store(ix)
	return nil
}

// LookupOffset resolves word against the active index.
func (h *Holder) LookupOffset(word string) (uint64, bool) {
	ix := h.active.Load()
	if ix == nil {
		return 0, false
	}
	return ix.LookupOffset(word)
}

// Index returns the active index or ErrNotLoaded.
func (h *Holder) Index() (*Index, error) {
	ix := h.active.Load()
	if ix == nil {
		return nil, ErrNotLoaded
	}
	return ix, nil
}
