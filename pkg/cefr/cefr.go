// Package cefr estimates the CEFR proficiency level (A1..C2) of English text.
//
// The package-level functions share one process-wide lexicon, built from the
// embedded word list on first use. LoadLexicon swaps in another lexicon
// atomically; analyses already running finish against the one they started
// with. A compact FST word index can be loaded alongside with LoadIndex.
//
//	res := cefr.Analyze("Although he was tired, he finished the assignment.")
//	fmt.Println(res.Level, res.AdjustedScore)
package cefr

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/corey/cefr/internal/adapters/ahocorasick"
	"github.com/corey/cefr/internal/adapters/fstindex"
	"github.com/corey/cefr/internal/domain/analyzer"
	"github.com/corey/cefr/internal/domain/lexicon"
	"github.com/corey/cefr/internal/domain/wordlist"
	"github.com/corey/cefr/internal/ports"
	"github.com/corey/cefr/lexdata"
)

type (
	// Result is the outcome of one analysis.
	Result = analyzer.Result
	// Level is a CEFR band; its zero value is Unknown.
	Level = ports.Level
	// Entry is one dictionary sense of a word.
	Entry = ports.Entry
	// Record is one compact-dictionary record.
	Record = fstindex.Record
)

// Bands.
const (
	A1 = ports.LevelA1
	A2 = ports.LevelA2
	B1 = ports.LevelB1
	B2 = ports.LevelB2
	C1 = ports.LevelC1
	C2 = ports.LevelC2
)

var (
	// ErrLoadBusy: another LoadLexicon call is in progress.
	ErrLoadBusy = lexicon.ErrLoadBusy
	// ErrIndexBusy: another LoadIndex call is in progress.
	ErrIndexBusy = fstindex.ErrIndexBusy
	// ErrBadRecord: a data offset does not point at a valid record.
	ErrBadRecord = fstindex.ErrBadRecord
	// ErrBadIndex: index bytes have a valid header but a corrupt body.
	ErrBadIndex = fstindex.ErrBadIndex
)

// Estimator analyzes text against one fixed lexicon. It is safe for
// concurrent use.
type Estimator struct {
	dict ports.Dictionary
	an   *analyzer.Analyzer
}

// New builds an Estimator from lexicon CSV rows (lemma,pos,level[,abstract]).
// The lexicon must contain at least one multi-word phrase.
func New(r io.Reader) (*Estimator, error) {
	lists, err := wordlist.Default()
	if err != nil {
		return nil, err
	}
	lex, err := lexicon.Load(r, ahocorasick.Build)
	if err != nil {
		return nil, err
	}
	return newEstimator(lex, lists), nil
}

func newEstimator(dict ports.Dictionary, lists *wordlist.Lists) *Estimator {
	return &Estimator{dict: dict, an: analyzer.New(dict, lists)}
}

// Analyze scores text. Empty input yields zero counts and level A1.
func (e *Estimator) Analyze(text string) Result {
	return e.an.Analyze(text)
}

// Lookup resolves a single word, falling back to its stem.
func (e *Estimator) Lookup(word string) (Entry, bool) {
	return e.an.Lookup(word)
}

var (
	provider = lexicon.NewProvider(lexdata.Name, func() (ports.Dictionary, error) {
		return lexicon.Load(lexdata.Open(), ahocorasick.Build)
	})
	shared atomic.Pointer[Estimator]
	index  fstindex.Holder
)

// Default returns the Estimator over the process-wide lexicon, building the
// embedded lexicon exactly once on first use.
func Default() (*Estimator, error) {
	dict, err := provider.Get()
	if err != nil {
		return nil, err
	}
	if e := shared.Load(); e != nil && e.dict == dict {
		return e, nil
	}
	lists, err := wordlist.Default()
	if err != nil {
		return nil, err
	}
	e := newEstimator(dict, lists)
	shared.Store(e)
	return e, nil
}

// Analyze scores text against the process-wide lexicon. It never panics: if
// the lexicon cannot be built the result has zero counts and level A1, and
// Default reports the cause.
func Analyze(text string) Result {
	e, err := Default()
	if err != nil {
		return Result{Level: A1, UnknownWords: []string{}, Tokens: []analyzer.TokenDetail{}}
	}
	return e.Analyze(text)
}

// Lookup resolves word against the process-wide lexicon.
func Lookup(word string) (Entry, bool) {
	e, err := Default()
	if err != nil {
		return Entry{}, false
	}
	return e.Lookup(word)
}

// LoadLexicon replaces the process-wide lexicon with one parsed from CSV.
// Only one load runs at a time; a concurrent call returns ErrLoadBusy. On any
// error the current lexicon stays in place.
func LoadLexicon(name string, r io.Reader) error {
	return provider.Load(name, func() (ports.Dictionary, error) {
		lex, err := lexicon.Load(r, ahocorasick.Build)
		if err != nil {
			return nil, err
		}
		return lex, nil
	})
}

// LexiconName reports which lexicon the package-level functions use.
func LexiconName() string {
	if a, ok := provider.Current(); ok {
		return a.Name
	}
	return lexdata.Name
}

// LoadIndex parses a serialized FST mapping lowercase words to data offsets
// and makes it the active index. data is copied, so the caller may reuse it.
// A concurrent call returns ErrIndexBusy; malformed bytes return an error.
// Either way the previous index stays.
func LoadIndex(data []byte) error {
	if err := index.LoadIndex(data); err != nil {
		return fmt.Errorf("load index: %w", err)
	}
	return nil
}

// LookupOffset returns the data offset stored for word (matched
// case-insensitively). ok is false when no index is loaded or the word is
// absent.
func LookupOffset(word string) (uint64, bool) {
	return index.LookupOffset(word)
}

// ReadData reads a data blob, decompressing it when gzipped.
func ReadData(r io.Reader) ([]byte, error) {
	return fstindex.ReadData(r)
}

// ReadRecord decodes the record at offset in an uncompressed data blob.
func ReadRecord(data []byte, offset uint64) (Record, error) {
	return fstindex.ReadRecord(data, offset)
}
