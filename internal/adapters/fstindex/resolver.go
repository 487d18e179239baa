package fstindex

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/corey/cefr/internal/domain/lexicon"
	"github.com/corey/cefr/internal/ports"
)

// examLevels maps exam word-list tags to the band they imply.
var examLevels = map[string]ports.Level{
	"zk":    ports.LevelA2,
	"gk":    ports.LevelB1,
	"cet4":  ports.LevelB1,
	"cet6":  ports.LevelB2,
	"ky":    ports.LevelB2,
	"ielts": ports.LevelB2,
	"toefl": ports.LevelC1,
	"gre":   ports.LevelC2,
}

// definitionPOS maps definition line prefixes to parts of speech.
var definitionPOS = map[string]ports.PartOfSpeech{
	"n":     ports.POSNoun,
	"v":     ports.POSVerb,
	"vt":    ports.POSVerb,
	"vi":    ports.POSVerb,
	"a":     ports.POSAdj,
	"adj":   ports.POSAdj,
	"ad":    ports.POSAdv,
	"adv":   ports.POSAdv,
	"prep":  ports.POSPrep,
	"conj":  ports.POSConj,
	"pron":  ports.POSPronoun,
	"art":   ports.POSDeterminer,
	"det":   ports.POSDeterminer,
	"modal": ports.POSModal,
}

// Resolver is a ports.Dictionary over a loaded index and its decompressed
// data blob. It has no phrases.
type Resolver struct {
	index *Index
	data  []byte
}

var _ ports.Dictionary = (*Resolver)(nil)

// NewResolver pairs an index with the blob its offsets point into.
func NewResolver(ix *Index, data []byte) *Resolver {
	return &Resolver{index: ix, data: data}
}

// Open reads an FST file and its (optionally gzipped) data file.
func Open(fstPath, dataPath string) (*Resolver, error) {
	fstBytes, err := os.ReadFile(fstPath)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	ix, err := ParseIndex(fstBytes)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("open data: %w", err)
	}
	defer f.Close()
	data, err := ReadData(f)
	if err != nil {
		return nil, err
	}
	return NewResolver(ix, data), nil
}

// Len returns the number of indexed words.
func (r *Resolver) Len() int { return r.index.Len() }

// Record returns the raw record for word without any suffix fallback.
func (r *Resolver) Record(word string) (Record, bool, error) {
	off, ok := r.index.LookupOffset(word)
	if !ok {
		return Record{}, false, nil
	}
	rec, err := ReadRecord(r.data, off)
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

// LookupAll resolves word (keys are lowercase) and falls back to stripping a
// trailing "s", "es" or "ed". Unreadable records are treated as misses.
func (r *Resolver) LookupAll(word string) []ports.Entry {
	if word == "" {
		return nil
	}
	lw := strings.ToLower(word)
	if e := r.entries(lw); e != nil {
		return e
	}
	if strings.HasSuffix(lw, "s") && len(lw) > 1 {
		if e := r.entries(lw[:len(lw)-1]); e != nil {
			return e
		}
		if strings.HasSuffix(lw, "es") && len(lw) > 2 {
			if e := r.entries(lw[:len(lw)-2]); e != nil {
				return e
			}
		}
	}
	if strings.HasSuffix(lw, "ed") && len(lw) > 2 {
		if e := r.entries(lw[:len(lw)-2]); e != nil {
			return e
		}
	}
	return nil
}

func (r *Resolver) entries(key string) []ports.Entry {
	rec, ok, err := r.Record(key)
	if err != nil || !ok {
		return nil
	}
	return Entries(key, rec)
}

// Lookup applies the usual homograph tie-break to LookupAll.
func (r *Resolver) Lookup(word, posHint string) (ports.Entry, bool) {
	return lexicon.Pick(r.LookupAll(word), posHint)
}

// MatchPhrases always returns nil; the compact format has no phrase list.
func (r *Resolver) MatchPhrases(string) []ports.PhraseMatch { return nil }

// Entries converts a record into lexicon entries: one per distinct part of
// speech in the definition, in order, all at the record's level. The lemma
// comes from the "0:" exchange field when present.
func Entries(key string, rec Record) []ports.Entry {
	lemma := ExchangeLemma(rec.Exchange)
	if lemma == "" {
		lemma = key
	}
	level := TagLevel(rec.Tag)

	var out []ports.Entry
	seen := map[ports.PartOfSpeech]bool{}
	for _, pos := range DefinitionPOS(rec.Definition) {
		if seen[pos] {
			continue
		}
		seen[pos] = true
		out = append(out, ports.Entry{Lemma: lemma, POS: pos, Level: level})
	}
	if len(out) == 0 {
		out = append(out, ports.Entry{Lemma: lemma, POS: ports.POSOther, Level: level})
	}
	return out
}

// ExchangeLemma extracts the base form from an exchange field such as
// "p:went/d:gone/0:go/1:p".
func ExchangeLemma(exchange string) string {
	for _, part := range strings.Split(exchange, "/") {
		if v, ok := strings.CutPrefix(part, "0:"); ok {
			return v
		}
	}
	return ""
}

// TagLevel returns the lowest band implied by the space separated exam tags,
// or LevelUnknown when none is recognized.
func TagLevel(tag string) ports.Level {
	best := ports.LevelUnknown
	for _, t := range strings.Fields(tag) {
		l, ok := examLevels[strings.ToLower(t)]
		if !ok {
			continue
		}
		if best == ports.LevelUnknown || l < best {
			best = l
		}
	}
	return best
}

// DefinitionPOS reads the part-of-speech prefix ("n.", "vt.", "adj.") of each
// definition line. Lines without a known prefix are ignored.
func DefinitionPOS(definition string) []ports.PartOfSpeech {
	var out []ports.PartOfSpeech
	// Dumps carry either real newlines or the two-character escape.
	definition = strings.ReplaceAll(definition, `\n`, "\n")
	for _, line := range strings.Split(definition, "\n") {
		line = strings.TrimSpace(line)
		dot := strings.IndexByte(line, '.')
		if dot <= 0 {
			continue
		}
		if pos, ok := definitionPOS[strings.ToLower(line[:dot])]; ok {
			out = append(out, pos)
		}
	}
	return out
}

// Verify checks that every key addresses a decodable record.
func (r *Resolver) Verify() error {
	var bad error
	err := r.index.Keys(func(key string, off uint64) bool {
		raw, err := RawRecord(r.data, off)
		if err == nil && !bytes.HasPrefix(raw, []byte("[")) {
			err = fmt.Errorf("%w: not an array", ErrBadRecord)
		}
		if err != nil {
			bad = fmt.Errorf("key %q: %w", key, err)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	return bad
}
