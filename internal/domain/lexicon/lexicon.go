// Package lexicon holds the in-memory CEFR dictionary: surface word to leveled
// entries (insertion ordered, homographs kept), the multi-word phrase list, and
// the phrase matcher compiled over it.
package lexicon

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/corey/cefr/internal/ports"
)

var (
	// ErrNoPatterns is returned by Build when the rows contain no phrases to
	// compile into the matcher.
	ErrNoPatterns = errors.New("lexicon: no phrase patterns")

	// ErrPhraseIndex is returned when the compiled matcher does not hold exactly
	// one pattern per phrase, which would break hit-to-phrase resolution.
	ErrPhraseIndex = errors.New("lexicon: phrase list and matcher out of step")
)

// Lexicon is immutable after Build and safe for concurrent reads.
type Lexicon struct {
	words   map[string][]ports.Entry
	phrases []ports.Phrase
	matcher ports.PhraseMatcher
	entries int
}

var _ ports.Dictionary = (*Lexicon)(nil)

// Stats summarizes a lexicon's size.
type Stats struct {
	Words   int `json:"words"`
	Entries int `json:"entries"`
	Phrases int `json:"phrases"`
}

// Build indexes rows in order and compiles the phrase matcher. Keys keep their
// source casing. A lemma containing whitespace is registered as a word and
// as a phrase; a phrase seen twice (case-insensitively) keeps its first level.
func Build(rows []ports.Row, build ports.MatcherBuilder) (*Lexicon, error) {
	lex := &Lexicon{words: make(map[string][]ports.Entry, len(rows))}
	seen := make(map[string]struct{})
	var patterns []string

	for _, row := range rows {
		key := strings.TrimSpace(row.Lemma)
		if key == "" {
			continue
		}
		lex.words[key] = append(lex.words[key], ports.Entry{
			Lemma:    key,
			POS:      row.POS,
			Level:    row.Level,
			Abstract: row.Abstract,
		})
		lex.entries++

		if !strings.ContainsFunc(key, unicode.IsSpace) {
			continue
		}
		text := strings.Join(strings.Fields(strings.ToLower(key)), " ")
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		lex.phrases = append(lex.phrases, ports.Phrase{Text: text, Level: row.Level})
		patterns = append(patterns, text)
	}

	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}
	m, err := build(patterns)
	if err != nil {
		return nil, fmt.Errorf("compile phrase matcher: %w", err)
	}
	if m.PatternCount() != len(lex.phrases) {
		return nil, fmt.Errorf("%w: %d phrases, %d patterns", ErrPhraseIndex, len(lex.phrases), m.PatternCount())
	}
	lex.matcher = m
	return lex, nil
}

// Stats reports key, entry and phrase counts.
func (l *Lexicon) Stats() Stats {
	return Stats{Words: len(l.words), Entries: l.entries, Phrases: len(l.phrases)}
}

// Phrases returns the phrase list in matcher index order.
func (l *Lexicon) Phrases() []ports.Phrase {
	return l.phrases
}

// LookupAll resolves word by exact key, then lowercase key, then by stripping
// a trailing "s", "es" or "ed" (first hit wins). The returned slice is shared
// and must not be modified.
func (l *Lexicon) LookupAll(word string) []ports.Entry {
	if word == "" {
		return nil
	}
	if e := l.get(word); e != nil {
		return e
	}

	lw := strings.ToLower(word)
	if strings.HasSuffix(lw, "s") && len(lw) > 1 {
		if e := l.get(word[:len(word)-1]); e != nil {
			return e
		}
		if strings.HasSuffix(lw, "es") && len(lw) > 2 {
			if e := l.get(word[:len(word)-2]); e != nil {
				return e
			}
		}
	}
	if strings.HasSuffix(lw, "ed") && len(lw) > 2 {
		if e := l.get(word[:len(word)-2]); e != nil {
			return e
		}
	}
	return nil
}

// get tries the exact key then its lowercase form.
func (l *Lexicon) get(key string) []ports.Entry {
	if e, ok := l.words[key]; ok {
		return e
	}
	if lk := strings.ToLower(key); lk != key {
		if e, ok := l.words[lk]; ok {
			return e
		}
	}
	return nil
}

// Lookup returns the first entry whose coarse part of speech matches posHint,
// or the first entry overall when no hint is given or none matches.
func (l *Lexicon) Lookup(word, posHint string) (ports.Entry, bool) {
	return Pick(l.LookupAll(word), posHint)
}

// Pick applies the homograph tie-break to an entry list: the first entry
// matching the coarsened hint, else the first entry in insertion order.
func Pick(entries []ports.Entry, posHint string) (ports.Entry, bool) {
	if len(entries) == 0 {
		return ports.Entry{}, false
	}
	if posHint != "" {
		want := CoarseHint(posHint)
		for _, e := range entries {
			if Coarse(e.POS) == want {
				return e, true
			}
		}
	}
	return entries[0], true
}

// CoarseHint folds a tag ("NN", "VBD", "JJ") or a part-of-speech label onto
// noun, verb, adj, adv or other.
func CoarseHint(hint string) ports.PartOfSpeech {
	h := strings.ToUpper(strings.TrimSpace(hint))
	switch {
	case strings.HasPrefix(h, "NN"):
		return ports.POSNoun
	case strings.HasPrefix(h, "VB"):
		return ports.POSVerb
	case strings.HasPrefix(h, "JJ"):
		return ports.POSAdj
	case strings.HasPrefix(h, "RB"):
		return ports.POSAdv
	}
	return Coarse(ports.ParsePOS(hint))
}

// Coarse folds a lexicon part of speech onto noun, verb, adj, adv or other.
func Coarse(p ports.PartOfSpeech) ports.PartOfSpeech {
	switch p {
	case ports.POSNoun, ports.POSVerb, ports.POSAdj, ports.POSAdv:
		return p
	default:
		return ports.POSOther
	}
}

// MatchPhrases runs the matcher over text once. Hits that start or end inside
// a word ("give up" in "forgive upstairs") are dropped.
func (l *Lexicon) MatchPhrases(text string) []ports.PhraseMatch {
	if l.matcher == nil || text == "" {
		return nil
	}
	var out []ports.PhraseMatch
	for _, hit := range l.matcher.FindAll(text) {
		if hit.Pattern < 0 || hit.Pattern >= len(l.phrases) {
			continue
		}
		if !wordBoundary(text, hit.Start, hit.End) {
			continue
		}
		out = append(out, ports.PhraseMatch{
			Phrase: l.phrases[hit.Pattern],
			Start:  hit.Start,
			End:    hit.End,
		})
	}
	return out
}

func wordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
