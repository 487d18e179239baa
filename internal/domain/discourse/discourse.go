// Package discourse scores cohesion and content signals over tagged text:
// advanced connectives, abstract nouns and named-entity density.
package discourse

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/corey/cefr/internal/domain/wordlist"
	"github.com/corey/cefr/internal/ports"
)

// Metrics are ratios over the total word count, all zero for empty input.
type Metrics struct {
	ConnectiveSophistication float64 `json:"connective_sophistication"`
	AbstractRatio            float64 `json:"abstract_ratio"`
	EntityDensity            float64 `json:"entity_density"`

	Connectives int `json:"connectives"`
	Abstract    int `json:"abstract"`
	Entities    int `json:"entities"`
	Words       int `json:"words"`
}

// Analyzer reads the dictionary and word lists; it keeps no per-call state.
type Analyzer struct {
	dict  ports.Dictionary
	lists *wordlist.Lists
}

// New returns an analyzer over dict.
func New(dict ports.Dictionary, lists *wordlist.Lists) *Analyzer {
	return &Analyzer{dict: dict, lists: lists}
}

// Analyze makes one pass over every token of every sentence.
func (a *Analyzer) Analyze(sentences []ports.Sentence) Metrics {
	var m Metrics
	for _, s := range sentences {
		for i, tok := range s {
			m.Words++

			entry, ok := a.dict.Lookup(tok.Surface, "")
			if ok && IsConnective(entry) {
				m.Connectives++
			}
			switch {
			case ok && entry.Abstract:
				m.Abstract++
			case !ok && a.lists.HasAbstractSuffix(strings.ToLower(tok.Surface)):
				m.Abstract++
			}
			if a.IsEntity(s, i) {
				m.Entities++
			}
		}
	}

	if m.Words == 0 {
		return m
	}
	n := float64(m.Words)
	m.ConnectiveSophistication = float64(m.Connectives) / n
	m.AbstractRatio = float64(m.Abstract) / n
	m.EntityDensity = float64(m.Entities) / n
	return m
}

// IsConnective reports a conjunction or adverb at B2 or above.
func IsConnective(e ports.Entry) bool {
	if e.POS != ports.POSConj && e.POS != ports.POSAdv {
		return false
	}
	return e.Level >= ports.LevelB2 && e.Level <= ports.LevelC2
}

// IsEntity applies the named-entity heuristic to s[i]. Only capitalized
// tokens qualify. A title is judged like any other word, so "Mr" counts
// when the dictionary does not know it.
//
//  1. A known given name or surname is an entity.
//  2. A word missing from the dictionary is an entity, wherever it appears.
//  3. A known word counts only mid-sentence directly after a title
//     ("Mr Brown"); at sentence start it is ordinary capitalization.
func (a *Analyzer) IsEntity(s ports.Sentence, i int) bool {
	surface := s[i].Surface
	if !Capitalized(surface) {
		return false
	}
	if a.lists.CommonNames.Has(surface) {
		return true
	}
	if a.dict.LookupAll(strings.ToLower(surface)) == nil {
		return true
	}
	if i == 0 {
		return false
	}
	return a.lists.Titles.Has(s[i-1].Surface)
}

// Capitalized reports whether word starts with an upper-case letter.
func Capitalized(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}
