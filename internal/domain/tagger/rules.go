package tagger

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/corey/cefr/internal/ports"
)

// Coarse tags beyond the lexicon vocabulary.
const (
	// CoarseStart is the carried state before the first token of a sentence.
	CoarseStart ports.PartOfSpeech = "START"
	// CoarseInfinitive marks "to" before a verb.
	CoarseInfinitive ports.PartOfSpeech = "to"
)

// GuessRule proposes a part of speech for a word the lexicon does not know.
type GuessRule struct {
	Name  string
	Match func(word string) bool
	POS   ports.PartOfSpeech
}

// GuessRules are tried in order; the first match wins. Words no rule matches
// default to noun.
var GuessRules = []GuessRule{
	{Name: "ly-adverb", Match: suffix("ly"), POS: ports.POSAdv},
	{Name: "ed-verb", Match: suffix("ed"), POS: ports.POSVerb},
	{Name: "ing-verb", Match: suffix("ing"), POS: ports.POSVerb},
	{Name: "tion-ment-noun", Match: suffix("tion", "ment"), POS: ports.POSNoun},
	{Name: "capitalized-noun", Match: capitalized, POS: ports.POSNoun},
}

func suffix(sfx ...string) func(string) bool {
	return func(word string) bool {
		w := strings.ToLower(word)
		for _, s := range sfx {
			if strings.HasSuffix(w, s) {
				return true
			}
		}
		return false
	}
}

func capitalized(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}

// ContextRule prefers one candidate given the previous token's coarse tag.
// It fires only when Prefer is among the candidates.
type ContextRule struct {
	Name   string
	After  []ports.PartOfSpeech
	Prefer ports.PartOfSpeech
}

// ContextRules are evaluated in order during disambiguation.
var ContextRules = []ContextRule{
	{Name: "noun-after-determiner-or-adjective", After: []ports.PartOfSpeech{ports.POSDeterminer, ports.POSAdj}, Prefer: ports.POSNoun},
	{Name: "verb-after-infinitive", After: []ports.PartOfSpeech{CoarseInfinitive}, Prefer: ports.POSVerb},
	{Name: "verb-after-modal", After: []ports.PartOfSpeech{ports.POSModal}, Prefer: ports.POSVerb},
	{Name: "verb-after-subject", After: []ports.PartOfSpeech{ports.POSPronoun, ports.POSNoun}, Prefer: ports.POSVerb},
}

func (r ContextRule) fires(last ports.PartOfSpeech, candidates []ports.PartOfSpeech) bool {
	return contains(r.After, last) && contains(candidates, r.Prefer)
}

func contains(set []ports.PartOfSpeech, p ports.PartOfSpeech) bool {
	for _, s := range set {
		if s == p {
			return true
		}
	}
	return false
}

// tagOf maps the coarse vocabulary onto output tags.
var tagOf = map[ports.PartOfSpeech]ports.Tag{
	ports.POSNoun:       ports.TagNN,
	ports.POSVerb:       ports.TagVB,
	ports.POSAdj:        ports.TagJJ,
	ports.POSAdv:        ports.TagRB,
	ports.POSPrep:       ports.TagIN,
	ports.POSConj:       ports.TagCC,
	ports.POSDeterminer: ports.TagDT,
	ports.POSPronoun:    ports.TagPRP,
	ports.POSModal:      ports.TagMD,
	CoarseInfinitive:    ports.TagTO,
}

// ToTag maps a coarse part of speech to its output tag. Unrecognized values map to NN.
func ToTag(p ports.PartOfSpeech) ports.Tag {
	if t, ok := tagOf[p]; ok {
		return t
	}
	return ports.TagNN
}

// Correction rewrites the current tag from its neighbours. It returns the new
// tag and true when it fires.
type Correction struct {
	Name  string
	Apply func(prev, cur, next *ports.Token, articles func(string) bool) (ports.Tag, bool)
}

// ForwardCorrections run in one left-to-right sweep; the first rule that
// fires for a token wins. Each token sees its predecessor's corrected tag.
var ForwardCorrections = []Correction{
	// "to" is always TO, so an article after it is the prepositional reading.
	{Name: "verb-after-to", Apply: func(prev, cur, _ *ports.Token, articles func(string) bool) (ports.Tag, bool) {
		return ports.TagVB, prev != nil && prev.Tag == ports.TagTO && !articles(strings.ToLower(cur.Surface))
	}},
	{Name: "verb-after-modal", Apply: func(prev, cur, _ *ports.Token, _ func(string) bool) (ports.Tag, bool) {
		return ports.TagVB, prev != nil && prev.Tag == ports.TagMD
	}},
	{Name: "noun-after-determiner", Apply: func(prev, cur, _ *ports.Token, _ func(string) bool) (ports.Tag, bool) {
		return ports.TagNN, prev != nil && prev.Tag == ports.TagDT && cur.Tag == ports.TagVB
	}},
	{Name: "noun-object-of-preposition", Apply: func(prev, cur, _ *ports.Token, _ func(string) bool) (ports.Tag, bool) {
		return ports.TagNN, prev != nil && prev.Tag == ports.TagIN && cur.Tag == ports.TagVB &&
			!strings.HasSuffix(strings.ToLower(cur.Surface), "ing")
	}},
}

// BackwardCorrections run in one right-to-left sweep after the forward sweep.
var BackwardCorrections = []Correction{
	{Name: "verb-before-article", Apply: func(_, cur, next *ports.Token, articles func(string) bool) (ports.Tag, bool) {
		return ports.TagVB, next != nil && cur.Tag == ports.TagNN && articles(strings.ToLower(next.Surface))
	}},
}
