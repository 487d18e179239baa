// Package tagger assigns part-of-speech tags to tokenized sentences without a
// statistical model: dictionary candidates, suffix guesses for unknown words,
// previous-tag disambiguation, then a single corrective sweep.
package tagger

import (
	"strings"

	"github.com/corey/cefr/internal/domain/wordlist"
	"github.com/corey/cefr/internal/ports"
)

// Tagger is stateless between calls and safe for concurrent use.
type Tagger struct {
	dict  ports.Dictionary
	lists *wordlist.Lists
}

// New returns a tagger over dict.
func New(dict ports.Dictionary, lists *wordlist.Lists) *Tagger {
	return &Tagger{dict: dict, lists: lists}
}

// Tag returns a tagged copy of s. The input sentence is not modified.
func (t *Tagger) Tag(s ports.Sentence) ports.Sentence {
	out := make(ports.Sentence, len(s))
	copy(out, s)

	last := CoarseStart
	for i := range out {
		coarse := Disambiguate(t.Candidates(out[i].Surface), last)
		out[i].Tag = ToTag(coarse)
		last = coarse
	}
	t.Correct(out)
	return out
}

// Candidates returns the distinct coarse parts of speech for word in first
// seen order. Infinitive markers get only the infinitive candidate. Words the
// lexicon does not know get a single guessed candidate.
func (t *Tagger) Candidates(word string) []ports.PartOfSpeech {
	if t.lists.InfinitiveMarkers.Has(strings.ToLower(word)) {
		return []ports.PartOfSpeech{CoarseInfinitive}
	}
	entries := t.dict.LookupAll(word)
	if len(entries) == 0 {
		return []ports.PartOfSpeech{Guess(word)}
	}
	var out []ports.PartOfSpeech
	for _, e := range entries {
		if !contains(out, e.POS) {
			out = append(out, e.POS)
		}
	}
	return out
}

// Guess applies GuessRules to an unknown word.
func Guess(word string) ports.PartOfSpeech {
	for _, r := range GuessRules {
		if r.Match(word) {
			return r.POS
		}
	}
	return ports.POSNoun
}

// Disambiguate picks one candidate given the previous coarse tag.
func Disambiguate(candidates []ports.PartOfSpeech, last ports.PartOfSpeech) ports.PartOfSpeech {
	switch len(candidates) {
	case 0:
		return ports.POSNoun
	case 1:
		return candidates[0]
	}
	for _, r := range ContextRules {
		if r.fires(last, candidates) {
			return r.Prefer
		}
	}
	if contains(candidates, ports.POSNoun) {
		return ports.POSNoun
	}
	return candidates[0]
}

// Correct applies the corrective pass in place: one forward sweep, then one
// backward sweep. Each forward rule sees the already corrected previous tag,
// and the pass is not iterated to a fixed point.
func (t *Tagger) Correct(s ports.Sentence) {
	isArticle := t.lists.Articles.Has

	for i := range s {
		var prev, next *ports.Token
		if i > 0 {
			prev = &s[i-1]
		}
		if i+1 < len(s) {
			next = &s[i+1]
		}
		for _, c := range ForwardCorrections {
			if tag, ok := c.Apply(prev, &s[i], next, isArticle); ok {
				s[i].Tag = tag
				break
			}
		}
	}

	for i := len(s) - 1; i >= 0; i-- {
		var prev, next *ports.Token
		if i > 0 {
			prev = &s[i-1]
		}
		if i+1 < len(s) {
			next = &s[i+1]
		}
		for _, c := range BackwardCorrections {
			if tag, ok := c.Apply(prev, &s[i], next, isArticle); ok {
				s[i].Tag = tag
				break
			}
		}
	}
}
