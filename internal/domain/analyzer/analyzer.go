package analyzer

import (
	"strings"

	"github.com/kljensen/snowball"

	"github.com/corey/cefr/internal/domain/discourse"
	"github.com/corey/cefr/internal/domain/lexicon"
	"github.com/corey/cefr/internal/domain/syntax"
	"github.com/corey/cefr/internal/domain/tagger"
	"github.com/corey/cefr/internal/domain/wordlist"
	"github.com/corey/cefr/internal/ports"
)

// distributionOrder is the row order of Distribution.Levels.
var distributionOrder = []string{"A1", "A2", "B1", "B2", "C1", "C2", LabelUnknown, LabelEntity}

// Analyzer runs the full pipeline over one dictionary. It holds no per-call
// state and is safe for concurrent use.
type Analyzer struct {
	dict      ports.Dictionary
	lists     *wordlist.Lists
	tagger    *tagger.Tagger
	syntax    *syntax.Analyzer
	discourse *discourse.Analyzer
}

// New wires the pipeline stages over dict.
func New(dict ports.Dictionary, lists *wordlist.Lists) *Analyzer {
	return &Analyzer{
		dict:      dict,
		lists:     lists,
		tagger:    tagger.New(dict, lists),
		syntax:    syntax.New(lists),
		discourse: discourse.New(dict, lists),
	}
}

// Sentences normalizes, segments, tokenizes and tags text. Segments without
// any word are dropped.
func (a *Analyzer) Sentences(text string) []ports.Sentence {
	var out []ports.Sentence
	for _, seg := range SplitSentences(Normalize(text), a.lists.Titles) {
		toks := Tokenize(seg, a.lists)
		if len(toks) == 0 {
			continue
		}
		out = append(out, a.tagger.Tag(toks))
	}
	return out
}

// tally accumulates scoring state for one call.
type tally struct {
	total   float64
	scored  int
	lemmas  map[string]struct{}
	counts  map[string]int
	byLevel map[string]map[string]struct{}
	known   int
	unknown int
	sample  []string
	sampled map[string]struct{}
}

func newTally() *tally {
	return &tally{
		lemmas:  make(map[string]struct{}),
		counts:  make(map[string]int),
		byLevel: make(map[string]map[string]struct{}),
		sampled: make(map[string]struct{}),
	}
}

func (t *tally) score(l ports.Level) {
	if s := l.Score(); s > 0 {
		t.total += s
		t.scored++
	}
}

func (t *tally) word(label, lemma string) {
	t.counts[label]++
	if label == LabelEntity {
		return
	}
	t.lemmas[lemma] = struct{}{}
	set, ok := t.byLevel[label]
	if !ok {
		set = make(map[string]struct{})
		t.byLevel[label] = set
	}
	set[lemma] = struct{}{}
}

func (t *tally) miss(lemma string) {
	t.unknown++
	if _, ok := t.sampled[lemma]; ok || len(t.sample) >= MaxUnknownSample {
		return
	}
	t.sampled[lemma] = struct{}{}
	t.sample = append(t.sample, lemma)
}

// Analyze estimates the level of text. It never fails: words the dictionary
// cannot resolve fall back to Unknown or Entity labels and add no score.
func (a *Analyzer) Analyze(text string) Result {
	sentences := a.Sentences(text)
	t := newTally()
	var details []TokenDetail

	normalized := Normalize(text)
	for _, m := range a.dict.MatchPhrases(normalized) {
		t.score(m.Level)
		t.lemmas[m.Text] = struct{}{}
		details = append(details, TokenDetail{
			Surface: normalized[m.Start:m.End],
			Lemma:   m.Text,
			Level:   m.Level.String(),
			Phrase:  true,
		})
	}

	words := 0
	for _, s := range sentences {
		for _, tok := range s {
			words++
			details = append(details, a.resolve(tok, t))
		}
	}

	res := Result{
		SentenceCount:     len(sentences),
		WordCount:         words,
		AvgSentenceLength: ratio(words, len(sentences)),
		Syntax:            a.syntax.Analyze(sentences),
		Discourse:         a.discourse.Analyze(sentences),
		UnknownWords:      t.sample,
		Tokens:            details,
	}
	if t.scored > 0 {
		res.LexicalScore = t.total / float64(t.scored)
	}
	res.AdjustedScore = Adjust(res.LexicalScore, res.Syntax.ClauseDensity, res.Discourse.ConnectiveSophistication)
	res.Level = Band(res.AdjustedScore)
	res.UniqueLemmaCount = len(t.lemmas)
	res.Distribution = t.distribution(words)
	if res.UnknownWords == nil {
		res.UnknownWords = []string{}
	}
	return res
}

// resolve labels and scores one token.
func (a *Analyzer) resolve(tok ports.Token, t *tally) TokenDetail {
	d := TokenDetail{Surface: tok.Surface, Tag: tok.Tag}
	capital := discourse.Capitalized(tok.Surface)

	if capital && a.lists.CommonNames.Has(tok.Surface) {
		d.Lemma = tok.Surface
		d.Level = LabelEntity
		t.word(LabelEntity, d.Lemma)
		return d
	}

	entry, ok := a.dict.Lookup(tok.Surface, string(tok.Tag))
	lemma := ""
	if !ok {
		lemma = Stem(tok.Surface)
		entry, ok = a.dict.Lookup(lemma, string(tok.Tag))
	}

	switch {
	case ok:
		d.Lemma = strings.ToLower(entry.Lemma)
		d.Level = entry.Level.String()
		t.score(entry.Level)
		t.known++
		t.word(d.Level, d.Lemma)
	case capital:
		d.Lemma = tok.Surface
		d.Level = LabelEntity
		t.word(LabelEntity, d.Lemma)
	default:
		d.Lemma = lemma
		d.Level = LabelUnknown
		t.miss(lemma)
		t.word(LabelUnknown, lemma)
	}
	return d
}

// Stem returns the lowercase English Snowball stem of word, or the lowercase
// word when stemming fails.
func Stem(word string) string {
	w := strings.ToLower(word)
	stemmed, err := snowball.Stem(w, "english", true)
	if err != nil || stemmed == "" {
		return w
	}
	return stemmed
}

func (t *tally) distribution(words int) Distribution {
	d := Distribution{
		KnownWords:   t.known,
		UnknownWords: t.unknown,
		UnknownRatio: ratio(t.unknown, words),
	}
	for _, label := range distributionOrder {
		d.Levels = append(d.Levels, LevelShare{
			Level:        label,
			Count:        t.counts[label],
			Percent:      100 * ratio(t.counts[label], words),
			UniqueLemmas: len(t.byLevel[label]),
		})
	}
	return d
}

// Lookup resolves word the way Analyze does for an untagged token, for
// callers that want a single-word answer.
func (a *Analyzer) Lookup(word string) (ports.Entry, bool) {
	if e, ok := a.dict.Lookup(word, ""); ok {
		return e, true
	}
	return lexicon.Pick(a.dict.LookupAll(Stem(word)), "")
}
