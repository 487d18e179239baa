// Package analyzer estimates the CEFR level of an English text. It segments
// and tags the text, scores every word and phrase against the dictionary, and
// adjusts the lexical score with syntactic and discourse signals.
package analyzer

import (
	"github.com/corey/cefr/internal/domain/discourse"
	"github.com/corey/cefr/internal/domain/syntax"
	"github.com/corey/cefr/internal/ports"
)

// Labels used in token details beyond the CEFR bands.
const (
	LabelEntity  = "Entity"
	LabelUnknown = "Unknown"
)

// MaxUnknownSample caps Result.UnknownWords.
const MaxUnknownSample = 20

// TokenDetail annotates one token or one matched phrase.
type TokenDetail struct {
	Surface string    `json:"surface"`
	Lemma   string    `json:"lemma"`
	Tag     ports.Tag `json:"tag,omitempty"`
	Level   string    `json:"level"`
	Phrase  bool      `json:"phrase,omitempty"`
}

// LevelShare is one row of the level distribution.
type LevelShare struct {
	Level        string  `json:"level"`
	Count        int     `json:"count"`
	Percent      float64 `json:"percent"`
	UniqueLemmas int     `json:"unique_lemmas"`
}

// Distribution breaks the word tokens down by label (A1..C2, Unknown, Entity).
type Distribution struct {
	Levels       []LevelShare `json:"levels"`
	KnownWords   int          `json:"known_words"`
	UnknownWords int          `json:"unknown_words"`
	UnknownRatio float64      `json:"unknown_ratio"`
}

// Result is the outcome of one Analyze call.
type Result struct {
	Level             ports.Level       `json:"level"`
	LexicalScore      float64           `json:"lexical_score"`
	AdjustedScore     float64           `json:"adjusted_score"`
	SentenceCount     int               `json:"sentence_count"`
	WordCount         int               `json:"word_count"`
	UniqueLemmaCount  int               `json:"unique_lemma_count"`
	AvgSentenceLength float64           `json:"avg_sentence_length"`
	Syntax            syntax.Metrics    `json:"syntax_metrics"`
	Discourse         discourse.Metrics `json:"discourse_metrics"`
	Distribution      Distribution      `json:"distribution"`
	UnknownWords      []string          `json:"unknown_words"`
	Tokens            []TokenDetail     `json:"token_details"`
}
