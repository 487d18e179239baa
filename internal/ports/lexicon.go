// Package ports defines the interfaces (contracts) that adapters must implement,
// plus the small value types shared across the analysis pipeline. Domain logic
// depends only on these definitions, never on concrete adapters.
package ports

import "strings"

// Level is a CEFR proficiency band. The zero value is LevelUnknown, and the
// numeric value of A1..C2 is the lexical score of that band (1..6).
type Level int

const (
	LevelUnknown Level = 0
	LevelA1      Level = 1
	LevelA2      Level = 2
	LevelB1      Level = 3
	LevelB2      Level = 4
	LevelC1      Level = 5
	LevelC2      Level = 6
)

// Levels lists the scorable bands in ascending order.
var Levels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

// String returns the band label ("A1".."C2", "Unknown").
func (l Level) String() string {
	switch l {
	case LevelA1:
		return "A1"
	case LevelA2:
		return "A2"
	case LevelB1:
		return "B1"
	case LevelB2:
		return "B2"
	case LevelC1:
		return "C1"
	case LevelC2:
		return "C2"
	default:
		return "Unknown"
	}
}

// Score returns the numeric weight of the band: A1=1 .. C2=6, Unknown=0.
func (l Level) Score() float64 {
	if l < LevelA1 || l > LevelC2 {
		return 0
	}
	return float64(l)
}

// ParseLevel maps a label to its Level. Anything unrecognized is LevelUnknown.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A1":
		return LevelA1
	case "A2":
		return LevelA2
	case "B1":
		return LevelB1
	case "B2":
		return LevelB2
	case "C1":
		return LevelC1
	case "C2":
		return LevelC2
	default:
		return LevelUnknown
	}
}

// MarshalText encodes the band label so JSON carries "B2" rather than 4.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText accepts a band label; unknown labels decode as LevelUnknown.
func (l *Level) UnmarshalText(b []byte) error {
	*l = ParseLevel(string(b))
	return nil
}

// PartOfSpeech is the coarse part-of-speech vocabulary used by the lexicon.
type PartOfSpeech string

const (
	POSNoun       PartOfSpeech = "noun"
	POSVerb       PartOfSpeech = "verb"
	POSAdj        PartOfSpeech = "adj"
	POSAdv        PartOfSpeech = "adv"
	POSPrep       PartOfSpeech = "prep"
	POSConj       PartOfSpeech = "conj"
	POSDeterminer PartOfSpeech = "determiner"
	POSPronoun    PartOfSpeech = "pronoun"
	POSModal      PartOfSpeech = "modal"
	POSOther      PartOfSpeech = "other"
)

// ParsePOS normalizes a part-of-speech label from a lexicon source.
// Common long forms are folded onto the coarse vocabulary; anything else is POSOther.
func ParsePOS(s string) PartOfSpeech {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "noun", "n":
		return POSNoun
	case "verb", "v":
		return POSVerb
	case "adj", "adjective":
		return POSAdj
	case "adv", "adverb":
		return POSAdv
	case "prep", "preposition":
		return POSPrep
	case "conj", "conjunction":
		return POSConj
	case "determiner", "det":
		return POSDeterminer
	case "pronoun", "pron":
		return POSPronoun
	case "modal", "modal verb":
		return POSModal
	default:
		return POSOther
	}
}

// Entry is one leveled reading of a surface form. Homographs produce several
// entries for the same key; their order is the source insertion order.
type Entry struct {
	Lemma    string       `json:"lemma"`
	POS      PartOfSpeech `json:"pos"`
	Level    Level        `json:"level"`
	Abstract bool         `json:"abstract"`
}

// Row is a parsed lexicon source row: lemma, pos, level[, abstract].
type Row struct {
	Lemma    string       `json:"lemma"`
	POS      PartOfSpeech `json:"pos"`
	Level    Level        `json:"level"`
	Abstract bool         `json:"abstract,omitempty"`
}

// Phrase is a multi-word lexicon entry.
type Phrase struct {
	Text  string `json:"text"`
	Level Level  `json:"level"`
}

// PhraseMatch is a phrase found in running text. Start/End are byte offsets.
type PhraseMatch struct {
	Phrase
	Start int `json:"start"`
	End   int `json:"end"`
}

// Dictionary is the "resolve word to level/pos data" capability. The in-memory
// lexicon and the compact offset-indexed dictionary both implement it.
type Dictionary interface {
	// LookupAll returns every entry for word, trying exact case, lowercase and
	// the suffix fallback in that order. Returns nil when nothing matches.
	LookupAll(word string) []Entry

	// Lookup returns the entry preferred for posHint (a tag such as "NN" or
	// "VB"), falling back to the first entry in insertion order.
	Lookup(word, posHint string) (Entry, bool)

	// MatchPhrases scans text once and returns every multi-word entry found.
	// Implementations without phrases return nil.
	MatchPhrases(text string) []PhraseMatch
}
