package ports

import "strings"

// Tag is an output part-of-speech tag (Penn-style subset).
type Tag string

const (
	TagNN  Tag = "NN"
	TagVB  Tag = "VB"
	TagJJ  Tag = "JJ"
	TagRB  Tag = "RB"
	TagIN  Tag = "IN"
	TagCC  Tag = "CC"
	TagDT  Tag = "DT"
	TagPRP Tag = "PRP"
	TagMD  Tag = "MD"
	TagTO  Tag = "TO"
)

// IsNoun reports whether the tag is in the NN* family.
func (t Tag) IsNoun() bool { return strings.HasPrefix(string(t), "NN") }

// IsVerb reports whether the tag is in the VB* family.
func (t Tag) IsVerb() bool { return strings.HasPrefix(string(t), "VB") }

// IsAdj reports whether the tag is in the JJ* family.
func (t Tag) IsAdj() bool { return strings.HasPrefix(string(t), "JJ") }

// Token is one word of a sentence. Trail holds the punctuation that the
// tokenizer stripped from the end of the word ("," ";" ...); the syntax
// analyzer reads clause boundaries from it.
type Token struct {
	Surface string `json:"surface"`
	Tag     Tag    `json:"tag"`
	Trail   string `json:"trail,omitempty"`
}

// HasComma reports whether a comma followed the token in the source text.
func (t Token) HasComma() bool { return strings.ContainsRune(t.Trail, ',') }

// HasTerminal reports whether clause-terminal punctuation followed the token.
func (t Token) HasTerminal() bool { return strings.ContainsAny(t.Trail, ".;?!") }

// Sentence is an ordered token sequence.
type Sentence []Token
