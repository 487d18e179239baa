package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corey/cefr/internal/ports"
)

func surfaces(s ports.Sentence) []string {
	out := make([]string, len(s))
	for i, tok := range s {
		out[i] = tok.Surface
	}
	return out
}

func TestSplitSentences(t *testing.T) {
	titles := testLists(t).Titles

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"basic", "Hello there! How are you? Fine.", []string{"Hello there!", "How are you?", "Fine."}},
		{"no terminator", "just words", []string{"just words"}},
		{"terminator run", "Really?! Yes...", []string{"Really?!", "Yes..."}},
		{"title", "Mr. Brown went to London.", []string{"Mr. Brown went to London."}},
		{"title mid sentence", "I met Dr. Smith. He was kind.", []string{"I met Dr. Smith.", "He was kind."}},
		{"decimal", "It costs 3.5 dollars. Cheap.", []string{"It costs 3.5 dollars.", "Cheap."}},
		{"whitespace segments", " .  ! ", []string{".", "!"}},
		{"empty", "", nil},
		{"blank", "   \n\t ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.in, titles))
		})
	}
}

func TestTokenize_StripsPunctuation(t *testing.T) {
	l := testLists(t)
	s := Tokenize(`"Well," she said (quietly), "no."`, l)

	assert.Equal(t, []string{"Well", "she", "said", "quietly", "no"}, surfaces(s))
	assert.True(t, s[0].HasComma())
	assert.True(t, s[3].HasComma())
	assert.True(t, s[4].HasTerminal())
	assert.False(t, s[1].HasComma())
}

func TestTokenize_Contractions(t *testing.T) {
	l := testLists(t)

	tests := []struct {
		in   string
		want []string
	}{
		{"I don't know", []string{"I", "do", "not", "know"}},
		{"They're here", []string{"They", "are", "here"}},
		{"Won't you", []string{"Will", "not", "you"}},
		{"it's John's book", []string{"it", "is", "John's", "book"}},
		{"he'd go", []string{"he'd", "go"}},
		{"we'll see", []string{"we", "will", "see"}},
		{"I'm fine", []string{"I", "am", "fine"}},
		{"they can't", []string{"they", "can", "not"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, surfaces(Tokenize(tt.in, l)))
		})
	}
}

func TestTokenize_TitleDotIsNotTerminal(t *testing.T) {
	l := testLists(t)
	s := Tokenize("Mr. Brown left.", l)
	assert.Equal(t, []string{"Mr", "Brown", "left"}, surfaces(s))
	assert.False(t, s[0].HasTerminal())
	assert.True(t, s[2].HasTerminal())
}

func TestTokenize_BarePunctuation(t *testing.T) {
	l := testLists(t)
	s := Tokenize("yes , no ; maybe", l)
	assert.Equal(t, []string{"yes", "no", "maybe"}, surfaces(s))
	assert.True(t, s[0].HasComma())
	assert.True(t, s[1].HasTerminal())

	assert.Empty(t, Tokenize("-- ... !!", l))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "don't", Normalize("don’t"))
	assert.Equal(t, "café", Normalize("café"))
}
