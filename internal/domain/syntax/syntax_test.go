package syntax

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/cefr/internal/domain/wordlist"
	"github.com/corey/cefr/internal/ports"
)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	l, err := wordlist.Default()
	require.NoError(t, err)
	return New(l)
}

// tok builds a token from "surface/TAG" with an optional trailing punctuation
// suffix after the tag: "tired/JJ," carries a comma.
func tok(tt string) ports.Token {
	surface, rest, _ := strings.Cut(tt, "/")
	tag := strings.TrimRight(rest, ",;.?!")
	return ports.Token{Surface: surface, Tag: ports.Tag(tag), Trail: rest[len(tag):]}
}

func sent(specs ...string) ports.Sentence {
	s := make(ports.Sentence, len(specs))
	for i, sp := range specs {
		s[i] = tok(sp)
	}
	return s
}

var scenario = sent("Although/CC", "he/PRP", "was/VB", "tired/JJ,", "he/PRP",
	"finished/VB", "the/DT", "difficult/JJ", "assignment/NN.")

// =============================================================================
// Clause stack
// =============================================================================

func TestClauseStack_NoUnderflow(t *testing.T) {
	st := NewClauseStack()
	assert.NotPanics(t, func() {
		st.Pop()
		st.Pop()
		st.Clear()
	})
	assert.Equal(t, 0, st.Len())
	assert.Equal(t, 1, st.MaxDepth())
}

func TestClauseStack_MaxDepthSurvivesPops(t *testing.T) {
	st := NewClauseStack()
	st.Push(Explicit)
	st.Push(Reduced)
	st.Pop()
	st.Clear()
	assert.Equal(t, 3, st.MaxDepth())
	assert.Equal(t, []ClauseKind{Explicit, Reduced}, st.pushed())
}

// =============================================================================
// Predicates
// =============================================================================

func TestOpensImplicit(t *testing.T) {
	a := newAnalyzer(t)

	book, he := tok("book/NN"), tok("he/PRP")
	assert.True(t, a.OpensImplicit(&book, &he))

	bookComma := tok("book/NN,")
	assert.False(t, a.OpensImplicit(&bookComma, &he), "comma between noun and pronoun")

	read := tok("read/VB")
	assert.False(t, a.OpensImplicit(&read, &he))
	assert.False(t, a.OpensImplicit(nil, &he))
}

func TestOpensReduced(t *testing.T) {
	a := newAnalyzer(t)
	man := tok("man/NN")

	for _, tt := range []string{"sitting/VB", "written/VB", "painted/JJ", "known/JJ"} {
		cur := tok(tt)
		assert.True(t, a.OpensReduced(&man, &cur), tt)
	}
	for _, tt := range []string{"sing/VB", "red/JJ", "sitting/NN"} {
		cur := tok(tt)
		assert.False(t, a.OpensReduced(&man, &cur), tt)
	}
	sitting := tok("sitting/VB")
	the := tok("the/DT")
	assert.False(t, a.OpensReduced(&the, &sitting))
}

func TestEnumerationFollows(t *testing.T) {
	a := newAnalyzer(t)
	for _, tt := range []string{"and/CC", "Or/CC", "red/JJ", "apples/NN"} {
		next := tok(tt)
		assert.True(t, a.EnumerationFollows(&next), tt)
	}
	he := tok("he/PRP")
	assert.False(t, a.EnumerationFollows(&he))
	assert.False(t, a.EnumerationFollows(nil))
}

func TestIsParticiple(t *testing.T) {
	a := newAnalyzer(t)
	tests := []struct {
		tt string
		want bool
	}{
		{"written/NN", true},
		{"tired/JJ", true},
		{"painted/VB", true},
		{"red/JJ", false},
		{"tired/NN", false},
		{"taken/VB", true},
		{"oxen/VB", false},
		{"golden/JJ", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, a.IsParticiple(tok(tt.tt)), tt.tt)
	}
}

// =============================================================================
// Passive scan
// =============================================================================

func TestCountPassives(t *testing.T) {
	a := newAnalyzer(t)

	assert.Equal(t, 1, a.CountPassives(sent("the/DT", "letter/NN", "was/VB", "written/VB")))
	assert.Equal(t, 1, a.CountPassives(sent("it/PRP", "was/VB", "quickly/RB", "painted/VB")))
	assert.Equal(t, 1, a.CountPassives(sent("it/PRP", "is/VB", "often/RB", "broken/VB")))
	assert.Equal(t, 0, a.CountPassives(sent("it/PRP", "is/VB", "very/RB", "big/JJ")))
	assert.Equal(t, 0, a.CountPassives(sent("they/PRP", "are/VB", "here/RB")))
	assert.Equal(t, 1, a.CountPassives(sent("it/PRP", "has/VB", "been/VB", "written/VB")))
	assert.Equal(t, 2, a.CountPassives(sent("it/PRP", "was/VB", "been/VB", "seen/VB")),
		"scanning resumes after the be-verb")
	assert.Equal(t, 0, a.CountPassives(nil))
}

// =============================================================================
// Nesting
// =============================================================================

func TestNesting_Scenario(t *testing.T) {
	a := newAnalyzer(t)
	st := a.Nesting(scenario)

	require.NotEmpty(t, st.pushed())
	assert.Equal(t, Explicit, st.pushed()[0])
	assert.Equal(t, 2, st.MaxDepth())
	assert.Equal(t, 0, st.Len(), "terminal punctuation clears the stack")
}

func TestNesting_ImplicitAndReduced(t *testing.T) {
	a := newAnalyzer(t)

	st := a.Nesting(sent("the/DT", "book/NN", "she/PRP", "wrote/VB", "was/VB", "long/JJ."))
	assert.Equal(t, []ClauseKind{Implicit}, st.pushed())

	st = a.Nesting(sent("the/DT", "man/NN", "sitting/VB", "there/RB", "is/VB", "old/JJ"))
	assert.Equal(t, []ClauseKind{Reduced}, st.pushed())
}

func TestNesting_DeepNesting(t *testing.T) {
	a := newAnalyzer(t)
	s := sent("I/PRP", "know/VB", "that/CC", "you/PRP", "said/VB", "that/CC",
		"he/PRP", "left/VB", "because/CC", "it/PRP", "rained/VB")
	assert.Equal(t, 4, a.Nesting(s).MaxDepth())
}

func TestNesting_CommaPops(t *testing.T) {
	a := newAnalyzer(t)

	// "If it rains, if it snows" pops after the first clause.
	st := a.Nesting(sent("if/CC", "it/PRP", "rains/VB,", "if/CC", "it/PRP", "snows/VB"))
	assert.Equal(t, 2, st.MaxDepth())
	assert.Equal(t, 1, st.Len())

	// Enumeration after the comma keeps the clause open.
	st = a.Nesting(sent("because/CC", "apples/NN,", "pears/NN", "and/CC", "plums/NN"))
	assert.Equal(t, 1, st.Len())
}

func TestNesting_LeadingCommaNoUnderflow(t *testing.T) {
	a := newAnalyzer(t)
	assert.NotPanics(t, func() {
		st := a.Nesting(sent("well/RB,", "yes/RB;", "no/RB."))
		assert.Equal(t, 1, st.MaxDepth())
	})
}

// =============================================================================
// Metrics
// =============================================================================

func TestAnalyze_Scenario(t *testing.T) {
	a := newAnalyzer(t)
	m := a.Analyze([]ports.Sentence{scenario})

	assert.Equal(t, 1, m.Subordinators)
	assert.Equal(t, 0, m.Coordinators)
	assert.Greater(t, m.ClauseDensity, 0.0)
	assert.Equal(t, 1, m.Passives, "adjective-tagged tired after was")
	assert.InDelta(t, 1.0, m.PassiveRatio, 1e-9)
	assert.InDelta(t, 2.0, m.AvgClauseDepth, 1e-9)
}

func TestAnalyze_AverageDepth(t *testing.T) {
	a := newAnalyzer(t)
	m := a.Analyze([]ports.Sentence{
		scenario,
		sent("the/DT", "cat/NN", "sleeps/VB."),
	})
	assert.InDelta(t, 1.5, m.AvgClauseDepth, 1e-9)
	assert.InDelta(t, 0.5, m.ClauseDensity, 1e-9)
}

func TestAnalyze_Empty(t *testing.T) {
	a := newAnalyzer(t)
	m := a.Analyze(nil)
	assert.Equal(t, Metrics{}, m)
	for _, v := range []float64{m.ClauseDensity, m.PassiveRatio, m.AvgClauseDepth} {
		assert.False(t, math.IsNaN(v))
	}
}
