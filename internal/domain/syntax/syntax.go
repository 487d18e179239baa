// Package syntax measures syntactic complexity over tagged sentences: clause
// density, passive voice and clause nesting depth.
package syntax

import (
	"strings"

	"github.com/corey/cefr/internal/domain/wordlist"
	"github.com/corey/cefr/internal/ports"
)

// Metrics are per-text syntactic measures. Ratios are per sentence and zero
// when there are no sentences.
type Metrics struct {
	ClauseDensity  float64 `json:"clause_density"`
	PassiveRatio   float64 `json:"passive_ratio"`
	AvgClauseDepth float64 `json:"avg_clause_depth"`

	Subordinators int `json:"subordinators"`
	Coordinators  int `json:"coordinators"`
	Passives      int `json:"passives"`
}

// Analyzer holds the closed word classes the predicates read.
type Analyzer struct {
	lists *wordlist.Lists
}

// New returns an analyzer over lists.
func New(lists *wordlist.Lists) *Analyzer {
	return &Analyzer{lists: lists}
}

// Analyze computes Metrics over tagged sentences.
func (a *Analyzer) Analyze(sentences []ports.Sentence) Metrics {
	var m Metrics
	if len(sentences) == 0 {
		return m
	}

	depthSum := 0
	for _, s := range sentences {
		for _, tok := range s {
			w := strings.ToLower(tok.Surface)
			switch {
			case a.lists.Subordinators.Has(w):
				m.Subordinators++
			case a.lists.Coordinators.Has(w):
				m.Coordinators++
			}
		}
		m.Passives += a.CountPassives(s)
		depthSum += a.Nesting(s).MaxDepth()
	}

	n := float64(len(sentences))
	m.ClauseDensity = float64(m.Subordinators+m.Coordinators) / n
	m.PassiveRatio = float64(m.Passives) / n
	m.AvgClauseDepth = float64(depthSum) / n
	return m
}

// Nesting runs the clause state machine over one sentence and returns the
// final stack. For each token: at most one push (explicit, implicit, reduced
// in that order), then the punctuation that followed it is applied.
func (a *Analyzer) Nesting(s ports.Sentence) *ClauseStack {
	st := NewClauseStack()
	for i := range s {
		var prev, next *ports.Token
		if i > 0 {
			prev = &s[i-1]
		}
		if i+1 < len(s) {
			next = &s[i+1]
		}
		cur := &s[i]

		switch {
		case a.OpensExplicit(cur):
			st.Push(Explicit)
		case a.OpensImplicit(prev, cur):
			st.Push(Implicit)
		case a.OpensReduced(prev, cur):
			st.Push(Reduced)
		}

		switch {
		case cur.HasTerminal():
			st.Clear()
		case cur.HasComma() && !a.EnumerationFollows(next):
			st.Pop()
		}
	}
	return st
}

// OpensExplicit reports whether cur is a subordinator or relative pronoun.
func (a *Analyzer) OpensExplicit(cur *ports.Token) bool {
	return a.lists.Subordinators.Has(strings.ToLower(cur.Surface))
}

// OpensImplicit reports a subject pronoun directly after a noun with no comma
// between them.
func (a *Analyzer) OpensImplicit(prev, cur *ports.Token) bool {
	if prev == nil || !prev.Tag.IsNoun() || prev.HasComma() {
		return false
	}
	return a.lists.SubjectPronouns.Has(strings.ToLower(cur.Surface))
}

// OpensReduced reports a participle directly after a noun.
func (a *Analyzer) OpensReduced(prev, cur *ports.Token) bool {
	if prev == nil || !prev.Tag.IsNoun() {
		return false
	}
	if !cur.Tag.IsVerb() && !cur.Tag.IsAdj() {
		return false
	}
	w := strings.ToLower(cur.Surface)
	switch {
	case a.lists.IrregularParticiples.Has(w):
		return true
	case strings.HasSuffix(w, "ing") && len(w) > 4:
		return true
	case strings.HasSuffix(w, "ed") && len(w) > 4:
		return true
	}
	return false
}

// EnumerationFollows reports whether the token after a comma continues a
// list rather than closing a clause.
func (a *Analyzer) EnumerationFollows(next *ports.Token) bool {
	if next == nil {
		return false
	}
	if a.lists.Enumerators.Has(strings.ToLower(next.Surface)) {
		return true
	}
	return next.Tag == ports.TagJJ || next.Tag == ports.TagNN
}

// CountPassives counts be-verb + participle constructions, allowing one
// adverb between them. Scanning resumes after the be-verb, so "been" in
// "has been written" can itself start a match.
func (a *Analyzer) CountPassives(s ports.Sentence) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if !a.lists.BeVerbs.Has(strings.ToLower(s[i].Surface)) {
			continue
		}
		switch {
		case i+1 < len(s) && a.IsParticiple(s[i+1]):
			n++
		case i+2 < len(s) && isAdverb(s[i+1]) && a.IsParticiple(s[i+2]):
			n++
		}
	}
	return n
}

// IsParticiple recognizes past participles: irregular forms, or VB*/JJ*
// tokens ending in -ed (longer than 3) or -en (longer than 4).
func (a *Analyzer) IsParticiple(tok ports.Token) bool {
	w := strings.ToLower(tok.Surface)
	if a.lists.IrregularParticiples.Has(w) {
		return true
	}
	if !tok.Tag.IsVerb() && !tok.Tag.IsAdj() {
		return false
	}
	return (strings.HasSuffix(w, "ed") && len(w) > 3) ||
		(strings.HasSuffix(w, "en") && len(w) > 4)
}

func isAdverb(tok ports.Token) bool {
	return tok.Tag == ports.TagRB || strings.HasSuffix(strings.ToLower(tok.Surface), "ly")
}
