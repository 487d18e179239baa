// Package ahocorasick provides multi-pattern phrase matching using an Aho-Corasick automaton.
// It wraps the petar-dambovaliev/aho-corasick library for O(n + m + z) matching.
package ahocorasick

import (
	"errors"
	"fmt"

	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/cefr/internal/ports"
)

// ErrNoPatterns is returned when the matcher is built from an empty pattern set.
var ErrNoPatterns = errors.New("ahocorasick: empty pattern set")

// PhraseMatcher implements ports.PhraseMatcher. Pattern indexes reported in
// hits are positions in the slice passed to NewPhraseMatcher.
type PhraseMatcher struct {
	automaton aho.AhoCorasick
	patterns  []string
}

var _ ports.PhraseMatcher = (*PhraseMatcher)(nil)

// NewPhraseMatcher compiles the automaton. Matching is ASCII case-insensitive
// and leftmost-longest, so "In spite of" at a sentence start still hits the
// lowercase pattern and "as well as" wins over "as well".
func NewPhraseMatcher(patterns []string) (*PhraseMatcher, error) {
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}
	for i, p := range patterns {
		if p == "" {
			return nil, fmt.Errorf("ahocorasick: pattern %d is empty", i)
		}
	}

	p := make([]string, len(patterns))
	copy(p, patterns)

	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		AsciiCaseInsensitive: true,
		MatchKind:            aho.LeftMostLongestMatch,
		DFA:                  true,
	})
	return &PhraseMatcher{
		automaton: builder.Build(p),
		patterns:  p,
	}, nil
}

// Build adapts NewPhraseMatcher to ports.MatcherBuilder.
func Build(patterns []string) (ports.PhraseMatcher, error) {
	m, err := NewPhraseMatcher(patterns)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// FindAll returns every non-overlapping match in text with byte offsets.
func (m *PhraseMatcher) FindAll(text string) []ports.PatternHit {
	if text == "" {
		return nil
	}
	matches := m.automaton.FindAll(text)
	if len(matches) == 0 {
		return nil
	}
	hits := make([]ports.PatternHit, 0, len(matches))
	for _, match := range matches {
		hits = append(hits, ports.PatternHit{
			Pattern: match.Pattern(),
			Start:   match.Start(),
			End:     match.End(),
		})
	}
	return hits
}

// PatternCount returns the number of patterns in the automaton.
func (m *PhraseMatcher) PatternCount() int {
	return len(m.patterns)
}

// Pattern returns the pattern string at the given index.
func (m *PhraseMatcher) Pattern(idx int) string {
	if idx < 0 || idx >= len(m.patterns) {
		return ""
	}
	return m.patterns[idx]
}
