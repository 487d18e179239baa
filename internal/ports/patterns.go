package ports

// PhraseMatcher finds phrase patterns in text using multi-pattern matching
// (Aho-Corasick). A single pass over the text finds all patterns at once.
//
// Pattern indexes are positional: hit.Pattern == i means the i-th string
// passed to the MatcherBuilder. The lexicon relies on this to resolve a hit
// back to its phrase list entry, so adapters must never reorder or dedupe.
type PhraseMatcher interface {
	// FindAll returns non-overlapping matches in text, left to right.
	FindAll(text string) []PatternHit

	// PatternCount returns how many patterns the automaton was built from.
	PatternCount() int
}

// PatternHit is one match from a PhraseMatcher, with byte offsets into the text.
type PatternHit struct {
	Pattern int // index into the patterns slice given to the builder
	Start   int // inclusive
	End     int // exclusive
}

// MatcherBuilder compiles a PhraseMatcher from patterns. It must fail when the
// pattern set cannot be compiled (an empty set included).
type MatcherBuilder func(patterns []string) (PhraseMatcher, error)
