package syntax

// ClauseKind types a frame on the clause stack.
type ClauseKind int

const (
	// Explicit clauses open with a subordinator or relative pronoun.
	Explicit ClauseKind = iota + 1
	// Implicit clauses are relative clauses with the pronoun dropped
	// ("the book he wrote").
	Implicit
	// Reduced clauses are participle relatives ("the man sitting there").
	Reduced
)

func (k ClauseKind) String() string {
	switch k {
	case Explicit:
		return "explicit"
	case Implicit:
		return "implicit"
	case Reduced:
		return "reduced"
	default:
		return "unknown"
	}
}

// ClauseStack tracks open clauses within one sentence. The root clause is
// implicit, so depth is len(frames)+1. Popping or clearing an empty stack is
// a no-op.
type ClauseStack struct {
	frames   []ClauseKind
	maxDepth int
	pushes   []ClauseKind
}

// NewClauseStack returns an empty stack at root depth 1.
func NewClauseStack() *ClauseStack {
	return &ClauseStack{maxDepth: 1}
}

// Push opens a clause and records the new depth if it is the deepest seen.
func (s *ClauseStack) Push(k ClauseKind) {
	s.frames = append(s.frames, k)
	s.pushes = append(s.pushes, k)
	if d := len(s.frames) + 1; d > s.maxDepth {
		s.maxDepth = d
	}
}

// Pop closes the innermost clause, if any.
func (s *ClauseStack) Pop() {
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Clear closes every open clause.
func (s *ClauseStack) Clear() {
	s.frames = s.frames[:0]
}

// Len returns the number of open clauses.
func (s *ClauseStack) Len() int { return len(s.frames) }

// MaxDepth returns the deepest nesting observed, counting the root.
func (s *ClauseStack) MaxDepth() int { return s.maxDepth }

// pushed returns every push in order.
func (s *ClauseStack) pushed() []ClauseKind { return s.pushes }
