package analyzer

import "github.com/corey/cefr/internal/ports"

// Weights of the non-lexical signals in the adjusted score.
const (
	ClauseDensityWeight = 0.5
	ConnectiveWeight    = 0.5
)

// bandCeilings are exclusive upper bounds of A1..C1; anything above is C2.
var bandCeilings = [...]float64{1.5, 2.5, 3.5, 4.5, 5.5}

// Band maps a composite score to a CEFR level.
func Band(score float64) ports.Level {
	for i, ceil := range bandCeilings {
		if score < ceil {
			return ports.Levels[i]
		}
	}
	return ports.LevelC2
}

// Adjust adds the weighted clause density and connective sophistication to
// the lexical score.
func Adjust(lexical, clauseDensity, connectives float64) float64 {
	return lexical + ClauseDensityWeight*clauseDensity + ConnectiveWeight*connectives
}

// ratio divides, returning 0 when the denominator is 0.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
