package rating

import "strings"

// Strategy decides how a match result is folded into two ratings.
type Strategy int

const (
	// Every set is one comparison, tight sets are damped.
	PerSet Strategy = iota
	// The match is a single comparison.
	PerMatch
)

func (s Strategy) String() string {
	switch s {
	case PerMatch:
		return "match"
	default:
		return "set"
	}
}

func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "set", "sets", "per-set":
		return PerSet, nil
	case "match", "matches", "per-match":
		return PerMatch, nil
	}
	return PerSet, ErrUnknownPolicy
}

// SetResult is the final score of a set from the point of view of side A.
type SetResult struct {
	A, B int
}

// Tight reports a set decided by two points or less.
func (r SetResult) Tight() bool {
	d := r.A - r.B
	return d >= -2 && d <= 2
}

// ApplyMatch folds a decided match into the ratings of side a and
// side b. Sets with equal points are skipped.
func (s Strategy) ApplyMatch(
	m Model,
	a, b Rating,
	sets []SetResult,
	aWon bool,
) (Rating, Rating) {
	if s == PerMatch {
		if aWon {
			return m.Rate(a, b, false)
		}
		b, a = m.Rate(b, a, false)
		return a, b
	}

	for _, set := range sets {
		switch {
		case set.A > set.B:
			a, b = m.Rate(a, b, set.Tight())
		case set.B > set.A:
			b, a = m.Rate(b, a, set.Tight())
		}
	}
	return a, b
}
