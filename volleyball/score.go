package volleyball

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrPointsZero = errors.New("winning points are zero or less")
	ErrSetsZero   = errors.New("winning sets are zero or less")

	ErrUndetermined = errors.New("the winner is undeterminable from the score")

	ErrEmpty           = errors.New("empty score")
	ErrUndeterminedSet = errors.New("a set has equal points")
	ErrTooManySets     = errors.New("too many sets")
	ErrTooFewSets      = errors.New("too few sets")
	ErrNegativePoints  = errors.New("negative points")
	ErrTooFewPoints    = errors.New("set winner points are less than the winning point setting")
	ErrInvalidMargin   = errors.New("the winning point margin is invalid")
	ErrUnneededSets    = errors.New("score contains unneeded extra sets")
)

type ScoreSettings struct {
	WinningPoints, TieBreakPoints, WinningSets int
}

// DefaultSettings is indoor volleyball: best of five, sets to 25 and a
// tie-break to 15, always won by two points.
var DefaultSettings = ScoreSettings{25, 15, 3}

func NewScoreSettings(winningPoints, tieBreakPoints, winningSets int) (ScoreSettings, error) {
	settings := ScoreSettings{winningPoints, tieBreakPoints, winningSets}

	if winningPoints <= 0 || tieBreakPoints <= 0 {
		return settings, ErrPointsZero
	}
	if winningSets <= 0 {
		return settings, ErrSetsZero
	}
	return settings, nil
}

// SetScore is the final score of one set.
type SetScore struct {
	A, B int
}

func (s SetScore) Invert() SetScore {
	return SetScore{s.B, s.A}
}

type Score []SetScore

// Sets counts the sets won by each side.
func (s Score) Sets() (int, int) {
	a, b := 0, 0
	for _, set := range s {
		if set.A > set.B {
			a += 1
		}
		if set.B > set.A {
			b += 1
		}
	}
	return a, b
}

// Totals sums the points of each side.
func (s Score) Totals() (int, int) {
	a, b := 0, 0
	for _, set := range s {
		a += set.A
		b += set.B
	}
	return a, b
}

func (s Score) Invert() Score {
	inverted := make(Score, len(s))
	for i, set := range s {
		inverted[i] = set.Invert()
	}
	return inverted
}

// Check validates a complete score against the settings. The last
// possible set is played to the tie-break points.
func (s Score) Check(settings ScoreSettings) error {
	maxSets := 2*settings.WinningSets - 1
	switch {
	case len(s) == 0:
		return ErrEmpty
	case len(s) < settings.WinningSets:
		return ErrTooFewSets
	case len(s) > maxSets:
		return ErrTooManySets
	}

	setWinsA, setWinsB := 0, 0
	for i, set := range s {
		target := settings.WinningPoints
		if i == maxSets-1 {
			target = settings.TieBreakPoints
		}
		w := max(set.A, set.B)
		l := min(set.A, set.B)

		switch {
		case setWinsA == settings.WinningSets || setWinsB == settings.WinningSets:
			return ErrUnneededSets
		case w == l:
			return ErrUndeterminedSet
		case l < 0:
			return ErrNegativePoints
		case w < target:
			return ErrTooFewPoints
		case w-l < 2:
			fallthrough
		case w > target && w-l != 2:
			return ErrInvalidMargin
		}

		if set.A > set.B {
			setWinsA += 1
		} else {
			setWinsB += 1
		}
	}

	if setWinsA != settings.WinningSets && setWinsB != settings.WinningSets {
		return ErrUndetermined
	}
	return nil
}

// ParseSets reads a set count like "3/1". A forfeited side is written
// "F" and counts zero, anything unreadable counts zero as well.
func ParseSets(s string) (int, int) {
	a, b, ok := strings.Cut(s, "/")
	if !ok {
		return 0, 0
	}
	return atoi(a), atoi(b)
}

// ParseTotal reads the total points like "75-60".
func ParseTotal(s string) (int, int) {
	a, b, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0
	}
	return atoi(a), atoi(b)
}

// ParseScore reads comma separated set scores like "25-20, 18-25".
func ParseScore(s string) Score {
	var score Score
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		a, b := ParseTotal(part)
		score = append(score, SetScore{a, b})
	}
	return score
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
