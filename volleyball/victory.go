package volleyball

// Victory classifies how clearly a match was won.
type Victory int

const (
	Unplayed Victory = iota
	TieBreak
	Medium
	Large
	Huge
)

// Winner point ratio thresholds between the victory classes.
const (
	MediumRatio = 1.25
	LargeRatio  = 2.0
)

func (v Victory) String() string {
	switch v {
	case TieBreak:
		return "tie-break"
	case Medium:
		return "medium"
	case Large:
		return "large"
	case Huge:
		return "huge"
	default:
		return "unplayed"
	}
}

// Ratio is the winner's total points over the loser's total points.
// A loser without points counts as one.
func Ratio(winnerTotal, loserTotal int) float64 {
	return float64(winnerTotal) / float64(max(loserTotal, 1))
}

// Classify returns the victory class of a match given the set count
// and the totals of both sides.
func Classify(setA, setB, totalA, totalB int) Victory {
	if setA == setB {
		return Unplayed
	}

	d := setA - setB
	if d > -2 && d < 2 {
		return TieBreak
	}

	ratio := Ratio(totalA, totalB)
	if setB > setA {
		ratio = Ratio(totalB, totalA)
	}

	switch {
	case ratio <= MediumRatio:
		return Medium
	case ratio <= LargeRatio:
		return Large
	default:
		return Huge
	}
}
