package core

import (
	"cmp"
	"slices"
	"strings"
)

// Sorting selects the order of a board.
type Sorting int

const (
	SortPoints Sorting = iota
	SortRating
)

// A Comparator orders teams, best first.
type Comparator interface {
	Compare(a, b *Team) int
}

// The comparators below read the cumulative stats of a day when
// Global is set and the stats of that day alone otherwise. Each one
// falls through to the next on a tie:
// points, sets, point ratio, rating, name.

type PointsComparator struct {
	Day    int
	Global bool
}

func (c PointsComparator) value(t *Team) float64 {
	s := t.Stats(c.Day, c.Global)
	if s.MatchCount == 0 {
		return -1
	}
	return float64(s.Points*2*min(c.Day, t.LastDay)) / float64(s.MatchCount)
}

func (c PointsComparator) Compare(a, b *Team) int {
	if r := cmp.Compare(c.value(b), c.value(a)); r != 0 {
		return r
	}
	return SetComparator(c).Compare(a, b)
}

type SetComparator struct {
	Day    int
	Global bool
}

func (c SetComparator) Compare(a, b *Team) int {
	ra := a.Stats(c.Day, c.Global).SetRatio()
	rb := b.Stats(c.Day, c.Global).SetRatio()
	if r := cmp.Compare(rb, ra); r != 0 {
		return r
	}
	return PointComparator(c).Compare(a, b)
}

type PointComparator struct {
	Day    int
	Global bool
}

func (c PointComparator) Compare(a, b *Team) int {
	ra := a.Stats(c.Day, c.Global).PointRatio()
	rb := b.Stats(c.Day, c.Global).PointRatio()
	if r := cmp.Compare(rb, ra); r != 0 {
		return r
	}
	return RatingComparator(c).Compare(a, b)
}

type RatingComparator struct {
	Day    int
	Global bool
}

func (c RatingComparator) Compare(a, b *Team) int {
	ma := a.Stats(c.Day, c.Global).Rating.Mu
	mb := b.Stats(c.Day, c.Global).Rating.Mu
	if r := cmp.Compare(mb, ma); r != 0 {
		return r
	}
	if r := strings.Compare(a.Name, b.Name); r != 0 {
		return r
	}
	return strings.Compare(a.ID, b.ID)
}

// PoolComparator groups the teams of a day by pool name and keeps the
// listing order inside a pool. Teams without a pool come last.
type PoolComparator struct {
	Day    int
	Global bool
}

func (c PoolComparator) Compare(a, b *Team) int {
	pa, pb := a.Pools[c.Day], b.Pools[c.Day]
	switch {
	case pa == nil && pb == nil:
		return PointsComparator(c).Compare(a, b)
	case pa == nil:
		return 1
	case pb == nil:
		return -1
	case pa == pb:
		return cmp.Compare(pa.index(a), pa.index(b))
	}
	return strings.Compare(pa.Name, pb.Name)
}

// PreviousPoolComparator orders the pools of a day by seed and the
// teams of a pool by their standing at the end of the day before.
type PreviousPoolComparator struct {
	Day    int
	Global bool
}

func (c PreviousPoolComparator) Compare(a, b *Team) int {
	pa, pb := a.Pools[c.Day], b.Pools[c.Day]
	switch {
	case pa == nil && pb == nil:
		return PointsComparator(c).Compare(a, b)
	case pa == nil:
		return 1
	case pb == nil:
		return -1
	case pa == pb:
		if c.Day == 1 {
			return cmp.Compare(pa.index(a), pa.index(b))
		}
		return PointsComparator{c.Day - 1, true}.Compare(a, b)
	}
	if pa.Ranking != 0 && pb.Ranking != 0 {
		if r := cmp.Compare(pa.Ranking, pb.Ranking); r != 0 {
			return r
		}
	}
	return strings.Compare(pa.Name, pb.Name)
}

// Sort orders teams in place.
func Sort(teams []*Team, c Comparator) {
	slices.SortStableFunc(teams, c.Compare)
}

// AssignRanks writes the 1-based position of each team of a sorted
// list into the ranks of a day.
func AssignRanks(teams []*Team, day int, ranks func(*Team) map[int]int) {
	for i, team := range teams {
		ranks(team)[day] = i + 1
	}
}

// Board returns the teams of the competition, or the teams of the
// day when qualified, sorted for the day. Daily boards use the stats
// of the day alone.
func (c *Competition) Board(sorting Sorting, day int, daily, qualified bool) []*Team {
	var board []*Team
	if qualified {
		if d, ok := c.Days[day]; ok {
			board = slices.Clone(d.Teams)
		}
	} else {
		board = slices.Clone(c.TeamOrder)
	}

	if sorting == SortRating {
		Sort(board, RatingComparator{day, !daily})
	} else {
		Sort(board, PointsComparator{day, !daily})
	}
	return board
}
