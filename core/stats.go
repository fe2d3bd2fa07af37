package core

import (
	"slices"

	"github.com/ezBadminton/volleyrank/rating"
)

// Stats accumulates the results of a team either over one day or
// over all days up to a day.
type Stats struct {
	Rating rating.Rating `json:"rating"`

	// Mean and standard deviation of the chance to lose of the
	// matches, {-1, -1} until computed.
	Difficulty [2]float64 `json:"-"`

	Points int `json:"points"`

	MatchCount int `json:"matchCount"`
	MatchWon   int `json:"matchWon"`
	MatchLost  int `json:"matchLost"`

	SetWon  int `json:"setWon"`
	SetLost int `json:"setLost"`

	PointWon  int `json:"pointWon"`
	PointLost int `json:"pointLost"`

	// All matches including unplayed ones
	Matches []*Match `json:"-"`
}

func newStats(r rating.Rating) *Stats {
	return &Stats{
		Rating:     r,
		Difficulty: [2]float64{-1, -1},
	}
}

func (s *Stats) clone() *Stats {
	c := *s
	c.Matches = slices.Clone(s.Matches)
	c.Difficulty = [2]float64{-1, -1}
	return &c
}

// addMatch counts a match of the team. Only decided matches change
// the tallies.
func (s *Stats) addMatch(team *Team, m *Match) {
	s.Matches = append(s.Matches, m)
	s.Difficulty = [2]float64{-1, -1}
	if m.Winner == nil {
		return
	}

	tm := m.ForTeam(team)
	s.MatchCount += 1
	if m.Winner == team {
		s.MatchWon += 1
	} else {
		s.MatchLost += 1
	}
	s.Points += matchPoints(tm.SetA, tm.SetB)

	s.SetWon += tm.SetA
	s.SetLost += tm.SetB
	won, lost := tm.TotalA, tm.TotalB
	if len(tm.Score) > 0 {
		won, lost = tm.Score.Totals()
	}
	s.PointWon += won
	s.PointLost += lost
}

// matchPoints is the competition points for a set count: 3 for a win
// by two sets or more, 2 and 1 for a win and a loss by one set.
func matchPoints(won, lost int) int {
	switch d := won - lost; {
	case d > 1:
		return 3
	case d == 1:
		return 2
	case d == -1:
		return 1
	default:
		return 0
	}
}

// SetRatio is the sets won per set lost, -1 without a match.
func (s *Stats) SetRatio() float64 {
	return ratio(s.MatchCount, s.SetWon, s.SetLost)
}

// PointRatio is the points won per point lost, -1 without a match.
func (s *Stats) PointRatio() float64 {
	return ratio(s.MatchCount, s.PointWon, s.PointLost)
}

func ratio(matches, won, lost int) float64 {
	switch {
	case matches == 0:
		return -1
	case lost == 0:
		return maxRatio
	default:
		return float64(won) / float64(lost)
	}
}

// maxRatio stands for a ratio without any loss.
const maxRatio = float64(1<<53 - 1)
