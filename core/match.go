package core

import (
	"strconv"
	"strings"

	"github.com/ezBadminton/volleyrank/rating"
	"github.com/ezBadminton/volleyrank/sheet"
	"github.com/ezBadminton/volleyrank/volleyball"
)

// Row is one record of a results file.
type Row struct {
	Entity    string
	Day       string
	Match     string
	Date      string
	Time      string
	TeamA     string
	TeamAName string
	TeamB     string
	TeamBName string
	// Set count like "3/1"
	Set string
	// Total points like "75-60"
	Total string
	// Set scores like "25-20,25-18"
	Score string
}

// DayNumber parses the day of the row, 0 when unreadable.
func (r Row) DayNumber() int {
	day, err := strconv.Atoi(strings.TrimSpace(r.Day))
	if err != nil {
		return 0
	}
	return day
}

type Match struct {
	ID   string
	Day  int
	Date string
	Time string

	TeamA *Team
	TeamB *Team
	// nil while the match is undecided
	Winner *Team

	SetA, SetB     int
	TotalA, TotalB int
	Score          volleyball.Score

	// Ratings before the match
	RatingA, RatingB rating.Rating
	// Chance of team A to win
	WinProbability float64
	// Whether the favorite won, nil when there is no favorite or no
	// winner
	Predicted *bool
	Victory   volleyball.Victory
}

func newMatch(row Row, day int, teamA, teamB *Team, model rating.Model) *Match {
	m := &Match{
		ID:    row.Match,
		Day:   day,
		Date:  row.Date,
		Time:  row.Time,
		TeamA: teamA,
		TeamB: teamB,
		Score: volleyball.ParseScore(row.Score),
	}
	m.SetA, m.SetB = volleyball.ParseSets(row.Set)
	m.TotalA, m.TotalB = volleyball.ParseTotal(row.Total)
	if len(m.Score) > 0 {
		if m.SetA == 0 && m.SetB == 0 {
			m.SetA, m.SetB = m.Score.Sets()
		}
		if m.TotalA == 0 && m.TotalB == 0 {
			m.TotalA, m.TotalB = m.Score.Totals()
		}
	}

	switch {
	case m.SetA > m.SetB:
		m.Winner = teamA
	case m.SetB > m.SetA:
		m.Winner = teamB
	}

	m.RatingA = teamA.Rating(day)
	m.RatingB = teamB.Rating(day)
	m.WinProbability = model.WinProbability(m.RatingA, m.RatingB)
	if m.Winner != nil && m.WinProbability != 0.5 {
		predicted := (m.WinProbability > 0.5) == (m.Winner == teamA)
		m.Predicted = &predicted
	}
	m.Victory = volleyball.Classify(m.SetA, m.SetB, m.TotalA, m.TotalB)

	return m
}

func (m *Match) Played() bool {
	return m.Winner != nil
}

func (m *Match) Loser() *Team {
	switch m.Winner {
	case nil:
		return nil
	case m.TeamA:
		return m.TeamB
	default:
		return m.TeamA
	}
}

// Favorite is the team with the higher chance to win, team A on
// equal chances.
func (m *Match) Favorite() *Team {
	if m.WinProbability < 0.5 {
		return m.TeamB
	}
	return m.TeamA
}

func (m *Match) Contains(team *Team) bool {
	return m.TeamA == team || m.TeamB == team
}

func (m *Match) Opponent(team *Team) *Team {
	if m.TeamA == team {
		return m.TeamB
	}
	return m.TeamA
}

// ForTeam returns the match as seen by the team, with the team on
// side A.
func (m *Match) ForTeam(team *Team) *Match {
	if m.TeamA == team {
		return m
	}
	return &Match{
		ID:             m.ID,
		Day:            m.Day,
		Date:           m.Date,
		Time:           m.Time,
		TeamA:          m.TeamB,
		TeamB:          m.TeamA,
		Winner:         m.Winner,
		SetA:           m.SetB,
		SetB:           m.SetA,
		TotalA:         m.TotalB,
		TotalB:         m.TotalA,
		Score:          m.Score.Invert(),
		RatingA:        m.RatingB,
		RatingB:        m.RatingA,
		WinProbability: 1 - m.WinProbability,
		Predicted:      m.Predicted,
		Victory:        m.Victory,
	}
}

func (m *Match) setResults() []rating.SetResult {
	sets := make([]rating.SetResult, len(m.Score))
	for i, s := range m.Score {
		sets[i] = rating.SetResult{A: s.A, B: s.B}
	}
	return sets
}

// result is the official result of the match for a sheet of the team.
func (m *Match) result(team *Team) sheet.Result {
	tm := m.ForTeam(team)
	r := sheet.Result{
		SetsWon:  tm.SetA,
		SetsLost: tm.SetB,
		Sets:     tm.Score,
	}
	switch m.Winner {
	case nil:
	case team:
		r.Count = 1
	default:
		r.Count = -1
	}
	return r
}
