package core

import (
	"github.com/ezBadminton/volleyrank/rating"
	"github.com/ezBadminton/volleyrank/sheet"
)

// Ranking holds the 1-based rank of a team per day on each board.
// A missing day means the team was not ranked.
type Ranking struct {
	Globals    map[int]int
	Qualifieds map[int]int
	Days       map[int]int
	Pools      map[int]int
}

func newRanking() Ranking {
	return Ranking{
		Globals:    make(map[int]int),
		Qualifieds: make(map[int]int),
		Days:       make(map[int]int),
		Pools:      make(map[int]int),
	}
}

type Team struct {
	ID   string
	Name string
	// Two character code taken from the club ID
	Department string

	Ranking Ranking

	// Cumulative stats up to the end of a day, day 0 holds the prior
	GStats map[int]*Stats
	// Stats of a single day
	DStats map[int]*Stats

	Pools map[int]*Pool

	// Last day the team was registered for
	DayCount int
	// Last day the team decided a match, or the day before an
	// undecided one
	LastDay int

	Sheets []*sheet.Sheet
}

func NewTeam(id, name string, prior rating.Rating) *Team {
	return &Team{
		ID:         id,
		Name:       name,
		Department: department(id),
		Ranking:    newRanking(),
		GStats:     map[int]*Stats{0: newStats(prior)},
		DStats:     make(map[int]*Stats),
		Pools:      make(map[int]*Pool),
	}
}

func department(id string) string {
	if len(id) < 3 {
		return "N/A"
	}
	return id[1:3]
}

// GlobalStats returns the cumulative stats at the end of a day. Days
// the team has no record for carry the previous day forward.
func (t *Team) GlobalStats(day int) *Stats {
	if day < 0 {
		day = 0
	}
	if s, ok := t.GStats[day]; ok {
		return s
	}
	s := t.GlobalStats(day - 1).clone()
	t.GStats[day] = s
	return s
}

// DayStats returns the stats of a single day. A fresh record starts
// from the cumulative rating.
func (t *Team) DayStats(day int) *Stats {
	if s, ok := t.DStats[day]; ok {
		return s
	}
	s := newStats(t.GlobalStats(day).Rating)
	t.DStats[day] = s
	return s
}

func (t *Team) Stats(day int, global bool) *Stats {
	if global {
		return t.GlobalStats(day)
	}
	return t.DayStats(day)
}

// Rating is the current rating on a day.
func (t *Team) Rating(day int) rating.Rating {
	return t.DayStats(day).Rating
}

// Rank returns the rank on the daily, qualified or global board.
func (t *Team) Rank(day int, daily, qualified bool) int {
	switch {
	case daily:
		return t.Ranking.Days[day]
	case qualified:
		return t.Ranking.Qualifieds[day]
	default:
		return t.Ranking.Globals[day]
	}
}

// PoolRank is the rank inside the pool of a day, 0 when unranked.
func (t *Team) PoolRank(day int) int {
	return t.Ranking.Pools[day]
}

// begin prepares the records of a day before its matches are folded.
func (t *Team) begin(day int) {
	t.GlobalStats(day)
	t.DayStats(day)
}
