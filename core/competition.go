package core

import (
	"slices"

	"github.com/ezBadminton/volleyrank/rating"
)

// A Pool is a group of two or three teams playing each other on a day.
type Pool struct {
	Name    string
	Day     int
	Teams   []*Team
	Matches []*Match
	// Seed of the pool among the pools of its day, 0 until computed
	Ranking int
}

func (p *Pool) Contains(team *Team) bool {
	return slices.Contains(p.Teams, team)
}

func (p *Pool) index(team *Team) int {
	return slices.Index(p.Teams, team)
}

type Day struct {
	Day       int
	Teams     []*Team
	Matches   []*Match
	Pools     map[string]*Pool
	PoolOrder []string
}

func newDay(day int) *Day {
	return &Day{
		Day:   day,
		Pools: make(map[string]*Pool),
	}
}

func (d *Day) addTeam(team *Team) {
	if !slices.Contains(d.Teams, team) {
		d.Teams = append(d.Teams, team)
	}
}

// PoolList returns the pools in the order they were formed.
func (d *Day) PoolList() []*Pool {
	pools := make([]*Pool, 0, len(d.PoolOrder))
	for _, name := range d.PoolOrder {
		pools = append(pools, d.Pools[name])
	}
	return pools
}

type Competition struct {
	Name     string
	Season   string
	Category string

	Teams map[string]*Team
	// Teams in the order they were first seen
	TeamOrder []*Team
	Matches   []*Match
	Days      map[int]*Day

	// Last processed day
	DayCount int
	// Last day with a decided match
	LastDay int

	Model    rating.Model
	Strategy rating.Strategy
}

func NewCompetition(
	name, season, category string,
	model rating.Model,
	strategy rating.Strategy,
) *Competition {
	return &Competition{
		Name:     name,
		Season:   season,
		Category: category,
		Teams:    make(map[string]*Team),
		Days:     make(map[int]*Day),
		Model:    model,
		Strategy: strategy,
	}
}

// GetTeam returns the team with the ID and creates it on first
// reference.
func (c *Competition) GetTeam(id, name string) *Team {
	if team, ok := c.Teams[id]; ok {
		return team
	}
	team := NewTeam(id, name, c.Model.New())
	c.Teams[id] = team
	c.TeamOrder = append(c.TeamOrder, team)
	return team
}

func (c *Competition) Day(day int) (*Day, bool) {
	d, ok := c.Days[day]
	return d, ok
}

func (c *Competition) day(day int) *Day {
	d, ok := c.Days[day]
	if !ok {
		d = newDay(day)
		c.Days[day] = d
	}
	return d
}

// IsTeamInCourse tells whether the team may play on the day: everyone
// plays the first day, later days need a first or second place in the
// pool of the day before.
func (c *Competition) IsTeamInCourse(team *Team, day int) bool {
	if day == 1 || team.DayCount >= day {
		return true
	}
	if day > 1 {
		rank := team.PoolRank(day - 1)
		return rank == 1 || rank == 2
	}
	return false
}

// MatchPool returns the pool a match was played in.
func (c *Competition) MatchPool(m *Match) *Pool {
	d, ok := c.Days[m.Day]
	if !ok || len(m.ID) < 3 {
		return nil
	}
	return d.Pools[m.ID[1:3]]
}
