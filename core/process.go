package core

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ezBadminton/volleyrank/internal/telemetry"
	"github.com/ezBadminton/volleyrank/sheet"
	"github.com/ezBadminton/volleyrank/volleyball"
)

var (
	ErrPoolTriplet = errors.New("pool matches do not form a triplet of three teams")
	ErrDayOrder    = errors.New("days are not processed in increasing order")
)

// PoolEntity marks the results of a pool based competition.
const PoolEntity = "ACJEUNES"

type PoolError struct {
	Day  int
	Pool string
}

func (e *PoolError) Error() string {
	return fmt.Sprintf("day %d, pool %s: %v", e.Day, e.Pool, ErrPoolTriplet)
}

func (e *PoolError) Unwrap() error {
	return ErrPoolTriplet
}

type Options struct {
	// Process as a pool competition whatever the entity of the rows
	PoolMode bool

	// Sheets by day and match ID
	Sheets map[int]map[string]*sheet.SheetMatch
	// Fail on sheets that disagree with the results
	StrictSheets bool

	// Scores failing these settings are logged
	Settings volleyball.ScoreSettings

	Logger *slog.Logger
}

type Processor struct {
	opts   Options
	logger *slog.Logger
}

func NewProcessor(opts Options) *Processor {
	if opts.Settings == (volleyball.ScoreSettings{}) {
		opts.Settings = volleyball.DefaultSettings
	}
	logger := opts.Logger
	if logger == nil {
		logger = telemetry.L()
	}
	return &Processor{opts: opts, logger: logger}
}

// Process folds batches of rows into the competition. The rows of a
// batch are split by day and the days are processed in increasing
// order, each after all days before it.
func (p *Processor) Process(c *Competition, batches [][]Row) error {
	poolMode := p.opts.PoolMode
	for _, batch := range batches {
		if len(batch) == 0 {
			continue
		}
		if batch[0].Entity == PoolEntity {
			poolMode = true
		}

		days := p.splitDays(batch)
		for _, day := range sortedDays(days) {
			if day <= c.DayCount {
				return fmt.Errorf("%w: day %d after day %d", ErrDayOrder, day, c.DayCount)
			}
			if err := p.processDay(c, day, days[day], poolMode); err != nil {
				return err
			}
		}
	}
	return nil
}

// splitDays groups rows by day. Rows without a readable day are
// skipped.
func (p *Processor) splitDays(rows []Row) map[int][]Row {
	days := make(map[int][]Row)
	for _, row := range rows {
		day := row.DayNumber()
		if day < 1 {
			p.logger.Warn(fmt.Sprintf("skip match %s: unreadable day %q", row.Match, row.Day))
			continue
		}
		days[day] = append(days[day], row)
	}
	return days
}

func sortedDays(days map[int][]Row) []int {
	keys := make([]int, 0, len(days))
	for day := range days {
		keys = append(keys, day)
	}
	slices.Sort(keys)
	return keys
}

func (p *Processor) processDay(c *Competition, day int, rows []Row, poolMode bool) error {
	d := c.day(day)

	if poolMode {
		rows = slices.Clone(rows)
		if err := reorderTriplets(day, rows); err != nil {
			return err
		}
		p.registerPools(c, d, rows)
	} else {
		for _, row := range rows {
			for _, team := range []*Team{
				c.GetTeam(row.TeamA, row.TeamAName),
				c.GetTeam(row.TeamB, row.TeamBName),
			} {
				team.DayCount = day
				d.addTeam(team)
			}
		}
	}
	for _, team := range d.Teams {
		team.begin(day)
	}

	for _, row := range rows {
		teamA := c.GetTeam(row.TeamA, row.TeamAName)
		teamB := c.GetTeam(row.TeamB, row.TeamBName)
		teamA.begin(day)
		teamB.begin(day)

		m := newMatch(row, day, teamA, teamB, c.Model)
		if m.Played() && len(m.Score) > 0 {
			if err := m.Score.Check(p.opts.Settings); err != nil {
				p.logger.Debug(fmt.Sprintf("match %s: unusual score %s: %v", m.ID, row.Score, err))
			}
		}
		if err := p.linkSheets(m); err != nil {
			return err
		}
		p.addMatch(c, d, m)
	}

	p.rank(c, d)
	c.DayCount = day

	played := 0
	for _, m := range d.Matches {
		if m.Played() {
			played += 1
		}
	}
	p.logger.Info(fmt.Sprintf("day %d: %d teams, %d pools, %d/%d matches played",
		day, len(d.Teams), len(d.Pools), played, len(d.Matches)))
	return nil
}

// reorderTriplets makes the second match of each pool involve the
// winner of the first one.
func reorderTriplets(day int, rows []Row) error {
	if len(rows)%3 != 0 {
		return fmt.Errorf("%w: day %d has %d matches", ErrPoolTriplet, day, len(rows))
	}

	for i := 0; i < len(rows); i += 3 {
		m1, m2, m3 := rows[i], rows[i+1], rows[i+2]

		teams := make(map[string]bool)
		for _, r := range []Row{m1, m2, m3} {
			teams[r.TeamA] = true
			teams[r.TeamB] = true
		}
		if len(teams) != 3 {
			return &PoolError{Day: day, Pool: poolName(m1.Match)}
		}

		setA, setB := volleyball.ParseSets(m1.Set)
		if setA == setB {
			continue
		}
		winner := m1.TeamA
		if setB > setA {
			winner = m1.TeamB
		}

		switch {
		case m2.TeamA == winner || m2.TeamB == winner:
		case m3.TeamA == winner || m3.TeamB == winner:
			rows[i+1], rows[i+2] = m3, m2
		default:
			return &PoolError{Day: day, Pool: poolName(m1.Match)}
		}
	}
	return nil
}

func poolName(matchID string) string {
	if len(matchID) < 3 {
		return matchID
	}
	return matchID[1:3]
}

// registerPools registers the teams in course and forms the pools of
// the day from the first two matches of each triplet.
func (p *Processor) registerPools(c *Competition, d *Day, rows []Row) {
	for _, team := range c.TeamOrder {
		if c.IsTeamInCourse(team, d.Day) {
			team.DayCount = d.Day
			d.addTeam(team)
		}
	}

	for i := 0; i+2 < len(rows); i += 3 {
		m1, m2 := rows[i], rows[i+1]
		teamA := c.GetTeam(m1.TeamA, m1.TeamAName)
		teamB := c.GetTeam(m1.TeamB, m1.TeamBName)
		teamC := c.GetTeam(m2.TeamA, m2.TeamAName)
		if teamC == teamA || teamC == teamB {
			teamC = c.GetTeam(m2.TeamB, m2.TeamBName)
		}

		name := poolName(m1.Match)
		pool, ok := d.Pools[name]
		if !ok {
			pool = &Pool{Name: name, Day: d.Day, Teams: []*Team{teamA, teamB, teamC}}
			d.Pools[name] = pool
			d.PoolOrder = append(d.PoolOrder, name)
		}
		for _, team := range pool.Teams {
			team.Pools[d.Day] = pool
			team.DayCount = d.Day
			d.addTeam(team)
		}
	}
}

func (p *Processor) linkSheets(m *Match) error {
	sm, ok := p.opts.Sheets[m.Day][m.ID]
	if !ok || sm == nil {
		return nil
	}

	opts := sheet.DecodeOptions{Strict: p.opts.StrictSheets, Logger: p.logger}
	decoded := make([]*sheet.Sheet, 0, 2)
	for _, team := range []*Team{m.TeamA, m.TeamB} {
		s, err := sheet.Decode(team.Name, team == m.TeamA, m.result(team), sm, opts)
		if err != nil {
			if p.opts.StrictSheets {
				return fmt.Errorf("decode sheet: %w", err)
			}
			p.logger.Warn(fmt.Sprintf("skip sheet of match %s: %v", m.ID, err))
			return nil
		}
		decoded = append(decoded, s)
	}

	m.TeamA.Sheets = append(m.TeamA.Sheets, decoded[0])
	m.TeamB.Sheets = append(m.TeamB.Sheets, decoded[1])
	return nil
}

// addMatch folds a match into the tallies and ratings.
func (p *Processor) addMatch(c *Competition, d *Day, m *Match) {
	lastDay := d.Day - 1
	if m.Played() {
		lastDay = d.Day
	}

	c.LastDay = max(c.LastDay, lastDay)
	c.Matches = append(c.Matches, m)
	d.Matches = append(d.Matches, m)
	if pool := m.TeamA.Pools[d.Day]; pool != nil && pool.Contains(m.TeamB) {
		pool.Matches = append(pool.Matches, m)
	}

	for _, team := range []*Team{m.TeamA, m.TeamB} {
		team.LastDay = max(team.LastDay, lastDay)
		team.GlobalStats(d.Day).addMatch(team, m)
		team.DayStats(d.Day).addMatch(team, m)
	}

	if !m.Played() {
		return
	}
	sets := m.setResults()
	aWon := m.Winner == m.TeamA

	ga, gb := m.TeamA.GlobalStats(d.Day), m.TeamB.GlobalStats(d.Day)
	ga.Rating, gb.Rating = c.Strategy.ApplyMatch(c.Model, ga.Rating, gb.Rating, sets, aWon)

	da, db := m.TeamA.DayStats(d.Day), m.TeamB.DayStats(d.Day)
	da.Rating, db.Rating = c.Strategy.ApplyMatch(c.Model, da.Rating, db.Rating, sets, aWon)
}

// rank fills the boards of the day.
func (p *Processor) rank(c *Competition, d *Day) {
	day := d.Day

	globals := slices.Clone(c.TeamOrder)
	Sort(globals, PointsComparator{day, true})
	AssignRanks(globals, day, func(t *Team) map[int]int { return t.Ranking.Globals })

	daily := slices.Clone(d.Teams)
	Sort(daily, PointsComparator{day, false})
	AssignRanks(daily, day, func(t *Team) map[int]int { return t.Ranking.Days })

	qualifieds := slices.Clone(d.Teams)
	Sort(qualifieds, PointsComparator{day, true})
	AssignRanks(qualifieds, day, func(t *Team) map[int]int { return t.Ranking.Qualifieds })

	for _, pool := range d.PoolList() {
		teams := slices.Clone(pool.Teams)
		Sort(teams, PointsComparator{day, false})
		AssignRanks(teams, day, func(t *Team) map[int]int { return t.Ranking.Pools })
	}

	if day > 1 {
		seeds := slices.Clone(d.Teams)
		Sort(seeds, PointsComparator{day - 1, true})
		for i, team := range seeds {
			if pool := team.Pools[day]; pool != nil && pool.Ranking == 0 {
				pool.Ranking = i + 1
			}
		}
	}
}
