package core

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"
)

var medals = []string{"-", "🥇", "🥈", "🥉"}

// Difficulty returns the mean and the standard deviation of the
// chance to lose over the matches of the team. The result is cached
// on the stats.
func (c *Competition) Difficulty(team *Team, day int, global bool) (float64, float64) {
	s := team.Stats(day, global)
	if s.Difficulty[0] < 0 && s.Difficulty[1] < 0 {
		s.Difficulty = difficulty(team, s.Matches)
	}
	return s.Difficulty[0], s.Difficulty[1]
}

func difficulty(team *Team, matches []*Match) [2]float64 {
	if len(matches) == 0 {
		return [2]float64{0, 0}
	}
	chances := make([]float64, len(matches))
	for i, m := range matches {
		chances[i] = 1 - m.ForTeam(team).WinProbability
	}
	mean, std := stat.PopMeanStdDev(chances, nil)
	return [2]float64{mean, std}
}

// FirstCountInPreviousDay counts the teams of the team's pool of the
// day before that finished first of their pool on the day.
func (c *Competition) FirstCountInPreviousDay(team *Team, day int) int {
	if day <= 1 {
		return 0
	}
	pool := team.Pools[day-1]
	if pool == nil {
		return 0
	}
	count := 0
	for _, t := range pool.Teams {
		if t.PoolRank(day) == 1 {
			count += 1
		}
	}
	return count
}

// DayDistance tells how far the team travelled to its pool: L when
// hosting, D when the host is from the same department, N otherwise.
// The host is the first team of a pool of three.
func (c *Competition) DayDistance(team *Team, day int) string {
	pool := team.Pools[day]
	if pool == nil || len(pool.Teams) != 3 {
		return ""
	}
	host := pool.Teams[0]
	switch {
	case host == team:
		return "L"
	case host.Department == team.Department:
		return "D"
	default:
		return "N"
	}
}

const poolChars = "-123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// PoolIDToName turns the two character pool code of a match ID into
// the pool name printed on the schedule.
func PoolIDToName(id string) string {
	if len(id) < 2 {
		return id
	}
	if id < "X" {
		return id[1:2]
	}
	n := int(id[0]-'X')*35 + strings.IndexByte(poolChars, id[1])
	return fmt.Sprint(n)
}

// Trophies lists the pool medals of the team for every day.
func (c *Competition) Trophies(team *Team) string {
	if c.LastDay < 1 {
		return " "
	}
	days := make([]string, 0, c.LastDay)
	for day := 1; day <= c.LastDay; day++ {
		star := ""
		if c.FirstCountInPreviousDay(team, day) == 2 {
			star = "*"
		}
		medal := medals[0]
		if rank := team.PoolRank(day); rank < len(medals) {
			medal = medals[rank]
		}
		days = append(days, fmt.Sprintf("J%d%s%s%s", day, c.DayDistance(team, day), star, medal))
	}
	return strings.Join(days, " ")
}
