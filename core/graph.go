package core

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/ezBadminton/volleyrank/volleyball"
)

// Graph has the teams of a competition as its nodes. A directed edge
// goes from the winner of a match to the loser, or from the favorite
// to the other team while the match is undecided. Several matches
// between the same winner and loser share one edge.
type Graph struct {
	graph.Graph[string, *Team]

	Title string

	adjacencyMap map[string]map[string]graph.Edge[string]
}

func teamHash(t *Team) string {
	return t.ID
}

func victoryColor(v volleyball.Victory) string {
	switch v {
	case volleyball.TieBreak:
		return "royalblue"
	case volleyball.Medium:
		return "mediumseagreen"
	case volleyball.Large:
		return "orange"
	case volleyball.Huge:
		return "tomato"
	default:
		return "mediumorchid"
	}
}

// BuildGraph builds the graph of the teams on the global board that
// pass teamFilter, with the matches between them that pass
// matchFilter. Nil filters accept everything.
func (c *Competition) BuildGraph(
	teamFilter func(team *Team, index int) bool,
	matchFilter func(m *Match) bool,
) (*Graph, error) {
	g := &Graph{
		Graph: graph.New(teamHash, graph.Directed()),
		Title: strings.TrimSpace(fmt.Sprintf("%s %s %s", c.Name, c.Category, c.Season)),
	}

	for i, team := range c.Board(SortPoints, c.DayCount, false, false) {
		if teamFilter != nil && !teamFilter(team, i) {
			continue
		}
		err := g.AddVertex(team,
			graph.VertexAttribute("label", c.teamLabel(team, i)),
			graph.VertexAttribute("shape", "note"),
			graph.VertexAttribute("style", "filled"),
			graph.VertexAttribute("fillcolor", c.teamColor(team)),
			graph.VertexAttribute("fontname", "Arial"),
		)
		if err != nil {
			return nil, fmt.Errorf("add team %s: %w", team.ID, err)
		}
	}

	type pair struct{ winner, loser *Team }
	var order []pair
	grouped := make(map[pair][]*Match)
	for _, m := range c.Matches {
		if matchFilter != nil && !matchFilter(m) {
			continue
		}
		_, errA := g.Vertex(m.TeamA.ID)
		_, errB := g.Vertex(m.TeamB.ID)
		if errA != nil || errB != nil {
			continue
		}

		winner := m.Winner
		if winner == nil {
			winner = m.Favorite()
		}
		p := pair{winner, m.Opponent(winner)}
		if _, ok := grouped[p]; !ok {
			order = append(order, p)
		}
		grouped[p] = append(grouped[p], m)
	}

	for _, p := range order {
		err := g.AddEdge(p.winner.ID, p.loser.ID, c.edgeOptions(p.winner, grouped[p])...)
		if err != nil {
			return nil, fmt.Errorf("add matches %s -> %s: %w", p.winner.ID, p.loser.ID, err)
		}
	}

	return g, nil
}

func (c *Competition) teamLabel(team *Team, index int) string {
	s := team.GlobalStats(c.DayCount)
	mean, std := c.Difficulty(team, c.DayCount, true)
	lines := []string{
		c.Trophies(team),
		fmt.Sprintf("%d %s", index+1, team.Name),
		fmt.Sprintf("%s | matches: %d/%d | sets: %d/%d=%s | points: %d/%d=%s",
			team.Department, s.MatchWon, s.MatchCount,
			s.SetWon, s.SetLost, formatRatio(s.SetRatio(), 2),
			s.PointWon, s.PointLost, formatRatio(s.PointRatio(), 3)),
		fmt.Sprintf("rating: %.3f | difficulty: %.1f ±%.1f", s.Rating.Mu, 100*mean, 100*std),
	}
	return dotEscape(strings.Join(lines, "\n"))
}

func (c *Competition) teamColor(team *Team) string {
	rank := team.PoolRank(c.LastDay)
	if c.LastDay > 0 && rank != 1 && rank != 2 {
		return "gainsboro"
	}
	return "white"
}

func (c *Competition) edgeOptions(winner *Team, matches []*Match) []func(*graph.EdgeProperties) {
	last := matches[len(matches)-1]

	labels := make([]string, 0, len(matches))
	played, lastDay := false, false
	for _, m := range matches {
		tm := m.ForTeam(winner)
		sets := make([]string, len(tm.Score))
		for i, s := range tm.Score {
			sets[i] = fmt.Sprintf("%d-%d", s.A, s.B)
		}
		labels = append(labels, fmt.Sprintf("J%d:%s %.1f%%", m.Day, strings.Join(sets, ","), 100*tm.WinProbability))
		played = played || m.Played()
		lastDay = lastDay || m.Day == c.LastDay
	}
	label := dotEscape(strings.Join(labels, "\n"))

	options := []func(*graph.EdgeProperties){
		graph.EdgeWeight(last.Day),
		graph.EdgeAttribute("color", victoryColor(last.Victory)),
		graph.EdgeAttribute("label", label),
		graph.EdgeAttribute("edgetooltip", label),
		graph.EdgeAttribute("labeltooltip", dotEscape(last.TeamA.Name+" - "+last.TeamB.Name)),
	}
	if !played {
		options = append(options, graph.EdgeAttribute("style", "dashed"))
		if math.Round(1000*last.WinProbability) == 500 {
			options = append(options, graph.EdgeAttribute("dir", "none"))
		}
	}
	if lastDay {
		options = append(options, graph.EdgeAttribute("penwidth", "3"))
	}
	if p := last.ForTeam(winner).WinProbability; math.Round(1000*p) < 500 {
		options = append(options, graph.EdgeAttribute("fontcolor", "tomato"))
	}
	return options
}

func formatRatio(r float64, precision int) string {
	if r == maxRatio {
		return "MAX"
	}
	return fmt.Sprintf("%.*f", precision, r)
}

func dotEscape(s string) string {
	s = strings.ReplaceAll(s, `"`, `'`)
	return strings.ReplaceAll(s, "\n", `\n`)
}

// WriteDOT renders the graph in the DOT language.
func (g *Graph) WriteDOT(w io.Writer) error {
	return draw.DOT(g.Graph, w,
		draw.GraphAttribute("tooltip", dotEscape(g.Title)),
		draw.GraphAttribute("fontname", "Arial"),
	)
}

// Beaten returns the teams the team won against, by name.
func (g *Graph) Beaten(team *Team) []*Team {
	if g.adjacencyMap == nil {
		// The graph does not change after it was built
		g.adjacencyMap, _ = g.Graph.AdjacencyMap()
	}

	edges := g.adjacencyMap[team.ID]
	beaten := make([]*Team, 0, len(edges))
	for id := range edges {
		t, _ := g.Vertex(id)
		beaten = append(beaten, t)
	}
	slices.SortFunc(beaten, func(a, b *Team) int { return strings.Compare(a.Name, b.Name) })
	return beaten
}

// Dominated returns the teams reachable from the team through a chain
// of wins, in breadth first order.
func (g *Graph) Dominated(team *Team) []*Team {
	var dominated []*Team
	_ = graph.BFS(g.Graph, team.ID, func(id string) bool {
		if id != team.ID {
			t, _ := g.Vertex(id)
			dominated = append(dominated, t)
		}
		return false
	})
	return dominated
}
