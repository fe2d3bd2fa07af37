package sheet

// Stat counts matches, sets and rallies of a list of sheets.
type Stat struct {
	Matches, MatchWon, MatchLost int
	Sets, SetWon, SetLost        int
	Points, PointWon, PointLost  int
	Serves, ServeWon, ServeLost  int
}

func (s *Stat) add(sheet *Sheet) {
	m := sheet.Match
	s.Matches += 1
	if m.Count > 0 {
		s.MatchWon += 1
	}
	if m.Count < 0 {
		s.MatchLost += 1
	}

	for _, set := range m.Sets {
		s.Sets += 1
		if set.Count > 0 {
			s.SetWon += 1
		} else {
			s.SetLost += 1
		}

		for _, p := range set.Points {
			s.Points += 1
			won := p.Won()
			if won {
				s.PointWon += 1
			} else {
				s.PointLost += 1
			}
			if !p.Serve {
				continue
			}
			s.Serves += 1
			if won {
				s.ServeWon += 1
			} else {
				s.ServeLost += 1
			}
		}
	}
}

func SumStats(sheets []*Sheet) Stat {
	var stat Stat
	for _, s := range sheets {
		stat.add(s)
	}
	return stat
}

// Stats splits the rallies of a team by serve and receive and by the
// position of its setter.
type Stats struct {
	Total, Serve, Receive Stat
	PServes, PReceives    [6]Stat
	Peers                 Peers
	// Some rallies could not be attributed to a setter position.
	Incomplete bool
}

func CalcStats(setters []string, sheets []*Sheet) Stats {
	stats := Stats{
		Total: SumStats(sheets),
		Peers: PeerStats(sheets),
	}

	serves := FilterPoints(sheets, AcceptServe(true))
	receives := FilterPoints(sheets, AcceptServe(false))
	stats.Serve = SumStats(serves)
	stats.Receive = SumStats(receives)
	if stats.Total.Points != stats.Serve.Points+stats.Receive.Points {
		stats.Incomplete = true
	}

	serveSum, receiveSum := 0, 0
	for position := range 6 {
		accept := AcceptSetterPosition(setters, position, "")
		stats.PServes[position] = SumStats(FilterPoints(serves, accept))
		stats.PReceives[position] = SumStats(FilterPoints(receives, accept))
		serveSum += stats.PServes[position].Points
		receiveSum += stats.PReceives[position].Points
	}
	if serveSum != stats.Serve.Points || receiveSum != stats.Receive.Points {
		stats.Incomplete = true
	}

	return stats
}

// Peers counts rallies won and lost for each ordered pair of players
// on court together.
type Peers map[string]map[string][2]int

func (p Peers) add(a, b string, won bool) {
	row, ok := p[a]
	if !ok {
		row = make(map[string][2]int)
		p[a] = row
	}
	counts := row[b]
	if won {
		counts[0] += 1
	} else {
		counts[1] += 1
	}
	row[b] = counts
}

// Get returns the rallies won and lost with a and b on court.
func (p Peers) Get(a, b string) (int, int) {
	counts := p[a][b]
	return counts[0], counts[1]
}

func PeerStats(sheets []*Sheet) Peers {
	peers := make(Peers)
	for _, s := range sheets {
		for _, set := range s.Match.Sets {
			for _, p := range set.Points {
				for i, a := range p.Players {
					for j, b := range p.Players {
						if i == j || a.Licence == "" || b.Licence == "" {
							continue
						}
						peers.add(a.Licence, b.Licence, p.Won())
					}
				}
			}
		}
	}
	return peers
}
