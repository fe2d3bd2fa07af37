// Package sheet reconstructs the point by point history of a match
// from its score sheet and aggregates it per rotation and player.
package sheet

// Sentinel leads the running score column of the side that did not
// serve first.
const Sentinel = -1

// TieBreakIndex is the index of the fifth set.
const TieBreakIndex = 4

type Licenced struct {
	Number  string `json:"number"`
	Name    string `json:"name"`
	Licence string `json:"licence"`
}

type Referee struct {
	Name    string `json:"name"`
	Licence string `json:"licence"`
	League  string `json:"league"`
}

type SheetTeam struct {
	Name      string     `json:"name"`
	Players   []Licenced `json:"players"`
	Liberos   []Licenced `json:"liberos"`
	Officials []Licenced `json:"officials"`
}

// Position is one of the six starting slots of a set. Player and
// Substitute are shirt numbers. ScoreIn and ScoreOut are written
// "own:opp".
type Position struct {
	Player     string `json:"player"`
	Substitute string `json:"substitute,omitempty"`
	ScoreIn    string `json:"scoreIn,omitempty"`
	ScoreOut   string `json:"scoreOut,omitempty"`
}

// SheetSet holds the columns of a set as written on the sheet. The
// points columns hold the running score at each change of serve.
// Inverted means the left columns belong to team B.
type SheetSet struct {
	PositionA []Position `json:"positionA"`
	PositionB []Position `json:"positionB"`
	PointsA   []int      `json:"pointsA"`
	PointsB   []int      `json:"pointsB"`
	Inverted  bool       `json:"inverted,omitempty"`
}

type Approbation struct {
	First     Referee  `json:"first"`
	Second    Referee  `json:"second"`
	Marker    Referee  `json:"marker"`
	Assistant *Referee `json:"assistant,omitempty"`
	Local     *Referee `json:"local,omitempty"`
}

type SheetMatch struct {
	URL         string      `json:"url,omitempty"`
	Match       string      `json:"match"`
	Day         string      `json:"day"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
	TeamA       SheetTeam   `json:"teamA"`
	TeamB       SheetTeam   `json:"teamB"`
	Approbation Approbation `json:"approbation"`
	Sets        []SheetSet  `json:"sets"`
}

// Licences is a set of licence numbers.
type Licences map[string]struct{}

func (l Licences) Add(licence string) {
	if licence != "" {
		l[licence] = struct{}{}
	}
}

func (l Licences) Has(licence string) bool {
	_, ok := l[licence]
	return ok
}

// Sheet is a decoded match sheet seen from one team.
type Sheet struct {
	ID string
	// The team is side A of the competition match.
	IsA    bool
	Team   *SheetTeam
	Source *SheetMatch
	Match  *CMatch
}

type CMatch struct {
	// The team is side A of the sheet.
	IsA bool
	// +1 won, -1 lost, 0 undecided.
	Count      int
	Sets       []*CSet
	SetA, SetB int
	Licences   Licences
}

type CSet struct {
	// Set tally before this set.
	SetA, SetB int
	Count      int
	// The team served first.
	Serve     bool
	Rotations int
	Points    []*CPoint
	// Final score.
	ScoreA, ScoreB int
	Licences       Licences
}

// CPoint is a single rally. The scores are the team's and the
// opponent's after the rally.
type CPoint struct {
	ScoreA, ScoreB int
	Count          int
	// The team served the rally.
	Serve    bool
	Rotation int
	Players  [6]Licenced
	Licences Licences
}

func (p *CPoint) Won() bool {
	return p.Count > 0
}

// Index returns the slot of a licence on court or -1.
func (p *CPoint) Index(licence string) int {
	for i, player := range p.Players {
		if player.Licence == licence {
			return i
		}
	}
	return -1
}
