package sheet

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ezBadminton/volleyrank/internal/telemetry"
	"github.com/ezBadminton/volleyrank/volleyball"
)

var (
	ErrTeamMismatch  = errors.New("team is on neither side of the sheet")
	ErrUnknownPlayer = errors.New("shirt number is not on the team sheet")
	ErrPositions     = errors.New("a set does not list six starting positions")
	ErrSheetMismatch = errors.New("sheet does not match the official result")
)

// AssertionError reports a decoded sheet that disagrees with the
// official result of its match.
type AssertionError struct {
	Match, Team string
	Set         int
	Reason      string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("match %s, team %s, set %d: %s", e.Match, e.Team, e.Set+1, e.Reason)
}

func (e *AssertionError) Unwrap() error {
	return ErrSheetMismatch
}

// Result is the official result of a match from the point of view of
// the decoded team.
type Result struct {
	Count             int
	SetsWon, SetsLost int
	Sets              []volleyball.SetScore
}

type DecodeOptions struct {
	// Return assertion errors instead of logging them.
	Strict bool
	Logger *slog.Logger
}

func (o DecodeOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return telemetry.L()
}

// Decode rebuilds the rallies of every set of a sheet for one team.
// isA tells whether the team is side A of the competition match.
func Decode(
	team string,
	isA bool,
	result Result,
	sm *SheetMatch,
	opts DecodeOptions,
) (*Sheet, error) {
	logger := opts.logger()

	sideA := sm.TeamA.Name == team
	if !sideA && sm.TeamB.Name != team {
		return nil, fmt.Errorf("%w: %s in match %s", ErrTeamMismatch, team, sm.Match)
	}
	steam := &sm.TeamB
	if sideA {
		steam = &sm.TeamA
	}

	licenceds := make(map[string]Licenced, len(steam.Players))
	for _, player := range steam.Players {
		licenceds[player.Licence] = player
	}

	cmatch := &CMatch{
		IsA:      sideA,
		Count:    result.Count,
		Licences: Licences{},
	}

	mismatch := func(set int, format string, args ...any) error {
		err := &AssertionError{
			Match:  sm.Match,
			Team:   team,
			Set:    set,
			Reason: fmt.Sprintf(format, args...),
		}
		if opts.Strict {
			return err
		}
		logger.Warn(err.Error())
		return nil
	}

	for index, raw := range sm.Sets {
		pointsA, pointsB, positionA, positionB := normalize(index, raw, sm.Match, logger)

		own, opp, ownPositions := pointsA, pointsB, positionA
		if !sideA {
			own, opp, ownPositions = pointsB, pointsA, positionB
		}

		positions, err := resolvePositions(ownPositions, steam)
		if err != nil {
			return nil, fmt.Errorf("match %s, set %d: %w", sm.Match, index+1, err)
		}

		cset := decodeSet(own, opp, positions, licenceds)
		cset.SetA, cset.SetB = cmatch.SetA, cmatch.SetB
		for _, p := range positions {
			cmatch.Licences.Add(p.Player)
			cmatch.Licences.Add(p.Substitute)
		}

		if cset.ScoreA > cset.ScoreB {
			cmatch.SetA += 1
		}
		if cset.ScoreB > cset.ScoreA {
			cmatch.SetB += 1
		}

		if index >= len(result.Sets) {
			err = mismatch(index, "set is missing from the result")
		} else {
			official := result.Sets[index]
			switch {
			case cset.ScoreA != official.A || cset.ScoreB != official.B:
				err = mismatch(index, "final score %d-%d, official %d-%d",
					cset.ScoreA, cset.ScoreB, official.A, official.B)
			case len(cset.Points) != official.A+official.B:
				err = mismatch(index, "%d rallies for %d points",
					len(cset.Points), official.A+official.B)
			}
		}
		if err != nil {
			return nil, err
		}

		cmatch.Sets = append(cmatch.Sets, cset)
	}

	if cmatch.SetA != result.SetsWon || cmatch.SetB != result.SetsLost {
		err := mismatch(len(sm.Sets)-1, "sets %d-%d, official %d-%d",
			cmatch.SetA, cmatch.SetB, result.SetsWon, result.SetsLost)
		if err != nil {
			return nil, err
		}
	}

	sheet := &Sheet{
		ID:     sm.Match,
		IsA:    isA,
		Team:   steam,
		Source: sm,
		Match:  cmatch,
	}
	return sheet, nil
}

// normalize applies the orientation of a set and restores the leading
// sentinel that tie-break sheets leave out.
func normalize(
	index int,
	raw SheetSet,
	match string,
	logger *slog.Logger,
) ([]int, []int, []Position, []Position) {
	a := slices.Clone(raw.PointsA)
	b := slices.Clone(raw.PointsB)
	if len(a) > 0 && len(b) > 0 && a[0] >= 0 && b[0] >= 0 {
		if index != TieBreakIndex {
			logger.Warn(fmt.Sprintf("match %s, set %d: no serve sentinel", match, index+1))
		}
		b = append([]int{Sentinel}, b...)
	}

	positionA, positionB := raw.PositionA, raw.PositionB
	if raw.Inverted {
		a, b = b, a
		positionA, positionB = positionB, positionA
	}
	return a, b, positionA, positionB
}

// resolvePositions replaces shirt numbers by licences.
func resolvePositions(positions []Position, steam *SheetTeam) ([]Position, error) {
	if len(positions) != 6 {
		return nil, ErrPositions
	}

	licenceOf := func(number string) string {
		for _, player := range steam.Players {
			if player.Number == number {
				return player.Licence
			}
		}
		return ""
	}

	resolved := make([]Position, len(positions))
	for i, p := range positions {
		licence := licenceOf(p.Player)
		if licence == "" {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, p.Player)
		}
		resolved[i] = Position{
			Player:   licence,
			ScoreIn:  p.ScoreIn,
			ScoreOut: p.ScoreOut,
		}
		if p.Substitute != "" {
			resolved[i].Substitute = licenceOf(p.Substitute)
		}
	}
	return resolved, nil
}

// decodeSet interleaves the two running score columns. The side whose
// column does not start with the sentinel serves first.
func decodeSet(own, opp []int, positions []Position, licenceds map[string]Licenced) *CSet {
	ownFirst := len(own) > 0 && own[0] >= 0
	points1, points2 := opp, own
	if ownFirst {
		points1, points2 = own, opp
	}

	cset := &CSet{
		Serve:    ownFirst,
		Licences: Licences{},
	}
	for _, p := range positions {
		cset.Licences.Add(p.Player)
		cset.Licences.Add(p.Substitute)
	}

	serving := ownFirst
	rotation := 0
	score1, score2 := 0, 0

	rally := func(side1 bool) {
		ownScore, oppScore := score2, score1
		if ownFirst {
			ownScore, oppScore = score1, score2
		}
		point := &CPoint{
			Count:    -1,
			Serve:    serving,
			Rotation: rotation,
			Players:  lineup(positions, licenceds, ownScore, oppScore),
			Licences: Licences{},
		}
		for _, player := range point.Players {
			point.Licences.Add(player.Licence)
		}

		if side1 {
			score1 += 1
		} else {
			score2 += 1
		}
		if side1 == ownFirst {
			point.Count = 1
		}
		point.ScoreA, point.ScoreB = score2, score1
		if ownFirst {
			point.ScoreA, point.ScoreB = score1, score2
		}
		cset.Points = append(cset.Points, point)
	}

	sideOut := func() {
		serving = !serving
		if serving {
			rotation += 1
		}
	}

	idx1, idx2 := 0, 0
	for idx1 < len(points1) && idx2 < len(points2) {
		for i := range deltaPoints(points1, idx1) {
			rally(true)
			if idx1 > 0 && i == 0 {
				sideOut()
			}
		}
		idx2 += 1

		if idx2 < len(points2) {
			for i := range deltaPoints(points2, idx2) {
				rally(false)
				if i == 0 {
					sideOut()
				}
			}
			idx1 += 1
		}
	}

	cset.Rotations = rotation
	cset.ScoreA = finalScore(own)
	cset.ScoreB = finalScore(opp)
	if cset.ScoreA > cset.ScoreB {
		cset.Count = 1
	} else {
		cset.Count = -1
	}
	return cset
}

func deltaPoints(points []int, idx int) int {
	if idx == 0 {
		return max(0, points[0])
	}
	return max(0, points[idx]-max(0, points[idx-1]))
}

func finalScore(points []int) int {
	if len(points) == 0 {
		return 0
	}
	return max(0, points[len(points)-1])
}

// lineup returns the six players on court at a given score.
func lineup(
	positions []Position,
	licenceds map[string]Licenced,
	own, opp int,
) [6]Licenced {
	var players [6]Licenced
	for i, p := range positions {
		licence := p.Player
		if p.Substitute != "" && substituted(p, own, opp) {
			licence = p.Substitute
		}
		player, ok := licenceds[licence]
		if !ok {
			player = Licenced{Licence: licence}
		}
		players[i] = player
	}
	return players
}

func substituted(p Position, own, opp int) bool {
	inOwn, inOpp, ok := parseScore(p.ScoreIn)
	if !ok || own < inOwn || opp < inOpp {
		return false
	}
	outOwn, outOpp, ok := parseScore(p.ScoreOut)
	return !ok || own < outOwn || opp < outOpp
}

func parseScore(s string) (int, int, bool) {
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, false
	}
	own, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, false
	}
	opp, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, false
	}
	return own, opp, true
}
