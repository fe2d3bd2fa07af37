package sheet

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ezBadminton/volleyrank/volleyball"
)

// columns writes the running score columns of a set from its rallies,
// one 'A' or 'B' per rally winner.
func columns(rallies string, server byte) ([]int, []int) {
	a, b := []int{}, []int{}
	if server == 'B' {
		a = append(a, Sentinel)
	} else {
		b = append(b, Sentinel)
	}

	sa, sb := 0, 0
	for _, r := range []byte(rallies) {
		if r != server {
			if server == 'A' {
				a = append(a, sa)
			} else {
				b = append(b, sb)
			}
			server = r
		}
		if r == 'A' {
			sa += 1
		} else {
			sb += 1
		}
	}
	if server == 'A' {
		a = append(a, sa)
	} else {
		b = append(b, sb)
	}

	if len(a) == 1 {
		a = append(a, 0)
	}
	if len(b) == 1 {
		b = append(b, 0)
	}
	return a, b
}

func testTeam(name, prefix string) SheetTeam {
	team := SheetTeam{Name: name}
	for i := 1; i <= 8; i++ {
		team.Players = append(team.Players, Licenced{
			Number:  fmt.Sprint(i),
			Name:    fmt.Sprintf("%s player %d", name, i),
			Licence: fmt.Sprintf("%s%d", prefix, i),
		})
	}
	return team
}

func testPositions() []Position {
	positions := make([]Position, 6)
	for i := range positions {
		positions[i] = Position{Player: fmt.Sprint(i + 1)}
	}
	return positions
}

type testSet struct {
	rallies string
	server  byte
}

// testMatch builds a sheet between ALPHA (side A) and BETA and the
// official results of both teams.
func testMatch(sets ...testSet) (*SheetMatch, Result, Result) {
	sm := &SheetMatch{
		Match: "2AA001",
		Day:   "1",
		TeamA: testTeam("ALPHA", "A"),
		TeamB: testTeam("BETA", "B"),
	}

	var ra, rb Result
	for _, set := range sets {
		a, b := columns(set.rallies, set.server)
		sm.Sets = append(sm.Sets, SheetSet{
			PositionA: testPositions(),
			PositionB: testPositions(),
			PointsA:   a,
			PointsB:   b,
		})

		score := volleyball.SetScore{}
		for _, r := range []byte(set.rallies) {
			if r == 'A' {
				score.A += 1
			} else {
				score.B += 1
			}
		}
		ra.Sets = append(ra.Sets, score)
		rb.Sets = append(rb.Sets, score.Invert())
		if score.A > score.B {
			ra.SetsWon += 1
			rb.SetsLost += 1
		} else {
			ra.SetsLost += 1
			rb.SetsWon += 1
		}
	}

	ra.Count, rb.Count = 1, -1
	if ra.SetsLost > ra.SetsWon {
		ra.Count, rb.Count = -1, 1
	}
	return sm, ra, rb
}

var threeSets = []testSet{
	{"AABBAABA", 'A'},
	{"BBBAAB", 'B'},
	{"ABABAA", 'A'},
}

func TestDecodeRoundTrip(t *testing.T) {
	sm, ra, rb := testMatch(threeSets...)

	for _, side := range []byte{'A', 'B'} {
		team, result := "ALPHA", ra
		if side == 'B' {
			team, result = "BETA", rb
		}

		sheet, err := Decode(team, side == 'A', result, sm, DecodeOptions{Strict: true})
		if err != nil {
			t.Fatalf("decoding for %s failed: %v", team, err)
		}
		if sheet.Match.IsA != (side == 'A') || sheet.Team.Name != team {
			t.Fatal("the sheet side of the team is wrong")
		}
		if sheet.Match.SetA != result.SetsWon || sheet.Match.SetB != result.SetsLost {
			t.Fatal("the set tally is wrong")
		}

		for i, set := range threeSets {
			cset := sheet.Match.Sets[i]
			if len(cset.Points) != len(set.rallies) {
				t.Fatalf("set %d has %d rallies, want %d", i, len(cset.Points), len(set.rallies))
			}
			if cset.ScoreA != result.Sets[i].A || cset.ScoreB != result.Sets[i].B {
				t.Fatalf("set %d final score is wrong", i)
			}
			if cset.Serve != (set.server == side) {
				t.Fatalf("set %d first serve is wrong", i)
			}

			server := set.server
			for j, p := range cset.Points {
				winner := set.rallies[j]
				if p.Won() != (winner == side) {
					t.Fatalf("set %d rally %d has the wrong winner", i, j)
				}
				if p.Serve != (server == side) {
					t.Fatalf("set %d rally %d has the wrong server", i, j)
				}
				server = winner
			}

			last := cset.Points[len(cset.Points)-1]
			if last.ScoreA != cset.ScoreA || last.ScoreB != cset.ScoreB {
				t.Fatalf("set %d last rally does not end on the final score", i)
			}
		}
	}
}

func TestDecodeRotation(t *testing.T) {
	sm, ra, rb := testMatch(threeSets...)

	sheet, _ := Decode("ALPHA", true, ra, sm, DecodeOptions{Strict: true})
	set := sheet.Match.Sets[0]
	rotations := []int{0, 0, 0, 0, 0, 1, 1, 1}
	for i, p := range set.Points {
		if p.Rotation != rotations[i] {
			t.Fatalf("rally %d is in rotation %d, want %d", i, p.Rotation, rotations[i])
		}
	}
	if set.Rotations != 2 {
		t.Fatal("the set did not count two rotations")
	}

	sheet, _ = Decode("BETA", false, rb, sm, DecodeOptions{Strict: true})
	set = sheet.Match.Sets[0]
	rotations = []int{0, 0, 0, 1, 1, 1, 1, 2}
	for i, p := range set.Points {
		if p.Rotation != rotations[i] {
			t.Fatalf("rally %d is in rotation %d, want %d", i, p.Rotation, rotations[i])
		}
	}
}

func TestDecodeMismatch(t *testing.T) {
	sm, ra, _ := testMatch(threeSets...)
	ra.Sets[1] = volleyball.SetScore{A: 3, B: 4}

	_, err := Decode("ALPHA", true, ra, sm, DecodeOptions{Strict: true})
	var assertion *AssertionError
	if !errors.Is(err, ErrSheetMismatch) || !errors.As(err, &assertion) || assertion.Set != 1 {
		t.Fatalf("wrong official score did not error: %v", err)
	}

	sheet, err := Decode("ALPHA", true, ra, sm, DecodeOptions{})
	if err != nil || len(sheet.Match.Sets) != 3 {
		t.Fatal("lenient decoding did not return the sheet")
	}

	_, err = Decode("GAMMA", true, ra, sm, DecodeOptions{})
	if !errors.Is(err, ErrTeamMismatch) {
		t.Fatal("unknown team did not error")
	}

	sm.Sets[0].PositionA[2].Player = "99"
	_, err = Decode("ALPHA", true, ra, sm, DecodeOptions{})
	if !errors.Is(err, ErrUnknownPlayer) {
		t.Fatal("unknown shirt number did not error")
	}

	sm.Sets[0].PositionA = sm.Sets[0].PositionA[:5]
	_, err = Decode("ALPHA", true, ra, sm, DecodeOptions{})
	if !errors.Is(err, ErrPositions) {
		t.Fatal("five positions did not error")
	}
}

func TestDecodeTieBreakSentinel(t *testing.T) {
	sm, ra, rb := testMatch(
		testSet{"AABBAABA", 'A'},
		testSet{"BBBAAB", 'B'},
		testSet{"ABABAA", 'A'},
		testSet{"BBAB", 'A'},
		testSet{"BABBABB", 'B'},
	)

	// The tie-break is written with team B on the left and without
	// the leading sentinel of team A.
	tb := &sm.Sets[TieBreakIndex]
	if tb.PointsA[0] != Sentinel {
		t.Fatal("test tie-break is not served by team B")
	}
	tb.PointsA, tb.PointsB = tb.PointsB, tb.PointsA[1:]
	tb.PositionA, tb.PositionB = tb.PositionB, tb.PositionA
	tb.Inverted = true

	for _, side := range []struct {
		team   string
		result Result
	}{{"ALPHA", ra}, {"BETA", rb}} {
		sheet, err := Decode(side.team, side.team == "ALPHA", side.result, sm, DecodeOptions{Strict: true})
		if err != nil {
			t.Fatalf("tie-break for %s did not decode: %v", side.team, err)
		}
		set := sheet.Match.Sets[TieBreakIndex]
		official := side.result.Sets[TieBreakIndex]
		if len(set.Points) != 7 || set.ScoreA != official.A || set.ScoreB != official.B {
			t.Fatalf("tie-break for %s decoded to %d-%d", side.team, set.ScoreA, set.ScoreB)
		}
	}
	if ra.SetsWon != 2 || rb.SetsWon != 3 {
		t.Fatal("test match is not a 2-3")
	}
}

func TestDecodeSubstitution(t *testing.T) {
	sm, ra, _ := testMatch(threeSets...)
	sm.Sets[0].PositionA[0] = Position{Player: "1", Substitute: "7", ScoreIn: "2:1", ScoreOut: "4:3"}

	sheet, err := Decode("ALPHA", true, ra, sm, DecodeOptions{Strict: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	set := sheet.Match.Sets[0]
	want := []string{"1", "1", "1", "7", "7", "7", "7", "1"}
	for i, p := range set.Points {
		if p.Players[0].Number != want[i] {
			t.Fatalf("rally %d has player %s on position 1", i, p.Players[0].Number)
		}
	}
	if !set.Licences.Has("A7") || !sheet.Match.Licences.Has("A7") || sheet.Match.Sets[1].Licences.Has("A7") {
		t.Fatal("substitute licence is not recorded on its set only")
	}
}
