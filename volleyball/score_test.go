package volleyball

import (
	"reflect"
	"testing"
)

func TestScoreSettings(t *testing.T) {
	_, err := NewScoreSettings(0, 15, 3)
	if err != ErrPointsZero {
		t.Fatal("zero points did not error")
	}

	_, err = NewScoreSettings(25, 15, 0)
	if err != ErrSetsZero {
		t.Fatal("zero sets did not error")
	}

	settings, err := NewScoreSettings(25, 15, 3)
	if err != nil || settings != DefaultSettings {
		t.Fatal("standard volleyball setting did error")
	}
}

func TestScoreSums(t *testing.T) {
	score := Score{{25, 20}, {18, 25}, {25, 23}}

	inverted := score.Invert()
	if !reflect.DeepEqual(inverted, Score{{20, 25}, {25, 18}, {23, 25}}) {
		t.Fatal("score did not invert the given points")
	}

	if a, b := score.Sets(); a != 2 || b != 1 {
		t.Fatal("set count of a 2-1 score is wrong")
	}
	if a, b := inverted.Sets(); a != 1 || b != 2 {
		t.Fatal("set count of the inverted score is wrong")
	}

	a, b := score.Totals()
	if a != 68 || b != 68 {
		t.Fatal("totals are wrong")
	}
}

func TestScoreCheck(t *testing.T) {
	cases := []struct {
		score Score
		err   error
	}{
		{Score{}, ErrEmpty},
		{Score{{25, 20}, {25, 20}}, ErrTooFewSets},
		{Score{{25, 20}, {25, 20}, {25, 20}}, nil},
		{Score{{25, 20}, {20, 25}, {25, 20}, {20, 25}, {15, 13}}, nil},
		{Score{{25, 20}, {20, 25}, {25, 20}, {20, 25}, {14, 12}}, ErrTooFewPoints},
		{Score{{25, 24}, {25, 20}, {25, 20}}, ErrInvalidMargin},
		{Score{{30, 26}, {25, 20}, {25, 20}}, ErrInvalidMargin},
		{Score{{30, 28}, {25, 20}, {25, 20}}, nil},
		{Score{{25, 25}, {25, 20}, {25, 20}}, ErrUndeterminedSet},
		{Score{{25, 20}, {25, 20}, {25, 20}, {25, 20}}, ErrUnneededSets},
		{Score{{25, 20}, {20, 25}, {25, 20}, {20, 25}}, ErrUndetermined},
	}

	for i, c := range cases {
		if err := c.score.Check(DefaultSettings); err != c.err {
			t.Fatalf("case %d: got %v, want %v", i, err, c.err)
		}
	}
}

func TestParse(t *testing.T) {
	a, b := ParseSets("3/1")
	if a != 3 || b != 1 {
		t.Fatal("set count did not parse")
	}
	a, b = ParseSets("F/3")
	if a != 0 || b != 3 {
		t.Fatal("forfeit did not count zero")
	}
	a, b = ParseSets("")
	if a != 0 || b != 0 {
		t.Fatal("empty set count is not zero")
	}

	a, b = ParseTotal("75-60")
	if a != 75 || b != 60 {
		t.Fatal("total did not parse")
	}

	score := ParseScore("25-20, 18-25,25-23")
	if !reflect.DeepEqual(score, Score{{25, 20}, {18, 25}, {25, 23}}) {
		t.Fatal("set scores did not parse")
	}
	if len(ParseScore("")) != 0 {
		t.Fatal("empty score has sets")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		setA, setB, totalA, totalB int
		victory                    Victory
	}{
		{0, 0, 0, 0, Unplayed},
		{3, 2, 110, 100, TieBreak},
		{2, 3, 100, 110, TieBreak},
		{3, 0, 75, 70, Medium},
		{3, 1, 100, 80, Medium},
		{0, 3, 50, 75, Large},
		{3, 0, 75, 30, Huge},
		{3, 0, 0, 0, Medium},
	}

	for i, c := range cases {
		if v := Classify(c.setA, c.setB, c.totalA, c.totalB); v != c.victory {
			t.Fatalf("case %d: got %v, want %v", i, v, c.victory)
		}
	}
}
