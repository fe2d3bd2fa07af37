package rating

import (
	"math"
	"testing"
)

func TestDefaultModel(t *testing.T) {
	m := DefaultModel()
	if err := m.Validate(); err != nil {
		t.Fatalf("default model did not validate: %v", err)
	}
	r := m.New()
	if r.Mu != 25 || math.Abs(r.Sigma-25.0/3) > 1e-12 {
		t.Fatal("default rating is not 25/8.33")
	}

	m.Beta = 0
	if m.Validate() != ErrBetaZero {
		t.Fatal("zero beta did not error")
	}
	m = DefaultModel()
	m.TightWeight = 1.5
	if m.Validate() != ErrTightWeight {
		t.Fatal("tight weight above one did not error")
	}
}

func TestWinProbabilitySymmetry(t *testing.T) {
	m := DefaultModel()
	pairs := [][2]Rating{
		{{25, 8.3}, {25, 8.3}},
		{{30, 2}, {20, 5}},
		{{12, 7}, {41, 1}},
	}
	for _, p := range pairs {
		ab := m.WinProbability(p[0], p[1])
		ba := m.WinProbability(p[1], p[0])
		if math.Abs(ab+ba-1) > 1e-9 {
			t.Fatalf("win probabilities %v and %v do not add up to one", ab, ba)
		}
	}

	if p := m.WinProbability(m.New(), m.New()); math.Abs(p-0.5) > 1e-12 {
		t.Fatalf("equal ratings yield probability %v", p)
	}
	if m.WinProbability(Rating{30, 2}, Rating{20, 2}) <= 0.5 {
		t.Fatal("stronger team is not the favorite")
	}
}

func TestRateMonotonic(t *testing.T) {
	m := DefaultModel()
	a, b := Rating{27, 4}, Rating{22, 6}

	w, l := m.Rate(a, b, false)
	if w.Mu <= a.Mu || l.Mu >= b.Mu {
		t.Fatal("winner did not gain or loser did not lose")
	}
	if w.Sigma >= a.Sigma || l.Sigma >= b.Sigma {
		t.Fatal("uncertainty did not shrink")
	}

	w2, l2 := m.Rate(a, b, false)
	if w != w2 || l != l2 {
		t.Fatal("rating update is not deterministic")
	}
}

func TestRateTight(t *testing.T) {
	m := DefaultModel()
	pairs := [][2]Rating{
		{m.New(), m.New()},
		{{Mu: 30, Sigma: 5}, {Mu: 30, Sigma: 5}},
		{{Mu: 18, Sigma: 3}, {Mu: 18, Sigma: 3}},
		{{Mu: 5, Sigma: 4}, {Mu: 5, Sigma: 4}},
		{{Mu: 0, Sigma: 4}, {Mu: 0, Sigma: 4}},
		{{Mu: -6, Sigma: 4}, {Mu: -6, Sigma: 4}},
		// the weaker team wins
		{{Mu: 10, Sigma: 4}, {Mu: 30, Sigma: 3}},
		{{Mu: 0, Sigma: 6}, {Mu: 25, Sigma: 2}},
	}

	for _, p := range pairs {
		a, b := p[0], p[1]
		dw, dl := m.Rate(a, b, false)
		tw, tl := m.Rate(a, b, true)

		decisiveWin, decisiveLoss := dw.Mu-a.Mu, b.Mu-dl.Mu
		tightWin, tightLoss := tw.Mu-a.Mu, b.Mu-tl.Mu

		if tightWin <= 0 || tightLoss <= 0 {
			t.Fatal("tight result did not move the ratings")
		}
		if tightWin >= decisiveWin {
			t.Fatalf("tight win gained %v, decisive win %v", tightWin, decisiveWin)
		}
		if tightLoss >= decisiveLoss {
			t.Fatalf("tight loss cost %v, decisive loss %v", tightLoss, decisiveLoss)
		}
		if math.Abs(tightWin-m.TightWeight*decisiveWin) > 1e-9 {
			t.Fatalf("tight win at mu %v is not damped by the tight weight", a.Mu)
		}
		if tw.Sigma < dw.Sigma || tl.Sigma < dl.Sigma {
			t.Fatal("a tight result shrank the uncertainty more than a clear one")
		}
	}
}

func TestStrategy(t *testing.T) {
	s, err := ParseStrategy("Match")
	if err != nil || s != PerMatch {
		t.Fatal("match strategy did not parse")
	}
	s, err = ParseStrategy("")
	if err != nil || s != PerSet {
		t.Fatal("empty strategy is not per set")
	}
	if _, err = ParseStrategy("elo"); err != ErrUnknownPolicy {
		t.Fatal("unknown strategy did not error")
	}

	m := DefaultModel()
	sets := []SetResult{{25, 20}, {23, 25}, {25, 10}, {26, 24}}

	a, b := PerSet.ApplyMatch(m, m.New(), m.New(), sets, true)
	if a.Mu <= m.Mu || b.Mu >= m.Mu {
		t.Fatal("3-1 winner did not come out ahead per set")
	}

	pa, pb := PerMatch.ApplyMatch(m, m.New(), m.New(), sets, false)
	if pb.Mu <= m.Mu || pa.Mu >= m.Mu {
		t.Fatal("per match strategy ignored the winner")
	}

	if !(SetResult{25, 23}).Tight() || (SetResult{25, 22}).Tight() {
		t.Fatal("tight margin is not two points")
	}
}
