package core

import (
	"fmt"
	"strings"
)

// Bucket counts the decided matches whose favorite had a chance to win
// in [Low, High).
type Bucket struct {
	Low, High float64

	Played    int
	Predicted int
	// Sum of the chances of the favorites
	Expected float64
}

func (b *Bucket) contains(p float64) bool {
	return b.Low <= p && (p < b.High || (b.High == 1 && p == 1))
}

func (b *Bucket) add(p float64, predicted bool) {
	b.Played += 1
	b.Expected += p
	if predicted {
		b.Predicted += 1
	}
}

// MeanExpected is the mean chance of the favorites.
func (b *Bucket) MeanExpected() float64 {
	if b.Played == 0 {
		return 0
	}
	return b.Expected / float64(b.Played)
}

// PredictedRate is the share of matches won by the favorite.
func (b *Bucket) PredictedRate() float64 {
	if b.Played == 0 {
		return 0
	}
	return float64(b.Predicted) / float64(b.Played)
}

// Calibration compares the win probabilities of matches with their
// outcome.
type Calibration struct {
	Global  Bucket
	Buckets []Bucket
}

func NewCalibration() *Calibration {
	c := &Calibration{Global: Bucket{Low: 0, High: 1}}
	for low := 50; low < 100; low += 10 {
		c.Buckets = append(c.Buckets, Bucket{
			Low:  float64(low) / 100,
			High: float64(low+10) / 100,
		})
	}
	return c
}

// Add counts a match. Undecided matches are ignored.
func (c *Calibration) Add(m *Match) {
	if m.Winner == nil {
		return
	}

	p := m.WinProbability
	if m.Winner == m.TeamB {
		p = 1 - p
	}
	predicted := p >= 0.5
	slot := max(p, 1-p)

	for i := range c.Buckets {
		if c.Buckets[i].contains(slot) {
			c.Buckets[i].add(slot, predicted)
			c.Global.add(slot, predicted)
			return
		}
	}
}

func (c *Calibration) AddAll(matches []*Match) {
	for _, m := range matches {
		c.Add(m)
	}
}

// Proportion is the share of all counted matches in a bucket.
func (c *Calibration) Proportion(i int) float64 {
	if c.Global.Played == 0 {
		return 0
	}
	return float64(c.Buckets[i].Played) / float64(c.Global.Played)
}

func (c *Calibration) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Globally expected: %.1f%% predicted: %.1f%% (%d/%d)",
		100*c.Global.MeanExpected(), 100*c.Global.PredictedRate(),
		c.Global.Predicted, c.Global.Played)
	for i := range c.Buckets {
		bucket := &c.Buckets[i]
		fmt.Fprintf(&b, "\nRange: %.0f-%.0f%% | expected: %.1f%% | predicted: %.1f%% (%d/%d) | proportion: %.1f%%",
			100*bucket.Low, 100*bucket.High,
			100*bucket.MeanExpected(), 100*bucket.PredictedRate(),
			bucket.Predicted, bucket.Played, 100*c.Proportion(i))
	}
	return b.String()
}
