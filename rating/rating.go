// Package rating holds a Gaussian skill belief per team and the
// paired-comparison update that folds match outcomes into it.
package rating

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrSigmaZero     = errors.New("sigma is zero or less")
	ErrBetaZero      = errors.New("beta is zero or less")
	ErrDrawRange     = errors.New("draw probability is outside of [0, 1)")
	ErrTightWeight   = errors.New("tight weight is outside of (0, 1]")
	ErrUnknownPolicy = errors.New("unknown rating strategy")
)

const (
	DefaultMu          = 25.0
	DefaultSigma       = DefaultMu / 3
	DefaultTightWeight = 0.8
)

// Rating is an immutable skill belief.
type Rating struct {
	Mu, Sigma float64
}

// Conservative is the skill the team exceeds with ~99.7% confidence.
func (r Rating) Conservative() float64 {
	return r.Mu - 3*r.Sigma
}

type Model struct {
	Mu, Sigma, Beta, Tau float64
	DrawProbability      float64

	// The partial play weight of the loser of a tight set.
	TightWeight float64
}

func DefaultModel() Model {
	return Model{
		Mu:              DefaultMu,
		Sigma:           DefaultSigma,
		Beta:            DefaultSigma / 2,
		Tau:             DefaultSigma / 100,
		DrawProbability: 0,
		TightWeight:     DefaultTightWeight,
	}
}

func (m Model) Validate() error {
	switch {
	case m.Sigma <= 0:
		return ErrSigmaZero
	case m.Beta <= 0:
		return ErrBetaZero
	case m.DrawProbability < 0 || m.DrawProbability >= 1:
		return ErrDrawRange
	case m.TightWeight <= 0 || m.TightWeight > 1:
		return ErrTightWeight
	}
	return nil
}

// New returns the prior rating of an unseen team.
func (m Model) New() Rating {
	return Rating{Mu: m.Mu, Sigma: m.Sigma}
}

// Rate updates the ratings of a winner and a loser of a single
// comparison. A tight comparison only applies the TightWeight share of
// the mean and variance changes of a clear result, whatever the
// rating level.
func (m Model) Rate(winner, loser Rating, tight bool) (Rating, Rating) {
	weight := 1.0
	if tight {
		weight = m.TightWeight
	}

	// dynamics
	varW := winner.Sigma*winner.Sigma + m.Tau*m.Tau
	varL := loser.Sigma*loser.Sigma + m.Tau*m.Tau
	beta2 := m.Beta * m.Beta

	c := math.Sqrt(varW + varL + 2*beta2)
	t := (winner.Mu - loser.Mu) / c
	e := m.drawMargin() / c

	v := vWin(t, e)
	w := wWin(t, e)

	newWinner := Rating{
		Mu:    winner.Mu + weight*varW/c*v,
		Sigma: math.Sqrt(varW * math.Max(1-weight*varW/(c*c)*w, 1e-9)),
	}
	newLoser := Rating{
		Mu:    loser.Mu - weight*varL/c*v,
		Sigma: math.Sqrt(varL * math.Max(1-weight*varL/(c*c)*w, 1e-9)),
	}
	return newWinner, newLoser
}

// WinProbability is the chance that a beats b.
func (m Model) WinProbability(a, b Rating) float64 {
	denom := math.Sqrt(2*m.Beta*m.Beta + a.Sigma*a.Sigma + b.Sigma*b.Sigma)
	return distuv.UnitNormal.CDF((a.Mu - b.Mu) / denom)
}

func (m Model) drawMargin() float64 {
	if m.DrawProbability <= 0 {
		return 0
	}
	return distuv.UnitNormal.Quantile((m.DrawProbability+1)/2) * math.Sqrt2 * m.Beta
}

func vWin(t, e float64) float64 {
	x := t - e
	denom := distuv.UnitNormal.CDF(x)
	if denom < 2.222758749e-162 {
		return -x
	}
	return distuv.UnitNormal.Prob(x) / denom
}

func wWin(t, e float64) float64 {
	x := t - e
	v := vWin(t, e)
	w := v * (v + x)
	if w <= 0 {
		return 0
	}
	return math.Min(w, 1)
}
