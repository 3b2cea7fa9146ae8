package model

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Adam default moment decay rates and epsilon.
const (
	adamBeta1 = 0.9
	adamBeta2 = 0.999
	adamEps   = 1e-8
)

// Adam is a per-network Adam optimizer. Moment estimates are lazily shaped
// on the first step and serialized wholesale into checkpoints.
type Adam struct {
	lr   float64
	step int
	m    []*mat.Dense
	v    []*mat.Dense
}

// NewAdam creates an Adam optimizer with the given learning rate.
func NewAdam(lr float64) *Adam {
	return &Adam{lr: lr}
}

// LearningRate returns the configured learning rate.
func (a *Adam) LearningRate() float64 {
	return a.lr
}

// Step applies one Adam update to params in place using grads. Both slices
// must be parallel to Network.Parameters().
func (a *Adam) Step(params, grads []*mat.Dense) {
	if a.m == nil {
		a.m = make([]*mat.Dense, len(params))
		a.v = make([]*mat.Dense, len(params))
		for i, p := range params {
			r, c := p.Dims()
			a.m[i] = mat.NewDense(r, c, nil)
			a.v[i] = mat.NewDense(r, c, nil)
		}
	}

	a.step++
	biasCorr1 := 1 - math.Pow(adamBeta1, float64(a.step))
	biasCorr2 := 1 - math.Pow(adamBeta2, float64(a.step))

	for i, p := range params {
		r, c := p.Dims()
		for row := 0; row < r; row++ {
			pRow := p.RawRowView(row)
			gRow := grads[i].RawRowView(row)
			mRow := a.m[i].RawRowView(row)
			vRow := a.v[i].RawRowView(row)
			for col := 0; col < c; col++ {
				g := gRow[col]
				mRow[col] = adamBeta1*mRow[col] + (1-adamBeta1)*g
				vRow[col] = adamBeta2*vRow[col] + (1-adamBeta2)*g*g
				mHat := mRow[col] / biasCorr1
				vHat := vRow[col] / biasCorr2
				pRow[col] -= a.lr * mHat / (math.Sqrt(vHat) + adamEps)
			}
		}
	}
}
