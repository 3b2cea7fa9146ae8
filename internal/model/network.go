// Package model implements the policy and value function approximators:
// small feed-forward networks trained by manually differentiated gradient
// steps. There is no autodiff graph here; the architecture is fixed at two
// hidden layers and the backward pass is written out by hand.
package model

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/zero-day-ai/strider/internal/types"
)

// DefaultHiddenSize is the stock width of both hidden layers.
const DefaultHiddenSize = 128

// DefaultDropoutRate is the unit-dropout probability applied between
// layers during training updates only.
const DefaultDropoutRate = 0.2

// Network is a 2-hidden-layer MLP. With Softmax set it maps an encoded
// state to an action-probability distribution (the policy); without it,
// and with OutputSize 1, it is the scalar state-value head. Forward passes
// outside of training never apply dropout, so inference is deterministic
// for fixed parameters.
type Network struct {
	inputSize   int
	hiddenSize  int
	outputSize  int
	softmax     bool
	dropoutRate float64

	w1, b1 *mat.Dense
	w2, b2 *mat.Dense
	w3, b3 *mat.Dense

	rng *rand.Rand
}

// Config describes a network shape.
type Config struct {
	InputSize   int
	HiddenSize  int
	OutputSize  int
	Softmax     bool
	DropoutRate float64
}

// NewNetwork creates a network with He-initialized weights drawn from rng.
func NewNetwork(cfg Config, rng *rand.Rand) *Network {
	if cfg.HiddenSize <= 0 {
		cfg.HiddenSize = DefaultHiddenSize
	}
	if cfg.DropoutRate <= 0 {
		cfg.DropoutRate = DefaultDropoutRate
	}

	n := &Network{
		inputSize:   cfg.InputSize,
		hiddenSize:  cfg.HiddenSize,
		outputSize:  cfg.OutputSize,
		softmax:     cfg.Softmax,
		dropoutRate: cfg.DropoutRate,
		rng:         rng,
	}

	n.w1 = heInit(rng, cfg.InputSize, cfg.HiddenSize)
	n.b1 = mat.NewDense(1, cfg.HiddenSize, nil)
	n.w2 = heInit(rng, cfg.HiddenSize, cfg.HiddenSize)
	n.b2 = mat.NewDense(1, cfg.HiddenSize, nil)
	n.w3 = heInit(rng, cfg.HiddenSize, cfg.OutputSize)
	n.b3 = mat.NewDense(1, cfg.OutputSize, nil)

	return n
}

// heInit draws fan-in scaled normal weights, the usual choice for ReLU nets.
func heInit(rng *rand.Rand, in, out int) *mat.Dense {
	scale := math.Sqrt(2.0 / float64(in))
	data := make([]float64, in*out)
	for i := range data {
		data[i] = rng.NormFloat64() * scale
	}
	return mat.NewDense(in, out, data)
}

// InputSize returns the expected feature-vector length.
func (n *Network) InputSize() int { return n.inputSize }

// OutputSize returns the output width.
func (n *Network) OutputSize() int { return n.outputSize }

// Forward runs a deterministic inference pass over a single feature vector.
// Dropout is never applied here.
func (n *Network) Forward(features []float64) ([]float64, error) {
	if len(features) != n.inputSize {
		return nil, types.NewError(types.MODEL_SHAPE_MISMATCH,
			"feature vector length does not match network input size")
	}

	x := mat.NewDense(1, n.inputSize, features)
	batch, err := n.forward(x, false)
	if err != nil {
		return nil, err
	}

	out := make([]float64, n.outputSize)
	copy(out, batch.out.RawRowView(0))
	return out, nil
}

// ForwardBatch runs a forward pass over a batch of feature rows. When
// training is true, dropout masks are sampled and cached so Backward can
// reuse them.
func (n *Network) ForwardBatch(rows [][]float64, training bool) (*Batch, error) {
	if len(rows) == 0 {
		return nil, types.NewError(types.MODEL_SHAPE_MISMATCH, "empty batch")
	}
	for _, row := range rows {
		if len(row) != n.inputSize {
			return nil, types.NewError(types.MODEL_SHAPE_MISMATCH,
				"feature row length does not match network input size")
		}
	}

	x := mat.NewDense(len(rows), n.inputSize, nil)
	for i, row := range rows {
		x.SetRow(i, row)
	}
	return n.forward(x, training)
}

// Batch holds the activations of one forward pass for use by Backward.
type Batch struct {
	n        *Network
	x        *mat.Dense
	z1, a1   *mat.Dense
	z2, a2   *mat.Dense
	m1, m2   *mat.Dense // dropout masks, nil outside training
	out      *mat.Dense // post-activation output (softmax rows or raw)
	training bool
}

// Outputs returns the batch outputs as rows. For a softmax network each row
// is a normalized probability distribution.
func (b *Batch) Outputs() [][]float64 {
	r, c := b.out.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		rows[i] = make([]float64, c)
		copy(rows[i], b.out.RawRowView(i))
	}
	return rows
}

func (n *Network) forward(x *mat.Dense, training bool) (*Batch, error) {
	b := &Batch{n: n, x: x, training: training}

	b.z1 = linear(x, n.w1, n.b1)
	b.a1 = relu(b.z1)
	if training {
		b.m1 = n.dropoutMask(b.a1)
		b.a1.MulElem(b.a1, b.m1)
	}

	b.z2 = linear(b.a1, n.w2, n.b2)
	b.a2 = relu(b.z2)
	if training {
		b.m2 = n.dropoutMask(b.a2)
		b.a2.MulElem(b.a2, b.m2)
	}

	z3 := linear(b.a2, n.w3, n.b3)
	if n.softmax {
		b.out = softmaxRows(z3)
	} else {
		b.out = z3
	}

	return b, nil
}

// linear computes x*w + b with b broadcast across rows.
func linear(x, w, b *mat.Dense) *mat.Dense {
	r, _ := x.Dims()
	_, c := w.Dims()
	out := mat.NewDense(r, c, nil)
	out.Mul(x, w)
	for i := 0; i < r; i++ {
		row := out.RawRowView(i)
		bias := b.RawRowView(0)
		for j := range row {
			row[j] += bias[j]
		}
	}
	return out
}

func relu(z *mat.Dense) *mat.Dense {
	r, c := z.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, _ int, v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	}, z)
	return out
}

// dropoutMask samples an inverted-dropout mask: kept units are scaled by
// 1/(1-rate) so inference needs no rescaling.
func (n *Network) dropoutMask(a *mat.Dense) *mat.Dense {
	r, c := a.Dims()
	keep := 1.0 - n.dropoutRate
	mask := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if n.rng.Float64() < keep {
				mask.Set(i, j, 1.0/keep)
			}
		}
	}
	return mask
}

// softmaxRows applies a numerically stable softmax to every row.
func softmaxRows(z *mat.Dense) *mat.Dense {
	r, c := z.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		row := z.RawRowView(i)
		maxV := row[0]
		for _, v := range row[1:] {
			if v > maxV {
				maxV = v
			}
		}
		var sum float64
		outRow := out.RawRowView(i)
		for j, v := range row {
			e := math.Exp(v - maxV)
			outRow[j] = e
			sum += e
		}
		for j := range outRow {
			outRow[j] /= sum
		}
	}
	return out
}

// Gradients holds one gradient per trainable parameter, in the same order
// as Parameters().
type Gradients struct {
	W1, B1, W2, B2, W3, B3 *mat.Dense
}

// List returns the gradients in parameter order.
func (g *Gradients) List() []*mat.Dense {
	return []*mat.Dense{g.W1, g.B1, g.W2, g.B2, g.W3, g.B3}
}

// Parameters returns the trainable parameter matrices in a fixed order.
// Optimizers mutate these in place.
func (n *Network) Parameters() []*mat.Dense {
	return []*mat.Dense{n.w1, n.b1, n.w2, n.b2, n.w3, n.b3}
}

// Backward computes parameter gradients from dZ3, the loss gradient with
// respect to the output layer's pre-activation. For a softmax network the
// caller folds the softmax jacobian into dZ3; for a linear head dZ3 is the
// gradient with respect to the raw output. The batch must have been
// produced by a training-mode forward pass.
func (b *Batch) Backward(dZ3 *mat.Dense) *Gradients {
	n := b.n

	g := &Gradients{}

	// Output layer.
	g.W3 = matMulT(b.a2, dZ3)
	g.B3 = sumRows(dZ3)

	// Hidden layer 2.
	dA2 := mat.NewDense(rowsOf(dZ3), n.hiddenSize, nil)
	dA2.Mul(dZ3, n.w3.T())
	if b.m2 != nil {
		dA2.MulElem(dA2, b.m2)
	}
	dZ2 := reluBackward(dA2, b.z2)
	g.W2 = matMulT(b.a1, dZ2)
	g.B2 = sumRows(dZ2)

	// Hidden layer 1.
	dA1 := mat.NewDense(rowsOf(dZ2), n.hiddenSize, nil)
	dA1.Mul(dZ2, n.w2.T())
	if b.m1 != nil {
		dA1.MulElem(dA1, b.m1)
	}
	dZ1 := reluBackward(dA1, b.z1)
	g.W1 = matMulT(b.x, dZ1)
	g.B1 = sumRows(dZ1)

	return g
}

func rowsOf(m *mat.Dense) int {
	r, _ := m.Dims()
	return r
}

// matMulT computes aᵀ * b.
func matMulT(a, b *mat.Dense) *mat.Dense {
	_, ac := a.Dims()
	_, bc := b.Dims()
	out := mat.NewDense(ac, bc, nil)
	out.Mul(a.T(), b)
	return out
}

// sumRows collapses a batch gradient into a 1×c bias gradient.
func sumRows(m *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(1, c, nil)
	acc := out.RawRowView(0)
	for i := 0; i < r; i++ {
		row := m.RawRowView(i)
		for j := range row {
			acc[j] += row[j]
		}
	}
	return out
}

// reluBackward zeroes gradient entries where the pre-activation was not
// positive.
func reluBackward(dA, z *mat.Dense) *mat.Dense {
	r, c := dA.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		dRow := dA.RawRowView(i)
		zRow := z.RawRowView(i)
		oRow := out.RawRowView(i)
		for j := range dRow {
			if zRow[j] > 0 {
				oRow[j] = dRow[j]
			}
		}
	}
	return out
}
