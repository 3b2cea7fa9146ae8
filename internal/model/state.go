package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/zero-day-ai/strider/internal/types"
)

// MatrixState is the serialized form of one dense matrix.
type MatrixState struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

func matrixState(m *mat.Dense) MatrixState {
	r, c := m.Dims()
	data := make([]float64, r*c)
	copy(data, m.RawMatrix().Data)
	return MatrixState{Rows: r, Cols: c, Data: data}
}

func (s MatrixState) restore() (*mat.Dense, error) {
	if s.Rows*s.Cols != len(s.Data) {
		return nil, types.NewError(types.MODEL_SHAPE_MISMATCH,
			"serialized matrix data length does not match its dimensions")
	}
	data := make([]float64, len(s.Data))
	copy(data, s.Data)
	return mat.NewDense(s.Rows, s.Cols, data), nil
}

// NetworkState is a full snapshot of one network's trainable parameters.
type NetworkState struct {
	InputSize  int           `json:"input_size"`
	HiddenSize int           `json:"hidden_size"`
	OutputSize int           `json:"output_size"`
	Softmax    bool          `json:"softmax"`
	Params     []MatrixState `json:"params"`
}

// Snapshot captures the network's parameters for checkpointing.
func (n *Network) Snapshot() NetworkState {
	params := n.Parameters()
	state := NetworkState{
		InputSize:  n.inputSize,
		HiddenSize: n.hiddenSize,
		OutputSize: n.outputSize,
		Softmax:    n.softmax,
		Params:     make([]MatrixState, len(params)),
	}
	for i, p := range params {
		state.Params[i] = matrixState(p)
	}
	return state
}

// Restore replaces the network's parameters with a snapshot. The snapshot
// shape must match the network's configuration exactly.
func (n *Network) Restore(state NetworkState) error {
	if state.InputSize != n.inputSize || state.HiddenSize != n.hiddenSize ||
		state.OutputSize != n.outputSize || state.Softmax != n.softmax {
		return types.NewError(types.MODEL_SHAPE_MISMATCH,
			"snapshot shape does not match network configuration")
	}
	if len(state.Params) != len(n.Parameters()) {
		return types.NewError(types.MODEL_SHAPE_MISMATCH,
			"snapshot parameter count does not match network")
	}

	restored := make([]*mat.Dense, len(state.Params))
	for i, ms := range state.Params {
		m, err := ms.restore()
		if err != nil {
			return err
		}
		restored[i] = m
	}

	n.w1, n.b1 = restored[0], restored[1]
	n.w2, n.b2 = restored[2], restored[3]
	n.w3, n.b3 = restored[4], restored[5]
	return nil
}

// AdamState is a full snapshot of an optimizer's moment estimates.
type AdamState struct {
	LearningRate float64       `json:"learning_rate"`
	Step         int           `json:"step"`
	M            []MatrixState `json:"m"`
	V            []MatrixState `json:"v"`
}

// Snapshot captures the optimizer state for checkpointing.
func (a *Adam) Snapshot() AdamState {
	state := AdamState{LearningRate: a.lr, Step: a.step}
	for i := range a.m {
		state.M = append(state.M, matrixState(a.m[i]))
		state.V = append(state.V, matrixState(a.v[i]))
	}
	return state
}

// Restore replaces the optimizer state with a snapshot.
func (a *Adam) Restore(state AdamState) error {
	if len(state.M) != len(state.V) {
		return types.NewError(types.MODEL_SHAPE_MISMATCH,
			"optimizer snapshot has mismatched moment counts")
	}

	m := make([]*mat.Dense, len(state.M))
	v := make([]*mat.Dense, len(state.V))
	for i := range state.M {
		var err error
		if m[i], err = state.M[i].restore(); err != nil {
			return err
		}
		if v[i], err = state.V[i].restore(); err != nil {
			return err
		}
	}

	a.lr = state.LearningRate
	a.step = state.Step
	if len(m) == 0 {
		a.m, a.v = nil, nil
	} else {
		a.m, a.v = m, v
	}
	return nil
}
