package agent

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/zero-day-ai/strider/internal/encoding"
	"github.com/zero-day-ai/strider/internal/types"
)

// logEps is the additive floor preventing log(0) in the policy loss and
// division by zero when a batch's rewards all coincide.
const logEps = 1e-8

// trainStep performs one gradient update on both models from a uniformly
// sampled experience batch. The loop keeps no state between invocations
// beyond the buffer contents and the model parameters.
func (a *Agent) trainStep() error {
	batch := a.buffer.Sample(a.cfg.AI.BatchSize)
	if batch == nil {
		return nil
	}

	states := make([]types.ObservableState, len(batch))
	rewards := make([]float64, len(batch))
	for i, exp := range batch {
		states[i] = exp.State
		rewards[i] = exp.Reward
	}

	rows := encoding.EncodeBatch(states)
	normalized := normalizeRewards(rewards)

	policyLoss, err := a.policyStep(rows, normalized)
	if err != nil {
		return types.WrapError(types.TRAINING_BATCH_FAILED, "policy update failed", err)
	}

	valueLoss, err := a.valueStep(rows, normalized)
	if err != nil {
		return types.WrapError(types.TRAINING_BATCH_FAILED, "value update failed", err)
	}

	a.logger.Debug("training step complete",
		"batch_size", len(batch),
		"policy_loss", policyLoss,
		"value_loss", valueLoss)

	return nil
}

// normalizeRewards centers and scales a reward batch to stabilize the
// gradient magnitude. The epsilon floor keeps a zero-variance batch (all
// rewards equal) from dividing by zero.
func normalizeRewards(rewards []float64) []float64 {
	mean, std := stat.MeanStdDev(rewards, nil)
	if math.IsNaN(std) {
		// Single-sample batches have no defined sample deviation.
		std = 0
	}

	out := make([]float64, len(rewards))
	for i, r := range rewards {
		out[i] = (r - mean) / (std + logEps)
	}
	return out
}

// policyStep applies one gradient step on the policy surrogate loss: the
// negative mean of every log-probability weighted by the batch-normalized
// reward, broadcast across the full action row. This mirrors the original
// learner, which does not index the log-probability by the executed
// action; the buffer stores no action ids, so the executed action is not
// recoverable here.
func (a *Agent) policyStep(rows [][]float64, rewards []float64) (float64, error) {
	fwd, err := a.policy.ForwardBatch(rows, true)
	if err != nil {
		return 0, err
	}

	probs := fwd.Outputs()
	batchSize := len(rows)
	actionCount := a.catalog.Size()
	scale := float64(batchSize * actionCount)

	var loss float64
	dZ := mat.NewDense(batchSize, actionCount, nil)
	for b, row := range probs {
		for k, p := range row {
			loss -= math.Log(p+logEps) * rewards[b]
			// Gradient of the broadcast log-prob loss through softmax.
			dZ.Set(b, k, -(rewards[b]/scale)*(1-float64(actionCount)*p))
		}
	}
	loss /= scale

	grads := fwd.Backward(dZ)
	a.policyOpt.Step(a.policy.Parameters(), grads.List())

	return loss, nil
}

// valueStep applies one gradient step on the value regression: mean
// squared error between the predicted state values and the normalized
// rewards.
func (a *Agent) valueStep(rows [][]float64, rewards []float64) (float64, error) {
	fwd, err := a.value.ForwardBatch(rows, true)
	if err != nil {
		return 0, err
	}

	outs := fwd.Outputs()
	batchSize := len(rows)

	var loss float64
	dZ := mat.NewDense(batchSize, 1, nil)
	for b, row := range outs {
		diff := row[0] - rewards[b]
		loss += diff * diff
		dZ.Set(b, 0, 2*diff/float64(batchSize))
	}
	loss /= float64(batchSize)

	grads := fwd.Backward(dZ)
	a.valueOpt.Step(a.value.Parameters(), grads.List())

	return loss, nil
}
