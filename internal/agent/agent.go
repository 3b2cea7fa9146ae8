// Package agent implements the reinforcement-learning agent: action
// selection under an exploration policy, the experience-driven training
// loop, episode execution against the simulated environment, and
// checkpointing. One Agent owns one environment, one experience buffer and
// one pair of models; it is driven from a single goroutine.
package agent

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/zero-day-ai/strider/internal/action"
	"github.com/zero-day-ai/strider/internal/config"
	"github.com/zero-day-ai/strider/internal/encoding"
	"github.com/zero-day-ai/strider/internal/env"
	"github.com/zero-day-ai/strider/internal/model"
	"github.com/zero-day-ai/strider/internal/replay"
	"github.com/zero-day-ai/strider/internal/types"
)

// successRewardThreshold is the fixed total-reward bar above which an
// episode counts as successful.
const successRewardThreshold = 50.0

// Exploration-rate adaptation bounds and factors.
const (
	explorationFloor   = 0.05
	explorationCeiling = 0.5
	explorationDecay   = 0.9
	explorationGrowth  = 1.1
	highSuccessRate    = 0.8
	lowSuccessRate     = 0.2
)

// Agent is the top-level learning façade.
type Agent struct {
	cfg     *config.Config
	catalog *action.Catalog
	env     *env.Environment

	policy    *model.Network
	value     *model.Network
	policyOpt *model.Adam
	valueOpt  *model.Adam

	buffer          *replay.Buffer
	explorationRate float64
	stats           *Stats

	rng    *rand.Rand
	logger *slog.Logger
	now    func() time.Time
}

// New constructs an agent from a validated configuration. Missing or
// invalid hyperparameters are fatal here; nothing downstream re-checks
// them.
func New(cfg *config.Config, logger *slog.Logger) (*Agent, error) {
	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_VALIDATION_FAILED,
			"agent requires a valid configuration", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	seed := cfg.Core.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	catalog := action.NewCatalog()

	environment := env.New(env.Params{
		MaxSteps:         cfg.Environment.MaxSteps,
		RewardSuccess:    cfg.Environment.RewardSuccess,
		RewardFailure:    cfg.Environment.RewardFailure,
		RewardDiscovery:  cfg.Environment.RewardDiscovery,
		RewardEscalation: cfg.Environment.RewardEscalation,
	}, catalog, rng, logger)

	policy := model.NewNetwork(model.Config{
		InputSize:  encoding.FeatureSize,
		HiddenSize: cfg.AI.HiddenSize,
		OutputSize: catalog.Size(),
		Softmax:    true,
	}, rng)

	// The value head reuses the same architecture with a single raw
	// output; it is a pure state-to-scalar map.
	value := model.NewNetwork(model.Config{
		InputSize:  encoding.FeatureSize,
		HiddenSize: cfg.AI.HiddenSize,
		OutputSize: 1,
	}, rng)

	a := &Agent{
		cfg:             cfg,
		catalog:         catalog,
		env:             environment,
		policy:          policy,
		value:           value,
		policyOpt:       model.NewAdam(cfg.AI.LearningRate),
		valueOpt:        model.NewAdam(cfg.AI.LearningRate),
		buffer:          replay.NewBuffer(cfg.AI.MemorySize, rng),
		explorationRate: cfg.AI.ExplorationRate,
		stats:           NewStats(),
		rng:             rng,
		logger:          logger,
		now:             time.Now,
	}

	logger.Info("agent initialized",
		"actions", catalog.Size(),
		"features", encoding.FeatureSize,
		"hidden_size", cfg.AI.HiddenSize,
		"memory_size", cfg.AI.MemorySize,
		"exploration_rate", a.explorationRate)

	return a, nil
}

// Catalog returns the agent's action catalog.
func (a *Agent) Catalog() *action.Catalog {
	return a.catalog
}

// ExplorationRate returns the current exploration rate.
func (a *Agent) ExplorationRate() float64 {
	return a.explorationRate
}

// SelectAction picks the next action for the given state: with probability
// equal to the exploration rate a uniformly random action, otherwise the
// highest-probability action under the policy (first maximum wins on ties).
func (a *Agent) SelectAction(state types.ObservableState) (action.Descriptor, error) {
	id, desc, err := a.selectAction(state)
	if err != nil {
		return action.Descriptor{}, err
	}
	a.logger.Debug("action selected", "action", desc.Name, "id", id)
	return desc, nil
}

func (a *Agent) selectAction(state types.ObservableState) (int, action.Descriptor, error) {
	if a.rng.Float64() < a.explorationRate {
		id := a.rng.Intn(a.catalog.Size())
		return id, a.catalog.Get(id), nil
	}

	probs, err := a.policy.Forward(encoding.Encode(state))
	if err != nil {
		return 0, action.Descriptor{}, err
	}

	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return best, a.catalog.Get(best), nil
}

// ActionConfidence returns the maximum probability mass the policy assigns
// to any action for the given state. A heuristic, not a calibrated
// confidence.
func (a *Agent) ActionConfidence(state types.ObservableState) (float64, error) {
	probs, err := a.policy.Forward(encoding.Encode(state))
	if err != nil {
		return 0, err
	}

	maxP := probs[0]
	for _, p := range probs[1:] {
		if p > maxP {
			maxP = p
		}
	}
	return maxP, nil
}

// UpdateModel records one (state, reward) experience and, once the buffer
// holds at least a full batch, runs one training step. A buffer smaller
// than the batch size is not an error; training is simply skipped.
func (a *Agent) UpdateModel(state types.ObservableState, reward float64) error {
	a.buffer.Append(state, reward, a.now())

	if a.buffer.Len() < a.cfg.AI.BatchSize {
		return nil
	}
	return a.trainStep()
}

// AdjustExplorationRate adapts the exploration rate to the observed
// success rate: high success decays exploration toward a floor, low
// success grows it toward a ceiling. Purely reactive, no smoothing.
func (a *Agent) AdjustExplorationRate(successRate float64) {
	switch {
	case successRate > highSuccessRate:
		a.explorationRate = max(explorationFloor, a.explorationRate*explorationDecay)
	case successRate < lowSuccessRate:
		a.explorationRate = min(explorationCeiling, a.explorationRate*explorationGrowth)
	}

	a.logger.Debug("exploration rate adjusted",
		"success_rate", successRate,
		"exploration_rate", a.explorationRate)
}

// EpisodeResult summarizes one training episode.
type EpisodeResult struct {
	ID          types.ID `json:"id"`
	TotalReward float64  `json:"total_reward"`
	Steps       int      `json:"steps"`
	Success     bool     `json:"success"`
	SuccessRate float64  `json:"success_rate"`
	Actions     []string `json:"actions"`
}

// TrainEpisode runs one full episode against the simulated environment:
// reset, then select-step-update until termination or maxSteps. The
// episode outcome is folded into the agent's running statistics.
func (a *Agent) TrainEpisode(maxSteps int) (EpisodeResult, error) {
	if maxSteps <= 0 {
		maxSteps = a.env.MaxSteps()
	}

	state := a.env.Reset()
	totalReward := 0.0
	steps := 0
	var actions []string

	for i := 0; i < maxSteps; i++ {
		id, desc, err := a.selectAction(state)
		if err != nil {
			return EpisodeResult{}, err
		}
		actions = append(actions, desc.Name)

		result, err := a.env.Step(id)
		if err != nil {
			return EpisodeResult{}, err
		}

		// The experience pairs the pre-step state with the reward the
		// step produced.
		if err := a.UpdateModel(state, result.Reward); err != nil {
			return EpisodeResult{}, err
		}

		totalReward += result.Reward
		state = result.State
		steps = i + 1

		if result.Done {
			break
		}
	}

	success := totalReward > successRewardThreshold
	a.stats.RecordEpisode(totalReward, success)

	result := EpisodeResult{
		ID:          types.NewID(),
		TotalReward: totalReward,
		Steps:       steps,
		Success:     success,
		SuccessRate: a.stats.SuccessRate(),
		Actions:     actions,
	}

	a.logger.Info("episode complete",
		"episode", a.stats.TotalEpisodes(),
		"reward", totalReward,
		"steps", steps,
		"success", success,
		"success_rate", result.SuccessRate)

	return result, nil
}

// PerformanceStats returns the agent's accumulated statistics.
func (a *Agent) PerformanceStats() PerformanceStats {
	return a.stats.Snapshot()
}
