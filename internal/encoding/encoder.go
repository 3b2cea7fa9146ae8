// Package encoding maps observable episode state to the fixed-length
// feature vectors the policy and value models consume.
package encoding

import "github.com/zero-day-ai/strider/internal/types"

// FeatureSize is the length of every encoded state vector: one ip flag,
// four normalized progress counts, a 4-way access-level one-hot, a 5-way
// phase one-hot and the normalized step counter.
const FeatureSize = 15

// Normalization divisors for the progress counts. Counts are divided, not
// clamped, so a pathological episode can push a component above 1.
const (
	portNorm    = 100.0
	serviceNorm = 50.0
	vulnNorm    = 20.0
	exploitNorm = 10.0
	stepNorm    = 1000.0
)

// accessLevels and phases fix the one-hot component ordering. The phase
// vocabulary includes "initialized" for a state that predates the first
// reset; the environment itself never derives it.
var accessLevels = []types.AccessLevel{
	types.AccessNone,
	types.AccessUser,
	types.AccessAdmin,
	types.AccessRoot,
}

var phases = []types.Phase{
	types.PhaseInitialized,
	types.PhaseReconnaissance,
	types.PhaseVulnerability,
	types.PhaseExploitation,
	types.PhaseEscalation,
}

// Encode deterministically maps state to a FeatureSize-length vector.
func Encode(state types.ObservableState) []float64 {
	features := make([]float64, 0, FeatureSize)

	if state.IPResolved {
		features = append(features, 1.0)
	} else {
		features = append(features, 0.0)
	}

	features = append(features,
		float64(state.DiscoveredPorts)/portNorm,
		float64(state.DiscoveredSvcs)/serviceNorm,
		float64(state.FoundVulns)/vulnNorm,
		float64(state.SuccessfulExpls)/exploitNorm,
	)

	for _, level := range accessLevels {
		if state.AccessLevel == level {
			features = append(features, 1.0)
		} else {
			features = append(features, 0.0)
		}
	}

	for _, phase := range phases {
		if state.CurrentPhase == phase {
			features = append(features, 1.0)
		} else {
			features = append(features, 0.0)
		}
	}

	features = append(features, float64(state.Step)/stepNorm)

	return features
}

// EncodeBatch encodes a slice of states into parallel feature rows.
func EncodeBatch(states []types.ObservableState) [][]float64 {
	rows := make([][]float64, len(states))
	for i, s := range states {
		rows[i] = Encode(s)
	}
	return rows
}
