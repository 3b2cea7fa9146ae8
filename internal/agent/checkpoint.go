package agent

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zero-day-ai/strider/internal/model"
	"github.com/zero-day-ai/strider/internal/types"
)

// CheckpointVersion is the checkpoint serialization format version.
// Incremented whenever the checkpointData layout changes incompatibly.
const CheckpointVersion = 1

// checkpointEnvelope wraps the serialized agent state with version and
// integrity information.
type checkpointEnvelope struct {
	Version  int             `json:"version"`
	Checksum string          `json:"checksum"`
	Data     json.RawMessage `json:"data"`
}

// checkpointData is the complete persisted agent state: both models, both
// optimizers, the exploration rate and the episode statistics.
type checkpointData struct {
	ID                 types.ID           `json:"id"`
	SavedAt            time.Time          `json:"saved_at"`
	ExplorationRate    float64            `json:"exploration_rate"`
	Policy             model.NetworkState `json:"policy"`
	Value              model.NetworkState `json:"value"`
	PolicyOpt          model.AdamState    `json:"policy_optimizer"`
	ValueOpt           model.AdamState    `json:"value_optimizer"`
	EpisodeRewards     []float64          `json:"episode_rewards"`
	SuccessfulEpisodes int                `json:"successful_episodes"`
	TotalEpisodes      int                `json:"total_episodes"`
}

// computeChecksum returns the hex-encoded SHA256 digest of the serialized
// checkpoint data.
func computeChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// SaveCheckpoint persists the full agent state to path. The file is
// written to a temporary sibling and renamed into place so a crash
// mid-write never leaves a truncated checkpoint behind.
func (a *Agent) SaveCheckpoint(path string) error {
	data := checkpointData{
		ID:                 types.NewID(),
		SavedAt:            a.now(),
		ExplorationRate:    a.explorationRate,
		Policy:             a.policy.Snapshot(),
		Value:              a.value.Snapshot(),
		PolicyOpt:          a.policyOpt.Snapshot(),
		ValueOpt:           a.valueOpt.Snapshot(),
		EpisodeRewards:     a.stats.rewardHistory(),
		SuccessfulEpisodes: a.stats.successfulEpisodes,
		TotalEpisodes:      a.stats.totalEpisodes,
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return types.WrapError(types.CHECKPOINT_WRITE_FAILED,
			"failed to serialize checkpoint", err)
	}

	envelope := checkpointEnvelope{
		Version:  CheckpointVersion,
		Checksum: computeChecksum(raw),
		Data:     raw,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return types.WrapError(types.CHECKPOINT_WRITE_FAILED,
			"failed to serialize checkpoint envelope", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return types.WrapError(types.CHECKPOINT_WRITE_FAILED,
				"failed to create checkpoint directory", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return types.WrapError(types.CHECKPOINT_WRITE_FAILED,
			"failed to write checkpoint file", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return types.WrapError(types.CHECKPOINT_WRITE_FAILED,
			"failed to finalize checkpoint file", err)
	}

	a.logger.Info("checkpoint saved",
		"path", path,
		"episodes", data.TotalEpisodes,
		"checksum", envelope.Checksum[:12])

	return nil
}

// LoadCheckpoint restores the full agent state from path. Validation
// happens before any mutation, and every restore is rolled back if a later
// one fails, so a bad checkpoint never leaves the agent half-updated.
func (a *Agent) LoadCheckpoint(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return types.WrapError(types.CHECKPOINT_READ_FAILED,
			"failed to read checkpoint file", err)
	}

	var envelope checkpointEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return types.WrapError(types.CHECKPOINT_DECODE_FAILED,
			"failed to decode checkpoint envelope", err)
	}

	if envelope.Version > CheckpointVersion || envelope.Version < 1 {
		return types.NewError(types.CHECKPOINT_VERSION_INVALID,
			fmt.Sprintf("checkpoint version %d is not supported (current version %d)",
				envelope.Version, CheckpointVersion))
	}

	if envelope.Checksum == "" {
		return types.NewError(types.CHECKPOINT_CORRUPT, "checkpoint has no checksum")
	}
	if computed := computeChecksum(envelope.Data); computed != envelope.Checksum {
		return types.NewError(types.CHECKPOINT_CORRUPT,
			fmt.Sprintf("checksum mismatch: expected %s, got %s", envelope.Checksum, computed))
	}

	var data checkpointData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return types.WrapError(types.CHECKPOINT_DECODE_FAILED,
			"failed to decode checkpoint data", err)
	}

	// Snapshot the live state so a shape mismatch partway through the
	// restore can be undone.
	prevPolicy := a.policy.Snapshot()
	prevValue := a.value.Snapshot()
	prevPolicyOpt := a.policyOpt.Snapshot()
	prevValueOpt := a.valueOpt.Snapshot()

	if err := a.restoreModels(data); err != nil {
		a.policy.Restore(prevPolicy)
		a.value.Restore(prevValue)
		a.policyOpt.Restore(prevPolicyOpt)
		a.valueOpt.Restore(prevValueOpt)
		return err
	}

	a.explorationRate = data.ExplorationRate
	a.stats.restore(data.EpisodeRewards, data.SuccessfulEpisodes, data.TotalEpisodes)

	a.logger.Info("checkpoint loaded",
		"path", path,
		"episodes", data.TotalEpisodes,
		"saved_at", data.SavedAt,
		"exploration_rate", data.ExplorationRate)

	return nil
}

func (a *Agent) restoreModels(data checkpointData) error {
	if err := a.policy.Restore(data.Policy); err != nil {
		return types.WrapError(types.CHECKPOINT_DECODE_FAILED,
			"checkpoint policy state does not fit the model", err)
	}
	if err := a.value.Restore(data.Value); err != nil {
		return types.WrapError(types.CHECKPOINT_DECODE_FAILED,
			"checkpoint value state does not fit the model", err)
	}
	if err := a.policyOpt.Restore(data.PolicyOpt); err != nil {
		return types.WrapError(types.CHECKPOINT_DECODE_FAILED,
			"checkpoint policy optimizer state is invalid", err)
	}
	if err := a.valueOpt.Restore(data.ValueOpt); err != nil {
		return types.WrapError(types.CHECKPOINT_DECODE_FAILED,
			"checkpoint value optimizer state is invalid", err)
	}
	return nil
}
