// Package reward maps recorded penetration-test outcomes to the scalar
// reward the learning agent consumes. It is the boundary adapter between
// real engagement results and the training loop; the simulated
// environment computes its own rewards and never goes through here.
package reward

import "github.com/zero-day-ai/strider/internal/types"

// Reward components for an external test outcome.
const (
	baseReward        = 10.0
	reconReward       = 5.0
	perVulnReward     = 2.0
	exploitReward     = 20.0
	escalationReward  = 30.0
	perFailurePenalty = 1.0
)

// Outcome is one recorded external test result, typically decoded from a
// JSONL results file.
type Outcome struct {
	State types.ObservableState `json:"state"`

	ReconSuccesses  int  `json:"recon_successes"`
	ReconFailures   int  `json:"recon_failures"`
	VulnsFound      int  `json:"vulns_found"`
	ScanFailures    int  `json:"scan_failures"`
	ExploitSuccess  bool `json:"exploit_success"`
	ExploitFailures int  `json:"exploit_failures"`
	Escalated       bool `json:"escalated"`
}

// Calculate maps an outcome to its scalar reward: a base reward for a
// completed test, bonuses for each stage that produced results and a flat
// penalty per recorded failure.
func Calculate(o Outcome) float64 {
	r := baseReward

	if o.ReconSuccesses > 0 {
		r += reconReward
	}
	r += float64(o.VulnsFound) * perVulnReward
	if o.ExploitSuccess {
		r += exploitReward
	}
	if o.Escalated {
		r += escalationReward
	}

	failures := o.ReconFailures + o.ScanFailures + o.ExploitFailures
	r -= float64(failures) * perFailurePenalty

	return r
}
