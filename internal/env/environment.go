// Package env implements the simulated attack environment: a state machine
// that models one penetration-test episode against a synthetic target and
// emits the reward signal the agent learns from.
package env

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/zero-day-ai/strider/internal/action"
	"github.com/zero-day-ai/strider/internal/types"
)

// Params are the environment knobs consumed from configuration.
type Params struct {
	MaxSteps         int
	RewardSuccess    float64
	RewardFailure    float64
	RewardDiscovery  float64
	RewardEscalation float64
}

// DefaultParams returns the stock reward constants and episode cap.
func DefaultParams() Params {
	return Params{
		MaxSteps:         1000,
		RewardSuccess:    100,
		RewardFailure:    -10,
		RewardDiscovery:  5,
		RewardEscalation: 50,
	}
}

// escalationSuccessProb is the chance a privilege escalation attempt from
// user or admin access reaches root.
const escalationSuccessProb = 0.3

// StepInfo carries the per-action outcome details alongside the reward.
// Fields are only meaningful for the action that produced them.
type StepInfo struct {
	Action               string `json:"action"`
	Success              bool   `json:"success"`
	DiscoveredPorts      int    `json:"discovered_ports,omitempty"`
	DiscoveredServices   int    `json:"discovered_services,omitempty"`
	VulnerabilitiesFound int    `json:"vulnerabilities_found,omitempty"`
	WebPagesFound        int    `json:"web_pages_found,omitempty"`
	ExploitSuccessful    bool   `json:"exploit_successful,omitempty"`
	EscalationSuccessful bool   `json:"escalation_successful,omitempty"`
	DataExfiltrated      bool   `json:"data_exfiltrated,omitempty"`
}

// StepResult is the full outcome of one environment transition.
type StepResult struct {
	State  types.ObservableState
	Reward float64
	Done   bool
	Info   StepInfo
}

// Environment simulates one attack episode at a time. It is not safe for
// concurrent use; a single agent drives it from a single goroutine.
type Environment struct {
	params  Params
	catalog *action.Catalog
	rng     *rand.Rand
	logger  *slog.Logger

	stepCount       int
	target          *TargetInfo
	discoveredVulns []types.Vulnerability
	exploits        []string
	accessLevel     types.AccessLevel
}

// New creates an environment with the given parameters and a seedable
// random source. All stochastic transitions (target generation, escalation
// rolls, crawl yields) draw from rng only, so a fixed seed reproduces a run.
func New(params Params, catalog *action.Catalog, rng *rand.Rand, logger *slog.Logger) *Environment {
	if logger == nil {
		logger = slog.Default()
	}
	return &Environment{
		params:      params,
		catalog:     catalog,
		rng:         rng,
		logger:      logger,
		accessLevel: types.AccessNone,
	}
}

// Reset discards any prior episode, generates a fresh random target and
// returns the initial observable state.
func (e *Environment) Reset() types.ObservableState {
	e.stepCount = 0
	e.discoveredVulns = nil
	e.exploits = nil
	e.accessLevel = types.AccessNone
	e.target = generateTarget(e.rng)

	e.logger.Debug("environment reset",
		"hostname", e.target.Hostname,
		"open_ports", len(e.target.OpenPorts),
		"vulnerabilities", len(e.target.Vulnerabilities))

	return e.observe()
}

// ResetWithTarget is Reset with a caller-supplied target instead of a
// random one. Used to replay known scenarios deterministically.
func (e *Environment) ResetWithTarget(target *TargetInfo) types.ObservableState {
	e.stepCount = 0
	e.discoveredVulns = nil
	e.exploits = nil
	e.accessLevel = types.AccessNone
	e.target = target

	return e.observe()
}

// VulnerabilityCount returns the number of vulnerabilities on the current
// episode's target.
func (e *Environment) VulnerabilityCount() int {
	if e.target == nil {
		return 0
	}
	return len(e.target.Vulnerabilities)
}

// MaxSteps returns the configured per-episode step cap.
func (e *Environment) MaxSteps() int {
	return e.params.MaxSteps
}

// Step executes one action against the current target, advances the episode
// and returns the resulting state, reward and termination signal. The
// action id must be valid for the catalog and Reset must have been called.
func (e *Environment) Step(actionID int) (StepResult, error) {
	if e.target == nil {
		return StepResult{}, types.NewError(types.ENV_NOT_RESET, "step called before reset")
	}
	if !e.catalog.Contains(actionID) {
		return StepResult{}, types.NewError(types.ACTION_INVALID,
			fmt.Sprintf("action id %d out of range [0, %d)", actionID, e.catalog.Size()))
	}

	e.stepCount++

	desc := e.catalog.Get(actionID)
	reward, info := e.execute(desc)

	result := StepResult{
		State:  e.observe(),
		Reward: reward,
		Done:   e.episodeDone(),
		Info:   info,
	}

	e.logger.Debug("environment step",
		"action", desc.Name,
		"success", info.Success,
		"reward", reward,
		"done", result.Done)

	return result, nil
}

// execute dispatches on the action name to the matching outcome rule and
// mutates episode state accordingly.
func (e *Environment) execute(desc action.Descriptor) (float64, StepInfo) {
	info := StepInfo{Action: desc.Name}

	switch desc.Name {
	case action.PortScan:
		info.Success = true
		info.DiscoveredPorts = len(e.target.OpenPorts)
		return e.params.RewardDiscovery, info

	case action.ServiceDetection:
		info.Success = true
		for _, port := range e.target.OpenPorts {
			if name, ok := wellKnownServices[port]; ok {
				e.target.Services[port] = name
			}
		}
		info.DiscoveredServices = len(e.target.Services)
		return e.params.RewardDiscovery, info

	case action.WebCrawl:
		if e.target.HasOpenPort(80) || e.target.HasOpenPort(443) {
			info.Success = true
			info.WebPagesFound = 1 + e.rng.Intn(9)
			return e.params.RewardDiscovery, info
		}
		return e.params.RewardFailure, info

	case action.VulnerabilityScan:
		info.Success = true
		info.VulnerabilitiesFound = len(e.target.Vulnerabilities)
		e.discoveredVulns = append(e.discoveredVulns, e.target.Vulnerabilities...)
		return e.params.RewardDiscovery, info

	case action.SQLInjectionTest:
		if e.target.HasVulnerability("SQL Injection") {
			info.Success = true
			info.ExploitSuccessful = true
			e.exploits = append(e.exploits, "SQL Injection")
			e.accessLevel = e.accessLevel.Max(types.AccessUser)
			return e.params.RewardSuccess, info
		}
		return e.params.RewardFailure, info

	case action.XSSTest:
		if e.target.HasVulnerability("XSS") {
			info.Success = true
			info.ExploitSuccessful = true
			e.exploits = append(e.exploits, "XSS")
			return e.params.RewardSuccess, info
		}
		return e.params.RewardFailure, info

	case action.WeakCredentials:
		if e.target.HasVulnerability("Weak Passwords") {
			info.Success = true
			info.ExploitSuccessful = true
			e.exploits = append(e.exploits, "Weak Passwords")
			e.accessLevel = e.accessLevel.Max(types.AccessUser)
			return e.params.RewardSuccess, info
		}
		return e.params.RewardFailure, info

	case action.PrivilegeEscalation:
		if e.accessLevel == types.AccessUser || e.accessLevel == types.AccessAdmin {
			if e.rng.Float64() < escalationSuccessProb {
				info.Success = true
				info.EscalationSuccessful = true
				e.accessLevel = types.AccessRoot
				return e.params.RewardEscalation, info
			}
		}
		return e.params.RewardFailure, info

	case action.DataExfiltration:
		if e.accessLevel.AtLeast(types.AccessAdmin) {
			info.Success = true
			info.DataExfiltrated = true
			return e.params.RewardSuccess * 2, info
		}
		return e.params.RewardFailure, info
	}

	// Actions with no modelled outcome (dns_enumeration) are a neutral no-op.
	return 0, info
}

// observe rebuilds the read-only state projection from episode internals.
func (e *Environment) observe() types.ObservableState {
	return types.ObservableState{
		IPResolved:      e.target.Address != "",
		DiscoveredPorts: len(e.target.OpenPorts),
		DiscoveredSvcs:  len(e.target.Services),
		FoundVulns:      len(e.discoveredVulns),
		SuccessfulExpls: len(e.exploits),
		AccessLevel:     e.accessLevel,
		CurrentPhase:    e.phase(),
		Step:            e.stepCount,
	}
}

// phase derives the episode phase from discovery and exploitation progress.
func (e *Environment) phase() types.Phase {
	switch {
	case len(e.discoveredVulns) == 0:
		return types.PhaseReconnaissance
	case len(e.exploits) == 0:
		return types.PhaseVulnerability
	case e.accessLevel == types.AccessNone || e.accessLevel == types.AccessUser:
		return types.PhaseExploitation
	default:
		return types.PhaseEscalation
	}
}

// episodeDone checks the three termination conditions: step cap reached,
// root access achieved, or every target vulnerability exploited.
func (e *Environment) episodeDone() bool {
	if e.stepCount >= e.params.MaxSteps {
		return true
	}
	if e.accessLevel == types.AccessRoot {
		return true
	}
	if len(e.exploits) >= len(e.target.Vulnerabilities) {
		return true
	}
	return false
}
