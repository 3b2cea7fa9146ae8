package types

import "time"

// AccessLevel is the ordered privilege tier attained against a target.
// Levels only ever increase within an episode; a failed escalation never
// downgrades the level already held.
type AccessLevel string

const (
	AccessNone  AccessLevel = "none"
	AccessUser  AccessLevel = "user"
	AccessAdmin AccessLevel = "admin"
	AccessRoot  AccessLevel = "root"
)

// accessRank orders access levels for monotonicity comparisons.
var accessRank = map[AccessLevel]int{
	AccessNone:  0,
	AccessUser:  1,
	AccessAdmin: 2,
	AccessRoot:  3,
}

// String returns the string representation of the access level.
func (a AccessLevel) String() string {
	return string(a)
}

// IsValid checks if the access level is one of the four known tiers.
func (a AccessLevel) IsValid() bool {
	_, ok := accessRank[a]
	return ok
}

// AtLeast reports whether a grants at least the privileges of other.
func (a AccessLevel) AtLeast(other AccessLevel) bool {
	return accessRank[a] >= accessRank[other]
}

// Max returns the higher of the two access levels.
func (a AccessLevel) Max(other AccessLevel) AccessLevel {
	if accessRank[other] > accessRank[a] {
		return other
	}
	return a
}

// Phase identifies the stage of an attack episode. PhaseInitialized is part
// of the encoder vocabulary for a freshly constructed, never-reset state;
// the environment itself only ever derives the other four.
type Phase string

const (
	PhaseInitialized    Phase = "initialized"
	PhaseReconnaissance Phase = "reconnaissance"
	PhaseVulnerability  Phase = "vulnerability_scanning"
	PhaseExploitation   Phase = "exploitation"
	PhaseEscalation     Phase = "privilege_escalation"
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// Vulnerability is one weakness present on a synthetic target.
type Vulnerability struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
	Port     int    `json:"port"`
}

// ObservableState is the read-only projection of episode progress handed to
// the agent. It is rebuilt from environment internals on every step and has
// no lifecycle of its own.
type ObservableState struct {
	IPResolved       bool        `json:"ip_resolved"`
	DiscoveredPorts  int         `json:"discovered_ports"`
	DiscoveredSvcs   int         `json:"discovered_services"`
	FoundVulns       int         `json:"found_vulnerabilities"`
	SuccessfulExpls  int         `json:"successful_exploits"`
	AccessLevel      AccessLevel `json:"current_access_level"`
	CurrentPhase     Phase       `json:"current_phase"`
	Step             int         `json:"step"`
}

// Experience is one recorded (state, reward) observation used for training.
type Experience struct {
	State     ObservableState `json:"state"`
	Reward    float64         `json:"reward"`
	Timestamp time.Time       `json:"timestamp"`
}
