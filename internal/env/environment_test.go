package env

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/strider/internal/action"
	"github.com/zero-day-ai/strider/internal/types"
)

func newTestEnv(t *testing.T, seed int64) *Environment {
	t.Helper()
	return New(DefaultParams(), action.NewCatalog(), rand.New(rand.NewSource(seed)), nil)
}

// fixedTarget builds a target with a known shape for deterministic scenarios.
func fixedTarget(ports []int, vulns ...types.Vulnerability) *TargetInfo {
	return &TargetInfo{
		Hostname:        "target-1234.example.com",
		Address:         "192.168.1.10",
		OpenPorts:       ports,
		Services:        make(map[int]string),
		Vulnerabilities: vulns,
	}
}

func actionID(t *testing.T, catalog *action.Catalog, name string) int {
	t.Helper()
	for i, d := range catalog.All() {
		if d.Name == name {
			return i
		}
	}
	t.Fatalf("unknown action %q", name)
	return -1
}

func TestEnvironment_Reset(t *testing.T) {
	e := newTestEnv(t, 42)

	for i := 0; i < 20; i++ {
		state := e.Reset()

		assert.Equal(t, 0, state.Step)
		assert.Equal(t, types.AccessNone, state.AccessLevel)
		assert.Equal(t, types.PhaseReconnaissance, state.CurrentPhase)
		assert.True(t, state.IPResolved)
		assert.Zero(t, state.FoundVulns)
		assert.Zero(t, state.SuccessfulExpls)
	}
}

func TestEnvironment_ResetTargetShape(t *testing.T) {
	e := newTestEnv(t, 7)

	for i := 0; i < 50; i++ {
		e.Reset()

		require.GreaterOrEqual(t, len(e.target.OpenPorts), 3)
		require.LessOrEqual(t, len(e.target.OpenPorts), 8)
		require.GreaterOrEqual(t, len(e.target.Vulnerabilities), 1)
		require.LessOrEqual(t, len(e.target.Vulnerabilities), 3)

		// Draws are without replacement.
		seenPorts := make(map[int]bool)
		for _, p := range e.target.OpenPorts {
			assert.False(t, seenPorts[p], "duplicate port %d", p)
			seenPorts[p] = true
		}
		seenVulns := make(map[string]bool)
		for _, v := range e.target.Vulnerabilities {
			assert.False(t, seenVulns[v.Name], "duplicate vulnerability %s", v.Name)
			seenVulns[v.Name] = true
		}
	}
}

func TestEnvironment_StepBeforeReset(t *testing.T) {
	e := newTestEnv(t, 1)

	_, err := e.Step(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.NewError(types.ENV_NOT_RESET, "")))
}

func TestEnvironment_InvalidActionID(t *testing.T) {
	e := newTestEnv(t, 1)
	e.Reset()

	for _, id := range []int{-1, 10, 999} {
		_, err := e.Step(id)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.NewError(types.ACTION_INVALID, "")))
	}
}

func TestEnvironment_PortScan(t *testing.T) {
	e := newTestEnv(t, 3)
	catalog := action.NewCatalog()
	e.Reset()

	result, err := e.Step(actionID(t, catalog, action.PortScan))
	require.NoError(t, err)

	assert.Equal(t, 5.0, result.Reward)
	assert.False(t, result.Done)
	assert.True(t, result.Info.Success)
	assert.Equal(t, len(e.target.OpenPorts), result.Info.DiscoveredPorts)
	assert.Equal(t, 1, result.State.Step)
}

func TestEnvironment_ServiceDetection(t *testing.T) {
	e := newTestEnv(t, 3)
	catalog := action.NewCatalog()
	e.ResetWithTarget(fixedTarget([]int{22, 80, 443},
		types.Vulnerability{Name: "XSS", Severity: "medium", Port: 80}))

	result, err := e.Step(actionID(t, catalog, action.ServiceDetection))
	require.NoError(t, err)

	assert.True(t, result.Info.Success)
	assert.Equal(t, 3, result.Info.DiscoveredServices)
	assert.Equal(t, 3, result.State.DiscoveredSvcs)
	assert.Equal(t, "ssh", e.target.Services[22])
	assert.Equal(t, "https", e.target.Services[443])
}

func TestEnvironment_WebCrawl(t *testing.T) {
	catalog := action.NewCatalog()
	vuln := types.Vulnerability{Name: "Open Port", Severity: "low", Port: 23}

	t.Run("succeeds with web port open", func(t *testing.T) {
		e := newTestEnv(t, 5)
		e.ResetWithTarget(fixedTarget([]int{80, 22}, vuln))

		result, err := e.Step(actionID(t, catalog, action.WebCrawl))
		require.NoError(t, err)
		assert.True(t, result.Info.Success)
		assert.Equal(t, 5.0, result.Reward)
		assert.GreaterOrEqual(t, result.Info.WebPagesFound, 1)
	})

	t.Run("fails without web port", func(t *testing.T) {
		e := newTestEnv(t, 5)
		e.ResetWithTarget(fixedTarget([]int{21, 22, 23}, vuln))

		result, err := e.Step(actionID(t, catalog, action.WebCrawl))
		require.NoError(t, err)
		assert.False(t, result.Info.Success)
		assert.Equal(t, -10.0, result.Reward)
	})
}

func TestEnvironment_SQLInjection(t *testing.T) {
	catalog := action.NewCatalog()

	t.Run("succeeds when vulnerability present", func(t *testing.T) {
		e := newTestEnv(t, 11)
		e.ResetWithTarget(fixedTarget([]int{80},
			types.Vulnerability{Name: "SQL Injection", Severity: "high", Port: 80},
			types.Vulnerability{Name: "XSS", Severity: "medium", Port: 80}))

		result, err := e.Step(actionID(t, catalog, action.SQLInjectionTest))
		require.NoError(t, err)

		assert.True(t, result.Info.ExploitSuccessful)
		assert.Equal(t, 100.0, result.Reward)
		assert.Equal(t, types.AccessUser, result.State.AccessLevel)
		assert.Equal(t, 1, result.State.SuccessfulExpls)
	})

	t.Run("fails when vulnerability absent", func(t *testing.T) {
		e := newTestEnv(t, 11)
		e.ResetWithTarget(fixedTarget([]int{80},
			types.Vulnerability{Name: "XSS", Severity: "medium", Port: 80}))

		result, err := e.Step(actionID(t, catalog, action.SQLInjectionTest))
		require.NoError(t, err)

		assert.False(t, result.Info.Success)
		assert.Equal(t, -10.0, result.Reward)
		assert.Equal(t, types.AccessNone, result.State.AccessLevel)
		assert.Zero(t, result.State.SuccessfulExpls)
	})
}

func TestEnvironment_XSSDoesNotGrantAccess(t *testing.T) {
	e := newTestEnv(t, 13)
	catalog := action.NewCatalog()
	e.ResetWithTarget(fixedTarget([]int{80},
		types.Vulnerability{Name: "XSS", Severity: "medium", Port: 80},
		types.Vulnerability{Name: "Weak Passwords", Severity: "medium", Port: 22}))

	result, err := e.Step(actionID(t, catalog, action.XSSTest))
	require.NoError(t, err)

	assert.True(t, result.Info.ExploitSuccessful)
	assert.Equal(t, 100.0, result.Reward)
	assert.Equal(t, types.AccessNone, result.State.AccessLevel)
}

func TestEnvironment_PrivilegeEscalationWithoutAccess(t *testing.T) {
	e := newTestEnv(t, 17)
	catalog := action.NewCatalog()
	e.ResetWithTarget(fixedTarget([]int{22},
		types.Vulnerability{Name: "Open Port", Severity: "low", Port: 23}))

	id := actionID(t, catalog, action.PrivilegeEscalation)
	for i := 0; i < 50; i++ {
		result, err := e.Step(id)
		require.NoError(t, err)

		assert.Equal(t, -10.0, result.Reward)
		assert.Equal(t, types.AccessNone, result.State.AccessLevel)
	}
}

func TestEnvironment_PrivilegeEscalationFromUser(t *testing.T) {
	e := newTestEnv(t, 19)
	catalog := action.NewCatalog()
	e.ResetWithTarget(fixedTarget([]int{22, 80},
		types.Vulnerability{Name: "Weak Passwords", Severity: "medium", Port: 22},
		types.Vulnerability{Name: "XSS", Severity: "medium", Port: 80},
		types.Vulnerability{Name: "Outdated Software", Severity: "low", Port: 80}))

	_, err := e.Step(actionID(t, catalog, action.WeakCredentials))
	require.NoError(t, err)
	require.Equal(t, types.AccessUser, e.accessLevel)

	// Escalation is a 30% roll; with enough attempts it must eventually
	// land on root, and until then access stays at user.
	id := actionID(t, catalog, action.PrivilegeEscalation)
	reachedRoot := false
	for i := 0; i < 200; i++ {
		result, err := e.Step(id)
		require.NoError(t, err)

		if result.Info.EscalationSuccessful {
			assert.Equal(t, 50.0, result.Reward)
			assert.Equal(t, types.AccessRoot, result.State.AccessLevel)
			assert.True(t, result.Done)
			reachedRoot = true
			break
		}
		assert.Equal(t, -10.0, result.Reward)
		assert.Equal(t, types.AccessUser, result.State.AccessLevel)
	}
	assert.True(t, reachedRoot, "escalation never succeeded in 200 attempts")
}

func TestEnvironment_DataExfiltrationRequiresAdmin(t *testing.T) {
	catalog := action.NewCatalog()

	t.Run("fails from none", func(t *testing.T) {
		e := newTestEnv(t, 23)
		e.ResetWithTarget(fixedTarget([]int{22},
			types.Vulnerability{Name: "Open Port", Severity: "low", Port: 23}))

		result, err := e.Step(actionID(t, catalog, action.DataExfiltration))
		require.NoError(t, err)
		assert.Equal(t, -10.0, result.Reward)
		assert.False(t, result.Info.DataExfiltrated)
	})

	t.Run("fails from user", func(t *testing.T) {
		e := newTestEnv(t, 23)
		e.ResetWithTarget(fixedTarget([]int{22, 80},
			types.Vulnerability{Name: "Weak Passwords", Severity: "medium", Port: 22},
			types.Vulnerability{Name: "XSS", Severity: "medium", Port: 80}))

		_, err := e.Step(actionID(t, catalog, action.WeakCredentials))
		require.NoError(t, err)

		result, err := e.Step(actionID(t, catalog, action.DataExfiltration))
		require.NoError(t, err)
		assert.Equal(t, -10.0, result.Reward)
	})

	t.Run("doubles success reward from root", func(t *testing.T) {
		e := newTestEnv(t, 23)
		e.ResetWithTarget(fixedTarget([]int{22, 80},
			types.Vulnerability{Name: "Weak Passwords", Severity: "medium", Port: 22},
			types.Vulnerability{Name: "XSS", Severity: "medium", Port: 80},
			types.Vulnerability{Name: "Outdated Software", Severity: "low", Port: 80}))

		_, err := e.Step(actionID(t, catalog, action.WeakCredentials))
		require.NoError(t, err)

		e.accessLevel = types.AccessRoot
		result, err := e.Step(actionID(t, catalog, action.DataExfiltration))
		require.NoError(t, err)
		assert.Equal(t, 200.0, result.Reward)
		assert.True(t, result.Info.DataExfiltrated)
	})
}

func TestEnvironment_AccessLevelMonotonic(t *testing.T) {
	e := newTestEnv(t, 29)
	catalog := action.NewCatalog()

	rank := func(a types.AccessLevel) int {
		order := map[types.AccessLevel]int{
			types.AccessNone: 0, types.AccessUser: 1, types.AccessAdmin: 2, types.AccessRoot: 3,
		}
		return order[a]
	}

	rng := rand.New(rand.NewSource(31))
	for episode := 0; episode < 10; episode++ {
		prev := e.Reset().AccessLevel
		for step := 0; step < 100; step++ {
			result, err := e.Step(rng.Intn(catalog.Size()))
			require.NoError(t, err)

			assert.GreaterOrEqual(t, rank(result.State.AccessLevel), rank(prev),
				"access level decreased within an episode")
			prev = result.State.AccessLevel
			if result.Done {
				break
			}
		}
	}
}

func TestEnvironment_PhaseDerivation(t *testing.T) {
	e := newTestEnv(t, 37)
	catalog := action.NewCatalog()
	e.ResetWithTarget(fixedTarget([]int{22, 80},
		types.Vulnerability{Name: "Weak Passwords", Severity: "medium", Port: 22},
		types.Vulnerability{Name: "SQL Injection", Severity: "high", Port: 80},
		types.Vulnerability{Name: "XSS", Severity: "medium", Port: 80}))

	// No discoveries yet.
	result, err := e.Step(actionID(t, catalog, action.PortScan))
	require.NoError(t, err)
	assert.Equal(t, types.PhaseReconnaissance, result.State.CurrentPhase)

	// Discoveries, no exploits.
	result, err = e.Step(actionID(t, catalog, action.VulnerabilityScan))
	require.NoError(t, err)
	assert.Equal(t, types.PhaseVulnerability, result.State.CurrentPhase)

	// Exploits, access at user.
	result, err = e.Step(actionID(t, catalog, action.WeakCredentials))
	require.NoError(t, err)
	assert.Equal(t, types.PhaseExploitation, result.State.CurrentPhase)

	// Root access.
	e.accessLevel = types.AccessRoot
	result, err = e.Step(actionID(t, catalog, action.PortScan))
	require.NoError(t, err)
	assert.Equal(t, types.PhaseEscalation, result.State.CurrentPhase)
}

func TestEnvironment_MaxStepsTermination(t *testing.T) {
	params := DefaultParams()
	params.MaxSteps = 25
	e := New(params, action.NewCatalog(), rand.New(rand.NewSource(41)), nil)
	catalog := action.NewCatalog()

	// A target whose only vulnerabilities cannot all be exploited by port
	// scanning keeps the episode alive until the step cap.
	e.ResetWithTarget(fixedTarget([]int{21, 22},
		types.Vulnerability{Name: "Outdated Software", Severity: "low", Port: 80},
		types.Vulnerability{Name: "Open Port", Severity: "low", Port: 23}))

	id := actionID(t, catalog, action.PortScan)
	for i := 1; i <= 25; i++ {
		result, err := e.Step(id)
		require.NoError(t, err)

		if i < 25 {
			assert.False(t, result.Done, "done before step cap at step %d", i)
		} else {
			assert.True(t, result.Done, "not done at step cap")
		}
	}
}

func TestEnvironment_AllVulnerabilitiesExploitedTerminates(t *testing.T) {
	e := newTestEnv(t, 43)
	catalog := action.NewCatalog()
	e.ResetWithTarget(fixedTarget([]int{80},
		types.Vulnerability{Name: "XSS", Severity: "medium", Port: 80}))

	result, err := e.Step(actionID(t, catalog, action.XSSTest))
	require.NoError(t, err)
	assert.True(t, result.Done)
}

func TestEnvironment_ExploitReplayKeepsDuplicates(t *testing.T) {
	e := newTestEnv(t, 47)
	catalog := action.NewCatalog()
	e.ResetWithTarget(fixedTarget([]int{80},
		types.Vulnerability{Name: "SQL Injection", Severity: "high", Port: 80},
		types.Vulnerability{Name: "XSS", Severity: "medium", Port: 80},
		types.Vulnerability{Name: "Weak Passwords", Severity: "medium", Port: 22}))

	id := actionID(t, catalog, action.SQLInjectionTest)
	_, err := e.Step(id)
	require.NoError(t, err)
	result, err := e.Step(id)
	require.NoError(t, err)

	// Replaying a successful exploit re-records it; the exploit list is a
	// history, not a set.
	assert.Equal(t, 2, result.State.SuccessfulExpls)
	assert.Equal(t, 100.0, result.Reward)
}

func TestEnvironment_Determinism(t *testing.T) {
	run := func(seed int64) []types.ObservableState {
		e := newTestEnv(t, seed)
		catalog := action.NewCatalog()
		states := []types.ObservableState{e.Reset()}
		for i := 0; i < 30; i++ {
			result, err := e.Step(i % catalog.Size())
			require.NoError(t, err)
			states = append(states, result.State)
			if result.Done {
				break
			}
		}
		return states
	}

	assert.Equal(t, run(99), run(99), "same seed must reproduce the same episode")
}
