package env

import (
	"fmt"
	"math/rand"

	"github.com/zero-day-ai/strider/internal/types"
)

// candidatePorts is the fixed pool open ports are drawn from, without
// replacement, at target generation time.
var candidatePorts = []int{21, 22, 23, 25, 53, 80, 110, 143, 443, 3306, 3389, 8080}

// wellKnownServices maps candidate ports to the service name revealed by
// service detection.
var wellKnownServices = map[int]string{
	21:   "ftp",
	22:   "ssh",
	23:   "telnet",
	25:   "smtp",
	53:   "dns",
	80:   "http",
	110:  "pop3",
	143:  "imap",
	443:  "https",
	3306: "mysql",
	3389: "rdp",
	8080: "http-proxy",
}

// vulnerabilityCatalog is the fixed five-archetype pool targets draw their
// weaknesses from, without replacement.
var vulnerabilityCatalog = []types.Vulnerability{
	{Name: "SQL Injection", Severity: "high", Port: 80},
	{Name: "XSS", Severity: "medium", Port: 80},
	{Name: "Weak Passwords", Severity: "medium", Port: 22},
	{Name: "Outdated Software", Severity: "low", Port: 80},
	{Name: "Open Port", Severity: "low", Port: 23},
}

// TargetInfo is one synthetic target, generated fresh on every reset and
// owned exclusively by the environment instance that generated it.
type TargetInfo struct {
	Hostname        string                `json:"hostname"`
	Address         string                `json:"address"`
	OpenPorts       []int                 `json:"open_ports"`
	Services        map[int]string        `json:"services"`
	Vulnerabilities []types.Vulnerability `json:"vulnerabilities"`
}

// HasOpenPort reports whether the given port is open on the target.
func (t *TargetInfo) HasOpenPort(port int) bool {
	for _, p := range t.OpenPorts {
		if p == port {
			return true
		}
	}
	return false
}

// HasVulnerability reports whether the target carries a vulnerability with
// the given name.
func (t *TargetInfo) HasVulnerability(name string) bool {
	for _, v := range t.Vulnerabilities {
		if v.Name == name {
			return true
		}
	}
	return false
}

// generateTarget builds a random synthetic target: 3-8 open ports drawn
// without replacement from the candidate pool and 1-3 vulnerabilities drawn
// without replacement from the archetype catalog. Services start empty;
// they are filled in by service detection during the episode.
func generateTarget(rng *rand.Rand) *TargetInfo {
	portCount := 3 + rng.Intn(6)
	portPerm := rng.Perm(len(candidatePorts))
	ports := make([]int, portCount)
	for i := 0; i < portCount; i++ {
		ports[i] = candidatePorts[portPerm[i]]
	}

	vulnCount := 1 + rng.Intn(3)
	vulnPerm := rng.Perm(len(vulnerabilityCatalog))
	vulns := make([]types.Vulnerability, vulnCount)
	for i := 0; i < vulnCount; i++ {
		vulns[i] = vulnerabilityCatalog[vulnPerm[i]]
	}

	return &TargetInfo{
		Hostname:        fmt.Sprintf("target-%d.example.com", 1000+rng.Intn(9000)),
		Address:         fmt.Sprintf("192.168.%d.%d", 1+rng.Intn(254), 1+rng.Intn(254)),
		OpenPorts:       ports,
		Services:        make(map[int]string),
		Vulnerabilities: vulns,
	}
}
