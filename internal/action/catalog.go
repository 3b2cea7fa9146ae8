// Package action defines the discrete action space available to the
// attack-strategy agent. The catalog is fixed at construction; the index of
// a descriptor in the catalog is its action id.
package action

// Category groups actions by the attack stage they belong to.
type Category string

const (
	CategoryReconnaissance   Category = "reconnaissance"
	CategoryVulnerability    Category = "vulnerability"
	CategoryExploitation     Category = "exploitation"
	CategoryPrivilege        Category = "privilege"
	CategoryPostExploitation Category = "post_exploitation"
)

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// Action names understood by the simulated environment.
const (
	PortScan            = "port_scan"
	ServiceDetection    = "service_detection"
	WebCrawl            = "web_crawl"
	DNSEnumeration      = "dns_enumeration"
	VulnerabilityScan   = "vulnerability_scan"
	SQLInjectionTest    = "sql_injection_test"
	XSSTest             = "xss_test"
	WeakCredentials     = "weak_credentials"
	PrivilegeEscalation = "privilege_escalation"
	DataExfiltration    = "data_exfiltration"
)

// Descriptor describes a single discrete action. Immutable once created.
type Descriptor struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Cost     float64  `json:"cost"`
}

// Catalog is a fixed ordered sequence of action descriptors. The position
// of a descriptor is its action id, in [0, Size()).
type Catalog struct {
	actions []Descriptor
}

// NewCatalog returns the default ten-action catalog spanning all five
// categories, ordered by attack stage.
func NewCatalog() *Catalog {
	return &Catalog{
		actions: []Descriptor{
			{Name: PortScan, Category: CategoryReconnaissance, Cost: 1},
			{Name: ServiceDetection, Category: CategoryReconnaissance, Cost: 1},
			{Name: WebCrawl, Category: CategoryReconnaissance, Cost: 2},
			{Name: DNSEnumeration, Category: CategoryReconnaissance, Cost: 1},
			{Name: VulnerabilityScan, Category: CategoryVulnerability, Cost: 3},
			{Name: SQLInjectionTest, Category: CategoryExploitation, Cost: 5},
			{Name: XSSTest, Category: CategoryExploitation, Cost: 4},
			{Name: WeakCredentials, Category: CategoryExploitation, Cost: 3},
			{Name: PrivilegeEscalation, Category: CategoryPrivilege, Cost: 8},
			{Name: DataExfiltration, Category: CategoryPostExploitation, Cost: 10},
		},
	}
}

// Size returns the number of actions in the catalog.
func (c *Catalog) Size() int {
	return len(c.actions)
}

// Get returns the descriptor for the given action id. Callers must
// validate id against Size(); out-of-range ids panic as a programming error.
func (c *Catalog) Get(id int) Descriptor {
	return c.actions[id]
}

// Contains reports whether id is a valid action id for this catalog.
func (c *Catalog) Contains(id int) bool {
	return id >= 0 && id < len(c.actions)
}

// All returns a defensive copy of the full catalog in id order.
func (c *Catalog) All() []Descriptor {
	out := make([]Descriptor, len(c.actions))
	copy(out, c.actions)
	return out
}
