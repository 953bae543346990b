package engine

import "github.com/reoring/xsd2fhir/fhir"

// State is the lifecycle state of a cache entry.
type State int

const (
	// Pending entries are reserved while their members are being flattened.
	Pending State = iota
	// Ready entries hold a complete, immutable definition.
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "pending"
}

// entry is the handle a resolution returns. Identity (key, name, url) is
// known at reservation time so a pending entry can already be referenced.
type entry struct {
	key     string
	name    string
	url     string
	state   State
	def     *fhir.StructureDefinition
	library bool
}

// root returns the backlink of the entry's root element.
func (e *entry) root() fhir.ElementBase {
	if e.def != nil {
		if r := e.def.Root(); r != nil {
			return fhir.ElementBase{Path: r.Path, Min: r.Min, Max: r.Max}
		}
	}
	return fhir.ElementBase{Path: e.name, Min: 0, Max: fhir.Unbounded}
}

// cache maps qualified names to entries. A slot holds either the entry of
// the type itself or, after a collapse, the entry of its base.
type cache struct {
	slots map[string]*entry
	order []string
}

func newCache() *cache {
	return &cache{slots: map[string]*entry{}}
}

func (c *cache) get(key string) (*entry, bool) {
	e, ok := c.slots[key]
	return e, ok
}

// reserve inserts a pending entry for key.
func (c *cache) reserve(key, name, url string) *entry {
	e := &entry{key: key, name: name, url: url, state: Pending}
	c.put(key, e)
	return e
}

// publish moves e to Ready with def.
func (c *cache) publish(e *entry, def *fhir.StructureDefinition) {
	e.def = def
	e.state = Ready
	if _, ok := c.slots[e.key]; !ok {
		c.put(e.key, e)
	}
}

// alias replaces the slot for key with base.
func (c *cache) alias(key string, base *entry) {
	c.put(key, base)
}

func (c *cache) put(key string, e *entry) {
	if _, ok := c.slots[key]; !ok {
		c.order = append(c.order, key)
	}
	c.slots[key] = e
}

// definitions returns the distinct generated definitions in slot order.
func (c *cache) definitions() []*fhir.StructureDefinition {
	seen := map[*fhir.StructureDefinition]bool{}
	var out []*fhir.StructureDefinition
	for _, key := range c.order {
		e := c.slots[key]
		if e.library || e.state != Ready || seen[e.def] {
			continue
		}
		seen[e.def] = true
		out = append(out, e.def)
	}
	return out
}
