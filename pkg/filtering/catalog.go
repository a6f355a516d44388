package filtering

import (
	"embed"
	"fmt"
	"sync"
)

//go:embed data/default_catalog.yaml
var dataFS embed.FS

const defaultCatalogPath = "data/default_catalog.yaml"

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Catalog is an immutable list of filter slot defaults. Every slot starts
// inert; screens only ever set values (and occasionally columns) on the sets
// a catalog produces.
type Catalog struct {
	id    string
	slots []Spec
	index map[string]int
}

// NewCatalog builds a catalog from slot defaults. Slot values are discarded,
// duplicate or empty names are errors.
func NewCatalog(id string, slots ...Spec) (*Catalog, error) {
	c := &Catalog{
		id:    id,
		slots: make([]Spec, 0, len(slots)),
		index: make(map[string]int, len(slots)),
	}
	for _, slot := range slots {
		if slot.Name == "" {
			return nil, fmt.Errorf("filtering: catalog %q contains a slot with an empty name", id)
		}
		if _, exists := c.index[slot.Name]; exists {
			return nil, fmt.Errorf("filtering: catalog %q defines duplicate slot %q", id, slot.Name)
		}
		slot.Value = nil
		c.index[slot.Name] = len(c.slots)
		c.slots = append(c.slots, slot)
	}
	return c, nil
}

// ID returns the catalog identifier.
func (c *Catalog) ID() string {
	if c == nil {
		return ""
	}
	return c.id
}

// Len reports the number of slots.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.slots)
}

// Names returns the slot names in catalog order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.slots))
	for i, slot := range c.slots {
		out[i] = slot.Name
	}
	return out
}

// Has reports whether the catalog defines the named slot.
func (c *Catalog) Has(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[name]
	return ok
}

// NewSet materialises a fresh, fully inert set with every catalog slot. A new
// set is built on every call; catalogs never hand out shared state.
func (c *Catalog) NewSet() *Set {
	set := NewSet()
	if c == nil {
		return set
	}
	for _, slot := range c.slots {
		set.Put(slot)
	}
	return set
}

// ApplyDefaults returns a fresh set containing every catalog slot, with slots
// present in overrides replacing their matching defaults. Override slots
// whose names the catalog does not define are appended, preserving whatever a
// token carried.
func ApplyDefaults(catalog *Catalog, overrides *Set) *Set {
	set := catalog.NewSet()
	if overrides == nil {
		return set
	}
	for _, name := range overrides.Names() {
		spec, _ := overrides.Get(name)
		set.Put(spec)
	}
	return set
}

// DefaultCatalog returns the built-in practice-management slot catalog parsed
// from the embedded document. The result is shared and immutable; use NewSet
// for per-view state.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		data, err := dataFS.ReadFile(defaultCatalogPath)
		if err != nil {
			defaultErr = err
			return
		}
		catalog, err := parseCatalogDocument(data, defaultCatalogPath)
		if err != nil {
			defaultErr = err
			return
		}
		defaultCatalog = catalog
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("filtering: embedded catalog: %v", defaultErr))
	}
	return defaultCatalog
}
