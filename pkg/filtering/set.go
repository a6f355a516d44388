package filtering

// Set is an insertion-ordered collection of filter slots keyed by name. Sets
// are produced fresh from a Catalog per list view; callers mutate them only
// through Apply/ApplyColumn so every change funnels through one place before
// it is re-encoded.
type Set struct {
	names []string
	specs map[string]Spec
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{specs: make(map[string]Spec)}
}

// Put inserts or replaces a slot. A replaced slot keeps its original
// position; a new slot appends.
func (s *Set) Put(spec Spec) {
	if spec.Name == "" {
		return
	}
	if _, exists := s.specs[spec.Name]; !exists {
		s.names = append(s.names, spec.Name)
	}
	s.specs[spec.Name] = spec
}

// Apply sets the value of an existing slot. It reports whether the slot was
// present; unknown names are left untouched so screens cannot invent slots
// outside their catalog.
func (s *Set) Apply(name string, value any) bool {
	spec, ok := s.specs[name]
	if !ok {
		return false
	}
	spec.Value = value
	s.specs[name] = spec
	return true
}

// ApplyColumn sets both the target column and the value of an existing slot.
// Screens use it for slots whose server column varies per view.
func (s *Set) ApplyColumn(name, column string, value any) bool {
	spec, ok := s.specs[name]
	if !ok {
		return false
	}
	spec.Column = column
	spec.Value = value
	s.specs[name] = spec
	return true
}

// Get returns the named slot.
func (s *Set) Get(name string) (Spec, bool) {
	spec, ok := s.specs[name]
	return spec, ok
}

// Value returns the named slot's value, or nil when absent or inert.
func (s *Set) Value(name string) any {
	return s.specs[name].Value
}

// Names returns the slot names in insertion order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Active returns the slots carrying values, in insertion order.
func (s *Set) Active() []Spec {
	out := make([]Spec, 0, len(s.names))
	for _, name := range s.names {
		if spec := s.specs[name]; spec.Active() {
			out = append(out, spec)
		}
	}
	return out
}

// Len reports the number of slots, active or not.
func (s *Set) Len() int {
	return len(s.names)
}

// Clone returns an independent copy preserving order.
func (s *Set) Clone() *Set {
	out := &Set{
		names: append([]string(nil), s.names...),
		specs: make(map[string]Spec, len(s.specs)),
	}
	for name, spec := range s.specs {
		out.specs[name] = spec
	}
	return out
}

// SortSet is the sort counterpart of Set.
type SortSet struct {
	names []string
	specs map[string]SortSpec
}

// NewSortSet returns an empty sort set.
func NewSortSet() *SortSet {
	return &SortSet{specs: make(map[string]SortSpec)}
}

// DefaultSortSet returns a fresh single-slot set holding the inert
// "Sort By" slot. A new value is built on every call so views never share
// state through the defaults.
func DefaultSortSet() *SortSet {
	s := NewSortSet()
	s.Put(SortSpec{Name: SlotSortBy})
	return s
}

// Put inserts or replaces a sort slot, keeping insertion order.
func (s *SortSet) Put(spec SortSpec) {
	if spec.Name == "" {
		return
	}
	if _, exists := s.specs[spec.Name]; !exists {
		s.names = append(s.names, spec.Name)
	}
	s.specs[spec.Name] = spec
}

// Apply sets the column and direction of an existing slot.
func (s *SortSet) Apply(name, column, value string) bool {
	spec, ok := s.specs[name]
	if !ok {
		return false
	}
	spec.Column = column
	spec.Value = value
	s.specs[name] = spec
	return true
}

// Get returns the named sort slot.
func (s *SortSet) Get(name string) (SortSpec, bool) {
	spec, ok := s.specs[name]
	return spec, ok
}

// Active returns the sort slots carrying a direction, in insertion order.
func (s *SortSet) Active() []SortSpec {
	out := make([]SortSpec, 0, len(s.names))
	for _, name := range s.names {
		if spec := s.specs[name]; spec.Active() {
			out = append(out, spec)
		}
	}
	return out
}

// Clone returns an independent copy preserving order.
func (s *SortSet) Clone() *SortSet {
	out := &SortSet{
		names: append([]string(nil), s.names...),
		specs: make(map[string]SortSpec, len(s.specs)),
	}
	for name, spec := range s.specs {
		out.specs[name] = spec
	}
	return out
}
