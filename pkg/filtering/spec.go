package filtering

// Operator selects how the server matches a filter value against its column.
type Operator string

const (
	OperatorIn       Operator = "in"
	OperatorBetween  Operator = "between"
	OperatorBy       Operator = "by"
	OperatorContains Operator = "contains"
	OperatorEquals   Operator = "equals"
	OperatorLt       Operator = "lt"
)

// KnownOperator reports whether op is one of the protocol operators.
func KnownOperator(op Operator) bool {
	switch op {
	case OperatorIn, OperatorBetween, OperatorBy, OperatorContains, OperatorEquals, OperatorLt:
		return true
	}
	return false
}

// Spec is one named filter slot. Value is typically a string or a []string;
// a nil Value marks the slot inert and keeps it out of encoded tokens.
// Explicit zero values (false, 0, "") are real values and do encode.
type Spec struct {
	Name     string
	Column   string
	Operator Operator
	Value    any
}

// Active reports whether the slot carries a value. The check is strictly
// against nil, never against zero values.
func (s Spec) Active() bool {
	return s.Value != nil
}

// SortSpec describes a single sort slot. Value is "asc", "desc", or empty;
// empty marks the slot inert.
type SortSpec struct {
	Name   string
	Column string
	Value  string
}

// Active reports whether the sort slot is set.
func (s SortSpec) Active() bool {
	return s.Value != ""
}

const (
	// SortAscending and SortDescending are the only encodable sort values.
	SortAscending  = "asc"
	SortDescending = "desc"

	// SlotSortBy is the single slot name used by the default sort catalog.
	SlotSortBy = "Sort By"

	// SlotSearchText is the slot the search box commits into.
	SlotSearchText = "SearchText"
)
