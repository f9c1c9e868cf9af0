package vectorstore

// FilterCondition is the interface all metadata filter conditions implement.
// Each backend adapter converts conditions to its native filter format; the
// in-process store evaluates them directly via Matches.
//
// Conditions a backend does not recognize are skipped, not rejected. This
// permissive behavior is deliberate (consumers depend on it) — see DESIGN.md.
type FilterCondition interface {
	// IsFilterCondition is a marker method to ensure type safety
	IsFilterCondition()

	// Matches evaluates the condition against a record's metadata.
	// Used by the in-process store; remote backends filter server-side.
	Matches(metadata map[string]any) bool
}

// MatchCondition is an equality predicate on a scalar metadata value.
type MatchCondition struct {
	Field string `json:"field"`
	Value any    `json:"equalTo"`
}

func (c *MatchCondition) IsFilterCondition() {}

func (c *MatchCondition) Matches(metadata map[string]any) bool {
	// A condition without a value is inert, matching everything.
	if c.Value == nil {
		return true
	}
	v, ok := metadata[c.Field]
	if !ok {
		return false
	}
	return scalarEqual(v, c.Value)
}

// MatchAnyCondition is a set-membership predicate: the metadata value must
// equal one of the candidates.
type MatchAnyCondition struct {
	Field  string `json:"field"`
	Values []any  `json:"anyOf"`
}

func (c *MatchAnyCondition) IsFilterCondition() {}

func (c *MatchAnyCondition) Matches(metadata map[string]any) bool {
	if len(c.Values) == 0 {
		return true
	}
	v, ok := metadata[c.Field]
	if !ok {
		return false
	}
	for _, candidate := range c.Values {
		if scalarEqual(v, candidate) {
			return true
		}
	}
	return false
}

// NumericRange defines bounds for numeric filtering. Nil bounds are open.
type NumericRange struct {
	Gt  *float64 `json:"greaterThan,omitempty"`
	Gte *float64 `json:"greaterThanOrEqualTo,omitempty"`
	Lt  *float64 `json:"lessThan,omitempty"`
	Lte *float64 `json:"lessThanOrEqualTo,omitempty"`
}

// Empty reports whether no bound is set.
func (r NumericRange) Empty() bool {
	return r.Gt == nil && r.Gte == nil && r.Lt == nil && r.Lte == nil
}

// NumericRangeCondition is a numeric range predicate on a metadata value.
type NumericRangeCondition struct {
	Field string       `json:"field"`
	Range NumericRange `json:"range"`
}

func (c *NumericRangeCondition) IsFilterCondition() {}

func (c *NumericRangeCondition) Matches(metadata map[string]any) bool {
	if c.Range.Empty() {
		return true
	}
	v, ok := metadata[c.Field]
	if !ok {
		return false
	}
	n, ok := asFloat64(v)
	if !ok {
		return false
	}
	if c.Range.Gt != nil && !(n > *c.Range.Gt) {
		return false
	}
	if c.Range.Gte != nil && !(n >= *c.Range.Gte) {
		return false
	}
	if c.Range.Lt != nil && !(n < *c.Range.Lt) {
		return false
	}
	if c.Range.Lte != nil && !(n <= *c.Range.Lte) {
		return false
	}
	return true
}

// MatchesAll evaluates a conjunction of conditions against record metadata.
// Nil conditions are skipped.
func MatchesAll(conditions []FilterCondition, metadata map[string]any) bool {
	for _, c := range conditions {
		if c == nil {
			continue
		}
		if !c.Matches(metadata) {
			return false
		}
	}
	return true
}

// scalarEqual compares two scalar values, treating all numeric types as
// float64 so that JSON round-trips (which widen ints) still compare equal.
func scalarEqual(a, b any) bool {
	if na, ok := asFloat64(a); ok {
		nb, ok := asFloat64(b)
		return ok && na == nb
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return false
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
