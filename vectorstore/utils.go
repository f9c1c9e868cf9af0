package vectorstore

// ── Condition Constructors ───────────────────────────────────────────────────

// NewMatch creates an equality condition.
//
// Example:
//
//	vectorstore.NewMatch("category", "SaaS")
func NewMatch(field string, value any) *MatchCondition {
	return &MatchCondition{Field: field, Value: value}
}

// NewMatchAny creates a set-membership condition (IN operator).
//
// Example:
//
//	vectorstore.NewMatchAny("category", "SaaS", "FinTech")
func NewMatchAny(field string, values ...any) *MatchAnyCondition {
	return &MatchAnyCondition{Field: field, Values: values}
}

// NewNumericRange creates a numeric range condition.
//
// Example:
//
//	min, max := 0.5, 0.9
//	vectorstore.NewNumericRange("viability_score", vectorstore.NumericRange{Gte: &min, Lte: &max})
func NewNumericRange(field string, r NumericRange) *NumericRangeCondition {
	return &NumericRangeCondition{Field: field, Range: r}
}

// TruncateResults caps a descending-sorted result slice at limit.
// Shared by adapters that filter or re-score client-side.
func TruncateResults(results []SimilarityResult, limit int) []SimilarityResult {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
