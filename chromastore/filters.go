package chromastore

import (
	"github.com/ideascout/vectorsearch/vectorstore"
)

// buildWhere converts the backend-agnostic conditions to a Chroma `where`
// document. All conditions are combined with AND logic. Conditions that
// cannot be expressed are skipped, not rejected, matching the permissive
// contract of the store interface.
//
// Chroma expects one operator per field expression, so a range with two
// bounds becomes two $and-ed clauses.
func buildWhere(conditions []vectorstore.FilterCondition) map[string]any {
	var clauses []map[string]any
	for _, c := range conditions {
		clauses = append(clauses, convertCondition(c)...)
	}

	switch len(clauses) {
	case 0:
		return nil
	case 1:
		return clauses[0]
	default:
		and := make([]any, len(clauses))
		for i, cl := range clauses {
			and[i] = cl
		}
		return map[string]any{"$and": and}
	}
}

// convertCondition converts one filter condition to zero or more clauses.
func convertCondition(c vectorstore.FilterCondition) []map[string]any {
	switch cond := c.(type) {
	case *vectorstore.MatchCondition:
		if cond.Value == nil {
			return nil
		}
		return []map[string]any{{cond.Field: map[string]any{"$eq": cond.Value}}}
	case *vectorstore.MatchAnyCondition:
		if len(cond.Values) == 0 {
			return nil
		}
		return []map[string]any{{cond.Field: map[string]any{"$in": cond.Values}}}
	case *vectorstore.NumericRangeCondition:
		return convertNumericRange(cond)
	default:
		return nil
	}
}

func convertNumericRange(c *vectorstore.NumericRangeCondition) []map[string]any {
	var clauses []map[string]any
	if c.Range.Gt != nil {
		clauses = append(clauses, map[string]any{c.Field: map[string]any{"$gt": *c.Range.Gt}})
	}
	if c.Range.Gte != nil {
		clauses = append(clauses, map[string]any{c.Field: map[string]any{"$gte": *c.Range.Gte}})
	}
	if c.Range.Lt != nil {
		clauses = append(clauses, map[string]any{c.Field: map[string]any{"$lt": *c.Range.Lt}})
	}
	if c.Range.Lte != nil {
		clauses = append(clauses, map[string]any{c.Field: map[string]any{"$lte": *c.Range.Lte}})
	}
	return clauses
}
