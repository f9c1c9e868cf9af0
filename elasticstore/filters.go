package elasticstore

import (
	"github.com/ideascout/vectorsearch/vectorstore"
)

// buildFilterClauses converts the backend-agnostic conditions to
// Elasticsearch bool-filter clauses. All clauses are combined with AND
// logic by the surrounding bool query. Conditions that cannot be expressed
// are skipped, not rejected, matching the permissive contract of the store
// interface.
//
// String equality uses the .keyword sub-field so values match exactly
// instead of going through the analyzer.
func buildFilterClauses(conditions []vectorstore.FilterCondition) []map[string]any {
	var clauses []map[string]any
	for _, c := range conditions {
		if clause := convertCondition(c); clause != nil {
			clauses = append(clauses, clause)
		}
	}
	return clauses
}

func convertCondition(c vectorstore.FilterCondition) map[string]any {
	switch cond := c.(type) {
	case *vectorstore.MatchCondition:
		if cond.Value == nil {
			return nil
		}
		return map[string]any{"term": map[string]any{termField(cond.Field, cond.Value): cond.Value}}
	case *vectorstore.MatchAnyCondition:
		if len(cond.Values) == 0 {
			return nil
		}
		return map[string]any{"terms": map[string]any{termField(cond.Field, cond.Values[0]): cond.Values}}
	case *vectorstore.NumericRangeCondition:
		return convertNumericRange(cond)
	default:
		return nil
	}
}

func convertNumericRange(c *vectorstore.NumericRangeCondition) map[string]any {
	bounds := map[string]any{}
	if c.Range.Gt != nil {
		bounds["gt"] = *c.Range.Gt
	}
	if c.Range.Gte != nil {
		bounds["gte"] = *c.Range.Gte
	}
	if c.Range.Lt != nil {
		bounds["lt"] = *c.Range.Lt
	}
	if c.Range.Lte != nil {
		bounds["lte"] = *c.Range.Lte
	}
	if len(bounds) == 0 {
		return nil
	}
	return map[string]any{"range": map[string]any{metadataField(c.Field): bounds}}
}

// metadataField returns the document path of a user metadata field.
func metadataField(field string) string {
	return "metadata." + field
}

// termField returns the path used for exact term matching; dynamic string
// mappings get a .keyword sub-field, everything else matches directly.
func termField(field string, sample any) string {
	if _, ok := sample.(string); ok {
		return metadataField(field) + ".keyword"
	}
	return metadataField(field)
}
