package qdrantstore

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/ideascout/vectorsearch/vectorstore"
)

// MetadataPayloadPrefix is the payload key user metadata fields are nested
// under. Internal fields (id, text, timestamps) live at the top level.
const MetadataPayloadPrefix = "metadata"

// pointIDNamespace seeds the deterministic UUID derivation for point ids.
// Qdrant accepts only UUIDs or numbers as point ids, while record ids are
// opaque strings, so each external id maps to a stable SHA1-derived UUID
// and the external id itself is stored in the payload.
var pointIDNamespace = uuid.MustParse("8f3c1d6a-52be-4c2f-9d84-3f6b9a40c911")

// derivePointID maps an external record id to a deterministic Qdrant point id.
func derivePointID(id string) *qdrant.PointId {
	return qdrant.NewIDUUID(uuid.NewSHA1(pointIDNamespace, []byte(id)).String())
}

// buildPayload creates a Qdrant payload with separated internal and user
// fields. Internal fields are stored at the top level, user metadata is
// nested under the "metadata" key so filter paths stay unambiguous.
//
// Example result:
//
//	{"id": "idea-42", "text": "...", "metadata": {"category": "SaaS"}}
func buildPayload(rec vectorstore.Record) map[string]any {
	payload := map[string]any{
		"id":         rec.ID,
		"text":       rec.Text,
		"created_at": rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at": rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if len(rec.Metadata) > 0 {
		payload[MetadataPayloadPrefix] = rec.Metadata
	}
	return payload
}

// recordFromPayload reconstructs a record from a converted payload map.
// The embedding is attached separately by the caller when it was requested.
func recordFromPayload(payload map[string]any) vectorstore.Record {
	rec := vectorstore.Record{}
	if s, ok := payload["id"].(string); ok {
		rec.ID = s
	}
	if s, ok := payload["text"].(string); ok {
		rec.Text = s
	}
	if s, ok := payload["created_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			rec.CreatedAt = t
		}
	}
	if s, ok := payload["updated_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			rec.UpdatedAt = t
		}
	}
	if m, ok := payload[MetadataPayloadPrefix].(map[string]any); ok {
		rec.Metadata = m
	}
	return rec
}

// ── Filter Conversion ────────────────────────────────────────────────────────

// buildFilter converts the backend-agnostic conditions to a Qdrant filter.
// All conditions are combined with AND logic. Conditions that cannot be
// expressed (unknown types, unsupported value kinds) are skipped rather
// than rejected, matching the permissive contract of the store interface.
func buildFilter(conditions []vectorstore.FilterCondition) *qdrant.Filter {
	if len(conditions) == 0 {
		return nil
	}

	var must []*qdrant.Condition
	for _, c := range conditions {
		for _, cond := range convertCondition(c) {
			if cond != nil {
				must = append(must, cond)
			}
		}
	}

	if len(must) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: must}
}

// convertCondition converts a single filter condition to Qdrant conditions.
func convertCondition(c vectorstore.FilterCondition) []*qdrant.Condition {
	switch cond := c.(type) {
	case *vectorstore.MatchCondition:
		return convertMatchCondition(cond)
	case *vectorstore.MatchAnyCondition:
		return convertMatchAnyCondition(cond)
	case *vectorstore.NumericRangeCondition:
		return convertNumericRangeCondition(cond)
	default:
		return nil
	}
}

func convertMatchCondition(c *vectorstore.MatchCondition) []*qdrant.Condition {
	key := metadataFieldKey(c.Field)
	switch v := c.Value.(type) {
	case string:
		return []*qdrant.Condition{qdrant.NewMatch(key, v)}
	case bool:
		return []*qdrant.Condition{qdrant.NewMatchBool(key, v)}
	case int:
		return []*qdrant.Condition{qdrant.NewMatchInt(key, int64(v))}
	case int64:
		return []*qdrant.Condition{qdrant.NewMatchInt(key, v)}
	case float64:
		// JSON numbers decode as float64; non-integral values are expressed
		// as a degenerate range because Qdrant has no float match.
		if v == float64(int64(v)) {
			return []*qdrant.Condition{qdrant.NewMatchInt(key, int64(v))}
		}
		return []*qdrant.Condition{qdrant.NewRange(key, &qdrant.Range{Gte: &v, Lte: &v})}
	default:
		return nil
	}
}

func convertMatchAnyCondition(c *vectorstore.MatchAnyCondition) []*qdrant.Condition {
	if len(c.Values) == 0 {
		return nil
	}
	key := metadataFieldKey(c.Field)

	// Detect type from first value
	switch c.Values[0].(type) {
	case string:
		strs := make([]string, 0, len(c.Values))
		for _, v := range c.Values {
			if s, ok := v.(string); ok {
				strs = append(strs, s)
			}
		}
		return []*qdrant.Condition{qdrant.NewMatchKeywords(key, strs...)}
	case int, int64, float64:
		ints := make([]int64, 0, len(c.Values))
		for _, v := range c.Values {
			switch n := v.(type) {
			case int:
				ints = append(ints, int64(n))
			case int64:
				ints = append(ints, n)
			case float64:
				ints = append(ints, int64(n))
			}
		}
		return []*qdrant.Condition{qdrant.NewMatchInts(key, ints...)}
	}
	return nil
}

func convertNumericRangeCondition(c *vectorstore.NumericRangeCondition) []*qdrant.Condition {
	if c.Range.Empty() {
		return nil
	}
	return []*qdrant.Condition{qdrant.NewRange(metadataFieldKey(c.Field), &qdrant.Range{
		Gt:  c.Range.Gt,
		Gte: c.Range.Gte,
		Lt:  c.Range.Lt,
		Lte: c.Range.Lte,
	})}
}

// metadataFieldKey returns the full payload path of a user metadata field:
// "category" -> "metadata.category".
func metadataFieldKey(field string) string {
	return MetadataPayloadPrefix + "." + field
}

// ── Result Conversion ────────────────────────────────────────────────────────

// parseSearchResults converts a Qdrant response to similarity results.
// Qdrant's cosine score is already a similarity in [-1, 1], so scores pass
// through unchanged.
func parseSearchResults(resp []*qdrant.ScoredPoint, includeMetadata bool) ([]vectorstore.SimilarityResult, error) {
	results := make([]vectorstore.SimilarityResult, 0, len(resp))
	for _, r := range resp {
		payload := convertPayload(r.Payload)
		rec := recordFromPayload(payload)
		if rec.ID == "" {
			// Payload should always carry the external id; fall back to the
			// point id so a hit is never silently dropped.
			id, err := extractPointID(r.Id)
			if err != nil {
				return nil, err
			}
			rec.ID = id
		}

		result := vectorstore.SimilarityResult{
			ID:         rec.ID,
			Similarity: r.Score,
		}
		if includeMetadata {
			result.Text = rec.Text
			result.Metadata = rec.Metadata
		}
		results = append(results, result)
	}
	return results, nil
}

// extractPointID extracts a string ID from Qdrant's PointId type.
func extractPointID(id *qdrant.PointId) (string, error) {
	if id == nil {
		return "", fmt.Errorf("nil point ID")
	}
	switch v := id.PointIdOptions.(type) {
	case *qdrant.PointId_Num:
		return fmt.Sprintf("%d", v.Num), nil
	case *qdrant.PointId_Uuid:
		return v.Uuid, nil
	default:
		return "", fmt.Errorf("unexpected PointId type: %T", v)
	}
}

// convertPayload converts Qdrant's protobuf payload to a generic map.
func convertPayload(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		result[k] = extractValue(v)
	}
	return result
}

// extractValue recursively converts a Qdrant Value to a Go native type.
func extractValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_NullValue:
		return nil
	case *qdrant.Value_StructValue:
		if val.StructValue == nil {
			return nil
		}
		return convertPayload(val.StructValue.Fields)
	case *qdrant.Value_ListValue:
		if val.ListValue == nil {
			return nil
		}
		items := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			items[i] = extractValue(item)
		}
		return items
	default:
		return nil
	}
}
