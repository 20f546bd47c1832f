package vectorstore

import (
	"fmt"
	"maps"
	"slices"

	"github.com/qdrant/go-client/qdrant"
)

// buildFilter turns filters into must-conditions, ordered by key so equal
// inputs give equal requests. A nil map yields a nil filter.
func buildFilter(filters map[string]any) (*qdrant.Filter, error) {
	if len(filters) == 0 {
		return nil, nil
	}

	filter := &qdrant.Filter{}
	for _, key := range slices.Sorted(maps.Keys(filters)) {
		cond, err := matchCondition(key, filters[key])
		if err != nil {
			return nil, err
		}
		filter.Must = append(filter.Must, cond)
	}
	return filter, nil
}

func matchCondition(key string, value any) (*qdrant.Condition, error) {
	switch v := value.(type) {
	case string:
		return qdrant.NewMatch(key, v), nil
	case []string:
		if len(v) == 0 {
			return nil, fmt.Errorf("filter %s: no keywords", key)
		}
		return qdrant.NewMatchKeywords(key, v...), nil
	case int:
		return qdrant.NewMatchInt(key, int64(v)), nil
	case int64:
		return qdrant.NewMatchInt(key, v), nil
	}
	return nil, fmt.Errorf("filter %s: unsupported value type %T", key, value)
}

// convertPayloadToMap flattens a Qdrant payload into plain Go values.
// It never returns nil.
func convertPayloadToMap(payload map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for key, value := range payload {
		if value != nil {
			out[key] = convertValue(value)
		}
	}
	return out
}

func convertValue(v *qdrant.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_ListValue:
		items := kind.ListValue.GetValues()
		list := make([]any, len(items))
		for i, item := range items {
			list[i] = convertValue(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return convertPayloadToMap(kind.StructValue.GetFields())
	}
	return nil
}
