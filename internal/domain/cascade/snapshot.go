package cascade

import (
	"fmt"

	"github.com/probiller/purchase-gateway/internal/domain/biller"
)

// ToSnapshot flattens the cascade for session persistence.
func (c *Cascade) ToSnapshot() map[string]any {
	removed := make([]string, len(c.removedBillersFor3DS))
	copy(removed, c.removedBillersFor3DS)
	return map[string]any{
		"billers":               c.billers.Names(),
		"currentBiller":         c.currentBillerName,
		"currentBillerSubmit":   c.currentBillerSubmit,
		"currentBillerPosition": c.currentBillerPosition,
		"removedBillersFor3DS":  removed,
	}
}

// FromSnapshot rebuilds a cascade from persisted session data.
func FromSnapshot(data map[string]any) (*Cascade, error) {
	names, err := stringSlice(data["billers"])
	if err != nil {
		return nil, fmt.Errorf("billers: %w", err)
	}
	collection, err := biller.BuildCollectionFromNames(names)
	if err != nil {
		return nil, err
	}
	removed, err := stringSlice(data["removedBillersFor3DS"])
	if err != nil {
		return nil, fmt.Errorf("removedBillersFor3DS: %w", err)
	}
	return Restore(
		collection,
		stringField(data, "currentBiller"),
		intField(data, "currentBillerSubmit"),
		intField(data, "currentBillerPosition"),
		removed,
	)
}

func stringSlice(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", e)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected list, got %T", raw)
	}
}

func stringField(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func intField(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
