package transaction

import (
	"fmt"

	"github.com/probiller/purchase-gateway/internal/domain/value"
)

// ToSnapshot flattens one attempt for session persistence.
func (t *Transaction) ToSnapshot() map[string]any {
	var id any
	if !t.transactionID.IsZero() {
		id = t.transactionID.String()
	}
	return map[string]any{
		"transactionId":       id,
		"state":               string(t.state),
		"billerName":          t.billerName,
		"newCCUsed":           t.newCCUsed,
		"isNsf":               t.isNsf,
		"acs":                 t.threeD.Acs,
		"pareq":               t.threeD.Pareq,
		"redirectUrl":         t.threeD.RedirectURL,
		"deviceCollectionUrl": t.threeD.DeviceCollectionURL,
		"deviceCollectionJwt": t.threeD.DeviceCollectionJWT,
		"threeDStepUpUrl":     t.threeD.StepUpURL,
		"threeDStepUpJwt":     t.threeD.StepUpJWT,
		"threeDVersion":       t.threeD.ThreeDVersion,
	}
}

// FromSnapshot rebuilds one attempt from persisted session data.
func FromSnapshot(data map[string]any) (*Transaction, error) {
	state, err := ParseState(stringField(data, "state"))
	if err != nil {
		return nil, err
	}
	t := &Transaction{
		state:      state,
		billerName: stringField(data, "billerName"),
		newCCUsed:  boolField(data, "newCCUsed"),
		isNsf:      boolField(data, "isNsf"),
		threeD: ThreeDMetadata{
			Acs:                 stringField(data, "acs"),
			Pareq:               stringField(data, "pareq"),
			RedirectURL:         stringField(data, "redirectUrl"),
			DeviceCollectionURL: stringField(data, "deviceCollectionUrl"),
			DeviceCollectionJWT: stringField(data, "deviceCollectionJwt"),
			StepUpURL:           stringField(data, "threeDStepUpUrl"),
			StepUpJWT:           stringField(data, "threeDStepUpJwt"),
			ThreeDVersion:       intField(data, "threeDVersion"),
		},
	}
	if raw, ok := data["transactionId"]; ok && raw != nil {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("transactionId: expected string, got %T", raw)
		}
		id, err := value.ParseTransactionID(s)
		if err != nil {
			return nil, err
		}
		t.transactionID = id
	}
	return t, nil
}

// ToSnapshot flattens the ledger for session persistence.
func (c *Collection) ToSnapshot() []map[string]any {
	out := make([]map[string]any, 0, len(c.items))
	for _, t := range c.items {
		out = append(out, t.ToSnapshot())
	}
	return out
}

// CollectionFromSnapshot rebuilds a ledger from persisted session data.
func CollectionFromSnapshot(rows []map[string]any) (*Collection, error) {
	c := NewCollection()
	for _, row := range rows {
		t, err := FromSnapshot(row)
		if err != nil {
			return nil, err
		}
		c.Add(t)
	}
	return c, nil
}

func stringField(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func boolField(data map[string]any, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
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
