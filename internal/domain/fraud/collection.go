package fraud

import "fmt"

// RecommendationCollection is the ordered set of recommendations for one
// decision point.
type RecommendationCollection struct {
	items []*Recommendation
}

func NewRecommendationCollection(items ...*Recommendation) *RecommendationCollection {
	c := &RecommendationCollection{}
	for _, r := range items {
		c.Add(r)
	}
	return c
}

// CreateFromRaw builds a collection from the fraud scoring collaborator's
// raw {code, severity, message} rows.
func CreateFromRaw(rows []map[string]any) (*RecommendationCollection, error) {
	c := &RecommendationCollection{}
	for _, row := range rows {
		code, err := intFromAny(row["code"])
		if err != nil {
			return nil, fmt.Errorf("recommendation code: %w", err)
		}
		severity, _ := row["severity"].(string)
		message, _ := row["message"].(string)
		c.Add(NewRecommendation(code, severity, message))
	}
	return c, nil
}

func (c *RecommendationCollection) Add(r *Recommendation) {
	if r == nil {
		return
	}
	c.items = append(c.items, r)
}

func (c *RecommendationCollection) Count() int    { return len(c.items) }
func (c *RecommendationCollection) IsEmpty() bool { return len(c.items) == 0 }

func (c *RecommendationCollection) All() []*Recommendation {
	out := make([]*Recommendation, len(c.items))
	copy(out, c.items)
	return out
}

// First returns the leading recommendation, a default one when empty.
func (c *RecommendationCollection) First() *Recommendation {
	if len(c.items) == 0 {
		return DefaultRecommendation()
	}
	return c.items[0]
}

// HasHardBlock is true iff any member is a hard block.
func (c *RecommendationCollection) HasHardBlock() bool {
	for _, r := range c.items {
		if r.IsHardBlock() {
			return true
		}
	}
	return false
}

// HasSoftBlock is true iff any member is a soft block.
func (c *RecommendationCollection) HasSoftBlock() bool {
	for _, r := range c.items {
		if r.IsSoftBlock() {
			return true
		}
	}
	return false
}

// ResetToDefaultIfThreeDForced applies the reset to every member.
func (c *RecommendationCollection) ResetToDefaultIfThreeDForced() {
	for _, r := range c.items {
		r.ResetToDefaultIfThreeDForced()
	}
}

// ToSnapshot flattens the collection for session persistence.
func (c *RecommendationCollection) ToSnapshot() []map[string]any {
	out := make([]map[string]any, 0, len(c.items))
	for _, r := range c.items {
		out = append(out, r.ToSnapshot())
	}
	return out
}

// CollectionFromSnapshot rebuilds the collection from persisted data.
func CollectionFromSnapshot(rows []map[string]any) (*RecommendationCollection, error) {
	return CreateFromRaw(rows)
}

func intFromAny(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("expected number, got %T", raw)
	}
}
