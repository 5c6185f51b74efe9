package transaction

// Collection is the ordered attempt ledger of one line item. Attempts are
// append-only and span biller switches, so the full cascade history stays
// readable at completion.
type Collection struct {
	items []*Transaction
}

func NewCollection() *Collection { return &Collection{} }

func (c *Collection) Add(t *Transaction) {
	if t == nil {
		return
	}
	c.items = append(c.items, t)
}

func (c *Collection) Count() int { return len(c.items) }

func (c *Collection) IsEmpty() bool { return len(c.items) == 0 }

// Last returns the most recent attempt, nil when no attempt was made.
func (c *Collection) Last() *Transaction {
	if len(c.items) == 0 {
		return nil
	}
	return c.items[len(c.items)-1]
}

func (c *Collection) All() []*Transaction {
	out := make([]*Transaction, len(c.items))
	copy(out, c.items)
	return out
}

// Reset clears the ledger for callers that want a fresh attempt history,
// such as reusing an item aggregate across independent purchases.
func (c *Collection) Reset() { c.items = nil }
