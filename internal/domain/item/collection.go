package item

import "github.com/probiller/purchase-gateway/internal/domain/value"

// Collection is the ordered set of line items of one purchase. The first
// item added is the main item; every subsequent item is a cross-sale.
type Collection struct {
	items []*InitializedItem
}

func NewCollection() *Collection { return &Collection{} }

func (c *Collection) Add(i *InitializedItem) {
	if i == nil {
		return
	}
	c.items = append(c.items, i)
}

func (c *Collection) Count() int    { return len(c.items) }
func (c *Collection) IsEmpty() bool { return len(c.items) == 0 }

// MainItem returns the first item added, nil when the purchase has no items.
func (c *Collection) MainItem() *InitializedItem {
	if len(c.items) == 0 {
		return nil
	}
	return c.items[0]
}

// CrossSales returns every item after the main one, in order.
func (c *Collection) CrossSales() []*InitializedItem {
	if len(c.items) <= 1 {
		return nil
	}
	out := make([]*InitializedItem, len(c.items)-1)
	copy(out, c.items[1:])
	return out
}

func (c *Collection) All() []*InitializedItem {
	out := make([]*InitializedItem, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the item with the given id, nil when absent.
func (c *Collection) Get(id value.ItemID) *InitializedItem {
	for _, i := range c.items {
		if i.itemID == id {
			return i
		}
	}
	return nil
}

// WasMainItemPurchaseSuccessful reports whether the main item's latest
// attempt was approved.
func (c *Collection) WasMainItemPurchaseSuccessful() bool {
	main := c.MainItem()
	return main != nil && main.WasPurchaseSuccessful()
}

// WasMainItemPurchasePending reports whether the main item's latest attempt
// is awaiting a challenge or third-party return.
func (c *Collection) WasMainItemPurchasePending() bool {
	main := c.MainItem()
	return main != nil && main.WasPurchasePending()
}

// IsMainItemLastTransactionNsf reports the NSF-declined terminal outcome on
// the main item.
func (c *Collection) IsMainItemLastTransactionNsf() bool {
	main := c.MainItem()
	return main != nil && main.IsLastTransactionNsf()
}
