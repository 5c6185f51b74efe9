package purchase

// PaymentTemplate is a stored-card reference usable for existing-member
// purchases. A selected template pins the attempt to its recorded biller.
type PaymentTemplate struct {
	templateID string
	billerName string
	lastFour   string
	isSelected bool
}

func NewPaymentTemplate(templateID, billerName, lastFour string) *PaymentTemplate {
	return &PaymentTemplate{templateID: templateID, billerName: billerName, lastFour: lastFour}
}

func (t *PaymentTemplate) TemplateID() string { return t.templateID }
func (t *PaymentTemplate) BillerName() string { return t.billerName }
func (t *PaymentTemplate) LastFour() string   { return t.lastFour }
func (t *PaymentTemplate) IsSelected() bool   { return t.isSelected }

func (t *PaymentTemplate) Select()   { t.isSelected = true }
func (t *PaymentTemplate) Deselect() { t.isSelected = false }

// ToSnapshot flattens one template for session persistence.
func (t *PaymentTemplate) ToSnapshot() map[string]any {
	return map[string]any{
		"templateId": t.templateID,
		"billerName": t.billerName,
		"lastFour":   t.lastFour,
		"isSelected": t.isSelected,
	}
}

// PaymentTemplateCollection is the ordered set of stored-card templates
// offered for the session.
type PaymentTemplateCollection struct {
	items []*PaymentTemplate
}

func NewPaymentTemplateCollection(items ...*PaymentTemplate) *PaymentTemplateCollection {
	c := &PaymentTemplateCollection{}
	for _, t := range items {
		c.Add(t)
	}
	return c
}

func (c *PaymentTemplateCollection) Add(t *PaymentTemplate) {
	if t == nil {
		return
	}
	c.items = append(c.items, t)
}

func (c *PaymentTemplateCollection) Count() int    { return len(c.items) }
func (c *PaymentTemplateCollection) IsEmpty() bool { return len(c.items) == 0 }

func (c *PaymentTemplateCollection) All() []*PaymentTemplate {
	out := make([]*PaymentTemplate, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the template with the given id, nil when absent.
func (c *PaymentTemplateCollection) Get(templateID string) *PaymentTemplate {
	for _, t := range c.items {
		if t.templateID == templateID {
			return t
		}
	}
	return nil
}

// Selected returns the selected template, nil when none is selected.
func (c *PaymentTemplateCollection) Selected() *PaymentTemplate {
	for _, t := range c.items {
		if t.isSelected {
			return t
		}
	}
	return nil
}

// ToSnapshot flattens the collection for session persistence.
func (c *PaymentTemplateCollection) ToSnapshot() []map[string]any {
	out := make([]map[string]any, 0, len(c.items))
	for _, t := range c.items {
		out = append(out, t.ToSnapshot())
	}
	return out
}

// PaymentTemplateCollectionFromSnapshot rebuilds the collection.
func PaymentTemplateCollectionFromSnapshot(rows []map[string]any) *PaymentTemplateCollection {
	c := NewPaymentTemplateCollection()
	for _, row := range rows {
		t := NewPaymentTemplate(
			snapString(row, "templateId"),
			snapString(row, "billerName"),
			snapString(row, "lastFour"),
		)
		if selected, ok := row["isSelected"].(bool); ok && selected {
			t.Select()
		}
		c.Add(t)
	}
	return c
}
