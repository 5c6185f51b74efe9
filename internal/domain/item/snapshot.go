package item

import (
	"fmt"

	"github.com/probiller/purchase-gateway/internal/domain/transaction"
	"github.com/probiller/purchase-gateway/internal/domain/value"
)

// ToSnapshot flattens one line item for session persistence. The key set is
// fixed; session consumers rely on it not growing ad hoc.
func (i *InitializedItem) ToSnapshot() map[string]any {
	subscriptionID := ""
	if !i.subscriptionID.IsZero() {
		subscriptionID = i.subscriptionID.String()
	}
	return map[string]any{
		"itemId":                i.itemID.String(),
		"addonId":               i.addonID.String(),
		"bundleId":              i.bundleID.String(),
		"siteId":                i.siteID.String(),
		"subscriptionId":        subscriptionID,
		"initialDays":           i.charge.InitialDays,
		"rebillDays":            i.charge.RebillDays,
		"initialAmount":         i.charge.InitialAmount.Float64(),
		"rebillAmount":          i.charge.RebillAmount.Float64(),
		"taxes":                 taxesToSnapshot(i.taxes),
		"transactionCollection": i.transactions.ToSnapshot(),
		"isTrial":               i.isTrial,
		"isCrossSale":           i.isCrossSale,
		"isCrossSaleSelected":   i.isCrossSaleSelected,
		"isNSFSupported":        i.isNSFSupported,
	}
}

// FromSnapshot rebuilds one line item from persisted session data.
func FromSnapshot(data map[string]any) (*InitializedItem, error) {
	itemID, err := value.ParseItemID(stringField(data, "itemId"))
	if err != nil {
		return nil, err
	}
	siteID, err := value.ParseSiteID(stringField(data, "siteId"))
	if err != nil {
		return nil, err
	}
	bundleID, err := value.ParseBundleID(stringField(data, "bundleId"))
	if err != nil {
		return nil, err
	}
	addonID, err := value.ParseAddonID(stringField(data, "addonId"))
	if err != nil {
		return nil, err
	}
	initialAmount, err := value.NewAmountFromFloat(floatField(data, "initialAmount"))
	if err != nil {
		return nil, err
	}
	rebillAmount, err := value.NewAmountFromFloat(floatField(data, "rebillAmount"))
	if err != nil {
		return nil, err
	}
	var charge value.ChargeInformation
	if rebillDays := intField(data, "rebillDays"); rebillDays > 0 {
		charge, err = value.NewChargeInformation(initialAmount, intField(data, "initialDays"), rebillAmount, rebillDays)
	} else {
		charge, err = value.NewSingleChargeInformation(initialAmount, intField(data, "initialDays"))
	}
	if err != nil {
		return nil, err
	}

	taxes, err := taxesFromSnapshot(data["taxes"])
	if err != nil {
		return nil, err
	}

	it := NewInitializedItem(
		itemID, siteID, bundleID, addonID,
		charge, taxes,
		boolField(data, "isCrossSale"),
		boolField(data, "isTrial"),
		boolField(data, "isCrossSaleSelected"),
	)
	it.isNSFSupported = boolField(data, "isNSFSupported")
	if raw := stringField(data, "subscriptionId"); raw != "" {
		subscriptionID, serr := value.ParseSubscriptionID(raw)
		if serr != nil {
			return nil, serr
		}
		it.subscriptionID = subscriptionID
	}

	txRows, err := anySliceOfMaps(data["transactionCollection"])
	if err != nil {
		return nil, fmt.Errorf("transactionCollection: %w", err)
	}
	txs, err := transaction.CollectionFromSnapshot(txRows)
	if err != nil {
		return nil, err
	}
	it.transactions = txs
	return it, nil
}

// ToSnapshot flattens the whole item collection for session persistence.
func (c *Collection) ToSnapshot() []map[string]any {
	out := make([]map[string]any, 0, len(c.items))
	for _, i := range c.items {
		out = append(out, i.ToSnapshot())
	}
	return out
}

// CollectionFromSnapshot rebuilds the item collection; item order, and with
// it the main-item convention, is preserved.
func CollectionFromSnapshot(rows []map[string]any) (*Collection, error) {
	c := NewCollection()
	for _, row := range rows {
		i, err := FromSnapshot(row)
		if err != nil {
			return nil, err
		}
		c.Add(i)
	}
	return c, nil
}

func taxesToSnapshot(t value.TaxInformation) map[string]any {
	out := map[string]any{
		"taxApplicationId": t.TaxApplicationID,
		"taxName":          t.TaxName,
		"taxRate":          t.TaxRate,
		"taxType":          t.TaxType,
		"custom":           t.Custom,
	}
	if t.InitialAmount != nil {
		out["initialAmount"] = breakdownToSnapshot(*t.InitialAmount)
	}
	if t.RebillAmount != nil {
		out["rebillAmount"] = breakdownToSnapshot(*t.RebillAmount)
	}
	return out
}

func breakdownToSnapshot(b value.TaxBreakdown) map[string]any {
	return map[string]any{
		"beforeTaxes": b.BeforeTaxes.Float64(),
		"taxes":       b.Taxes.Float64(),
		"afterTaxes":  b.AfterTaxes.Float64(),
	}
}

func taxesFromSnapshot(raw any) (value.TaxInformation, error) {
	data, ok := raw.(map[string]any)
	if !ok {
		return value.TaxInformation{}, nil
	}
	t := value.TaxInformation{
		TaxApplicationID: stringField(data, "taxApplicationId"),
		TaxName:          stringField(data, "taxName"),
		TaxRate:          floatField(data, "taxRate"),
		TaxType:          stringField(data, "taxType"),
		Custom:           boolField(data, "custom"),
	}
	if b, ok := data["initialAmount"].(map[string]any); ok {
		breakdown, err := breakdownFromSnapshot(b)
		if err != nil {
			return value.TaxInformation{}, err
		}
		t.InitialAmount = &breakdown
	}
	if b, ok := data["rebillAmount"].(map[string]any); ok {
		breakdown, err := breakdownFromSnapshot(b)
		if err != nil {
			return value.TaxInformation{}, err
		}
		t.RebillAmount = &breakdown
	}
	return t, nil
}

func breakdownFromSnapshot(data map[string]any) (value.TaxBreakdown, error) {
	before, err := value.NewAmountFromFloat(floatField(data, "beforeTaxes"))
	if err != nil {
		return value.TaxBreakdown{}, err
	}
	taxes, err := value.NewAmountFromFloat(floatField(data, "taxes"))
	if err != nil {
		return value.TaxBreakdown{}, err
	}
	after, err := value.NewAmountFromFloat(floatField(data, "afterTaxes"))
	if err != nil {
		return value.TaxBreakdown{}, err
	}
	return value.TaxBreakdown{BeforeTaxes: before, Taxes: taxes, AfterTaxes: after}, nil
}

func anySliceOfMaps(raw any) ([]map[string]any, error) {
	switch rows := raw.(type) {
	case nil:
		return nil, nil
	case []map[string]any:
		return rows, nil
	case []any:
		out := make([]map[string]any, 0, len(rows))
		for _, r := range rows {
			m, ok := r.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("expected object, got %T", r)
			}
			out = append(out, m)
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

func floatField(data map[string]any, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
