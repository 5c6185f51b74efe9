package value

// TaxBreakdown splits one charge into before-tax, tax and after-tax amounts.
type TaxBreakdown struct {
	BeforeTaxes Amount
	Taxes       Amount
	AfterTaxes  Amount
}

// TaxInformation carries the tax detail attached to one line item. The
// breakdowns are optional; a nil breakdown means the charge amount is final.
type TaxInformation struct {
	InitialAmount    *TaxBreakdown
	RebillAmount     *TaxBreakdown
	TaxApplicationID string
	TaxName          string
	TaxRate          float64
	Custom           bool
	TaxType          string
}

func (t TaxInformation) HasInitialBreakdown() bool { return t.InitialAmount != nil }
func (t TaxInformation) HasRebillBreakdown() bool  { return t.RebillAmount != nil }
