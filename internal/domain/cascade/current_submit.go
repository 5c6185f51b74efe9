package cascade

import "github.com/probiller/purchase-gateway/internal/domain/biller"

// PaymentTemplate is the slice of a stored card template the cascade needs:
// reusing an existing card pins the attempt to the biller that stored it.
type PaymentTemplate interface {
	BillerName() string
}

// BillerForCurrentSubmit resolves the biller the next attempt targets.
// A non-nil payment template overrides cascade selection entirely; the
// attempt goes to the template's recorded biller regardless of position.
func BillerForCurrentSubmit(c *Cascade, template PaymentTemplate) (biller.Biller, error) {
	if template != nil {
		return biller.ByName(template.BillerName())
	}
	return c.NextBiller()
}
