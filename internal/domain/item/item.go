package item

import (
	"github.com/probiller/purchase-gateway/internal/domain/transaction"
	"github.com/probiller/purchase-gateway/internal/domain/value"
)

// InitializedItem is one chargeable line of a purchase: the main product or
// a cross-sale, with its own attempt ledger.
type InitializedItem struct {
	itemID   value.ItemID
	siteID   value.SiteID
	bundleID value.BundleID
	addonID  value.AddonID

	charge value.ChargeInformation
	taxes  value.TaxInformation

	isCrossSale         bool
	isTrial             bool
	isCrossSaleSelected bool
	isNSFSupported      bool

	subscriptionID value.SubscriptionID

	transactions *transaction.Collection
}

func NewInitializedItem(
	itemID value.ItemID,
	siteID value.SiteID,
	bundleID value.BundleID,
	addonID value.AddonID,
	charge value.ChargeInformation,
	taxes value.TaxInformation,
	isCrossSale bool,
	isTrial bool,
	isCrossSaleSelected bool,
) *InitializedItem {
	return &InitializedItem{
		itemID:              itemID,
		siteID:              siteID,
		bundleID:            bundleID,
		addonID:             addonID,
		charge:              charge,
		taxes:               taxes,
		isCrossSale:         isCrossSale,
		isTrial:             isTrial,
		isCrossSaleSelected: isCrossSaleSelected,
		transactions:        transaction.NewCollection(),
	}
}

func (i *InitializedItem) ItemID() value.ItemID                  { return i.itemID }
func (i *InitializedItem) SiteID() value.SiteID                  { return i.siteID }
func (i *InitializedItem) BundleID() value.BundleID              { return i.bundleID }
func (i *InitializedItem) AddonID() value.AddonID                { return i.addonID }
func (i *InitializedItem) Charge() value.ChargeInformation       { return i.charge }
func (i *InitializedItem) Taxes() value.TaxInformation           { return i.taxes }
func (i *InitializedItem) IsCrossSale() bool                     { return i.isCrossSale }
func (i *InitializedItem) IsTrial() bool                         { return i.isTrial }
func (i *InitializedItem) IsCrossSaleSelected() bool             { return i.isCrossSaleSelected }
func (i *InitializedItem) IsNSFSupported() bool                  { return i.isNSFSupported }
func (i *InitializedItem) Transactions() *transaction.Collection { return i.transactions }

func (i *InitializedItem) SetNSFSupported(supported bool) { i.isNSFSupported = supported }

// BuildSubscriptionID assigns the subscription id once; repeated calls
// return the id built first.
func (i *InitializedItem) BuildSubscriptionID() value.SubscriptionID {
	if i.subscriptionID.IsZero() {
		i.subscriptionID = value.NewSubscriptionID()
	}
	return i.subscriptionID
}

func (i *InitializedItem) SubscriptionID() value.SubscriptionID { return i.subscriptionID }

// LastTransaction returns the most recent attempt, nil when none was made.
func (i *InitializedItem) LastTransaction() *transaction.Transaction {
	return i.transactions.Last()
}

// WasPurchaseSuccessful reports whether the latest attempt was approved.
func (i *InitializedItem) WasPurchaseSuccessful() bool {
	last := i.transactions.Last()
	return last != nil && last.IsApproved()
}

// WasPurchasePending reports whether the latest attempt is awaiting a 3DS
// challenge or a third-party return.
func (i *InitializedItem) WasPurchasePending() bool {
	last := i.transactions.Last()
	return last != nil && last.IsPending()
}

// IsLastTransactionNsf reports the distinguished NSF-declined terminal
// outcome on the latest attempt.
func (i *InitializedItem) IsLastTransactionNsf() bool {
	last := i.transactions.Last()
	return last != nil && last.IsNsfDeclined()
}
