package item

import (
	"testing"

	"github.com/probiller/purchase-gateway/internal/domain/transaction"
	"github.com/probiller/purchase-gateway/internal/domain/value"
)

func newItem(t *testing.T, isCrossSale bool) *InitializedItem {
	t.Helper()
	charge, err := value.NewChargeInformation(value.MustAmount(14.99), 30, value.MustAmount(24.99), 30)
	if err != nil {
		t.Fatalf("NewChargeInformation: %v", err)
	}
	siteID, err := value.ParseSiteID("299d3e6b-cf3d-11d9-8c8b-0cc47a283dd2")
	if err != nil {
		t.Fatalf("ParseSiteID: %v", err)
	}
	bundleID, err := value.ParseBundleID("4475820e-2956-11e9-b210-d663bd873d93")
	if err != nil {
		t.Fatalf("ParseBundleID: %v", err)
	}
	addonID, err := value.ParseAddonID("670af402-2956-11e9-b210-d663bd873d93")
	if err != nil {
		t.Fatalf("ParseAddonID: %v", err)
	}
	return NewInitializedItem(
		value.NewItemID(), siteID, bundleID, addonID,
		charge, value.TaxInformation{TaxName: "VAT", TaxRate: 0.05},
		isCrossSale, false, isCrossSale,
	)
}

func TestBuildSubscriptionIDIsIdempotent(t *testing.T) {
	it := newItem(t, false)
	first := it.BuildSubscriptionID()
	second := it.BuildSubscriptionID()
	if first != second {
		t.Fatalf("subscription id changed: %s vs %s", first, second)
	}
}

func TestNSFSupportDefaultsOff(t *testing.T) {
	it := newItem(t, false)
	if it.IsNSFSupported() {
		t.Fatalf("NSF support should default to off")
	}
	it.SetNSFSupported(true)
	if !it.IsNSFSupported() {
		t.Fatalf("NSF support not stored")
	}
}

func TestPurchaseOutcomeFollowsLastTransaction(t *testing.T) {
	it := newItem(t, false)
	if it.WasPurchaseSuccessful() || it.WasPurchasePending() {
		t.Fatalf("item without attempts reported an outcome")
	}

	it.Transactions().Add(transaction.New(value.NewTransactionID(), transaction.StateDeclined, "rocketgate", true, false))
	if it.WasPurchaseSuccessful() {
		t.Fatalf("declined attempt reported as success")
	}

	it.Transactions().Add(transaction.New(value.NewTransactionID(), transaction.StateApproved, "netbilling", true, false))
	if !it.WasPurchaseSuccessful() {
		t.Fatalf("approved last attempt not reported as success")
	}
}

func TestIsLastTransactionNsf(t *testing.T) {
	it := newItem(t, false)
	it.Transactions().Add(transaction.New(value.NewTransactionID(), transaction.StateDeclined, "rocketgate", true, true))
	if !it.IsLastTransactionNsf() {
		t.Fatalf("NSF decline not reported")
	}
}

func TestCollectionMainItemConvention(t *testing.T) {
	c := NewCollection()
	if c.MainItem() != nil {
		t.Fatalf("empty collection should have no main item")
	}
	main := newItem(t, false)
	cross := newItem(t, true)
	c.Add(main)
	c.Add(cross)
	if c.MainItem() != main {
		t.Fatalf("first added item is not the main item")
	}
	sales := c.CrossSales()
	if len(sales) != 1 || sales[0] != cross {
		t.Fatalf("cross sales: got=%v", sales)
	}
}

func TestCollectionMainItemOutcomeHelpers(t *testing.T) {
	c := NewCollection()
	main := newItem(t, false)
	main.Transactions().Add(transaction.NewPending("rocketgate"))
	c.Add(main)
	if !c.WasMainItemPurchasePending() {
		t.Fatalf("pending main item not reported")
	}
	if c.WasMainItemPurchaseSuccessful() {
		t.Fatalf("pending main item reported as success")
	}
}

func TestItemSnapshotRoundTrip(t *testing.T) {
	it := newItem(t, true)
	it.SetNSFSupported(true)
	subscriptionID := it.BuildSubscriptionID()
	it.Transactions().Add(transaction.New(value.NewTransactionID(), transaction.StateApproved, "rocketgate", true, false))

	restored, err := FromSnapshot(it.ToSnapshot())
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	if restored.ItemID() != it.ItemID() {
		t.Fatalf("item id lost")
	}
	if !restored.IsCrossSale() || !restored.IsCrossSaleSelected() {
		t.Fatalf("cross-sale flags lost")
	}
	if !restored.Charge().InitialAmount.Equal(it.Charge().InitialAmount) {
		t.Fatalf("initial amount lost")
	}
	if !restored.Charge().HasRebill() {
		t.Fatalf("rebill flag lost")
	}
	if restored.Transactions().Count() != 1 {
		t.Fatalf("transactions lost")
	}
	if !restored.IsNSFSupported() {
		t.Fatalf("NSF support flag lost")
	}
	if restored.SubscriptionID() != subscriptionID {
		t.Fatalf("subscription id: want=%s got=%s", subscriptionID, restored.SubscriptionID())
	}
}

func TestItemSnapshotWithoutSubscriptionStaysZero(t *testing.T) {
	it := newItem(t, false)
	restored, err := FromSnapshot(it.ToSnapshot())
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	if !restored.SubscriptionID().IsZero() {
		t.Fatalf("unbuilt subscription id restored as %s", restored.SubscriptionID())
	}
	if restored.IsNSFSupported() {
		t.Fatalf("NSF support should stay off")
	}
}
