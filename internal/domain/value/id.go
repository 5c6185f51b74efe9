package value

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SessionID identifies one purchase session across init/process/return calls.
type SessionID struct{ v uuid.UUID }

func NewSessionID() SessionID { return SessionID{v: uuid.New()} }

func ParseSessionID(s string) (SessionID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return SessionID{}, fmt.Errorf("invalid session id %q: %w", s, ErrInvalidID)
	}
	return SessionID{v: u}, nil
}

func (id SessionID) String() string { return id.v.String() }
func (id SessionID) IsZero() bool   { return id.v == uuid.Nil }

// ItemID identifies one line item inside a purchase.
type ItemID struct{ v uuid.UUID }

func NewItemID() ItemID { return ItemID{v: uuid.New()} }

func ParseItemID(s string) (ItemID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return ItemID{}, fmt.Errorf("invalid item id %q: %w", s, ErrInvalidID)
	}
	return ItemID{v: u}, nil
}

func (id ItemID) String() string { return id.v.String() }
func (id ItemID) IsZero() bool   { return id.v == uuid.Nil }

// SiteID identifies the site the purchase was initiated from.
type SiteID struct{ v uuid.UUID }

func ParseSiteID(s string) (SiteID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return SiteID{}, fmt.Errorf("invalid site id %q: %w", s, ErrInvalidID)
	}
	return SiteID{v: u}, nil
}

func (id SiteID) String() string { return id.v.String() }
func (id SiteID) IsZero() bool   { return id.v == uuid.Nil }

// BundleID identifies the product bundle attached to a line item.
type BundleID struct{ v uuid.UUID }

func ParseBundleID(s string) (BundleID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return BundleID{}, fmt.Errorf("invalid bundle id %q: %w", s, ErrInvalidID)
	}
	return BundleID{v: u}, nil
}

func (id BundleID) String() string { return id.v.String() }
func (id BundleID) IsZero() bool   { return id.v == uuid.Nil }

// AddonID identifies the addon attached to a line item.
type AddonID struct{ v uuid.UUID }

func ParseAddonID(s string) (AddonID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return AddonID{}, fmt.Errorf("invalid addon id %q: %w", s, ErrInvalidID)
	}
	return AddonID{v: u}, nil
}

func (id AddonID) String() string { return id.v.String() }
func (id AddonID) IsZero() bool   { return id.v == uuid.Nil }

// MemberID identifies the paying member. Nullable on the aggregate until built.
type MemberID struct{ v uuid.UUID }

func NewMemberID() MemberID { return MemberID{v: uuid.New()} }

func ParseMemberID(s string) (MemberID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return MemberID{}, fmt.Errorf("invalid member id %q: %w", s, ErrInvalidID)
	}
	return MemberID{v: u}, nil
}

func (id MemberID) String() string { return id.v.String() }
func (id MemberID) IsZero() bool   { return id.v == uuid.Nil }

// PurchaseID identifies the purchase as reported to downstream systems.
type PurchaseID struct{ v uuid.UUID }

func NewPurchaseID() PurchaseID { return PurchaseID{v: uuid.New()} }

func ParsePurchaseID(s string) (PurchaseID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return PurchaseID{}, fmt.Errorf("invalid purchase id %q: %w", s, ErrInvalidID)
	}
	return PurchaseID{v: u}, nil
}

func (id PurchaseID) String() string { return id.v.String() }
func (id PurchaseID) IsZero() bool   { return id.v == uuid.Nil }

// SubscriptionID identifies the subscription created for one line item.
type SubscriptionID struct{ v uuid.UUID }

func NewSubscriptionID() SubscriptionID { return SubscriptionID{v: uuid.New()} }

func ParseSubscriptionID(s string) (SubscriptionID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return SubscriptionID{}, fmt.Errorf("invalid subscription id %q: %w", s, ErrInvalidID)
	}
	return SubscriptionID{v: u}, nil
}

func (id SubscriptionID) String() string { return id.v.String() }
func (id SubscriptionID) IsZero() bool   { return id.v == uuid.Nil }

// TransactionID is assigned by a biller call; a zero value means no biller
// has produced an id for the attempt yet.
type TransactionID struct{ v uuid.UUID }

func NewTransactionID() TransactionID { return TransactionID{v: uuid.New()} }

func ParseTransactionID(s string) (TransactionID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return TransactionID{}, fmt.Errorf("invalid transaction id %q: %w", s, ErrInvalidID)
	}
	return TransactionID{v: u}, nil
}

func (id TransactionID) String() string { return id.v.String() }
func (id TransactionID) IsZero() bool   { return id.v == uuid.Nil }
