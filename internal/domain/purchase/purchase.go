package purchase

import (
	"fmt"

	"github.com/probiller/purchase-gateway/internal/domain/item"
	"github.com/probiller/purchase-gateway/internal/domain/transaction"
	"github.com/probiller/purchase-gateway/internal/domain/value"
)

// Status of a completed purchase as reported downstream.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPending Status = "pending"
	StatusFailed  Status = "failed"
	StatusAborted Status = "aborted"
)

// statusByTransactionState is the fixed terminal-state map. A transaction
// state outside it is a data-integrity error, not a default.
var statusByTransactionState = map[transaction.State]Status{
	transaction.StateApproved: StatusSuccess,
	transaction.StatePending:  StatusPending,
	transaction.StateDeclined: StatusFailed,
	transaction.StateAborted:  StatusAborted,
}

// StatusFromTransactionState maps the main transaction's terminal state to
// the reported purchase status.
func StatusFromTransactionState(s transaction.State) (Status, error) {
	status, ok := statusByTransactionState[s]
	if !ok {
		return "", fmt.Errorf("no purchase status for transaction state %q", s)
	}
	return status, nil
}

// ProcessedItem is one line of the post-completion record.
type ProcessedItem struct {
	ItemID         value.ItemID
	SubscriptionID value.SubscriptionID
	IsCrossSale    bool
	TransactionID  value.TransactionID
}

// Purchase is the post-completion record reported to downstream consumers.
type Purchase struct {
	PurchaseID value.PurchaseID
	MemberID   value.MemberID
	SessionID  value.SessionID
	Items      []ProcessedItem
	Status     Status
}

// NewPurchaseFromProcess derives the completion record from a finished
// aggregate. The main item must carry at least one attempt.
func NewPurchaseFromProcess(p *Process) (*Purchase, error) {
	main := p.Items().MainItem()
	if main == nil {
		return nil, fmt.Errorf("purchase process %s has no main item", p.SessionID())
	}
	last := main.LastTransaction()
	if last == nil {
		return nil, fmt.Errorf("purchase process %s main item has no transactions", p.SessionID())
	}
	status, err := StatusFromTransactionState(last.State())
	if err != nil {
		return nil, err
	}
	items := make([]ProcessedItem, 0, p.Items().Count())
	for _, i := range p.Items().All() {
		var txID value.TransactionID
		if t := i.LastTransaction(); t != nil {
			txID = t.TransactionID()
		}
		items = append(items, ProcessedItem{
			ItemID:         i.ItemID(),
			SubscriptionID: i.SubscriptionID(),
			IsCrossSale:    i.IsCrossSale(),
			TransactionID:  txID,
		})
	}
	return &Purchase{
		PurchaseID: p.PurchaseID(),
		MemberID:   p.MemberID(),
		SessionID:  p.SessionID(),
		Items:      items,
		Status:     status,
	}, nil
}

// FailedBillers reports which billers declined or aborted during the
// cascade, for post-completion diagnostics.
type FailedBillers struct {
	names []string
}

// FailedBillersFromItem collects the distinct biller names of every failed
// attempt on one item's ledger, in attempt order.
func FailedBillersFromItem(i *item.InitializedItem) *FailedBillers {
	f := &FailedBillers{}
	if i == nil {
		return f
	}
	seen := make(map[string]bool)
	for _, t := range i.Transactions().All() {
		if !t.IsDeclined() && !t.IsAborted() {
			continue
		}
		if seen[t.BillerName()] {
			continue
		}
		seen[t.BillerName()] = true
		f.names = append(f.names, t.BillerName())
	}
	return f
}

func (f *FailedBillers) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

func (f *FailedBillers) IsEmpty() bool { return len(f.names) == 0 }
