package realtime

// Event types published on the purchase bus.
const (
	EventPurchaseProcessed    = "purchase.processed"
	EventPurchasePending      = "purchase.pending"
	EventPurchaseBlocked      = "purchase.blocked"
	EventPaymentTemplateRetry = "payment_template.retry"
)

// PurchaseEvent is the wire shape of one bus message. Payload carries the
// event-specific body; consumers switch on Type.
type PurchaseEvent struct {
	Type      string         `json:"type"`
	SessionID string         `json:"sessionId"`
	MemberID  string         `json:"memberId,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
}
