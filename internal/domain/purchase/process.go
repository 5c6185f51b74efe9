package purchase

import (
	"errors"

	"github.com/probiller/purchase-gateway/internal/domain/cascade"
	"github.com/probiller/purchase-gateway/internal/domain/fraud"
	"github.com/probiller/purchase-gateway/internal/domain/item"
	"github.com/probiller/purchase-gateway/internal/domain/value"
)

// ErrMissingFraudAdvice guards state decisions that require fraud advice to
// have been attached first.
var ErrMissingFraudAdvice = errors.New("no fraud advice attached to purchase process")

// Process is the session-scoped purchase aggregate. One instance is
// reconstructed from the persisted session at the start of each HTTP
// interaction, mutated synchronously, then re-serialized.
type Process struct {
	sessionID      value.SessionID
	atlasFields    AtlasFields
	publicKeyIndex int
	userInfo       UserInfo
	paymentInfo    PaymentInfo

	items *item.Collection

	memberID       value.MemberID
	purchaseID     value.PurchaseID
	subscriptionID value.SubscriptionID

	entrySiteID value.SiteID
	currency    string

	state   State
	cascade *cascade.Cascade

	fraudAdvice          *fraud.Advice
	nuDataSettings       fraud.NuDataSettings
	fraudRecommendations *fraud.RecommendationCollection

	paymentTemplates  *PaymentTemplateCollection
	paymentTemplateID string

	gatewaySubmitNumber int
	isExpired           bool
	existingMember      bool

	redirectURL   string
	postbackURL   string
	paymentMethod string
	trafficSource string

	skipVoid                 bool
	creditCardWasBlacklisted bool
}

// CreateParams carries the init-request fields a fresh process starts from.
type CreateParams struct {
	AtlasFields    AtlasFields
	PublicKeyIndex int
	UserInfo       UserInfo
	PaymentInfo    PaymentInfo
	EntrySiteID    value.SiteID
	Currency       string
	Cascade        *cascade.Cascade
	NuDataSettings fraud.NuDataSettings
	RedirectURL    string
	PostbackURL    string
	PaymentMethod  string
	TrafficSource  string
}

// Create opens a fresh session in the Created state.
func Create(p CreateParams) *Process {
	return &Process{
		sessionID:            value.NewSessionID(),
		atlasFields:          p.AtlasFields,
		publicKeyIndex:       p.PublicKeyIndex,
		userInfo:             p.UserInfo,
		paymentInfo:          p.PaymentInfo,
		items:                item.NewCollection(),
		entrySiteID:          p.EntrySiteID,
		currency:             p.Currency,
		state:                NewCreated(),
		cascade:              p.Cascade,
		nuDataSettings:       p.NuDataSettings,
		fraudRecommendations: fraud.NewRecommendationCollection(),
		paymentTemplates:     NewPaymentTemplateCollection(),
		redirectURL:          p.RedirectURL,
		postbackURL:          p.PostbackURL,
		paymentMethod:        p.PaymentMethod,
		trafficSource:        p.TrafficSource,
	}
}

func (p *Process) SessionID() value.SessionID           { return p.sessionID }
func (p *Process) AtlasFields() AtlasFields             { return p.atlasFields }
func (p *Process) PublicKeyIndex() int                  { return p.publicKeyIndex }
func (p *Process) UserInfo() UserInfo                   { return p.userInfo }
func (p *Process) PaymentInfo() PaymentInfo             { return p.paymentInfo }
func (p *Process) Items() *item.Collection              { return p.items }
func (p *Process) EntrySiteID() value.SiteID            { return p.entrySiteID }
func (p *Process) Currency() string                     { return p.currency }
func (p *Process) State() State                         { return p.state }
func (p *Process) Cascade() *cascade.Cascade            { return p.cascade }
func (p *Process) FraudAdvice() *fraud.Advice           { return p.fraudAdvice }
func (p *Process) NuDataSettings() fraud.NuDataSettings { return p.nuDataSettings }
func (p *Process) GatewaySubmitNumber() int             { return p.gatewaySubmitNumber }
func (p *Process) IsExpired() bool                      { return p.isExpired }
func (p *Process) IsExistingMember() bool               { return p.existingMember }
func (p *Process) RedirectURL() string                  { return p.redirectURL }
func (p *Process) PostbackURL() string                  { return p.postbackURL }
func (p *Process) PaymentMethod() string                { return p.paymentMethod }
func (p *Process) TrafficSource() string                { return p.trafficSource }
func (p *Process) SkipVoid() bool                       { return p.skipVoid }
func (p *Process) PaymentTemplateID() string            { return p.paymentTemplateID }
func (p *Process) CreditCardWasBlacklisted() bool       { return p.creditCardWasBlacklisted }

func (p *Process) FraudRecommendations() *fraud.RecommendationCollection {
	return p.fraudRecommendations
}

func (p *Process) PaymentTemplates() *PaymentTemplateCollection { return p.paymentTemplates }

// MemberID is zero until BuildMemberID assigns one.
func (p *Process) MemberID() value.MemberID { return p.memberID }

// PurchaseID is zero until BuildPurchaseID assigns one.
func (p *Process) PurchaseID() value.PurchaseID { return p.purchaseID }

func (p *Process) SubscriptionID() value.SubscriptionID { return p.subscriptionID }

// AddItem appends a line item. The first item added is the main item by
// convention; all subsequent items are cross-sales.
func (p *Process) AddItem(i *item.InitializedItem) { p.items.Add(i) }

func (p *Process) SetFraudAdvice(a *fraud.Advice) { p.fraudAdvice = a }

func (p *Process) SetFraudRecommendations(c *fraud.RecommendationCollection) {
	if c == nil {
		c = fraud.NewRecommendationCollection()
	}
	p.fraudRecommendations = c
}

func (p *Process) SetPaymentTemplates(c *PaymentTemplateCollection) {
	if c == nil {
		c = NewPaymentTemplateCollection()
	}
	p.paymentTemplates = c
}

func (p *Process) SetPaymentTemplateID(id string)  { p.paymentTemplateID = id }
func (p *Process) SetExistingMember(existing bool) { p.existingMember = existing }
func (p *Process) SetSkipVoid(skip bool)           { p.skipVoid = skip }
func (p *Process) MarkCreditCardBlacklisted()      { p.creditCardWasBlacklisted = true }
func (p *Process) MarkExpired()                    { p.isExpired = true }

func (p *Process) SetSubscriptionID(id value.SubscriptionID) { p.subscriptionID = id }

// IncrementGatewaySubmitNumber counts one more submit across the whole
// gateway interaction, independent of the per-biller submit counter.
func (p *Process) IncrementGatewaySubmitNumber() { p.gatewaySubmitNumber++ }

// BuildMemberID assigns the member id once; repeated calls return the id
// built first.
func (p *Process) BuildMemberID() value.MemberID {
	if p.memberID.IsZero() {
		p.memberID = value.NewMemberID()
	}
	return p.memberID
}

// BuildPurchaseID assigns the purchase id once; repeated calls return the
// id built first.
func (p *Process) BuildPurchaseID() value.PurchaseID {
	if p.purchaseID.IsZero() {
		p.purchaseID = value.NewPurchaseID()
	}
	return p.purchaseID
}

// Transition wrappers keep the variant machine authoritative: every wrapper
// delegates to the current state and only commits the result on success.

func (p *Process) Validate() error              { return p.transition(State.Validate) }
func (p *Process) BlockDueToFraudAdvice() error { return p.transition(State.BlockDueToFraudAdvice) }
func (p *Process) StartProcessing() error       { return p.transition(State.StartProcessing) }
func (p *Process) StartPending() error          { return p.transition(State.StartPending) }
func (p *Process) Redirect() error              { return p.transition(State.Redirect) }
func (p *Process) FinishProcessing() error      { return p.transition(State.FinishProcessing) }
func (p *Process) ExhaustCascadeBillers() error { return p.transition(State.ExhaustCascadeBillers) }
func (p *Process) PerformThreeDLookup() error   { return p.transition(State.PerformThreeDLookup) }
func (p *Process) AuthenticateThreeD() error    { return p.transition(State.AuthenticateThreeD) }

func (p *Process) transition(op func(State) (State, error)) error {
	next, err := op(p.state)
	if err != nil {
		return err
	}
	p.state = next
	return nil
}

// InitStateAccordingToFraudAdvice settles the post-init state: blocked when
// the init advice asks for a captcha or blacklists the session, valid
// otherwise. Requires fraud advice to have been attached.
func (p *Process) InitStateAccordingToFraudAdvice() error {
	if p.fraudAdvice == nil {
		return ErrMissingFraudAdvice
	}
	if p.fraudAdvice.IsInitCaptchaAdvised() || p.fraudAdvice.IsBlacklistedOnInit() {
		return p.BlockDueToFraudAdvice()
	}
	return p.Validate()
}

// PostProcessing settles the state after one biller attempt on the main
// item. An NSF decline is terminal: no cascade retry regardless of
// remaining billers. Success finishes processing, a pending attempt parks
// the session, and any other failure re-validates for another cascade pass.
func (p *Process) PostProcessing() error {
	if p.items.IsMainItemLastTransactionNsf() {
		return nil
	}
	if p.items.WasMainItemPurchaseSuccessful() {
		return p.FinishProcessing()
	}
	if p.items.WasMainItemPurchasePending() {
		return p.StartPending()
	}
	return p.Validate()
}

// IsFraud aggregates every signal that marks the session fraudulent.
func (p *Process) IsFraud() bool {
	if p.fraudRecommendations.HasHardBlock() {
		return true
	}
	if p.fraudAdvice == nil {
		return false
	}
	return p.fraudAdvice.IsBlacklistedOnProcess() ||
		p.fraudAdvice.IsBlacklistedOnInit() ||
		!p.fraudAdvice.IsCaptchaValidated()
}

// ShouldBlockProcess is the gate consulted before any biller attempt.
func (p *Process) ShouldBlockProcess() bool {
	if p.fraudRecommendations.HasHardBlock() {
		return true
	}
	return p.fraudAdvice != nil && p.fraudAdvice.ShouldBlockProcess()
}

// FilterBillersIfThreeDAdvised drops non-3DS billers from the cascade when
// the advice forces or detects 3DS. No-op without advice or 3DS signals.
func (p *Process) FilterBillersIfThreeDAdvised() error {
	if p.fraudAdvice == nil {
		return nil
	}
	if !p.fraudAdvice.IsForceThreeD() && !p.fraudAdvice.IsDetectThreeD() {
		return nil
	}
	return p.cascade.RemoveNonThreeDSBillers()
}
