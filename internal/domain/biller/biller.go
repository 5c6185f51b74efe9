package biller

import (
	"errors"
	"fmt"
	"strings"
)

// Closed set of biller names. Anything else is stale or foreign
// configuration and is rejected wherever a biller is resolved by name.
const (
	RocketgateName = "rocketgate"
	NetbillingName = "netbilling"
	EpochName      = "epoch"
	QyssoName      = "qysso"
)

var (
	// ErrUnknownBillerName rejects biller names outside the closed set.
	ErrUnknownBillerName = errors.New("unknown biller name")
	// ErrBillerNotSupported flags a biller that cannot serve the requested operation.
	ErrBillerNotSupported = errors.New("biller not supported")
)

// Biller is the capability set of one external payment provider. Instances
// are immutable except for Qysso's payment-method list.
type Biller interface {
	ID() string
	Name() string
	IsThirdParty() bool
	IsThreeDSupported() bool
	// MaxSubmits is how many attempts the cascade may run against this
	// biller before advancing to the next one.
	MaxSubmits() int
	// AvailablePaymentMethods is non-empty only for billers exposing a
	// dynamic list of alternative payment methods.
	AvailablePaymentMethods() []string
}

// ByName resolves one of the known billers. The returned instance is fresh;
// callers owning a mutable variant (Qysso) get their own copy.
func ByName(name string) (Biller, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case RocketgateName:
		return NewRocketgate(), nil
	case NetbillingName:
		return NewNetbilling(), nil
	case EpochName:
		return NewEpoch(), nil
	case QyssoName:
		return NewQysso(), nil
	default:
		return nil, fmt.Errorf("biller %q: %w", name, ErrUnknownBillerName)
	}
}

// Rocketgate is the primary card processor. It supports 3DS and allows a
// second submit on the same card before the cascade advances.
type Rocketgate struct{}

func NewRocketgate() *Rocketgate { return &Rocketgate{} }

func (*Rocketgate) ID() string                        { return "23" }
func (*Rocketgate) Name() string                      { return RocketgateName }
func (*Rocketgate) IsThirdParty() bool                { return false }
func (*Rocketgate) IsThreeDSupported() bool           { return true }
func (*Rocketgate) MaxSubmits() int                   { return 2 }
func (*Rocketgate) AvailablePaymentMethods() []string { return nil }

// Netbilling is the secondary card processor.
type Netbilling struct{}

func NewNetbilling() *Netbilling { return &Netbilling{} }

func (*Netbilling) ID() string                        { return "2" }
func (*Netbilling) Name() string                      { return NetbillingName }
func (*Netbilling) IsThirdParty() bool                { return false }
func (*Netbilling) IsThreeDSupported() bool           { return false }
func (*Netbilling) MaxSubmits() int                   { return 1 }
func (*Netbilling) AvailablePaymentMethods() []string { return nil }

// Epoch is a redirect-based third-party biller.
type Epoch struct{}

func NewEpoch() *Epoch { return &Epoch{} }

func (*Epoch) ID() string                        { return "17" }
func (*Epoch) Name() string                      { return EpochName }
func (*Epoch) IsThirdParty() bool                { return true }
func (*Epoch) IsThreeDSupported() bool           { return false }
func (*Epoch) MaxSubmits() int                   { return 1 }
func (*Epoch) AvailablePaymentMethods() []string { return nil }

// Qysso is a redirect-based third-party biller carrying a dynamic list of
// enabled alternative payment methods.
type Qysso struct {
	paymentMethods []string
}

func NewQysso(paymentMethods ...string) *Qysso {
	return &Qysso{paymentMethods: paymentMethods}
}

func (*Qysso) ID() string              { return "25" }
func (*Qysso) Name() string            { return QyssoName }
func (*Qysso) IsThirdParty() bool      { return true }
func (*Qysso) IsThreeDSupported() bool { return false }
func (*Qysso) MaxSubmits() int         { return 1 }

func (q *Qysso) AvailablePaymentMethods() []string { return q.paymentMethods }

func (q *Qysso) SetAvailablePaymentMethods(methods []string) { q.paymentMethods = methods }
