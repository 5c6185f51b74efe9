package value

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a non-negative monetary value. Arithmetic stays on decimal to
// avoid float drift across tax breakdowns.
type Amount struct {
	v decimal.Decimal
}

func NewAmount(v decimal.Decimal) (Amount, error) {
	if v.IsNegative() {
		return Amount{}, fmt.Errorf("amount %s: %w", v.String(), ErrInvalidAmount)
	}
	return Amount{v: v}, nil
}

func NewAmountFromFloat(v float64) (Amount, error) {
	return NewAmount(decimal.NewFromFloat(v))
}

func MustAmount(v float64) Amount {
	a, err := NewAmountFromFloat(v)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Decimal() decimal.Decimal { return a.v }
func (a Amount) Float64() float64         { f, _ := a.v.Float64(); return f }
func (a Amount) IsZero() bool             { return a.v.IsZero() }
func (a Amount) Equal(o Amount) bool      { return a.v.Equal(o.v) }

// String renders with two decimal places for wire payloads.
func (a Amount) String() string { return a.v.StringFixed(2) }

// ChargeInformation describes the initial charge and optional rebill cycle
// of one line item.
type ChargeInformation struct {
	InitialAmount Amount
	InitialDays   int
	RebillAmount  Amount
	RebillDays    int
	hasRebill     bool
}

// NewChargeInformation builds a recurring charge: an initial period followed
// by a rebill cycle.
func NewChargeInformation(initialAmount Amount, initialDays int, rebillAmount Amount, rebillDays int) (ChargeInformation, error) {
	if initialDays <= 0 {
		return ChargeInformation{}, fmt.Errorf("initial days %d: %w", initialDays, ErrInvalidDuration)
	}
	if rebillDays <= 0 {
		return ChargeInformation{}, fmt.Errorf("rebill days %d: %w", rebillDays, ErrInvalidDuration)
	}
	return ChargeInformation{
		InitialAmount: initialAmount,
		InitialDays:   initialDays,
		RebillAmount:  rebillAmount,
		RebillDays:    rebillDays,
		hasRebill:     true,
	}, nil
}

// NewSingleChargeInformation builds a one-off charge with no rebill cycle.
func NewSingleChargeInformation(initialAmount Amount, initialDays int) (ChargeInformation, error) {
	if initialDays <= 0 {
		return ChargeInformation{}, fmt.Errorf("initial days %d: %w", initialDays, ErrInvalidDuration)
	}
	return ChargeInformation{InitialAmount: initialAmount, InitialDays: initialDays}, nil
}

func (c ChargeInformation) HasRebill() bool { return c.hasRebill }
