package purchase

import (
	"errors"
	"fmt"
)

// ErrIllegalStateTransition flags any transition not enumerated for the
// current state. Always a programming/ordering error, never ignored.
var ErrIllegalStateTransition = errors.New("illegal state transition")

// State names as persisted in session snapshots.
const (
	StateCreated                 = "created"
	StateValid                   = "valid"
	StateProcessing              = "processing"
	StatePending                 = "pending"
	StateRedirected              = "redirected"
	StateProcessed               = "processed"
	StateBlockedDueToFraudAdvice = "blockedDueToFraudAdvice"
	StateCascadeBillersExhausted = "cascadeBillersExhausted"
)

// State is the closed variant set of the purchase lifecycle. Every variant
// carries the full transition method set; a variant not enumerating a
// transition inherits the illegal-transition failure, so legality lives in
// the type, not in runtime branching.
type State interface {
	Name() string
	IsTerminal() bool

	Validate() (State, error)
	BlockDueToFraudAdvice() (State, error)
	StartProcessing() (State, error)
	StartPending() (State, error)
	Redirect() (State, error)
	FinishProcessing() (State, error)
	ExhaustCascadeBillers() (State, error)
	PerformThreeDLookup() (State, error)
	AuthenticateThreeD() (State, error)
}

func NewCreated() Created       { return Created{illegal{StateCreated}} }
func newValid() Valid           { return Valid{illegal{StateValid}} }
func newProcessing() Processing { return Processing{illegal{StateProcessing}} }
func newPending() Pending       { return Pending{illegal{StatePending}} }
func newRedirected() Redirected { return Redirected{illegal{StateRedirected}} }
func newProcessed() Processed   { return Processed{illegal{StateProcessed}} }
func newBlockedDueToFraudAdvice() BlockedDueToFraudAdvice {
	return BlockedDueToFraudAdvice{illegal{StateBlockedDueToFraudAdvice}}
}
func newCascadeBillersExhausted() CascadeBillersExhausted {
	return CascadeBillersExhausted{illegal{StateCascadeBillersExhausted}}
}

// StateFromName resolves a persisted state name.
func StateFromName(name string) (State, error) {
	switch name {
	case StateCreated:
		return NewCreated(), nil
	case StateValid:
		return newValid(), nil
	case StateProcessing:
		return newProcessing(), nil
	case StatePending:
		return newPending(), nil
	case StateRedirected:
		return newRedirected(), nil
	case StateProcessed:
		return newProcessed(), nil
	case StateBlockedDueToFraudAdvice:
		return newBlockedDueToFraudAdvice(), nil
	case StateCascadeBillersExhausted:
		return newCascadeBillersExhausted(), nil
	default:
		return nil, fmt.Errorf("unknown purchase state %q", name)
	}
}

// illegal is the shared failure for non-enumerated transitions.
type illegal struct{ name string }

func (i illegal) fail(op string) (State, error) {
	return nil, fmt.Errorf("%s.%s: %w", i.name, op, ErrIllegalStateTransition)
}

func (i illegal) Validate() (State, error)              { return i.fail("validate") }
func (i illegal) BlockDueToFraudAdvice() (State, error) { return i.fail("blockDueToFraudAdvice") }
func (i illegal) StartProcessing() (State, error)       { return i.fail("startProcessing") }
func (i illegal) StartPending() (State, error)          { return i.fail("startPending") }
func (i illegal) Redirect() (State, error)              { return i.fail("redirect") }
func (i illegal) FinishProcessing() (State, error)      { return i.fail("finishProcessing") }
func (i illegal) ExhaustCascadeBillers() (State, error) { return i.fail("exhaustCascadeBillers") }
func (i illegal) PerformThreeDLookup() (State, error)   { return i.fail("performThreeDLookup") }
func (i illegal) AuthenticateThreeD() (State, error)    { return i.fail("authenticateThreeD") }

// Created is the only initial state.
type Created struct{ illegal }

func (Created) Name() string     { return StateCreated }
func (Created) IsTerminal() bool { return false }

func (Created) Validate() (State, error)              { return newValid(), nil }
func (Created) BlockDueToFraudAdvice() (State, error) { return newBlockedDueToFraudAdvice(), nil }

// Valid is a session cleared for a biller attempt.
type Valid struct{ illegal }

func (Valid) Name() string     { return StateValid }
func (Valid) IsTerminal() bool { return false }

func (Valid) Validate() (State, error)              { return newValid(), nil }
func (Valid) BlockDueToFraudAdvice() (State, error) { return newBlockedDueToFraudAdvice(), nil }
func (Valid) StartProcessing() (State, error)       { return newProcessing(), nil }
func (Valid) StartPending() (State, error)          { return newPending(), nil }
func (Valid) Redirect() (State, error)              { return newRedirected(), nil }
func (Valid) ExhaustCascadeBillers() (State, error) { return newCascadeBillersExhausted(), nil }
func (Valid) PerformThreeDLookup() (State, error)   { return newPending(), nil }

// Processing is a biller attempt in flight.
type Processing struct{ illegal }

func (Processing) Name() string     { return StateProcessing }
func (Processing) IsTerminal() bool { return false }

func (Processing) FinishProcessing() (State, error) { return newProcessed(), nil }

// Pending is a session parked on a 3DS challenge.
type Pending struct{ illegal }

func (Pending) Name() string     { return StatePending }
func (Pending) IsTerminal() bool { return false }

func (Pending) AuthenticateThreeD() (State, error) { return newProcessing(), nil }

// Redirected is a session parked on a third-party biller return.
type Redirected struct{ illegal }

func (Redirected) Name() string     { return StateRedirected }
func (Redirected) IsTerminal() bool { return false }

func (Redirected) StartProcessing() (State, error) { return newProcessing(), nil }

// Processed is the successful terminal state.
type Processed struct{ illegal }

func (Processed) Name() string     { return StateProcessed }
func (Processed) IsTerminal() bool { return true }

// BlockedDueToFraudAdvice is the fraud-blocked terminal state.
type BlockedDueToFraudAdvice struct{ illegal }

func (BlockedDueToFraudAdvice) Name() string     { return StateBlockedDueToFraudAdvice }
func (BlockedDueToFraudAdvice) IsTerminal() bool { return true }

// CascadeBillersExhausted is the cascade-exhausted terminal state.
type CascadeBillersExhausted struct{ illegal }

func (CascadeBillersExhausted) Name() string     { return StateCascadeBillersExhausted }
func (CascadeBillersExhausted) IsTerminal() bool { return true }
