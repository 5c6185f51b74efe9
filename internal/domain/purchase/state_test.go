package purchase

import (
	"errors"
	"testing"
)

func TestCreatedTransitions(t *testing.T) {
	created := NewCreated()

	valid, err := created.Validate()
	if err != nil {
		t.Fatalf("Created.Validate: %v", err)
	}
	if valid.Name() != StateValid {
		t.Fatalf("state: want=%q got=%q", StateValid, valid.Name())
	}

	blocked, err := created.BlockDueToFraudAdvice()
	if err != nil {
		t.Fatalf("Created.BlockDueToFraudAdvice: %v", err)
	}
	if blocked.Name() != StateBlockedDueToFraudAdvice {
		t.Fatalf("state: want=%q got=%q", StateBlockedDueToFraudAdvice, blocked.Name())
	}
}

func TestCreatedIllegalTransitions(t *testing.T) {
	created := NewCreated()
	illegalOps := map[string]func() (State, error){
		"startProcessing":     created.StartProcessing,
		"finishProcessing":    created.FinishProcessing,
		"startPending":        created.StartPending,
		"redirect":            created.Redirect,
		"authenticateThreeD":  created.AuthenticateThreeD,
		"performThreeDLookup": created.PerformThreeDLookup,
	}
	for name, op := range illegalOps {
		if _, err := op(); !errors.Is(err, ErrIllegalStateTransition) {
			t.Fatalf("Created.%s: want ErrIllegalStateTransition, got %v", name, err)
		}
	}
}

func TestValidTransitions(t *testing.T) {
	valid, err := NewCreated().Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cases := []struct {
		op   func() (State, error)
		want string
	}{
		{valid.Validate, StateValid},
		{valid.StartProcessing, StateProcessing},
		{valid.StartPending, StatePending},
		{valid.Redirect, StateRedirected},
		{valid.BlockDueToFraudAdvice, StateBlockedDueToFraudAdvice},
		{valid.ExhaustCascadeBillers, StateCascadeBillersExhausted},
		{valid.PerformThreeDLookup, StatePending},
	}
	for _, tc := range cases {
		next, err := tc.op()
		if err != nil {
			t.Fatalf("valid transition to %q: %v", tc.want, err)
		}
		if next.Name() != tc.want {
			t.Fatalf("state: want=%q got=%q", tc.want, next.Name())
		}
	}

	if _, err := valid.FinishProcessing(); !errors.Is(err, ErrIllegalStateTransition) {
		t.Fatalf("Valid.finishProcessing: want ErrIllegalStateTransition, got %v", err)
	}
}

func TestProcessingFinishes(t *testing.T) {
	var s State = newProcessing()
	next, err := s.FinishProcessing()
	if err != nil {
		t.Fatalf("Processing.FinishProcessing: %v", err)
	}
	if next.Name() != StateProcessed {
		t.Fatalf("state: want=%q got=%q", StateProcessed, next.Name())
	}
	if _, err := s.Validate(); !errors.Is(err, ErrIllegalStateTransition) {
		t.Fatalf("Processing.validate: want ErrIllegalStateTransition, got %v", err)
	}
}

func TestPendingAuthenticates(t *testing.T) {
	var s State = newPending()
	next, err := s.AuthenticateThreeD()
	if err != nil {
		t.Fatalf("Pending.AuthenticateThreeD: %v", err)
	}
	if next.Name() != StateProcessing {
		t.Fatalf("state: want=%q got=%q", StateProcessing, next.Name())
	}
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	terminals := []State{newProcessed(), newBlockedDueToFraudAdvice(), newCascadeBillersExhausted()}
	for _, s := range terminals {
		if !s.IsTerminal() {
			t.Fatalf("%s: expected terminal", s.Name())
		}
		if _, err := s.Validate(); !errors.Is(err, ErrIllegalStateTransition) {
			t.Fatalf("%s.validate: want ErrIllegalStateTransition, got %v", s.Name(), err)
		}
		if _, err := s.FinishProcessing(); !errors.Is(err, ErrIllegalStateTransition) {
			t.Fatalf("%s.finishProcessing: want ErrIllegalStateTransition, got %v", s.Name(), err)
		}
	}
}

func TestStateFromName(t *testing.T) {
	names := []string{
		StateCreated, StateValid, StateProcessing, StatePending,
		StateRedirected, StateProcessed, StateBlockedDueToFraudAdvice,
		StateCascadeBillersExhausted,
	}
	for _, name := range names {
		s, err := StateFromName(name)
		if err != nil {
			t.Fatalf("StateFromName(%q): %v", name, err)
		}
		if s.Name() != name {
			t.Fatalf("round trip: want=%q got=%q", name, s.Name())
		}
	}
	if _, err := StateFromName("authorized"); err == nil {
		t.Fatalf("StateFromName: expected error for unknown name")
	}
}

func TestIllegalTransitionErrorNamesStateAndOp(t *testing.T) {
	_, err := NewCreated().StartProcessing()
	if err == nil {
		t.Fatalf("expected error")
	}
	want := "created.startProcessing: illegal state transition"
	if err.Error() != want {
		t.Fatalf("error message: want=%q got=%q", want, err.Error())
	}
}
