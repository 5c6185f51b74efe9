package fraud

import (
	"errors"
	"testing"
)

func TestIsCaptchaValidatedTrueWhenNothingAdvised(t *testing.T) {
	a := NewAdvice("10.0.0.1", "user@test.mindgeek.com", "H4X 8L4", "411111")
	if !a.IsCaptchaValidated() {
		t.Fatalf("fresh advice: expected captcha validated")
	}
}

func TestIsCaptchaValidatedFalseWhenInitAdvisedUnvalidated(t *testing.T) {
	a := NewAdvice("", "", "", "")
	a.MarkInitCaptchaAdvised()
	if a.IsCaptchaValidated() {
		t.Fatalf("advised init captcha: expected not validated")
	}
	a.ValidateInitCaptcha()
	if !a.IsCaptchaValidated() {
		t.Fatalf("after validation: expected validated")
	}
}

func TestIsCaptchaValidatedShortCircuitsAfterAnyValidation(t *testing.T) {
	a := NewAdvice("", "", "", "")
	a.MarkInitCaptchaAdvised()
	a.ValidateInitCaptcha()
	// A later process-phase advise does not re-open the gate.
	a.MarkProcessCaptchaAdvised()
	if !a.IsCaptchaValidated() {
		t.Fatalf("expected captchaAlreadyValidated to short-circuit")
	}
}

func TestValidateProcessCaptchaRequiresInitCaptcha(t *testing.T) {
	a := NewAdvice("", "", "", "")
	a.MarkProcessCaptchaAdvised()
	err := a.ValidateProcessCaptcha()
	if !errors.Is(err, ErrCannotValidateProcessCaptchaWithoutInitCaptcha) {
		t.Fatalf("ValidateProcessCaptcha: want ordering error, got %v", err)
	}

	a.MarkInitCaptchaAdvised()
	if err := a.ValidateProcessCaptcha(); err != nil {
		t.Fatalf("ValidateProcessCaptcha after init advised: %v", err)
	}
}

func TestShouldBlockProcessFreshAdvice(t *testing.T) {
	a := NewAdvice("", "", "", "")
	if a.ShouldBlockProcess() {
		t.Fatalf("fresh advice should not block")
	}
}

func TestShouldBlockProcessBlacklistThreshold(t *testing.T) {
	a := NewAdvice("", "", "", "")
	a.MarkBlacklistedOnProcess()
	// One mark with zero recorded repeats is first-offense grace.
	if a.ShouldBlockProcess() {
		t.Fatalf("single blacklist mark with zero repeats should not block")
	}
	a.IncreaseTimesBlacklisted()
	if !a.ShouldBlockProcess() {
		t.Fatalf("blacklist mark with one repeat should block")
	}
}

func TestShouldBlockProcessOnInitBlacklist(t *testing.T) {
	a := NewAdvice("", "", "", "")
	a.MarkBlacklistedOnInit()
	if !a.ShouldBlockProcess() {
		t.Fatalf("init blacklist should block")
	}
}

func TestShouldBlockProcessOnUnvalidatedCaptcha(t *testing.T) {
	a := NewAdvice("", "", "", "")
	a.MarkInitCaptchaAdvised()
	if !a.ShouldBlockProcess() {
		t.Fatalf("unvalidated captcha should block")
	}
	a.ValidateInitCaptcha()
	if a.ShouldBlockProcess() {
		t.Fatalf("validated captcha should not block")
	}
}

func TestAddProcessFraudAdviceKeepsInitAndOverlaysProcess(t *testing.T) {
	base := NewAdvice("10.0.0.1", "old@test.mindgeek.com", "11111", "411111")
	base.MarkInitCaptchaAdvised()
	base.ValidateInitCaptcha()

	incoming := NewAdvice("10.0.0.2", "new@test.mindgeek.com", "", "511111")
	incoming.MarkProcessCaptchaAdvised()
	incoming.MarkBlacklistedOnProcess()

	merged := base.AddProcessFraudAdvice(incoming)

	if !merged.IsInitCaptchaAdvised() || !merged.IsInitCaptchaValidated() {
		t.Fatalf("init flags lost in merge")
	}
	if !merged.IsProcessCaptchaAdvised() {
		t.Fatalf("process captcha flag not overlaid")
	}
	if !merged.IsBlacklistedOnProcess() {
		t.Fatalf("process blacklist flag not overlaid")
	}
	if merged.Email() != "new@test.mindgeek.com" {
		t.Fatalf("email: want new value, got %q", merged.Email())
	}
	if merged.Zip() != "11111" {
		t.Fatalf("zip: empty incoming value must not clear, got %q", merged.Zip())
	}
	if merged.Bin() != "511111" {
		t.Fatalf("bin: want=511111 got %q", merged.Bin())
	}
	// The receiver is untouched.
	if base.IsBlacklistedOnProcess() {
		t.Fatalf("merge mutated receiver")
	}
}

func TestChangedFraudFields(t *testing.T) {
	a := NewAdvice("10.0.0.1", "user@test.mindgeek.com", "11111", "411111")

	changed := a.ChangedFraudFields("user@test.mindgeek.com", "11111", "411111")
	if len(changed) != 0 {
		t.Fatalf("no change expected, got %v", changed)
	}

	changed = a.ChangedFraudFields("other@test.mindgeek.com", "22222", "411111")
	if len(changed) != 2 {
		t.Fatalf("changed fields: want=2 got=%v", changed)
	}
	if changed[0] != "email" || changed[1] != "zip" {
		t.Fatalf("changed fields: got=%v", changed)
	}
}

func TestAdviceSnapshotRoundTrip(t *testing.T) {
	a := NewAdvice("10.0.0.1", "user@test.mindgeek.com", "H4X 8L4", "411111")
	a.MarkInitCaptchaAdvised()
	a.ValidateInitCaptcha()
	a.MarkBlacklistedOnProcess()
	a.IncreaseTimesBlacklisted()
	a.MarkForceThreeD()

	restored := AdviceFromSnapshot(a.ToSnapshot())
	if restored.Email() != a.Email() || restored.IP() != a.IP() {
		t.Fatalf("identity fields lost in round trip")
	}
	if !restored.IsInitCaptchaAdvised() || !restored.IsInitCaptchaValidated() {
		t.Fatalf("captcha flags lost in round trip")
	}
	if !restored.IsCaptchaValidated() {
		t.Fatalf("captchaAlreadyValidated lost in round trip")
	}
	if restored.TimesBlacklisted() != 1 {
		t.Fatalf("timesBlacklisted: want=1 got=%d", restored.TimesBlacklisted())
	}
	if !restored.IsForceThreeD() {
		t.Fatalf("forceThreeD lost in round trip")
	}
}
