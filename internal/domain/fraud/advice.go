package fraud

import "errors"

// ErrCannotValidateProcessCaptchaWithoutInitCaptcha guards captcha ordering:
// the process-phase captcha can only be validated after the init-phase
// captcha was requested.
var ErrCannotValidateProcessCaptchaWithoutInitCaptcha = errors.New("cannot validate process captcha without init captcha")

// Advice holds the per-session fraud signals gathered at init time and
// layered over at process time.
type Advice struct {
	ip    string
	email string
	zip   string
	bin   string

	initCaptchaAdvised      bool
	initCaptchaValidated    bool
	processCaptchaAdvised   bool
	processCaptchaValidated bool
	captchaAlreadyValidated bool

	blacklistedOnInit    bool
	blacklistedOnProcess bool
	timesBlacklisted     int

	forceThreeD  bool
	detectThreeD bool
}

func NewAdvice(ip, email, zip, bin string) *Advice {
	return &Advice{ip: ip, email: email, zip: zip, bin: bin}
}

func (a *Advice) IP() string    { return a.ip }
func (a *Advice) Email() string { return a.email }
func (a *Advice) Zip() string   { return a.zip }
func (a *Advice) Bin() string   { return a.bin }

func (a *Advice) IsInitCaptchaAdvised() bool      { return a.initCaptchaAdvised }
func (a *Advice) IsInitCaptchaValidated() bool    { return a.initCaptchaValidated }
func (a *Advice) IsProcessCaptchaAdvised() bool   { return a.processCaptchaAdvised }
func (a *Advice) IsProcessCaptchaValidated() bool { return a.processCaptchaValidated }
func (a *Advice) IsBlacklistedOnInit() bool       { return a.blacklistedOnInit }
func (a *Advice) IsBlacklistedOnProcess() bool    { return a.blacklistedOnProcess }
func (a *Advice) TimesBlacklisted() int           { return a.timesBlacklisted }
func (a *Advice) IsForceThreeD() bool             { return a.forceThreeD }
func (a *Advice) IsDetectThreeD() bool            { return a.detectThreeD }

func (a *Advice) MarkInitCaptchaAdvised()    { a.initCaptchaAdvised = true }
func (a *Advice) MarkProcessCaptchaAdvised() { a.processCaptchaAdvised = true }
func (a *Advice) MarkBlacklistedOnInit()     { a.blacklistedOnInit = true }
func (a *Advice) MarkBlacklistedOnProcess()  { a.blacklistedOnProcess = true }
func (a *Advice) MarkForceThreeD()           { a.forceThreeD = true }
func (a *Advice) MarkDetectThreeD()          { a.detectThreeD = true }

func (a *Advice) IncreaseTimesBlacklisted() { a.timesBlacklisted++ }

// ValidateInitCaptcha records a successful init-phase captcha challenge.
func (a *Advice) ValidateInitCaptcha() {
	a.initCaptchaValidated = true
	a.captchaAlreadyValidated = true
}

// ValidateProcessCaptcha records a successful process-phase captcha
// challenge. It requires the init-phase captcha to have been requested.
func (a *Advice) ValidateProcessCaptcha() error {
	if !a.initCaptchaAdvised {
		return ErrCannotValidateProcessCaptchaWithoutInitCaptcha
	}
	a.processCaptchaValidated = true
	a.captchaAlreadyValidated = true
	return nil
}

// IsCaptchaValidated is true when no captcha was advised at all, or when an
// advised captcha was validated. Any past validation short-circuits to true.
func (a *Advice) IsCaptchaValidated() bool {
	if a.captchaAlreadyValidated {
		return true
	}
	if a.initCaptchaAdvised && !a.initCaptchaValidated {
		return false
	}
	if a.processCaptchaAdvised && !a.processCaptchaValidated {
		return false
	}
	return true
}

// ShouldBlockProcess is the process-phase gate: blacklisted at init, an
// unvalidated captcha, or a process blacklist mark with at least one
// recorded repeat. A single mark with zero repeats does not block.
func (a *Advice) ShouldBlockProcess() bool {
	if a.blacklistedOnInit {
		return true
	}
	if !a.IsCaptchaValidated() {
		return true
	}
	return a.blacklistedOnProcess && a.timesBlacklisted >= 1
}

// AddProcessFraudAdvice merges process-time advice over this one: every
// init-phase flag and value of the receiver is retained; process-phase
// flags and changed identity fields come from the new advice.
func (a *Advice) AddProcessFraudAdvice(newAdvice *Advice) *Advice {
	if newAdvice == nil {
		return a
	}
	merged := *a
	merged.processCaptchaAdvised = newAdvice.processCaptchaAdvised
	merged.processCaptchaValidated = newAdvice.processCaptchaValidated
	merged.blacklistedOnProcess = newAdvice.blacklistedOnProcess
	merged.forceThreeD = merged.forceThreeD || newAdvice.forceThreeD
	merged.detectThreeD = merged.detectThreeD || newAdvice.detectThreeD
	if newAdvice.email != "" {
		merged.email = newAdvice.email
	}
	if newAdvice.zip != "" {
		merged.zip = newAdvice.zip
	}
	if newAdvice.bin != "" {
		merged.bin = newAdvice.bin
	}
	return &merged
}

// ChangedFraudFields reports which identity fields differ from the advice's
// current values. A non-empty result warrants a fresh fraud score.
func (a *Advice) ChangedFraudFields(email, zip, bin string) []string {
	var changed []string
	if email != "" && email != a.email {
		changed = append(changed, "email")
	}
	if zip != "" && zip != a.zip {
		changed = append(changed, "zip")
	}
	if bin != "" && bin != a.bin {
		changed = append(changed, "bin")
	}
	return changed
}
