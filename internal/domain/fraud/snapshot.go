package fraud

// ToSnapshot flattens the advice for session persistence.
func (a *Advice) ToSnapshot() map[string]any {
	return map[string]any{
		"ip":                      a.ip,
		"email":                   a.email,
		"zip":                     a.zip,
		"bin":                     a.bin,
		"initCaptchaAdvised":      a.initCaptchaAdvised,
		"initCaptchaValidated":    a.initCaptchaValidated,
		"processCaptchaAdvised":   a.processCaptchaAdvised,
		"processCaptchaValidated": a.processCaptchaValidated,
		"captchaAlreadyValidated": a.captchaAlreadyValidated,
		"blacklistedOnInit":       a.blacklistedOnInit,
		"blacklistedOnProcess":    a.blacklistedOnProcess,
		"timesBlacklisted":        a.timesBlacklisted,
		"forceThreeD":             a.forceThreeD,
		"detectThreeD":            a.detectThreeD,
	}
}

// AdviceFromSnapshot rebuilds the advice from persisted session data.
func AdviceFromSnapshot(data map[string]any) *Advice {
	a := &Advice{}
	a.ip = stringField(data, "ip")
	a.email = stringField(data, "email")
	a.zip = stringField(data, "zip")
	a.bin = stringField(data, "bin")
	a.initCaptchaAdvised = boolField(data, "initCaptchaAdvised")
	a.initCaptchaValidated = boolField(data, "initCaptchaValidated")
	a.processCaptchaAdvised = boolField(data, "processCaptchaAdvised")
	a.processCaptchaValidated = boolField(data, "processCaptchaValidated")
	a.captchaAlreadyValidated = boolField(data, "captchaAlreadyValidated")
	a.blacklistedOnInit = boolField(data, "blacklistedOnInit")
	a.blacklistedOnProcess = boolField(data, "blacklistedOnProcess")
	a.timesBlacklisted = intField(data, "timesBlacklisted")
	a.forceThreeD = boolField(data, "forceThreeD")
	a.detectThreeD = boolField(data, "detectThreeD")
	return a
}

func stringField(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func boolField(data map[string]any, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

func intField(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
