package fraud

import "strings"

// Recommendation codes returned by the fraud scoring collaborator.
const (
	// DefaultCode is the no-op recommendation.
	DefaultCode = 0
	// CaptchaCode asks for a captcha challenge: remediable, never a hard block.
	CaptchaCode = 200
	// VelocityCode asks for a 3DS challenge on velocity grounds: soft.
	VelocityCode = 300
	// ForceThreeDCode forces a 3DS challenge: soft.
	ForceThreeDCode = 310
	// DetectThreeDCode asks for 3DS device detection first: soft.
	DetectThreeDCode = 311
)

// SeverityBlock is the only severity that can stop a purchase.
const SeverityBlock = "block"

var softThreeDCodes = map[int]bool{
	VelocityCode:     true,
	ForceThreeDCode:  true,
	DetectThreeDCode: true,
}

// Recommendation is one {code, severity, message} triple from the fraud
// scoring collaborator.
type Recommendation struct {
	code     int
	severity string
	message  string
}

func NewRecommendation(code int, severity, message string) *Recommendation {
	return &Recommendation{code: code, severity: strings.ToLower(strings.TrimSpace(severity)), message: message}
}

// DefaultRecommendation is the no-op recommendation.
func DefaultRecommendation() *Recommendation {
	return &Recommendation{code: DefaultCode}
}

func (r *Recommendation) Code() int        { return r.code }
func (r *Recommendation) Severity() string { return r.severity }
func (r *Recommendation) Message() string  { return r.message }

// IsHardBlock is a block severity with a code outside the recognized
// captcha and 3DS soft sets: no remediation path exists.
func (r *Recommendation) IsHardBlock() bool {
	if r.severity != SeverityBlock {
		return false
	}
	if r.code == CaptchaCode {
		return false
	}
	return !softThreeDCodes[r.code]
}

// IsSoftBlock is a block severity remediable via captcha or a 3DS challenge.
func (r *Recommendation) IsSoftBlock() bool {
	if r.severity != SeverityBlock {
		return false
	}
	if strings.Contains(strings.ToLower(r.message), "captcha") {
		return true
	}
	return softThreeDCodes[r.code]
}

// ResetToDefaultIfThreeDForced clears a force-3DS recommendation once it has
// been acted upon, so it is not re-reported on later calls.
func (r *Recommendation) ResetToDefaultIfThreeDForced() {
	if r.code == ForceThreeDCode {
		r.code = DefaultCode
		r.severity = ""
		r.message = ""
	}
}

// ToSnapshot flattens one recommendation for session persistence.
func (r *Recommendation) ToSnapshot() map[string]any {
	return map[string]any{
		"code":     r.code,
		"severity": r.severity,
		"message":  r.message,
	}
}
