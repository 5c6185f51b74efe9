package nextaction

import "errors"

// ErrInvalidState flags a purchase state no factory has a next action for.
var ErrInvalidState = errors.New("no next action for purchase state")

// Action type discriminators as emitted on the wire.
const (
	TypeRenderGateway              = "renderGateway"
	TypeRenderGatewayOtherPayments = "renderGatewayOtherPayments"
	TypeRedirectToURL              = "redirectToUrl"
	TypeRestartProcess             = "restartProcess"
	TypeAuthenticateThreeD         = "authenticate3D"
	TypeDeviceDetectionThreeD      = "deviceDetection3D"
	TypeFinishProcess              = "finishProcess"
	TypeWaitForReturn              = "waitForReturn"
)

// Action is the single instruction returned to the caller describing what
// the client must do next.
type Action interface {
	Type() string
}

// ThreeD is the 3DS block embedded in a gateway render when fraud advice
// asks for authentication.
type ThreeD struct {
	ForceThreeDSecure bool `json:"forceThreeDSecure"`
	DetectThreeDUsage bool `json:"detectThreeDUsage"`
}

// ThirdParty describes a redirect to an external biller's payment page.
type ThirdParty struct {
	URL string `json:"url"`
}

// RenderGateway tells the client to render the payment form.
type RenderGateway struct {
	ThreeD *ThreeD `json:"threeD,omitempty"`
}

func (RenderGateway) Type() string { return TypeRenderGateway }

// RenderGatewayOtherPayments renders the form with an alternative
// payment-method picker.
type RenderGatewayOtherPayments struct {
	PaymentMethods []string `json:"paymentMethods"`
}

func (RenderGatewayOtherPayments) Type() string { return TypeRenderGatewayOtherPayments }

// RedirectToURL sends the client to a third-party payment page.
type RedirectToURL struct {
	ThirdParty ThirdParty `json:"thirdParty"`
}

func (RedirectToURL) Type() string { return TypeRedirectToURL }

// RestartProcess tells the client to start a new purchase session; the
// current one cannot proceed.
type RestartProcess struct {
	Reason string `json:"reason,omitempty"`
}

func (RestartProcess) Type() string { return TypeRestartProcess }

// AuthenticateThreeD sends the client into the 3DS challenge flow.
type AuthenticateThreeD struct {
	Acs           string `json:"acs,omitempty"`
	Pareq         string `json:"pareq,omitempty"`
	StepUpURL     string `json:"stepUpUrl,omitempty"`
	StepUpJWT     string `json:"stepUpJwt,omitempty"`
	ThreeDVersion int    `json:"threeDVersion,omitempty"`
}

func (AuthenticateThreeD) Type() string { return TypeAuthenticateThreeD }

// DeviceDetectionThreeD runs 3DS2 device collection before the challenge.
type DeviceDetectionThreeD struct {
	DeviceCollectionURL string `json:"deviceCollectionUrl"`
	DeviceCollectionJWT string `json:"deviceCollectionJwt"`
}

func (DeviceDetectionThreeD) Type() string { return TypeDeviceDetectionThreeD }

// FinishProcess tells the client the purchase is complete.
type FinishProcess struct{}

func (FinishProcess) Type() string { return TypeFinishProcess }

// WaitForReturn tells the client to keep waiting for the third-party
// biller's return callback.
type WaitForReturn struct{}

func (WaitForReturn) Type() string { return TypeWaitForReturn }

// Envelope is the wire shape wrapping every next action.
type Envelope struct {
	Type   string `json:"type"`
	Action Action `json:"nextAction"`
}

func Wrap(a Action) Envelope { return Envelope{Type: a.Type(), Action: a} }
