package nextaction

import (
	"fmt"

	"github.com/probiller/purchase-gateway/internal/domain/purchase"
	"github.com/probiller/purchase-gateway/internal/domain/transaction"
)

// CreateForProcess maps the post-attempt session onto the client's next
// instruction. threeD carries the latest attempt's 3DS artefacts for
// pending sessions; thirdParty plus redirectNow routes a valid session to
// an external biller now or asks for a restart first.
func CreateForProcess(
	state purchase.State,
	threeD *transaction.ThreeDMetadata,
	thirdParty *ThirdParty,
	redirectNow bool,
) (Action, error) {
	switch state.(type) {
	case purchase.Pending:
		if threeD != nil && threeD.DeviceCollectionURL != "" && threeD.DeviceCollectionJWT != "" {
			return DeviceDetectionThreeD{
				DeviceCollectionURL: threeD.DeviceCollectionURL,
				DeviceCollectionJWT: threeD.DeviceCollectionJWT,
			}, nil
		}
		action := AuthenticateThreeD{}
		if threeD != nil {
			action.Acs = threeD.Acs
			action.Pareq = threeD.Pareq
			action.StepUpURL = threeD.StepUpURL
			action.StepUpJWT = threeD.StepUpJWT
			action.ThreeDVersion = threeD.ThreeDVersion
		}
		return action, nil
	case purchase.Processed:
		return FinishProcess{}, nil
	case purchase.Valid:
		if thirdParty != nil {
			if redirectNow {
				return RedirectToURL{ThirdParty: *thirdParty}, nil
			}
			return RestartProcess{}, nil
		}
		return RenderGateway{}, nil
	case purchase.Redirected:
		return WaitForReturn{}, nil
	default:
		return nil, fmt.Errorf("process next action for state %q: %w", state.Name(), ErrInvalidState)
	}
}
