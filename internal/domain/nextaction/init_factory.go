package nextaction

import (
	"fmt"

	"github.com/probiller/purchase-gateway/internal/domain/biller"
	"github.com/probiller/purchase-gateway/internal/domain/fraud"
	"github.com/probiller/purchase-gateway/internal/domain/purchase"
)

// CreateForInit maps the post-init session onto the client's first
// instruction. The check order is load-bearing: a hard block overrides
// every biller/state route, then third-party redirect, then alternative
// payment methods, then the plain gateway render.
func CreateForInit(
	state purchase.State,
	b biller.Biller,
	advice *fraud.Advice,
	recommendation *fraud.Recommendation,
	redirectURL string,
) (Action, error) {
	if _, blocked := state.(purchase.BlockedDueToFraudAdvice); blocked ||
		(recommendation != nil && recommendation.IsHardBlock()) {
		return RestartProcess{Reason: "fraudAdvice"}, nil
	}

	switch state.(type) {
	case purchase.Valid, purchase.Created:
	default:
		return nil, fmt.Errorf("init next action for state %q: %w", state.Name(), ErrInvalidState)
	}

	if b != nil && b.IsThirdParty() && redirectURL != "" {
		return RedirectToURL{ThirdParty: ThirdParty{URL: redirectURL}}, nil
	}

	if b != nil && len(b.AvailablePaymentMethods()) > 0 {
		return RenderGatewayOtherPayments{PaymentMethods: b.AvailablePaymentMethods()}, nil
	}

	render := RenderGateway{}
	if advice != nil {
		render.ThreeD = &ThreeD{
			ForceThreeDSecure: advice.IsForceThreeD(),
			DetectThreeDUsage: advice.IsDetectThreeD(),
		}
	}
	return render, nil
}
