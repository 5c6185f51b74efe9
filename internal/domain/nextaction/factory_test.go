package nextaction

import (
	"errors"
	"testing"

	"github.com/probiller/purchase-gateway/internal/domain/biller"
	"github.com/probiller/purchase-gateway/internal/domain/fraud"
	"github.com/probiller/purchase-gateway/internal/domain/purchase"
	"github.com/probiller/purchase-gateway/internal/domain/transaction"
)

func stateNamed(t *testing.T, name string) purchase.State {
	t.Helper()
	s, err := purchase.StateFromName(name)
	if err != nil {
		t.Fatalf("StateFromName(%q): %v", name, err)
	}
	return s
}

func TestInitActionHardBlockWinsOverEverything(t *testing.T) {
	b, err := biller.ByName(biller.EpochName)
	if err != nil {
		t.Fatalf("ByName: %v", err)
	}
	rec := fraud.NewRecommendation(100, fraud.SeverityBlock, "bad actor")

	// Even with a third-party biller and a redirect URL on hand, a hard
	// block forces the restart instruction.
	action, err := CreateForInit(stateNamed(t, purchase.StateValid), b, nil, rec, "https://epoch.test/redirect")
	if err != nil {
		t.Fatalf("CreateForInit: %v", err)
	}
	restart, ok := action.(RestartProcess)
	if !ok {
		t.Fatalf("action: want RestartProcess, got %T", action)
	}
	if restart.Reason != "fraudAdvice" {
		t.Fatalf("reason: want=%q got=%q", "fraudAdvice", restart.Reason)
	}
}

func TestInitActionBlockedStateRestarts(t *testing.T) {
	action, err := CreateForInit(stateNamed(t, purchase.StateBlockedDueToFraudAdvice), nil, nil, nil, "")
	if err != nil {
		t.Fatalf("CreateForInit: %v", err)
	}
	if _, ok := action.(RestartProcess); !ok {
		t.Fatalf("action: want RestartProcess, got %T", action)
	}
}

func TestInitActionRejectsOutOfSequenceStates(t *testing.T) {
	for _, name := range []string{purchase.StateProcessing, purchase.StatePending, purchase.StateProcessed} {
		_, err := CreateForInit(stateNamed(t, name), nil, nil, nil, "")
		if !errors.Is(err, ErrInvalidState) {
			t.Fatalf("state %q: want ErrInvalidState, got %v", name, err)
		}
	}
}

func TestInitActionThirdPartyRedirect(t *testing.T) {
	b, err := biller.ByName(biller.EpochName)
	if err != nil {
		t.Fatalf("ByName: %v", err)
	}
	action, err := CreateForInit(stateNamed(t, purchase.StateValid), b, nil, nil, "https://epoch.test/redirect")
	if err != nil {
		t.Fatalf("CreateForInit: %v", err)
	}
	redirect, ok := action.(RedirectToURL)
	if !ok {
		t.Fatalf("action: want RedirectToURL, got %T", action)
	}
	if redirect.ThirdParty.URL != "https://epoch.test/redirect" {
		t.Fatalf("url: got=%q", redirect.ThirdParty.URL)
	}
}

func TestInitActionOtherPaymentMethods(t *testing.T) {
	b, err := biller.ByName(biller.QyssoName)
	if err != nil {
		t.Fatalf("ByName: %v", err)
	}
	q, ok := b.(*biller.Qysso)
	if !ok {
		t.Fatalf("expected *biller.Qysso, got %T", b)
	}
	q.SetAvailablePaymentMethods([]string{"banktransfer", "giftcard"})

	action, err := CreateForInit(stateNamed(t, purchase.StateValid), q, nil, nil, "")
	if err != nil {
		t.Fatalf("CreateForInit: %v", err)
	}
	other, ok := action.(RenderGatewayOtherPayments)
	if !ok {
		t.Fatalf("action: want RenderGatewayOtherPayments, got %T", action)
	}
	if len(other.PaymentMethods) != 2 {
		t.Fatalf("methods: got=%v", other.PaymentMethods)
	}
}

func TestInitActionRenderGatewayCarriesThreeDFlags(t *testing.T) {
	b, err := biller.ByName(biller.RocketgateName)
	if err != nil {
		t.Fatalf("ByName: %v", err)
	}
	advice := fraud.NewAdvice("", "", "", "")
	advice.MarkForceThreeD()

	action, err := CreateForInit(stateNamed(t, purchase.StateValid), b, advice, nil, "")
	if err != nil {
		t.Fatalf("CreateForInit: %v", err)
	}
	render, ok := action.(RenderGateway)
	if !ok {
		t.Fatalf("action: want RenderGateway, got %T", action)
	}
	if render.ThreeD == nil || !render.ThreeD.ForceThreeDSecure {
		t.Fatalf("3DS flags not carried: %+v", render.ThreeD)
	}
}

func TestProcessActionValidThirdPartyRedirectNow(t *testing.T) {
	action, err := CreateForProcess(stateNamed(t, purchase.StateValid), nil, &ThirdParty{URL: "url"}, true)
	if err != nil {
		t.Fatalf("CreateForProcess: %v", err)
	}
	redirect, ok := action.(RedirectToURL)
	if !ok {
		t.Fatalf("action: want RedirectToURL, got %T", action)
	}
	if redirect.ThirdParty.URL != "url" {
		t.Fatalf("url: got=%q", redirect.ThirdParty.URL)
	}
}

func TestProcessActionValidThirdPartyWithoutRedirectRestarts(t *testing.T) {
	action, err := CreateForProcess(stateNamed(t, purchase.StateValid), nil, &ThirdParty{URL: "url"}, false)
	if err != nil {
		t.Fatalf("CreateForProcess: %v", err)
	}
	if _, ok := action.(RestartProcess); !ok {
		t.Fatalf("action: want RestartProcess, got %T", action)
	}
}

func TestProcessActionValidWithoutThirdPartyRenders(t *testing.T) {
	action, err := CreateForProcess(stateNamed(t, purchase.StateValid), nil, nil, false)
	if err != nil {
		t.Fatalf("CreateForProcess: %v", err)
	}
	if _, ok := action.(RenderGateway); !ok {
		t.Fatalf("action: want RenderGateway, got %T", action)
	}
}

func TestProcessActionPendingPrefersDeviceDetection(t *testing.T) {
	threeD := &transaction.ThreeDMetadata{
		DeviceCollectionURL: "https://centinel.test/collect",
		DeviceCollectionJWT: "jwt-token",
	}
	action, err := CreateForProcess(stateNamed(t, purchase.StatePending), threeD, nil, false)
	if err != nil {
		t.Fatalf("CreateForProcess: %v", err)
	}
	detect, ok := action.(DeviceDetectionThreeD)
	if !ok {
		t.Fatalf("action: want DeviceDetectionThreeD, got %T", action)
	}
	if detect.DeviceCollectionJWT != "jwt-token" {
		t.Fatalf("jwt: got=%q", detect.DeviceCollectionJWT)
	}
}

func TestProcessActionPendingFallsBackToAuthenticate(t *testing.T) {
	threeD := &transaction.ThreeDMetadata{
		Acs:           "https://acs.test",
		Pareq:         "pareq-blob",
		ThreeDVersion: 1,
	}
	action, err := CreateForProcess(stateNamed(t, purchase.StatePending), threeD, nil, false)
	if err != nil {
		t.Fatalf("CreateForProcess: %v", err)
	}
	auth, ok := action.(AuthenticateThreeD)
	if !ok {
		t.Fatalf("action: want AuthenticateThreeD, got %T", action)
	}
	if auth.Acs != "https://acs.test" || auth.Pareq != "pareq-blob" || auth.ThreeDVersion != 1 {
		t.Fatalf("3DS artefacts not carried: %+v", auth)
	}
}

func TestProcessActionProcessedFinishes(t *testing.T) {
	action, err := CreateForProcess(stateNamed(t, purchase.StateProcessed), nil, nil, false)
	if err != nil {
		t.Fatalf("CreateForProcess: %v", err)
	}
	if _, ok := action.(FinishProcess); !ok {
		t.Fatalf("action: want FinishProcess, got %T", action)
	}
}

func TestProcessActionRedirectedWaits(t *testing.T) {
	action, err := CreateForProcess(stateNamed(t, purchase.StateRedirected), nil, nil, false)
	if err != nil {
		t.Fatalf("CreateForProcess: %v", err)
	}
	if _, ok := action.(WaitForReturn); !ok {
		t.Fatalf("action: want WaitForReturn, got %T", action)
	}
}

func TestProcessActionRejectsCreated(t *testing.T) {
	_, err := CreateForProcess(stateNamed(t, purchase.StateCreated), nil, nil, false)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("want ErrInvalidState, got %v", err)
	}
}

func TestCompleteActionOnlyFromProcessed(t *testing.T) {
	action, err := CreateForComplete(stateNamed(t, purchase.StateProcessed))
	if err != nil {
		t.Fatalf("CreateForComplete: %v", err)
	}
	if _, ok := action.(FinishProcess); !ok {
		t.Fatalf("action: want FinishProcess, got %T", action)
	}

	for _, name := range []string{purchase.StateCreated, purchase.StateValid, purchase.StatePending} {
		if _, err := CreateForComplete(stateNamed(t, name)); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("state %q: want ErrInvalidState, got %v", name, err)
		}
	}
}
