package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/probiller/purchase-gateway/internal/data/repos"
	"github.com/probiller/purchase-gateway/internal/domain/cascade"
	"github.com/probiller/purchase-gateway/internal/domain/fraud"
	"github.com/probiller/purchase-gateway/internal/domain/nextaction"
	"github.com/probiller/purchase-gateway/internal/domain/purchase"
	"github.com/probiller/purchase-gateway/internal/domain/transaction"
	"github.com/probiller/purchase-gateway/internal/platform/dbctx"
	"github.com/probiller/purchase-gateway/internal/platform/logger"
	"github.com/probiller/purchase-gateway/internal/realtime"
	"github.com/probiller/purchase-gateway/internal/realtime/bus"
)

// ProcessRequest submits one gateway attempt for an open session.
type ProcessRequest struct {
	SessionID uuid.UUID `json:"-"`

	Email   string `json:"email"`
	ZipCode string `json:"zipCode"`
	Bin     string `json:"bin"`

	PaymentTemplateID string `json:"paymentTemplateId"`
	CaptchaValidated  bool   `json:"captchaValidated"`
}

// ProcessResult is the process response body.
type ProcessResult struct {
	SessionID  string              `json:"sessionId"`
	State      string              `json:"state"`
	NextAction nextaction.Envelope `json:"nextAction"`
}

type PurchaseProcessService interface {
	Process(dbc dbctx.Context, req ProcessRequest) (*ProcessResult, error)
	HandleReturn(dbc dbctx.Context, req ReturnRequest) (*ProcessResult, error)
}

type purchaseProcessService struct {
	db              *gorm.DB
	log             *logger.Logger
	store           SessionStore
	executor        TransactionExecutor
	fraudScorer     FraudScorer
	templateService PaymentTemplateService
	templateEvents  repos.TemplateEventRepo
	eventBus        bus.Bus
}

func NewPurchaseProcessService(
	db *gorm.DB,
	log *logger.Logger,
	store SessionStore,
	executor TransactionExecutor,
	fraudScorer FraudScorer,
	templateService PaymentTemplateService,
	templateEvents repos.TemplateEventRepo,
	eventBus bus.Bus,
) PurchaseProcessService {
	serviceLog := log.With("service", "PurchaseProcessService")
	return &purchaseProcessService{
		db:              db,
		log:             serviceLog,
		store:           store,
		executor:        executor,
		fraudScorer:     fraudScorer,
		templateService: templateService,
		templateEvents:  templateEvents,
		eventBus:        eventBus,
	}
}

func (s *purchaseProcessService) Process(dbc dbctx.Context, req ProcessRequest) (*ProcessResult, error) {
	p, err := s.store.Load(dbc, req.SessionID)
	if err != nil {
		return nil, err
	}
	log := s.log.With("session_id", p.SessionID().String())

	// Only a valid session accepts a new gateway attempt. Any other state
	// settles to its pending next action without touching the executor.
	if _, valid := p.State().(purchase.Valid); !valid {
		action, aerr := s.processAction(p, false)
		if aerr != nil {
			return nil, aerr
		}
		return &ProcessResult{
			SessionID:  p.SessionID().String(),
			State:      p.State().Name(),
			NextAction: nextaction.Wrap(action),
		}, nil
	}

	// An NSF decline on the main item ends the cascade. The session stays
	// valid for completion but takes no further attempts.
	if p.Items().IsMainItemLastTransactionNsf() {
		log.Info("process refused after NSF decline")
		return &ProcessResult{
			SessionID:  p.SessionID().String(),
			State:      p.State().Name(),
			NextAction: nextaction.Wrap(nextaction.RestartProcess{Reason: "nsfDeclined"}),
		}, nil
	}

	if err := s.refreshFraudAdvice(dbc, p, req); err != nil {
		return nil, err
	}

	if req.CaptchaValidated && p.FraudAdvice() != nil {
		if p.FraudAdvice().IsInitCaptchaAdvised() {
			p.FraudAdvice().ValidateInitCaptcha()
		}
		if p.FraudAdvice().IsProcessCaptchaAdvised() {
			if err := p.FraudAdvice().ValidateProcessCaptcha(); err != nil {
				return nil, err
			}
		}
	}

	if p.ShouldBlockProcess() {
		return s.block(dbc, p, log)
	}

	template := selectedTemplate(p, req.PaymentTemplateID)
	b, err := cascade.BillerForCurrentSubmit(p.Cascade(), template)
	if err != nil {
		if errors.Is(err, cascade.ErrInvalidNextBiller) {
			return s.exhaust(dbc, p, log)
		}
		return nil, err
	}
	log = log.With("biller", b.Name())

	attempts, err := s.executor.Execute(dbc.Ctx, b, p)
	if err != nil {
		return nil, fmt.Errorf("execute attempt on %s: %w", b.Name(), err)
	}
	items := p.Items().All()
	if len(attempts) != len(items) {
		return nil, fmt.Errorf("executor returned %d transactions for %d items", len(attempts), len(items))
	}
	for i, tx := range attempts {
		items[i].Transactions().Add(tx)
	}

	p.Cascade().IncrementCurrentBillerSubmit()
	p.IncrementGatewaySubmitNumber()

	// A successful attempt passes through Processing on its way to
	// Processed; pending and retryable declines settle straight from Valid.
	if p.Items().WasMainItemPurchaseSuccessful() {
		if err := p.StartProcessing(); err != nil {
			return nil, err
		}
	}
	if err := p.PostProcessing(); err != nil {
		return nil, err
	}

	if p.Items().WasMainItemPurchaseSuccessful() {
		s.onSuccess(dbc, p, b.Name(), log)
	}

	action, err := s.processAction(p, b.IsThirdParty())
	if err != nil {
		return nil, err
	}

	if err := s.store.Update(dbc, p); err != nil {
		return nil, err
	}

	log.Info("gateway submit finished",
		"state", p.State().Name(),
		"submit_number", p.GatewaySubmitNumber(),
	)

	return &ProcessResult{
		SessionID:  p.SessionID().String(),
		State:      p.State().Name(),
		NextAction: nextaction.Wrap(action),
	}, nil
}

func (s *purchaseProcessService) refreshFraudAdvice(dbc dbctx.Context, p *purchase.Process, req ProcessRequest) error {
	score, err := s.fraudScorer.ScoreProcess(dbc.Ctx, p.UserInfo().IPAddress, req.Email, req.ZipCode, req.Bin)
	if err != nil {
		s.log.Warn("process fraud scoring failed; keeping existing advice",
			"session_id", p.SessionID().String(), "error", err)
		return nil
	}
	if score == nil {
		return nil
	}
	if score.Advice != nil {
		existing := p.FraudAdvice()
		if existing == nil {
			existing = fraud.NewAdvice(p.UserInfo().IPAddress, req.Email, req.ZipCode, req.Bin)
		}
		p.SetFraudAdvice(existing.AddProcessFraudAdvice(score.Advice))
	}
	if score.Recommendations != nil && !score.Recommendations.IsEmpty() {
		if p.FraudAdvice() != nil && p.FraudAdvice().IsForceThreeD() {
			score.Recommendations.ResetToDefaultIfThreeDForced()
		}
		p.SetFraudRecommendations(score.Recommendations)
	}
	return nil
}

func (s *purchaseProcessService) block(dbc dbctx.Context, p *purchase.Process, log *logger.Logger) (*ProcessResult, error) {
	if err := p.BlockDueToFraudAdvice(); err != nil {
		return nil, err
	}
	if err := s.store.Update(dbc, p); err != nil {
		return nil, err
	}
	if s.eventBus != nil {
		if err := s.eventBus.Publish(dbc.Ctx, realtime.PurchaseEvent{
			Type:      realtime.EventPurchaseBlocked,
			SessionID: p.SessionID().String(),
		}); err != nil {
			log.Warn("publish blocked event failed", "error", err)
		}
	}
	log.Info("process blocked due to fraud advice")
	return &ProcessResult{
		SessionID:  p.SessionID().String(),
		State:      p.State().Name(),
		NextAction: nextaction.Wrap(nextaction.RestartProcess{Reason: "fraudAdvice"}),
	}, nil
}

func (s *purchaseProcessService) exhaust(dbc dbctx.Context, p *purchase.Process, log *logger.Logger) (*ProcessResult, error) {
	if err := p.ExhaustCascadeBillers(); err != nil {
		return nil, err
	}
	if err := s.store.Update(dbc, p); err != nil {
		return nil, err
	}
	log.Info("cascade billers exhausted")
	return &ProcessResult{
		SessionID:  p.SessionID().String(),
		State:      p.State().Name(),
		NextAction: nextaction.Wrap(nextaction.RestartProcess{Reason: "cascadeBillersExhausted"}),
	}, nil
}

// onSuccess runs the post-approval side effects. None of them may fail the
// purchase; template persistence degrades to the retry outbox.
func (s *purchaseProcessService) onSuccess(dbc dbctx.Context, p *purchase.Process, billerName string, log *logger.Logger) {
	memberID := p.BuildMemberID()
	p.BuildPurchaseID()
	for _, it := range p.Items().All() {
		if it.WasPurchaseSuccessful() {
			it.BuildSubscriptionID()
		}
	}
	p.SetSubscriptionID(p.Items().MainItem().SubscriptionID())

	templateID, err := s.templateService.CreateTemplate(dbc.Ctx, memberID.String(), billerName, p.PaymentInfo().LastFour)
	if err == nil {
		p.SetPaymentTemplateID(templateID)
		return
	}
	log.Warn("payment template create failed; queuing retry", "error", err)

	payload, merr := json.Marshal(map[string]string{
		"billerName": billerName,
		"lastFour":   p.PaymentInfo().LastFour,
	})
	if merr != nil {
		log.Error("encode template retry payload failed", "error", merr)
		return
	}
	sessionUUID := mustUUID(p.SessionID().String())
	memberUUID := mustUUID(memberID.String())
	if _, qerr := s.templateEvents.Append(dbc.Ctx, dbc.Tx, sessionUUID, memberUUID, payload); qerr != nil {
		log.Error("queue template retry failed", "error", qerr)
		return
	}
	if s.eventBus != nil {
		if perr := s.eventBus.Publish(dbc.Ctx, realtime.PurchaseEvent{
			Type:      realtime.EventPaymentTemplateRetry,
			SessionID: p.SessionID().String(),
			MemberID:  memberID.String(),
		}); perr != nil {
			log.Warn("publish template retry event failed", "error", perr)
		}
	}
}

func (s *purchaseProcessService) processAction(p *purchase.Process, usedThirdParty bool) (nextaction.Action, error) {
	var threeD *transaction.ThreeDMetadata
	if main := p.Items().MainItem(); main != nil {
		if last := main.LastTransaction(); last != nil {
			meta := last.ThreeD()
			threeD = &meta
		}
	}

	var thirdParty *nextaction.ThirdParty
	redirectNow := false
	if _, valid := p.State().(purchase.Valid); valid && !usedThirdParty && p.Cascade().IsTheNextBillerThirdParty() {
		thirdParty = &nextaction.ThirdParty{URL: p.RedirectURL()}
		redirectNow = p.RedirectURL() != ""
	}

	return nextaction.CreateForProcess(p.State(), threeD, thirdParty, redirectNow)
}

func selectedTemplate(p *purchase.Process, templateID string) cascade.PaymentTemplate {
	if templateID == "" {
		return nil
	}
	t := p.PaymentTemplates().Get(templateID)
	if t == nil {
		return nil
	}
	t.Select()
	p.SetPaymentTemplateID(templateID)
	return t
}

func mustUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
