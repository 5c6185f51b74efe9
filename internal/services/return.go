package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/probiller/purchase-gateway/internal/domain/nextaction"
	"github.com/probiller/purchase-gateway/internal/domain/purchase"
	"github.com/probiller/purchase-gateway/internal/domain/transaction"
	"github.com/probiller/purchase-gateway/internal/domain/value"
	"github.com/probiller/purchase-gateway/internal/platform/dbctx"
	"github.com/probiller/purchase-gateway/internal/platform/logger"
)

// ReturnRequest reports the outcome of a third-party biller round trip.
type ReturnRequest struct {
	SessionID uuid.UUID `json:"-"`

	Approved      bool   `json:"approved"`
	TransactionID string `json:"transactionId"`
}

// HandleReturn settles a session the client took off-page: a third-party
// payment redirect or a 3DS challenge. The session may still be valid when
// the redirect happened straight off init; it is parked as redirected
// before the outcome is applied.
func (s *purchaseProcessService) HandleReturn(dbc dbctx.Context, req ReturnRequest) (*ProcessResult, error) {
	p, err := s.store.Load(dbc, req.SessionID)
	if err != nil {
		return nil, err
	}
	log := s.log.With("session_id", p.SessionID().String())

	if _, pending := p.State().(purchase.Pending); pending {
		return s.settleThreeD(dbc, p, req, log)
	}

	if _, valid := p.State().(purchase.Valid); valid {
		if err := p.Redirect(); err != nil {
			return nil, err
		}
	}
	if _, redirected := p.State().(purchase.Redirected); !redirected {
		return nil, fmt.Errorf("third-party return for state %q: %w", p.State().Name(), nextaction.ErrInvalidState)
	}

	billerName := p.Cascade().CurrentBillerName()
	txID := value.NewTransactionID()
	if req.TransactionID != "" {
		parsed, perr := value.ParseTransactionID(req.TransactionID)
		if perr != nil {
			return nil, perr
		}
		txID = parsed
	}
	state := transaction.StateDeclined
	if req.Approved {
		state = transaction.StateApproved
	}
	for _, it := range p.Items().All() {
		it.Transactions().Add(transaction.New(txID, state, billerName, true, false))
	}
	p.Cascade().IncrementCurrentBillerSubmit()
	p.IncrementGatewaySubmitNumber()

	var action nextaction.Action
	if req.Approved {
		if err := p.StartProcessing(); err != nil {
			return nil, err
		}
		if err := p.PostProcessing(); err != nil {
			return nil, err
		}
		s.onSuccess(dbc, p, billerName, log)
		action, err = nextaction.CreateForProcess(p.State(), nil, nil, false)
		if err != nil {
			return nil, err
		}
	} else {
		// A declined external attempt has no cascade continuation; the
		// client starts a new session.
		action = nextaction.RestartProcess{Reason: "thirdPartyDeclined"}
	}

	if err := s.store.Update(dbc, p); err != nil {
		return nil, err
	}

	log.Info("third-party return settled",
		"approved", req.Approved,
		"state", p.State().Name(),
	)

	return &ProcessResult{
		SessionID:  p.SessionID().String(),
		State:      p.State().Name(),
		NextAction: nextaction.Wrap(action),
	}, nil
}

// settleThreeD applies a 3DS challenge outcome to a pending session. The
// pending attempts were already counted against the cascade; they are
// settled in place rather than appended.
func (s *purchaseProcessService) settleThreeD(dbc dbctx.Context, p *purchase.Process, req ReturnRequest, log *logger.Logger) (*ProcessResult, error) {
	txID := value.NewTransactionID()
	if req.TransactionID != "" {
		parsed, perr := value.ParseTransactionID(req.TransactionID)
		if perr != nil {
			return nil, perr
		}
		txID = parsed
	}
	state := transaction.StateDeclined
	if req.Approved {
		state = transaction.StateApproved
	}
	for _, it := range p.Items().All() {
		last := it.LastTransaction()
		if last == nil || !last.IsPending() {
			continue
		}
		last.SetState(state)
		if last.TransactionID().IsZero() {
			last.AssignID(txID)
		}
	}

	var action nextaction.Action
	if req.Approved {
		if err := p.AuthenticateThreeD(); err != nil {
			return nil, err
		}
		if err := p.PostProcessing(); err != nil {
			return nil, err
		}
		s.onSuccess(dbc, p, p.Cascade().CurrentBillerName(), log)
		var err error
		action, err = nextaction.CreateForProcess(p.State(), nil, nil, false)
		if err != nil {
			return nil, err
		}
	} else {
		// A failed challenge leaves the session parked; the client opens a
		// new session to try again.
		action = nextaction.RestartProcess{Reason: "threeDAuthenticationFailed"}
	}

	if err := s.store.Update(dbc, p); err != nil {
		return nil, err
	}

	log.Info("3DS authentication settled",
		"approved", req.Approved,
		"state", p.State().Name(),
	)

	return &ProcessResult{
		SessionID:  p.SessionID().String(),
		State:      p.State().Name(),
		NextAction: nextaction.Wrap(action),
	}, nil
}
