package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/probiller/purchase-gateway/internal/domain/biller"
	"github.com/probiller/purchase-gateway/internal/domain/fraud"
	"github.com/probiller/purchase-gateway/internal/domain/purchase"
	"github.com/probiller/purchase-gateway/internal/domain/transaction"
	"github.com/probiller/purchase-gateway/internal/domain/value"
	"github.com/probiller/purchase-gateway/internal/platform/logger"
)

// The stub collaborators below stand in until the real integrations are
// configured. They keep the wiring honest without reaching any network.

type noopFraudScorer struct{}

func NewNoopFraudScorer() FraudScorer { return noopFraudScorer{} }

func (noopFraudScorer) ScoreInit(_ context.Context, ip, email, zip, bin string) (*FraudScore, error) {
	return &FraudScore{
		Advice:          fraud.NewAdvice(ip, email, zip, bin),
		Recommendations: fraud.NewRecommendationCollection(),
	}, nil
}

func (noopFraudScorer) ScoreProcess(_ context.Context, ip, email, zip, bin string) (*FraudScore, error) {
	return &FraudScore{
		Advice:          fraud.NewAdvice(ip, email, zip, bin),
		Recommendations: fraud.NewRecommendationCollection(),
	}, nil
}

// approvingExecutor approves every attempt. Useful for local development
// against no biller sandbox.
type approvingExecutor struct {
	log *logger.Logger
}

func NewApprovingExecutor(log *logger.Logger) TransactionExecutor {
	return &approvingExecutor{log: log.With("service", "ApprovingExecutor")}
}

func (e *approvingExecutor) Execute(_ context.Context, b biller.Biller, p *purchase.Process) ([]*transaction.Transaction, error) {
	e.log.Warn("approving executor in use; no real biller was charged",
		"biller", b.Name(), "session_id", p.SessionID().String())
	out := make([]*transaction.Transaction, 0, p.Items().Count())
	for range p.Items().All() {
		out = append(out, transaction.New(value.NewTransactionID(), transaction.StateApproved, b.Name(), true, false))
	}
	return out, nil
}

type localTemplateService struct{}

func NewLocalTemplateService() PaymentTemplateService { return localTemplateService{} }

func (localTemplateService) CreateTemplate(_ context.Context, memberID, billerName, _ string) (string, error) {
	if memberID == "" || billerName == "" {
		return "", fmt.Errorf("member id and biller name required")
	}
	return uuid.New().String(), nil
}

type noopLegacyImporter struct{}

func NewNoopLegacyImporter() LegacyImporter { return noopLegacyImporter{} }

func (noopLegacyImporter) Import(context.Context, *purchase.Purchase) error { return nil }
