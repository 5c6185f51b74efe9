package services

import (
	"context"

	"github.com/probiller/purchase-gateway/internal/domain/biller"
	"github.com/probiller/purchase-gateway/internal/domain/fraud"
	"github.com/probiller/purchase-gateway/internal/domain/purchase"
	"github.com/probiller/purchase-gateway/internal/domain/transaction"
)

// FraudScore is one verdict from the fraud collaborator.
type FraudScore struct {
	Advice          *fraud.Advice
	Recommendations *fraud.RecommendationCollection
}

// FraudScorer scores a session at init and again at process time. A nil
// score with nil error means the collaborator has no opinion.
type FraudScorer interface {
	ScoreInit(ctx context.Context, ip, email, zip, bin string) (*FraudScore, error)
	ScoreProcess(ctx context.Context, ip, email, zip, bin string) (*FraudScore, error)
}

// TransactionExecutor submits one gateway attempt against one biller. The
// returned slice is aligned to p.Items().All(): one transaction per item,
// main item first.
type TransactionExecutor interface {
	Execute(ctx context.Context, b biller.Biller, p *purchase.Process) ([]*transaction.Transaction, error)
}

// PaymentTemplateService stores a reusable payment template after a
// successful purchase. Failures here never fail the purchase; the caller
// degrades to the retry outbox.
type PaymentTemplateService interface {
	CreateTemplate(ctx context.Context, memberID, billerName, lastFour string) (string, error)
}

// LegacyImporter bridges completed purchases into the legacy member system.
// Best effort: callers log failures and continue.
type LegacyImporter interface {
	Import(ctx context.Context, pur *purchase.Purchase) error
}
