package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/probiller/purchase-gateway/internal/data/repos"
	"github.com/probiller/purchase-gateway/internal/domain/biller"
	"github.com/probiller/purchase-gateway/internal/domain/purchase"
	"github.com/probiller/purchase-gateway/internal/domain/transaction"
	"github.com/probiller/purchase-gateway/internal/domain/value"
	"github.com/probiller/purchase-gateway/internal/platform/dbctx"
	"github.com/probiller/purchase-gateway/internal/platform/logger"
	"github.com/probiller/purchase-gateway/internal/realtime"
	"github.com/probiller/purchase-gateway/internal/types"
)

func testLogger() *logger.Logger {
	l, err := logger.New("development")
	if err != nil {
		panic(err)
	}
	return l
}

// fakeSessionStore keeps aggregates in memory, round-tripping through the
// snapshot so persistence bugs surface in service tests too.
type fakeSessionStore struct {
	sessions map[uuid.UUID]map[string]any
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uuid.UUID]map[string]any)}
}

func (f *fakeSessionStore) Create(_ dbctx.Context, p *purchase.Process) error {
	id := mustUUID(p.SessionID().String())
	if _, exists := f.sessions[id]; exists {
		return fmt.Errorf("session %s already exists", id)
	}
	f.sessions[id] = p.ToSnapshot()
	return nil
}

func (f *fakeSessionStore) Update(_ dbctx.Context, p *purchase.Process) error {
	id := mustUUID(p.SessionID().String())
	if _, exists := f.sessions[id]; !exists {
		return repos.ErrSessionNotFound
	}
	f.sessions[id] = p.ToSnapshot()
	return nil
}

func (f *fakeSessionStore) Load(_ dbctx.Context, id uuid.UUID) (*purchase.Process, error) {
	snapshot, ok := f.sessions[id]
	if !ok {
		return nil, repos.ErrSessionNotFound
	}
	return purchase.Restore(snapshot)
}

func (f *fakeSessionStore) put(p *purchase.Process) uuid.UUID {
	id := mustUUID(p.SessionID().String())
	f.sessions[id] = p.ToSnapshot()
	return id
}

// scriptedExecutor returns the scripted outcome for each call in order.
type scriptedExecutor struct {
	outcomes []transaction.State
	nsf      bool
	calls    int
	billers  []string
}

func (e *scriptedExecutor) Execute(_ context.Context, b biller.Biller, p *purchase.Process) ([]*transaction.Transaction, error) {
	if e.calls >= len(e.outcomes) {
		return nil, fmt.Errorf("unexpected executor call %d", e.calls)
	}
	state := e.outcomes[e.calls]
	e.calls++
	e.billers = append(e.billers, b.Name())

	out := make([]*transaction.Transaction, 0, p.Items().Count())
	for range p.Items().All() {
		out = append(out, transaction.New(value.NewTransactionID(), state, b.Name(), true, e.nsf))
	}
	return out, nil
}

type scriptedScorer struct {
	initScore    *FraudScore
	processScore *FraudScore
}

func (s *scriptedScorer) ScoreInit(context.Context, string, string, string, string) (*FraudScore, error) {
	return s.initScore, nil
}

func (s *scriptedScorer) ScoreProcess(context.Context, string, string, string, string) (*FraudScore, error) {
	return s.processScore, nil
}

type fakeTemplateService struct {
	fail  bool
	calls int
}

func (f *fakeTemplateService) CreateTemplate(context.Context, string, string, string) (string, error) {
	f.calls++
	if f.fail {
		return "", fmt.Errorf("template backend unavailable")
	}
	return uuid.New().String(), nil
}

type fakeTemplateEvents struct {
	appended []*types.PaymentTemplateEvent
}

func (f *fakeTemplateEvents) Append(_ context.Context, _ *gorm.DB, sessionID, memberID uuid.UUID, payload []byte) (*types.PaymentTemplateEvent, error) {
	row := &types.PaymentTemplateEvent{
		ID:        uuid.New(),
		SessionID: sessionID,
		MemberID:  memberID,
		Payload:   datatypes.JSON(payload),
	}
	f.appended = append(f.appended, row)
	return row, nil
}

func (f *fakeTemplateEvents) ListUnpublished(context.Context, *gorm.DB, int) ([]*types.PaymentTemplateEvent, error) {
	out := make([]*types.PaymentTemplateEvent, 0, len(f.appended))
	for _, row := range f.appended {
		if row.PublishedAt == nil {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeTemplateEvents) MarkPublished(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	now := time.Now().UTC()
	for _, row := range f.appended {
		if row.ID == id {
			row.PublishedAt = &now
		}
	}
	return nil
}

type fakePurchaseRepo struct {
	created       []*types.ProcessedPurchase
	failedBillers map[uuid.UUID][]string
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{failedBillers: make(map[uuid.UUID][]string)}
}

func (f *fakePurchaseRepo) Create(_ context.Context, _ *gorm.DB, row *types.ProcessedPurchase) (*types.ProcessedPurchase, error) {
	f.created = append(f.created, row)
	return row, nil
}

func (f *fakePurchaseRepo) GetBySessionID(_ context.Context, _ *gorm.DB, sessionID uuid.UUID) (*types.ProcessedPurchase, error) {
	for _, row := range f.created {
		if row.SessionID == sessionID {
			return row, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (f *fakePurchaseRepo) RecordFailedBillers(_ context.Context, _ *gorm.DB, sessionID uuid.UUID, names []string) error {
	f.failedBillers[sessionID] = append(f.failedBillers[sessionID], names...)
	return nil
}

func (f *fakePurchaseRepo) FailedBillersForSession(_ context.Context, _ *gorm.DB, sessionID uuid.UUID) ([]string, error) {
	return f.failedBillers[sessionID], nil
}

type fakeBus struct {
	published []realtime.PurchaseEvent
	fail      bool
	forward   func(realtime.PurchaseEvent)
}

func (f *fakeBus) Publish(_ context.Context, msg realtime.PurchaseEvent) error {
	if f.fail {
		return fmt.Errorf("bus down")
	}
	f.published = append(f.published, msg)
	if f.forward != nil {
		f.forward(msg)
	}
	return nil
}

func (f *fakeBus) StartForwarder(_ context.Context, onMsg func(realtime.PurchaseEvent)) error {
	f.forward = onMsg
	return nil
}

func (f *fakeBus) Close() error { return nil }

type fakeLegacyImporter struct {
	imported []*purchase.Purchase
	fail     bool
}

func (f *fakeLegacyImporter) Import(_ context.Context, pur *purchase.Purchase) error {
	if f.fail {
		return fmt.Errorf("legacy system down")
	}
	f.imported = append(f.imported, pur)
	return nil
}
