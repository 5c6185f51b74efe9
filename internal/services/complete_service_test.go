package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/probiller/purchase-gateway/internal/domain/biller"
	"github.com/probiller/purchase-gateway/internal/domain/nextaction"
	"github.com/probiller/purchase-gateway/internal/domain/purchase"
	"github.com/probiller/purchase-gateway/internal/domain/transaction"
	"github.com/probiller/purchase-gateway/internal/realtime"
)

type completeFixture struct {
	store    *fakeSessionStore
	repo     *fakePurchaseRepo
	importer *fakeLegacyImporter
	bus      *fakeBus
	svc      PurchaseCompleteService
}

func newCompleteFixture(store *fakeSessionStore) *completeFixture {
	f := &completeFixture{
		store:    store,
		repo:     newFakePurchaseRepo(),
		importer: &fakeLegacyImporter{},
		bus:      &fakeBus{},
	}
	f.svc = NewPurchaseCompleteService(nil, testLogger(), f.store, f.repo, f.importer, f.bus)
	return f
}

// processedSession drives a session through init and the scripted attempts
// so completion tests start from a settled state.
func processedSession(t *testing.T, pf *processFixture, attempts int) uuid.UUID {
	t.Helper()
	sessionID := openSession(t, pf.store, nil, false)
	for i := 0; i < attempts; i++ {
		if _, err := pf.svc.Process(testDBC(), ProcessRequest{SessionID: sessionID}); err != nil {
			t.Fatalf("process %d: %v", i, err)
		}
	}
	return sessionID
}

func TestCompletePersistsAndPublishes(t *testing.T) {
	pf := newProcessFixture(&scriptedExecutor{outcomes: []transaction.State{transaction.StateApproved}}, &scriptedScorer{})
	sessionID := processedSession(t, pf, 1)
	f := newCompleteFixture(pf.store)

	res, err := f.svc.Complete(testDBC(), sessionID)
	if err != nil {
		t.Fatalf("complete: unexpected error %v", err)
	}
	if res.Status != string(purchase.StatusSuccess) {
		t.Fatalf("status: want=%s got=%s", purchase.StatusSuccess, res.Status)
	}
	if res.PurchaseID == "" || res.MemberID == "" {
		t.Fatalf("purchase and member ids must be reported, got %+v", res)
	}
	if res.NextAction.Type != nextaction.TypeFinishProcess {
		t.Fatalf("next action: want=%s got=%s", nextaction.TypeFinishProcess, res.NextAction.Type)
	}

	if len(f.repo.created) != 1 {
		t.Fatalf("persisted purchases: want=1 got=%d", len(f.repo.created))
	}
	row := f.repo.created[0]
	if row.SessionID != sessionID {
		t.Fatalf("persisted session id: want=%s got=%s", sessionID, row.SessionID)
	}
	if row.Status != string(purchase.StatusSuccess) {
		t.Fatalf("persisted status: want=%s got=%s", purchase.StatusSuccess, row.Status)
	}

	if len(f.importer.imported) != 1 {
		t.Fatalf("legacy imports: want=1 got=%d", len(f.importer.imported))
	}
	if len(f.bus.published) != 1 || f.bus.published[0].Type != realtime.EventPurchaseProcessed {
		t.Fatalf("want one %s event, got %+v", realtime.EventPurchaseProcessed, f.bus.published)
	}
	if f.bus.published[0].Payload["purchaseId"] != res.PurchaseID {
		t.Fatalf("event purchase id: want=%s got=%v", res.PurchaseID, f.bus.published[0].Payload["purchaseId"])
	}

	p, err := f.store.Load(testDBC(), sessionID)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if !p.IsExpired() {
		t.Fatal("session must be expired after completion")
	}
}

func TestCompleteRecordsFailedBillers(t *testing.T) {
	pf := newProcessFixture(&scriptedExecutor{outcomes: []transaction.State{
		transaction.StateDeclined, transaction.StateApproved,
	}}, &scriptedScorer{})
	sessionID := processedSession(t, pf, 2)
	f := newCompleteFixture(pf.store)

	if _, err := f.svc.Complete(testDBC(), sessionID); err != nil {
		t.Fatalf("complete: unexpected error %v", err)
	}
	got := f.repo.failedBillers[sessionID]
	if len(got) != 1 || got[0] != biller.RocketgateName {
		t.Fatalf("failed billers: want=[%s] got=%v", biller.RocketgateName, got)
	}
}

func TestCompleteRejectsUnprocessedSession(t *testing.T) {
	store := newFakeSessionStore()
	sessionID := openSession(t, store, nil, false)
	f := newCompleteFixture(store)

	_, err := f.svc.Complete(testDBC(), sessionID)
	if !errors.Is(err, nextaction.ErrInvalidState) {
		t.Fatalf("want ErrInvalidState, got %v", err)
	}
	if len(f.repo.created) != 0 {
		t.Fatalf("nothing may be persisted for an unsettled session, got %d", len(f.repo.created))
	}
}

func TestCompleteUnknownSessionFails(t *testing.T) {
	f := newCompleteFixture(newFakeSessionStore())
	if _, err := f.svc.Complete(testDBC(), uuid.New()); err == nil {
		t.Fatal("want error for unknown session, got nil")
	}
}

func TestCreatePurchaseEntityNsfHandling(t *testing.T) {
	run := func(t *testing.T, nsfSupported bool) *purchase.Process {
		t.Helper()
		pf := newProcessFixture(&scriptedExecutor{
			outcomes: []transaction.State{transaction.StateDeclined},
			nsf:      true,
		}, &scriptedScorer{})
		sessionID := openSession(t, pf.store, nil, nsfSupported)
		if _, err := pf.svc.Process(testDBC(), ProcessRequest{SessionID: sessionID}); err != nil {
			t.Fatalf("process: %v", err)
		}
		p, err := pf.store.Load(testDBC(), sessionID)
		if err != nil {
			t.Fatalf("load session: %v", err)
		}
		return p
	}

	t.Run("unsupported site yields no record", func(t *testing.T) {
		p := run(t, false)
		pur, err := CreatePurchaseEntity(p)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if pur != nil {
			t.Fatalf("want no purchase record, got %+v", pur)
		}
	})

	t.Run("supported site reports the failure", func(t *testing.T) {
		p := run(t, true)
		pur, err := CreatePurchaseEntity(p)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if pur == nil {
			t.Fatal("want a purchase record, got nil")
		}
		if pur.Status != purchase.StatusFailed {
			t.Fatalf("status: want=%s got=%s", purchase.StatusFailed, pur.Status)
		}
	})
}
