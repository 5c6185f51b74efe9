package services

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/probiller/purchase-gateway/internal/data/repos"
	"github.com/probiller/purchase-gateway/internal/domain/nextaction"
	"github.com/probiller/purchase-gateway/internal/domain/purchase"
	"github.com/probiller/purchase-gateway/internal/platform/dbctx"
	"github.com/probiller/purchase-gateway/internal/platform/logger"
	"github.com/probiller/purchase-gateway/internal/realtime"
	"github.com/probiller/purchase-gateway/internal/realtime/bus"
	"github.com/probiller/purchase-gateway/internal/types"
)

// CompleteResult is the complete response body.
type CompleteResult struct {
	SessionID  string              `json:"sessionId"`
	PurchaseID string              `json:"purchaseId,omitempty"`
	MemberID   string              `json:"memberId,omitempty"`
	Status     string              `json:"status,omitempty"`
	NextAction nextaction.Envelope `json:"nextAction"`
}

type PurchaseCompleteService interface {
	Complete(dbc dbctx.Context, sessionID uuid.UUID) (*CompleteResult, error)
}

type purchaseCompleteService struct {
	db             *gorm.DB
	log            *logger.Logger
	store          SessionStore
	purchaseRepo   repos.PurchaseRepo
	legacyImporter LegacyImporter
	eventBus       bus.Bus
}

func NewPurchaseCompleteService(
	db *gorm.DB,
	log *logger.Logger,
	store SessionStore,
	purchaseRepo repos.PurchaseRepo,
	legacyImporter LegacyImporter,
	eventBus bus.Bus,
) PurchaseCompleteService {
	serviceLog := log.With("service", "PurchaseCompleteService")
	return &purchaseCompleteService{
		db:             db,
		log:            serviceLog,
		store:          store,
		purchaseRepo:   purchaseRepo,
		legacyImporter: legacyImporter,
		eventBus:       eventBus,
	}
}

func (s *purchaseCompleteService) Complete(dbc dbctx.Context, sessionID uuid.UUID) (*CompleteResult, error) {
	p, err := s.store.Load(dbc, sessionID)
	if err != nil {
		return nil, err
	}
	log := s.log.With("session_id", p.SessionID().String())

	action, err := nextaction.CreateForComplete(p.State())
	if err != nil {
		return nil, err
	}

	pur, err := CreatePurchaseEntity(p)
	if err != nil {
		return nil, err
	}

	result := &CompleteResult{
		SessionID:  p.SessionID().String(),
		NextAction: nextaction.Wrap(action),
	}
	if pur == nil {
		// NSF decline on an NSF-unsupported site: the session completes
		// but no purchase record exists downstream.
		log.Info("purchase completion without record (NSF on unsupported site)")
		p.MarkExpired()
		if err := s.store.Update(dbc, p); err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := s.persist(dbc, p, pur); err != nil {
		return nil, err
	}

	if s.legacyImporter != nil {
		if ierr := s.legacyImporter.Import(dbc.Ctx, pur); ierr != nil {
			log.Warn("legacy import failed; continuing", "error", ierr)
		}
	}

	if s.eventBus != nil {
		if perr := s.eventBus.Publish(dbc.Ctx, realtime.PurchaseEvent{
			Type:      realtime.EventPurchaseProcessed,
			SessionID: pur.SessionID.String(),
			MemberID:  pur.MemberID.String(),
			Payload: map[string]any{
				"purchaseId": pur.PurchaseID.String(),
				"status":     string(pur.Status),
			},
		}); perr != nil {
			log.Warn("publish processed event failed", "error", perr)
		}
	}

	p.MarkExpired()
	if err := s.store.Update(dbc, p); err != nil {
		return nil, err
	}

	log.Info("purchase completed",
		"status", string(pur.Status),
		"item_count", len(pur.Items),
	)

	result.PurchaseID = pur.PurchaseID.String()
	result.MemberID = pur.MemberID.String()
	result.Status = string(pur.Status)
	return result, nil
}

// CreatePurchaseEntity derives the completion record. A main item whose
// last attempt was an NSF decline on a site without NSF support yields no
// record at all.
func CreatePurchaseEntity(p *purchase.Process) (*purchase.Purchase, error) {
	main := p.Items().MainItem()
	if main == nil {
		return nil, fmt.Errorf("session %s has no main item", p.SessionID())
	}
	if main.IsLastTransactionNsf() && !main.IsNSFSupported() {
		return nil, nil
	}
	return purchase.NewPurchaseFromProcess(p)
}

func (s *purchaseCompleteService) persist(dbc dbctx.Context, p *purchase.Process, pur *purchase.Purchase) error {
	items := make([]map[string]any, 0, len(pur.Items))
	for _, it := range pur.Items {
		items = append(items, map[string]any{
			"itemId":         it.ItemID.String(),
			"subscriptionId": it.SubscriptionID.String(),
			"isCrossSale":    it.IsCrossSale,
			"transactionId":  it.TransactionID.String(),
		})
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode purchase items: %w", err)
	}

	row := &types.ProcessedPurchase{
		ID:        mustUUID(pur.PurchaseID.String()),
		SessionID: mustUUID(pur.SessionID.String()),
		MemberID:  mustUUID(pur.MemberID.String()),
		Status:    string(pur.Status),
		Items:     payload,
	}
	if _, err := s.purchaseRepo.Create(dbc.Ctx, dbc.Tx, row); err != nil {
		return fmt.Errorf("persist purchase: %w", err)
	}

	failed := purchase.FailedBillersFromItem(p.Items().MainItem())
	if !failed.IsEmpty() {
		if err := s.purchaseRepo.RecordFailedBillers(dbc.Ctx, dbc.Tx, row.SessionID, failed.Names()); err != nil {
			return fmt.Errorf("persist failed billers: %w", err)
		}
	}
	return nil
}
