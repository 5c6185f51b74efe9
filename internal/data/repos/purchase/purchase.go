package purchase

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/probiller/purchase-gateway/internal/platform/logger"
	"github.com/probiller/purchase-gateway/internal/types"
)

type PurchaseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ProcessedPurchase) (*types.ProcessedPurchase, error)
	GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.ProcessedPurchase, error)
	RecordFailedBillers(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, billerNames []string) error
	FailedBillersForSession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]string, error)
}

type purchaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPurchaseRepo(db *gorm.DB, baseLog *logger.Logger) PurchaseRepo {
	repoLog := baseLog.With("repo", "PurchaseRepo")
	return &purchaseRepo{db: db, log: repoLog}
}

func (pr *purchaseRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ProcessedPurchase) (*types.ProcessedPurchase, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if len(row.Items) == 0 {
		row.Items = datatypes.JSON([]byte("[]"))
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (pr *purchaseRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.ProcessedPurchase, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var row types.ProcessedPurchase
	if err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (pr *purchaseRepo) RecordFailedBillers(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, billerNames []string) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(billerNames) == 0 {
		return nil
	}
	rows := make([]*types.FailedBillerRecord, 0, len(billerNames))
	for _, name := range billerNames {
		rows = append(rows, &types.FailedBillerRecord{
			ID:         uuid.New(),
			SessionID:  sessionID,
			BillerName: name,
		})
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}

func (pr *purchaseRepo) FailedBillersForSession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var names []string
	if err := transaction.WithContext(ctx).
		Model(&types.FailedBillerRecord{}).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Pluck("biller_name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}
