package templateevent

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/probiller/purchase-gateway/internal/platform/logger"
	"github.com/probiller/purchase-gateway/internal/types"
)

type TemplateEventRepo interface {
	Append(ctx context.Context, tx *gorm.DB, sessionID, memberID uuid.UUID, payload []byte) (*types.PaymentTemplateEvent, error)
	ListUnpublished(ctx context.Context, tx *gorm.DB, limit int) ([]*types.PaymentTemplateEvent, error)
	MarkPublished(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type templateEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTemplateEventRepo(db *gorm.DB, baseLog *logger.Logger) TemplateEventRepo {
	repoLog := baseLog.With("repo", "TemplateEventRepo")
	return &templateEventRepo{db: db, log: repoLog}
}

func (tr *templateEventRepo) Append(ctx context.Context, tx *gorm.DB, sessionID, memberID uuid.UUID, payload []byte) (*types.PaymentTemplateEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	row := &types.PaymentTemplateEvent{
		ID:        uuid.New(),
		SessionID: sessionID,
		MemberID:  memberID,
		Payload:   datatypes.JSON(payload),
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (tr *templateEventRepo) ListUnpublished(ctx context.Context, tx *gorm.DB, limit int) ([]*types.PaymentTemplateEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if limit <= 0 {
		limit = 100
	}
	var rows []*types.PaymentTemplateEvent
	if err := transaction.WithContext(ctx).
		Where("published_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (tr *templateEventRepo) MarkPublished(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	now := time.Now().UTC()
	return transaction.WithContext(ctx).
		Model(&types.PaymentTemplateEvent{}).
		Where("id = ?", id).
		Update("published_at", &now).Error
}
