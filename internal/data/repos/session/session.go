package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/probiller/purchase-gateway/internal/platform/logger"
	"github.com/probiller/purchase-gateway/internal/types"
)

// ErrSessionNotFound names the unknown-session case so handlers can map it
// to a 404 instead of a 500.
var ErrSessionNotFound = errors.New("purchase session not found")

type SessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, id uuid.UUID, state string, payload []byte) (*types.PurchaseSession, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PurchaseSession, error)
	SaveSnapshot(ctx context.Context, tx *gorm.DB, id uuid.UUID, state string, payload []byte) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	repoLog := baseLog.With("repo", "SessionRepo")
	return &sessionRepo{db: db, log: repoLog}
}

func (sr *sessionRepo) Create(ctx context.Context, tx *gorm.DB, id uuid.UUID, state string, payload []byte) (*types.PurchaseSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	row := &types.PurchaseSession{
		ID:      id,
		State:   state,
		Payload: datatypes.JSON(payload),
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (sr *sessionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PurchaseSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var row types.PurchaseSession
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
		}
		return nil, err
	}
	return &row, nil
}

func (sr *sessionRepo) SaveSnapshot(ctx context.Context, tx *gorm.DB, id uuid.UUID, state string, payload []byte) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.PurchaseSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":   state,
			"payload": datatypes.JSON(payload),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return nil
}
