package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProcessedPurchase is the post-completion record reported downstream.
type ProcessedPurchase struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID      `gorm:"uniqueIndex;not null;column:session_id" json:"session_id"`
	MemberID  uuid.UUID      `gorm:"index;not null;column:member_id" json:"member_id"`
	Status    string         `gorm:"index;not null;column:status" json:"status"`
	Items     datatypes.JSON `gorm:"type:jsonb;not null;column:items" json:"items"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (ProcessedPurchase) TableName() string {
	return "processed_purchase"
}
