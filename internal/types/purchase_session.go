package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PurchaseSession is the persisted form of one purchase process. Payload is
// the aggregate snapshot, written whole on every interaction.
type PurchaseSession struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	State     string         `gorm:"index;not null;column:state" json:"state"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null;column:payload" json:"payload"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (PurchaseSession) TableName() string {
	return "purchase_session"
}
