package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PaymentTemplateEvent is an outbox row for a payment-template write that
// failed synchronously and must be retried out of band.
type PaymentTemplateEvent struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID   uuid.UUID      `gorm:"index;not null;column:session_id" json:"session_id"`
	MemberID    uuid.UUID      `gorm:"index;not null;column:member_id" json:"member_id"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null;column:payload" json:"payload"`
	PublishedAt *time.Time     `gorm:"column:published_at" json:"published_at"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (PaymentTemplateEvent) TableName() string {
	return "payment_template_event"
}
