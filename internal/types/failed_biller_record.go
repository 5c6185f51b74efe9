package types

import (
	"time"

	"github.com/google/uuid"
)

// FailedBillerRecord is one audit row per biller that declined or aborted
// during a session's cascade.
type FailedBillerRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID  uuid.UUID `gorm:"index;not null;column:session_id" json:"session_id"`
	BillerName string    `gorm:"not null;column:biller_name" json:"biller_name"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (FailedBillerRecord) TableName() string {
	return "failed_biller_record"
}
