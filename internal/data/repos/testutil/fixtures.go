package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/probiller/purchase-gateway/internal/types"
)

func SeedPurchaseSession(tb testing.TB, ctx context.Context, tx *gorm.DB, state string) *types.PurchaseSession {
	tb.Helper()
	row := &types.PurchaseSession{
		ID:      uuid.New(),
		State:   state,
		Payload: datatypes.JSON([]byte(`{"sessionId":"` + uuid.NewString() + `"}`)),
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed purchase session: %v", err)
	}
	return row
}

func SeedProcessedPurchase(tb testing.TB, ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) *types.ProcessedPurchase {
	tb.Helper()
	row := &types.ProcessedPurchase{
		ID:        uuid.New(),
		SessionID: sessionID,
		MemberID:  uuid.New(),
		Status:    "success",
		Items:     datatypes.JSON([]byte(`[]`)),
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed processed purchase: %v", err)
	}
	return row
}

func SeedTemplateEvent(tb testing.TB, ctx context.Context, tx *gorm.DB, sessionID, memberID uuid.UUID) *types.PaymentTemplateEvent {
	tb.Helper()
	row := &types.PaymentTemplateEvent{
		ID:        uuid.New(),
		SessionID: sessionID,
		MemberID:  memberID,
		Payload:   datatypes.JSON([]byte(`{"billerName":"rocketgate","lastFour":"1111"}`)),
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed template event: %v", err)
	}
	return row
}
