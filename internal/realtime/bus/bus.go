package bus

import (
	"context"

	"github.com/probiller/purchase-gateway/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, msg realtime.PurchaseEvent) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.PurchaseEvent)) error
	Close() error
}
