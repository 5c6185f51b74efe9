package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/probiller/purchase-gateway/internal/data/repos"
	"github.com/probiller/purchase-gateway/internal/platform/logger"
	"github.com/probiller/purchase-gateway/internal/realtime"
	"github.com/probiller/purchase-gateway/internal/realtime/bus"
)

// DefaultTemplateRetryInterval is how often the outbox is drained.
const DefaultTemplateRetryInterval = 30 * time.Second

// TemplateRetryWorker drains the payment-template outbox: every interval it
// retries the template creation that failed inline during process and marks
// the row published once the backend accepts it. A retry event on the bus
// triggers a drain ahead of the ticker.
type TemplateRetryWorker struct {
	db              *gorm.DB
	log             *logger.Logger
	events          repos.TemplateEventRepo
	templateService PaymentTemplateService
	eventBus        bus.Bus
	interval        time.Duration
	batchSize       int
}

func NewTemplateRetryWorker(
	db *gorm.DB,
	log *logger.Logger,
	events repos.TemplateEventRepo,
	templateService PaymentTemplateService,
	eventBus bus.Bus,
	interval time.Duration,
) *TemplateRetryWorker {
	workerLog := log.With("service", "TemplateRetryWorker")
	return &TemplateRetryWorker{
		db:              db,
		log:             workerLog,
		events:          events,
		templateService: templateService,
		eventBus:        eventBus,
		interval:        interval,
		batchSize:       50,
	}
}

func (w *TemplateRetryWorker) Start(ctx context.Context) {
	if w.eventBus != nil {
		if err := w.eventBus.StartForwarder(ctx, func(m realtime.PurchaseEvent) {
			if m.Type == realtime.EventPaymentTemplateRetry {
				w.DrainOnce(ctx)
			}
		}); err != nil {
			w.log.Warn("subscribe template retry events failed; relying on ticker", "error", err)
		}
	}
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.DrainOnce(ctx)
			}
		}
	}()
}

// DrainOnce processes one batch. Rows that still fail stay unpublished for
// the next tick.
func (w *TemplateRetryWorker) DrainOnce(ctx context.Context) {
	rows, err := w.events.ListUnpublished(ctx, w.db, w.batchSize)
	if err != nil {
		w.log.Warn("list template retries failed", "error", err)
		return
	}
	for _, row := range rows {
		var payload struct {
			BillerName string `json:"billerName"`
			LastFour   string `json:"lastFour"`
		}
		if err := json.Unmarshal(row.Payload, &payload); err != nil {
			w.log.Error("bad template retry payload; dropping",
				"event_id", row.ID.String(), "error", err)
			if merr := w.events.MarkPublished(ctx, w.db, row.ID); merr != nil {
				w.log.Warn("mark dropped retry failed", "event_id", row.ID.String(), "error", merr)
			}
			continue
		}
		if _, err := w.templateService.CreateTemplate(ctx, row.MemberID.String(), payload.BillerName, payload.LastFour); err != nil {
			w.log.Warn("template retry failed; will try again",
				"event_id", row.ID.String(), "error", err)
			continue
		}
		if err := w.events.MarkPublished(ctx, w.db, row.ID); err != nil {
			w.log.Warn("mark template retry published failed",
				"event_id", row.ID.String(), "error", err)
			continue
		}
		w.log.Info("payment template retried",
			"event_id", row.ID.String(),
			"member_id", row.MemberID.String(),
		)
	}
}
