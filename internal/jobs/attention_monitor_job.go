package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// AttentionSource reads per-kitchen attention counts.
type AttentionSource interface {
	Handle(ctx context.Context, query queries.AttentionSummaryQuery) ([]queries.KitchenAttention, error)
}

// PendingCounter reports the outbox backlog.
type PendingCounter interface {
	CountPending(ctx context.Context) (int64, error)
}

// AttentionMonitorJob refreshes the attention and outbox backlog gauges.
type AttentionMonitorJob struct {
	source  AttentionSource
	pending PendingCounter
	metrics *metrics.Metrics
	now     func() time.Time
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewAttentionMonitorJob(
	source AttentionSource,
	pending PendingCounter,
	m *metrics.Metrics,
	logger *slog.Logger,
) *AttentionMonitorJob {
	return &AttentionMonitorJob{
		source:  source,
		pending: pending,
		metrics: m,
		now:     time.Now,
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger.With("component", "attention_monitor_job"),
	}
}

// Start refreshes the gauges every 15 seconds.
func (j *AttentionMonitorJob) Start() error {
	_, err := j.cron.AddFunc("*/15 * * * * *", func() {
		ctx := context.Background()
		if err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Attention monitor failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Attention monitor job started (running every 15 seconds)")
	return nil
}

func (j *AttentionMonitorJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Attention monitor job stopped")
}

// RunOnce replaces the per-kitchen gauges so deactivated kitchens drop out.
// Both reads are attempted; their errors are joined.
func (j *AttentionMonitorJob) RunOnce(ctx context.Context) error {
	var attentionErr, pendingErr error

	query, err := queries.NewAttentionSummaryQuery(j.now())
	if err != nil {
		return err
	}
	kitchens, attentionErr := j.source.Handle(ctx, query)
	if attentionErr == nil {
		j.metrics.OrdersNeedingAttention.Reset()
		j.metrics.BatchesNeedingAttention.Reset()
		for _, k := range kitchens {
			id := k.KitchenID.String()
			j.metrics.OrdersNeedingAttention.WithLabelValues(id, k.Name).Set(float64(k.Orders))
			j.metrics.BatchesNeedingAttention.WithLabelValues(id, k.Name).Set(float64(k.Batches))
		}
	}

	pending, pendingErr := j.pending.CountPending(ctx)
	if pendingErr == nil {
		j.metrics.OutboxPending.Set(float64(pending))
	}

	return errors.Join(attentionErr, pendingErr)
}
