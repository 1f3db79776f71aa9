package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// DefaultRelayBatchSize bounds the outbox rows claimed per run.
const DefaultRelayBatchSize = 100

// OutboxRelayJob publishes committed domain events to the broker and then to
// dashboard subscribers. Delivery is at least once: a crash between publish
// and settle republishes the claimed rows.
type OutboxRelayJob struct {
	store       ports.OutboxStore
	publisher   ports.EventPublisher
	broadcaster ports.EventBroadcaster
	metrics     *metrics.Metrics
	batchSize   int
	cron        *cron.Cron
	logger      *slog.Logger
}

func NewOutboxRelayJob(
	store ports.OutboxStore,
	publisher ports.EventPublisher,
	broadcaster ports.EventBroadcaster,
	m *metrics.Metrics,
	batchSize int,
	logger *slog.Logger,
) *OutboxRelayJob {
	if batchSize <= 0 {
		batchSize = DefaultRelayBatchSize
	}
	return &OutboxRelayJob{
		store:       store,
		publisher:   publisher,
		broadcaster: broadcaster,
		metrics:     m,
		batchSize:   batchSize,
		cron:        cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:      logger.With("component", "outbox_relay_job"),
	}
}

// Start runs the relay every second. Overlapping runs are skipped.
func (j *OutboxRelayJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		if err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Outbox relay failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started (running every second)")
	return nil
}

// Stop waits for a running relay to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}

// RunOnce relays one claimed batch.
func (j *OutboxRelayJob) RunOnce(ctx context.Context) error {
	return j.store.WithinClaim(ctx, j.batchSize, j.relay)
}

func (j *OutboxRelayJob) relay(
	ctx context.Context,
	messages []ports.OutboxMessage,
) ([]kernel.UUID, map[kernel.UUID]error) {
	if len(messages) == 0 {
		return nil, nil
	}

	if err := j.publisher.Publish(ctx, messages); err != nil {
		j.metrics.RelayFailures.Inc()
		failed := make(map[kernel.UUID]error, len(messages))
		for _, m := range messages {
			failed[m.ID] = err
		}
		j.logger.WarnContext(ctx, "Outbox publish failed, will retry", "count", len(messages), "error", err)
		return nil, failed
	}

	sent := make([]kernel.UUID, 0, len(messages))
	for _, m := range messages {
		sent = append(sent, m.ID)
		j.metrics.EventsRelayed.WithLabelValues(m.EventType).Inc()
		j.broadcaster.Broadcast(m.KitchenID, m)
	}
	j.logger.DebugContext(ctx, "Outbox events relayed", "count", len(sent))
	return sent, nil
}
