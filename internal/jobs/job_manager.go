package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	outboxRelayJob      *OutboxRelayJob
	attentionMonitorJob *AttentionMonitorJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	outbox ports.OutboxStore,
	publisher ports.EventPublisher,
	broadcaster ports.EventBroadcaster,
	attention AttentionSource,
	pending PendingCounter,
	m *metrics.Metrics,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		outboxRelayJob:      NewOutboxRelayJob(outbox, publisher, broadcaster, m, DefaultRelayBatchSize, logger),
		attentionMonitorJob: NewAttentionMonitorJob(attention, pending, m, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxRelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	if err := jm.attentionMonitorJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.outboxRelayJob.Stop()
		return fmt.Errorf("failed to start attention monitor job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones.
func (jm *JobManager) StopAll() {
	jm.attentionMonitorJob.Stop()
	jm.outboxRelayJob.Stop()
}
