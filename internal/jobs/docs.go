// Package jobs provides scheduled background tasks for the fulfillment service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Jobs never touch order or batch lifecycle state; they only read it or work
// the outbox.
//
// # Available Jobs
//
// 1. OutboxRelayJob - Runs every second, claims pending outbox rows, publishes
// them to Kafka and pushes them to dashboard WebSocket subscribers
// 2. AttentionMonitorJob - Runs every 15 seconds and refreshes the Prometheus
// gauges for orders and batches needing attention and the outbox backlog
//
// # Usage
//
//	jobManager := jobs.NewJobManager(outbox, publisher, hub, attention, outbox, m, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A failed publish marks every claimed row as failed; rows are retried on
// later runs until the outbox parks them
// - Overlapping runs are skipped rather than queued
// - Failed job starts will stop any already running jobs
package jobs
