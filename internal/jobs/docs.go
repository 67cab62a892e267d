// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, six-field schedules with
// seconds) and log through *slog.Logger.
//
// # Available Jobs
//
//  1. OutboxRelayJob - every 5 seconds by default, publishes outbox events whose
//     direct publish after commit failed
//  2. OutboxPurgeJob - hourly by default, deletes published outbox records older
//     than the retention window
//
// # Usage
//
//	relay := jobs.NewOutboxRelayJob(relayHandler, relayCmd, "", logger)
//	purge := jobs.NewOutboxPurgeJob(purgeHandler, purgeCmd, "", logger)
//	jobManager := jobs.NewJobManager(relay, purge)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
//   - A relay publish failure is recorded on the outbox record and retried on
//     the next run; only storage errors fail a run
//   - Failed job starts will stop any already running jobs
package jobs
