package jobs

import (
	"fmt"
)

// job is a scheduled task with a start/stop lifecycle.
type job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	outboxRelayJob *OutboxRelayJob
	outboxPurgeJob *OutboxPurgeJob
}

// NewJobManager takes ready-built jobs; a nil job is skipped.
func NewJobManager(outboxRelayJob *OutboxRelayJob, outboxPurgeJob *OutboxPurgeJob) *JobManager {
	return &JobManager{
		outboxRelayJob: outboxRelayJob,
		outboxPurgeJob: outboxPurgeJob,
	}
}

func (jm *JobManager) jobs() []namedJob {
	var list []namedJob
	if jm.outboxRelayJob != nil {
		list = append(list, namedJob{name: "outbox relay", job: jm.outboxRelayJob})
	}
	if jm.outboxPurgeJob != nil {
		list = append(list, namedJob{name: "outbox purge", job: jm.outboxPurgeJob})
	}
	return list
}

type namedJob struct {
	name string
	job  job
}

// StartAll starts all scheduled jobs. If one fails to start, the ones already
// started are stopped again.
func (jm *JobManager) StartAll() error {
	var started []namedJob
	for _, j := range jm.jobs() {
		if err := j.job.Start(); err != nil {
			for _, s := range started {
				s.job.Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", j.name, err)
		}
		started = append(started, j)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	for _, j := range jm.jobs() {
		j.job.Stop()
	}
}
