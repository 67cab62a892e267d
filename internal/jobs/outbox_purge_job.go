package jobs

import (
	"context"
	"log/slog"
	"time"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/pkg/logging"

	"github.com/robfig/cron/v3"
)

const DefaultPurgeSchedule = "0 0 * * * *"

type purgePublishedEventsHandler interface {
	Handle(ctx context.Context, cmd commands.PurgePublishedEventsCommand) (int64, error)
}

// OutboxPurgeJob deletes delivered outbox records past their retention.
type OutboxPurgeJob struct {
	handler  purgePublishedEventsHandler
	cmd      commands.PurgePublishedEventsCommand
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewOutboxPurgeJob(
	handler purgePublishedEventsHandler,
	cmd commands.PurgePublishedEventsCommand,
	schedule string,
	logger *slog.Logger,
) *OutboxPurgeJob {
	if schedule == "" {
		schedule = DefaultPurgeSchedule
	}
	return &OutboxPurgeJob{
		handler:  handler,
		cmd:      cmd,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "outbox_purge_job"),
	}
}

func (j *OutboxPurgeJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox purge job started", "schedule", j.schedule)
	return nil
}

func (j *OutboxPurgeJob) Run() {
	ctx, cancel := context.WithTimeout(logging.WithContext(context.Background(), j.logger), 5*time.Minute)
	defer cancel()

	if _, err := j.handler.Handle(ctx, j.cmd); err != nil {
		j.logger.ErrorContext(ctx, "Outbox purge job failed", "error", err)
	}
}

func (j *OutboxPurgeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox purge job stopped")
}
