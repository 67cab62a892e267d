package jobs

import (
	"context"
	"log/slog"
	"time"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/pkg/logging"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
)

const DefaultRelaySchedule = "*/5 * * * * *"

var (
	relayPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_outbox_relay_published_total",
		Help: "Outbox events delivered by the relay",
	})
	relayFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_outbox_relay_failed_total",
		Help: "Outbox events the relay failed to deliver",
	})
	relayRunErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_outbox_relay_run_errors_total",
		Help: "Relay runs aborted by a storage error",
	})
)

type publishPendingEventsHandler interface {
	Handle(ctx context.Context, cmd commands.PublishPendingEventsCommand) (commands.PublishPendingEventsResult, error)
}

// OutboxRelayJob delivers outbox events whose direct publish failed.
type OutboxRelayJob struct {
	handler  publishPendingEventsHandler
	cmd      commands.PublishPendingEventsCommand
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOutboxRelayJob uses a six-field cron schedule (seconds first).
func NewOutboxRelayJob(
	handler publishPendingEventsHandler,
	cmd commands.PublishPendingEventsCommand,
	schedule string,
	logger *slog.Logger,
) *OutboxRelayJob {
	if schedule == "" {
		schedule = DefaultRelaySchedule
	}
	return &OutboxRelayJob{
		handler:  handler,
		cmd:      cmd,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "outbox_relay_job"),
	}
}

func (j *OutboxRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started", "schedule", j.schedule)
	return nil
}

// Run executes one relay pass. Scheduled passes never overlap.
func (j *OutboxRelayJob) Run() {
	ctx, cancel := context.WithTimeout(logging.WithContext(context.Background(), j.logger), time.Minute)
	defer cancel()

	result, err := j.handler.Handle(ctx, j.cmd)
	relayPublished.Add(float64(result.Published))
	relayFailed.Add(float64(result.Failed))
	if err != nil {
		relayRunErrors.Inc()
		j.logger.ErrorContext(ctx, "Outbox relay job failed", "error", err)
		return
	}
	if result.Published > 0 || result.Failed > 0 {
		j.logger.InfoContext(ctx, "Outbox relay run finished",
			"published", result.Published,
			"failed", result.Failed,
		)
	}
}

// Stop waits for a running pass to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}
