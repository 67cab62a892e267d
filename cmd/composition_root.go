package cmd

import (
	"fmt"
	"log/slog"

	httpin "orders/internal/adapters/in/http"
	"orders/internal/adapters/out/postgres"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/ports"
	"orders/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot is built once in main and owns the wiring between adapters and
// use cases. Nothing in it is global.
type CompositionRoot struct {
	config      Config
	logger      *slog.Logger
	gormDB      *gorm.DB
	uowFactory  *postgres.GormUnitOfWorkFactory
	publisher   ports.EventPublisher
	idempotency ports.IdempotencyStore
}

// NewCompositionRoot wires the use cases. idempotency may be nil, which turns
// Idempotency-Key handling off.
func NewCompositionRoot(
	config Config,
	logger *slog.Logger,
	gormDB *gorm.DB,
	publisher ports.EventPublisher,
	idempotency ports.IdempotencyStore,
) CompositionRoot {
	return CompositionRoot{
		config:      config,
		logger:      logger,
		gormDB:      gormDB,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB),
		publisher:   publisher,
		idempotency: idempotency,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.idempotency)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateOrderStatusCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreatePublishPendingEventsCommandHandler() commands.PublishPendingEventsCommandHandler {
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPublishPendingEventsCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreatePurgePublishedEventsCommandHandler() commands.PurgePublishedEventsCommandHandler {
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPurgePublishedEventsCommandHandler(f)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateUpdateOrderStatusCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateListOrdersQueryHandler(),
	)
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	relayCmd, err := commands.NewPublishPendingEventsCommand(c.config.OutboxRelayBatchSize, c.config.OutboxRelayGracePeriod)
	if err != nil {
		return nil, fmt.Errorf("outbox relay: %w", err)
	}
	purgeCmd, err := commands.NewPurgePublishedEventsCommand(c.config.OutboxRetention)
	if err != nil {
		return nil, fmt.Errorf("outbox purge: %w", err)
	}

	return jobs.NewJobManager(
		jobs.NewOutboxRelayJob(c.CreatePublishPendingEventsCommandHandler(), relayCmd, c.config.OutboxRelaySchedule, c.logger),
		jobs.NewOutboxPurgeJob(c.CreatePurgePublishedEventsCommandHandler(), purgeCmd, c.config.OutboxPurgeSchedule, c.logger),
	), nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
