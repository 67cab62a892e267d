package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orders/api"
	"orders/cmd"
	httpin "orders/internal/adapters/in/http"
	"orders/internal/adapters/out/messaging/kafka"
	"orders/internal/adapters/out/messaging/rabbitmq"
	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/adapters/out/postgres/outboxrepo"
	"orders/internal/adapters/out/redis"
	"orders/internal/core/ports"
	"orders/internal/pkg/logging"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	goredis "github.com/redis/go-redis/v9"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	config, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, logCloser, err := logging.New(logging.Options{
		Service:  config.ServiceName,
		Level:    config.LogLevel,
		FilePath: config.LogFile,
	})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	if err := run(config, logger); err != nil {
		logger.Error("service stopped with error", "error", err)
		_ = logCloser.Close()
		os.Exit(1)
	}
}

func run(config cmd.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(config)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	publisher, publisherCloser, err := newPublisher(config, logger)
	if err != nil {
		return err
	}
	defer publisherCloser.Close()

	healthChecks := map[string]httpin.HealthCheck{
		"database": sqlDB.PingContext,
	}

	var idempotency ports.IdempotencyStore
	if config.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
		})
		defer client.Close()
		if err = client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		store := redis.NewIdempotencyStore(client, config.IdempotencyTTL)
		idempotency = store
		healthChecks["redis"] = store.Ping
	} else {
		logger.Warn("REDIS_ADDR not set, Idempotency-Key header is ignored")
	}

	app := cmd.NewCompositionRoot(config, logger, db, publisher, idempotency)

	jobManager, err := app.CreateJobManager()
	if err != nil {
		return err
	}
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	doc, err := api.Load()
	if err != nil {
		return err
	}
	e, err := httpin.NewRouter(app.CreateHTTPServer(), httpin.RouterOptions{
		Logger:       logger,
		Doc:          doc,
		HealthChecks: healthChecks,
	})
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)
		logger.Info("http server listening", "addr", addr)
		if startErr := e.Start(addr); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
			serverErr <- startErr
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err = <-serverErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openDatabase(config cmd.Config) (*gorm.DB, error) {
	db, err := gorm.Open(gorm_postgres.Open(config.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err = db.AutoMigrate(&orderrepo.OrderDTO{}, &outboxrepo.OutboxDTO{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func newPublisher(config cmd.Config, logger *slog.Logger) (ports.EventPublisher, io.Closer, error) {
	switch config.EventBroker {
	case cmd.BrokerKafka:
		publisher := kafka.NewPublisher(config.KafkaBrokers, config.KafkaOrderStatusTopic, logger)
		return publisher, publisher, nil
	default:
		conn, err := rabbitmq.Dial(config.RabbitMQURL)
		if err != nil {
			return nil, nil, err
		}
		publisher, err := rabbitmq.NewPublisher(conn, config.RabbitMQExchange, config.RabbitMQRoutingKey, logger)
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return publisher, closerFunc(func() error {
			return errors.Join(publisher.Close(), conn.Close())
		}), nil
	}
}
