package rabbitmq_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"orders/internal/adapters/out/messaging"
	"orders/internal/adapters/out/messaging/rabbitmq"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PublisherIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	conn      *amqp.Connection
	publisher *rabbitmq.Publisher
	consumer  *amqp.Channel
	queue     string
}

func (suite *PublisherIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3.13-alpine",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor: wait.ForLog("Server startup complete").
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	host, err := container.Host(ctx)
	suite.Require().NoError(err)
	port, err := container.MappedPort(ctx, "5672/tcp")
	suite.Require().NoError(err)

	conn, err := rabbitmq.Dial(fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port()))
	suite.Require().NoError(err)
	suite.conn = conn

	publisher, err := rabbitmq.NewPublisher(conn, "", "", slog.Default())
	suite.Require().NoError(err)
	suite.publisher = publisher

	consumer, err := conn.Channel()
	suite.Require().NoError(err)
	suite.consumer = consumer

	q, err := consumer.QueueDeclare("", false, true, true, false, nil)
	suite.Require().NoError(err)
	suite.Require().NoError(consumer.QueueBind(q.Name, rabbitmq.DefaultRoutingKey, rabbitmq.DefaultExchange, false, nil))
	suite.queue = q.Name
}

func (suite *PublisherIntegrationTestSuite) TearDownSuite() {
	if suite.publisher != nil {
		suite.Require().NoError(suite.publisher.Close())
	}
	if suite.conn != nil {
		_ = suite.conn.Close()
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *PublisherIntegrationTestSuite) TestPublishStatusChanged_DeliversPersistentJSON() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	event := order.StatusChangedEvent{
		EventID:    kernel.NewUUID(),
		OrderID:    kernel.NewUUID(),
		OldStatus:  order.Processing,
		NewStatus:  order.Shipped,
		OccurredAt: time.Now().UTC(),
	}

	suite.Require().NoError(suite.publisher.PublishStatusChanged(ctx, event))

	deliveries, err := suite.consumer.ConsumeWithContext(ctx, suite.queue, "", true, true, false, false, nil)
	suite.Require().NoError(err)

	select {
	case d := <-deliveries:
		suite.Equal(event.EventID.String(), d.MessageId)
		suite.Equal(messaging.ContentType, d.ContentType)
		suite.Equal(amqp.Persistent, d.DeliveryMode)
		suite.Equal(rabbitmq.DefaultRoutingKey, d.RoutingKey)

		var msg messaging.StatusChangedMessage
		suite.Require().NoError(json.Unmarshal(d.Body, &msg))
		suite.Equal(event.OrderID.String(), msg.OrderID)
		suite.Equal("processing", msg.OldStatus)
		suite.Equal("shipped", msg.NewStatus)
		suite.Equal(order.EventTypeStatusChanged, msg.EventType)
	case <-ctx.Done():
		suite.Fail("message was not delivered")
	}
}

func (suite *PublisherIntegrationTestSuite) TestPublishStatusChanged_ReopensClosedChannel() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	suite.Require().NoError(suite.publisher.Close())

	err := suite.publisher.PublishStatusChanged(ctx, order.StatusChangedEvent{
		EventID:    kernel.NewUUID(),
		OrderID:    kernel.NewUUID(),
		OldStatus:  order.Pending,
		NewStatus:  order.Cancelled,
		OccurredAt: time.Now().UTC(),
	})

	suite.Require().NoError(err)
}

func TestPublisherIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(PublisherIntegrationTestSuite))
}
