package redis_test

import (
	"context"
	"testing"
	"time"

	"orders/internal/adapters/out/redis"
	"orders/internal/core/domain/model/kernel"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type IdempotencyStoreIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *goredis.Client
	store     *redis.IdempotencyStore
}

func (suite *IdempotencyStoreIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	endpoint, err := container.Endpoint(ctx, "")
	suite.Require().NoError(err)

	suite.client = goredis.NewClient(&goredis.Options{Addr: endpoint})
	suite.store = redis.NewIdempotencyStore(suite.client, time.Minute)
}

func (suite *IdempotencyStoreIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.client.FlushDB(context.Background()).Err())
}

func (suite *IdempotencyStoreIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		_ = suite.client.Close()
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *IdempotencyStoreIntegrationTestSuite) TestTryLock_SecondCallerLoses() {
	ctx := context.Background()

	first, err := suite.store.TryLock(ctx, "c-1", "key-1")
	suite.Require().NoError(err)
	second, err := suite.store.TryLock(ctx, "c-1", "key-1")
	suite.Require().NoError(err)

	suite.True(first)
	suite.False(second)
}

func (suite *IdempotencyStoreIntegrationTestSuite) TestTryLock_ScopesAreIndependent() {
	ctx := context.Background()

	a, err := suite.store.TryLock(ctx, "c-1", "key-1")
	suite.Require().NoError(err)
	b, err := suite.store.TryLock(ctx, "c-2", "key-1")
	suite.Require().NoError(err)

	suite.True(a)
	suite.True(b)
}

func (suite *IdempotencyStoreIntegrationTestSuite) TestTryLock_ColonsDoNotCrossScopes() {
	ctx := context.Background()
	id := kernel.NewUUID()

	suite.Require().NoError(suite.store.Remember(ctx, "c", "k", id))
	locked, err := suite.store.TryLock(ctx, "map", "c:k")
	suite.Require().NoError(err)
	suite.True(locked)

	first, err := suite.store.TryLock(ctx, "c:1", "k")
	suite.Require().NoError(err)
	second, err := suite.store.TryLock(ctx, "c", "1:k")
	suite.Require().NoError(err)
	suite.True(first)
	suite.True(second)

	got, found, err := suite.store.Recall(ctx, "c", "k")
	suite.Require().NoError(err)
	suite.True(found)
	suite.True(got.IsEqual(id))
}

func (suite *IdempotencyStoreIntegrationTestSuite) TestRelease_AllowsRetry() {
	ctx := context.Background()
	_, err := suite.store.TryLock(ctx, "c-1", "key-1")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.store.Release(ctx, "c-1", "key-1"))
	again, err := suite.store.TryLock(ctx, "c-1", "key-1")

	suite.Require().NoError(err)
	suite.True(again)
}

func (suite *IdempotencyStoreIntegrationTestSuite) TestRememberRecall() {
	ctx := context.Background()
	id := kernel.NewUUID()

	_, found, err := suite.store.Recall(ctx, "c-1", "key-1")
	suite.Require().NoError(err)
	suite.False(found)

	suite.Require().NoError(suite.store.Remember(ctx, "c-1", "key-1", id))
	got, found, err := suite.store.Recall(ctx, "c-1", "key-1")

	suite.Require().NoError(err)
	suite.True(found)
	suite.True(got.IsEqual(id))

	ttl, err := suite.client.TTL(ctx, "idemp:map:c-1:key-1").Result()
	suite.Require().NoError(err)
	suite.Positive(ttl)
}

func (suite *IdempotencyStoreIntegrationTestSuite) TestRecall_CorruptValueIsAnError() {
	ctx := context.Background()
	suite.Require().NoError(suite.client.Set(ctx, "idemp:map:c-1:key-1", "not-a-uuid", time.Minute).Err())

	_, _, err := suite.store.Recall(ctx, "c-1", "key-1")

	suite.Error(err)
}

func TestIdempotencyStoreIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IdempotencyStoreIntegrationTestSuite))
}
