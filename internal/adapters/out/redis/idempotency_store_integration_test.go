package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	adapter "fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type IdempotencyStoreIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	rdb       *redis.Client
	store     *adapter.IdempotencyStore
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

	host, err := container.Host(ctx)
	suite.Require().NoError(err)
	port, err := container.MappedPort(ctx, "6379")
	suite.Require().NoError(err)

	suite.rdb, err = adapter.NewClient(ctx, fmt.Sprintf("%s:%s", host, port.Port()))
	suite.Require().NoError(err)
	suite.store = adapter.NewIdempotencyStore(suite.rdb, "")
}

func (suite *IdempotencyStoreIntegrationTestSuite) TearDownSuite() {
	if suite.rdb != nil {
		_ = suite.rdb.Close()
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *IdempotencyStoreIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.rdb.FlushAll(context.Background()).Err())
}

func (suite *IdempotencyStoreIntegrationTestSuite) TestSeen_FirstAndReplay() {
	ctx := context.Background()

	seen, err := suite.store.Seen(ctx, "key-1", time.Minute)
	suite.Require().NoError(err)
	suite.False(seen)

	seen, err = suite.store.Seen(ctx, "key-1", time.Minute)
	suite.Require().NoError(err)
	suite.True(seen)

	ttl, err := suite.rdb.TTL(ctx, adapter.DefaultKeyPrefix+"key-1").Result()
	suite.Require().NoError(err)
	suite.Greater(ttl, time.Duration(0))
	suite.LessOrEqual(ttl, time.Minute)
}

func (suite *IdempotencyStoreIntegrationTestSuite) TestSeen_Expires() {
	ctx := context.Background()

	_, err := suite.store.Seen(ctx, "short", 100*time.Millisecond)
	suite.Require().NoError(err)

	suite.Eventually(func() bool {
		seen, err := suite.store.Seen(ctx, "short", time.Minute)
		return err == nil && !seen
	}, 3*time.Second, 50*time.Millisecond)
}

func (suite *IdempotencyStoreIntegrationTestSuite) TestForget() {
	ctx := context.Background()

	_, err := suite.store.Seen(ctx, "retry-me", time.Minute)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.store.Forget(ctx, "retry-me"))

	seen, err := suite.store.Seen(ctx, "retry-me", time.Minute)
	suite.Require().NoError(err)
	suite.False(seen)
}

func (suite *IdempotencyStoreIntegrationTestSuite) TestSeen_Invalid() {
	_, err := suite.store.Seen(context.Background(), "", time.Minute)
	suite.ErrorIs(err, errs.ErrValueIsRequired)

	_, err = suite.store.Seen(context.Background(), "k", 0)
	suite.ErrorIs(err, errs.ErrValueIsOutOfRange)
}

func TestIdempotencyStoreIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IdempotencyStoreIntegrationTestSuite))
}
