package cmd

import (
	"context"
	"errors"
	"log/slog"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/in/ws"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/accessrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	redisstore "fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config      Config
	gormDB      *gorm.DB
	uowFactory  *postgres.GormUnitOfWorkFactory
	gate        services.AccessGate
	selector    services.KitchenSelector
	coordinator services.ProductionCoordinator
	retry       commands.RetryPolicy

	outbox      *outboxrepo.GormOutboxRepository
	publisher   *kafka.Publisher
	redis       *redis.Client
	idempotency *redisstore.IdempotencyStore
	hub         *ws.Hub
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewCompositionRoot wires the adapters. Redis must be reachable; Kafka
// connects lazily on first publish.
func NewCompositionRoot(ctx context.Context, config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	redisClient, err := redisstore.NewClient(ctx, config.RedisAddr)
	if err != nil {
		return nil, err
	}

	retry := commands.DefaultRetryPolicy()
	retry.MaxRetries = config.TxMaxRetries

	m := metrics.New()
	return &CompositionRoot{
		config:      config,
		gormDB:      gormDB,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB),
		gate:        services.NewAccessGate(config.PlatformAdmins),
		selector:    services.NewKitchenSelector(),
		coordinator: services.NewProductionCoordinator(),
		retry:       retry,
		outbox:      outboxrepo.NewGormOutboxRepository(gormDB, outboxrepo.DefaultMaxAttempts),
		publisher:   kafka.NewPublisher(kafka.NewWriter(config.KafkaBrokers), config.KafkaOrderEventsTopic, logger),
		redis:       redisClient,
		idempotency: redisstore.NewIdempotencyStore(redisClient, redisstore.DefaultKeyPrefix),
		hub:         ws.NewHub(logger, m.WebSocketSubscribers),
		metrics:     m,
		logger:      logger,
	}, nil
}

// Close releases the connections owned by the root.
func (c *CompositionRoot) Close() error {
	c.hub.Close()
	return errors.Join(c.publisher.Close(), c.redis.Close())
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateRouteOrderCommandHandler() commands.RouteOrderCommandHandler {
	var f commands.RoutingUoWFactory = FuncRoutingUoWFactory(func() commands.RoutingUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRouteOrderCommandHandler(f, c.selector, c.retry)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.uow(), c.gate, c.retry)
}

func (c *CompositionRoot) CreateAssignOrderCommandHandler() commands.AssignOrderCommandHandler {
	return commands.NewAssignOrderCommandHandler(c.uow(), c.gate, c.retry)
}

func (c *CompositionRoot) CreateCreateBatchCommandHandler() commands.CreateBatchCommandHandler {
	return commands.NewCreateBatchCommandHandler(c.uow(), c.gate, c.coordinator, c.retry)
}

func (c *CompositionRoot) CreateUpdateBatchStatusCommandHandler() commands.UpdateBatchStatusCommandHandler {
	return commands.NewUpdateBatchStatusCommandHandler(c.uow(), c.gate, c.coordinator, c.retry)
}

func (c *CompositionRoot) CreateUpdateBatchItemStatusCommandHandler() commands.UpdateBatchItemStatusCommandHandler {
	return commands.NewUpdateBatchItemStatusCommandHandler(c.uow(), c.gate, c.coordinator, c.retry)
}

func (c *CompositionRoot) CreateCancelBatchCommandHandler() commands.CancelBatchCommandHandler {
	return commands.NewCancelBatchCommandHandler(c.uow(), c.gate, c.coordinator, c.retry)
}

func (c *CompositionRoot) CreateAssignBatchCommandHandler() commands.AssignBatchCommandHandler {
	return commands.NewAssignBatchCommandHandler(c.uow(), c.gate, c.retry)
}

func (c *CompositionRoot) CreateCreateZoneCommandHandler() commands.CreateZoneCommandHandler {
	return commands.NewCreateZoneCommandHandler(c.uow(), c.gate, c.retry)
}

func (c *CompositionRoot) CreateCreateKitchenCommandHandler() commands.CreateKitchenCommandHandler {
	return commands.NewCreateKitchenCommandHandler(c.uow(), c.gate, c.retry)
}

func (c *CompositionRoot) CreateUpdateKitchenCommandHandler() commands.UpdateKitchenCommandHandler {
	return commands.NewUpdateKitchenCommandHandler(c.uow(), c.gate, c.retry)
}

func (c *CompositionRoot) CreateDeactivateKitchenCommandHandler() commands.DeactivateKitchenCommandHandler {
	return commands.NewDeactivateKitchenCommandHandler(c.uow(), c.gate, c.retry)
}

func (c *CompositionRoot) CreateAssignAccessCommandHandler() commands.AssignAccessCommandHandler {
	return commands.NewAssignAccessCommandHandler(c.uow(), c.gate, c.retry)
}

func (c *CompositionRoot) CreateRevokeAccessCommandHandler() commands.RevokeAccessCommandHandler {
	return commands.NewRevokeAccessCommandHandler(c.uow(), c.gate, c.retry)
}

func (c *CompositionRoot) CreateSeedRolesCommandHandler() commands.SeedRolesCommandHandler {
	return commands.NewSeedRolesCommandHandler(c.uow(), c.retry)
}

// SeedRoles upserts the catalogue at path. An empty path is a no-op.
func (c *CompositionRoot) SeedRoles(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	definitions, err := LoadRoleDefinitions(path)
	if err != nil {
		return err
	}
	cmd, err := commands.NewSeedRolesCommand(definitions)
	if err != nil {
		return err
	}
	handler := c.CreateSeedRolesCommandHandler()
	res, err := handler.Handle(ctx, cmd)
	if err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "Role catalogue seeded", "file", path, "created", res.Created, "updated", res.Updated)
	return nil
}

// authorizer resolves grants outside any unit of work; reads do not lock.
func (c *CompositionRoot) authorizer() queries.Authorizer {
	return queries.NewAuthorizer(accessrepo.NewGormAccessRepository(c.gormDB), c.gate)
}

func (c *CompositionRoot) CreateListKitchenOrdersQueryHandler() queries.ListKitchenOrdersQueryHandler {
	return queries.NewListKitchenOrdersQueryHandler(c.gormDB, c.authorizer())
}

func (c *CompositionRoot) CreateGetBatchQueryHandler() queries.GetBatchQueryHandler {
	return queries.NewGetBatchQueryHandler(c.gormDB, c.authorizer())
}

func (c *CompositionRoot) CreateGetKitchensQueryHandler() queries.GetKitchensQueryHandler {
	return queries.NewGetKitchensQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUserPermissionsQueryHandler() queries.GetUserPermissionsQueryHandler {
	return queries.NewGetUserPermissionsQueryHandler(c.authorizer())
}

func (c *CompositionRoot) CreateGetAttentionSummaryQueryHandler() queries.GetAttentionSummaryQueryHandler {
	return queries.NewGetAttentionSummaryQueryHandler(c.gormDB)
}

// HTTPHandlers collects every use case served over HTTP.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	routeOrder := c.CreateRouteOrderCommandHandler()
	updateOrderStatus := c.CreateUpdateOrderStatusCommandHandler()
	assignOrder := c.CreateAssignOrderCommandHandler()
	createBatch := c.CreateCreateBatchCommandHandler()
	updateBatchStatus := c.CreateUpdateBatchStatusCommandHandler()
	updateBatchItemStatus := c.CreateUpdateBatchItemStatusCommandHandler()
	cancelBatch := c.CreateCancelBatchCommandHandler()
	assignBatch := c.CreateAssignBatchCommandHandler()
	createZone := c.CreateCreateZoneCommandHandler()
	createKitchen := c.CreateCreateKitchenCommandHandler()
	updateKitchen := c.CreateUpdateKitchenCommandHandler()
	deactivateKitchen := c.CreateDeactivateKitchenCommandHandler()
	assignAccess := c.CreateAssignAccessCommandHandler()
	revokeAccess := c.CreateRevokeAccessCommandHandler()

	return httpin.Handlers{
		RouteOrder:            &routeOrder,
		UpdateOrderStatus:     &updateOrderStatus,
		AssignOrder:           &assignOrder,
		CreateBatch:           &createBatch,
		UpdateBatchStatus:     &updateBatchStatus,
		UpdateBatchItemStatus: &updateBatchItemStatus,
		CancelBatch:           &cancelBatch,
		AssignBatch:           &assignBatch,
		CreateZone:            &createZone,
		CreateKitchen:         &createKitchen,
		UpdateKitchen:         &updateKitchen,
		DeactivateKitchen:     &deactivateKitchen,
		AssignAccess:          &assignAccess,
		RevokeAccess:          &revokeAccess,

		ListKitchenOrders: c.CreateListKitchenOrdersQueryHandler(),
		OrderStats:        queries.NewGetKitchenOrderStatsQueryHandler(c.gormDB, c.authorizer()),
		BatchStats:        queries.NewGetKitchenBatchStatsQueryHandler(c.gormDB, c.authorizer()),
		OrdersAttention:   queries.NewGetOrdersNeedingAttentionQueryHandler(c.gormDB, c.authorizer()),
		BatchesAttention:  queries.NewGetBatchesNeedingAttentionQueryHandler(c.gormDB, c.authorizer()),
		GetBatch:          c.CreateGetBatchQueryHandler(),
		Kitchens:          c.CreateGetKitchensQueryHandler(),
		UserPermissions:   c.CreateGetUserPermissionsQueryHandler(),
	}
}

func (c *CompositionRoot) NewHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.HTTPHandlers(),
		c.gate,
		c.hub,
		c.idempotency,
		c.metrics,
		httpin.Config{
			JWTSecret:      []byte(c.config.JWTSecret),
			IdempotencyTTL: c.config.IdempotencyTTL,
		},
		c.logger,
	)
}

func (c *CompositionRoot) NewJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.outbox,
		c.publisher,
		c.hub,
		c.CreateGetAttentionSummaryQueryHandler(),
		c.outbox,
		c.metrics,
		c.logger,
	)
}

type FuncRoutingUoWFactory func() commands.RoutingUoW

func (f FuncRoutingUoWFactory) Create() commands.RoutingUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
