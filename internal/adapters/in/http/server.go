package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fulfillment/api"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type (
	// CommandHandler is a use case that only reports failure.
	CommandHandler[C any] interface {
		Handle(ctx context.Context, cmd C) error
	}

	// ResultHandler is a use case that returns a value.
	ResultHandler[C, R any] interface {
		Handle(ctx context.Context, cmd C) (R, error)
	}

	// KitchenReader lists kitchens and reads a single one.
	KitchenReader interface {
		Handle(ctx context.Context, query queries.GetKitchensQuery) ([]queries.KitchenView, error)
		HandleOne(ctx context.Context, query queries.GetKitchenQuery) (queries.KitchenView, error)
	}

	// EventStream upgrades a request into a kitchen event subscription.
	EventStream interface {
		Serve(w http.ResponseWriter, r *http.Request, kitchenID kernel.UUID) error
	}
)

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	RouteOrder            ResultHandler[commands.RouteOrderCommand, commands.RouteOrderResult]
	UpdateOrderStatus     CommandHandler[commands.UpdateOrderStatusCommand]
	AssignOrder           CommandHandler[commands.AssignOrderCommand]
	CreateBatch           ResultHandler[commands.CreateBatchCommand, kernel.UUID]
	UpdateBatchStatus     CommandHandler[commands.UpdateBatchStatusCommand]
	UpdateBatchItemStatus ResultHandler[commands.UpdateBatchItemStatusCommand, commands.UpdateBatchItemStatusResult]
	CancelBatch           CommandHandler[commands.CancelBatchCommand]
	AssignBatch           CommandHandler[commands.AssignBatchCommand]
	CreateZone            ResultHandler[commands.CreateZoneCommand, kernel.UUID]
	CreateKitchen         ResultHandler[commands.CreateKitchenCommand, kernel.UUID]
	UpdateKitchen         CommandHandler[commands.UpdateKitchenCommand]
	DeactivateKitchen     CommandHandler[commands.DeactivateKitchenCommand]
	AssignAccess          CommandHandler[commands.AssignAccessCommand]
	RevokeAccess          CommandHandler[commands.RevokeAccessCommand]

	ListKitchenOrders ResultHandler[queries.ListKitchenOrdersQuery, queries.ListKitchenOrdersResponse]
	OrderStats        ResultHandler[queries.KitchenStatsQuery, queries.KitchenOrderStats]
	BatchStats        ResultHandler[queries.KitchenStatsQuery, queries.KitchenBatchStats]
	OrdersAttention   ResultHandler[queries.NeedingAttentionQuery, []queries.OrderAttention]
	BatchesAttention  ResultHandler[queries.NeedingAttentionQuery, []queries.BatchAttention]
	GetBatch          ResultHandler[queries.GetBatchQuery, queries.GetBatchQueryResponse]
	Kitchens          KitchenReader
	UserPermissions   ResultHandler[queries.GetUserPermissionsQuery, queries.GetUserPermissionsQueryResponse]
}

// Config holds the HTTP adapter settings.
type Config struct {
	JWTSecret      []byte
	IdempotencyTTL time.Duration
}

// Server translates HTTP requests into commands and queries and renders
// their results in the response envelope.
type Server struct {
	handlers    Handlers
	gate        services.AccessGate
	events      EventStream
	idempotency ports.IdempotencyStore
	metrics     *metrics.Metrics
	config      Config
	logger      *slog.Logger
	now         func() time.Time
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	handlers Handlers,
	gate services.AccessGate,
	events EventStream,
	idempotency ports.IdempotencyStore,
	m *metrics.Metrics,
	config Config,
	logger *slog.Logger,
) *Server {
	if config.IdempotencyTTL <= 0 {
		config.IdempotencyTTL = DefaultIdempotencyTTL
	}
	return &Server{
		handlers:    handlers,
		gate:        gate,
		events:      events,
		idempotency: idempotency,
		metrics:     m,
		config:      config,
		logger:      logger.With("component", "http"),
		now:         time.Now,
	}
}

// NewRouter builds the echo instance with every route registered.
func (s *Server) NewRouter(ctx context.Context) (*echo.Echo, error) {
	doc, err := api.Load(ctx)
	if err != nil {
		return nil, err
	}
	validator, err := newRequestValidator(doc)
	if err != nil {
		return nil, fmt.Errorf("build request validator: %w", err)
	}
	if err := registerSwaggerDoc(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.observe)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authenticate := Authenticate(s.config.JWTSecret)
	e.GET("/ws/kitchens/:kitchenId/events", s.StreamKitchenEvents, authenticate)

	v1 := e.Group("/api/v1", authenticate, validator.middleware)
	idempotent := Idempotent(s.idempotency, s.config.IdempotencyTTL)

	v1.POST("/orders", s.RouteOrder, idempotent)
	v1.PATCH("/orders/:orderId/status", s.UpdateOrderStatus)
	v1.POST("/orders/:orderId/assignee", s.AssignOrder)
	v1.GET("/kitchens/:kitchenId/orders", s.ListKitchenOrders)
	v1.GET("/kitchens/:kitchenId/orders/stats", s.GetKitchenOrderStats)
	v1.GET("/kitchens/:kitchenId/orders/attention", s.GetOrdersNeedingAttention)

	v1.POST("/batches", s.CreateBatch, idempotent)
	v1.GET("/batches/:batchId", s.GetBatch)
	v1.PATCH("/batches/:batchId/status", s.UpdateBatchStatus)
	v1.POST("/batches/:batchId/cancel", s.CancelBatch)
	v1.POST("/batches/:batchId/assignee", s.AssignBatch)
	v1.PATCH("/batch-items/:itemId/status", s.UpdateBatchItemStatus)
	v1.GET("/kitchens/:kitchenId/batches/stats", s.GetKitchenBatchStats)
	v1.GET("/kitchens/:kitchenId/batches/attention", s.GetBatchesNeedingAttention)

	v1.POST("/zones", s.CreateZone)
	v1.GET("/zones/:zoneId/kitchens", s.GetKitchensByZone)
	v1.GET("/kitchens", s.GetKitchens)
	v1.POST("/kitchens", s.CreateKitchen)
	v1.GET("/kitchens/:kitchenId", s.GetKitchen)
	v1.PATCH("/kitchens/:kitchenId", s.UpdateKitchen)
	v1.DELETE("/kitchens/:kitchenId", s.DeactivateKitchen)

	v1.PUT("/kitchens/:kitchenId/staff/:userId", s.AssignAccess)
	v1.DELETE("/kitchens/:kitchenId/staff/:userId", s.RevokeAccess)
	v1.GET("/kitchens/:kitchenId/staff/:userId/permissions", s.GetUserPermissions)

	return e, nil
}
