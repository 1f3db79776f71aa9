package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type resultFunc[C, R any] func(ctx context.Context, cmd C) (R, error)

func (f resultFunc[C, R]) Handle(ctx context.Context, cmd C) (R, error) { return f(ctx, cmd) }

type commandFunc[C any] func(ctx context.Context, cmd C) error

func (f commandFunc[C]) Handle(ctx context.Context, cmd C) error { return f(ctx, cmd) }

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Seen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Forget(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockEventStream struct {
	mock.Mock
}

func (m *MockEventStream) Serve(w http.ResponseWriter, r *http.Request, kitchenID kernel.UUID) error {
	args := m.Called(kitchenID)
	if err := args.Error(0); err != nil {
		return err
	}
	w.WriteHeader(http.StatusSwitchingProtocols)
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorBody      `json:"error"`
}

type ServerTestSuite struct {
	suite.Suite
	secret   []byte
	actorID  kernel.UUID
	adminID  kernel.UUID
	handlers Handlers
	store    *MockIdempotencyStore
	stream   *MockEventStream
	metrics  *metrics.Metrics
}

func (s *ServerTestSuite) SetupTest() {
	s.secret = []byte("test-secret")
	s.actorID = kernel.NewUUID()
	s.adminID = kernel.NewUUID()
	s.handlers = Handlers{}
	s.store = &MockIdempotencyStore{}
	s.stream = &MockEventStream{}
	s.metrics = metrics.New()
}

func (s *ServerTestSuite) TearDownTest() {
	s.store.AssertExpectations(s.T())
	s.stream.AssertExpectations(s.T())
}

func (s *ServerTestSuite) router() *echo.Echo {
	srv := NewServer(
		s.handlers,
		services.NewAccessGate([]kernel.UUID{s.adminID}),
		s.stream,
		s.store,
		s.metrics,
		Config{JWTSecret: s.secret, IdempotencyTTL: time.Hour},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	e, err := srv.NewRouter(context.Background())
	s.Require().NoError(err)
	return e
}

func (s *ServerTestSuite) token(subject string, secret []byte) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   subject,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(secret)
	s.Require().NoError(err)
	return signed
}

func (s *ServerTestSuite) request(method, target string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if _, set := headers[echo.HeaderAuthorization]; !set {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token(s.actorID.String(), s.secret))
	}
	for k, v := range headers {
		if v == "" {
			req.Header.Del(k)
			continue
		}
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) decode(rec *httptest.ResponseRecorder) envelope {
	var env envelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func routeOrderBody() map[string]any {
	return map[string]any{
		"customer": map[string]any{"name": "Ada Smith", "phone": "+15550100"},
		"delivery": map[string]any{"addressLine": "1 Main St", "city": "Springfield"},
		"items": []map[string]any{{
			"productId": kernel.NewUUID().String(),
			"variant":   "large",
			"quantity":  2,
			"unitPrice": "12.50",
		}},
		"priority": "high",
	}
}

func (s *ServerTestSuite) TestHealth() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Healthy", rec.Body.String())
}

func (s *ServerTestSuite) TestMissingTokenIsRejected() {
	rec := s.request(http.MethodGet, "/api/v1/kitchens", nil, map[string]string{echo.HeaderAuthorization: ""})

	s.Equal(http.StatusUnauthorized, rec.Code)
	env := s.decode(rec)
	s.False(env.Success)
	s.Equal(kindUnauthenticated, env.Error.Kind)
}

func (s *ServerTestSuite) TestTokenSignedWithAnotherSecretIsRejected() {
	rec := s.request(http.MethodGet, "/api/v1/kitchens", nil, map[string]string{
		echo.HeaderAuthorization: "Bearer " + s.token(s.actorID.String(), []byte("other")),
	})

	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ServerTestSuite) TestTokenSubjectMustBeAUserID() {
	rec := s.request(http.MethodGet, "/api/v1/kitchens", nil, map[string]string{
		echo.HeaderAuthorization: "Bearer " + s.token("not-a-uuid", s.secret),
	})

	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ServerTestSuite) TestRouteOrderCreatesOrder() {
	orderID, kitchenID := kernel.NewUUID(), kernel.NewUUID()
	var received commands.RouteOrderCommand
	s.handlers.RouteOrder = resultFunc[commands.RouteOrderCommand, commands.RouteOrderResult](
		func(_ context.Context, cmd commands.RouteOrderCommand) (commands.RouteOrderResult, error) {
			received = cmd
			return commands.RouteOrderResult{OrderID: orderID, Number: "ORD-20261019-0001", KitchenID: kitchenID}, nil
		})

	rec := s.request(http.MethodPost, "/api/v1/orders", routeOrderBody(), nil)

	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	env := s.decode(rec)
	s.True(env.Success)
	var data RoutedOrderResponse
	s.Require().NoError(json.Unmarshal(env.Data, &data))
	s.Equal(orderID.Bytes(), data.OrderID)
	s.Equal(kitchenID.Bytes(), data.KitchenID)
	s.Equal("ORD-20261019-0001", data.Number)

	s.Equal(kernel.PriorityHigh, received.Priority())
	s.Require().Len(received.Lines(), 1)
	s.Equal(2, received.Lines()[0].Quantity)
	s.Equal("Ada Smith", received.Customer().Name)
	s.InDelta(1, testutil.ToFloat64(s.metrics.RoutingOutcomes.WithLabelValues(outcomeRouted)), 0)
}

func (s *ServerTestSuite) TestRouteOrderWithoutCapacity() {
	s.handlers.RouteOrder = resultFunc[commands.RouteOrderCommand, commands.RouteOrderResult](
		func(context.Context, commands.RouteOrderCommand) (commands.RouteOrderResult, error) {
			return commands.RouteOrderResult{}, errs.ErrNoCapacity
		})

	rec := s.request(http.MethodPost, "/api/v1/orders", routeOrderBody(), nil)

	s.Equal(http.StatusServiceUnavailable, rec.Code)
	env := s.decode(rec)
	s.Equal(errs.KindNoCapacity, env.Error.Kind)
	s.InDelta(1, testutil.ToFloat64(s.metrics.RoutingOutcomes.WithLabelValues(string(errs.KindNoCapacity))), 0)
}

func (s *ServerTestSuite) TestRouteOrderBodyIsValidatedAgainstDocument() {
	called := false
	s.handlers.RouteOrder = resultFunc[commands.RouteOrderCommand, commands.RouteOrderResult](
		func(context.Context, commands.RouteOrderCommand) (commands.RouteOrderResult, error) {
			called = true
			return commands.RouteOrderResult{}, nil
		})
	body := routeOrderBody()
	body["items"] = []map[string]any{}

	rec := s.request(http.MethodPost, "/api/v1/orders", body, nil)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(errs.KindValidationFailed, s.decode(rec).Error.Kind)
	s.False(called)
}

func (s *ServerTestSuite) TestReplayedIdempotencyKeyIsRejected() {
	calls := 0
	s.handlers.RouteOrder = resultFunc[commands.RouteOrderCommand, commands.RouteOrderResult](
		func(context.Context, commands.RouteOrderCommand) (commands.RouteOrderResult, error) {
			calls++
			return commands.RouteOrderResult{OrderID: kernel.NewUUID(), Number: "n", KitchenID: kernel.NewUUID()}, nil
		})
	key := mock.MatchedBy(func(k string) bool {
		return strings.HasPrefix(k, s.actorID.String()+":") && strings.HasSuffix(k, ":/api/v1/orders:checkout-1")
	})
	s.store.On("Seen", mock.Anything, key, time.Hour).Return(false, nil).Once()
	s.store.On("Seen", mock.Anything, key, time.Hour).Return(true, nil).Once()
	headers := map[string]string{HeaderIdempotencyKey: "checkout-1"}

	first := s.request(http.MethodPost, "/api/v1/orders", routeOrderBody(), headers)
	second := s.request(http.MethodPost, "/api/v1/orders", routeOrderBody(), headers)

	s.Equal(http.StatusCreated, first.Code)
	s.Equal(http.StatusConflict, second.Code)
	s.Equal(errs.KindDuplicateRequest, s.decode(second).Error.Kind)
	s.Equal(1, calls)
}

func (s *ServerTestSuite) TestFailedRequestForgetsIdempotencyKey() {
	s.handlers.CreateBatch = resultFunc[commands.CreateBatchCommand, kernel.UUID](
		func(context.Context, commands.CreateBatchCommand) (kernel.UUID, error) {
			return kernel.UUID{}, errs.NewInvalidOrderSetError("", "orders belong to another kitchen")
		})
	s.store.On("Seen", mock.Anything, mock.Anything, time.Hour).Return(false, nil).Once()
	s.store.On("Forget", mock.Anything, mock.Anything).Return(nil).Once()

	rec := s.request(http.MethodPost, "/api/v1/batches", map[string]any{
		"kitchenId": kernel.NewUUID().String(),
		"name":      "Lunch rush",
		"orderIds":  []string{kernel.NewUUID().String()},
	}, map[string]string{HeaderIdempotencyKey: "batch-1"})

	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal(errs.KindInvalidOrderSet, s.decode(rec).Error.Kind)
}

func (s *ServerTestSuite) TestListKitchenOrdersBindsFilterAndPaging() {
	kitchenID := kernel.NewUUID()
	var received queries.ListKitchenOrdersQuery
	s.handlers.ListKitchenOrders = resultFunc[queries.ListKitchenOrdersQuery, queries.ListKitchenOrdersResponse](
		func(_ context.Context, q queries.ListKitchenOrdersQuery) (queries.ListKitchenOrdersResponse, error) {
			received = q
			return queries.ListKitchenOrdersResponse{
				Orders: []queries.OrderSummary{{
					ID:        kernel.NewUUID(),
					Number:    "ORD-1",
					KitchenID: kitchenID,
					Status:    order.Received,
					Priority:  kernel.PriorityUrgent,
					Total:     decimal.RequireFromString("25"),
					ItemCount: 1,
				}},
				Total: 41,
			}, nil
		})

	target := fmt.Sprintf("/api/v1/kitchens/%s/orders?status=received&status=preparing&q=smith&limit=20&offset=5", kitchenID)
	rec := s.request(http.MethodGet, target, nil, nil)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.True(received.KitchenID().IsEqual(kitchenID))
	s.Equal(20, received.Limit())
	s.Equal(5, received.Offset())
	s.Equal([]queries.OrderPredicate{
		queries.StatusIn{order.Received, order.Preparing},
		queries.TextSearch{Term: "smith"},
	}, received.Filter().Predicates())

	var page OrderPageResponse
	s.Require().NoError(json.Unmarshal(s.decode(rec).Data, &page))
	s.Equal(int64(41), page.Total)
	s.Require().Len(page.Orders, 1)
	s.Equal("received", page.Orders[0].Status)
	s.Equal("urgent", page.Orders[0].Priority)
	s.Equal("25.00", page.Orders[0].Total)
}

func (s *ServerTestSuite) TestListKitchenOrdersRepeatedPriorities() {
	var received queries.ListKitchenOrdersQuery
	s.handlers.ListKitchenOrders = resultFunc[queries.ListKitchenOrdersQuery, queries.ListKitchenOrdersResponse](
		func(_ context.Context, q queries.ListKitchenOrdersQuery) (queries.ListKitchenOrdersResponse, error) {
			received = q
			return queries.ListKitchenOrdersResponse{}, nil
		})

	target := fmt.Sprintf("/api/v1/kitchens/%s/orders?priority=urgent&priority=high", kernel.NewUUID())
	rec := s.request(http.MethodGet, target, nil, nil)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal([]queries.OrderPredicate{
		queries.PriorityIn{kernel.PriorityUrgent, kernel.PriorityHigh},
	}, received.Filter().Predicates())
	s.Zero(received.Limit())
}

func (s *ServerTestSuite) TestUnknownStatusFilterIsRejected() {
	rec := s.request(http.MethodGet, fmt.Sprintf("/api/v1/kitchens/%s/orders?status=lost", kernel.NewUUID()), nil, nil)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestMalformedPathIDIsRejected() {
	rec := s.request(http.MethodGet, "/api/v1/batches/not-a-uuid", nil, nil)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(errs.KindValidationFailed, s.decode(rec).Error.Kind)
}

func (s *ServerTestSuite) TestPermissionDeniedMapsToForbidden() {
	s.handlers.GetBatch = resultFunc[queries.GetBatchQuery, queries.GetBatchQueryResponse](
		func(context.Context, queries.GetBatchQuery) (queries.GetBatchQueryResponse, error) {
			return queries.GetBatchQueryResponse{}, fmt.Errorf("%w: batches:view", errs.ErrPermissionDenied)
		})

	rec := s.request(http.MethodGet, "/api/v1/batches/"+kernel.NewUUID().String(), nil, nil)

	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal(errs.KindPermissionDenied, s.decode(rec).Error.Kind)
}

func (s *ServerTestSuite) TestInvalidTransitionMapsToConflict() {
	s.handlers.UpdateBatchStatus = commandFunc[commands.UpdateBatchStatusCommand](
		func(_ context.Context, cmd commands.UpdateBatchStatusCommand) error {
			return errs.NewInvalidTransitionError("batch", "completed", batch.InProgress.String())
		})

	rec := s.request(http.MethodPatch, "/api/v1/batches/"+kernel.NewUUID().String()+"/status",
		map[string]any{"status": "in_progress"}, nil)

	s.Equal(http.StatusConflict, rec.Code)
	env := s.decode(rec)
	s.Equal(errs.KindInvalidTransition, env.Error.Kind)
	s.Contains(env.Error.Message, "completed")
}

func (s *ServerTestSuite) TestServerFailureHidesCause() {
	s.handlers.Kitchens = &fakeKitchenReader{err: errs.NewPersistenceFailureError("list kitchens", fmt.Errorf("connection refused"))}

	rec := s.request(http.MethodGet, "/api/v1/kitchens", nil, nil)

	s.Equal(http.StatusInternalServerError, rec.Code)
	env := s.decode(rec)
	s.Equal(errs.KindPersistenceFailure, env.Error.Kind)
	s.NotContains(env.Error.Message, "connection refused")
}

func (s *ServerTestSuite) TestGetBatchRendersItems() {
	batchID, kitchenID := kernel.NewUUID(), kernel.NewUUID()
	s.handlers.GetBatch = resultFunc[queries.GetBatchQuery, queries.GetBatchQueryResponse](
		func(context.Context, queries.GetBatchQuery) (queries.GetBatchQueryResponse, error) {
			return queries.GetBatchQueryResponse{
				ID:        batchID,
				Name:      "Lunch rush",
				KitchenID: kitchenID,
				Status:    batch.InProgress,
				Priority:  kernel.PriorityNormal,
				CreatorID: s.actorID,
				Items: []queries.BatchItemView{{
					ID:          kernel.NewUUID(),
					OrderID:     kernel.NewUUID(),
					OrderItemID: kernel.NewUUID(),
					ProductID:   kernel.NewUUID(),
					Quantity:    3,
					Status:      batch.Completed,
				}},
			}, nil
		})

	rec := s.request(http.MethodGet, "/api/v1/batches/"+batchID.String(), nil, nil)

	s.Require().Equal(http.StatusOK, rec.Code)
	var res BatchResponse
	s.Require().NoError(json.Unmarshal(s.decode(rec).Data, &res))
	s.Equal("in_progress", res.Status)
	s.Require().Len(res.Items, 1)
	s.Equal("completed", res.Items[0].Status)
}

func (s *ServerTestSuite) TestEventStreamRequiresOrdersView() {
	s.handlers.UserPermissions = resultFunc[queries.GetUserPermissionsQuery, queries.GetUserPermissionsQueryResponse](
		func(context.Context, queries.GetUserPermissionsQuery) (queries.GetUserPermissionsQueryResponse, error) {
			return queries.GetUserPermissionsQueryResponse{Permissions: []string{"batches:view"}}, nil
		})

	rec := s.request(http.MethodGet, "/ws/kitchens/"+kernel.NewUUID().String()+"/events", nil, nil)

	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *ServerTestSuite) TestEventStreamServesPermittedUser() {
	kitchenID := kernel.NewUUID()
	s.handlers.UserPermissions = resultFunc[queries.GetUserPermissionsQuery, queries.GetUserPermissionsQueryResponse](
		func(context.Context, queries.GetUserPermissionsQuery) (queries.GetUserPermissionsQueryResponse, error) {
			return queries.GetUserPermissionsQueryResponse{Permissions: []string{"orders:view"}}, nil
		})
	s.stream.On("Serve", kitchenID).Return(nil).Once()

	rec := s.request(http.MethodGet, "/ws/kitchens/"+kitchenID.String()+"/events", nil, nil)

	s.Equal(http.StatusSwitchingProtocols, rec.Code)
}

func (s *ServerTestSuite) TestEventStreamAdminSkipsPermissionLookup() {
	kitchenID := kernel.NewUUID()
	s.stream.On("Serve", kitchenID).Return(nil).Once()

	rec := s.request(http.MethodGet, "/ws/kitchens/"+kitchenID.String()+"/events", nil, map[string]string{
		echo.HeaderAuthorization: "Bearer " + s.token(s.adminID.String(), s.secret),
	})

	s.Equal(http.StatusSwitchingProtocols, rec.Code)
}

func (s *ServerTestSuite) TestMetricsAndSwaggerAreServed() {
	e := s.router()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "fulfillment_http_requests_total")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Kitchen Fulfillment API")
}

type fakeKitchenReader struct {
	views []queries.KitchenView
	err   error
}

func (f *fakeKitchenReader) Handle(context.Context, queries.GetKitchensQuery) ([]queries.KitchenView, error) {
	return f.views, f.err
}

func (f *fakeKitchenReader) HandleOne(context.Context, queries.GetKitchenQuery) (queries.KitchenView, error) {
	if f.err != nil {
		return queries.KitchenView{}, f.err
	}
	if len(f.views) == 0 {
		return queries.KitchenView{}, errs.NewObjectNotFoundError("kitchenId", "")
	}
	return f.views[0], nil
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func TestClassifyEchoErrors(t *testing.T) {
	kind, status, message := classify(echo.NewHTTPError(http.StatusNotFound, "Not Found"))
	require.Equal(t, errs.KindNotFound, kind)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Not Found", message)

	kind, status, _ = classify(fmt.Errorf("boom"))
	require.Equal(t, errs.KindInternal, kind)
	require.Equal(t, http.StatusInternalServerError, status)
}
