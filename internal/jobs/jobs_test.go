package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeOutbox hands its messages to the claim callback and records the result.
type fakeOutbox struct {
	messages []ports.OutboxMessage
	limit    int
	sent     []kernel.UUID
	failed   map[kernel.UUID]error
	pending  int64
	err      error
}

func (f *fakeOutbox) WithinClaim(
	ctx context.Context,
	limit int,
	fn func(ctx context.Context, messages []ports.OutboxMessage) ([]kernel.UUID, map[kernel.UUID]error),
) error {
	if f.err != nil {
		return f.err
	}
	f.limit = limit
	f.sent, f.failed = fn(ctx, f.messages)
	return nil
}

func (f *fakeOutbox) CountPending(context.Context) (int64, error) {
	return f.pending, f.err
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, messages []ports.OutboxMessage) error {
	args := m.Called(ctx, messages)
	return args.Error(0)
}

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Broadcast(kitchenID kernel.UUID, message ports.OutboxMessage) {
	m.Called(kitchenID, message)
}

type fakeAttention struct {
	kitchens []queries.KitchenAttention
	err      error
}

func (f fakeAttention) Handle(context.Context, queries.AttentionSummaryQuery) ([]queries.KitchenAttention, error) {
	return f.kitchens, f.err
}

func outboxMessage(eventType string) ports.OutboxMessage {
	return ports.OutboxMessage{
		ID:            kernel.NewUUID(),
		EventType:     eventType,
		AggregateType: "order",
		AggregateID:   kernel.NewUUID(),
		KitchenID:     kernel.NewUUID(),
		Payload:       []byte(`{}`),
		CreatedAt:     time.Now().UTC(),
	}
}

func TestOutboxRelay_PublishesThenBroadcasts(t *testing.T) {
	m := metrics.New()
	first, second := outboxMessage("order.routed"), outboxMessage("order.status_changed")
	outbox := &fakeOutbox{messages: []ports.OutboxMessage{first, second}}
	publisher := &MockPublisher{}
	publisher.On("Publish", mock.Anything, outbox.messages).Return(nil).Once()
	broadcaster := &MockBroadcaster{}
	broadcaster.On("Broadcast", first.KitchenID, first).Once()
	broadcaster.On("Broadcast", second.KitchenID, second).Once()

	job := NewOutboxRelayJob(outbox, publisher, broadcaster, m, 25, discardLogger())
	require.NoError(t, job.RunOnce(context.Background()))

	assert.Equal(t, 25, outbox.limit)
	assert.Equal(t, []kernel.UUID{first.ID, second.ID}, outbox.sent)
	assert.Empty(t, outbox.failed)
	assert.InDelta(t, 1, testutil.ToFloat64(m.EventsRelayed.WithLabelValues("order.routed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.EventsRelayed.WithLabelValues("order.status_changed")), 0)
	publisher.AssertExpectations(t)
	broadcaster.AssertExpectations(t)
}

func TestOutboxRelay_FailedPublishMarksEveryMessage(t *testing.T) {
	m := metrics.New()
	outbox := &fakeOutbox{messages: []ports.OutboxMessage{outboxMessage("batch.created"), outboxMessage("batch.completed")}}
	brokerDown := errors.New("broker unavailable")
	publisher := &MockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return(brokerDown).Once()
	broadcaster := &MockBroadcaster{}

	job := NewOutboxRelayJob(outbox, publisher, broadcaster, m, 0, discardLogger())
	require.NoError(t, job.RunOnce(context.Background()))

	assert.Equal(t, DefaultRelayBatchSize, outbox.limit)
	assert.Empty(t, outbox.sent)
	require.Len(t, outbox.failed, 2)
	for _, msg := range outbox.messages {
		assert.ErrorIs(t, outbox.failed[msg.ID], brokerDown)
	}
	assert.InDelta(t, 1, testutil.ToFloat64(m.RelayFailures), 0)
	broadcaster.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything)
}

func TestOutboxRelay_EmptyClaimPublishesNothing(t *testing.T) {
	outbox := &fakeOutbox{}
	publisher := &MockPublisher{}

	job := NewOutboxRelayJob(outbox, publisher, &MockBroadcaster{}, metrics.New(), 10, discardLogger())
	require.NoError(t, job.RunOnce(context.Background()))

	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestAttentionMonitor_ReplacesGauges(t *testing.T) {
	m := metrics.New()
	stale := kernel.NewUUID()
	m.OrdersNeedingAttention.WithLabelValues(stale.String(), "Closed kitchen").Set(9)

	kitchenID := kernel.NewUUID()
	source := fakeAttention{kitchens: []queries.KitchenAttention{{
		KitchenID: kitchenID,
		Name:      "Downtown",
		Orders:    4,
		Batches:   1,
	}}}
	job := NewAttentionMonitorJob(source, &fakeOutbox{pending: 7}, m, discardLogger())

	require.NoError(t, job.RunOnce(context.Background()))

	assert.InDelta(t, 4, testutil.ToFloat64(m.OrdersNeedingAttention.WithLabelValues(kitchenID.String(), "Downtown")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.BatchesNeedingAttention.WithLabelValues(kitchenID.String(), "Downtown")), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(m.OutboxPending), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.OrdersNeedingAttention))
}

func TestAttentionMonitor_StillUpdatesBacklogWhenSummaryFails(t *testing.T) {
	m := metrics.New()
	summaryErr := errors.New("database unavailable")
	job := NewAttentionMonitorJob(fakeAttention{err: summaryErr}, &fakeOutbox{pending: 3}, m, discardLogger())

	err := job.RunOnce(context.Background())

	assert.ErrorIs(t, err, summaryErr)
	assert.InDelta(t, 3, testutil.ToFloat64(m.OutboxPending), 0)
}

func TestJobManager_StartsAndStops(t *testing.T) {
	manager := NewJobManager(
		&fakeOutbox{},
		&MockPublisher{},
		&MockBroadcaster{},
		fakeAttention{},
		&fakeOutbox{},
		metrics.New(),
		discardLogger(),
	)

	require.NoError(t, manager.StartAll())
	manager.StopAll()
}
