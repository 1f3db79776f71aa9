package http

import (
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// CreateBatch handles POST /api/v1/batches - groups orders into a batch.
func (s *Server) CreateBatch(c echo.Context) error {
	actorID, err := actorOf(c)
	if err != nil {
		return err
	}
	var req CreateBatchRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	kitchenID, err := bodyID("kitchenId", req.KitchenID)
	if err != nil {
		return err
	}
	orderIDs := make([]kernel.UUID, 0, len(req.OrderIDs))
	for _, raw := range req.OrderIDs {
		id, err := bodyID("orderIds", raw)
		if err != nil {
			return err
		}
		orderIDs = append(orderIDs, id)
	}
	priority, err := kernel.ParsePriority(req.Priority)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateBatchCommand(actorID, kitchenID, req.Name, orderIDs, priority, req.Notes)
	if err != nil {
		return err
	}
	batchID, err := s.handlers.CreateBatch.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return created(c, IDResponse{ID: batchID.Bytes()})
}

// GetBatch handles GET /api/v1/batches/:batchId.
func (s *Server) GetBatch(c echo.Context) error {
	actorID, err := actorOf(c)
	if err != nil {
		return err
	}
	batchID, err := pathID(c, "batchId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetBatchQuery(actorID, batchID)
	if err != nil {
		return err
	}
	res, err := s.handlers.GetBatch.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, toBatch(res))
}

// UpdateBatchStatus handles PATCH /api/v1/batches/:batchId/status.
func (s *Server) UpdateBatchStatus(c echo.Context) error {
	actorID, err := actorOf(c)
	if err != nil {
		return err
	}
	batchID, err := pathID(c, "batchId")
	if err != nil {
		return err
	}
	var req UpdateBatchStatusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	status, err := batch.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateBatchStatusCommand(actorID, batchID, status, req.EstimatedCompletion, req.Notes)
	if err != nil {
		return err
	}
	if err := s.handlers.UpdateBatchStatus.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, IDResponse{ID: batchID.Bytes()})
}

// UpdateBatchItemStatus handles PATCH /api/v1/batch-items/:itemId/status.
func (s *Server) UpdateBatchItemStatus(c echo.Context) error {
	actorID, err := actorOf(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return err
	}
	var req UpdateBatchItemStatusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	status, err := batch.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateBatchItemStatusCommand(actorID, itemID, status)
	if err != nil {
		return err
	}
	res, err := s.handlers.UpdateBatchItemStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(c, BatchItemStatusResponse{BatchCompleted: res.BatchCompleted})
}

// CancelBatch handles POST /api/v1/batches/:batchId/cancel. The body is optional.
func (s *Server) CancelBatch(c echo.Context) error {
	actorID, err := actorOf(c)
	if err != nil {
		return err
	}
	batchID, err := pathID(c, "batchId")
	if err != nil {
		return err
	}
	var req CancelBatchRequest
	if c.Request().ContentLength != 0 {
		if err := bindBody(c, &req); err != nil {
			return err
		}
	}

	cmd, err := commands.NewCancelBatchCommand(actorID, batchID, req.Reason)
	if err != nil {
		return err
	}
	if err := s.handlers.CancelBatch.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, IDResponse{ID: batchID.Bytes()})
}

// AssignBatch handles POST /api/v1/batches/:batchId/assignee.
func (s *Server) AssignBatch(c echo.Context) error {
	actorID, err := actorOf(c)
	if err != nil {
		return err
	}
	batchID, err := pathID(c, "batchId")
	if err != nil {
		return err
	}
	var req AssigneeRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	userID, err := bodyID("userId", req.UserID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignBatchCommand(actorID, batchID, userID)
	if err != nil {
		return err
	}
	if err := s.handlers.AssignBatch.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, IDResponse{ID: batchID.Bytes()})
}

// GetKitchenBatchStats handles GET /api/v1/kitchens/:kitchenId/batches/stats.
func (s *Server) GetKitchenBatchStats(c echo.Context) error {
	query, err := s.statsQuery(c)
	if err != nil {
		return err
	}
	stats, err := s.handlers.BatchStats.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, toBatchStats(stats))
}

// GetBatchesNeedingAttention handles GET /api/v1/kitchens/:kitchenId/batches/attention.
func (s *Server) GetBatchesNeedingAttention(c echo.Context) error {
	query, err := s.attentionQuery(c)
	if err != nil {
		return err
	}
	items, err := s.handlers.BatchesAttention.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, toBatchAttention(items))
}
