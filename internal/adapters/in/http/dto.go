package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// Requests.

type CustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type DeliveryRequest struct {
	AddressLine  string `json:"addressLine"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	Instructions string `json:"instructions"`
}

type OrderLineRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Variant   string    `json:"variant"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unitPrice"`
}

type RouteOrderRequest struct {
	Customer CustomerRequest    `json:"customer"`
	Delivery DeliveryRequest    `json:"delivery"`
	Items    []OrderLineRequest `json:"items"`
	Priority string             `json:"priority"`
	Notes    string             `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status              string     `json:"status"`
	AssigneeID          *uuid.UUID `json:"assigneeId"`
	EstimatedCompletion *time.Time `json:"estimatedCompletion"`
	Notes               *string    `json:"notes"`
}

type AssigneeRequest struct {
	UserID uuid.UUID `json:"userId"`
}

type CreateBatchRequest struct {
	KitchenID uuid.UUID   `json:"kitchenId"`
	Name      string      `json:"name"`
	OrderIDs  []uuid.UUID `json:"orderIds"`
	Priority  string      `json:"priority"`
	Notes     string      `json:"notes"`
}

type UpdateBatchStatusRequest struct {
	Status              string     `json:"status"`
	EstimatedCompletion *time.Time `json:"estimatedCompletion"`
	Notes               *string    `json:"notes"`
}

type UpdateBatchItemStatusRequest struct {
	Status string `json:"status"`
}

type CancelBatchRequest struct {
	Reason string `json:"reason"`
}

type CreateZoneRequest struct {
	Name string `json:"name"`
}

type CreateKitchenRequest struct {
	Name     string    `json:"name"`
	ZoneID   uuid.UUID `json:"zoneId"`
	Capacity int       `json:"capacity"`
}

type UpdateKitchenRequest struct {
	Name     *string    `json:"name"`
	Capacity *int       `json:"capacity"`
	ZoneID   *uuid.UUID `json:"zoneId"`
}

type AssignAccessRequest struct {
	RoleID    uuid.UUID `json:"roleId"`
	IsPrimary bool      `json:"isPrimary"`
}

// Responses.

type IDResponse struct {
	ID uuid.UUID `json:"id"`
}

type RoutedOrderResponse struct {
	OrderID   uuid.UUID `json:"orderId"`
	Number    string    `json:"number"`
	KitchenID uuid.UUID `json:"kitchenId"`
}

type BatchItemStatusResponse struct {
	BatchCompleted bool `json:"batchCompleted"`
}

type OrderSummaryResponse struct {
	ID                  uuid.UUID  `json:"id"`
	Number              string     `json:"number"`
	KitchenID           uuid.UUID  `json:"kitchenId"`
	CustomerName        string     `json:"customerName"`
	CustomerPhone       string     `json:"customerPhone"`
	Status              string     `json:"status"`
	Priority            string     `json:"priority"`
	Total               string     `json:"total"`
	ItemCount           int        `json:"itemCount"`
	AssigneeID          *uuid.UUID `json:"assigneeId,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
	EstimatedCompletion *time.Time `json:"estimatedCompletion,omitempty"`
	ActualCompletion    *time.Time `json:"actualCompletion,omitempty"`
}

type OrderPageResponse struct {
	Orders []OrderSummaryResponse `json:"orders"`
	Total  int64                  `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

type OrderAttentionResponse struct {
	OrderSummaryResponse
	OverdueMinutes float64 `json:"overdueMinutes"`
}

type BatchItemResponse struct {
	ID          uuid.UUID  `json:"id"`
	OrderID     uuid.UUID  `json:"orderId"`
	OrderItemID uuid.UUID  `json:"orderItemId"`
	ProductID   uuid.UUID  `json:"productId"`
	Variant     string     `json:"variant,omitempty"`
	Quantity    int        `json:"quantity"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type BatchResponse struct {
	ID                  uuid.UUID           `json:"id"`
	Name                string              `json:"name"`
	KitchenID           uuid.UUID           `json:"kitchenId"`
	Status              string              `json:"status"`
	Priority            string              `json:"priority"`
	CreatorID           uuid.UUID           `json:"creatorId"`
	AssigneeID          *uuid.UUID          `json:"assigneeId,omitempty"`
	Notes               string              `json:"notes,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
	StartedAt           *time.Time          `json:"startedAt,omitempty"`
	CompletedAt         *time.Time          `json:"completedAt,omitempty"`
	EstimatedCompletion *time.Time          `json:"estimatedCompletion,omitempty"`
	Items               []BatchItemResponse `json:"items"`
}

type BatchAttentionResponse struct {
	ID                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	KitchenID           uuid.UUID  `json:"kitchenId"`
	Status              string     `json:"status"`
	Priority            string     `json:"priority"`
	AssigneeID          *uuid.UUID `json:"assigneeId,omitempty"`
	ItemCount           int        `json:"itemCount"`
	CompletedItems      int        `json:"completedItems"`
	CreatedAt           time.Time  `json:"createdAt"`
	StartedAt           *time.Time `json:"startedAt,omitempty"`
	EstimatedCompletion *time.Time `json:"estimatedCompletion,omitempty"`
	OverdueMinutes      float64    `json:"overdueMinutes"`
}

type StatsResponse struct {
	KitchenID            uuid.UUID        `json:"kitchenId"`
	Total                int64            `json:"total"`
	Active               *int64           `json:"active,omitempty"`
	Open                 *int64           `json:"open,omitempty"`
	ByStatus             map[string]int64 `json:"byStatus"`
	ByPriority           map[string]int64 `json:"byPriority"`
	AvgCompletionMinutes *float64         `json:"avgCompletionMinutes"`
}

type KitchenResponse struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Capacity          int        `json:"capacity"`
	ActiveOrders      int        `json:"activeOrders"`
	AvailableCapacity int        `json:"availableCapacity"`
	IsActive          bool       `json:"isActive"`
	ZoneID            *uuid.UUID `json:"zoneId,omitempty"`
	ZoneName          string     `json:"zoneName,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type PermissionsResponse struct {
	UserID      uuid.UUID `json:"userId"`
	KitchenID   uuid.UUID `json:"kitchenId"`
	Permissions []string  `json:"permissions"`
}

func toOrderSummary(o queries.OrderSummary) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:                  o.ID.Bytes(),
		Number:              o.Number,
		KitchenID:           o.KitchenID.Bytes(),
		CustomerName:        o.CustomerName,
		CustomerPhone:       o.CustomerPhone,
		Status:              o.Status.String(),
		Priority:            o.Priority.String(),
		Total:               o.Total.StringFixed(2),
		ItemCount:           o.ItemCount,
		AssigneeID:          kernel.OptionalBytes(o.AssigneeID),
		Notes:               o.Notes,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
		EstimatedCompletion: o.EstimatedCompletion,
		ActualCompletion:    o.ActualCompletion,
	}
}

func toOrderPage(page queries.ListKitchenOrdersResponse, query queries.ListKitchenOrdersQuery) OrderPageResponse {
	orders := make([]OrderSummaryResponse, 0, len(page.Orders))
	for _, o := range page.Orders {
		orders = append(orders, toOrderSummary(o))
	}
	return OrderPageResponse{
		Orders: orders,
		Total:  page.Total,
		Limit:  query.Limit(),
		Offset: query.Offset(),
	}
}

func toOrderAttention(items []queries.OrderAttention) []OrderAttentionResponse {
	res := make([]OrderAttentionResponse, 0, len(items))
	for _, a := range items {
		res = append(res, OrderAttentionResponse{
			OrderSummaryResponse: toOrderSummary(a.OrderSummary),
			OverdueMinutes:       a.OverdueBy.Minutes(),
		})
	}
	return res
}

func toBatch(b queries.GetBatchQueryResponse) BatchResponse {
	items := make([]BatchItemResponse, 0, len(b.Items))
	for _, item := range b.Items {
		items = append(items, BatchItemResponse{
			ID:          item.ID.Bytes(),
			OrderID:     item.OrderID.Bytes(),
			OrderItemID: item.OrderItemID.Bytes(),
			ProductID:   item.ProductID.Bytes(),
			Variant:     item.Variant,
			Quantity:    item.Quantity,
			Status:      item.Status.String(),
			CompletedAt: item.CompletedAt,
		})
	}
	return BatchResponse{
		ID:                  b.ID.Bytes(),
		Name:                b.Name,
		KitchenID:           b.KitchenID.Bytes(),
		Status:              b.Status.String(),
		Priority:            b.Priority.String(),
		CreatorID:           b.CreatorID.Bytes(),
		AssigneeID:          kernel.OptionalBytes(b.AssigneeID),
		Notes:               b.Notes,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
		StartedAt:           b.StartedAt,
		CompletedAt:         b.CompletedAt,
		EstimatedCompletion: b.EstimatedCompletion,
		Items:               items,
	}
}

func toBatchAttention(items []queries.BatchAttention) []BatchAttentionResponse {
	res := make([]BatchAttentionResponse, 0, len(items))
	for _, b := range items {
		res = append(res, BatchAttentionResponse{
			ID:                  b.ID.Bytes(),
			Name:                b.Name,
			KitchenID:           b.KitchenID.Bytes(),
			Status:              b.Status.String(),
			Priority:            b.Priority.String(),
			AssigneeID:          kernel.OptionalBytes(b.AssigneeID),
			ItemCount:           b.ItemCount,
			CompletedItems:      b.CompletedItems,
			CreatedAt:           b.CreatedAt,
			StartedAt:           b.StartedAt,
			EstimatedCompletion: b.EstimatedCompletion,
			OverdueMinutes:      b.OverdueBy.Minutes(),
		})
	}
	return res
}

func toOrderStats(s queries.KitchenOrderStats) StatsResponse {
	active := s.Active
	res := StatsResponse{
		KitchenID:            s.KitchenID.Bytes(),
		Total:                s.Total,
		Active:               &active,
		ByStatus:             make(map[string]int64, len(s.ByStatus)),
		ByPriority:           priorityCounts(s.ByPriority),
		AvgCompletionMinutes: s.AvgCompletionMinutes,
	}
	for status, n := range s.ByStatus {
		res.ByStatus[status.String()] = n
	}
	return res
}

func toBatchStats(s queries.KitchenBatchStats) StatsResponse {
	open := s.Open
	res := StatsResponse{
		KitchenID:            s.KitchenID.Bytes(),
		Total:                s.Total,
		Open:                 &open,
		ByStatus:             make(map[string]int64, len(s.ByStatus)),
		ByPriority:           priorityCounts(s.ByPriority),
		AvgCompletionMinutes: s.AvgCompletionMinutes,
	}
	for status, n := range s.ByStatus {
		res.ByStatus[status.String()] = n
	}
	return res
}

func priorityCounts(counts map[kernel.Priority]int64) map[string]int64 {
	res := make(map[string]int64, len(counts))
	for p, n := range counts {
		res[p.String()] = n
	}
	return res
}

func toKitchen(k queries.KitchenView) KitchenResponse {
	return KitchenResponse{
		ID:                k.ID.Bytes(),
		Name:              k.Name,
		Capacity:          k.Capacity,
		ActiveOrders:      k.ActiveOrders,
		AvailableCapacity: k.AvailableCapacity,
		IsActive:          k.IsActive,
		ZoneID:            kernel.OptionalBytes(k.ZoneID),
		ZoneName:          k.ZoneName,
		CreatedAt:         k.CreatedAt,
		UpdatedAt:         k.UpdatedAt,
	}
}

func toKitchens(views []queries.KitchenView) []KitchenResponse {
	res := make([]KitchenResponse, 0, len(views))
	for _, k := range views {
		res = append(res, toKitchen(k))
	}
	return res
}
