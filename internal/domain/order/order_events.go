package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Event types for the order domain
const (
	EventTypeOrderCreated       = "order.created"
	EventTypeOrderStatusChanged = "order.status_changed"
)

// OrderCreatedEvent is emitted when an order is placed
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	LineCount   int             `json:"line_count"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		TotalAmount:     o.TotalAmount,
		LineCount:       len(o.Lines),
	}
}

// OrderStatusChangedEvent is emitted on every lifecycle transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	FromStatus  Status `json:"from_status"`
	ToStatus    Status `json:"to_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from, to Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
		FromStatus:      from,
		ToStatus:        to,
	}
}
