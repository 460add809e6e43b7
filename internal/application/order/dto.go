package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
)

// CreateOrderLineInput is one requested cart line
type CreateOrderLineInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// CreateOrderRequest carries everything needed to place an order
type CreateOrderRequest struct {
	CustomerID      uuid.UUID              `json:"customer_id"`
	Lines           []CreateOrderLineInput `json:"lines"`
	ShippingAddress string                 `json:"shipping_address"`
	ShippingCity    string                 `json:"shipping_city"`
	ShippingCountry string                 `json:"shipping_country"`
	ShippingZip     string                 `json:"shipping_zip"`
	ShippingPhone   string                 `json:"shipping_phone"`
}

// OrderLineResponse is a line item in API responses
type OrderLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// OrderResponse is an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerID      uuid.UUID           `json:"customer_id"`
	Lines           []OrderLineResponse `json:"lines"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Status          order.Status        `json:"status"`
	ShippingAddress string              `json:"shipping_address"`
	ShippingCity    string              `json:"shipping_city"`
	ShippingCountry string              `json:"shipping_country"`
	ShippingZip     string              `json:"shipping_zip"`
	ShippingPhone   string              `json:"shipping_phone"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	CanceledAt      *time.Time          `json:"canceled_at,omitempty"`
}

// ToOrderResponse maps an order aggregate to its API shape
func ToOrderResponse(o *order.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Amount:    l.Amount(),
		})
	}
	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		Lines:           lines,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		ShippingAddress: o.Shipping.Address,
		ShippingCity:    o.Shipping.City,
		ShippingCountry: o.Shipping.Country,
		ShippingZip:     o.Shipping.Zip,
		ShippingPhone:   o.Shipping.Phone,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CanceledAt:      o.CanceledAt,
	}
}

// ToOrderResponses maps a slice of orders
func ToOrderResponses(orders []order.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderResponse(&orders[i]))
	}
	return out
}
