package order

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// ShippingInfo carries the destination address captured on the order
type ShippingInfo struct {
	Address string
	City    string
	Country string
	Zip     string
	Phone   string
}

// OrderLine is a line item. UnitPrice is the effective price snapshot
// taken at order time; later product price changes never touch it.
type OrderLine struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	CreatedAt time.Time
}

// NewOrderLine creates a line item with a price snapshot
func NewOrderLine(productID uuid.UUID, quantity int, unitPrice decimal.Decimal) (*OrderLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return &OrderLine{
		ID:        uuid.New(),
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		CreatedAt: time.Now(),
	}, nil
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "order_lines"
}

// Amount returns quantity times the snapshot price
func (l *OrderLine) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is the aggregate root for the order lifecycle. TotalAmount is
// computed once at creation from the line snapshots and never changes
// afterwards.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber string
	CustomerID  uuid.UUID
	Lines       []OrderLine `gorm:"foreignKey:OrderID"`
	TotalAmount decimal.Decimal
	Status      Status
	Shipping    ShippingInfo `gorm:"embedded;embeddedPrefix:shipping_"`
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CanceledAt  *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order from priced lines
func NewOrder(customerID uuid.UUID, lines []OrderLine, shipping ShippingInfo) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order must contain at least one line")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       GenerateOrderNumber(),
		CustomerID:        customerID,
		Status:            StatusPending,
		Shipping:          shipping,
	}

	total := decimal.Zero
	for i := range lines {
		lines[i].OrderID = o.ID
		total = total.Add(lines[i].Amount())
	}
	o.Lines = lines
	o.TotalAmount = total

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// TransitionTo moves the order to the target status, applying the
// transition's side effects. Transition timestamps are set only when
// still unset, so re-marking a state is a no-op for them.
func (o *Order) TransitionTo(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status '%s'", target))
	}
	if target == o.Status {
		return nil
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition order from '%s' to '%s'", o.Status, target))
	}

	from := o.Status
	o.Status = target
	now := time.Now()

	switch target {
	case StatusShipped:
		if o.ShippedAt == nil {
			o.ShippedAt = &now
		}
	case StatusDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
	case StatusCanceled:
		if o.CanceledAt == nil {
			o.CanceledAt = &now
		}
	}
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target))

	return nil
}

// Confirm moves a pending order to confirmed
func (o *Order) Confirm() error {
	return o.TransitionTo(StatusConfirmed)
}

// Ship marks the order shipped
func (o *Order) Ship() error {
	return o.TransitionTo(StatusShipped)
}

// Deliver marks the order delivered. DeliveredAt is the authoritative
// timestamp for income and revenue recognition.
func (o *Order) Deliver() error {
	return o.TransitionTo(StatusDelivered)
}

// Cancel cancels the order. Rejected once delivered or already canceled.
func (o *Order) Cancel() error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot cancel an order that is already '%s'", o.Status))
	}
	return o.TransitionTo(StatusCanceled)
}

// IsTerminal reports whether the order reached a terminal state
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

const orderNumberCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateOrderNumber builds a collision-resistant order number from a
// second-resolution timestamp and a random four-character suffix, e.g.
// ORD-20260829153047-K27Q.
func GenerateOrderNumber() string {
	var b strings.Builder
	b.WriteString("ORD-")
	b.WriteString(time.Now().Format("20060102150405"))
	b.WriteByte('-')

	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	for _, c := range buf {
		b.WriteByte(orderNumberCharset[int(c)%len(orderNumberCharset)])
	}
	return b.String()
}
