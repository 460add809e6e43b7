package inventory

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Reason attributes a stock change to its cause. Every mutation path,
// manual restocking included, records one so the ledger stays auditable.
type Reason string

const (
	ReasonOrderPlaced      Reason = "order_placed"
	ReasonOrderCanceled    Reason = "order_canceled"
	ReasonManualAdjustment Reason = "manual_adjustment"
)

// IsValid checks if the reason is a known value
func (r Reason) IsValid() bool {
	switch r {
	case ReasonOrderPlaced, ReasonOrderCanceled, ReasonManualAdjustment:
		return true
	}
	return false
}

// Op is a stock mutation operation
type Op string

const (
	OpSet      Op = "set"
	OpAdd      Op = "add"
	OpSubtract Op = "subtract"
)

// IsValid checks if the op is a known value
func (o Op) IsValid() bool {
	switch o {
	case OpSet, OpAdd, OpSubtract:
		return true
	}
	return false
}

// StockMovement is one entry in the per-product stock ledger. Delta is
// signed; ResultingStock is the product's stock after the change.
type StockMovement struct {
	shared.BaseEntity
	ProductID      uuid.UUID
	OrderID        *uuid.UUID
	Delta          int
	ResultingStock int
	Reason         Reason
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement records a stock change against a product
func NewStockMovement(productID uuid.UUID, orderID *uuid.UUID, delta, resultingStock int, reason Reason) (*StockMovement, error) {
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Unknown stock movement reason")
	}
	return &StockMovement{
		BaseEntity:     shared.NewBaseEntity(),
		ProductID:      productID,
		OrderID:        orderID,
		Delta:          delta,
		ResultingStock: resultingStock,
		Reason:         reason,
	}, nil
}
