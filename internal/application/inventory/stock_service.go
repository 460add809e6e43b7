package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockService is the single path for stock mutations. Manual
// adjustments and the order lifecycle both go through Apply, so every
// change lands in the movement ledger with its reason.
type StockService struct {
	uow          shared.UnitOfWork
	productRepo  catalog.ProductRepository
	movementRepo inventory.MovementRepository
	logger       *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(uow shared.UnitOfWork, productRepo catalog.ProductRepository, movementRepo inventory.MovementRepository, logger *zap.Logger) *StockService {
	return &StockService{
		uow:          uow,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		logger:       logger,
	}
}

// Adjust performs a manual stock adjustment in its own transaction
func (s *StockService) Adjust(ctx context.Context, productID uuid.UUID, op inventory.Op, amount int) (*catalog.Product, error) {
	var product *catalog.Product
	err := s.uow.WithinTx(ctx, func(tx shared.Tx) error {
		var err error
		product, err = s.Apply(ctx, tx, productID, nil, op, amount, inventory.ReasonManualAdjustment)
		return err
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Apply mutates a product's stock inside the caller's transaction and
// records the movement. The product row is locked for the duration so
// concurrent decrements cannot both pass the stock check.
func (s *StockService) Apply(ctx context.Context, tx shared.Tx, productID uuid.UUID, orderID *uuid.UUID, op inventory.Op, amount int, reason inventory.Reason) (*catalog.Product, error) {
	if !op.IsValid() {
		return nil, shared.NewDomainError("INVALID_OP", "Stock operation must be 'set', 'add', or 'subtract'")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Unknown stock movement reason")
	}

	productRepo := s.productRepo.WithTx(tx)
	product, err := productRepo.FindByIDForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}

	before := product.Stock
	switch op {
	case inventory.OpSet:
		err = product.SetStock(amount)
	case inventory.OpAdd:
		err = product.AddStock(amount)
	case inventory.OpSubtract:
		err = product.SubtractStock(amount)
	}
	if err != nil {
		return nil, err
	}

	if err := productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	movement, err := inventory.NewStockMovement(product.ID, orderID, product.Stock-before, product.Stock, reason)
	if err != nil {
		return nil, err
	}
	if err := s.movementRepo.WithTx(tx).Save(ctx, movement); err != nil {
		return nil, err
	}

	s.logger.Debug("stock adjusted",
		zap.String("product_id", product.ID.String()),
		zap.String("op", string(op)),
		zap.String("reason", string(reason)),
		zap.Int("delta", product.Stock-before),
		zap.Int("stock", product.Stock))

	return product, nil
}

// Movements lists the ledger entries of a product, newest first
func (s *StockService) Movements(ctx context.Context, productID uuid.UUID, filter shared.Filter) (shared.Paginated[inventory.StockMovement], error) {
	movements, err := s.movementRepo.FindByProduct(ctx, productID, filter)
	if err != nil {
		return shared.Paginated[inventory.StockMovement]{}, err
	}
	total, err := s.movementRepo.CountByProduct(ctx, productID)
	if err != nil {
		return shared.Paginated[inventory.StockMovement]{}, err
	}
	return shared.NewPaginated(movements, total, filter.Page, filter.PageSize), nil
}
