package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/inventory"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	invdomain "github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderService drives the order lifecycle. Creation, cancellation, and
// deletion run inside one transaction together with their stock
// mutations, so a failure partway leaves nothing behind.
type OrderService struct {
	uow            shared.UnitOfWork
	orderRepo      order.OrderRepository
	productRepo    catalog.ProductRepository
	userRepo       identity.UserRepository
	stock          *inventory.StockService
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	uow shared.UnitOfWork,
	orderRepo order.OrderRepository,
	productRepo catalog.ProductRepository,
	userRepo identity.UserRepository,
	stock *inventory.StockService,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		uow:         uow,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		stock:       stock,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher used after successful commits
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create places a new order. Per line, the product must exist, be
// active, and have enough stock; the effective price at this moment is
// snapshotted into the line. Stock decrements share the order's
// transaction.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	customer, err := s.userRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Customer with id %s not found", req.CustomerID))
	}
	if customer.Kind != identity.UserKindCustomer {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Only customers can place orders")
	}
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order must contain at least one line")
	}

	shipping := order.ShippingInfo{
		Address: req.ShippingAddress,
		City:    req.ShippingCity,
		Country: req.ShippingCountry,
		Zip:     req.ShippingZip,
		Phone:   req.ShippingPhone,
	}
	if shipping.Address == "" {
		shipping.Address = customer.ShippingAddress
		shipping.City = customer.ShippingCity
		shipping.Country = customer.ShippingCountry
		shipping.Zip = customer.ShippingZip
	}

	var created *order.Order
	err = s.uow.WithinTx(ctx, func(tx shared.Tx) error {
		now := time.Now()
		productRepo := s.productRepo.WithTx(tx)

		lines := make([]order.OrderLine, 0, len(req.Lines))
		for _, input := range req.Lines {
			product, err := productRepo.FindByIDForUpdate(ctx, input.ProductID)
			if err != nil {
				return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Product with id %s not found", input.ProductID))
			}
			if !product.IsActive {
				return shared.NewDomainError("PRODUCT_INACTIVE", fmt.Sprintf("Product '%s' is not available", product.Name))
			}

			line, err := order.NewOrderLine(product.ID, input.Quantity, product.EffectivePrice(now))
			if err != nil {
				return err
			}
			lines = append(lines, *line)
		}

		o, err := order.NewOrder(req.CustomerID, lines, shipping)
		if err != nil {
			return err
		}

		// The row locks taken above hold until commit, so the stock
		// check inside Apply cannot race another order.
		for _, line := range o.Lines {
			orderID := o.ID
			if _, err := s.stock.Apply(ctx, tx, line.ProductID, &orderID, invdomain.OpSubtract, line.Quantity, invdomain.ReasonOrderPlaced); err != nil {
				return err
			}
		}

		if err := s.orderRepo.WithTx(tx).SaveWithLines(ctx, o); err != nil {
			return err
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, created)
	s.logger.Info("order created",
		zap.String("order_id", created.ID.String()),
		zap.String("order_number", created.OrderNumber),
		zap.String("customer_id", created.CustomerID.String()),
		zap.String("total_amount", created.TotalAmount.String()))

	resp := ToOrderResponse(created)
	return &resp, nil
}

// Get returns one order by ID
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// GetByNumber returns one order by its order number
func (s *OrderService) GetByNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// ListByCustomer returns a customer's orders, newest first
func (s *OrderService) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (shared.Paginated[OrderResponse], error) {
	orders, err := s.orderRepo.FindByCustomer(ctx, customerID, filter)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	total, err := s.orderRepo.CountByCustomer(ctx, customerID)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	return shared.NewPaginated(ToOrderResponses(orders), total, filter.Page, filter.PageSize), nil
}

// ListByStore returns orders touching a store's products
func (s *OrderService) ListByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (shared.Paginated[OrderResponse], error) {
	orders, err := s.orderRepo.FindByStore(ctx, storeID, filter)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	total, err := s.orderRepo.CountByStore(ctx, storeID)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	return shared.NewPaginated(ToOrderResponses(orders), total, filter.Page, filter.PageSize), nil
}

// UpdateStatus transitions the order to the target status. Moving to
// canceled restores stock in the same transaction.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, target order.Status) (*OrderResponse, error) {
	if target == order.StatusCanceled {
		return s.Cancel(ctx, id)
	}

	var updated *order.Order
	err := s.uow.WithinTx(ctx, func(tx shared.Tx) error {
		orderRepo := s.orderRepo.WithTx(tx)
		o, err := orderRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := o.TransitionTo(target); err != nil {
			return err
		}
		if err := orderRepo.Save(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, updated)
	s.logger.Info("order status updated",
		zap.String("order_id", updated.ID.String()),
		zap.String("status", updated.Status.String()))

	resp := ToOrderResponse(updated)
	return &resp, nil
}

// Cancel cancels the order and puts every line's quantity back on its
// product. Rejected once the order is delivered or already canceled.
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	var canceled *order.Order
	err := s.uow.WithinTx(ctx, func(tx shared.Tx) error {
		orderRepo := s.orderRepo.WithTx(tx)
		o, err := orderRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := o.Cancel(); err != nil {
			return err
		}
		if err := orderRepo.Save(ctx, o); err != nil {
			return err
		}
		if err := s.restoreStock(ctx, tx, o); err != nil {
			return err
		}
		canceled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, canceled)
	s.logger.Info("order canceled", zap.String("order_id", canceled.ID.String()))

	resp := ToOrderResponse(canceled)
	return &resp, nil
}

// Delete hard-deletes an order. Stock is restored first unless the
// order already reached a terminal state.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.uow.WithinTx(ctx, func(tx shared.Tx) error {
		orderRepo := s.orderRepo.WithTx(tx)
		o, err := orderRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !o.IsTerminal() {
			if err := s.restoreStock(ctx, tx, o); err != nil {
				return err
			}
		}
		return orderRepo.Delete(ctx, o.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("order deleted", zap.String("order_id", id.String()))
	return nil
}

func (s *OrderService) restoreStock(ctx context.Context, tx shared.Tx, o *order.Order) error {
	for _, line := range o.Lines {
		orderID := o.ID
		if _, err := s.stock.Apply(ctx, tx, line.ProductID, &orderID, invdomain.OpAdd, line.Quantity, invdomain.ReasonOrderCanceled); err != nil {
			return err
		}
	}
	return nil
}

func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil || o == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, o.GetDomainEvents()...); err != nil {
		s.logger.Warn("failed to publish order events", zap.Error(err))
	}
	o.ClearDomainEvents()
}
