package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	invapp "github.com/storefront/backend/internal/application/inventory"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// passthroughUOW runs the closure without a real transaction
type passthroughUOW struct{}

func (passthroughUOW) WithinTx(ctx context.Context, fn func(tx shared.Tx) error) error {
	return fn(nil)
}

// fakeProductRepo keeps products in memory so stock changes made during
// a test are observable afterwards.
type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo(products ...*catalog.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) WithTx(tx shared.Tx) catalog.ProductRepository { return r }

func (r *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeProductRepo) FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *fakeProductRepo) Save(ctx context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) ReplaceTags(ctx context.Context, productID uuid.UUID, tags []catalog.Tag) error {
	return nil
}

// fakeOrderRepo keeps orders in memory
type fakeOrderRepo struct {
	orders map[uuid.UUID]*order.Order
	failOn string
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*order.Order)}
}

func (r *fakeOrderRepo) WithTx(tx shared.Tx) order.OrderRepository { return r }

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	var out []order.Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	return nil, nil
}

func (r *fakeOrderRepo) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	return nil, nil
}

func (r *fakeOrderRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(r.orders)), nil
}

func (r *fakeOrderRepo) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	orders, _ := r.FindByCustomer(ctx, customerID, shared.DefaultFilter())
	return int64(len(orders)), nil
}

func (r *fakeOrderRepo) CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *fakeOrderRepo) SaveWithLines(ctx context.Context, o *order.Order) error {
	if r.failOn == "SaveWithLines" {
		return assert.AnError
	}
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) Save(ctx context.Context, o *order.Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeMovementRepo records ledger entries in memory
type fakeMovementRepo struct {
	movements []inventory.StockMovement
}

func (r *fakeMovementRepo) WithTx(tx shared.Tx) inventory.MovementRepository { return r }

func (r *fakeMovementRepo) Save(ctx context.Context, m *inventory.StockMovement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeMovementRepo) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var out []inventory.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	out, _ := r.FindByProduct(ctx, productID, shared.DefaultFilter())
	return int64(len(out)), nil
}

type fixture struct {
	svc       *OrderService
	orders    *fakeOrderRepo
	products  *fakeProductRepo
	movements *fakeMovementRepo
	users     *MockUserRepository
	customer  *identity.User
}

func newFixture(t *testing.T, products ...*catalog.Product) *fixture {
	t.Helper()
	customer, err := identity.NewUser("buyer@example.com", "Password123", "Buyer", identity.UserKindCustomer)
	require.NoError(t, err)

	orders := newFakeOrderRepo()
	productRepo := newFakeProductRepo(products...)
	movements := &fakeMovementRepo{}
	users := new(MockUserRepository)
	users.On("FindByID", mock.Anything, customer.ID).Return(customer, nil).Maybe()

	stock := invapp.NewStockService(passthroughUOW{}, productRepo, movements, zap.NewNop())
	svc := NewOrderService(passthroughUOW{}, orders, productRepo, users, stock, zap.NewNop())

	return &fixture{
		svc:       svc,
		orders:    orders,
		products:  productRepo,
		movements: movements,
		users:     users,
		customer:  customer,
	}
}

func newProduct(t *testing.T, price string, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(uuid.New(), "Widget", "", decimal.RequireFromString(price), decimal.RequireFromString("40"), stock)
	require.NoError(t, err)
	return p
}

func TestCreateOrder(t *testing.T) {
	t.Run("decrements stock and snapshots effective price", func(t *testing.T) {
		product := newProduct(t, "100", 10)
		require.NoError(t, product.SetDiscount(decimal.RequireFromString("80"), nil))
		f := newFixture(t, product)

		resp, err := f.svc.Create(context.Background(), CreateOrderRequest{
			CustomerID: f.customer.ID,
			Lines:      []CreateOrderLineInput{{ProductID: product.ID, Quantity: 3}},
		})

		require.NoError(t, err)
		assert.Equal(t, 7, product.Stock)
		assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("240")))
		assert.Equal(t, order.StatusPending, resp.Status)

		require.Len(t, f.movements.movements, 1)
		m := f.movements.movements[0]
		assert.Equal(t, inventory.ReasonOrderPlaced, m.Reason)
		assert.Equal(t, -3, m.Delta)
		assert.Equal(t, 7, m.ResultingStock)
	})

	t.Run("ordering exactly the remaining stock succeeds", func(t *testing.T) {
		product := newProduct(t, "100", 5)
		f := newFixture(t, product)

		_, err := f.svc.Create(context.Background(), CreateOrderRequest{
			CustomerID: f.customer.ID,
			Lines:      []CreateOrderLineInput{{ProductID: product.ID, Quantity: 5}},
		})

		require.NoError(t, err)
		assert.Equal(t, 0, product.Stock)
	})

	t.Run("ordering stock plus one fails naming availability", func(t *testing.T) {
		product := newProduct(t, "100", 5)
		f := newFixture(t, product)

		_, err := f.svc.Create(context.Background(), CreateOrderRequest{
			CustomerID: f.customer.ID,
			Lines:      []CreateOrderLineInput{{ProductID: product.ID, Quantity: 6}},
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Available: 5, Requested: 6")
		assert.Equal(t, 5, product.Stock)
		assert.Empty(t, f.orders.orders)
	})

	t.Run("inactive product rejected", func(t *testing.T) {
		product := newProduct(t, "100", 5)
		product.Deactivate()
		f := newFixture(t, product)

		_, err := f.svc.Create(context.Background(), CreateOrderRequest{
			CustomerID: f.customer.ID,
			Lines:      []CreateOrderLineInput{{ProductID: product.ID, Quantity: 1}},
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not available")
	})

	t.Run("unknown product rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), CreateOrderRequest{
			CustomerID: f.customer.ID,
			Lines:      []CreateOrderLineInput{{ProductID: uuid.New(), Quantity: 1}},
		})

		assert.Error(t, err)
	})

	t.Run("unknown customer rejected", func(t *testing.T) {
		product := newProduct(t, "100", 5)
		f := newFixture(t, product)
		strangerID := uuid.New()
		f.users.On("FindByID", mock.Anything, strangerID).Return(nil, shared.ErrNotFound).Once()

		_, err := f.svc.Create(context.Background(), CreateOrderRequest{
			CustomerID: strangerID,
			Lines:      []CreateOrderLineInput{{ProductID: product.ID, Quantity: 1}},
		})

		assert.Error(t, err)
	})

	t.Run("total equals sum of line snapshots", func(t *testing.T) {
		a := newProduct(t, "100", 10)
		b := newProduct(t, "25.50", 10)
		f := newFixture(t, a, b)

		resp, err := f.svc.Create(context.Background(), CreateOrderRequest{
			CustomerID: f.customer.ID,
			Lines: []CreateOrderLineInput{
				{ProductID: a.ID, Quantity: 2},
				{ProductID: b.ID, Quantity: 4},
			},
		})

		require.NoError(t, err)
		sum := decimal.Zero
		for _, l := range resp.Lines {
			sum = sum.Add(l.Amount)
		}
		assert.True(t, resp.TotalAmount.Equal(sum))
		assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("302")))
	})

	t.Run("later price change does not affect placed order", func(t *testing.T) {
		product := newProduct(t, "100", 10)
		f := newFixture(t, product)

		resp, err := f.svc.Create(context.Background(), CreateOrderRequest{
			CustomerID: f.customer.ID,
			Lines:      []CreateOrderLineInput{{ProductID: product.ID, Quantity: 1}},
		})
		require.NoError(t, err)

		require.NoError(t, product.SetPrice(decimal.RequireFromString("999")))

		got, err := f.svc.Get(context.Background(), resp.ID)
		require.NoError(t, err)
		assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("100")))
	})
}

func TestCancelOrder(t *testing.T) {
	t.Run("cancel restores stock", func(t *testing.T) {
		product := newProduct(t, "100", 10)
		f := newFixture(t, product)

		resp, err := f.svc.Create(context.Background(), CreateOrderRequest{
			CustomerID: f.customer.ID,
			Lines:      []CreateOrderLineInput{{ProductID: product.ID, Quantity: 3}},
		})
		require.NoError(t, err)
		require.Equal(t, 7, product.Stock)

		canceled, err := f.svc.Cancel(context.Background(), resp.ID)

		require.NoError(t, err)
		assert.Equal(t, order.StatusCanceled, canceled.Status)
		assert.Equal(t, 10, product.Stock)

		require.Len(t, f.movements.movements, 2)
		assert.Equal(t, inventory.ReasonOrderCanceled, f.movements.movements[1].Reason)
		assert.Equal(t, 3, f.movements.movements[1].Delta)
	})

	t.Run("cancel rejected after delivery", func(t *testing.T) {
		product := newProduct(t, "100", 10)
		f := newFixture(t, product)

		resp, err := f.svc.Create(context.Background(), CreateOrderRequest{
			CustomerID: f.customer.ID,
			Lines:      []CreateOrderLineInput{{ProductID: product.ID, Quantity: 3}},
		})
		require.NoError(t, err)

		for _, status := range []order.Status{order.StatusConfirmed, order.StatusShipped, order.StatusDelivered} {
			_, err = f.svc.UpdateStatus(context.Background(), resp.ID, status)
			require.NoError(t, err)
		}

		_, err = f.svc.Cancel(context.Background(), resp.ID)
		require.Error(t, err)
		assert.Equal(t, 7, product.Stock)
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("re-marking shipped keeps timestamp", func(t *testing.T) {
		product := newProduct(t, "100", 10)
		f := newFixture(t, product)

		resp, err := f.svc.Create(context.Background(), CreateOrderRequest{
			CustomerID: f.customer.ID,
			Lines:      []CreateOrderLineInput{{ProductID: product.ID, Quantity: 1}},
		})
		require.NoError(t, err)

		_, err = f.svc.UpdateStatus(context.Background(), resp.ID, order.StatusConfirmed)
		require.NoError(t, err)
		shipped, err := f.svc.UpdateStatus(context.Background(), resp.ID, order.StatusShipped)
		require.NoError(t, err)
		require.NotNil(t, shipped.ShippedAt)

		again, err := f.svc.UpdateStatus(context.Background(), resp.ID, order.StatusShipped)
		require.NoError(t, err)
		assert.Equal(t, shipped.ShippedAt, again.ShippedAt)
	})

	t.Run("canceled target routes through stock restore", func(t *testing.T) {
		product := newProduct(t, "100", 10)
		f := newFixture(t, product)

		resp, err := f.svc.Create(context.Background(), CreateOrderRequest{
			CustomerID: f.customer.ID,
			Lines:      []CreateOrderLineInput{{ProductID: product.ID, Quantity: 4}},
		})
		require.NoError(t, err)

		_, err = f.svc.UpdateStatus(context.Background(), resp.ID, order.StatusCanceled)
		require.NoError(t, err)
		assert.Equal(t, 10, product.Stock)
	})
}

func TestDeleteOrder(t *testing.T) {
	t.Run("deleting a pending order restores stock", func(t *testing.T) {
		product := newProduct(t, "100", 10)
		f := newFixture(t, product)

		resp, err := f.svc.Create(context.Background(), CreateOrderRequest{
			CustomerID: f.customer.ID,
			Lines:      []CreateOrderLineInput{{ProductID: product.ID, Quantity: 2}},
		})
		require.NoError(t, err)

		require.NoError(t, f.svc.Delete(context.Background(), resp.ID))
		assert.Equal(t, 10, product.Stock)
		assert.Empty(t, f.orders.orders)
	})

	t.Run("deleting a delivered order keeps stock", func(t *testing.T) {
		product := newProduct(t, "100", 10)
		f := newFixture(t, product)

		resp, err := f.svc.Create(context.Background(), CreateOrderRequest{
			CustomerID: f.customer.ID,
			Lines:      []CreateOrderLineInput{{ProductID: product.ID, Quantity: 2}},
		})
		require.NoError(t, err)

		for _, status := range []order.Status{order.StatusConfirmed, order.StatusShipped, order.StatusDelivered} {
			_, err = f.svc.UpdateStatus(context.Background(), resp.ID, status)
			require.NoError(t, err)
		}

		require.NoError(t, f.svc.Delete(context.Background(), resp.ID))
		assert.Equal(t, 8, product.Stock)
	})
}
