package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderFixture struct {
	db       *gorm.DB
	repo     *GormOrderRepository
	storeID  uuid.UUID
	customer *identity.User
	product  *catalog.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	db := newTestDB(t)
	owner := mustUser(t, db, "owner@example.com", identity.UserKindStoreOwner)
	st := mustStore(t, db, owner.ID, "Corner Shop")
	return &orderFixture{
		db:       db,
		repo:     NewGormOrderRepository(db),
		storeID:  st.ID,
		customer: mustUser(t, db, "buyer@example.com", identity.UserKindCustomer),
		product:  mustProduct(t, db, st.ID, "Widget", 10, 100),
	}
}

func (f *orderFixture) placeOrder(t *testing.T, quantity int) *order.Order {
	t.Helper()
	line, err := order.NewOrderLine(f.product.ID, quantity, f.product.Price)
	require.NoError(t, err)
	o, err := order.NewOrder(f.customer.ID, []order.OrderLine{*line}, order.ShippingInfo{Address: "1 Main St", City: "Springfield"})
	require.NoError(t, err)
	require.NoError(t, f.repo.SaveWithLines(context.Background(), o))
	return o
}

func TestGormOrderRepositorySaveWithLines(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	o := f.placeOrder(t, 3)

	found, err := f.repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber, found.OrderNumber)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, 3, found.Lines[0].Quantity)
	assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "Springfield", found.Shipping.City)
}

func TestGormOrderRepositoryFindByOrderNumber(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	o := f.placeOrder(t, 1)

	found, err := f.repo.FindByOrderNumber(ctx, o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, o.ID, found.ID)

	_, err = f.repo.FindByOrderNumber(ctx, "ORD-00000000000000-0000")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderRepositoryFindByStore(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	f.placeOrder(t, 1)
	f.placeOrder(t, 2)

	// An order for another store's product must not appear.
	otherOwner := mustUser(t, f.db, "other@example.com", identity.UserKindStoreOwner)
	otherStore := mustStore(t, f.db, otherOwner.ID, "Other Shop")
	otherProduct := mustProduct(t, f.db, otherStore.ID, "Gizmo", 5, 10)
	line, err := order.NewOrderLine(otherProduct.ID, 1, otherProduct.Price)
	require.NoError(t, err)
	o, err := order.NewOrder(f.customer.ID, []order.OrderLine{*line}, order.ShippingInfo{Address: "1 Main St"})
	require.NoError(t, err)
	require.NoError(t, f.repo.SaveWithLines(ctx, o))

	orders, err := f.repo.FindByStore(ctx, f.storeID, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	count, err := f.repo.CountByStore(ctx, f.storeID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = f.repo.CountByStore(ctx, otherStore.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormOrderRepositoryStatusUpdate(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	o := f.placeOrder(t, 1)
	require.NoError(t, o.Confirm())
	require.NoError(t, o.Ship())
	require.NoError(t, f.repo.Save(ctx, o))

	found, err := f.repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, found.Status)
	require.NotNil(t, found.ShippedAt)
	assert.WithinDuration(t, time.Now(), *found.ShippedAt, time.Minute)
	require.Len(t, found.Lines, 1, "status update must not drop lines")
}

func TestGormOrderRepositoryDelete(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	o := f.placeOrder(t, 1)
	require.NoError(t, f.repo.Delete(ctx, o.ID))

	_, err := f.repo.FindByID(ctx, o.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var lineCount int64
	require.NoError(t, f.db.Model(&order.OrderLine{}).Where("order_id = ?", o.ID).Count(&lineCount).Error)
	assert.Zero(t, lineCount)

	assert.ErrorIs(t, f.repo.Delete(ctx, o.ID), shared.ErrNotFound)
}

func TestGormOrderRepositoryFindByCustomer(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	f.placeOrder(t, 1)
	f.placeOrder(t, 2)

	orders, err := f.repo.FindByCustomer(ctx, f.customer.ID, shared.Filter{Page: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	count, err := f.repo.CountByCustomer(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
