package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/chat"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&identity.User{},
		&store.Store{},
		&catalog.Category{},
		&catalog.Tag{},
		&catalog.Product{},
		&catalog.ProductImage{},
		&inventory.StockMovement{},
		&order.Order{},
		&order.OrderLine{},
		&review.Review{},
		&chat.Message{},
	))
	return db
}

func mustUser(t *testing.T, db *gorm.DB, email string, kind identity.UserKind) *identity.User {
	t.Helper()
	u, err := identity.NewUser(email, "password123", "Test User", kind)
	require.NoError(t, err)
	require.NoError(t, db.Create(u).Error)
	return u
}

func mustStore(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string) *store.Store {
	t.Helper()
	st, err := store.NewStore(ownerID, name, "")
	require.NoError(t, err)
	require.NoError(t, db.Create(st).Error)
	return st
}

func mustProduct(t *testing.T, db *gorm.DB, storeID uuid.UUID, name string, price int64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(storeID, name, "", decimal.NewFromInt(price), decimal.NewFromInt(price/2), stock)
	require.NoError(t, err)
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestGormUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	u := mustUser(t, db, "alice@example.com", identity.UserKindCustomer)

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", found.Email)
	})

	t.Run("find by email normalizes the input", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "  ALICE@Example.com ")
		require.NoError(t, err)
		assert.Equal(t, u.ID, found.ID)
	})

	t.Run("exists by email", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("missing user maps to not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		bob := mustUser(t, db, "bob@example.com", identity.UserKindCustomer)
		require.NoError(t, repo.Delete(ctx, bob.ID))
		assert.ErrorIs(t, repo.Delete(ctx, bob.ID), shared.ErrNotFound)
	})
}

func TestGormStoreRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStoreRepository(db)
	ctx := context.Background()

	owner := mustUser(t, db, "owner@example.com", identity.UserKindStoreOwner)
	st := mustStore(t, db, owner.ID, "Corner Shop")

	t.Run("find by owner", func(t *testing.T) {
		found, err := repo.FindByOwner(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, st.ID, found.ID)
	})

	t.Run("exists by name", func(t *testing.T) {
		exists, err := repo.ExistsByName(ctx, "Corner Shop")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("statistics count products and delivered revenue", func(t *testing.T) {
		p := mustProduct(t, db, st.ID, "Widget", 10, 100)
		mustProduct(t, db, st.ID, "Gadget", 20, 100)

		customer := mustUser(t, db, "buyer@example.com", identity.UserKindCustomer)
		line, err := order.NewOrderLine(p.ID, 3, p.Price)
		require.NoError(t, err)
		o, err := order.NewOrder(customer.ID, []order.OrderLine{*line}, order.ShippingInfo{Address: "1 Main St"})
		require.NoError(t, err)
		require.NoError(t, o.Confirm())
		require.NoError(t, o.Ship())
		require.NoError(t, o.Deliver())
		require.NoError(t, db.Create(o).Error)

		stats, err := repo.Statistics(ctx, st.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.ProductCount)
		assert.Equal(t, int64(1), stats.OrderCount)
		assert.True(t, stats.Revenue.Equal(decimal.NewFromInt(30)), "got %s", stats.Revenue)
	})
}

func TestGormProductRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	owner := mustUser(t, db, "owner@example.com", identity.UserKindStoreOwner)
	st := mustStore(t, db, owner.ID, "Corner Shop")

	t.Run("save and reload with images", func(t *testing.T) {
		p, err := catalog.NewProduct(st.ID, "Widget", "round", decimal.NewFromInt(10), decimal.NewFromInt(4), 5)
		require.NoError(t, err)
		require.NoError(t, p.AddImage("https://cdn.example.com/widget.png"))
		require.NoError(t, repo.Save(ctx, p))

		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Widget", found.Name)
		require.Len(t, found.Images, 1)
		assert.Equal(t, "https://cdn.example.com/widget.png", found.Images[0].URL)
	})

	t.Run("replace tags", func(t *testing.T) {
		p := mustProduct(t, db, st.ID, "Tagged", 10, 5)
		sale, err := catalog.NewTag("sale")
		require.NoError(t, err)
		featured, err := catalog.NewTag("featured")
		require.NoError(t, err)
		require.NoError(t, db.Create(sale).Error)
		require.NoError(t, db.Create(featured).Error)

		require.NoError(t, repo.ReplaceTags(ctx, p.ID, []catalog.Tag{*sale, *featured}))
		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Len(t, found.Tags, 2)

		require.NoError(t, repo.ReplaceTags(ctx, p.ID, []catalog.Tag{*sale}))
		found, err = repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, found.Tags, 1)
		assert.Equal(t, "sale", found.Tags[0].Name)
	})

	t.Run("find by store with search", func(t *testing.T) {
		mustProduct(t, db, st.ID, "Coffee Grinder", 50, 3)
		mustProduct(t, db, st.ID, "Coffee Beans", 12, 30)

		products, err := repo.FindByStore(ctx, st.ID, shared.Filter{Search: "coffee", Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("count by category", func(t *testing.T) {
		cat, err := catalog.NewCategory(st.ID, "Appliances", "")
		require.NoError(t, err)
		require.NoError(t, db.Create(cat).Error)

		p := mustProduct(t, db, st.ID, "Toaster", 25, 7)
		p.CategoryID = &cat.ID
		require.NoError(t, repo.Save(ctx, p))

		count, err := repo.CountByCategory(ctx, cat.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("delete removes images and tag links", func(t *testing.T) {
		p, err := catalog.NewProduct(st.ID, "Ephemeral", "", decimal.NewFromInt(1), decimal.NewFromInt(1), 1)
		require.NoError(t, err)
		require.NoError(t, p.AddImage("https://cdn.example.com/e.png"))
		require.NoError(t, repo.Save(ctx, p))

		require.NoError(t, repo.Delete(ctx, p.ID))
		_, err = repo.FindByID(ctx, p.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var imageCount int64
		require.NoError(t, db.Model(&catalog.ProductImage{}).Where("product_id = ?", p.ID).Count(&imageCount).Error)
		assert.Zero(t, imageCount)
	})
}

func TestGormCategoryRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	owner := mustUser(t, db, "owner@example.com", identity.UserKindStoreOwner)
	st := mustStore(t, db, owner.ID, "Corner Shop")

	cat, err := catalog.NewCategory(st.ID, "Drinks", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, cat))

	t.Run("exists by name is scoped to the store", func(t *testing.T) {
		exists, err := repo.ExistsByName(ctx, st.ID, "Drinks")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByName(ctx, uuid.New(), "Drinks")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("find by store", func(t *testing.T) {
		categories, err := repo.FindByStore(ctx, st.ID, shared.Filter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Len(t, categories, 1)
	})
}

func TestGormTagRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTagRepository(db)
	ctx := context.Background()

	tag, err := catalog.NewTag("Summer Sale")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, tag))

	t.Run("find by normalized name", func(t *testing.T) {
		found, err := repo.FindByName(ctx, "summer sale")
		require.NoError(t, err)
		assert.Equal(t, tag.ID, found.ID)
	})

	t.Run("unknown name maps to not found", func(t *testing.T) {
		_, err := repo.FindByName(ctx, "winter sale")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormMovementRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormMovementRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	for i, delta := range []int{+10, -3, -2} {
		m, err := inventory.NewStockMovement(productID, nil, delta, 10+delta*i, inventory.ReasonManualAdjustment)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, m))
	}

	movements, err := repo.FindByProduct(ctx, productID, shared.Filter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, movements, 2)

	count, err := repo.CountByProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = repo.CountByProduct(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, count)
}
