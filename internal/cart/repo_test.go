package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/govindsingh74/amztwo/pkg/db/models"
	"github.com/govindsingh74/amztwo/pkg/enums"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	carts := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  variant_id TEXT NOT NULL,
  asin TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price_at_time NUMERIC NOT NULL,
  product_name TEXT NOT NULL,
  product_image TEXT,
  variant_weight NUMERIC,
  variant_weight_unit TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, variant_id)
);`
	require.NoError(t, db.Exec(carts).Error)
	require.NoError(t, db.Exec(cartItems).Error)

	return db
}

func seedCart(t *testing.T, repo *Repository, userID uuid.UUID) *models.Cart {
	t.Helper()

	record, err := repo.Create(context.Background(), &models.Cart{UserID: userID})
	require.NoError(t, err)
	return record
}

func TestRepositoryCreateAndFindByUserID(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	created := seedCart(t, repo, userID)
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, userID, found.UserID)

	_, err = repo.FindByUserID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCreateEnforcesOneCartPerUser(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	seedCart(t, repo, userID)

	_, err := repo.Create(context.Background(), &models.Cart{UserID: userID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE")
}

func TestRepositoryItemLifecycle(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	cart := seedCart(t, repo, uuid.New())

	variantID := uuid.New()
	item := &models.CartItem{
		CartID:            cart.ID,
		VariantID:         variantID,
		ASIN:              "B0TESTASIN",
		Quantity:          2,
		PriceAtTime:       decimal.RequireFromString("9.99"),
		ProductName:       "Travel Mug",
		VariantWeight:     decimal.RequireFromString("0.450"),
		VariantWeightUnit: enums.WeightUnitKilogram,
	}
	require.NoError(t, repo.InsertItem(context.Background(), item))
	require.NotEqual(t, uuid.Nil, item.ID)

	found, err := repo.FindItemByVariant(context.Background(), cart.ID, variantID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
	assert.Equal(t, 2, found.Quantity)
	assert.True(t, found.PriceAtTime.Equal(decimal.RequireFromString("9.99")))

	affected, err := repo.UpdateItemQuantity(context.Background(), cart.ID, item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	found, err = repo.FindItemByVariant(context.Background(), cart.ID, variantID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Quantity)

	require.NoError(t, repo.DeleteItem(context.Background(), cart.ID, item.ID))
	_, err = repo.FindItemByVariant(context.Background(), cart.ID, variantID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// deleting again is a no-op
	require.NoError(t, repo.DeleteItem(context.Background(), cart.ID, item.ID))
}

func TestRepositoryUpdateItemQuantityScopedToCart(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	owner := seedCart(t, repo, uuid.New())
	other := seedCart(t, repo, uuid.New())

	item := &models.CartItem{
		CartID:      owner.ID,
		VariantID:   uuid.New(),
		ASIN:        "B0OWNED",
		Quantity:    1,
		PriceAtTime: decimal.RequireFromString("4.50"),
		ProductName: "Notebook",
	}
	require.NoError(t, repo.InsertItem(context.Background(), item))

	affected, err := repo.UpdateItemQuantity(context.Background(), other.ID, item.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	found, err := repo.FindItemByVariant(context.Background(), owner.ID, item.VariantID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.Quantity)
}

func TestRepositoryDeleteItemsByCartLeavesOtherCarts(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	first := seedCart(t, repo, uuid.New())
	second := seedCart(t, repo, uuid.New())

	for i, cartID := range []uuid.UUID{first.ID, first.ID, second.ID} {
		item := &models.CartItem{
			CartID:      cartID,
			VariantID:   uuid.New(),
			ASIN:        fmt.Sprintf("B0SEED%03d", i),
			Quantity:    1,
			PriceAtTime: decimal.RequireFromString("1.00"),
			ProductName: "Seed",
		}
		require.NoError(t, repo.InsertItem(context.Background(), item))
	}

	require.NoError(t, repo.DeleteItemsByCart(context.Background(), first.ID))

	remaining, err := repo.ListItems(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	untouched, err := repo.ListItems(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Len(t, untouched, 1)
}

func TestRepositoryListItemsOrdersNewestFirst(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	cart := seedCart(t, repo, uuid.New())

	older := &models.CartItem{
		CartID:      cart.ID,
		VariantID:   uuid.New(),
		ASIN:        "B0OLDER",
		Quantity:    1,
		PriceAtTime: decimal.RequireFromString("2.00"),
		ProductName: "Older",
	}
	require.NoError(t, repo.InsertItem(context.Background(), older))
	require.NoError(t, db.Model(older).Update("created_at", "2024-01-01 00:00:00").Error)

	newer := &models.CartItem{
		CartID:      cart.ID,
		VariantID:   uuid.New(),
		ASIN:        "B0NEWER",
		Quantity:    1,
		PriceAtTime: decimal.RequireFromString("3.00"),
		ProductName: "Newer",
	}
	require.NoError(t, repo.InsertItem(context.Background(), newer))
	require.NoError(t, db.Model(newer).Update("created_at", "2024-02-01 00:00:00").Error)

	rows, err := repo.ListItems(context.Background(), cart.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)
}
