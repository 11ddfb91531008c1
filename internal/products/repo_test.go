package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/retailpos/backoffice/pkg/db/models"
	"github.com/retailpos/backoffice/pkg/pagination"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:products_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	productsDDL := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  sku TEXT UNIQUE,
  description TEXT,
  category TEXT,
  price NUMERIC NOT NULL,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  low_stock_threshold INTEGER NOT NULL DEFAULT 5,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItemsDDL := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL REFERENCES products(id),
  product_name TEXT NOT NULL,
  unit_price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  line_total NUMERIC NOT NULL
);`
	require.NoError(t, db.Exec(productsDDL).Error)
	require.NoError(t, db.Exec(orderItemsDDL).Error)
	return db
}

func newProduct(t *testing.T, db *gorm.DB, name, sku string, qty, threshold int, created time.Time) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:                uuid.New(),
		Name:              name,
		SKU:               &sku,
		Price:             decimal.RequireFromString("9.99"),
		StockQuantity:     qty,
		LowStockThreshold: threshold,
		CreatedAt:         created,
		UpdatedAt:         created,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryAdjustStock(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := newProduct(t, db, "Coffee Beans", "SKU-1", 10, 3, time.Now().UTC())

	rows, err := repo.AdjustStock(ctx, product.ID, -4)
	require.NoError(t, err)
	require.EqualValues(t, 1, rows)

	reloaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, reloaded.StockQuantity)

	// A delta that would overdraw the counter is refused.
	rows, err = repo.AdjustStock(ctx, product.ID, -7)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)

	reloaded, err = repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, reloaded.StockQuantity)

	// Draining to exactly zero is allowed.
	rows, err = repo.AdjustStock(ctx, product.ID, -6)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)
}

func TestRepositoryAdjustStockMissingProduct(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	rows, err := repo.AdjustStock(context.Background(), uuid.New(), 5)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)
}

func TestRepositoryDeleteBlockedByOrderItems(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := newProduct(t, db, "Sold Once", "SKU-2", 1, 1, time.Now().UTC())
	item := &models.OrderItem{
		ID:          uuid.New(),
		OrderID:     uuid.New(),
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    1,
		LineTotal:   product.Price,
	}
	require.NoError(t, db.Create(item).Error)

	_, err := repo.Delete(ctx, product.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOREIGN KEY constraint")
}

func TestRepositoryList_filtersAndPagination(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	espresso := newProduct(t, db, "Espresso Roast", "COF-01", 10, 3, now.Add(-2*time.Hour))
	category := "coffee"
	espresso.Category = &category
	require.NoError(t, db.Save(espresso).Error)
	newProduct(t, db, "Green Tea", "TEA-01", 5, 2, now.Add(-time.Hour))
	newProduct(t, db, "Decaf Roast", "COF-02", 0, 3, now)

	page, err := repo.List(ctx, pagination.Params{Limit: 2}, Filters{})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "Decaf Roast", page.Products[0].Name)
	assert.EqualValues(t, 3, page.Total)
	require.NotEmpty(t, page.NextCursor)

	rest, err := repo.List(ctx, pagination.Params{Limit: 2, Cursor: page.NextCursor}, Filters{})
	require.NoError(t, err)
	require.Len(t, rest.Products, 1)
	assert.Equal(t, "Espresso Roast", rest.Products[0].Name)
	assert.Empty(t, rest.NextCursor)

	bySearch, err := repo.List(ctx, pagination.Params{}, Filters{Search: "roast"})
	require.NoError(t, err)
	assert.Len(t, bySearch.Products, 2)
	assert.EqualValues(t, 3, bySearch.Total)

	bySKU, err := repo.List(ctx, pagination.Params{}, Filters{Search: "tea-0"})
	require.NoError(t, err)
	require.Len(t, bySKU.Products, 1)
	assert.Equal(t, "Green Tea", bySKU.Products[0].Name)

	byCategory, err := repo.List(ctx, pagination.Params{}, Filters{Category: "coffee"})
	require.NoError(t, err)
	require.Len(t, byCategory.Products, 1)
	assert.Equal(t, "Espresso Roast", byCategory.Products[0].Name)
}

func TestRepositoryList_stockBuckets(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	newProduct(t, db, "Plenty", "SKU-A", 50, 5, now.Add(-3*time.Hour))
	newProduct(t, db, "Running Low", "SKU-B", 3, 5, now.Add(-2*time.Hour))
	newProduct(t, db, "Gone", "SKU-C", 0, 5, now.Add(-time.Hour))

	out, err := repo.List(ctx, pagination.Params{}, Filters{Stock: StockFilterOut})
	require.NoError(t, err)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "Gone", out.Products[0].Name)

	low, err := repo.List(ctx, pagination.Params{}, Filters{Stock: StockFilterLow})
	require.NoError(t, err)
	require.Len(t, low.Products, 1)
	assert.Equal(t, "Running Low", low.Products[0].Name)

	in, err := repo.List(ctx, pagination.Params{}, Filters{Stock: StockFilterIn})
	require.NoError(t, err)
	require.Len(t, in.Products, 1)
	assert.Equal(t, "Plenty", in.Products[0].Name)

	all, err := repo.List(ctx, pagination.Params{}, Filters{Stock: StockFilterAll})
	require.NoError(t, err)
	assert.Len(t, all.Products, 3)
}

func TestRepositoryListLowStock(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	newProduct(t, db, "Plenty", "SKU-A", 50, 5, now)
	newProduct(t, db, "Running Low", "SKU-B", 3, 5, now)
	newProduct(t, db, "Gone", "SKU-C", 0, 5, now)
	newProduct(t, db, "At Threshold", "SKU-D", 5, 5, now)

	rows, err := repo.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Gone", rows[0].Name)
	assert.Equal(t, "Running Low", rows[1].Name)
	assert.Equal(t, "At Threshold", rows[2].Name)
}

func TestRepositoryCategories(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	coffee := "coffee"
	tea := "tea"
	a := newProduct(t, db, "A", "SKU-E", 1, 1, now)
	a.Category = &coffee
	require.NoError(t, db.Save(a).Error)
	b := newProduct(t, db, "B", "SKU-F", 1, 1, now)
	b.Category = &tea
	require.NoError(t, db.Save(b).Error)
	c := newProduct(t, db, "C", "SKU-G", 1, 1, now)
	c.Category = &coffee
	require.NoError(t, db.Save(c).Error)

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"coffee", "tea"}, categories)
}
