package inventory

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

	"github.com/retailpos/backoffice/internal/products"
	dbpkg "github.com/retailpos/backoffice/pkg/db"
	"github.com/retailpos/backoffice/pkg/db/models"
	"github.com/retailpos/backoffice/pkg/enums"
	pkgerrors "github.com/retailpos/backoffice/pkg/errors"
	"github.com/retailpos/backoffice/pkg/pagination"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:inventory_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

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
	ledgerDDL := `
CREATE TABLE IF NOT EXISTS inventory_transactions (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  type TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  note TEXT,
  created_by TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(productsDDL).Error)
	require.NoError(t, db.Exec(ledgerDDL).Error)
	return db
}

func newInventoryService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupInventoryTestDB(t)
	svc, err := NewService(NewRepository(db), products.NewRepository(db), dbpkg.NewWithConn(db))
	require.NoError(t, err)
	return svc, db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, qty int) *models.Product {
	t.Helper()
	sku := "SKU-" + uuid.NewString()[:8]
	product := &models.Product{
		ID:            uuid.New(),
		Name:          name,
		SKU:           &sku,
		Price:         decimal.RequireFromString("3.00"),
		StockQuantity: qty,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestServiceAdjustRestock(t *testing.T) {
	svc, db := newInventoryService(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Beans", 2)

	result, err := svc.Adjust(ctx, AdjustInput{
		ProductID: product.ID,
		Type:      enums.InventoryTransactionTypeRestock,
		Quantity:  8,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, result.StockQuantity)
	assert.Equal(t, enums.InventoryTransactionTypeRestock, result.Transaction.Type)
	assert.Equal(t, 8, result.Transaction.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.InventoryTransaction{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestServiceAdjustNegativeAdjustment(t *testing.T) {
	svc, db := newInventoryService(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Shrinkage", 5)

	result, err := svc.Adjust(ctx, AdjustInput{
		ProductID: product.ID,
		Type:      enums.InventoryTransactionTypeAdjustment,
		Quantity:  -3,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.StockQuantity)
}

func TestServiceAdjustRejectsOverdraw(t *testing.T) {
	svc, db := newInventoryService(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Scarce", 2)

	_, err := svc.Adjust(ctx, AdjustInput{
		ProductID: product.ID,
		Type:      enums.InventoryTransactionTypeAdjustment,
		Quantity:  -3,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.CodeOf(err))

	// Neither write landed.
	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 2, reloaded.StockQuantity)

	var count int64
	require.NoError(t, db.Model(&models.InventoryTransaction{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestServiceAdjustValidation(t *testing.T) {
	svc, db := newInventoryService(t)
	ctx := context.Background()
	product := seedProduct(t, db, "Any", 5)

	// Sale movements only come from order fulfillment.
	_, err := svc.Adjust(ctx, AdjustInput{
		ProductID: product.ID,
		Type:      enums.InventoryTransactionTypeSale,
		Quantity:  -1,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = svc.Adjust(ctx, AdjustInput{
		ProductID: product.ID,
		Type:      enums.InventoryTransactionTypeRestock,
		Quantity:  0,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = svc.Adjust(ctx, AdjustInput{
		ProductID: product.ID,
		Type:      enums.InventoryTransactionTypeRestock,
		Quantity:  -4,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestServiceAdjustMissingProduct(t *testing.T) {
	svc, _ := newInventoryService(t)

	_, err := svc.Adjust(context.Background(), AdjustInput{
		ProductID: uuid.New(),
		Type:      enums.InventoryTransactionTypeRestock,
		Quantity:  1,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestServiceListTransactions(t *testing.T) {
	svc, db := newInventoryService(t)
	ctx := context.Background()

	beans := seedProduct(t, db, "Beans", 10)
	tea := seedProduct(t, db, "Tea", 10)

	for i, spec := range []struct {
		product *models.Product
		typ     enums.InventoryTransactionType
		qty     int
	}{
		{beans, enums.InventoryTransactionTypeRestock, 5},
		{tea, enums.InventoryTransactionTypeAdjustment, -2},
		{beans, enums.InventoryTransactionTypeAdjustment, -1},
	} {
		txn := &models.InventoryTransaction{
			ID:        uuid.New(),
			ProductID: spec.product.ID,
			Type:      spec.typ,
			Quantity:  spec.qty,
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(txn).Error)
	}

	all, err := svc.ListTransactions(ctx, pagination.Params{Limit: 10}, Filters{})
	require.NoError(t, err)
	require.Len(t, all.Transactions, 3)
	assert.EqualValues(t, 3, all.Total)
	assert.Equal(t, "Beans", all.Transactions[0].ProductName)

	restocks := enums.InventoryTransactionTypeRestock
	byType, err := svc.ListTransactions(ctx, pagination.Params{}, Filters{Type: &restocks})
	require.NoError(t, err)
	require.Len(t, byType.Transactions, 1)
	assert.Equal(t, 5, byType.Transactions[0].Quantity)

	byProduct, err := svc.ListTransactions(ctx, pagination.Params{}, Filters{ProductID: &tea.ID})
	require.NoError(t, err)
	require.Len(t, byProduct.Transactions, 1)
	assert.Equal(t, "Tea", byProduct.Transactions[0].ProductName)

	bySearch, err := svc.ListTransactions(ctx, pagination.Params{}, Filters{Search: "bean"})
	require.NoError(t, err)
	require.Len(t, bySearch.Transactions, 2)
	assert.EqualValues(t, 3, bySearch.Total)
}
