package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backoffice/pkg/db/models"
	"github.com/retailpos/backoffice/pkg/enums"
	pkgerrors "github.com/retailpos/backoffice/pkg/errors"
)

func strptr(s string) *string { return &s }

func intptr(n int) *int { return &n }

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestServiceCreateProduct(t *testing.T) {
	svc, _ := newTestService(t)

	dto, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:              "House Blend",
		SKU:               strptr("COF-10"),
		Price:             decimal.RequireFromString("12.50"),
		StockQuantity:     4,
		LowStockThreshold: intptr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "House Blend", dto.Name)
	assert.Equal(t, enums.StockStatusLowStock, dto.StockStatus)
}

func TestServiceCreateProductWithoutSKU(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// SKU is optional; uniqueness only applies to products that carry one.
	first, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:  "Loose Leaf",
		Price: decimal.RequireFromString("4.00"),
	})
	require.NoError(t, err)
	assert.Nil(t, first.SKU)

	second, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:  "Bulk Beans",
		Price: decimal.RequireFromString("6.00"),
	})
	require.NoError(t, err)
	assert.Nil(t, second.SKU)

	// Blank input normalizes to no SKU rather than an empty string.
	blank, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:  "Unlabeled",
		SKU:   strptr("   "),
		Price: decimal.RequireFromString("1.00"),
	})
	require.NoError(t, err)
	assert.Nil(t, blank.SKU)
}

func TestServiceCreateProductDefaultThreshold(t *testing.T) {
	svc, _ := newTestService(t)

	dto, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:          "No Reorder Point",
		Price:         decimal.NewFromInt(3),
		StockQuantity: models.DefaultLowStockThreshold,
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultLowStockThreshold, dto.LowStockThreshold)
	assert.Equal(t, enums.StockStatusLowStock, dto.StockStatus)
}

func TestServiceCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []CreateProductInput{
		{SKU: strptr("X"), Price: decimal.NewFromInt(1)},                           // missing name
		{Name: "X", Price: decimal.NewFromInt(-1)},                                 // negative price
		{Name: "X", Price: decimal.NewFromInt(1), StockQuantity: -1},               // negative stock
		{Name: "X", Price: decimal.NewFromInt(1), LowStockThreshold: intptr(-1)},   // negative threshold
	}
	for i, input := range cases {
		_, err := svc.CreateProduct(ctx, input)
		require.Errorf(t, err, "case %d should fail", i)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	}
}

func TestServiceCreateProductDuplicateSKU(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := CreateProductInput{Name: "A", SKU: strptr("DUP-1"), Price: decimal.NewFromInt(1)}
	_, err := svc.CreateProduct(ctx, input)
	require.NoError(t, err)

	input.Name = "B"
	_, err = svc.CreateProduct(ctx, input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))
}

func TestServiceUpdateProductPartial(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name: "Before", SKU: strptr("UP-1"), Price: decimal.NewFromInt(5), StockQuantity: 9,
	})
	require.NoError(t, err)

	price := decimal.RequireFromString("7.25")
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Before", updated.Name)
	assert.True(t, updated.Price.Equal(price))
	assert.Equal(t, 9, updated.StockQuantity, "patch must not touch the stock counter")
}

func TestServiceDeleteProduct(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name: "Deletable", SKU: strptr("DEL-1"), Price: decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))

	err = svc.DeleteProduct(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	// A product referenced by a sale maps to a conflict.
	sold, err := svc.CreateProduct(ctx, CreateProductInput{
		Name: "Sold", SKU: strptr("DEL-2"), Price: decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	item := &models.OrderItem{
		ID:          uuid.New(),
		OrderID:     uuid.New(),
		ProductID:   sold.ID,
		ProductName: sold.Name,
		UnitPrice:   sold.Price,
		Quantity:    1,
		LineTotal:   sold.Price,
	}
	require.NoError(t, repo.db.Create(item).Error)

	err = svc.DeleteProduct(ctx, sold.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))
}

func TestServiceListCategories(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	now := time.Now().UTC()
	coffee := "coffee"
	p := newProduct(t, repo.db, "Roast", "CAT-1", 1, 1, now)
	p.Category = &coffee
	require.NoError(t, repo.db.Save(p).Error)
	newProduct(t, repo.db, "Uncategorized", "CAT-2", 1, 1, now)

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"coffee"}, categories)
}

func TestServiceListLowStock(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	now := time.Now().UTC()
	newProduct(t, repo.db, "Stocked", "LS-1", 20, 5, now)
	newProduct(t, repo.db, "Empty", "LS-2", 0, 5, now)

	feed, err := svc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "Empty", feed[0].Name)
	assert.Equal(t, enums.StockStatusOutOfStock, feed[0].StockStatus)
}
