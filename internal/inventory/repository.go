package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpos/backoffice/pkg/db/models"
	"github.com/retailpos/backoffice/pkg/enums"
	"github.com/retailpos/backoffice/pkg/pagination"
)

// Filters narrows the stock movement ledger. Search matches the joined
// product's name and SKU case-insensitively.
type Filters struct {
	ProductID *uuid.UUID
	Type      *enums.InventoryTransactionType
	Search    string
}

// ListResult carries one page of the ledger plus the table-wide total.
type ListResult struct {
	Transactions []models.InventoryTransaction
	NextCursor   string
	Total        int64
}

// Repository wires stock-movement persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateTransaction appends a ledger row.
func (r *Repository) CreateTransaction(ctx context.Context, txn *models.InventoryTransaction) (*models.InventoryTransaction, error) {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

// List returns one filtered ledger page, newest first, with products preloaded.
func (r *Repository) List(ctx context.Context, params pagination.Params, filters Filters) (*ListResult, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.InventoryTransaction{}).Count(&total).Error; err != nil {
		return nil, err
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.InventoryTransaction{}).Preload("Product")
	if filters.ProductID != nil {
		query = query.Where("inventory_transactions.product_id = ?", *filters.ProductID)
	}
	if filters.Type != nil {
		query = query.Where("inventory_transactions.type = ?", *filters.Type)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		needle := "%" + strings.ToLower(search) + "%"
		query = query.
			Select("inventory_transactions.*").
			Joins("LEFT JOIN products ON products.id = inventory_transactions.product_id").
			Where("LOWER(COALESCE(products.name, '')) LIKE ? OR LOWER(COALESCE(products.sku, '')) LIKE ?", needle, needle)
	}
	if cursor != nil {
		query = query.Where(
			"(inventory_transactions.created_at < ?) OR (inventory_transactions.created_at = ? AND inventory_transactions.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var rows []models.InventoryTransaction
	if err := query.
		Order("inventory_transactions.created_at DESC, inventory_transactions.id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	result := &ListResult{Total: total}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	result.Transactions = rows
	return result, nil
}
