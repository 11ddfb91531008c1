package orders

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpos/backoffice/pkg/db/models"
	"github.com/retailpos/backoffice/pkg/enums"
	"github.com/retailpos/backoffice/pkg/pagination"
)

// Filters narrows the order list.
type Filters struct {
	Status *enums.OrderStatus
	Search string
}

// ListResult carries one page of orders plus the table-wide total.
type ListResult struct {
	Orders     []models.Order
	NextCursor string
	Total      int64
}

// Repository wires order persistence helpers.
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

// Create inserts the order header together with its items.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order with its items and customer for the invoice view.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Customer").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CompleteTransition moves a pending order into the given terminal status.
// Returns the number of rows updated; zero means the order is missing or no
// longer pending.
func (r *Repository) CompleteTransition(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, enums.OrderStatusPending).
		Update("status", next)
	return result.RowsAffected, result.Error
}

// List returns one filtered page of orders, newest first. Total is the
// unfiltered order count so callers can tell an empty table from an empty
// match set.
func (r *Repository) List(ctx context.Context, params pagination.Params, filters Filters) (*ListResult, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, err
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Order{}).Preload("Customer").Preload("Items")
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if needle := strings.TrimSpace(filters.Search); needle != "" {
		pattern := "%" + strings.ToLower(needle) + "%"
		query = query.
			Select("orders.*").
			Joins("LEFT JOIN customers ON customers.id = orders.customer_id").
			Where(
				"LOWER(orders.order_number) LIKE ? OR LOWER(COALESCE(customers.name, '')) LIKE ? OR LOWER(COALESCE(customers.email, '')) LIKE ?",
				pattern, pattern, pattern,
			)
	}
	if cursor != nil {
		query = query.Where(
			"(orders.created_at < ?) OR (orders.created_at = ? AND orders.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var rows []models.Order
	if err := query.
		Order("orders.created_at DESC, orders.id DESC").
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
	result.Orders = rows
	return result, nil
}
