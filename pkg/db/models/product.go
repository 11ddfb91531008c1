package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold applies when a product is created without an
// explicit reorder point.
const DefaultLowStockThreshold = 10

// Product represents a sellable catalog item with its live stock counter.
// SKU is optional; the unique index only constrains rows that have one.
type Product struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string          `gorm:"column:name;not null"`
	SKU               *string         `gorm:"column:sku;uniqueIndex"`
	Description       *string         `gorm:"column:description"`
	Category          *string         `gorm:"column:category"`
	Price             decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	StockQuantity     int             `gorm:"column:stock_quantity;not null;default:0"`
	LowStockThreshold int             `gorm:"column:low_stock_threshold;not null;default:10"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
