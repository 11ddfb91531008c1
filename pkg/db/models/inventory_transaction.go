package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backoffice/pkg/enums"
)

// InventoryTransaction is the append-only stock movement ledger. Quantity is
// a signed delta: positive for restocks, negative for sales and shrinkage.
type InventoryTransaction struct {
	ID        uuid.UUID                      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID                      `gorm:"column:product_id;type:uuid;not null;index"`
	Product   *Product                       `gorm:"foreignKey:ProductID"`
	Type      enums.InventoryTransactionType `gorm:"column:type;type:inventory_transaction_type;not null"`
	Quantity  int                            `gorm:"column:quantity;not null"`
	Note      *string                        `gorm:"column:note"`
	CreatedBy *uuid.UUID                     `gorm:"column:created_by;type:uuid"`
	CreatedAt time.Time                      `gorm:"column:created_at;autoCreateTime"`
}
