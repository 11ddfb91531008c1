package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backoffice/pkg/enums"
)

// Order is the sale header. OrderNumber is assigned by a database trigger on
// insert, so the row must be re-read inside the creating transaction before
// it is returned to callers.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber   string              `gorm:"column:order_number;uniqueIndex"`
	CustomerID    *uuid.UUID          `gorm:"column:customer_id;type:uuid"`
	Customer      *Customer           `gorm:"foreignKey:CustomerID"`
	Status        enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'pending'"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	Notes         *string             `gorm:"column:notes"`
	CreatedBy     *uuid.UUID          `gorm:"column:created_by;type:uuid"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
