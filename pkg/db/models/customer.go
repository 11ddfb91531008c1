package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer represents a store-credit account holder. Balance is signed:
// negative means the customer owes the store. Walk-in sales carry no
// customer at all, so every order reference to this table is nullable.
type Customer struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	Email     *string         `gorm:"column:email;uniqueIndex"`
	Phone     *string         `gorm:"column:phone"`
	Address   *string         `gorm:"column:address"`
	Balance   decimal.Decimal `gorm:"column:balance;type:numeric(12,2);not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
