package enums

import "fmt"

// InventoryTransactionType classifies a stock movement record.
type InventoryTransactionType string

const (
	InventoryTransactionTypeRestock    InventoryTransactionType = "restock"
	InventoryTransactionTypeSale       InventoryTransactionType = "sale"
	InventoryTransactionTypeAdjustment InventoryTransactionType = "adjustment"
)

var validInventoryTransactionTypes = []InventoryTransactionType{
	InventoryTransactionTypeRestock,
	InventoryTransactionTypeSale,
	InventoryTransactionTypeAdjustment,
}

// String implements fmt.Stringer.
func (t InventoryTransactionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known InventoryTransactionType.
func (t InventoryTransactionType) IsValid() bool {
	for _, candidate := range validInventoryTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsAdjustable reports whether the type can be produced by the manual
// stock-adjustment workflow. Sale records are reserved for order fulfillment.
func (t InventoryTransactionType) IsAdjustable() bool {
	return t == InventoryTransactionTypeRestock || t == InventoryTransactionTypeAdjustment
}

// ParseInventoryTransactionType converts raw input into an InventoryTransactionType.
func ParseInventoryTransactionType(value string) (InventoryTransactionType, error) {
	for _, candidate := range validInventoryTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory transaction type %q", value)
}
