package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backoffice/pkg/db/models"
	"github.com/retailpos/backoffice/pkg/enums"
)

// TransactionDTO is a single stock movement returned to clients.
type TransactionDTO struct {
	ID          uuid.UUID                      `json:"id"`
	ProductID   uuid.UUID                      `json:"product_id"`
	ProductName string                         `json:"product_name,omitempty"`
	Type        enums.InventoryTransactionType `json:"type"`
	Quantity    int                            `json:"quantity"`
	Note        *string                        `json:"note,omitempty"`
	CreatedBy   *uuid.UUID                     `json:"created_by,omitempty"`
	CreatedAt   time.Time                      `json:"created_at"`
}

// AdjustmentDTO pairs the recorded movement with the resulting counter.
type AdjustmentDTO struct {
	Transaction   TransactionDTO `json:"transaction"`
	StockQuantity int            `json:"stock_quantity"`
}

// TransactionListDTO is one ledger page plus list totals.
type TransactionListDTO struct {
	Transactions []TransactionDTO `json:"transactions"`
	NextCursor   string           `json:"next_cursor,omitempty"`
	Total        int64            `json:"total"`
}

// NewTransactionDTO maps the persisted model to its API shape.
func NewTransactionDTO(txn *models.InventoryTransaction) *TransactionDTO {
	dto := &TransactionDTO{
		ID:        txn.ID,
		ProductID: txn.ProductID,
		Type:      txn.Type,
		Quantity:  txn.Quantity,
		Note:      txn.Note,
		CreatedBy: txn.CreatedBy,
		CreatedAt: txn.CreatedAt,
	}
	if txn.Product != nil {
		dto.ProductName = txn.Product.Name
	}
	return dto
}

// NewTransactionListDTO maps a repository page to its API shape.
func NewTransactionListDTO(result *ListResult) *TransactionListDTO {
	out := &TransactionListDTO{
		Transactions: make([]TransactionDTO, len(result.Transactions)),
		NextCursor:   result.NextCursor,
		Total:        result.Total,
	}
	for i := range result.Transactions {
		out.Transactions[i] = *NewTransactionDTO(&result.Transactions[i])
	}
	return out
}
