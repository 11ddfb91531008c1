package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpos/backoffice/internal/products"
	"github.com/retailpos/backoffice/pkg/db"
	"github.com/retailpos/backoffice/pkg/db/models"
	"github.com/retailpos/backoffice/pkg/enums"
	pkgerrors "github.com/retailpos/backoffice/pkg/errors"
	"github.com/retailpos/backoffice/pkg/pagination"
)

// Service exposes manual stock adjustment and ledger reads.
type Service interface {
	Adjust(ctx context.Context, input AdjustInput) (*AdjustmentDTO, error)
	ListTransactions(ctx context.Context, params pagination.Params, filters Filters) (*TransactionListDTO, error)
}

// AdjustInput holds the validated payload for a manual stock movement.
// Quantity is a signed delta.
type AdjustInput struct {
	ProductID uuid.UUID
	Type      enums.InventoryTransactionType
	Quantity  int
	Note      *string
	CreatedBy *uuid.UUID
}

type service struct {
	repo        *Repository
	productRepo *products.Repository
	dbClient    *db.Client
}

// NewService constructs an inventory service instance.
func NewService(repo *Repository, productRepo *products.Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, productRepo: productRepo, dbClient: dbClient}, nil
}

// Adjust records the movement and moves the counter in one transaction.
// Either both writes land or neither does.
func (s *service) Adjust(ctx context.Context, input AdjustInput) (*AdjustmentDTO, error) {
	if !input.Type.IsAdjustable() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("transaction type %q cannot be recorded manually", input.Type))
	}
	if input.Quantity == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-zero")
	}
	if input.Type == enums.InventoryTransactionTypeRestock && input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restock quantity must be positive")
	}

	var recorded *models.InventoryTransaction
	var newQuantity int
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txProducts := s.productRepo.WithTx(tx)
		txLedger := s.repo.WithTx(tx)

		rows, err := txProducts.AdjustStock(ctx, input.ProductID, input.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: adjust stock")
		}
		if rows == 0 {
			product, err := txProducts.FindByID(ctx, input.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "adjustment would take stock below zero").
				WithDetails(map[string]any{
					"stock_quantity": product.StockQuantity,
					"requested":      input.Quantity,
				})
		}

		txn := &models.InventoryTransaction{
			ProductID: input.ProductID,
			Type:      input.Type,
			Quantity:  input.Quantity,
			Note:      input.Note,
			CreatedBy: input.CreatedBy,
		}
		if _, err := txLedger.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert inventory transaction")
		}
		recorded = txn

		product, err := txProducts.FindByID(ctx, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
		}
		newQuantity = product.StockQuantity
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust inventory")
	}

	return &AdjustmentDTO{
		Transaction:   *NewTransactionDTO(recorded),
		StockQuantity: newQuantity,
	}, nil
}

// ListTransactions returns one filtered ledger page.
func (s *service) ListTransactions(ctx context.Context, params pagination.Params, filters Filters) (*TransactionListDTO, error) {
	if filters.Type != nil && !filters.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid transaction type %q", *filters.Type))
	}
	result, err := s.repo.List(ctx, params, filters)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list inventory transactions")
	}
	return NewTransactionListDTO(result), nil
}
