package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailpos/backoffice/internal/customers"
	"github.com/retailpos/backoffice/internal/products"
	"github.com/retailpos/backoffice/pkg/db"
	"github.com/retailpos/backoffice/pkg/db/models"
	"github.com/retailpos/backoffice/pkg/enums"
	pkgerrors "github.com/retailpos/backoffice/pkg/errors"
	"github.com/retailpos/backoffice/pkg/pagination"
	"github.com/retailpos/backoffice/pkg/types"
)

// Service exposes the sales order workflow.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, params pagination.Params, filters Filters) (*OrderListDTO, error)
}

// CreateOrderItemInput is one requested line. UnitPrice is the price the
// operator confirmed at the register, which may differ from the live catalog
// price.
type CreateOrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateOrderInput holds the validated payload for a new sale. A nil
// CustomerID means a walk-in sale.
type CreateOrderInput struct {
	CustomerID    *uuid.UUID
	PaymentMethod enums.PaymentMethod
	Notes         *string
	CreatedBy     *uuid.UUID
	Items         []CreateOrderItemInput
}

type service struct {
	repo         *Repository
	customerRepo *customers.Repository
	productRepo  *products.Repository
	dbClient     *db.Client
	currency     enums.Currency
}

// NewService constructs an order service instance.
func NewService(
	repo *Repository,
	customerRepo *customers.Repository,
	productRepo *products.Repository,
	dbClient *db.Client,
	currency enums.Currency,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if customerRepo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if !currency.IsValid() {
		return nil, fmt.Errorf("invalid display currency %q", currency)
	}
	return &service{
		repo:         repo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		dbClient:     dbClient,
		currency:     currency,
	}, nil
}

func (s *service) formatMoney(amount decimal.Decimal) string {
	return types.FormatMoney(amount, s.currency)
}

// CreateOrder runs the full sale workflow in one transaction: balance debit
// (when paying from store credit), order insert, item inserts. Any step
// failing rolls all of it back.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if err := validateCreateOrder(input); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, item := range input.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	var created *models.Order
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txOrders := s.repo.WithTx(tx)
		txCustomers := s.customerRepo.WithTx(tx)
		txProducts := s.productRepo.WithTx(tx)

		productIDs := make([]uuid.UUID, 0, len(input.Items))
		for _, item := range input.Items {
			productIDs = append(productIDs, item.ProductID)
		}
		catalog, err := txProducts.FindByIDs(ctx, productIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load products")
		}
		for _, item := range input.Items {
			if _, ok := catalog[item.ProductID]; !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound,
					fmt.Sprintf("product %s not found", item.ProductID))
			}
		}

		if input.PaymentMethod == enums.PaymentMethodCustomerBalance {
			rows, err := txCustomers.DebitBalance(ctx, *input.CustomerID, total)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: debit balance")
			}
			if rows == 0 {
				customer, err := txCustomers.FindByID(ctx, *input.CustomerID)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
					}
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
				}
				return pkgerrors.New(pkgerrors.CodeValidation, "insufficient customer balance").
					WithDetails(map[string]any{
						"available": s.formatMoney(customer.Balance),
						"required":  s.formatMoney(total),
					})
			}
		} else if input.CustomerID != nil {
			if _, err := txCustomers.FindByID(ctx, *input.CustomerID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
			}
		}

		order := &models.Order{
			CustomerID:    input.CustomerID,
			Status:        enums.OrderStatusPending,
			PaymentMethod: input.PaymentMethod,
			Total:         total,
			Notes:         input.Notes,
			CreatedBy:     input.CreatedBy,
			Items:         make([]models.OrderItem, len(input.Items)),
		}
		for i, item := range input.Items {
			snapshot := catalog[item.ProductID]
			order.Items[i] = models.OrderItem{
				ProductID:   item.ProductID,
				ProductName: snapshot.Name,
				UnitPrice:   item.UnitPrice,
				Quantity:    item.Quantity,
				LineTotal:   item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
			}
		}

		if _, err := txOrders.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}

		// The order number is assigned by a database trigger, so the row
		// has to be read back before the transaction commits.
		created, err = txOrders.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	return NewOrderDTO(created, s.formatMoney), nil
}

func validateCreateOrder(input CreateOrderInput) error {
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid payment method %q", input.PaymentMethod))
	}
	if input.PaymentMethod == enums.PaymentMethodCustomerBalance && input.CustomerID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation,
			"walk-in sales cannot be paid from a customer balance")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("item %d: quantity must be positive", i))
		}
		if item.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("item %d: unit price cannot be negative", i))
		}
	}
	return nil
}

// UpdateStatus moves a pending order to completed or cancelled. Both targets
// are terminal; no stock or balance side effects are triggered here.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error) {
	if !next.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("order status can only move to completed or cancelled, not %q", next))
	}

	rows, err := s.repo.CompleteTransition(ctx, orderID, next)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
	}
	if rows == 0 {
		order, err := s.repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is already %s", order.Status)).
			WithDetails(map[string]any{"status": order.Status})
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	return NewOrderDTO(order, s.formatMoney), nil
}

// GetOrder returns the invoice payload for one order.
func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return NewOrderDTO(order, s.formatMoney), nil
}

// ListOrders returns one filtered page of orders.
func (s *service) ListOrders(ctx context.Context, params pagination.Params, filters Filters) (*OrderListDTO, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid order status %q", *filters.Status))
	}
	result, err := s.repo.List(ctx, params, filters)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	return NewOrderListDTO(result, s.formatMoney), nil
}
