package customers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backoffice/pkg/db/models"
)

// CustomerDTO is the customer payload returned to clients.
type CustomerDTO struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     *string         `json:"email,omitempty"`
	Phone     *string         `json:"phone,omitempty"`
	Address   *string         `json:"address,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CustomerListDTO is one page of customers plus list totals.
type CustomerListDTO struct {
	Customers  []CustomerDTO `json:"customers"`
	NextCursor string        `json:"next_cursor,omitempty"`
	Total      int64         `json:"total"`
}

// NewCustomerDTO maps the persisted model to its API shape.
func NewCustomerDTO(customer *models.Customer) *CustomerDTO {
	return &CustomerDTO{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		Phone:     customer.Phone,
		Address:   customer.Address,
		Balance:   customer.Balance,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}

// NewCustomerListDTO maps a repository page to its API shape.
func NewCustomerListDTO(result *ListResult) *CustomerListDTO {
	out := &CustomerListDTO{
		Customers:  make([]CustomerDTO, len(result.Customers)),
		NextCursor: result.NextCursor,
		Total:      result.Total,
	}
	for i := range result.Customers {
		out.Customers[i] = *NewCustomerDTO(&result.Customers[i])
	}
	return out
}
