package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backoffice/pkg/db/models"
	"github.com/retailpos/backoffice/pkg/enums"
)

// OrderItemDTO is one invoice line. ProductName and UnitPrice are the
// snapshots taken at sale time.
type OrderItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderCustomerDTO is the customer summary embedded in order payloads.
type OrderCustomerDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email *string   `json:"email,omitempty"`
	Phone *string   `json:"phone,omitempty"`
}

// OrderDTO is the invoice payload. Customer is nil for walk-in sales.
type OrderDTO struct {
	ID             uuid.UUID           `json:"id"`
	OrderNumber    string              `json:"order_number"`
	Customer       *OrderCustomerDTO   `json:"customer,omitempty"`
	Status         enums.OrderStatus   `json:"status"`
	PaymentMethod  enums.PaymentMethod `json:"payment_method"`
	Total          decimal.Decimal     `json:"total"`
	TotalFormatted string              `json:"total_formatted"`
	Notes          *string             `json:"notes,omitempty"`
	Items          []OrderItemDTO      `json:"items"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// OrderListDTO is one page of orders plus list totals.
type OrderListDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
	Total      int64      `json:"total"`
}

func newOrderItemDTO(item *models.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		UnitPrice:   item.UnitPrice,
		Quantity:    item.Quantity,
		LineTotal:   item.LineTotal,
	}
}

// NewOrderDTO maps the persisted order to its API shape. The formatted total
// uses the single configured display currency so every surface agrees.
func NewOrderDTO(order *models.Order, format func(decimal.Decimal) string) *OrderDTO {
	dto := &OrderDTO{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		Total:         order.Total,
		Notes:         order.Notes,
		Items:         make([]OrderItemDTO, len(order.Items)),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if format != nil {
		dto.TotalFormatted = format(order.Total)
	}
	if order.Customer != nil {
		dto.Customer = &OrderCustomerDTO{
			ID:    order.Customer.ID,
			Name:  order.Customer.Name,
			Email: order.Customer.Email,
			Phone: order.Customer.Phone,
		}
	}
	for i := range order.Items {
		dto.Items[i] = newOrderItemDTO(&order.Items[i])
	}
	return dto
}

// NewOrderListDTO maps a repository page to its API shape.
func NewOrderListDTO(result *ListResult, format func(decimal.Decimal) string) *OrderListDTO {
	out := &OrderListDTO{
		Orders:     make([]OrderDTO, len(result.Orders)),
		NextCursor: result.NextCursor,
		Total:      result.Total,
	}
	for i := range result.Orders {
		out.Orders[i] = *NewOrderDTO(&result.Orders[i], format)
	}
	return out
}
