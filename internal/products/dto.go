package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backoffice/pkg/db/models"
	"github.com/retailpos/backoffice/pkg/enums"
)

// ProductDTO is the catalog payload returned to clients. StockStatus is
// derived from the live counter and threshold at read time.
type ProductDTO struct {
	ID                uuid.UUID         `json:"id"`
	Name              string            `json:"name"`
	SKU               *string           `json:"sku,omitempty"`
	Description       *string           `json:"description,omitempty"`
	Category          *string           `json:"category,omitempty"`
	Price             decimal.Decimal   `json:"price"`
	StockQuantity     int               `json:"stock_quantity"`
	LowStockThreshold int               `json:"low_stock_threshold"`
	StockStatus       enums.StockStatus `json:"stock_status"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// ProductListDTO is one page of products plus list totals.
type ProductListDTO struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
	Total      int64        `json:"total"`
}

// NewProductDTO maps the persisted model to its API shape.
func NewProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:                product.ID,
		Name:              product.Name,
		SKU:               product.SKU,
		Description:       product.Description,
		Category:          product.Category,
		Price:             product.Price,
		StockQuantity:     product.StockQuantity,
		LowStockThreshold: product.LowStockThreshold,
		StockStatus:       enums.StockStatusFor(product.StockQuantity, product.LowStockThreshold),
		CreatedAt:         product.CreatedAt,
		UpdatedAt:         product.UpdatedAt,
	}
}

// NewProductListDTO maps a repository page to its API shape.
func NewProductListDTO(result *ListResult) *ProductListDTO {
	out := &ProductListDTO{
		Products:   make([]ProductDTO, len(result.Products)),
		NextCursor: result.NextCursor,
		Total:      result.Total,
	}
	for i := range result.Products {
		out.Products[i] = *NewProductDTO(&result.Products[i])
	}
	return out
}

// NewProductDTOs maps a plain slice, used by the low-stock feed.
func NewProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, len(rows))
	for i := range rows {
		out[i] = *NewProductDTO(&rows[i])
	}
	return out
}
