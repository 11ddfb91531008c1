package reports

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/retailpos/backoffice/pkg/enums"
	pkgerrors "github.com/retailpos/backoffice/pkg/errors"
	"github.com/retailpos/backoffice/pkg/types"
)

// DashboardStatsDTO is the landing-page summary payload.
type DashboardStatsDTO struct {
	CustomerCount    int64           `json:"customer_count"`
	ProductCount     int64           `json:"product_count"`
	OrderCount       int64           `json:"order_count"`
	Revenue          decimal.Decimal `json:"revenue"`
	RevenueFormatted string          `json:"revenue_formatted"`
	LowStockCount    int64           `json:"low_stock_count"`
}

// Service exposes dashboard aggregates.
type Service interface {
	DashboardStats(ctx context.Context) (*DashboardStatsDTO, error)
}

type service struct {
	repo     *Repository
	currency enums.Currency
}

// NewService constructs a reports service instance.
func NewService(repo *Repository, currency enums.Currency) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if !currency.IsValid() {
		return nil, fmt.Errorf("invalid display currency %q", currency)
	}
	return &service{repo: repo, currency: currency}, nil
}

// DashboardStats collects the headline counters. Revenue only counts
// completed orders.
func (s *service) DashboardStats(ctx context.Context) (*DashboardStatsDTO, error) {
	stats := &DashboardStatsDTO{}
	var err error

	if stats.CustomerCount, err = s.repo.CustomerCount(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count customers")
	}
	if stats.ProductCount, err = s.repo.ProductCount(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count products")
	}
	if stats.OrderCount, err = s.repo.OrderCount(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count orders")
	}
	if stats.Revenue, err = s.repo.CompletedRevenue(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum revenue")
	}
	if stats.LowStockCount, err = s.repo.LowStockCount(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count low stock")
	}

	stats.RevenueFormatted = types.FormatMoney(stats.Revenue, s.currency)
	return stats, nil
}
