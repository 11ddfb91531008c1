package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/retailpos/backoffice/api/controllers"
	"github.com/retailpos/backoffice/api/middleware"
	authsvc "github.com/retailpos/backoffice/internal/auth"
	customersvc "github.com/retailpos/backoffice/internal/customers"
	inventorysvc "github.com/retailpos/backoffice/internal/inventory"
	ordersvc "github.com/retailpos/backoffice/internal/orders"
	productsvc "github.com/retailpos/backoffice/internal/products"
	reportsvc "github.com/retailpos/backoffice/internal/reports"
	"github.com/retailpos/backoffice/pkg/auth/session"
	"github.com/retailpos/backoffice/pkg/config"
	"github.com/retailpos/backoffice/pkg/logger"
	"github.com/retailpos/backoffice/pkg/metrics"
	pkgredis "github.com/retailpos/backoffice/pkg/redis"
)

// Services bundles every domain service the router exposes.
type Services struct {
	Auth      authsvc.Service
	Customers customersvc.Service
	Products  productsvc.Service
	Orders    ordersvc.Service
	Inventory inventorysvc.Service
	Reports   reportsvc.Service
}

// Dependencies carries the infrastructure the middleware chain needs.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *pkgredis.Client
	Sessions    session.AccessSessionChecker
	HTTPMetrics *metrics.HTTPMetrics
	MetricsHTTP http.Handler
}

// NewRouter assembles the full HTTP surface.
func NewRouter(deps Dependencies, svcs Services) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.MetricsHTTP != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHTTP)
	} else {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(svcs.Auth, logg))
		r.Post("/refresh", controllers.Refresh(svcs.Auth, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Post("/logout", controllers.Logout(svcs.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(svcs.Customers, logg))
			r.Post("/", controllers.CreateCustomer(svcs.Customers, logg))
			r.Get("/{customerId}", controllers.GetCustomer(svcs.Customers, logg))
			r.Patch("/{customerId}", controllers.UpdateCustomer(svcs.Customers, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Products, logg))
			r.Post("/", controllers.CreateProduct(svcs.Products, logg))
			r.Get("/low-stock", controllers.ListLowStock(svcs.Products, logg))
			r.Get("/categories", controllers.ListProductCategories(svcs.Products, logg))
			r.Get("/{productId}", controllers.GetProduct(svcs.Products, logg))
			r.Patch("/{productId}", controllers.UpdateProduct(svcs.Products, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(svcs.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(svcs.Orders, logg))
			r.Post("/", controllers.CreateOrder(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(svcs.Orders, logg))
			r.Post("/{orderId}/status", controllers.UpdateOrderStatus(svcs.Orders, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/adjustments", controllers.AdjustStock(svcs.Inventory, logg))
			r.Get("/transactions", controllers.ListInventoryTransactions(svcs.Inventory, logg))
		})

		r.Get("/dashboard/stats", controllers.DashboardStats(svcs.Reports, logg))
	})

	return r
}
