package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/deliverydesk-backend/api/controllers"
	accountingcontrollers "github.com/angelmondragon/deliverydesk-backend/api/controllers/accounting"
	inventorycontrollers "github.com/angelmondragon/deliverydesk-backend/api/controllers/inventory"
	ordercontrollers "github.com/angelmondragon/deliverydesk-backend/api/controllers/orders"
	remittancecontrollers "github.com/angelmondragon/deliverydesk-backend/api/controllers/remittances"
	transfercontrollers "github.com/angelmondragon/deliverydesk-backend/api/controllers/transfers"
	"github.com/angelmondragon/deliverydesk-backend/api/middleware"
	"github.com/angelmondragon/deliverydesk-backend/internal/accounting"
	"github.com/angelmondragon/deliverydesk-backend/internal/agents"
	"github.com/angelmondragon/deliverydesk-backend/internal/auth"
	"github.com/angelmondragon/deliverydesk-backend/internal/clients"
	"github.com/angelmondragon/deliverydesk-backend/internal/inventory"
	"github.com/angelmondragon/deliverydesk-backend/internal/orders"
	"github.com/angelmondragon/deliverydesk-backend/internal/products"
	"github.com/angelmondragon/deliverydesk-backend/internal/remittances"
	"github.com/angelmondragon/deliverydesk-backend/internal/transfers"
	"github.com/angelmondragon/deliverydesk-backend/internal/users"
	"github.com/angelmondragon/deliverydesk-backend/internal/vendors"
	"github.com/angelmondragon/deliverydesk-backend/internal/warehouses"
	"github.com/angelmondragon/deliverydesk-backend/pkg/config"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db"
	"github.com/angelmondragon/deliverydesk-backend/pkg/logger"
)

// Services bundles the domain services exposed over HTTP.
type Services struct {
	Auth        auth.Service
	Users       users.Service
	Warehouses  warehouses.Service
	Vendors     vendors.Service
	Products    products.Service
	Clients     clients.Service
	Agents      agents.Service
	Inventory   inventory.Service
	Orders      orders.Service
	Transfers   transfers.Service
	Remittances remittances.Service
	Accounting  accounting.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	metricsHandler http.Handler,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/verify", controllers.AuthVerify(svc.Auth, logg))
		r.Post("/users", controllers.UserCreate(svc.Users, logg))

		r.Route("/warehouses", func(r chi.Router) {
			r.Get("/", controllers.WarehouseList(svc.Warehouses, logg))
			r.Post("/", controllers.WarehouseCreate(svc.Warehouses, logg))
			r.Post("/reconcile", inventorycontrollers.Reconcile(svc.Inventory, logg))
			r.Get("/{warehouseId}", controllers.WarehouseDetail(svc.Warehouses, logg))
		})

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", controllers.VendorList(svc.Vendors, logg))
			r.Post("/", controllers.VendorCreate(svc.Vendors, logg))
			r.Get("/{vendorId}", controllers.VendorDetail(svc.Vendors, logg))
			r.Get("/{vendorId}/products", controllers.VendorProducts(svc.Products, logg))
			r.Get("/{vendorId}/warehouses", controllers.VendorLinks(svc.Vendors, logg))
			r.Post("/{vendorId}/warehouses", controllers.VendorLinkWarehouse(svc.Vendors, logg))
			r.Delete("/{vendorId}/warehouses/{warehouseId}", controllers.VendorUnlinkWarehouse(svc.Vendors, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductCreate(svc.Products, logg))
			r.Get("/{productId}", controllers.ProductDetail(svc.Products, logg))
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ClientList(svc.Clients, logg))
			r.Post("/", controllers.ClientCreate(svc.Clients, logg))
			r.Get("/{clientId}", controllers.ClientDetail(svc.Clients, logg))
		})

		r.Route("/agents", func(r chi.Router) {
			r.Get("/", controllers.AgentList(svc.Agents, logg))
			r.Post("/", controllers.AgentCreate(svc.Agents, logg))
			r.Get("/{agentId}", controllers.AgentDetail(svc.Agents, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", inventorycontrollers.List(svc.Inventory, logg))
			r.Post("/stock", inventorycontrollers.AddStock(svc.Inventory, logg))
			r.Put("/{inventoryId}", inventorycontrollers.SetQuantity(svc.Inventory, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(svc.Orders, logg))
			r.Post("/vendor", ordercontrollers.CreateVendorOrder(svc.Orders, logg))
			r.Post("/client", ordercontrollers.CreateClientOrder(svc.Orders, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(svc.Orders, logg))
			r.Patch("/{orderId}/status", ordercontrollers.UpdateStatus(svc.Orders, logg))
			r.Patch("/{orderId}/agent", ordercontrollers.AssignAgent(svc.Orders, logg))
			r.Post("/{orderId}/collections", ordercontrollers.RecordCollection(svc.Orders, logg))
			r.Delete("/{orderId}", ordercontrollers.Delete(svc.Orders, logg))
		})

		r.Route("/transfers", func(r chi.Router) {
			r.Get("/", transfercontrollers.List(svc.Transfers, logg))
			r.Post("/", transfercontrollers.Create(svc.Transfers, logg))
			r.Get("/{transferId}", transfercontrollers.Detail(svc.Transfers, logg))
		})

		r.Route("/remittances", func(r chi.Router) {
			r.Get("/", remittancecontrollers.List(svc.Remittances, logg))
			r.Post("/", remittancecontrollers.Compute(svc.Remittances, logg))
			r.Get("/{remittanceId}", remittancecontrollers.Detail(svc.Remittances, logg))
			r.Post("/{remittanceId}/payments", remittancecontrollers.RecordPayment(svc.Remittances, logg))
		})

		r.Route("/accounting", func(r chi.Router) {
			r.Get("/summary", accountingcontrollers.Summary(svc.Accounting, logg))
			r.Get("/performance", accountingcontrollers.Performance(svc.Accounting, logg))
			r.Get("/expenses", accountingcontrollers.ListExpenses(svc.Accounting, logg))
			r.Post("/expenses", accountingcontrollers.RecordExpense(svc.Accounting, logg))
		})
	})

	return r
}
