package routes

import (
	"fmt"

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
	"github.com/angelmondragon/deliverydesk-backend/pkg/idgen"
	"github.com/angelmondragon/deliverydesk-backend/pkg/logger"
	"github.com/angelmondragon/deliverydesk-backend/pkg/metrics"
	"github.com/angelmondragon/deliverydesk-backend/pkg/security"
)

// BuildServices wires repositories and services over one database client.
func BuildServices(cfg *config.Config, logg *logger.Logger, client *db.Client, opMetrics *metrics.OperationMetrics) (Services, error) {
	conn := client.DB()

	ids, err := idgen.New(cfg.IDs.SnowflakeNode)
	if err != nil {
		return Services{}, fmt.Errorf("id generator: %w", err)
	}
	hasher, err := security.NewPasswordHasher(cfg.Password)
	if err != nil {
		return Services{}, fmt.Errorf("password hasher: %w", err)
	}

	warehouseRepo := warehouses.NewRepository(conn)
	vendorRepo := vendors.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	clientRepo := clients.NewRepository(conn)
	agentRepo := agents.NewRepository(conn)

	var out Services

	userRepo := users.NewRepository(conn)
	if out.Auth, err = auth.NewService(userRepo, hasher); err != nil {
		return Services{}, fmt.Errorf("auth service: %w", err)
	}
	if out.Users, err = users.NewService(userRepo, hasher); err != nil {
		return Services{}, fmt.Errorf("user service: %w", err)
	}
	if out.Warehouses, err = warehouses.NewService(warehouseRepo); err != nil {
		return Services{}, fmt.Errorf("warehouse service: %w", err)
	}
	if out.Vendors, err = vendors.NewService(vendorRepo, warehouseRepo); err != nil {
		return Services{}, fmt.Errorf("vendor service: %w", err)
	}
	if out.Products, err = products.NewService(productRepo, vendorRepo); err != nil {
		return Services{}, fmt.Errorf("product service: %w", err)
	}
	if out.Clients, err = clients.NewService(clientRepo); err != nil {
		return Services{}, fmt.Errorf("client service: %w", err)
	}
	if out.Agents, err = agents.NewService(agentRepo, warehouseRepo); err != nil {
		return Services{}, fmt.Errorf("agent service: %w", err)
	}

	out.Inventory, err = inventory.NewService(inventory.ServiceParams{
		Tx:            client,
		Repo:          inventory.NewRepository(conn),
		WarehouseRepo: warehouseRepo,
		VendorRepo:    vendorRepo,
		ProductRepo:   productRepo,
		Metrics:       opMetrics,
		Logger:        logg,
	})
	if err != nil {
		return Services{}, fmt.Errorf("inventory service: %w", err)
	}

	out.Orders, err = orders.NewService(orders.ServiceParams{
		Tx:            client,
		Repo:          orders.NewRepository(conn),
		Inventory:     out.Inventory,
		VendorRepo:    vendorRepo,
		WarehouseRepo: warehouseRepo,
		ProductRepo:   productRepo,
		ClientRepo:    clientRepo,
		AgentRepo:     agentRepo,
		Numbers:       ids,
		Metrics:       opMetrics,
		Logger:        logg,
	})
	if err != nil {
		return Services{}, fmt.Errorf("order service: %w", err)
	}

	out.Transfers, err = transfers.NewService(transfers.ServiceParams{
		Tx:            client,
		Repo:          transfers.NewRepository(conn),
		Inventory:     out.Inventory,
		VendorRepo:    vendorRepo,
		WarehouseRepo: warehouseRepo,
		References:    ids,
		Metrics:       opMetrics,
		Logger:        logg,
	})
	if err != nil {
		return Services{}, fmt.Errorf("transfer service: %w", err)
	}

	out.Remittances, err = remittances.NewService(remittances.ServiceParams{
		Tx:         client,
		Repo:       remittances.NewRepository(conn),
		VendorRepo: vendorRepo,
		ClientRepo: clientRepo,
		References: ids,
		Metrics:    opMetrics,
		Logger:     logg,
	})
	if err != nil {
		return Services{}, fmt.Errorf("remittance service: %w", err)
	}

	out.Accounting, err = accounting.NewService(accounting.ServiceParams{
		Tx:      client,
		Repo:    accounting.NewRepository(conn),
		Weeks:   cfg.Stats.Weeks,
		Months:  cfg.Stats.Months,
		Metrics: opMetrics,
		Logger:  logg,
	})
	if err != nil {
		return Services{}, fmt.Errorf("accounting service: %w", err)
	}

	return out, nil
}
