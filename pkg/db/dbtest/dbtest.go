// Package dbtest opens isolated, fully migrated in-memory stores for tests and
// seeds the directory rows most scenarios need.
package dbtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/config"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	"github.com/angelmondragon/deliverydesk-backend/pkg/migrate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Open returns a client backed by a private in-memory sqlite database with
// every migration applied.
func Open(t testing.TB) *db.Client {
	t.Helper()

	ctx := context.Background()
	cfg := config.DBConfig{
		Driver:          config.DriverSQLite,
		DSN:             fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1&_busy_timeout=5000", uuid.NewString()),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConflictRetries: 3,
		ConflictBackoff: time.Millisecond,
	}
	client, err := db.New(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.SQLDB()
	require.NoError(t, err)
	_, err = migrate.Up(ctx, config.DriverSQLite, sqlDB)
	require.NoError(t, err)

	return client
}

// Warehouse inserts an empty active warehouse.
func Warehouse(t testing.TB, client *db.Client, capacity int) models.Warehouse {
	t.Helper()
	wh := models.Warehouse{
		Name:     "WH-" + uuid.NewString()[:8],
		Location: "Harbor Road",
		Capacity: capacity,
		Status:   models.StatusFor(0, capacity),
	}
	require.NoError(t, client.DB().Create(&wh).Error)
	return wh
}

// Vendor inserts an active vendor.
func Vendor(t testing.TB, client *db.Client) models.Vendor {
	t.Helper()
	vendor := models.Vendor{
		CompanyName: "Vendor " + uuid.NewString()[:8],
		ContactName: "Ama Owusu",
		Phone:       "0240000000",
		Status:      enums.PartyStatusActive,
	}
	require.NoError(t, client.DB().Create(&vendor).Error)
	return vendor
}

// Link authorizes vendor to stock warehouse.
func Link(t testing.TB, client *db.Client, vendorID, warehouseID uuid.UUID) models.VendorWarehouse {
	t.Helper()
	link := models.VendorWarehouse{VendorID: vendorID, WarehouseID: warehouseID}
	require.NoError(t, client.DB().Create(&link).Error)
	return link
}

// Product inserts a product owned by vendor.
func Product(t testing.TB, client *db.Client, vendorID uuid.UUID) models.Product {
	t.Helper()
	product := models.Product{
		VendorID: vendorID,
		Name:     "Product " + uuid.NewString()[:8],
		Price:    decimal.NewFromInt(25),
	}
	require.NoError(t, client.DB().Create(&product).Error)
	return product
}

// Client inserts a regular client.
func Client(t testing.TB, client *db.Client) models.Client {
	t.Helper()
	c := models.Client{FullName: "Kofi Mensah", Phone: "0200000000"}
	require.NoError(t, client.DB().Create(&c).Error)
	return c
}

// Agent inserts an active agent based at warehouseID.
func Agent(t testing.TB, client *db.Client, warehouseID uuid.UUID) models.Agent {
	t.Helper()
	agent := models.Agent{
		FullName:    "Yaw Boateng",
		Email:       uuid.NewString()[:8] + "@agents.test",
		Phone:       "0550000000",
		Status:      enums.PartyStatusActive,
		WarehouseID: warehouseID,
	}
	require.NoError(t, client.DB().Create(&agent).Error)
	return agent
}

// Stock writes an inventory row and bumps the warehouse cache to match, as a
// stock registration would.
func Stock(t testing.TB, client *db.Client, vendorID, warehouseID, productID uuid.UUID, quantity int) models.InventoryItem {
	t.Helper()
	item := models.InventoryItem{
		VendorID:    vendorID,
		WarehouseID: warehouseID,
		ProductID:   productID,
		Quantity:    quantity,
	}
	require.NoError(t, client.DB().Create(&item).Error)
	require.NoError(t, client.DB().Exec(
		`UPDATE warehouses SET items = items + ?, status = CASE WHEN items + ? >= capacity THEN 'full' ELSE 'active' END WHERE id = ?`,
		quantity, quantity, warehouseID,
	).Error)
	return item
}

// Fixture is the common vendor/warehouse/product graph used by stock tests.
type Fixture struct {
	Vendor    models.Vendor
	Warehouse models.Warehouse
	Product   models.Product
}

// StockedFixture seeds a linked vendor, warehouse and product holding quantity units.
func StockedFixture(t testing.TB, client *db.Client, capacity, quantity int) Fixture {
	t.Helper()
	vendor := Vendor(t, client)
	wh := Warehouse(t, client, capacity)
	Link(t, client, vendor.ID, wh.ID)
	product := Product(t, client, vendor.ID)
	if quantity > 0 {
		Stock(t, client, vendor.ID, wh.ID, product.ID, quantity)
	}
	return Fixture{Vendor: vendor, Warehouse: wh, Product: product}
}

// WarehouseItems reloads the cached item count and status for a warehouse.
func WarehouseItems(t testing.TB, client *db.Client, warehouseID uuid.UUID) (int, enums.WarehouseStatus) {
	t.Helper()
	var wh models.Warehouse
	require.NoError(t, client.DB().First(&wh, "id = ?", warehouseID).Error)
	return wh.Items, wh.Status
}

// InventorySum returns the true sum of quantities stored at a warehouse.
func InventorySum(t testing.TB, client *db.Client, warehouseID uuid.UUID) int {
	t.Helper()
	var sum int
	require.NoError(t, client.DB().Model(&models.InventoryItem{}).
		Where("warehouse_id = ?", warehouseID).
		Select("COALESCE(SUM(quantity), 0)").Scan(&sum).Error)
	return sum
}
