package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/angelmondragon/deliverydesk-backend/internal/products"
	"github.com/angelmondragon/deliverydesk-backend/internal/vendors"
	"github.com/angelmondragon/deliverydesk-backend/internal/warehouses"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/dbtest"
	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/angelmondragon/deliverydesk-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(ServiceParams{
		Tx:            client,
		Repo:          NewRepository(client.DB()),
		WarehouseRepo: warehouses.NewRepository(client.DB()),
		VendorRepo:    vendors.NewRepository(client.DB()),
		ProductRepo:   products.NewRepository(client.DB()),
	})
	require.NoError(t, err)
	return svc, client
}

func keyOf(f dbtest.Fixture) Key {
	return Key{VendorID: f.Vendor.ID, WarehouseID: f.Warehouse.ID, ProductID: f.Product.ID}
}

func requireItemsInSync(t *testing.T, client *db.Client, warehouseID uuid.UUID) int {
	t.Helper()
	items, _ := dbtest.WarehouseItems(t, client, warehouseID)
	require.Equal(t, dbtest.InventorySum(t, client, warehouseID), items)
	return items
}

func TestGetQuantityMissingRowIsZero(t *testing.T) {
	svc, client := newTestService(t)
	f := dbtest.StockedFixture(t, client, 100, 0)

	qty, err := svc.GetQuantity(context.Background(), keyOf(f))
	require.NoError(t, err)
	require.Zero(t, qty)

	_, err = svc.GetQuantity(context.Background(), Key{})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestItemsTrackInventoryAcrossMutations(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	f := dbtest.StockedFixture(t, client, 100, 0)
	second := dbtest.Product(t, client, f.Vendor.ID)
	key := keyOf(f)
	otherKey := Key{VendorID: f.Vendor.ID, WarehouseID: f.Warehouse.ID, ProductID: second.ID}

	require.NoError(t, svc.Increment(ctx, key, 10))
	require.Equal(t, 10, requireItemsInSync(t, client, f.Warehouse.ID))

	require.NoError(t, svc.Increment(ctx, otherKey, 7))
	require.Equal(t, 17, requireItemsInSync(t, client, f.Warehouse.ID))

	require.NoError(t, svc.ReserveAndDecrement(ctx, key, 4))
	require.Equal(t, 13, requireItemsInSync(t, client, f.Warehouse.ID))

	page, err := svc.List(ctx, ListFilters{ProductID: &key.ProductID})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	updated, err := svc.SetQuantity(ctx, page.Items[0].ID, 9)
	require.NoError(t, err)
	require.Equal(t, 9, updated.Quantity)
	require.Equal(t, 16, requireItemsInSync(t, client, f.Warehouse.ID))

	_, err = svc.SetQuantity(ctx, page.Items[0].ID, 0)
	require.NoError(t, err)
	require.Equal(t, 7, requireItemsInSync(t, client, f.Warehouse.ID))
}

func TestWarehouseStatusFollowsCapacity(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	f := dbtest.StockedFixture(t, client, 10, 0)

	require.NoError(t, svc.Increment(ctx, keyOf(f), 10))
	_, status := dbtest.WarehouseItems(t, client, f.Warehouse.ID)
	require.Equal(t, enums.WarehouseStatusFull, status)

	require.NoError(t, svc.ReserveAndDecrement(ctx, keyOf(f), 1))
	_, status = dbtest.WarehouseItems(t, client, f.Warehouse.ID)
	require.Equal(t, enums.WarehouseStatusActive, status)
}

func TestReserveAndDecrementRejectsShortfall(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	f := dbtest.StockedFixture(t, client, 100, 5)

	err := svc.ReserveAndDecrement(ctx, keyOf(f), 6)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock))
	details, ok := pkgerrors.As(err).Details().(map[string]any)
	require.True(t, ok)
	lines := details["lines"].([]Shortage)
	require.Equal(t, []Shortage{{ProductID: f.Product.ID, Requested: 6, Available: 5, Reason: ReasonInsufficient}}, lines)

	qty, err := svc.GetQuantity(ctx, keyOf(f))
	require.NoError(t, err)
	require.Equal(t, 5, qty)
	require.Equal(t, 5, requireItemsInSync(t, client, f.Warehouse.ID))

	missing := keyOf(f)
	missing.ProductID = dbtest.Product(t, client, f.Vendor.ID).ID
	err = svc.ReserveAndDecrement(ctx, missing, 1)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock))

	err = svc.ReserveAndDecrement(ctx, keyOf(f), 0)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestIncrementThenDecrementRoundTrips(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	f := dbtest.StockedFixture(t, client, 100, 12)

	require.NoError(t, svc.Increment(ctx, keyOf(f), 30))
	require.NoError(t, svc.ReserveAndDecrement(ctx, keyOf(f), 30))

	qty, err := svc.GetQuantity(ctx, keyOf(f))
	require.NoError(t, err)
	require.Equal(t, 12, qty)
	require.Equal(t, 12, requireItemsInSync(t, client, f.Warehouse.ID))
}

func TestIncrementRequiresLinkAndOwnership(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	f := dbtest.StockedFixture(t, client, 100, 0)

	unlinked := dbtest.Warehouse(t, client, 100)
	err := svc.Increment(ctx, Key{VendorID: f.Vendor.ID, WarehouseID: unlinked.ID, ProductID: f.Product.ID}, 3)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))

	rival := dbtest.Vendor(t, client)
	foreign := dbtest.Product(t, client, rival.ID)
	err = svc.Increment(ctx, Key{VendorID: f.Vendor.ID, WarehouseID: f.Warehouse.ID, ProductID: foreign.ID}, 3)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	err = svc.Increment(ctx, Key{VendorID: f.Vendor.ID, WarehouseID: f.Warehouse.ID, ProductID: uuid.New()}, 3)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	require.Zero(t, requireItemsInSync(t, client, f.Warehouse.ID))
	require.Zero(t, requireItemsInSync(t, client, unlinked.ID))
}

func TestSetQuantityValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetQuantity(ctx, uuid.New(), 3)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	_, err = svc.SetQuantity(ctx, uuid.New(), -1)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestConcurrentDecrementsNeverOversell(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	f := dbtest.StockedFixture(t, client, 100, 10)

	const workers = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.ReserveAndDecrement(ctx, keyOf(f), 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, workers-10, rejected)
	qty, err := svc.GetQuantity(ctx, keyOf(f))
	require.NoError(t, err)
	require.Zero(t, qty)
	require.Zero(t, requireItemsInSync(t, client, f.Warehouse.ID))
}

func TestReconcileRepairsDrift(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	f := dbtest.StockedFixture(t, client, 100, 8)
	clean := dbtest.StockedFixture(t, client, 100, 3)

	require.NoError(t, client.DB().Exec("UPDATE warehouses SET items = 999, status = 'full' WHERE id = ?", f.Warehouse.ID).Error)

	drifts, err := svc.Reconcile(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, []Drift{{WarehouseID: f.Warehouse.ID, CachedItems: 999, ActualItems: 8}}, drifts)

	items, status := dbtest.WarehouseItems(t, client, f.Warehouse.ID)
	require.Equal(t, 8, items)
	require.Equal(t, enums.WarehouseStatusActive, status)

	drifts, err = svc.Reconcile(ctx, &clean.Warehouse.ID)
	require.NoError(t, err)
	require.Empty(t, drifts)

	missing := uuid.New()
	_, err = svc.Reconcile(ctx, &missing)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestListPaginatesNewestFirst(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	f := dbtest.StockedFixture(t, client, 100, 1)
	for i := 0; i < 2; i++ {
		p := dbtest.Product(t, client, f.Vendor.ID)
		require.NoError(t, svc.Increment(ctx, Key{VendorID: f.Vendor.ID, WarehouseID: f.Warehouse.ID, ProductID: p.ID}, i+2))
	}
	other := dbtest.StockedFixture(t, client, 100, 4)

	first, err := svc.List(ctx, ListFilters{VendorID: &f.Vendor.ID, Pagination: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.NextCursor)
	require.Equal(t, f.Vendor.CompanyName, first.Items[0].VendorName)
	require.Equal(t, f.Warehouse.Name, first.Items[0].WarehouseName)

	second, err := svc.List(ctx, ListFilters{VendorID: &f.Vendor.ID, Pagination: pagination.Params{Limit: 2, Cursor: first.NextCursor}})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	require.Empty(t, second.NextCursor)

	seen := map[uuid.UUID]bool{}
	for _, item := range append(first.Items, second.Items...) {
		require.False(t, seen[item.ID])
		seen[item.ID] = true
		require.Equal(t, f.Vendor.ID, item.VendorID)
	}

	byWarehouse, err := svc.List(ctx, ListFilters{WarehouseID: &other.Warehouse.ID})
	require.NoError(t, err)
	require.Len(t, byWarehouse.Items, 1)
	require.Equal(t, 4, byWarehouse.Items[0].Quantity)

	_, err = svc.List(ctx, ListFilters{Pagination: pagination.Params{Cursor: "%%%"}})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
