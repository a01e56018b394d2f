package vendors

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/internal/warehouses"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestVendorLinks(t *testing.T) {
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), warehouses.NewRepository(client.DB()))
	require.NoError(t, err)
	ctx := context.Background()

	vendor, err := svc.Create(ctx, CreateVendorInput{CompanyName: "Acme Foods", ContactName: "Esi", Phone: "0244"})
	require.NoError(t, err)
	wh := dbtest.Warehouse(t, client, 50)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	link, err := svc.LinkWarehouse(ctx, vendor.ID, LinkWarehouseInput{WarehouseID: wh.ID, ContractStart: &start, ContractEnd: &end})
	require.NoError(t, err)
	require.Equal(t, wh.ID, link.WarehouseID)

	_, err = svc.LinkWarehouse(ctx, vendor.ID, LinkWarehouseInput{WarehouseID: wh.ID})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))

	links, err := svc.ListLinks(ctx, vendor.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)

	require.NoError(t, svc.UnlinkWarehouse(ctx, vendor.ID, wh.ID))
	err = svc.UnlinkWarehouse(ctx, vendor.ID, wh.ID)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestLinkValidation(t *testing.T) {
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), warehouses.NewRepository(client.DB()))
	require.NoError(t, err)
	ctx := context.Background()
	vendor := dbtest.Vendor(t, client)

	_, err = svc.LinkWarehouse(ctx, vendor.ID, LinkWarehouseInput{WarehouseID: uuid.New()})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	_, err = svc.LinkWarehouse(ctx, uuid.New(), LinkWarehouseInput{WarehouseID: uuid.New()})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	start := time.Now()
	end := start.Add(-time.Hour)
	_, err = svc.LinkWarehouse(ctx, vendor.ID, LinkWarehouseInput{WarehouseID: uuid.New(), ContractStart: &start, ContractEnd: &end})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestUnlinkRejectedWhileStocked(t *testing.T) {
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), warehouses.NewRepository(client.DB()))
	require.NoError(t, err)
	fx := dbtest.StockedFixture(t, client, 100, 4)

	err = svc.UnlinkWarehouse(context.Background(), fx.Vendor.ID, fx.Warehouse.ID)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}
