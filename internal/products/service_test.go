package products

import (
	"context"
	"testing"

	"github.com/angelmondragon/deliverydesk-backend/internal/vendors"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct(t *testing.T) {
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), vendors.NewRepository(client.DB()))
	require.NoError(t, err)
	ctx := context.Background()
	vendor := dbtest.Vendor(t, client)

	sku := " rice-5kg "
	created, err := svc.Create(ctx, CreateProductInput{VendorID: vendor.ID, Name: "Rice 5kg", Price: decimal.RequireFromString("42.50"), SKU: &sku})
	require.NoError(t, err)
	require.Equal(t, "RICE-5KG", *created.SKU)

	_, err = svc.Create(ctx, CreateProductInput{VendorID: vendor.ID, Name: "Rice again", SKU: &sku})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))

	// products without a sku never collide
	_, err = svc.Create(ctx, CreateProductInput{VendorID: vendor.ID, Name: "Oil"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateProductInput{VendorID: vendor.ID, Name: "Salt"})
	require.NoError(t, err)

	list, err := svc.ListByVendor(ctx, vendor.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, got.Price.Equal(decimal.RequireFromString("42.5")))
}

func TestCreateProductValidation(t *testing.T) {
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), vendors.NewRepository(client.DB()))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Create(ctx, CreateProductInput{VendorID: uuid.New(), Name: "Ghost"})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Create(ctx, CreateProductInput{VendorID: uuid.New(), Name: "Neg", Price: decimal.NewFromInt(-1)})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.Get(ctx, uuid.New())
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}
