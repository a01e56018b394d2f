package remittances

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/internal/clients"
	"github.com/angelmondragon/deliverydesk-backend/internal/vendors"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/dbtest"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/angelmondragon/deliverydesk-backend/pkg/idgen"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(ServiceParams{
		Tx:         client,
		Repo:       NewRepository(client.DB()),
		VendorRepo: vendors.NewRepository(client.DB()),
		ClientRepo: clients.NewRepository(client.DB()),
		References: idgen.Must(3),
	})
	require.NoError(t, err)
	return svc, client
}

func seedVendorOrder(t *testing.T, client *db.Client, f dbtest.Fixture, cost int64, status enums.OrderStatus) models.DeliveryOrder {
	t.Helper()
	order := models.DeliveryOrder{
		OrderNumber:    "ORD-" + uuid.NewString()[:8],
		Kind:           enums.OrderKindVendor,
		VendorID:       &f.Vendor.ID,
		ProductID:      &f.Product.ID,
		WarehouseID:    &f.Warehouse.ID,
		Quantity:       1,
		Destination:    "Tema",
		Cost:           decimal.NewFromInt(cost),
		AmountReceived: decimal.Zero,
		Status:         status,
	}
	require.NoError(t, client.DB().Create(&order).Error)
	return order
}

func period() (time.Time, time.Time) {
	now := time.Now().UTC()
	return now.Add(-24 * time.Hour), now.Add(24 * time.Hour)
}

func TestComputeAndPayUntilPaid(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	f := dbtest.StockedFixture(t, client, 100, 0)
	o1 := seedVendorOrder(t, client, f, 600, enums.OrderStatusCompleted)
	o2 := seedVendorOrder(t, client, f, 400, enums.OrderStatusCompleted)
	start, end := period()

	rem, err := svc.Compute(ctx, ComputeInput{
		PartyType:       enums.PartyTypeVendor,
		PartyID:         f.Vendor.ID,
		PeriodStart:     start,
		PeriodEnd:       end,
		OrderIDs:        []uuid.UUID{o1.ID, o2.ID},
		ExpectedAmounts: []decimal.Decimal{decimal.NewFromInt(600), decimal.NewFromInt(400)},
	})
	require.NoError(t, err)
	require.Equal(t, enums.RemittanceStatusPending, rem.Status)
	require.True(t, rem.TotalCharged.Equal(decimal.NewFromInt(1000)))
	require.True(t, rem.TotalReceived.IsZero())
	require.Regexp(t, `^REM-`, rem.Reference)

	method := "Mobile_Money"
	rem, err = svc.RecordPayment(ctx, rem.ID, RecordPaymentInput{Amount: decimal.NewFromInt(700), Method: &method})
	require.NoError(t, err)
	require.Equal(t, enums.RemittanceStatusPending, rem.Status)
	require.Equal(t, enums.PaymentMethodMobileMoney, *rem.Payments[0].Method)

	rem, err = svc.RecordPayment(ctx, rem.ID, RecordPaymentInput{Amount: decimal.NewFromInt(300)})
	require.NoError(t, err)
	require.Equal(t, enums.RemittanceStatusPaid, rem.Status)
	require.NotNil(t, rem.PaidAt)
	paidAt := *rem.PaidAt

	rem, err = svc.RecordPayment(ctx, rem.ID, RecordPaymentInput{Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)
	require.Equal(t, enums.RemittanceStatusPaid, rem.Status)
	require.True(t, rem.TotalReceived.Equal(decimal.NewFromInt(1050)))
	require.Len(t, rem.Payments, 3)
	require.True(t, paidAt.Equal(*rem.PaidAt))
	require.Len(t, rem.Orders, 2)
}

func TestComputeRejections(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	f := dbtest.StockedFixture(t, client, 100, 0)
	rival := dbtest.StockedFixture(t, client, 100, 0)
	own := seedVendorOrder(t, client, f, 100, enums.OrderStatusCompleted)
	foreign := seedVendorOrder(t, client, rival, 100, enums.OrderStatusCompleted)
	cancelled := seedVendorOrder(t, client, f, 100, enums.OrderStatusCancelled)
	start, end := period()

	input := func(ids ...uuid.UUID) ComputeInput {
		amounts := make([]decimal.Decimal, len(ids))
		for i := range amounts {
			amounts[i] = decimal.NewFromInt(100)
		}
		return ComputeInput{PartyType: enums.PartyTypeVendor, PartyID: f.Vendor.ID, PeriodStart: start, PeriodEnd: end, OrderIDs: ids, ExpectedAmounts: amounts}
	}

	misaligned := input(own.ID)
	misaligned.ExpectedAmounts = nil
	_, err := svc.Compute(ctx, misaligned)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.Compute(ctx, input(foreign.ID))
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.Compute(ctx, input(uuid.New()))
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Compute(ctx, input(cancelled.ID))
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))

	outside := input(own.ID)
	outside.PeriodStart = start.Add(-72 * time.Hour)
	outside.PeriodEnd = start.Add(-48 * time.Hour)
	_, err = svc.Compute(ctx, outside)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	wrongParty := input(own.ID)
	wrongParty.PartyID = uuid.New()
	_, err = svc.Compute(ctx, wrongParty)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Compute(ctx, input(own.ID))
	require.NoError(t, err)
	_, err = svc.Compute(ctx, input(own.ID))
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}

func TestComputeForClientOrders(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	c := dbtest.Client(t, client)
	order := models.DeliveryOrder{
		OrderNumber:    "ORD-C1",
		Kind:           enums.OrderKindClient,
		ClientID:       &c.ID,
		Quantity:       1,
		Destination:    "Osu",
		Cost:           decimal.NewFromInt(80),
		AmountReceived: decimal.Zero,
		Status:         enums.OrderStatusPending,
	}
	require.NoError(t, client.DB().Create(&order).Error)
	start, end := period()

	rem, err := svc.Compute(ctx, ComputeInput{
		PartyType:       enums.PartyTypeClient,
		PartyID:         c.ID,
		PeriodStart:     start,
		PeriodEnd:       end,
		OrderIDs:        []uuid.UUID{order.ID},
		ExpectedAmounts: []decimal.Decimal{decimal.RequireFromString("80.00")},
	})
	require.NoError(t, err)

	status := enums.RemittanceStatusPending
	page, err := svc.List(ctx, ListFilters{PartyID: &c.ID, Status: &status})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, rem.ID, page.Items[0].ID)
}

func TestRecordPaymentValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordPayment(ctx, uuid.New(), RecordPaymentInput{Amount: decimal.Zero})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	bad := "barter"
	_, err = svc.RecordPayment(ctx, uuid.New(), RecordPaymentInput{Amount: decimal.NewFromInt(1), Method: &bad})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.RecordPayment(ctx, uuid.New(), RecordPaymentInput{Amount: decimal.NewFromInt(1)})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestComputeTreatsMidnightEndAsWholeDay(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	f := dbtest.StockedFixture(t, client, 100, 0)
	day := time.Date(2026, time.October, 10, 0, 0, 0, 0, time.UTC)

	afternoon := seedVendorOrder(t, client, f, 250, enums.OrderStatusCompleted)
	require.NoError(t, client.DB().Model(&models.DeliveryOrder{}).
		Where("id = ?", afternoon.ID).Update("created_at", day.Add(15*time.Hour)).Error)

	input := ComputeInput{
		PartyType:       enums.PartyTypeVendor,
		PartyID:         f.Vendor.ID,
		PeriodStart:     day.AddDate(0, 0, -6),
		PeriodEnd:       day.Add(12 * time.Hour),
		OrderIDs:        []uuid.UUID{afternoon.ID},
		ExpectedAmounts: []decimal.Decimal{decimal.NewFromInt(250)},
	}
	_, err := svc.Compute(ctx, input)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "a non-midnight end is an inclusive instant")

	input.PeriodEnd = day
	rem, err := svc.Compute(ctx, input)
	require.NoError(t, err)
	require.True(t, rem.PeriodEnd.After(day.Add(23*time.Hour)))
	require.True(t, rem.PeriodEnd.Before(day.AddDate(0, 0, 1)))
}

func TestPeriodBounds(t *testing.T) {
	day := time.Date(2026, time.October, 10, 0, 0, 0, 0, time.UTC)

	_, end, until := periodBounds(day.AddDate(0, 0, -1), day)
	require.Equal(t, day.AddDate(0, 0, 1), until)
	require.Equal(t, day.AddDate(0, 0, 1).Add(-time.Microsecond), end)

	instant := day.Add(9*time.Hour + 30*time.Minute)
	_, end, until = periodBounds(day, instant)
	require.Equal(t, instant, end)
	require.True(t, until.After(instant))

	// midnight in another zone is not midnight UTC
	accra := time.FixedZone("UTC+1", 3600)
	_, end, _ = periodBounds(day, time.Date(2026, time.October, 10, 0, 0, 0, 0, accra))
	require.Equal(t, day.Add(-time.Hour), end)
}
