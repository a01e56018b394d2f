package accounting

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/dbtest"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/angelmondragon/deliverydesk-backend/pkg/logger"
	"github.com/angelmondragon/deliverydesk-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var wednesday = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(ServiceParams{
		Repo:  NewRepository(client.DB()),
		Clock: func() time.Time { return wednesday },
	})
	require.NoError(t, err)
	return svc, client
}

type seeded struct {
	kind     enums.OrderKind
	status   enums.OrderStatus
	cost     int64
	received int64
	at       time.Time
	agentID  *uuid.UUID
}

func seedOrder(t *testing.T, client *db.Client, f dbtest.Fixture, c models.Client, o seeded) {
	t.Helper()
	order := models.DeliveryOrder{
		OrderNumber:    "ORD-" + uuid.NewString()[:10],
		Kind:           o.kind,
		Quantity:       1,
		Destination:    "Kumasi",
		Cost:           decimal.NewFromInt(o.cost),
		AmountReceived: decimal.NewFromInt(o.received),
		Status:         o.status,
		AgentID:        o.agentID,
		CreatedAt:      o.at,
	}
	if o.kind == enums.OrderKindVendor {
		order.VendorID, order.ProductID, order.WarehouseID = &f.Vendor.ID, &f.Product.ID, &f.Warehouse.ID
	} else {
		order.ClientID = &c.ID
	}
	require.NoError(t, client.DB().Create(&order).Error)
}

func TestSummaryByPeriodMonthly(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	f := dbtest.StockedFixture(t, client, 100, 0)
	c := dbtest.Client(t, client)

	seedOrder(t, client, f, c, seeded{kind: enums.OrderKindVendor, status: enums.OrderStatusCompleted, cost: 600, received: 500, at: wednesday})
	seedOrder(t, client, f, c, seeded{kind: enums.OrderKindVendor, status: enums.OrderStatusInProgress, cost: 400, received: 300, at: wednesday.AddDate(0, 0, -10)})
	seedOrder(t, client, f, c, seeded{kind: enums.OrderKindClient, status: enums.OrderStatusCompleted, cost: 300, received: 300, at: wednesday})
	seedOrder(t, client, f, c, seeded{kind: enums.OrderKindVendor, status: enums.OrderStatusCancelled, cost: 999, received: 0, at: wednesday})
	seedOrder(t, client, f, c, seeded{kind: enums.OrderKindVendor, status: enums.OrderStatusCompleted, cost: 50, received: 50, at: wednesday.AddDate(0, -1, 0)})

	_, err := svc.RecordExpense(ctx, RecordExpenseInput{Type: "fuel", Amount: decimal.NewFromInt(100), Description: "van diesel", IncurredAt: &wednesday})
	require.NoError(t, err)
	_, err = svc.RecordExpense(ctx, RecordExpenseInput{Type: "Salary", Amount: decimal.NewFromInt(200), Description: "riders"})
	require.NoError(t, err)

	require.NoError(t, client.DB().Create(&models.Remittance{
		Reference:     "REM-1",
		PartyType:     enums.PartyTypeVendor,
		PartyID:       f.Vendor.ID,
		PeriodStart:   wednesday.AddDate(0, 0, -7),
		PeriodEnd:     wednesday,
		TotalCharged:  decimal.NewFromInt(1000),
		TotalReceived: decimal.NewFromInt(700),
		Status:        enums.RemittanceStatusPending,
		Version:       1,
		CreatedAt:     wednesday,
	}).Error)

	summary, err := svc.SummaryByPeriod(ctx, enums.SummaryPeriodMonthly, wednesday)
	require.NoError(t, err)
	require.Equal(t, "2026-10", summary.Window.Label)

	income := summary.IncomeBreakdown
	assert.True(t, income.VIP.Received.Equal(decimal.NewFromInt(800)), income.VIP.Received.String())
	assert.True(t, income.Regular.Received.Equal(decimal.NewFromInt(300)))
	assert.True(t, income.Totals.Received.Equal(decimal.NewFromInt(1100)))
	assert.True(t, income.VIP.Charged.Equal(decimal.NewFromInt(1000)))
	assert.True(t, income.VIP.Outstanding.Equal(decimal.NewFromInt(200)))
	assert.True(t, income.Regular.Outstanding.IsZero())
	assert.Equal(t, 2, income.VIP.Orders)
	assert.Equal(t, 3, income.Totals.Orders)

	assert.True(t, summary.ExpenseBreakdown.Total.Equal(decimal.NewFromInt(300)))
	assert.True(t, summary.ExpenseBreakdown.ByType[enums.ExpenseTypeFuel].Equal(decimal.NewFromInt(100)))
	assert.True(t, summary.ExpenseBreakdown.ByType[enums.ExpenseTypeSalary].Equal(decimal.NewFromInt(200)))

	assert.True(t, summary.ProfitLoss.Profit.Equal(decimal.NewFromInt(1000)))
	assert.True(t, summary.ProfitLoss.PendingRemittances.Equal(decimal.NewFromInt(300)))
	assert.True(t, summary.ProfitLoss.AdjustedProfit.Equal(decimal.NewFromInt(700)))

	daily, err := svc.SummaryByPeriod(ctx, enums.SummaryPeriodDaily, wednesday)
	require.NoError(t, err)
	assert.Equal(t, 2, daily.IncomeBreakdown.Totals.Orders)

	_, err = svc.SummaryByPeriod(ctx, enums.SummaryPeriod("yearly"), wednesday)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestClientPerformanceStatsForAgent(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	f := dbtest.StockedFixture(t, client, 100, 0)
	c := dbtest.Client(t, client)
	agent := dbtest.Agent(t, client, f.Warehouse.ID)
	other := dbtest.Agent(t, client, f.Warehouse.ID)

	statuses := []enums.OrderStatus{}
	for i := 0; i < 7; i++ {
		statuses = append(statuses, enums.OrderStatusCompleted)
	}
	statuses = append(statuses, enums.OrderStatusCancelled, enums.OrderStatusCancelled, enums.OrderStatusPending)
	for i, status := range statuses {
		seedOrder(t, client, f, c, seeded{kind: enums.OrderKindVendor, status: status, cost: 10, at: wednesday.Add(time.Duration(i) * time.Minute), agentID: &agent.ID})
	}
	seedOrder(t, client, f, c, seeded{kind: enums.OrderKindClient, status: enums.OrderStatusCompleted, cost: 10, at: wednesday, agentID: &other.ID})

	stats, err := svc.ClientPerformanceStats(ctx, PerformanceFilter{AgentID: &agent.ID}, wednesday)
	require.NoError(t, err)
	require.Len(t, stats.Weekly, defaultWeeks)
	require.Len(t, stats.Monthly, defaultMonths)

	month := stats.Monthly[len(stats.Monthly)-1]
	assert.Equal(t, "2026-10", month.Label)
	assert.Equal(t, 10, month.Requested)
	assert.Equal(t, 7, month.Delivered)
	assert.Equal(t, 2, month.Failed)
	assert.Equal(t, 70.0, month.SuccessRate)

	week := stats.Weekly[len(stats.Weekly)-1]
	assert.Equal(t, "2026-W42", week.Label)
	assert.Equal(t, 10, week.Requested)

	assert.Zero(t, stats.Monthly[0].Requested)
	assert.Zero(t, stats.Monthly[0].SuccessRate)
}

func TestWindows(t *testing.T) {
	sunday := time.Date(2026, time.October, 18, 23, 30, 0, 0, time.UTC)
	w, err := WindowFor(enums.SummaryPeriodWeekly, sunday)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC), w.Start)
	require.Equal(t, time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC), w.End)

	newYear := time.Date(2026, time.January, 1, 8, 0, 0, 0, time.UTC)
	w, err = WindowFor(enums.SummaryPeriodWeekly, newYear)
	require.NoError(t, err)
	require.Equal(t, "2026-W01", w.Label)
	require.Equal(t, time.Date(2025, time.December, 29, 0, 0, 0, 0, time.UTC), w.Start)

	months := lastMonths(time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), 3)
	require.Equal(t, []string{"2026-01", "2026-02", "2026-03"}, []string{months[0].Label, months[1].Label, months[2].Label})
}

func TestSuccessRate(t *testing.T) {
	require.Equal(t, 0.0, SuccessRate(0, 0))
	require.Equal(t, 66.7, SuccessRate(2, 3))
	require.Equal(t, 100.0, SuccessRate(4, 4))
}

func TestRecordExpenseValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordExpense(ctx, RecordExpenseInput{Type: "bribes", Amount: decimal.NewFromInt(1), Description: "x"})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	_, err = svc.RecordExpense(ctx, RecordExpenseInput{Type: "rent", Amount: decimal.Zero, Description: "x"})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.RecordExpense(ctx, RecordExpenseInput{Type: "rent", Amount: decimal.NewFromInt(900), Description: "depot"})
	require.NoError(t, err)
	list, err := svc.ListExpenses(ctx, wednesday.AddDate(0, 0, -1), wednesday.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, enums.ExpenseTypeRent, list[0].Type)
}

type countingTx struct {
	inner *db.Client
	calls int
}

func (c *countingTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	c.calls++
	return c.inner.WithTx(ctx, fn)
}

func TestSummaryReadsInOneTransactionAndRecordsMetrics(t *testing.T) {
	client := dbtest.Open(t)
	runner := &countingTx{inner: client}
	reg := prometheus.NewRegistry()
	svc, err := NewService(ServiceParams{
		Tx:      runner,
		Repo:    NewRepository(client.DB()),
		Clock:   func() time.Time { return wednesday },
		Metrics: metrics.NewOperationMetrics(reg),
		Logger:  logger.New(logger.Options{ServiceName: "accounting-test", Output: io.Discard}),
	})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.RecordExpense(ctx, RecordExpenseInput{Type: "fuel", Amount: decimal.NewFromInt(40), Description: "van"})
	require.NoError(t, err)

	summary, err := svc.SummaryByPeriod(ctx, enums.SummaryPeriodMonthly, wednesday)
	require.NoError(t, err)
	require.Equal(t, 1, runner.calls)
	require.True(t, summary.ExpenseBreakdown.Total.Equal(decimal.NewFromInt(40)))

	_, err = svc.SummaryByPeriod(ctx, "yearly", wednesday)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	// record_expense and summary, the latter with ok and rejected outcomes
	count, err := testutil.GatherAndCount(reg, "deliverydesk_operation_total")
	require.NoError(t, err)
	require.Equal(t, 3, count)
}
