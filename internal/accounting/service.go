package accounting

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/angelmondragon/deliverydesk-backend/pkg/logger"
	"github.com/angelmondragon/deliverydesk-backend/pkg/metrics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultWeeks  = 8
	defaultMonths = 6
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams configures the accounting service. Tx is optional; when set,
// a summary reads orders, expenses and remittances in one transaction.
type ServiceParams struct {
	Tx      txRunner
	Repo    Repository
	Weeks   int
	Months  int
	Clock   func() time.Time
	Metrics *metrics.OperationMetrics
	Logger  *logger.Logger
}

// Service derives financial views from committed orders, remittances and
// expenses. It never mutates orders or stock.
type Service interface {
	RecordExpense(ctx context.Context, input RecordExpenseInput) (*ExpenseDTO, error)
	ListExpenses(ctx context.Context, from, to time.Time) ([]ExpenseDTO, error)
	SummaryByPeriod(ctx context.Context, period enums.SummaryPeriod, at time.Time) (*Summary, error)
	ClientPerformanceStats(ctx context.Context, filter PerformanceFilter, at time.Time) (*PerformanceStats, error)
}

type service struct {
	tx      txRunner
	repo    Repository
	weeks   int
	months  int
	clock   func() time.Time
	metrics *metrics.OperationMetrics
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "accounting repo is required")
	}
	s := &service{
		tx:      params.Tx,
		repo:    params.Repo,
		weeks:   params.Weeks,
		months:  params.Months,
		clock:   params.Clock,
		metrics: params.Metrics,
		logg:    params.Logger,
	}
	if s.weeks <= 0 {
		s.weeks = defaultWeeks
	}
	if s.months <= 0 {
		s.months = defaultMonths
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	return s, nil
}

func (s *service) RecordExpense(ctx context.Context, input RecordExpenseInput) (_ *ExpenseDTO, err error) {
	defer s.metrics.Observe("accounting.record_expense", time.Now(), &err)
	kind, err := enums.ParseExpenseType(strings.ToLower(strings.TrimSpace(input.Type)))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid expense type")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	incurred := s.clock().UTC()
	if input.IncurredAt != nil {
		incurred = input.IncurredAt.UTC()
	}

	expense := models.Expense{Type: kind, Amount: input.Amount.Round(2), Description: description, IncurredAt: incurred}
	if err := s.repo.CreateExpense(ctx, &expense); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "record expense")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"expense_id":   expense.ID.String(),
			"expense_type": string(kind),
			"amount":       expense.Amount.String(),
		}), "expense recorded")
	}
	dto := expenseFromModel(expense)
	return &dto, nil
}

func (s *service) ListExpenses(ctx context.Context, from, to time.Time) ([]ExpenseDTO, error) {
	if !to.After(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "to must be after from")
	}
	rows, err := s.repo.ListExpenses(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list expenses")
	}
	out := make([]ExpenseDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, expenseFromModel(row))
	}
	return out, nil
}

// SummaryByPeriod reports income, expenses and profit for the day, ISO week
// or calendar month containing at. Cancelled orders earn nothing and are left
// out of income.
func (s *service) SummaryByPeriod(ctx context.Context, period enums.SummaryPeriod, at time.Time) (_ *Summary, err error) {
	defer s.metrics.Observe("accounting.summary", time.Now(), &err)
	if at.IsZero() {
		at = s.clock()
	}
	window, err := WindowFor(period, at)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid period")
	}

	var (
		orders   []orderFigures
		expenses []models.Expense
		pending  []remittanceFigures
	)
	err = s.read(ctx, func(repo Repository) error {
		var err error
		if orders, err = repo.OrdersBetween(ctx, window.Start, window.End, PerformanceFilter{}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load orders")
		}
		if expenses, err = repo.ListExpenses(ctx, window.Start, window.End); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load expenses")
		}
		if pending, err = repo.PendingRemittancesBetween(ctx, window.Start, window.End); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load remittances")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Period: period,
		Window: window,
		IncomeBreakdown: IncomeBreakdown{
			VIP:     emptyBucket(),
			Regular: emptyBucket(),
			Totals:  emptyBucket(),
		},
		ExpenseBreakdown: ExpenseBreakdown{ByType: map[enums.ExpenseType]decimal.Decimal{}, Total: decimal.Zero},
	}

	for _, o := range orders {
		if o.Status == enums.OrderStatusCancelled {
			continue
		}
		switch o.Kind {
		case enums.OrderKindVendor:
			summary.IncomeBreakdown.VIP.add(o)
		case enums.OrderKindClient:
			summary.IncomeBreakdown.Regular.add(o)
		}
		summary.IncomeBreakdown.Totals.add(o)
	}

	for _, e := range expenses {
		current, ok := summary.ExpenseBreakdown.ByType[e.Type]
		if !ok {
			current = decimal.Zero
		}
		summary.ExpenseBreakdown.ByType[e.Type] = current.Add(e.Amount)
		summary.ExpenseBreakdown.Total = summary.ExpenseBreakdown.Total.Add(e.Amount)
	}

	pendingBalance := decimal.Zero
	for _, r := range pending {
		if owed := r.TotalCharged.Sub(r.TotalReceived); owed.IsPositive() {
			pendingBalance = pendingBalance.Add(owed)
		}
	}

	profit := summary.IncomeBreakdown.Totals.Charged.Sub(summary.ExpenseBreakdown.Total)
	summary.ProfitLoss = ProfitLoss{
		Profit:             profit,
		PendingRemittances: pendingBalance,
		AdjustedProfit:     profit.Sub(pendingBalance),
	}
	return summary, nil
}

// read runs fn against a transaction-scoped repository when a runner is
// configured, otherwise against the plain repository.
func (s *service) read(ctx context.Context, fn func(repo Repository) error) error {
	if s.tx == nil {
		return fn(s.repo)
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(s.repo.WithTx(tx))
	})
}

func emptyBucket() IncomeBucket {
	return IncomeBucket{Charged: decimal.Zero, Received: decimal.Zero, Outstanding: decimal.Zero}
}

func (b *IncomeBucket) add(o orderFigures) {
	b.Orders++
	b.Charged = b.Charged.Add(o.Cost)
	b.Received = b.Received.Add(o.AmountReceived)
	if owed := o.Cost.Sub(o.AmountReceived); owed.IsPositive() {
		b.Outstanding = b.Outstanding.Add(owed)
	}
}

// ClientPerformanceStats buckets orders by week and by month ending with the
// periods that contain at.
func (s *service) ClientPerformanceStats(ctx context.Context, filter PerformanceFilter, at time.Time) (_ *PerformanceStats, err error) {
	defer s.metrics.Observe("accounting.performance", time.Now(), &err)
	if at.IsZero() {
		at = s.clock()
	}
	weeks := lastWeeks(at, s.weeks)
	months := lastMonths(at, s.months)

	from := weeks[0].Start
	if months[0].Start.Before(from) {
		from = months[0].Start
	}
	to := weeks[len(weeks)-1].End
	if months[len(months)-1].End.After(to) {
		to = months[len(months)-1].End
	}

	orders, err := s.repo.OrdersBetween(ctx, from, to, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load orders")
	}
	return &PerformanceStats{
		Weekly:  bucketize(weeks, orders),
		Monthly: bucketize(months, orders),
	}, nil
}

func bucketize(windows []Window, orders []orderFigures) []PerformanceBucket {
	out := make([]PerformanceBucket, len(windows))
	for i, w := range windows {
		out[i].Window = w
	}
	for _, o := range orders {
		for i := range out {
			if !out[i].contains(o.CreatedAt) {
				continue
			}
			out[i].Requested++
			switch o.Status {
			case enums.OrderStatusCompleted:
				out[i].Delivered++
			case enums.OrderStatusCancelled:
				out[i].Failed++
			}
			break
		}
	}
	for i := range out {
		out[i].SuccessRate = SuccessRate(out[i].Delivered, out[i].Requested)
	}
	return out
}

// SuccessRate is delivered/requested as a percentage rounded to one decimal,
// or zero when nothing was requested.
func SuccessRate(delivered, requested int) float64 {
	if requested == 0 {
		return 0
	}
	rate := decimal.NewFromInt(int64(delivered)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(requested))).
		Round(1)
	f, _ := rate.Float64()
	return f
}
