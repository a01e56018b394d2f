package accounting

import (
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RecordExpenseInput struct {
	Type        string          `json:"type" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"required"`
	IncurredAt  *time.Time      `json:"incurred_at,omitempty"`
}

type ExpenseDTO struct {
	ID          uuid.UUID         `json:"id"`
	Type        enums.ExpenseType `json:"type"`
	Amount      decimal.Decimal   `json:"amount"`
	Description string            `json:"description"`
	IncurredAt  time.Time         `json:"incurred_at"`
}

func expenseFromModel(m models.Expense) ExpenseDTO {
	return ExpenseDTO{ID: m.ID, Type: m.Type, Amount: m.Amount, Description: m.Description, IncurredAt: m.IncurredAt}
}

// IncomeBucket totals the orders of one kind inside a window.
type IncomeBucket struct {
	Charged     decimal.Decimal `json:"charged"`
	Received    decimal.Decimal `json:"received"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Orders      int             `json:"orders"`
}

type IncomeBreakdown struct {
	VIP     IncomeBucket `json:"vip"`
	Regular IncomeBucket `json:"regular"`
	Totals  IncomeBucket `json:"totals"`
}

type ExpenseBreakdown struct {
	ByType map[enums.ExpenseType]decimal.Decimal `json:"by_type"`
	Total  decimal.Decimal                       `json:"total"`
}

// ProfitLoss carries the net figures. AdjustedProfit subtracts the balance
// still owed on pending remittances from Profit.
type ProfitLoss struct {
	Profit             decimal.Decimal `json:"profit"`
	PendingRemittances decimal.Decimal `json:"pending_remittances"`
	AdjustedProfit     decimal.Decimal `json:"adjusted_profit"`
}

type Summary struct {
	Period           enums.SummaryPeriod `json:"period"`
	Window           Window              `json:"window"`
	IncomeBreakdown  IncomeBreakdown     `json:"income_breakdown"`
	ExpenseBreakdown ExpenseBreakdown    `json:"expense_breakdown"`
	ProfitLoss       ProfitLoss          `json:"profit_loss"`
}

type PerformanceBucket struct {
	Window
	Requested   int     `json:"requested"`
	Delivered   int     `json:"delivered"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

type PerformanceStats struct {
	Weekly  []PerformanceBucket `json:"weekly"`
	Monthly []PerformanceBucket `json:"monthly"`
}
