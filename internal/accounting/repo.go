package accounting

import (
	"context"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderFigures is the projection of an order the reports need.
type orderFigures struct {
	Kind           enums.OrderKind   `gorm:"column:kind"`
	Status         enums.OrderStatus `gorm:"column:status"`
	Cost           decimal.Decimal   `gorm:"column:cost"`
	AmountReceived decimal.Decimal   `gorm:"column:amount_received"`
	CreatedAt      time.Time         `gorm:"column:created_at"`
}

type remittanceFigures struct {
	TotalCharged  decimal.Decimal `gorm:"column:total_charged"`
	TotalReceived decimal.Decimal `gorm:"column:total_received"`
}

// Repository reads order and remittance history and stores expenses.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateExpense(ctx context.Context, expense *models.Expense) error
	ListExpenses(ctx context.Context, from, to time.Time) ([]models.Expense, error)
	OrdersBetween(ctx context.Context, from, to time.Time, filter PerformanceFilter) ([]orderFigures, error)
	PendingRemittancesBetween(ctx context.Context, from, to time.Time) ([]remittanceFigures, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateExpense(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *repository) ListExpenses(ctx context.Context, from, to time.Time) ([]models.Expense, error) {
	var rows []models.Expense
	err := r.db.WithContext(ctx).
		Where("incurred_at >= ? AND incurred_at < ?", from.UTC(), to.UTC()).
		Order("incurred_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) OrdersBetween(ctx context.Context, from, to time.Time, filter PerformanceFilter) ([]orderFigures, error) {
	q := r.db.WithContext(ctx).
		Model(&models.DeliveryOrder{}).
		Select("kind, status, cost, amount_received, created_at").
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC())
	if filter.ClientID != nil {
		q = q.Where("(client_id = ? OR recipient_client_id = ?)", *filter.ClientID, *filter.ClientID)
	}
	if filter.VendorID != nil {
		q = q.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.AgentID != nil {
		q = q.Where("agent_id = ?", *filter.AgentID)
	}
	var rows []orderFigures
	err := q.Scan(&rows).Error
	return rows, err
}

func (r *repository) PendingRemittancesBetween(ctx context.Context, from, to time.Time) ([]remittanceFigures, error) {
	var rows []remittanceFigures
	err := r.db.WithContext(ctx).
		Model(&models.Remittance{}).
		Select("total_charged, total_received").
		Where("status = ? AND created_at >= ? AND created_at < ?", enums.RemittanceStatusPending, from.UTC(), to.UTC()).
		Scan(&rows).Error
	return rows, err
}

// PerformanceFilter scopes performance statistics to one party.
type PerformanceFilter struct {
	ClientID *uuid.UUID
	VendorID *uuid.UUID
	AgentID  *uuid.UUID
}
