package remittances

import (
	"context"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists remittances with their order snapshot and payments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, remittance *models.Remittance) error
	FindByID(ctx context.Context, id uuid.UUID, lock bool) (*models.Remittance, error)
	FindOrders(ctx context.Context, ids []uuid.UUID) ([]models.DeliveryOrder, error)
	RemittedOrderIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	AddPayment(ctx context.Context, payment *models.RemittancePayment) error
	UpdateVersioned(ctx context.Context, id uuid.UUID, version int, updates map[string]any) (int64, error)
	List(ctx context.Context, filters ListFilters, cursor *pagination.Cursor, limit int) ([]models.Remittance, error)
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

func (r *repository) Create(ctx context.Context, remittance *models.Remittance) error {
	return r.db.WithContext(ctx).Create(remittance).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID, lock bool) (*models.Remittance, error) {
	q := r.db.WithContext(ctx)
	if lock {
		q = db.ForUpdate(q)
	} else {
		q = q.Preload("Orders", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
			Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
	}
	var remittance models.Remittance
	if err := q.First(&remittance, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &remittance, nil
}

func (r *repository) FindOrders(ctx context.Context, ids []uuid.UUID) ([]models.DeliveryOrder, error) {
	var rows []models.DeliveryOrder
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) RemittedOrderIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.RemittanceOrder{}).
		Where("order_id IN ?", ids).
		Pluck("order_id", &out).Error
	return out, err
}

func (r *repository) AddPayment(ctx context.Context, payment *models.RemittancePayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// UpdateVersioned applies updates only when the stored version still matches
// and bumps it, so a stale writer affects zero rows.
func (r *repository) UpdateVersioned(ctx context.Context, id uuid.UUID, version int, updates map[string]any) (int64, error) {
	updates["version"] = gorm.Expr("version + 1")
	updates["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&models.Remittance{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) List(ctx context.Context, filters ListFilters, cursor *pagination.Cursor, limit int) ([]models.Remittance, error) {
	q := r.db.WithContext(ctx).Model(&models.Remittance{})
	if filters.PartyType != nil {
		q = q.Where("party_type = ?", *filters.PartyType)
	}
	if filters.PartyID != nil {
		q = q.Where("party_id = ?", *filters.PartyID)
	}
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if cursor != nil {
		q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	var rows []models.Remittance
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
