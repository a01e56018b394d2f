package orders

import (
	"context"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists delivery orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.DeliveryOrder) error
	FindByID(ctx context.Context, id uuid.UUID, lock bool) (*models.DeliveryOrder, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	IsRemitted(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filters ListFilters, cursor *pagination.Cursor, limit int) ([]models.DeliveryOrder, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an order repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.DeliveryOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID, lock bool) (*models.DeliveryOrder, error) {
	q := r.db.WithContext(ctx)
	if lock {
		q = db.ForUpdate(q)
	}
	var order models.DeliveryOrder
	if err := q.First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.DeliveryOrder{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.DeliveryOrder{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) IsRemitted(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RemittanceOrder{}).Where("order_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *repository) List(ctx context.Context, filters ListFilters, cursor *pagination.Cursor, limit int) ([]models.DeliveryOrder, error) {
	q := r.db.WithContext(ctx).Model(&models.DeliveryOrder{})
	if filters.Kind != nil {
		q = q.Where("kind = ?", *filters.Kind)
	}
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.VendorID != nil {
		q = q.Where("vendor_id = ?", *filters.VendorID)
	}
	if filters.ClientID != nil {
		q = q.Where("client_id = ?", *filters.ClientID)
	}
	if filters.WarehouseID != nil {
		q = q.Where("warehouse_id = ?", *filters.WarehouseID)
	}
	if filters.AgentID != nil {
		q = q.Where("agent_id = ?", *filters.AgentID)
	}
	if filters.From != nil {
		q = q.Where("created_at >= ?", filters.From.UTC())
	}
	if filters.To != nil {
		q = q.Where("created_at < ?", filters.To.UTC())
	}
	if cursor != nil {
		q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.DeliveryOrder
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
