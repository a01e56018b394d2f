package transfers

import (
	"context"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository stores the audit trail of committed transfers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, transfer *models.StockTransfer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.StockTransfer, error)
	List(ctx context.Context, filters ListFilters, cursor *pagination.Cursor, limit int) ([]models.StockTransfer, error)
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

// Create inserts the transfer together with its lines.
func (r *repository) Create(ctx context.Context, transfer *models.StockTransfer) error {
	return r.db.WithContext(ctx).Create(transfer).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StockTransfer, error) {
	var transfer models.StockTransfer
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&transfer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters, cursor *pagination.Cursor, limit int) ([]models.StockTransfer, error) {
	q := r.db.WithContext(ctx).Model(&models.StockTransfer{}).Preload("Lines")
	if filters.VendorID != nil {
		q = q.Where("vendor_id = ?", *filters.VendorID)
	}
	if filters.WarehouseID != nil {
		q = q.Where("(from_warehouse_id = ? OR to_warehouse_id = ?)", *filters.WarehouseID, *filters.WarehouseID)
	}
	if cursor != nil {
		q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	var rows []models.StockTransfer
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
