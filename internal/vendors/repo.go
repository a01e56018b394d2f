package vendors

import (
	"context"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository manages vendors and their warehouse authorizations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, vendor *models.Vendor) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	List(ctx context.Context) ([]models.Vendor, error)
	CreateLink(ctx context.Context, link *models.VendorWarehouse) error
	DeleteLink(ctx context.Context, vendorID, warehouseID uuid.UUID) (bool, error)
	FindLink(ctx context.Context, vendorID, warehouseID uuid.UUID) (*models.VendorWarehouse, error)
	ListLinks(ctx context.Context, vendorID uuid.UUID) ([]models.VendorWarehouse, error)
	HasStockAt(ctx context.Context, vendorID, warehouseID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a vendor repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, vendor *models.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *repository) List(ctx context.Context) ([]models.Vendor, error) {
	var rows []models.Vendor
	if err := r.db.WithContext(ctx).Order("company_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CreateLink(ctx context.Context, link *models.VendorWarehouse) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *repository) DeleteLink(ctx context.Context, vendorID, warehouseID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("vendor_id = ? AND warehouse_id = ?", vendorID, warehouseID).
		Delete(&models.VendorWarehouse{})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) FindLink(ctx context.Context, vendorID, warehouseID uuid.UUID) (*models.VendorWarehouse, error) {
	var link models.VendorWarehouse
	if err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND warehouse_id = ?", vendorID, warehouseID).
		First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *repository) ListLinks(ctx context.Context, vendorID uuid.UUID) ([]models.VendorWarehouse, error) {
	var links []models.VendorWarehouse
	if err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// HasStockAt reports whether the vendor still holds units at the warehouse.
func (r *repository) HasStockAt(ctx context.Context, vendorID, warehouseID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("vendor_id = ? AND warehouse_id = ? AND quantity > 0", vendorID, warehouseID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
