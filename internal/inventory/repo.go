package inventory

import (
	"context"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists inventory rows. Quantity writes are single guarded
// statements; callers pair them with the warehouse items delta inside one
// transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByKey(ctx context.Context, key Key, lock bool) (*models.InventoryItem, error)
	FindByID(ctx context.Context, id uuid.UUID, lock bool) (*models.InventoryItem, error)
	Insert(ctx context.Context, item *models.InventoryItem) error
	Decrement(ctx context.Context, key Key, amount int) (int64, error)
	Add(ctx context.Context, key Key, amount int) (int64, error)
	CompareAndSet(ctx context.Context, id uuid.UUID, expected, next int) (int64, error)
	SumAtWarehouse(ctx context.Context, warehouseID uuid.UUID) (int, error)
	List(ctx context.Context, filters ListFilters, cursor *pagination.Cursor, limit int) ([]ItemView, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) scoped(ctx context.Context, lock bool) *gorm.DB {
	q := r.db.WithContext(ctx)
	if lock {
		q = db.ForUpdate(q)
	}
	return q
}

func (r *repository) FindByKey(ctx context.Context, key Key, lock bool) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.scoped(ctx, lock).
		Where("vendor_id = ? AND warehouse_id = ? AND product_id = ?", key.VendorID, key.WarehouseID, key.ProductID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID, lock bool) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.scoped(ctx, lock).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) Insert(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Decrement removes amount only while enough stock remains; zero rows affected
// means the guard rejected the write.
func (r *repository) Decrement(ctx context.Context, key Key, amount int) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE inventory_items
		    SET quantity = quantity - ?, updated_at = ?
		  WHERE vendor_id = ? AND warehouse_id = ? AND product_id = ? AND quantity >= ?`,
		amount, time.Now().UTC(), key.VendorID, key.WarehouseID, key.ProductID, amount,
	)
	return res.RowsAffected, res.Error
}

func (r *repository) Add(ctx context.Context, key Key, amount int) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE inventory_items
		    SET quantity = quantity + ?, updated_at = ?
		  WHERE vendor_id = ? AND warehouse_id = ? AND product_id = ?`,
		amount, time.Now().UTC(), key.VendorID, key.WarehouseID, key.ProductID,
	)
	return res.RowsAffected, res.Error
}

func (r *repository) CompareAndSet(ctx context.Context, id uuid.UUID, expected, next int) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE inventory_items SET quantity = ?, updated_at = ? WHERE id = ? AND quantity = ?`,
		next, time.Now().UTC(), id, expected,
	)
	return res.RowsAffected, res.Error
}

func (r *repository) SumAtWarehouse(ctx context.Context, warehouseID uuid.UUID) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("warehouse_id = ?", warehouseID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *repository) List(ctx context.Context, filters ListFilters, cursor *pagination.Cursor, limit int) ([]ItemView, error) {
	q := r.db.WithContext(ctx).
		Table("inventory_items AS i").
		Select(`i.id, i.vendor_id, v.company_name AS vendor_name,
			i.warehouse_id, w.name AS warehouse_name, w.location AS warehouse_location,
			i.product_id, p.name AS product_name, p.sku AS product_sku, p.price AS product_price,
			i.quantity, i.created_at, i.updated_at`).
		Joins("JOIN vendors v ON v.id = i.vendor_id").
		Joins("JOIN warehouses w ON w.id = i.warehouse_id").
		Joins("JOIN products p ON p.id = i.product_id")

	if filters.VendorID != nil {
		q = q.Where("i.vendor_id = ?", *filters.VendorID)
	}
	if filters.WarehouseID != nil {
		q = q.Where("i.warehouse_id = ?", *filters.WarehouseID)
	}
	if filters.ProductID != nil {
		q = q.Where("i.product_id = ?", *filters.ProductID)
	}
	if cursor != nil {
		q = q.Where("(i.created_at < ? OR (i.created_at = ? AND i.id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []ItemView
	if err := q.Order("i.created_at DESC").Order("i.id DESC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
