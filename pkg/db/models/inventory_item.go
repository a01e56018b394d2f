package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem is the stock held for one (vendor, warehouse, product) triple.
type InventoryItem struct {
	ID          uuid.UUID `gorm:"column:id;primaryKey"`
	VendorID    uuid.UUID `gorm:"column:vendor_id;not null"`
	WarehouseID uuid.UUID `gorm:"column:warehouse_id;not null"`
	ProductID   uuid.UUID `gorm:"column:product_id;not null"`
	Quantity    int       `gorm:"column:quantity;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
