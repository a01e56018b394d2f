package models

import (
	"time"

	"github.com/google/uuid"
)

// StockTransfer is the audit record of a committed warehouse-to-warehouse move.
type StockTransfer struct {
	ID              uuid.UUID           `gorm:"column:id;primaryKey"`
	Reference       string              `gorm:"column:reference;not null;uniqueIndex"`
	VendorID        uuid.UUID           `gorm:"column:vendor_id;not null"`
	FromWarehouseID uuid.UUID           `gorm:"column:from_warehouse_id;not null"`
	ToWarehouseID   uuid.UUID           `gorm:"column:to_warehouse_id;not null"`
	Note            *string             `gorm:"column:note"`
	TotalUnits      int                 `gorm:"column:total_units;not null"`
	Lines           []StockTransferLine `gorm:"foreignKey:TransferID"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

type StockTransferLine struct {
	ID         uuid.UUID `gorm:"column:id;primaryKey"`
	TransferID uuid.UUID `gorm:"column:transfer_id;not null"`
	ProductID  uuid.UUID `gorm:"column:product_id;not null"`
	Quantity   int       `gorm:"column:quantity;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
