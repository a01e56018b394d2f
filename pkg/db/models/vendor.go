package models

import (
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	"github.com/google/uuid"
)

// Vendor is a VIP client that owns products and warehouse stock.
type Vendor struct {
	ID          uuid.UUID         `gorm:"column:id;primaryKey"`
	CompanyName string            `gorm:"column:company_name;not null"`
	ContactName string            `gorm:"column:contact_name;not null"`
	Phone       string            `gorm:"column:phone;not null"`
	Email       *string           `gorm:"column:email"`
	Address     *string           `gorm:"column:address"`
	Status      enums.PartyStatus `gorm:"column:status;not null"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// VendorWarehouse authorizes a vendor to stock a warehouse.
type VendorWarehouse struct {
	ID            uuid.UUID  `gorm:"column:id;primaryKey"`
	VendorID      uuid.UUID  `gorm:"column:vendor_id;not null"`
	WarehouseID   uuid.UUID  `gorm:"column:warehouse_id;not null"`
	ContractStart *time.Time `gorm:"column:contract_start"`
	ContractEnd   *time.Time `gorm:"column:contract_end"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (VendorWarehouse) TableName() string { return "vendor_warehouses" }
