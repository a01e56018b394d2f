package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product belongs to exactly one vendor.
type Product struct {
	ID        uuid.UUID       `gorm:"column:id;primaryKey"`
	VendorID  uuid.UUID       `gorm:"column:vendor_id;not null"`
	Name      string          `gorm:"column:name;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(14,2);not null"`
	SKU       *string         `gorm:"column:sku"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
