package inventory

import (
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Key addresses one stock quantity: the (vendor, warehouse, product) triple.
type Key struct {
	VendorID    uuid.UUID `json:"vendor_id" validate:"required"`
	WarehouseID uuid.UUID `json:"warehouse_id" validate:"required"`
	ProductID   uuid.UUID `json:"product_id" validate:"required"`
}

func (k Key) valid() bool {
	return k.VendorID != uuid.Nil && k.WarehouseID != uuid.Nil && k.ProductID != uuid.Nil
}

// StockInput registers units against a triple.
type StockInput struct {
	Key
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// SetQuantityInput is the manual stock correction payload.
type SetQuantityInput struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

// ListFilters narrows an inventory listing.
type ListFilters struct {
	VendorID    *uuid.UUID
	WarehouseID *uuid.UUID
	ProductID   *uuid.UUID
	Pagination  pagination.Params
}

// ItemView is an inventory row joined with its display data.
type ItemView struct {
	ID                uuid.UUID       `json:"id" gorm:"column:id"`
	VendorID          uuid.UUID       `json:"vendor_id" gorm:"column:vendor_id"`
	VendorName        string          `json:"vendor_name" gorm:"column:vendor_name"`
	WarehouseID       uuid.UUID       `json:"warehouse_id" gorm:"column:warehouse_id"`
	WarehouseName     string          `json:"warehouse_name" gorm:"column:warehouse_name"`
	WarehouseLocation string          `json:"warehouse_location" gorm:"column:warehouse_location"`
	ProductID         uuid.UUID       `json:"product_id" gorm:"column:product_id"`
	ProductName       string          `json:"product_name" gorm:"column:product_name"`
	ProductSKU        *string         `json:"product_sku,omitempty" gorm:"column:product_sku"`
	ProductPrice      decimal.Decimal `json:"product_price" gorm:"column:product_price"`
	Quantity          int             `json:"quantity" gorm:"column:quantity"`
	CreatedAt         time.Time       `json:"created_at" gorm:"column:created_at"`
	UpdatedAt         time.Time       `json:"updated_at" gorm:"column:updated_at"`
}

type ItemDTO struct {
	ID          uuid.UUID `json:"id"`
	VendorID    uuid.UUID `json:"vendor_id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	ProductID   uuid.UUID `json:"product_id"`
	Quantity    int       `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromModel(m models.InventoryItem) ItemDTO {
	return ItemDTO{
		ID:          m.ID,
		VendorID:    m.VendorID,
		WarehouseID: m.WarehouseID,
		ProductID:   m.ProductID,
		Quantity:    m.Quantity,
		UpdatedAt:   m.UpdatedAt,
	}
}

// Shortage describes one line that could not be served from stock.
type Shortage struct {
	ProductID uuid.UUID `json:"product_id"`
	Requested int       `json:"requested"`
	Available int       `json:"available"`
	Reason    string    `json:"reason"`
}

// Drift reports a warehouse whose cached item count disagreed with its rows.
type Drift struct {
	WarehouseID uuid.UUID `json:"warehouse_id"`
	CachedItems int       `json:"cached_items"`
	ActualItems int       `json:"actual_items"`
}
