package models

import (
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	"github.com/google/uuid"
)

// Warehouse stores vendor stock. Items caches the sum of inventory quantities
// held at the warehouse and Status is derived from Items versus Capacity.
type Warehouse struct {
	ID        uuid.UUID             `gorm:"column:id;primaryKey"`
	Name      string                `gorm:"column:name;not null"`
	Location  string                `gorm:"column:location;not null"`
	Capacity  int                   `gorm:"column:capacity;not null"`
	Items     int                   `gorm:"column:items;not null"`
	Status    enums.WarehouseStatus `gorm:"column:status;not null"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// StatusFor derives the warehouse status for a given item count.
func StatusFor(items, capacity int) enums.WarehouseStatus {
	if items >= capacity {
		return enums.WarehouseStatusFull
	}
	return enums.WarehouseStatusActive
}
