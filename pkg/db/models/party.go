package models

import (
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	"github.com/google/uuid"
)

// Client is a regular customer placing service-only orders.
type Client struct {
	ID        uuid.UUID `gorm:"column:id;primaryKey"`
	FullName  string    `gorm:"column:full_name;not null"`
	Phone     string    `gorm:"column:phone;not null"`
	Email     *string   `gorm:"column:email"`
	Address   *string   `gorm:"column:address"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Agent delivers orders out of a home warehouse.
type Agent struct {
	ID          uuid.UUID         `gorm:"column:id;primaryKey"`
	FullName    string            `gorm:"column:full_name;not null"`
	Email       string            `gorm:"column:email;not null"`
	Phone       string            `gorm:"column:phone;not null"`
	Status      enums.PartyStatus `gorm:"column:status;not null"`
	WarehouseID uuid.UUID         `gorm:"column:warehouse_id;not null"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
