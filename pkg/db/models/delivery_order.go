package models

import (
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryOrder is the single physical table behind vendor and client orders.
// Vendor orders populate VendorID, ProductID and WarehouseID; client orders
// populate ClientID. RecipientClientID optionally names the client a vendor
// order is delivered to.
type DeliveryOrder struct {
	ID                uuid.UUID         `gorm:"column:id;primaryKey"`
	OrderNumber       string            `gorm:"column:order_number;not null;uniqueIndex"`
	Kind              enums.OrderKind   `gorm:"column:kind;not null"`
	VendorID          *uuid.UUID        `gorm:"column:vendor_id"`
	ProductID         *uuid.UUID        `gorm:"column:product_id"`
	WarehouseID       *uuid.UUID        `gorm:"column:warehouse_id"`
	ClientID          *uuid.UUID        `gorm:"column:client_id"`
	RecipientClientID *uuid.UUID        `gorm:"column:recipient_client_id"`
	Quantity          int               `gorm:"column:quantity;not null"`
	AgentID           *uuid.UUID        `gorm:"column:agent_id"`
	Destination       string            `gorm:"column:destination;not null"`
	Cost              decimal.Decimal   `gorm:"column:cost;type:numeric(14,2);not null"`
	AmountReceived    decimal.Decimal   `gorm:"column:amount_received;type:numeric(14,2);not null"`
	Status            enums.OrderStatus `gorm:"column:status;not null"`
	Notes             *string           `gorm:"column:notes"`
	AssignedAt        *time.Time        `gorm:"column:assigned_at"`
	CompletedAt       *time.Time        `gorm:"column:completed_at"`
	CancelledAt       *time.Time        `gorm:"column:cancelled_at"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
