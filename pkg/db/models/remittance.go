package models

import (
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Remittance reconciles a party's orders over a period against payments.
// Version is bumped on every update and guards concurrent payment writes.
type Remittance struct {
	ID            uuid.UUID              `gorm:"column:id;primaryKey"`
	Reference     string                 `gorm:"column:reference;not null;uniqueIndex"`
	PartyType     enums.PartyType        `gorm:"column:party_type;not null"`
	PartyID       uuid.UUID              `gorm:"column:party_id;not null"`
	PeriodStart   time.Time              `gorm:"column:period_start;not null"`
	PeriodEnd     time.Time              `gorm:"column:period_end;not null"`
	TotalCharged  decimal.Decimal        `gorm:"column:total_charged;type:numeric(14,2);not null"`
	TotalReceived decimal.Decimal        `gorm:"column:total_received;type:numeric(14,2);not null"`
	Status        enums.RemittanceStatus `gorm:"column:status;not null"`
	Version       int                    `gorm:"column:version;not null"`
	PaidAt        *time.Time             `gorm:"column:paid_at"`
	Orders        []RemittanceOrder      `gorm:"foreignKey:RemittanceID"`
	Payments      []RemittancePayment    `gorm:"foreignKey:RemittanceID"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

type RemittanceOrder struct {
	ID             uuid.UUID       `gorm:"column:id;primaryKey"`
	RemittanceID   uuid.UUID       `gorm:"column:remittance_id;not null"`
	OrderID        uuid.UUID       `gorm:"column:order_id;not null;uniqueIndex"`
	ExpectedAmount decimal.Decimal `gorm:"column:expected_amount;type:numeric(14,2);not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// RemittancePayment rows are append-only.
type RemittancePayment struct {
	ID           uuid.UUID            `gorm:"column:id;primaryKey"`
	RemittanceID uuid.UUID            `gorm:"column:remittance_id;not null"`
	Amount       decimal.Decimal      `gorm:"column:amount;type:numeric(14,2);not null"`
	Method       *enums.PaymentMethod `gorm:"column:method"`
	Reference    *string              `gorm:"column:reference"`
	Notes        *string              `gorm:"column:notes"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
