package models

import (
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          uuid.UUID         `gorm:"column:id;primaryKey"`
	Type        enums.ExpenseType `gorm:"column:type;not null"`
	Amount      decimal.Decimal   `gorm:"column:amount;type:numeric(14,2);not null"`
	Description string            `gorm:"column:description;not null"`
	IncurredAt  time.Time         `gorm:"column:incurred_at;not null"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
