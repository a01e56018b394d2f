package remittances

import (
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	"github.com/angelmondragon/deliverydesk-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ComputeInput opens a remittance over orderIDs. ExpectedAmounts is aligned
// index by index with OrderIDs.
type ComputeInput struct {
	PartyType       enums.PartyType   `json:"party_type" validate:"required,oneof=vendor client"`
	PartyID         uuid.UUID         `json:"party_id" validate:"required"`
	PeriodStart     time.Time         `json:"period_start" validate:"required"`
	PeriodEnd       time.Time         `json:"period_end" validate:"required"`
	OrderIDs        []uuid.UUID       `json:"order_ids" validate:"required,min=1"`
	ExpectedAmounts []decimal.Decimal `json:"expected_amounts" validate:"required,min=1"`
}

type RecordPaymentInput struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    *string         `json:"method,omitempty"`
	Reference *string         `json:"reference,omitempty"`
	Notes     *string         `json:"notes,omitempty"`
}

type ListFilters struct {
	PartyType  *enums.PartyType
	PartyID    *uuid.UUID
	Status     *enums.RemittanceStatus
	Pagination pagination.Params
}

type OrderLineDTO struct {
	OrderID        uuid.UUID       `json:"order_id"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
}

type PaymentDTO struct {
	ID        uuid.UUID            `json:"id"`
	Amount    decimal.Decimal      `json:"amount"`
	Method    *enums.PaymentMethod `json:"method,omitempty"`
	Reference *string              `json:"reference,omitempty"`
	Notes     *string              `json:"notes,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

type RemittanceDTO struct {
	ID            uuid.UUID              `json:"id"`
	Reference     string                 `json:"reference"`
	PartyType     enums.PartyType        `json:"party_type"`
	PartyID       uuid.UUID              `json:"party_id"`
	PeriodStart   time.Time              `json:"period_start"`
	PeriodEnd     time.Time              `json:"period_end"`
	TotalCharged  decimal.Decimal        `json:"total_charged"`
	TotalReceived decimal.Decimal        `json:"total_received"`
	Balance       decimal.Decimal        `json:"balance"`
	Status        enums.RemittanceStatus `json:"status"`
	PaidAt        *time.Time             `json:"paid_at,omitempty"`
	Orders        []OrderLineDTO         `json:"orders,omitempty"`
	Payments      []PaymentDTO           `json:"payments,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

func FromModel(m models.Remittance) RemittanceDTO {
	dto := RemittanceDTO{
		ID:            m.ID,
		Reference:     m.Reference,
		PartyType:     m.PartyType,
		PartyID:       m.PartyID,
		PeriodStart:   m.PeriodStart,
		PeriodEnd:     m.PeriodEnd,
		TotalCharged:  m.TotalCharged,
		TotalReceived: m.TotalReceived,
		Balance:       m.TotalCharged.Sub(m.TotalReceived),
		Status:        m.Status,
		PaidAt:        m.PaidAt,
		CreatedAt:     m.CreatedAt,
	}
	for _, o := range m.Orders {
		dto.Orders = append(dto.Orders, OrderLineDTO{OrderID: o.OrderID, ExpectedAmount: o.ExpectedAmount})
	}
	for _, p := range m.Payments {
		dto.Payments = append(dto.Payments, PaymentDTO{
			ID:        p.ID,
			Amount:    p.Amount,
			Method:    p.Method,
			Reference: p.Reference,
			Notes:     p.Notes,
			CreatedAt: p.CreatedAt,
		})
	}
	return dto
}
