package orders

import (
	"fmt"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	"github.com/angelmondragon/deliverydesk-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateVendorOrderInput places a stock-backed order for a VIP vendor.
// ClientID optionally names the regular client the goods are delivered to.
type CreateVendorOrderInput struct {
	VendorID    uuid.UUID       `json:"vendor_id" validate:"required"`
	WarehouseID uuid.UUID       `json:"warehouse_id" validate:"required"`
	ProductID   uuid.UUID       `json:"product_id" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
	Cost        decimal.Decimal `json:"cost"`
	Destination string          `json:"destination" validate:"required"`
	ClientID    *uuid.UUID      `json:"client_id,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
}

// CreateClientOrderInput places a service-only order for a regular client.
type CreateClientOrderInput struct {
	ClientID    uuid.UUID       `json:"client_id" validate:"required"`
	Destination string          `json:"destination" validate:"required"`
	Cost        decimal.Decimal `json:"cost"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	Notes       *string         `json:"notes,omitempty"`
}

type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

type AssignAgentInput struct {
	AgentID *uuid.UUID `json:"agent_id"`
}

type RecordCollectionInput struct {
	Amount decimal.Decimal `json:"amount"`
}

// ListFilters narrows an order listing. From is inclusive and To exclusive.
type ListFilters struct {
	Kind        *enums.OrderKind
	Status      *enums.OrderStatus
	VendorID    *uuid.UUID
	ClientID    *uuid.UUID
	WarehouseID *uuid.UUID
	AgentID     *uuid.UUID
	From        *time.Time
	To          *time.Time
	Pagination  pagination.Params
}

// VendorDetails is the stock-backed half of the order variant.
type VendorDetails struct {
	VendorID          uuid.UUID  `json:"vendor_id"`
	WarehouseID       uuid.UUID  `json:"warehouse_id"`
	ProductID         uuid.UUID  `json:"product_id"`
	RecipientClientID *uuid.UUID `json:"recipient_client_id,omitempty"`
}

// ClientDetails is the service-only half of the order variant.
type ClientDetails struct {
	ClientID uuid.UUID `json:"client_id"`
}

// OrderDTO exposes an order as a tagged variant: exactly one of Vendor or
// Client is set, matching Kind.
type OrderDTO struct {
	ID             uuid.UUID         `json:"id"`
	OrderNumber    string            `json:"order_number"`
	Kind           enums.OrderKind   `json:"kind"`
	Vendor         *VendorDetails    `json:"vendor,omitempty"`
	Client         *ClientDetails    `json:"client,omitempty"`
	Quantity       int               `json:"quantity"`
	AgentID        *uuid.UUID        `json:"agent_id,omitempty"`
	Destination    string            `json:"destination"`
	Cost           decimal.Decimal   `json:"cost"`
	AmountReceived decimal.Decimal   `json:"amount_received"`
	Outstanding    decimal.Decimal   `json:"outstanding"`
	Status         enums.OrderStatus `json:"status"`
	Notes          *string           `json:"notes,omitempty"`
	AssignedAt     *time.Time        `json:"assigned_at,omitempty"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
	CancelledAt    *time.Time        `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// FromModel maps a stored row onto the order variant, rejecting rows whose
// populated columns disagree with their kind.
func FromModel(m models.DeliveryOrder) (OrderDTO, error) {
	dto := OrderDTO{
		ID:             m.ID,
		OrderNumber:    m.OrderNumber,
		Kind:           m.Kind,
		Quantity:       m.Quantity,
		AgentID:        m.AgentID,
		Destination:    m.Destination,
		Cost:           m.Cost,
		AmountReceived: m.AmountReceived,
		Outstanding:    Outstanding(m.Cost, m.AmountReceived),
		Status:         m.Status,
		Notes:          m.Notes,
		AssignedAt:     m.AssignedAt,
		CompletedAt:    m.CompletedAt,
		CancelledAt:    m.CancelledAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}

	switch m.Kind {
	case enums.OrderKindVendor:
		if m.VendorID == nil || m.WarehouseID == nil || m.ProductID == nil || m.ClientID != nil {
			return OrderDTO{}, fmt.Errorf("vendor order %s has inconsistent references", m.ID)
		}
		dto.Vendor = &VendorDetails{
			VendorID:          *m.VendorID,
			WarehouseID:       *m.WarehouseID,
			ProductID:         *m.ProductID,
			RecipientClientID: m.RecipientClientID,
		}
	case enums.OrderKindClient:
		if m.ClientID == nil || m.VendorID != nil || m.WarehouseID != nil || m.ProductID != nil {
			return OrderDTO{}, fmt.Errorf("client order %s has inconsistent references", m.ID)
		}
		dto.Client = &ClientDetails{ClientID: *m.ClientID}
	default:
		return OrderDTO{}, fmt.Errorf("order %s has unknown kind %q", m.ID, m.Kind)
	}
	return dto, nil
}

// Outstanding is the positive part of charged minus received.
func Outstanding(charged, received decimal.Decimal) decimal.Decimal {
	diff := charged.Sub(received)
	if diff.IsNegative() {
		return decimal.Zero
	}
	return diff
}
