package transfers

import (
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/pagination"
	"github.com/google/uuid"
)

type LineInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// TransferInput moves stock of one vendor between two warehouses.
type TransferInput struct {
	VendorID        uuid.UUID   `json:"vendor_id" validate:"required"`
	FromWarehouseID uuid.UUID   `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   uuid.UUID   `json:"to_warehouse_id" validate:"required"`
	Items           []LineInput `json:"items" validate:"required,min=1,dive"`
	Note            *string     `json:"note,omitempty"`
}

type ListFilters struct {
	VendorID    *uuid.UUID
	WarehouseID *uuid.UUID
	Pagination  pagination.Params
}

type LineDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type TransferDTO struct {
	ID              uuid.UUID `json:"id"`
	Reference       string    `json:"reference"`
	VendorID        uuid.UUID `json:"vendor_id"`
	FromWarehouseID uuid.UUID `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID `json:"to_warehouse_id"`
	Note            *string   `json:"note,omitempty"`
	TotalUnits      int       `json:"total_units"`
	Lines           []LineDTO `json:"lines"`
	CreatedAt       time.Time `json:"created_at"`
}

func FromModel(m models.StockTransfer) TransferDTO {
	lines := make([]LineDTO, 0, len(m.Lines))
	for _, line := range m.Lines {
		lines = append(lines, LineDTO{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return TransferDTO{
		ID:              m.ID,
		Reference:       m.Reference,
		VendorID:        m.VendorID,
		FromWarehouseID: m.FromWarehouseID,
		ToWarehouseID:   m.ToWarehouseID,
		Note:            m.Note,
		TotalUnits:      m.TotalUnits,
		Lines:           lines,
		CreatedAt:       m.CreatedAt,
	}
}
