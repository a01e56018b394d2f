package vendors

import (
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	"github.com/google/uuid"
)

// CreateVendorInput captures the fields required to register a vendor.
type CreateVendorInput struct {
	CompanyName string  `json:"company_name" validate:"required"`
	ContactName string  `json:"contact_name" validate:"required"`
	Phone       string  `json:"phone" validate:"required"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Address     *string `json:"address,omitempty"`
}

// LinkWarehouseInput authorizes a vendor at a warehouse for an optional contract window.
type LinkWarehouseInput struct {
	WarehouseID   uuid.UUID  `json:"warehouse_id" validate:"required"`
	ContractStart *time.Time `json:"contract_start,omitempty"`
	ContractEnd   *time.Time `json:"contract_end,omitempty"`
}

type VendorDTO struct {
	ID          uuid.UUID         `json:"id"`
	CompanyName string            `json:"company_name"`
	ContactName string            `json:"contact_name"`
	Phone       string            `json:"phone"`
	Email       *string           `json:"email,omitempty"`
	Address     *string           `json:"address,omitempty"`
	Status      enums.PartyStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

type LinkDTO struct {
	ID            uuid.UUID  `json:"id"`
	VendorID      uuid.UUID  `json:"vendor_id"`
	WarehouseID   uuid.UUID  `json:"warehouse_id"`
	ContractStart *time.Time `json:"contract_start,omitempty"`
	ContractEnd   *time.Time `json:"contract_end,omitempty"`
}

func FromModel(m models.Vendor) VendorDTO {
	return VendorDTO{
		ID:          m.ID,
		CompanyName: m.CompanyName,
		ContactName: m.ContactName,
		Phone:       m.Phone,
		Email:       m.Email,
		Address:     m.Address,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
	}
}

func linkFromModel(m models.VendorWarehouse) LinkDTO {
	return LinkDTO{
		ID:            m.ID,
		VendorID:      m.VendorID,
		WarehouseID:   m.WarehouseID,
		ContractStart: m.ContractStart,
		ContractEnd:   m.ContractEnd,
	}
}
