package warehouses

import (
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	"github.com/google/uuid"
)

// CreateWarehouseInput captures the fields required to open a warehouse.
type CreateWarehouseInput struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location" validate:"required"`
	Capacity int    `json:"capacity" validate:"gte=0"`
}

// WarehouseDTO is the read model returned to callers.
type WarehouseDTO struct {
	ID        uuid.UUID             `json:"id"`
	Name      string                `json:"name"`
	Location  string                `json:"location"`
	Capacity  int                   `json:"capacity"`
	Items     int                   `json:"items"`
	Status    enums.WarehouseStatus `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// FromModel maps a warehouse row into its DTO.
func FromModel(m models.Warehouse) WarehouseDTO {
	return WarehouseDTO{
		ID:        m.ID,
		Name:      m.Name,
		Location:  m.Location,
		Capacity:  m.Capacity,
		Items:     m.Items,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
