package agents

import (
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	"github.com/google/uuid"
)

type CreateAgentInput struct {
	FullName    string    `json:"full_name" validate:"required"`
	Email       string    `json:"email" validate:"required,email"`
	Phone       string    `json:"phone" validate:"required"`
	WarehouseID uuid.UUID `json:"warehouse_id" validate:"required"`
}

type AgentDTO struct {
	ID          uuid.UUID         `json:"id"`
	FullName    string            `json:"full_name"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	Status      enums.PartyStatus `json:"status"`
	WarehouseID uuid.UUID         `json:"warehouse_id"`
	CreatedAt   time.Time         `json:"created_at"`
}

func FromModel(m models.Agent) AgentDTO {
	return AgentDTO{ID: m.ID, FullName: m.FullName, Email: m.Email, Phone: m.Phone, Status: m.Status, WarehouseID: m.WarehouseID, CreatedAt: m.CreatedAt}
}
