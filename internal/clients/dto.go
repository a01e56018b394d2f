package clients

import (
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/google/uuid"
)

type CreateClientInput struct {
	FullName string  `json:"full_name" validate:"required"`
	Phone    string  `json:"phone" validate:"required"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Address  *string `json:"address,omitempty"`
}

type ClientDTO struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(m models.Client) ClientDTO {
	return ClientDTO{ID: m.ID, FullName: m.FullName, Phone: m.Phone, Email: m.Email, Address: m.Address, CreatedAt: m.CreatedAt}
}
