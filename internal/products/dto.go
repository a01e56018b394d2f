package products

import (
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductInput captures a new product for a vendor.
type CreateProductInput struct {
	VendorID uuid.UUID       `json:"vendor_id" validate:"required"`
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	SKU      *string         `json:"sku,omitempty"`
}

type ProductDTO struct {
	ID        uuid.UUID       `json:"id"`
	VendorID  uuid.UUID       `json:"vendor_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	SKU       *string         `json:"sku,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func FromModel(m models.Product) ProductDTO {
	return ProductDTO{
		ID:        m.ID,
		VendorID:  m.VendorID,
		Name:      m.Name,
		Price:     m.Price,
		SKU:       m.SKU,
		CreatedAt: m.CreatedAt,
	}
}
