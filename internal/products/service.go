package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/deliverydesk-backend/internal/vendors"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes product catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]ProductDTO, error)
}

type vendorLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
}

type service struct {
	repo    Repository
	vendors vendorLookup
}

// NewService wires a product service.
func NewService(repo Repository, vendorRepo vendorLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if vendorRepo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	return &service{repo: repo, vendors: vendorRepo}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be zero or greater")
	}
	if _, err := s.vendors.FindByID(ctx, input.VendorID); err != nil {
		return nil, vendors.MapLookupError(err)
	}

	var sku *string
	if input.SKU != nil {
		if trimmed := strings.ToUpper(strings.TrimSpace(*input.SKU)); trimmed != "" {
			sku = &trimmed
		}
	}

	product := &models.Product{
		VendorID: input.VendorID,
		Name:     name,
		Price:    input.Price.Round(2),
		SKU:      sku,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "create product")
	}
	dto := FromModel(*product)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, MapLookupError(err)
	}
	dto := FromModel(*product)
	return &dto, nil
}

func (s *service) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

// MapLookupError converts a repository lookup failure into a typed error.
func MapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load product")
}
