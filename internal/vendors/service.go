package vendors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/deliverydesk-backend/internal/warehouses"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes vendor directory operations.
type Service interface {
	Create(ctx context.Context, input CreateVendorInput) (*VendorDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*VendorDTO, error)
	List(ctx context.Context) ([]VendorDTO, error)
	LinkWarehouse(ctx context.Context, vendorID uuid.UUID, input LinkWarehouseInput) (*LinkDTO, error)
	UnlinkWarehouse(ctx context.Context, vendorID, warehouseID uuid.UUID) error
	ListLinks(ctx context.Context, vendorID uuid.UUID) ([]LinkDTO, error)
}

type warehouseLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
}

type service struct {
	repo       Repository
	warehouses warehouseLookup
}

// NewService wires a vendor service.
func NewService(repo Repository, warehouseRepo warehouseLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if warehouseRepo == nil {
		return nil, fmt.Errorf("warehouse repository required")
	}
	return &service{repo: repo, warehouses: warehouseRepo}, nil
}

func (s *service) Create(ctx context.Context, input CreateVendorInput) (*VendorDTO, error) {
	company := strings.TrimSpace(input.CompanyName)
	if company == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}

	vendor := &models.Vendor{
		CompanyName: company,
		ContactName: strings.TrimSpace(input.ContactName),
		Phone:       strings.TrimSpace(input.Phone),
		Email:       input.Email,
		Address:     input.Address,
		Status:      enums.PartyStatusActive,
	}
	if err := s.repo.Create(ctx, vendor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "create vendor")
	}
	dto := FromModel(*vendor)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*VendorDTO, error) {
	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, MapLookupError(err)
	}
	dto := FromModel(*vendor)
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]VendorDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list vendors")
	}
	out := make([]VendorDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

func (s *service) LinkWarehouse(ctx context.Context, vendorID uuid.UUID, input LinkWarehouseInput) (*LinkDTO, error) {
	if input.ContractStart != nil && input.ContractEnd != nil && input.ContractEnd.Before(*input.ContractStart) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contract end must not precede contract start")
	}
	if _, err := s.repo.FindByID(ctx, vendorID); err != nil {
		return nil, MapLookupError(err)
	}
	if _, err := s.warehouses.FindByID(ctx, input.WarehouseID); err != nil {
		return nil, warehouses.MapLookupError(err)
	}

	link := &models.VendorWarehouse{
		VendorID:      vendorID,
		WarehouseID:   input.WarehouseID,
		ContractStart: input.ContractStart,
		ContractEnd:   input.ContractEnd,
	}
	if err := s.repo.CreateLink(ctx, link); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "vendor is already linked to this warehouse")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "link warehouse")
	}
	dto := linkFromModel(*link)
	return &dto, nil
}

// UnlinkWarehouse removes an authorization. A vendor still holding stock at
// the warehouse cannot be unlinked.
func (s *service) UnlinkWarehouse(ctx context.Context, vendorID, warehouseID uuid.UUID) error {
	stocked, err := s.repo.HasStockAt(ctx, vendorID, warehouseID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "check vendor stock")
	}
	if stocked {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "vendor still holds stock at this warehouse")
	}
	removed, err := s.repo.DeleteLink(ctx, vendorID, warehouseID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "unlink warehouse")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "vendor is not linked to this warehouse")
	}
	return nil
}

func (s *service) ListLinks(ctx context.Context, vendorID uuid.UUID) ([]LinkDTO, error) {
	links, err := s.repo.ListLinks(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list vendor warehouses")
	}
	out := make([]LinkDTO, 0, len(links))
	for _, link := range links {
		out = append(out, linkFromModel(link))
	}
	return out, nil
}

// MapLookupError converts a repository lookup failure into a typed error.
func MapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load vendor")
}
