package warehouses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes warehouse directory operations. The cached item counter is
// maintained by the inventory ledger, never here.
type Service interface {
	Create(ctx context.Context, input CreateWarehouseInput) (*WarehouseDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*WarehouseDTO, error)
	List(ctx context.Context) ([]WarehouseDTO, error)
}

type service struct {
	repo Repository
}

// NewService wires a warehouse service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("warehouse repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateWarehouseInput) (*WarehouseDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Capacity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity must be zero or greater")
	}

	wh := &models.Warehouse{
		Name:     name,
		Location: strings.TrimSpace(input.Location),
		Capacity: input.Capacity,
		Status:   models.StatusFor(0, input.Capacity),
	}
	if err := s.repo.Create(ctx, wh); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "create warehouse")
	}
	dto := FromModel(*wh)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*WarehouseDTO, error) {
	wh, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, MapLookupError(err)
	}
	dto := FromModel(*wh)
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]WarehouseDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list warehouses")
	}
	out := make([]WarehouseDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

// MapLookupError converts a repository lookup failure into a typed error.
func MapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load warehouse")
}
