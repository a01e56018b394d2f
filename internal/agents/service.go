package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/deliverydesk-backend/internal/warehouses"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes delivery agent operations.
type Service interface {
	Create(ctx context.Context, input CreateAgentInput) (*AgentDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*AgentDTO, error)
	List(ctx context.Context, warehouseID *uuid.UUID) ([]AgentDTO, error)
}

type warehouseLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
}

type service struct {
	repo       Repository
	warehouses warehouseLookup
}

func NewService(repo Repository, warehouseRepo warehouseLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("agent repository required")
	}
	if warehouseRepo == nil {
		return nil, fmt.Errorf("warehouse repository required")
	}
	return &service{repo: repo, warehouses: warehouseRepo}, nil
}

func (s *service) Create(ctx context.Context, input CreateAgentInput) (*AgentDTO, error) {
	name := strings.TrimSpace(input.FullName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name and a valid email are required")
	}
	if _, err := s.warehouses.FindByID(ctx, input.WarehouseID); err != nil {
		return nil, warehouses.MapLookupError(err)
	}

	a := &models.Agent{
		FullName:    name,
		Email:       email,
		Phone:       strings.TrimSpace(input.Phone),
		Status:      enums.PartyStatusActive,
		WarehouseID: input.WarehouseID,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "create agent")
	}
	dto := FromModel(*a)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*AgentDTO, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, MapLookupError(err)
	}
	dto := FromModel(*a)
	return &dto, nil
}

func (s *service) List(ctx context.Context, warehouseID *uuid.UUID) ([]AgentDTO, error) {
	rows, err := s.repo.List(ctx, warehouseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list agents")
	}
	out := make([]AgentDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

// MapLookupError converts a repository lookup failure into a typed error.
func MapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load agent")
}
