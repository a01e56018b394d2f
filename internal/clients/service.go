package clients

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

// Service exposes regular client operations.
type Service interface {
	Create(ctx context.Context, input CreateClientInput) (*ClientDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ClientDTO, error)
	List(ctx context.Context) ([]ClientDTO, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("client repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateClientInput) (*ClientDTO, error) {
	name := strings.TrimSpace(input.FullName)
	phone := strings.TrimSpace(input.Phone)
	if name == "" || phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name and phone are required")
	}
	c := &models.Client{FullName: name, Phone: phone, Email: input.Email, Address: input.Address}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "create client")
	}
	dto := FromModel(*c)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ClientDTO, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, MapLookupError(err)
	}
	dto := FromModel(*c)
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]ClientDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list clients")
	}
	out := make([]ClientDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

// MapLookupError converts a repository lookup failure into a typed error.
func MapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load client")
}
