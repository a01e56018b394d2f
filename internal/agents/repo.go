package agents

import (
	"context"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository manages delivery agent persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, a *models.Agent) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Agent, error)
	List(ctx context.Context, warehouseID *uuid.UUID) ([]models.Agent, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, a *models.Agent) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	var a models.Agent
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) List(ctx context.Context, warehouseID *uuid.UUID) ([]models.Agent, error) {
	q := r.db.WithContext(ctx).Order("full_name ASC")
	if warehouseID != nil {
		q = q.Where("warehouse_id = ?", *warehouseID)
	}
	var rows []models.Agent
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
