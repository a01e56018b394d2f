package warehouses

import (
	"context"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository manages persistence for warehouses and their cached item counters.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, wh *models.Warehouse) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	List(ctx context.Context) ([]models.Warehouse, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	ApplyItemsDelta(ctx context.Context, id uuid.UUID, delta int) error
	SetItems(ctx context.Context, id uuid.UUID, items int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a warehouse repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, wh *models.Warehouse) error {
	return r.db.WithContext(ctx).Create(wh).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	var wh models.Warehouse
	if err := r.db.WithContext(ctx).First(&wh, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &wh, nil
}

// FindByIDForUpdate row-locks the warehouse until the surrounding transaction
// ends. Every writer of the item counter updates this row, so holding the lock
// waits out in-flight ledger writes.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	var wh models.Warehouse
	if err := db.ForUpdate(r.db.WithContext(ctx)).First(&wh, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *repository) List(ctx context.Context) ([]models.Warehouse, error) {
	var rows []models.Warehouse
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.Warehouse{}).Order("name ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ApplyItemsDelta adjusts the cached item count by delta and recomputes the
// status in the same statement, so no read-modify-write window exists.
func (r *repository) ApplyItemsDelta(ctx context.Context, id uuid.UUID, delta int) error {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE warehouses
		    SET items = items + ?,
		        status = CASE WHEN items + ? >= capacity THEN 'full' ELSE 'active' END,
		        updated_at = ?
		  WHERE id = ?`,
		delta, delta, time.Now().UTC(), id,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetItems overwrites the cached item count, used by reconciliation.
func (r *repository) SetItems(ctx context.Context, id uuid.UUID, items int) error {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE warehouses
		    SET items = ?,
		        status = CASE WHEN ? >= capacity THEN 'full' ELSE 'active' END,
		        updated_at = ?
		  WHERE id = ?`,
		items, items, time.Now().UTC(), id,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
