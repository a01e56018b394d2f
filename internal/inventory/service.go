package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/internal/products"
	"github.com/angelmondragon/deliverydesk-backend/internal/vendors"
	"github.com/angelmondragon/deliverydesk-backend/internal/warehouses"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/angelmondragon/deliverydesk-backend/pkg/logger"
	"github.com/angelmondragon/deliverydesk-backend/pkg/metrics"
	"github.com/angelmondragon/deliverydesk-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReasonNoStock      = "no_stock"
	ReasonInsufficient = "insufficient_quantity"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the inventory ledger.
type ServiceParams struct {
	Tx            txRunner
	Repo          Repository
	WarehouseRepo warehouses.Repository
	VendorRepo    vendors.Repository
	ProductRepo   products.Repository
	Metrics       *metrics.OperationMetrics
	Logger        *logger.Logger
}

// Service is the only writer of inventory quantities and warehouse item
// counters. Every mutation moves both inside one transaction.
type Service interface {
	GetQuantity(ctx context.Context, key Key) (int, error)
	ReserveAndDecrement(ctx context.Context, key Key, amount int) error
	Increment(ctx context.Context, key Key, amount int) error
	SetQuantity(ctx context.Context, inventoryID uuid.UUID, quantity int) (*ItemDTO, error)
	Reconcile(ctx context.Context, warehouseID *uuid.UUID) ([]Drift, error)
	List(ctx context.Context, filters ListFilters) (pagination.Page[ItemView], error)

	QuantityInTx(ctx context.Context, tx *gorm.DB, key Key) (int, error)
	DecrementInTx(ctx context.Context, tx *gorm.DB, key Key, amount int) error
	IncrementInTx(ctx context.Context, tx *gorm.DB, key Key, amount int) error
	RestockInTx(ctx context.Context, tx *gorm.DB, key Key, amount int) error
}

type service struct {
	tx         txRunner
	repo       Repository
	warehouses warehouses.Repository
	vendors    vendors.Repository
	products   products.Repository
	metrics    *metrics.OperationMetrics
	logg       *logger.Logger
}

// NewService builds the inventory ledger.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner is required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "inventory repo is required")
	}
	if params.WarehouseRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "warehouse repo is required")
	}
	if params.VendorRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "vendor repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product repo is required")
	}
	return &service{
		tx:         params.Tx,
		repo:       params.Repo,
		warehouses: params.WarehouseRepo,
		vendors:    params.VendorRepo,
		products:   params.ProductRepo,
		metrics:    params.Metrics,
		logg:       params.Logger,
	}, nil
}

// GetQuantity reports the units held for key; a missing row is zero stock.
func (s *service) GetQuantity(ctx context.Context, key Key) (int, error) {
	if !key.valid() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "vendor, warehouse and product ids are required")
	}
	item, err := s.repo.FindByKey(ctx, key, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load inventory")
	}
	return item.Quantity, nil
}

func (s *service) ReserveAndDecrement(ctx context.Context, key Key, amount int) (err error) {
	defer s.metrics.Observe("inventory.decrement", time.Now(), &err)
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.DecrementInTx(ctx, tx, key, amount)
	})
}

func (s *service) Increment(ctx context.Context, key Key, amount int) (err error) {
	defer s.metrics.Observe("inventory.increment", time.Now(), &err)
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.IncrementInTx(ctx, tx, key, amount)
	})
}

func (s *service) QuantityInTx(ctx context.Context, tx *gorm.DB, key Key) (int, error) {
	if !key.valid() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "vendor, warehouse and product ids are required")
	}
	item, err := s.repo.WithTx(tx).FindByKey(ctx, key, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return item.Quantity, nil
}

// DecrementInTx removes amount units of key inside tx, failing with
// INSUFFICIENT_STOCK without touching anything when the row cannot cover it.
func (s *service) DecrementInTx(ctx context.Context, tx *gorm.DB, key Key, amount int) error {
	if amount <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	available, err := s.QuantityInTx(ctx, tx, key)
	if err != nil {
		return err
	}
	if available < amount {
		return InsufficientStock(ShortageFor(key.ProductID, amount, available))
	}

	rows, err := s.repo.WithTx(tx).Decrement(ctx, key, amount)
	if err != nil {
		return err
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "inventory changed concurrently")
	}
	return s.applyItems(ctx, tx, key.WarehouseID, -amount)
}

// IncrementInTx adds amount units to key inside tx, creating the row on first
// registration. The vendor must be linked to the warehouse and own the product.
func (s *service) IncrementInTx(ctx context.Context, tx *gorm.DB, key Key, amount int) error {
	if amount <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	if !key.valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor, warehouse and product ids are required")
	}
	if err := s.ensureStockable(ctx, tx, key); err != nil {
		return err
	}

	repo := s.repo.WithTx(tx)
	rows, err := repo.Add(ctx, key, amount)
	if err != nil {
		return err
	}
	if rows == 0 {
		item := &models.InventoryItem{
			VendorID:    key.VendorID,
			WarehouseID: key.WarehouseID,
			ProductID:   key.ProductID,
			Quantity:    amount,
		}
		if err := repo.Insert(ctx, item); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "inventory row created concurrently")
			}
			return err
		}
	}
	return s.applyItems(ctx, tx, key.WarehouseID, amount)
}

// RestockInTx returns previously reserved units to key. Unlike IncrementInTx
// it does not require a live vendor link: the units were already held there.
func (s *service) RestockInTx(ctx context.Context, tx *gorm.DB, key Key, amount int) error {
	if amount <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	repo := s.repo.WithTx(tx)
	rows, err := repo.Add(ctx, key, amount)
	if err != nil {
		return err
	}
	if rows == 0 {
		item := &models.InventoryItem{
			VendorID:    key.VendorID,
			WarehouseID: key.WarehouseID,
			ProductID:   key.ProductID,
			Quantity:    amount,
		}
		if err := repo.Insert(ctx, item); err != nil {
			return err
		}
	}
	return s.applyItems(ctx, tx, key.WarehouseID, amount)
}

func (s *service) ensureStockable(ctx context.Context, tx *gorm.DB, key Key) error {
	if _, err := s.vendors.WithTx(tx).FindLink(ctx, key.VendorID, key.WarehouseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "vendor is not linked to the warehouse").
				WithDetails(map[string]any{"vendor_id": key.VendorID, "warehouse_id": key.WarehouseID})
		}
		return err
	}
	product, err := s.products.WithTx(tx).FindByID(ctx, key.ProductID)
	if err != nil {
		return products.MapLookupError(err)
	}
	if product.VendorID != key.VendorID {
		return pkgerrors.New(pkgerrors.CodeValidation, "product does not belong to the vendor")
	}
	return nil
}

// SetQuantity overrides the quantity of one row and moves the warehouse
// counter by the difference. The write is a compare-and-set on the quantity
// that was read, so a concurrent change forces a retry instead of a lost update.
func (s *service) SetQuantity(ctx context.Context, inventoryID uuid.UUID, quantity int) (_ *ItemDTO, err error) {
	defer s.metrics.Observe("inventory.set_quantity", time.Now(), &err)
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be zero or greater")
	}

	var out models.InventoryItem
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := repo.FindByID(ctx, inventoryID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
			}
			return err
		}
		delta := quantity - item.Quantity
		if delta == 0 {
			out = *item
			return nil
		}
		rows, err := repo.CompareAndSet(ctx, item.ID, item.Quantity, quantity)
		if err != nil {
			return err
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "inventory changed concurrently")
		}
		if err := s.applyItems(ctx, tx, item.WarehouseID, delta); err != nil {
			return err
		}
		updated, err := repo.FindByID(ctx, item.ID, false)
		if err != nil {
			return err
		}
		out = *updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := FromModel(out)
	return &dto, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) (pagination.Page[ItemView], error) {
	cursor, err := pagination.ParseCursor(filters.Pagination.Cursor)
	if err != nil {
		return pagination.Page[ItemView]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := filters.Pagination.Limit
	rows, err := s.repo.List(ctx, filters, cursor, pagination.LimitWithBuffer(limit))
	if err != nil {
		return pagination.Page[ItemView]{}, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list inventory")
	}
	if rows == nil {
		rows = []ItemView{}
	}
	return pagination.BuildPage(rows, limit, func(v ItemView) pagination.Cursor {
		return pagination.Cursor{CreatedAt: v.CreatedAt, ID: v.ID}
	}), nil
}

func (s *service) applyItems(ctx context.Context, tx *gorm.DB, warehouseID uuid.UUID, delta int) error {
	if err := s.warehouses.WithTx(tx).ApplyItemsDelta(ctx, warehouseID, delta); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		case delta < 0 && db.IsCheckViolation(err):
			if s.logg != nil {
				s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
					"warehouse_id": warehouseID.String(),
					"delta":        delta,
					"remedy":       ReconcileHint,
				}), "warehouse item counter below stocked units")
			}
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err,
				"warehouse item counter is out of sync with inventory; "+ReconcileHint).
				WithDetails(map[string]any{"warehouse_id": warehouseID})
		}
		return err
	}
	return nil
}

// ReconcileHint names the operation that repairs a drifted item counter.
const ReconcileHint = "run POST /api/v1/warehouses/reconcile"

// ShortageFor describes a line that asked for requested units with only
// available units on hand.
func ShortageFor(productID uuid.UUID, requested, available int) Shortage {
	reason := ReasonInsufficient
	if available == 0 {
		reason = ReasonNoStock
	}
	return Shortage{ProductID: productID, Requested: requested, Available: available, Reason: reason}
}

// InsufficientStock builds the typed rejection carrying every failing line.
func InsufficientStock(shortages ...Shortage) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
		WithDetails(map[string]any{"lines": shortages})
}
