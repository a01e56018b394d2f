package transfers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/internal/inventory"
	"github.com/angelmondragon/deliverydesk-backend/internal/vendors"
	"github.com/angelmondragon/deliverydesk-backend/internal/warehouses"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/angelmondragon/deliverydesk-backend/pkg/logger"
	"github.com/angelmondragon/deliverydesk-backend/pkg/metrics"
	"github.com/angelmondragon/deliverydesk-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StockLedger is the slice of the inventory ledger transfers depend on.
type StockLedger interface {
	QuantityInTx(ctx context.Context, tx *gorm.DB, key inventory.Key) (int, error)
	DecrementInTx(ctx context.Context, tx *gorm.DB, key inventory.Key, amount int) error
	IncrementInTx(ctx context.Context, tx *gorm.DB, key inventory.Key, amount int) error
}

type referenceGenerator interface {
	TransferReference() string
}

type ServiceParams struct {
	Tx            txRunner
	Repo          Repository
	Inventory     StockLedger
	VendorRepo    vendors.Repository
	WarehouseRepo warehouses.Repository
	References    referenceGenerator
	Metrics       *metrics.OperationMetrics
	Logger        *logger.Logger
}

// Service moves vendor stock between warehouses.
type Service interface {
	Transfer(ctx context.Context, input TransferInput) (*TransferDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*TransferDTO, error)
	List(ctx context.Context, filters ListFilters) (pagination.Page[TransferDTO], error)
}

type service struct {
	tx         txRunner
	repo       Repository
	inventory  StockLedger
	vendors    vendors.Repository
	warehouses warehouses.Repository
	refs       referenceGenerator
	metrics    *metrics.OperationMetrics
	logg       *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Tx == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner is required")
	case params.Repo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transfer repo is required")
	case params.Inventory == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "inventory ledger is required")
	case params.VendorRepo == nil, params.WarehouseRepo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "vendor and warehouse repos are required")
	case params.References == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reference generator is required")
	}
	return &service{
		tx:         params.Tx,
		repo:       params.Repo,
		inventory:  params.Inventory,
		vendors:    params.VendorRepo,
		warehouses: params.WarehouseRepo,
		refs:       params.References,
		metrics:    params.Metrics,
		logg:       params.Logger,
	}, nil
}

// Transfer validates every line against the source warehouse before writing
// anything. A single short line rejects the whole batch, and the error lists
// every line that could not be served.
func (s *service) Transfer(ctx context.Context, input TransferInput) (_ *TransferDTO, err error) {
	defer s.metrics.Observe("transfers.transfer", time.Now(), &err)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var created models.StockTransfer
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.ensureEndpoints(ctx, tx, input); err != nil {
			return err
		}

		var shortages []inventory.Shortage
		for _, line := range input.Items {
			available, err := s.inventory.QuantityInTx(ctx, tx, s.key(input, input.FromWarehouseID, line.ProductID))
			if err != nil {
				return err
			}
			if available < line.Quantity {
				shortages = append(shortages, inventory.ShortageFor(line.ProductID, line.Quantity, available))
			}
		}
		if len(shortages) > 0 {
			return inventory.InsufficientStock(shortages...)
		}

		transfer := models.StockTransfer{
			Reference:       s.refs.TransferReference(),
			VendorID:        input.VendorID,
			FromWarehouseID: input.FromWarehouseID,
			ToWarehouseID:   input.ToWarehouseID,
			Note:            trimmed(input.Note),
		}
		for _, line := range input.Items {
			if err := s.inventory.DecrementInTx(ctx, tx, s.key(input, input.FromWarehouseID, line.ProductID), line.Quantity); err != nil {
				return err
			}
			if err := s.inventory.IncrementInTx(ctx, tx, s.key(input, input.ToWarehouseID, line.ProductID), line.Quantity); err != nil {
				return err
			}
			transfer.TotalUnits += line.Quantity
			transfer.Lines = append(transfer.Lines, models.StockTransferLine{ProductID: line.ProductID, Quantity: line.Quantity})
		}

		if err := s.repo.WithTx(tx).Create(ctx, &transfer); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "record transfer")
		}
		created = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithVendorID(ctx, input.VendorID.String())
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"transfer_ref": created.Reference,
			"units":        created.TotalUnits,
		})
		s.logg.Info(logCtx, "stock transferred")
	}
	dto := FromModel(created)
	return &dto, nil
}

func validateInput(input TransferInput) error {
	if input.VendorID == uuid.Nil || input.FromWarehouseID == uuid.Nil || input.ToWarehouseID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor and warehouse ids are required")
	}
	if input.FromWarehouseID == input.ToWarehouseID {
		return pkgerrors.New(pkgerrors.CodeValidation, "source and destination warehouses must differ")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(input.Items))
	for i, line := range input.Items {
		if line.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "product id is required").
				WithDetails(map[string]any{"line": i})
		}
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero").
				WithDetails(map[string]any{"line": i, "product_id": line.ProductID})
		}
		if _, dup := seen[line.ProductID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate product line").
				WithDetails(map[string]any{"line": i, "product_id": line.ProductID})
		}
		seen[line.ProductID] = struct{}{}
	}
	return nil
}

// ensureEndpoints requires both warehouses to exist and to be linked to the
// vendor. Links are never created implicitly.
func (s *service) ensureEndpoints(ctx context.Context, tx *gorm.DB, input TransferInput) error {
	if _, err := s.vendors.WithTx(tx).FindByID(ctx, input.VendorID); err != nil {
		return vendors.MapLookupError(err)
	}
	for _, warehouseID := range []uuid.UUID{input.FromWarehouseID, input.ToWarehouseID} {
		if _, err := s.warehouses.WithTx(tx).FindByID(ctx, warehouseID); err != nil {
			return warehouses.MapLookupError(err)
		}
		if _, err := s.vendors.WithTx(tx).FindLink(ctx, input.VendorID, warehouseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "vendor is not linked to the warehouse").
					WithDetails(map[string]any{"warehouse_id": warehouseID})
			}
			return err
		}
	}
	return nil
}

func (s *service) key(input TransferInput, warehouseID, productID uuid.UUID) inventory.Key {
	return inventory.Key{VendorID: input.VendorID, WarehouseID: warehouseID, ProductID: productID}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*TransferDTO, error) {
	transfer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transfer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load transfer")
	}
	dto := FromModel(*transfer)
	return &dto, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) (pagination.Page[TransferDTO], error) {
	cursor, err := pagination.ParseCursor(filters.Pagination.Cursor)
	if err != nil {
		return pagination.Page[TransferDTO]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := filters.Pagination.Limit
	rows, err := s.repo.List(ctx, filters, cursor, pagination.LimitWithBuffer(limit))
	if err != nil {
		return pagination.Page[TransferDTO]{}, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list transfers")
	}
	items := make([]TransferDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromModel(row))
	}
	return pagination.BuildPage(items, limit, func(t TransferDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: t.CreatedAt, ID: t.ID}
	}), nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
