package inventory

import (
	"context"
	"fmt"

	"github.com/angelmondragon/deliverydesk-backend/internal/warehouses"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// Reconcile recomputes the cached item count of one warehouse, or of every
// warehouse when warehouseID is nil, from the inventory rows. It returns the
// warehouses whose cache had drifted. Each warehouse is repaired in its own
// transaction so one failure does not block the rest.
func (s *service) Reconcile(ctx context.Context, warehouseID *uuid.UUID) ([]Drift, error) {
	var ids []uuid.UUID
	if warehouseID != nil {
		if _, err := s.warehouses.FindByID(ctx, *warehouseID); err != nil {
			return nil, warehouses.MapLookupError(err)
		}
		ids = []uuid.UUID{*warehouseID}
	} else {
		all, err := s.warehouses.ListIDs(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list warehouses")
		}
		ids = all
	}

	drifts := make([]Drift, 0)
	var errs error
	for _, id := range ids {
		drift, err := s.reconcileOne(ctx, id)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("warehouse %s: %w", id, err))
			continue
		}
		if drift != nil {
			drifts = append(drifts, *drift)
		}
	}

	if errs != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "warehouse reconciliation incomplete", errs)
		}
		return drifts, pkgerrors.Wrap(pkgerrors.CodePersistence, errs, "reconciliation incomplete")
	}
	if len(drifts) > 0 && s.logg != nil {
		ctx = s.logg.WithField(ctx, "repaired", len(drifts))
		s.logg.Warn(ctx, "warehouse item counters repaired")
	}
	return drifts, nil
}

func (s *service) reconcileOne(ctx context.Context, warehouseID uuid.UUID) (*Drift, error) {
	var drift *Drift
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		whRepo := s.warehouses.WithTx(tx)
		// lock first so the sum below sees every committed ledger write
		wh, err := whRepo.FindByIDForUpdate(ctx, warehouseID)
		if err != nil {
			return err
		}
		actual, err := s.repo.WithTx(tx).SumAtWarehouse(ctx, warehouseID)
		if err != nil {
			return err
		}
		if wh.Items == actual && wh.Status == models.StatusFor(actual, wh.Capacity) {
			return nil
		}
		if err := whRepo.SetItems(ctx, warehouseID, actual); err != nil {
			return err
		}
		drift = &Drift{WarehouseID: warehouseID, CachedItems: wh.Items, ActualItems: actual}
		return nil
	})
	return drift, err
}
