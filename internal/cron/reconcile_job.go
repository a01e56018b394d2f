package cron

import (
	"context"
	"errors"

	"github.com/angelmondragon/deliverydesk-backend/internal/inventory"
	"github.com/angelmondragon/deliverydesk-backend/pkg/logger"
	"github.com/angelmondragon/deliverydesk-backend/pkg/metrics"
	"github.com/google/uuid"
)

const ReconcileJobName = "inventory_reconcile"

type reconciler interface {
	Reconcile(ctx context.Context, warehouseID *uuid.UUID) ([]inventory.Drift, error)
}

// ReconcileJobParams configure the warehouse item-count reconciliation job.
type ReconcileJobParams struct {
	Logger    *logger.Logger
	Inventory reconciler
	Metrics   *metrics.CronJobMetrics
}

// ReconcileJob recomputes every warehouse's cached item count from its
// inventory rows and logs each warehouse that had drifted.
type ReconcileJob struct {
	logg      *logger.Logger
	inventory reconciler
	metrics   *metrics.CronJobMetrics
}

func NewReconcileJob(params ReconcileJobParams) (*ReconcileJob, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Inventory == nil {
		return nil, errors.New("inventory service required")
	}
	return &ReconcileJob{
		logg:      params.Logger,
		inventory: params.Inventory,
		metrics:   params.Metrics,
	}, nil
}

func (j *ReconcileJob) Name() string { return ReconcileJobName }

func (j *ReconcileJob) Run(ctx context.Context) error {
	drifts, err := j.inventory.Reconcile(ctx, nil)
	if err != nil {
		return err
	}
	for _, d := range drifts {
		driftCtx := j.logg.WithFields(ctx, map[string]any{
			"warehouse_id": d.WarehouseID.String(),
			"cached_items": d.CachedItems,
			"actual_items": d.ActualItems,
		})
		j.logg.Warn(driftCtx, "warehouse item count drifted; repaired")
	}
	j.metrics.AddRepaired(ReconcileJobName, len(drifts))
	return nil
}
