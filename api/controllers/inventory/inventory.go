package inventory

import (
	"net/http"

	"github.com/angelmondragon/deliverydesk-backend/api/responses"
	"github.com/angelmondragon/deliverydesk-backend/api/validators"
	internalinventory "github.com/angelmondragon/deliverydesk-backend/internal/inventory"
	"github.com/angelmondragon/deliverydesk-backend/pkg/logger"
)

func List(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			filters internalinventory.ListFilters
			err     error
		)
		if filters.VendorID, err = validators.ParseQueryUUID(r, "vendor_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.WarehouseID, err = validators.ParseQueryUUID(r, "warehouse_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.ProductID, err = validators.ParseQueryUUID(r, "product_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.Pagination, err = validators.ParsePagination(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AddStock registers incoming units for a vendor at a linked warehouse and
// returns the resulting quantity.
func AddStock(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input internalinventory.StockInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithVendorID(r.Context(), input.VendorID.String())
		ctx = logg.WithWarehouseID(ctx, input.WarehouseID.String())

		if err := svc.Increment(ctx, input.Key, input.Quantity); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		qty, err := svc.GetQuantity(ctx, input.Key)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"vendor_id":    input.VendorID,
			"warehouse_id": input.WarehouseID,
			"product_id":   input.ProductID,
			"quantity":     qty,
		})
	}
}

func SetQuantity(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inventoryID, err := validators.ParseURLUUID(r, "inventoryId", "inventory id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input internalinventory.SetQuantityInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.SetQuantity(r.Context(), inventoryID, *input.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// Reconcile recomputes cached warehouse item counters. An optional
// warehouse_id query parameter limits the pass to one warehouse.
func Reconcile(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		warehouseID, err := validators.ParseQueryUUID(r, "warehouse_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		drift, err := svc.Reconcile(r.Context(), warehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if drift == nil {
			drift = []internalinventory.Drift{}
		}
		responses.WriteSuccess(w, map[string]any{"repaired": drift})
	}
}
