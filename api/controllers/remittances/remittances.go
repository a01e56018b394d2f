package remittances

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/deliverydesk-backend/api/responses"
	"github.com/angelmondragon/deliverydesk-backend/api/validators"
	internalremittances "github.com/angelmondragon/deliverydesk-backend/internal/remittances"
	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/angelmondragon/deliverydesk-backend/pkg/logger"
)

// Compute bills a party for a set of orders within a period.
func Compute(svc internalremittances.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input internalremittances.ComputeInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		remittance, err := svc.Compute(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, remittance)
	}
}

func RecordPayment(svc internalremittances.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "remittanceId", "remittance id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input internalremittances.RecordPaymentInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithField(r.Context(), "remittance_id", id.String())
		remittance, err := svc.RecordPayment(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, remittance)
	}
}

func Detail(svc internalremittances.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "remittanceId", "remittance id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		remittance, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, remittance)
	}
}

func List(svc internalremittances.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			filters internalremittances.ListFilters
			err     error
		)
		q := r.URL.Query()
		if raw := strings.TrimSpace(q.Get("party_type")); raw != "" {
			pt, err := enums.ParsePartyType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid party type"))
				return
			}
			filters.PartyType = &pt
		}
		if raw := strings.TrimSpace(q.Get("status")); raw != "" {
			st, err := enums.ParseRemittanceStatus(strings.ToUpper(raw))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filters.Status = &st
		}
		if filters.PartyID, err = validators.ParseQueryUUID(r, "party_id"); err != nil {
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
