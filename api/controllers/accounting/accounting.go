package accounting

import (
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/api/responses"
	"github.com/angelmondragon/deliverydesk-backend/api/validators"
	internalaccounting "github.com/angelmondragon/deliverydesk-backend/internal/accounting"
	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/angelmondragon/deliverydesk-backend/pkg/logger"
)

// Summary serves income, expenses and profit for the period containing `at`
// (defaults to now).
func Summary(svc internalaccounting.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("period")))
		if raw == "" {
			raw = string(enums.SummaryPeriodMonthly)
		}
		period, err := enums.ParseSummaryPeriod(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "period must be daily, weekly or monthly"))
			return
		}
		at, err := atParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.SummaryByPeriod(r.Context(), period, at)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// Performance serves weekly and monthly delivery success rates, optionally
// narrowed to one client, vendor or agent.
func Performance(svc internalaccounting.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			filter internalaccounting.PerformanceFilter
			err    error
		)
		if filter.ClientID, err = validators.ParseQueryUUID(r, "client_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.VendorID, err = validators.ParseQueryUUID(r, "vendor_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.AgentID, err = validators.ParseQueryUUID(r, "agent_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		at, err := atParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.ClientPerformanceStats(r.Context(), filter, at)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func RecordExpense(svc internalaccounting.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input internalaccounting.RecordExpenseInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Description = validators.SanitizeString(input.Description, 1000)

		expense, err := svc.RecordExpense(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, expense)
	}
}

// ListExpenses requires a from/to range; to is exclusive.
func ListExpenses(svc internalaccounting.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := validators.ParseQueryTime(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryTime(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if from == nil || to == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "from and to are required"))
			return
		}
		items, err := svc.ListExpenses(r.Context(), *from, *to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func atParam(r *http.Request) (time.Time, error) {
	at, err := validators.ParseQueryTime(r, "at")
	if err != nil || at == nil {
		return time.Time{}, err
	}
	return *at, nil
}
