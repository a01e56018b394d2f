package controllers

import (
	"net/http"

	"github.com/angelmondragon/deliverydesk-backend/api/responses"
	"github.com/angelmondragon/deliverydesk-backend/api/validators"
	"github.com/angelmondragon/deliverydesk-backend/internal/auth"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/angelmondragon/deliverydesk-backend/pkg/logger"
)

// AuthVerify checks an email and password pair. No session is issued.
func AuthVerify(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var req auth.VerifyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.VerifyCredentials(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}
