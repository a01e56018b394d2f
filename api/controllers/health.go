package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/api/responses"
	"github.com/angelmondragon/deliverydesk-backend/pkg/config"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/angelmondragon/deliverydesk-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DeliveryDesk-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the database answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DeliveryDesk-Env", cfg.App.Env)
		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "database not configured"))
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "database unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready", "database": cfg.DB.Driver})
	}
}
