package controllers

import (
	"net/http"

	"github.com/retailpos/backoffice/api/responses"
	reportsvc "github.com/retailpos/backoffice/internal/reports"
	pkgerrors "github.com/retailpos/backoffice/pkg/errors"
	"github.com/retailpos/backoffice/pkg/logger"
)

// DashboardStats returns the landing-page counters.
func DashboardStats(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		stats, err := svc.DashboardStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
