package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/retailpos/backoffice/api/middleware"
	"github.com/retailpos/backoffice/api/responses"
	"github.com/retailpos/backoffice/api/validators"
	inventorysvc "github.com/retailpos/backoffice/internal/inventory"
	"github.com/retailpos/backoffice/pkg/enums"
	pkgerrors "github.com/retailpos/backoffice/pkg/errors"
	"github.com/retailpos/backoffice/pkg/logger"
)

type adjustStockRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Type      string  `json:"type" validate:"required,oneof=restock adjustment"`
	Quantity  int     `json:"quantity" validate:"required"`
	Note      *string `json:"note,omitempty"`
}

// AdjustStock records a manual stock movement and updates the counter.
func AdjustStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		txnType, err := enums.ParseInventoryTransactionType(strings.TrimSpace(payload.Type))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction type"))
			return
		}

		dto, err := svc.Adjust(r.Context(), inventorysvc.AdjustInput{
			ProductID: productID,
			Type:      txnType,
			Quantity:  payload.Quantity,
			Note:      payload.Note,
			CreatedBy: middleware.UserUUIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ListInventoryTransactions returns one filtered page of the movement ledger.
func ListInventoryTransactions(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := inventorysvc.Filters{
			Search: strings.TrimSpace(r.URL.Query().Get("q")),
		}
		if productID, err := validators.ParseQueryUUID(r, "product_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else {
			filters.ProductID = productID
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			txnType, err := enums.ParseInventoryTransactionType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction type"))
				return
			}
			filters.Type = &txnType
		}

		dto, err := svc.ListTransactions(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
