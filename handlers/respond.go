package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"freightquote/services"
)

// jsonError writes a JSON error envelope with the given status.
func jsonError(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, map[string]any{"error": message})
}

// serviceError maps engine sentinel errors onto HTTP statuses. Conflicts
// (locks, stale revisions, workflow violations) map to 409, bad input to 400,
// and unresolvable pricing configuration to 422.
func serviceError(e *core.RequestEvent, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return jsonError(e, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrQuotationLocked),
		errors.Is(err, services.ErrApprovalAlreadyPending),
		errors.Is(err, services.ErrStaleRecompute),
		errors.Is(err, services.ErrInvalidApprovalTransition):
		return jsonError(e, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidDimension),
		errors.Is(err, services.ErrInvalidRateValue):
		return jsonError(e, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNoRateAvailable),
		errors.Is(err, services.ErrNoMarginRuleConfigured),
		errors.Is(err, services.ErrNoVendorCostAvailable):
		return jsonError(e, http.StatusUnprocessableEntity, err.Error())
	default:
		return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

// bindJSON decodes the request body into dst, rejecting unknown fields.
func bindJSON(e *core.RequestEvent, dst any) error {
	decoder := json.NewDecoder(e.Request.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
