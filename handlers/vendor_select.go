package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"freightquote/services"
)

type vendorSelectRequest struct {
	Vendor string `json:"vendor"`
}

// HandleVendorSelect overrides the auto-picked vendor on one cost line. The
// choice must come from the line's quoted vendors and survives later
// recomputes.
// Route: POST /quotations/{id}/cost-lines/{chargeId}/vendor
func HandleVendorSelect(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := findQuotation(app, e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "quotation not found")
		}

		var req vendorSelectRequest
		if err := bindJSON(e, &req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		if req.Vendor == "" {
			return jsonError(e, http.StatusBadRequest, "vendor is required")
		}

		result, err := services.SelectVendor(app, quote.Id, e.Request.PathValue("chargeId"), req.Vendor)
		if err != nil {
			log.Printf("vendor_select: %s: %v", quote.Id, err)
			return serviceError(e, err)
		}

		return e.JSON(http.StatusOK, result)
	}
}
