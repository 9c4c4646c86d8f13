package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"freightquote/services"
)

// HandleDimensionDelete removes a dimension row from an editable quotation.
// Route: DELETE /quotations/{id}/dimensions/{dimId}
func HandleDimensionDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := findQuotation(app, e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "quotation not found")
		}
		if !services.CanRecompute(quote.GetString("status")) {
			return serviceError(e, services.ErrQuotationLocked)
		}

		dim, err := findQuotationDimension(app, quote.Id, e.Request.PathValue("dimId"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "dimension row not found")
		}

		if err := app.Delete(dim); err != nil {
			log.Printf("dimension_delete: could not delete dimension %s: %v", dim.Id, err)
			return serviceError(e, err)
		}

		return e.JSON(http.StatusOK, map[string]any{"id": dim.Id, "deleted": true})
	}
}
