package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleQuotationDelete soft-deletes a quotation. The record stays in place
// for audit but disappears from lists and lookups.
// Route: DELETE /quotations/{id}
func HandleQuotationDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := findQuotation(app, e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "quotation not found")
		}

		quote.Set("deleted", true)
		if err := app.Save(quote); err != nil {
			log.Printf("quotation_delete: could not soft delete %s: %v", quote.Id, err)
			return serviceError(e, err)
		}

		return e.JSON(http.StatusOK, map[string]any{"id": quote.Id, "deleted": true})
	}
}
