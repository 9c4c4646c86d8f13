package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"freightquote/services"
)

// HandleQuotationRecompute reruns the full costing pipeline for a quotation.
// An optional ?as_of=YYYY-MM-DD overrides the pricing date for rate and FX
// lookups.
// Route: POST /quotations/{id}/recompute
func HandleQuotationRecompute(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := findQuotation(app, e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "quotation not found")
		}

		var asOf time.Time
		if raw := e.Request.URL.Query().Get("as_of"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return jsonError(e, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
			}
			asOf = parsed
		}

		result, err := services.RecomputeQuotation(app, quote.Id, asOf)
		if err != nil {
			log.Printf("quotation_recompute: %s: %v", quote.Id, err)
			return serviceError(e, err)
		}

		return e.JSON(http.StatusOK, result)
	}
}
