package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"freightquote/services"
)

type outcomeRequest struct {
	Outcome string `json:"outcome"`
}

// HandleQuotationOutcome records the commercial result of a sent quotation.
// Route: POST /quotations/{id}/outcome
func HandleQuotationOutcome(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := findQuotation(app, e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "quotation not found")
		}

		var req outcomeRequest
		if err := bindJSON(e, &req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		switch req.Outcome {
		case services.StatusWon, services.StatusLost, services.StatusCancelled:
		default:
			return jsonError(e, http.StatusBadRequest, "outcome must be won, lost or cancelled")
		}

		if err := services.RecordOutcome(app, quote.Id, req.Outcome); err != nil {
			log.Printf("quotation_outcome: %s: %v", quote.Id, err)
			return serviceError(e, err)
		}

		return e.JSON(http.StatusOK, map[string]any{"id": quote.Id, "status": req.Outcome})
	}
}
