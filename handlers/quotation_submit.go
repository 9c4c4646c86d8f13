package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"freightquote/services"
)

type submitRequest struct {
	SubmittedBy string `json:"submitted_by"`
}

// HandleQuotationSubmit moves a costed quotation out of pending_costing.
// Quotations over the approval thresholds get a pending approval record,
// everything else goes straight to sent.
// Route: POST /quotations/{id}/submit
func HandleQuotationSubmit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := findQuotation(app, e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "quotation not found")
		}

		var req submitRequest
		if err := bindJSON(e, &req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		req.SubmittedBy = strings.TrimSpace(req.SubmittedBy)
		if req.SubmittedBy == "" {
			return jsonError(e, http.StatusBadRequest, "submitted_by is required")
		}

		result, err := services.SubmitForApproval(app, quote.Id, req.SubmittedBy)
		if err != nil {
			log.Printf("quotation_submit: %s: %v", quote.Id, err)
			return serviceError(e, err)
		}

		return e.JSON(http.StatusOK, result)
	}
}
