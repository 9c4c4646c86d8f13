package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"freightquote/services"
)

type approvalDecideRequest struct {
	Decision string `json:"decision"`
	Approver string `json:"approver"`
	Comments string `json:"comments"`
}

// HandleApprovalDecide records an approve or reject decision on a pending
// approval. Rejections need a reason and send the quotation back to draft.
// Route: POST /approvals/{id}/decide
func HandleApprovalDecide(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		approvalID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("quotation_approvals", approvalID); err != nil {
			return jsonError(e, http.StatusNotFound, "approval not found")
		}

		var req approvalDecideRequest
		if err := bindJSON(e, &req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		if req.Decision != services.DecisionApprove && req.Decision != services.DecisionReject {
			return jsonError(e, http.StatusBadRequest, "decision must be approve or reject")
		}
		if req.Approver == "" {
			return jsonError(e, http.StatusBadRequest, "approver is required")
		}

		status, err := services.DecideApproval(app, approvalID, req.Approver, req.Decision, req.Comments)
		if err != nil {
			log.Printf("approval_decide: %s: %v", approvalID, err)
			return serviceError(e, err)
		}

		return e.JSON(http.StatusOK, map[string]any{
			"approval": approvalID,
			"decision": req.Decision,
			"status":   status,
		})
	}
}
