package services

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

// SubmitResult is the outcome of submitting a quotation for approval.
type SubmitResult struct {
	QuotationID   string `json:"quotation_id"`
	Status        string `json:"status"`
	ApprovalID    string `json:"approval_id,omitempty"`
	NeedsApproval bool   `json:"needs_approval"`
}

// SubmitForApproval routes a costed quotation: above the cost threshold or
// below the margin floor it opens a pending approval and parks the header in
// pending_approval; otherwise the header goes straight to sent with no
// approval row. A quotation may hold only one pending approval at a time.
func SubmitForApproval(app *pocketbase.PocketBase, quotationID, submittedBy string) (*SubmitResult, error) {
	var result *SubmitResult

	err := app.RunInTransaction(func(txApp core.App) error {
		quote, err := txApp.FindRecordById("quotations", quotationID)
		if err != nil {
			return fmt.Errorf("quotation %s not found: %w", quotationID, err)
		}
		if quote.GetBool("deleted") {
			return fmt.Errorf("quotation %s not found: deleted", quotationID)
		}

		status := quote.GetString("status")
		if status != StatusPendingCosting {
			return fmt.Errorf("%w: cannot submit quotation in status %s", ErrInvalidApprovalTransition, status)
		}

		pending, err := txApp.FindRecordsByFilter("quotation_approvals",
			"quotation = {:id} && approval_status = 'pending'", "", 1, 0,
			map[string]any{"id": quotationID})
		if err != nil {
			return fmt.Errorf("load approvals: %w", err)
		}
		if len(pending) > 0 {
			return fmt.Errorf("%w: quotation %s", ErrApprovalAlreadyPending, quotationID)
		}

		totalCost := quote.GetFloat("total_cost")
		marginPercent := quote.GetFloat("margin_percent")

		if !NeedsApproval(totalCost, marginPercent) {
			quote.Set("status", StatusSent)
			quote.Set("revision", quote.GetInt("revision")+1)
			if err := txApp.Save(quote); err != nil {
				return fmt.Errorf("save quotation %s: %w", quotationID, err)
			}
			result = &SubmitResult{QuotationID: quotationID, Status: StatusSent}
			return nil
		}

		col, err := txApp.FindCollectionByNameOrId("quotation_approvals")
		if err != nil {
			return fmt.Errorf("quotation_approvals collection not found: %w", err)
		}
		approval := core.NewRecord(col)
		approval.Set("quotation", quotationID)
		approval.Set("approval_status", ApprovalPending)
		approval.Set("submitted_by", submittedBy)
		approval.Set("total_cost", totalCost)
		approval.Set("total_sale", quote.GetFloat("total_sale"))
		approval.Set("margin_percent", marginPercent)
		approval.Set("submitted_at", types.NowDateTime())
		if err := txApp.Save(approval); err != nil {
			return fmt.Errorf("save approval: %w", err)
		}

		quote.Set("status", StatusPendingApproval)
		quote.Set("revision", quote.GetInt("revision")+1)
		if err := txApp.Save(quote); err != nil {
			return fmt.Errorf("save quotation %s: %w", quotationID, err)
		}

		result = &SubmitResult{
			QuotationID:   quotationID,
			Status:        StatusPendingApproval,
			ApprovalID:    approval.Id,
			NeedsApproval: true,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Approval decisions accepted by DecideApproval.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// DecideApproval applies a human decision to a pending approval. Approve
// flips the header to sent; reject requires a non-empty reason and returns
// the header to draft for rework while keeping the rejected approval record
// for audit. Returns the new header status.
func DecideApproval(app *pocketbase.PocketBase, approvalID, approverID, decision, comments string) (string, error) {
	var newStatus string

	err := app.RunInTransaction(func(txApp core.App) error {
		approval, err := txApp.FindRecordById("quotation_approvals", approvalID)
		if err != nil {
			return fmt.Errorf("approval %s not found: %w", approvalID, err)
		}
		if approval.GetString("approval_status") != ApprovalPending {
			return fmt.Errorf("%w: approval %s is %s", ErrInvalidApprovalTransition,
				approvalID, approval.GetString("approval_status"))
		}

		quote, err := txApp.FindRecordById("quotations", approval.GetString("quotation"))
		if err != nil {
			return fmt.Errorf("quotation for approval %s not found: %w", approvalID, err)
		}
		if quote.GetString("status") != StatusPendingApproval {
			return fmt.Errorf("%w: quotation %s is %s", ErrInvalidApprovalTransition,
				quote.Id, quote.GetString("status"))
		}

		switch decision {
		case DecisionApprove:
			approval.Set("approval_status", ApprovalApproved)
			approval.Set("comments", comments)
			newStatus = StatusSent
		case DecisionReject:
			if strings.TrimSpace(comments) == "" {
				return fmt.Errorf("%w: rejection requires a reason", ErrInvalidApprovalTransition)
			}
			approval.Set("approval_status", ApprovalRejected)
			approval.Set("rejection_reason", comments)
			newStatus = StatusDraft
		default:
			return fmt.Errorf("%w: unknown decision %q", ErrInvalidApprovalTransition, decision)
		}

		approval.Set("approver", approverID)
		approval.Set("decided_at", types.NowDateTime())
		if err := txApp.Save(approval); err != nil {
			return fmt.Errorf("save approval %s: %w", approvalID, err)
		}

		quote.Set("status", newStatus)
		quote.Set("revision", quote.GetInt("revision")+1)
		if err := txApp.Save(quote); err != nil {
			return fmt.Errorf("save quotation %s: %w", quote.Id, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return newStatus, nil
}

// RecordOutcome moves a sent quotation to its terminal sales outcome
// (won, lost or cancelled). Terminal states permit no further transitions.
func RecordOutcome(app *pocketbase.PocketBase, quotationID, outcome string) error {
	return app.RunInTransaction(func(txApp core.App) error {
		quote, err := txApp.FindRecordById("quotations", quotationID)
		if err != nil {
			return fmt.Errorf("quotation %s not found: %w", quotationID, err)
		}

		status := quote.GetString("status")
		if !CanTransition(status, outcome) || !IsTerminal(outcome) {
			return fmt.Errorf("%w: %s → %s", ErrInvalidApprovalTransition, status, outcome)
		}

		quote.Set("status", outcome)
		quote.Set("revision", quote.GetInt("revision")+1)
		if err := txApp.Save(quote); err != nil {
			return fmt.Errorf("save quotation %s: %w", quotationID, err)
		}
		return nil
	})
}

// SelectVendor records a manual vendor choice on a cost line and recomputes
// the quotation; sticky selection keeps the choice on subsequent recomputes.
// The vendor must be one of the costed candidates on the line.
func SelectVendor(app *pocketbase.PocketBase, quotationID, chargeID, vendorID string) (*RecomputeResult, error) {
	quote, err := app.FindRecordById("quotations", quotationID)
	if err != nil {
		return nil, fmt.Errorf("quotation %s not found: %w", quotationID, err)
	}
	if !CanRecompute(quote.GetString("status")) {
		return nil, fmt.Errorf("%w: quotation %s is %s", ErrQuotationLocked, quotationID, quote.GetString("status"))
	}

	lines, err := app.FindRecordsByFilter("quotation_cost_lines",
		"quotation = {:id} && charge = {:charge}", "", 1, 0,
		map[string]any{"id": quotationID, "charge": chargeID})
	if err != nil || len(lines) == 0 {
		return nil, fmt.Errorf("cost line for charge %s not found on quotation %s", chargeID, quotationID)
	}
	line := lines[0]

	var entries []VendorCostEntry
	if err := line.UnmarshalJSONField("vendor_costs", &entries); err != nil {
		return nil, fmt.Errorf("parse vendor costs: %w", err)
	}
	found := false
	for _, e := range entries {
		if e.VendorID == vendorID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: vendor %s has no cost for charge %s", ErrNoVendorCostAvailable, vendorID, chargeID)
	}

	line.Set("selected_vendor", vendorID)
	if err := app.Save(line); err != nil {
		return nil, fmt.Errorf("save cost line %s: %w", line.Id, err)
	}

	return RecomputeQuotation(app, quotationID, quote.GetDateTime("pricing_date").Time())
}
