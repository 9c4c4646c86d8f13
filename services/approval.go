package services

// Quotation header statuses.
const (
	StatusDraft           = "draft"
	StatusPendingCosting  = "pending_costing"
	StatusPendingApproval = "pending_approval"
	StatusSent            = "sent"
	StatusWon             = "won"
	StatusLost            = "lost"
	StatusCancelled       = "cancelled"
)

// Approval record statuses.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Approval routing thresholds: a submission needs human approval when the
// aggregate cost exceeds ApprovalCostThreshold (base currency) or the margin
// percentage falls below ApprovalMarginFloor. These are the only two
// triggers.
const (
	ApprovalCostThreshold = 10000.0
	ApprovalMarginFloor   = 10.0
)

var allowedTransitions = map[string][]string{
	StatusDraft:           {StatusPendingCosting},
	StatusPendingCosting:  {StatusPendingApproval, StatusSent},
	StatusPendingApproval: {StatusSent, StatusDraft},
	StatusSent:            {StatusWon, StatusLost, StatusCancelled},
}

// NeedsApproval reports whether a submission with the given aggregate cost
// and margin percentage must pass through the approval queue. Quotations
// below both thresholds go straight to sent.
func NeedsApproval(totalCost, marginPercent float64) bool {
	return totalCost > ApprovalCostThreshold || marginPercent < ApprovalMarginFloor
}

// CanTransition reports whether the header status may move from one state to
// another.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status permits no further transitions or
// recomputation.
func IsTerminal(status string) bool {
	return status == StatusWon || status == StatusLost || status == StatusCancelled
}

// CanRecompute reports whether a quotation in the given status may have its
// cost and sale lines recomputed. Once submitted, the figures are frozen
// until a rejection returns the header to draft.
func CanRecompute(status string) bool {
	return status == StatusDraft || status == StatusPendingCosting
}
