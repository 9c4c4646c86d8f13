package services

import "errors"

// Engine error kinds. Callers branch on these with errors.Is; the wrapped
// message always names the offending charge/dimension/currency pair so a
// failed recompute never reports a generic "calculation failed".
var (
	// ErrInvalidDimension is returned when a dimension row has a
	// non-positive length, width, height, piece count or weight.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrNoRateAvailable is returned when no exchange rate row applies to a
	// currency pair on the pricing date.
	ErrNoRateAvailable = errors.New("no exchange rate available")

	// ErrInvalidRateValue is returned for exchange rates that are zero,
	// negative or above MaxExchangeRate.
	ErrInvalidRateValue = errors.New("invalid exchange rate value")

	// ErrNoMarginRuleConfigured is returned when not even a global default
	// margin rule matches a (charge, customer) pair. This is an operational
	// misconfiguration, never a silent zero-margin fallback.
	ErrNoMarginRuleConfigured = errors.New("no margin rule configured")

	// ErrNoVendorCostAvailable marks a charge with no costed vendor. It is
	// informational: the cost line is flagged and recompute continues.
	ErrNoVendorCostAvailable = errors.New("no vendor cost available")

	// ErrApprovalAlreadyPending is returned when a quotation is submitted
	// while an earlier approval cycle is still pending.
	ErrApprovalAlreadyPending = errors.New("approval already pending")

	// ErrInvalidApprovalTransition is returned when approve/reject is
	// attempted on a non-pending approval, or a status change is requested
	// that the state machine does not allow.
	ErrInvalidApprovalTransition = errors.New("invalid approval transition")

	// ErrStaleRecompute is returned when the quotation revision moved
	// between reading the inputs and writing the results.
	ErrStaleRecompute = errors.New("stale recompute")

	// ErrQuotationLocked is returned when a recompute or edit is attempted
	// on a quotation that has been submitted or reached a terminal status.
	ErrQuotationLocked = errors.New("quotation locked")
)
