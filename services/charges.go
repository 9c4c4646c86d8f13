package services

// AllTerms is the wildcard terms value on a charge rule. It matches any
// incoterm, but only for charges that have no exact-terms rule for the same
// mode and movement.
const AllTerms = "ALL_TERMS"

// Movement directions.
const (
	MovementImport = "IMPORT"
	MovementExport = "EXPORT"
)

// ChargeRule maps a (mode, movement, terms) combination to an applicable
// charge. Terms may be AllTerms.
type ChargeRule struct {
	ID       string
	Mode     string
	Movement string
	Terms    string
	ChargeID string
	Active   bool
}

// ResolveApplicableCharges returns the charge ids applicable to a shipment
// context, deduplicated and in rule order. Exact-terms rules are considered
// first; AllTerms rules only contribute charges that no exact rule covered.
// An empty result is valid: a quotation may carry a custom-only charge list.
func ResolveApplicableCharges(rules []ChargeRule, mode, movement, terms string) []string {
	seen := make(map[string]bool)
	var charges []string

	for _, r := range rules {
		if !r.Active || r.Mode != mode || r.Movement != movement || r.Terms != terms {
			continue
		}
		if !seen[r.ChargeID] {
			seen[r.ChargeID] = true
			charges = append(charges, r.ChargeID)
		}
	}

	if terms == AllTerms {
		return charges
	}

	for _, r := range rules {
		if !r.Active || r.Mode != mode || r.Movement != movement || r.Terms != AllTerms {
			continue
		}
		if !seen[r.ChargeID] {
			seen[r.ChargeID] = true
			charges = append(charges, r.ChargeID)
		}
	}

	return charges
}
