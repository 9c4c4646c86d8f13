package services

import "fmt"

// Margin rule specificity tiers, most specific first. Within a precedence
// level a more specific rule always beats a less specific one.
const (
	specGlobal       = 0
	specCustomerOnly = 1
	specChargeOnly   = 2
	specSpecific     = 3
)

// MarginRule maps a charge/customer pair to a margin policy. An empty
// ChargeID or CustomerID means the rule applies to all charges or customers.
// MarginPercent is a fraction (0.20 = 20%); MarginFixed is in base currency
// units. Rules are keyed by the charge record id, never its mnemonic code.
type MarginRule struct {
	ID            string
	ChargeID      string
	CustomerID    string
	Precedence    int
	MarginPercent float64
	MarginFixed   float64
	Active        bool
}

func (r MarginRule) matches(chargeID, customerID string) bool {
	if r.ChargeID != "" && r.ChargeID != chargeID {
		return false
	}
	if r.CustomerID != "" && r.CustomerID != customerID {
		return false
	}
	return true
}

func (r MarginRule) specificity() int {
	switch {
	case r.ChargeID != "" && r.CustomerID != "":
		return specSpecific
	case r.ChargeID != "":
		return specChargeOnly
	case r.CustomerID != "":
		return specCustomerOnly
	default:
		return specGlobal
	}
}

// ResolveMargin returns the single winning margin rule for a charge and
// customer: highest precedence first, and among equal precedence the most
// specific match (charge+customer > charge > customer > global). A miss is
// an operational misconfiguration, never a silent zero-margin fallback;
// a global default rule should always exist as the safety net.
func ResolveMargin(rules []MarginRule, chargeID, customerID string) (MarginRule, error) {
	var best MarginRule
	found := false
	for _, r := range rules {
		if !r.Active || !r.matches(chargeID, customerID) {
			continue
		}
		if !found {
			best = r
			found = true
			continue
		}
		if r.Precedence > best.Precedence ||
			(r.Precedence == best.Precedence && r.specificity() > best.specificity()) {
			best = r
		}
	}
	if !found {
		return MarginRule{}, fmt.Errorf("%w: charge %s, customer %s", ErrNoMarginRuleConfigured, chargeID, customerID)
	}
	return best, nil
}

// ApplyMargin computes the sale price for a cost under a margin rule:
// cost grown by the percentage, plus the fixed add-on.
func ApplyMargin(cost float64, rule MarginRule) float64 {
	return cost*(1+rule.MarginPercent) + rule.MarginFixed
}
