package services

import (
	"errors"
	"math"
	"testing"
)

func TestResolveMargin_PrecedenceAndSpecificity(t *testing.T) {
	rules := []MarginRule{
		{ID: "m1", Precedence: 1, MarginPercent: 0.20, Active: true},
		{ID: "m2", ChargeID: "X", Precedence: 3, MarginPercent: 0.25, Active: true},
		{ID: "m3", ChargeID: "X", CustomerID: "Y", Precedence: 4, MarginPercent: 0.08, Active: true},
	}

	tests := []struct {
		name     string
		charge   string
		customer string
		wantID   string
		wantPct  float64
	}{
		{name: "specific pair wins", charge: "X", customer: "Y", wantID: "m3", wantPct: 0.08},
		{name: "charge-only for other customer", charge: "X", customer: "Z", wantID: "m2", wantPct: 0.25},
		{name: "global for unmatched charge", charge: "W", customer: "Y", wantID: "m1", wantPct: 0.20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveMargin(rules, tt.charge, tt.customer)
			if err != nil {
				t.Fatalf("ResolveMargin() error = %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("rule = %s, want %s", got.ID, tt.wantID)
			}
			if math.Abs(got.MarginPercent-tt.wantPct) > 0.000001 {
				t.Errorf("MarginPercent = %v, want %v", got.MarginPercent, tt.wantPct)
			}
		})
	}
}

func TestResolveMargin_SpecificityBreaksPrecedenceTies(t *testing.T) {
	rules := []MarginRule{
		{ID: "global", Precedence: 5, MarginPercent: 0.20, Active: true},
		{ID: "customer", CustomerID: "Y", Precedence: 5, MarginPercent: 0.18, Active: true},
		{ID: "charge", ChargeID: "X", Precedence: 5, MarginPercent: 0.15, Active: true},
		{ID: "pair", ChargeID: "X", CustomerID: "Y", Precedence: 5, MarginPercent: 0.10, Active: true},
	}

	tests := []struct {
		name     string
		charge   string
		customer string
		wantID   string
	}{
		{name: "pair beats all", charge: "X", customer: "Y", wantID: "pair"},
		{name: "charge beats customer", charge: "X", customer: "Z", wantID: "charge"},
		{name: "customer beats global", charge: "W", customer: "Y", wantID: "customer"},
		{name: "global catches the rest", charge: "W", customer: "Z", wantID: "global"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveMargin(rules, tt.charge, tt.customer)
			if err != nil {
				t.Fatalf("ResolveMargin() error = %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("rule = %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}

func TestResolveMargin_ChargeOnlyBeatsLowerPrecedenceSpecific(t *testing.T) {
	// Precedence outranks specificity across levels.
	rules := []MarginRule{
		{ID: "pair", ChargeID: "X", CustomerID: "Y", Precedence: 2, MarginPercent: 0.08, Active: true},
		{ID: "charge", ChargeID: "X", Precedence: 6, MarginPercent: 0.25, Active: true},
	}

	got, err := ResolveMargin(rules, "X", "Y")
	if err != nil {
		t.Fatalf("ResolveMargin() error = %v", err)
	}
	if got.ID != "charge" {
		t.Errorf("rule = %s, want charge (higher precedence)", got.ID)
	}
}

func TestResolveMargin_NoMatch(t *testing.T) {
	rules := []MarginRule{
		{ID: "m1", ChargeID: "X", Precedence: 1, MarginPercent: 0.25, Active: true},
		{ID: "m2", Precedence: 1, MarginPercent: 0.20, Active: false},
	}

	_, err := ResolveMargin(rules, "W", "Y")
	if !errors.Is(err, ErrNoMarginRuleConfigured) {
		t.Fatalf("ResolveMargin() error = %v, want ErrNoMarginRuleConfigured", err)
	}
}

func TestApplyMargin(t *testing.T) {
	tests := []struct {
		name string
		cost float64
		rule MarginRule
		want float64
	}{
		{name: "percent only", cost: 1000, rule: MarginRule{MarginPercent: 0.20}, want: 1200},
		{name: "fixed only", cost: 1000, rule: MarginRule{MarginFixed: 250}, want: 1250},
		{name: "percent plus fixed", cost: 1000, rule: MarginRule{MarginPercent: 0.08, MarginFixed: 100}, want: 1180},
		{name: "zero cost keeps fixed component", cost: 0, rule: MarginRule{MarginPercent: 0.20, MarginFixed: 500}, want: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyMargin(tt.cost, tt.rule)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("ApplyMargin() = %v, want %v", got, tt.want)
			}
		})
	}
}
