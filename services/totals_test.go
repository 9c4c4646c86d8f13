package services

import (
	"math"
	"testing"
)

func TestCalcQuoteTotals(t *testing.T) {
	costLines := []CostLine{
		{TotalCost: 208.75},
		{TotalCost: 50.00},
		{Uncosted: true},
	}
	saleLines := []SaleLine{
		{TotalSalePrice: 250.50, TaxAmount: 45.09, TotalWithTax: 295.59},
		{TotalSalePrice: 60.00, TaxAmount: 0, TotalWithTax: 60.00},
		{TotalSalePrice: 500.00, TaxAmount: 90.00, TotalWithTax: 590.00},
	}

	totals := CalcQuoteTotals(costLines, saleLines)

	if math.Abs(totals.TotalCost-258.75) > 0.001 {
		t.Errorf("TotalCost = %f, want 258.75", totals.TotalCost)
	}
	if math.Abs(totals.TotalSale-810.50) > 0.001 {
		t.Errorf("TotalSale = %f, want 810.50", totals.TotalSale)
	}
	if math.Abs(totals.Margin-551.75) > 0.001 {
		t.Errorf("Margin = %f, want 551.75", totals.Margin)
	}
	// Margin percent is over sale, not over cost.
	wantPct := 551.75 / 810.50 * 100
	if math.Abs(totals.MarginPercent-wantPct) > 0.001 {
		t.Errorf("MarginPercent = %f, want %f", totals.MarginPercent, wantPct)
	}
	if math.Abs(totals.TaxAmount-135.09) > 0.001 {
		t.Errorf("TaxAmount = %f, want 135.09", totals.TaxAmount)
	}
	if math.Abs(totals.TotalWithTax-945.59) > 0.001 {
		t.Errorf("TotalWithTax = %f, want 945.59", totals.TotalWithTax)
	}
	if totals.UncostedLines != 1 {
		t.Errorf("UncostedLines = %d, want 1", totals.UncostedLines)
	}
}

func TestCalcQuoteTotals_Empty(t *testing.T) {
	totals := CalcQuoteTotals(nil, nil)

	if totals.TotalCost != 0 || totals.TotalSale != 0 || totals.Margin != 0 {
		t.Errorf("empty quotation totals = %+v, want zeros", totals)
	}
	if totals.MarginPercent != 0 {
		t.Errorf("MarginPercent = %f, want 0 on zero sale", totals.MarginPercent)
	}
}

func TestCalcQuoteTotals_ZeroSaleGuards(t *testing.T) {
	costLines := []CostLine{{TotalCost: 100}}
	saleLines := []SaleLine{{TotalSalePrice: 0}}

	totals := CalcQuoteTotals(costLines, saleLines)

	if totals.Margin != -100 {
		t.Errorf("Margin = %f, want -100", totals.Margin)
	}
	if totals.MarginPercent != 0 {
		t.Errorf("MarginPercent = %f, want 0 (no divide by zero sale)", totals.MarginPercent)
	}
}
