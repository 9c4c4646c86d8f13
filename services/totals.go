package services

// QuoteTotals is the header-level financial rollup of a quotation.
// MarginPercent is margin over sale, the figure the approval thresholds
// evaluate.
type QuoteTotals struct {
	TotalCost     float64 `json:"total_cost"`
	TotalSale     float64 `json:"total_sale"`
	Margin        float64 `json:"margin"`
	MarginPercent float64 `json:"margin_percent"`
	TaxAmount     float64 `json:"tax_amount"`
	TotalWithTax  float64 `json:"total_with_tax"`
	UncostedLines int     `json:"uncosted_lines"`
}

// CalcQuoteTotals rolls cost and sale lines up into header totals.
func CalcQuoteTotals(costLines []CostLine, saleLines []SaleLine) QuoteTotals {
	var totals QuoteTotals
	for _, cl := range costLines {
		totals.TotalCost += cl.TotalCost
		if cl.Uncosted {
			totals.UncostedLines++
		}
	}
	for _, sl := range saleLines {
		totals.TotalSale += sl.TotalSalePrice
		totals.TaxAmount += sl.TaxAmount
		totals.TotalWithTax += sl.TotalWithTax
	}
	totals.Margin = totals.TotalSale - totals.TotalCost
	if totals.TotalSale != 0 {
		totals.MarginPercent = (totals.Margin / totals.TotalSale) * 100
	}
	return totals
}
