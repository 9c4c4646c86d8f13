package services

// SaleLine is the customer-facing price for one charge, derived from the
// cost line and the resolved margin rule. MarginPercent stores the realized
// margin over cost, which can differ from the rule's percentage when a fixed
// margin add-on is present.
type SaleLine struct {
	ChargeID       string  `json:"charge"`
	ChargeName     string  `json:"charge_name"`
	Quantity       float64 `json:"quantity"`
	UnitRate       float64 `json:"unit_rate"`
	Currency       string  `json:"currency"`
	TotalSalePrice float64 `json:"total_sale_price"`
	TaxRate        float64 `json:"tax_rate"`
	TaxAmount      float64 `json:"tax_amount"`
	TotalWithTax   float64 `json:"total_with_tax"`
	InternalCost   float64 `json:"internal_cost"`
	MarginPercent  float64 `json:"margin_percent"`
}

// BuildSaleLine prices a cost line under a margin rule and tax rate
// (percent). The sale currency is the quotation's base currency since the
// internal cost arrives already converted.
func BuildSaleLine(line CostLine, chargeName, currency string, rule MarginRule, taxRate float64) SaleLine {
	sale := ApplyMargin(line.TotalCost, rule)
	tax := sale * taxRate / 100

	unitRate := sale
	if line.Quantity > 0 {
		unitRate = sale / line.Quantity
	}

	realized := 0.0
	if line.TotalCost > 0 {
		realized = (sale - line.TotalCost) / line.TotalCost * 100
	}

	return SaleLine{
		ChargeID:       line.ChargeID,
		ChargeName:     chargeName,
		Quantity:       line.Quantity,
		UnitRate:       unitRate,
		Currency:       currency,
		TotalSalePrice: sale,
		TaxRate:        taxRate,
		TaxAmount:      tax,
		TotalWithTax:   sale + tax,
		InternalCost:   line.TotalCost,
		MarginPercent:  realized,
	}
}
