package services

import "sort"

// CostTolerance is the currency-unit tolerance used everywhere rank-1
// (cheapest vendor) status is computed or displayed. Cost comparisons within
// this tolerance count as equal.
const CostTolerance = 0.01

// ConvertedCandidate is a vendor cost quote after conversion into the
// quotation's base currency. Rate stays in the vendor's currency; FxRate is
// the snapshot used for conversion.
type ConvertedCandidate struct {
	VendorID string
	Rate     float64
	Currency string
	FxRate   float64
}

// ConvertedCost is the candidate's cost in the base currency.
func (c ConvertedCandidate) ConvertedCost() float64 {
	return c.Rate * c.FxRate
}

// VendorCostEntry is one entry of a cost line's audit trail of every
// competing vendor at computation time. The list is ordered cheapest first.
type VendorCostEntry struct {
	VendorID string  `json:"vendor"`
	Cost     float64 `json:"cost"`
}

// CostLine is the computed cost for one charge on a quotation.
// TotalCost always equals Rate × FxRate; it is recomputed from inputs on
// every pass, never adjusted incrementally.
type CostLine struct {
	ChargeID       string            `json:"charge"`
	UOMID          string            `json:"uom"`
	Quantity       float64           `json:"quantity"`
	VendorCosts    []VendorCostEntry `json:"vendor_costs"`
	SelectedVendor string            `json:"selected_vendor"`
	Rate           float64           `json:"rate"`
	Currency       string            `json:"currency"`
	FxRate         float64           `json:"fx_rate"`
	TotalCost      float64           `json:"total_cost"`
	Uncosted       bool              `json:"uncosted"`
}

// BuildCostLine assembles the cost line for a charge from its converted
// vendor candidates. Selection is sticky: if priorSelected is still among
// the candidates it is kept, otherwise the minimum-cost vendor wins with
// ties broken by lowest vendor id. Zero candidates produce a zero-cost line
// flagged Uncosted.
func BuildCostLine(chargeID, uomID string, quantity float64, candidates []ConvertedCandidate, priorSelected string) CostLine {
	line := CostLine{
		ChargeID: chargeID,
		UOMID:    uomID,
		Quantity: quantity,
	}
	if len(candidates) == 0 {
		line.Uncosted = true
		return line
	}

	ordered := make([]ConvertedCandidate, len(candidates))
	copy(ordered, candidates)
	sort.Slice(ordered, func(i, j int) bool {
		ci, cj := ordered[i].ConvertedCost(), ordered[j].ConvertedCost()
		if ci != cj {
			return ci < cj
		}
		return ordered[i].VendorID < ordered[j].VendorID
	})

	line.VendorCosts = make([]VendorCostEntry, len(ordered))
	for i, c := range ordered {
		line.VendorCosts[i] = VendorCostEntry{VendorID: c.VendorID, Cost: c.ConvertedCost()}
	}

	selected := ordered[0]
	if priorSelected != "" {
		for _, c := range ordered {
			if c.VendorID == priorSelected {
				selected = c
				break
			}
		}
	}

	line.SelectedVendor = selected.VendorID
	line.Rate = selected.Rate
	line.Currency = selected.Currency
	line.FxRate = selected.FxRate
	line.TotalCost = selected.Rate * selected.FxRate
	return line
}

// VendorOption is one row of the vendor comparison view for a cost line.
type VendorOption struct {
	VendorID string  `json:"vendor"`
	Cost     float64 `json:"cost"`
	Selected bool    `json:"selected"`
	Cheapest bool    `json:"cheapest"`
}

// BuildVendorOptions derives the comparison view from a cost line's audit
// trail. Cheapest marks every vendor within CostTolerance of the minimum
// cost, so a selection that is effectively tied for rank 1 still shows as
// cheapest.
func BuildVendorOptions(line CostLine) []VendorOption {
	if len(line.VendorCosts) == 0 {
		return nil
	}
	minCost := line.VendorCosts[0].Cost
	for _, vc := range line.VendorCosts[1:] {
		if vc.Cost < minCost {
			minCost = vc.Cost
		}
	}

	opts := make([]VendorOption, len(line.VendorCosts))
	for i, vc := range line.VendorCosts {
		opts[i] = VendorOption{
			VendorID: vc.VendorID,
			Cost:     vc.Cost,
			Selected: vc.VendorID == line.SelectedVendor,
			Cheapest: vc.Cost-minCost <= CostTolerance,
		}
	}
	return opts
}
