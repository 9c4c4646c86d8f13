package services

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// RecomputeResult is the outcome of a full quotation recompute.
type RecomputeResult struct {
	QuotationID string         `json:"quotation_id"`
	Status      string         `json:"status"`
	Revision    int            `json:"revision"`
	Shipment    ShipmentTotals `json:"shipment"`
	CostLines   []CostLine     `json:"cost_lines"`
	SaleLines   []SaleLine     `json:"sale_lines"`
	Totals      QuoteTotals    `json:"totals"`
}

// RecomputeQuotation walks the full costing pipeline for one quotation:
// dimensions → applicable charges → vendor costs → margins → sale lines →
// aggregates. All reads and the pure computation happen first; the derived
// rows are then written in a single transaction guarded by the header's
// revision, so a concurrent edit aborts with ErrStaleRecompute and never
// leaves a partially recomputed quotation behind.
//
// A zero asOf falls back to the quotation's pricing date. Recompute is only
// permitted while the header is in draft or pending_costing.
func RecomputeQuotation(app *pocketbase.PocketBase, quotationID string, asOf time.Time) (*RecomputeResult, error) {
	quote, err := app.FindRecordById("quotations", quotationID)
	if err != nil {
		return nil, fmt.Errorf("quotation %s not found: %w", quotationID, err)
	}
	if quote.GetBool("deleted") {
		return nil, fmt.Errorf("quotation %s not found: deleted", quotationID)
	}

	status := quote.GetString("status")
	if !CanRecompute(status) {
		return nil, fmt.Errorf("%w: quotation %s is %s", ErrQuotationLocked, quotationID, status)
	}

	revision := quote.GetInt("revision")
	mode := quote.GetString("mode")
	movement := quote.GetString("movement")
	incoterm := quote.GetString("incoterm")
	baseCurrency := quote.GetString("base_currency")

	if asOf.IsZero() {
		asOf = quote.GetDateTime("pricing_date").Time()
	}

	// ── dimensions ───────────────────────────────────────────────────
	dimRecords, err := app.FindRecordsByFilter("quotation_dimensions",
		"quotation = {:id}", "created", 0, 0, map[string]any{"id": quotationID})
	if err != nil {
		return nil, fmt.Errorf("load dimensions: %w", err)
	}

	rows := make([]DimensionRow, len(dimRecords))
	for i, r := range dimRecords {
		rows[i] = DimensionRow{
			LengthCM:         r.GetFloat("length_cm"),
			WidthCM:          r.GetFloat("width_cm"),
			HeightCM:         r.GetFloat("height_cm"),
			Pieces:           r.GetInt("pieces"),
			WeightPerPieceKG: r.GetFloat("weight_per_piece_kg"),
		}
	}

	divisor, divisorConfigured := lookupDivisor(app, mode)
	shipment, err := CalcShipmentTotals(rows, divisor, UseVolumetricWeight(mode, divisorConfigured))
	if err != nil {
		return nil, err
	}

	// ── applicable charges ───────────────────────────────────────────
	chargeRules, err := loadChargeRules(app)
	if err != nil {
		return nil, err
	}
	chargeIDs := ResolveApplicableCharges(chargeRules, mode, movement, incoterm)

	chargesByID, uomsByID, err := loadChargeMasters(app)
	if err != nil {
		return nil, err
	}

	// ── reference data for costing ───────────────────────────────────
	headers, lines, err := loadRateCards(app)
	if err != nil {
		return nil, err
	}
	headers = FilterHeadersForContext(headers, mode, movement,
		quote.GetString("origin"), quote.GetString("destination"), incoterm, asOf)

	fxRates, err := loadExchangeRates(app)
	if err != nil {
		return nil, err
	}

	marginRules, err := loadMarginRules(app)
	if err != nil {
		return nil, err
	}

	priorSelections, err := loadPriorSelections(app, quotationID)
	if err != nil {
		return nil, err
	}

	// ── cost and sale lines ──────────────────────────────────────────
	customerID := quote.GetString("customer")
	costLines := make([]CostLine, 0, len(chargeIDs))
	saleLines := make([]SaleLine, 0, len(chargeIDs))

	for _, chargeID := range chargeIDs {
		charge, ok := chargesByID[chargeID]
		if !ok {
			return nil, fmt.Errorf("charge %s referenced by rule but not found", chargeID)
		}
		uomID := charge.GetString("default_uom")
		quantity := chargeQuantity(uomsByID[uomID], shipment)

		candidates := MatchVendorRates(headers, lines, RateQuery{
			ChargeID: chargeID,
			UOMID:    uomID,
			Quantity: quantity,
			AsOf:     asOf,
		})

		converted := make([]ConvertedCandidate, 0, len(candidates))
		for _, c := range candidates {
			rate, err := FindRate(fxRates, c.Currency, baseCurrency, asOf)
			if err != nil {
				return nil, fmt.Errorf("charge %s vendor %s: %w", charge.GetString("code"), c.VendorID, err)
			}
			converted = append(converted, ConvertedCandidate{
				VendorID: c.VendorID,
				Rate:     c.Rate,
				Currency: c.Currency,
				FxRate:   rate,
			})
		}

		costLine := BuildCostLine(chargeID, uomID, quantity, converted, priorSelections[chargeID])
		if costLine.Uncosted {
			log.Printf("recompute: %s: charge %s has no vendor cost", quotationID, charge.GetString("code"))
		}
		costLines = append(costLines, costLine)

		marginRule, err := ResolveMargin(marginRules, chargeID, customerID)
		if err != nil {
			return nil, fmt.Errorf("charge %s: %w", charge.GetString("code"), err)
		}
		saleLines = append(saleLines,
			BuildSaleLine(costLine, charge.GetString("name"), baseCurrency, marginRule, charge.GetFloat("tax_rate")))
	}

	totals := CalcQuoteTotals(costLines, saleLines)

	newStatus := status
	if status == StatusDraft && len(rows) > 0 && totals.UncostedLines < len(costLines) {
		newStatus = StatusPendingCosting
	}

	// ── atomic write ─────────────────────────────────────────────────
	err = app.RunInTransaction(func(txApp core.App) error {
		fresh, err := txApp.FindRecordById("quotations", quotationID)
		if err != nil {
			return fmt.Errorf("quotation %s vanished: %w", quotationID, err)
		}
		if fresh.GetInt("revision") != revision {
			return fmt.Errorf("%w: quotation %s changed during recompute", ErrStaleRecompute, quotationID)
		}

		for i, r := range dimRecords {
			calc, err := CalcDimension(rows[i])
			if err != nil {
				return err
			}
			r.Set("cbm_per_piece", calc.CBMPerPiece)
			r.Set("total_cbm", calc.TotalCBM)
			r.Set("total_weight_kg", calc.TotalWeightKG)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("save dimension %s: %w", r.Id, err)
			}
		}

		if err := replaceCostLines(txApp, quotationID, costLines); err != nil {
			return err
		}
		if err := replaceSaleLines(txApp, quotationID, saleLines); err != nil {
			return err
		}

		fresh.Set("total_pieces", shipment.TotalPieces)
		fresh.Set("total_weight_kg", shipment.TotalWeightKG)
		fresh.Set("total_cbm", shipment.TotalCBM)
		fresh.Set("volumetric_weight_kg", shipment.VolumetricWeightKG)
		fresh.Set("chargeable_weight_kg", shipment.ChargeableWeightKG)
		fresh.Set("total_cost", totals.TotalCost)
		fresh.Set("total_sale", totals.TotalSale)
		fresh.Set("margin", totals.Margin)
		fresh.Set("margin_percent", totals.MarginPercent)
		fresh.Set("status", newStatus)
		fresh.Set("revision", revision+1)
		if err := txApp.Save(fresh); err != nil {
			return fmt.Errorf("save quotation %s: %w", quotationID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RecomputeResult{
		QuotationID: quotationID,
		Status:      newStatus,
		Revision:    revision + 1,
		Shipment:    shipment,
		CostLines:   costLines,
		SaleLines:   saleLines,
		Totals:      totals,
	}, nil
}

// chargeQuantity maps a charge's UOM basis onto the shipment aggregates:
// weight-based charges rate on the chargeable weight, volume-based on total
// CBM, and per-shipment charges on a quantity of one.
func chargeQuantity(uom *core.Record, shipment ShipmentTotals) float64 {
	if uom == nil {
		return 1
	}
	switch uom.GetString("basis") {
	case "weight":
		return shipment.ChargeableWeightKG
	case "volume":
		return shipment.TotalCBM
	default:
		return 1
	}
}

func lookupDivisor(app *pocketbase.PocketBase, mode string) (float64, bool) {
	records, err := app.FindRecordsByFilter("volumetric_divisors",
		"mode = {:mode}", "", 1, 0, map[string]any{"mode": mode})
	if err != nil || len(records) == 0 {
		if mode == ModeAir {
			return DefaultAirDivisor, false
		}
		return 0, false
	}
	return records[0].GetFloat("divisor"), true
}

func loadChargeRules(app *pocketbase.PocketBase) ([]ChargeRule, error) {
	records, err := app.FindAllRecords("charge_rules")
	if err != nil {
		return nil, fmt.Errorf("load charge rules: %w", err)
	}
	rules := make([]ChargeRule, len(records))
	for i, r := range records {
		rules[i] = ChargeRule{
			ID:       r.Id,
			Mode:     r.GetString("mode"),
			Movement: r.GetString("movement"),
			Terms:    r.GetString("terms"),
			ChargeID: r.GetString("charge"),
			Active:   r.GetBool("active"),
		}
	}
	return rules, nil
}

func loadChargeMasters(app *pocketbase.PocketBase) (map[string]*core.Record, map[string]*core.Record, error) {
	chargeRecords, err := app.FindAllRecords("charges")
	if err != nil {
		return nil, nil, fmt.Errorf("load charges: %w", err)
	}
	chargesByID := make(map[string]*core.Record, len(chargeRecords))
	for _, r := range chargeRecords {
		chargesByID[r.Id] = r
	}

	uomRecords, err := app.FindAllRecords("uoms")
	if err != nil {
		return nil, nil, fmt.Errorf("load uoms: %w", err)
	}
	uomsByID := make(map[string]*core.Record, len(uomRecords))
	for _, r := range uomRecords {
		uomsByID[r.Id] = r
	}
	return chargesByID, uomsByID, nil
}

func loadRateCards(app *pocketbase.PocketBase) ([]RateHeader, []RateLine, error) {
	headerRecords, err := app.FindAllRecords("vendor_rate_headers")
	if err != nil {
		return nil, nil, fmt.Errorf("load rate headers: %w", err)
	}
	headers := make([]RateHeader, len(headerRecords))
	for i, r := range headerRecords {
		headers[i] = RateHeader{
			ID:          r.Id,
			VendorID:    r.GetString("vendor"),
			Mode:        r.GetString("mode"),
			Movement:    r.GetString("movement"),
			Origin:      r.GetString("origin"),
			Destination: r.GetString("destination"),
			Incoterm:    r.GetString("incoterm"),
			Currency:    r.GetString("currency"),
			ValidFrom:   r.GetDateTime("valid_from").Time(),
			ValidUpto:   r.GetDateTime("valid_upto").Time(),
			Active:      r.GetBool("active"),
		}
	}

	lineRecords, err := app.FindAllRecords("vendor_rate_lines")
	if err != nil {
		return nil, nil, fmt.Errorf("load rate lines: %w", err)
	}
	lines := make([]RateLine, len(lineRecords))
	for i, r := range lineRecords {
		lines[i] = RateLine{
			ID:          r.Id,
			HeaderID:    r.GetString("header"),
			ChargeID:    r.GetString("charge"),
			UOMID:       r.GetString("uom"),
			Rate:        r.GetFloat("rate"),
			SlabMin:     r.GetFloat("slab_min"),
			SlabMax:     r.GetFloat("slab_max"),
			IsFixedRate: r.GetBool("is_fixed_rate"),
			Sequence:    r.GetInt("sequence"),
		}
	}
	return headers, lines, nil
}

func loadExchangeRates(app *pocketbase.PocketBase) ([]ExchangeRate, error) {
	records, err := app.FindAllRecords("exchange_rates")
	if err != nil {
		return nil, fmt.Errorf("load exchange rates: %w", err)
	}
	rates := make([]ExchangeRate, len(records))
	for i, r := range records {
		rates[i] = ExchangeRate{
			ID:            r.Id,
			FromCurrency:  r.GetString("from_currency"),
			ToCurrency:    r.GetString("to_currency"),
			Rate:          r.GetFloat("rate"),
			InverseRate:   r.GetFloat("inverse_rate"),
			EffectiveDate: r.GetDateTime("effective_date").Time(),
			ExpiryDate:    r.GetDateTime("expiry_date").Time(),
			Active:        r.GetString("status") == "active",
		}
	}
	return rates, nil
}

func loadMarginRules(app *pocketbase.PocketBase) ([]MarginRule, error) {
	records, err := app.FindAllRecords("margin_rules")
	if err != nil {
		return nil, fmt.Errorf("load margin rules: %w", err)
	}
	rules := make([]MarginRule, len(records))
	for i, r := range records {
		rules[i] = MarginRule{
			ID:            r.Id,
			ChargeID:      r.GetString("charge"),
			CustomerID:    r.GetString("customer"),
			Precedence:    r.GetInt("precedence"),
			MarginPercent: r.GetFloat("margin_percent"),
			MarginFixed:   r.GetFloat("margin_fixed"),
			Active:        r.GetBool("active"),
		}
	}
	return rules, nil
}

func loadPriorSelections(app *pocketbase.PocketBase, quotationID string) (map[string]string, error) {
	records, err := app.FindRecordsByFilter("quotation_cost_lines",
		"quotation = {:id}", "", 0, 0, map[string]any{"id": quotationID})
	if err != nil {
		return nil, fmt.Errorf("load existing cost lines: %w", err)
	}
	selections := make(map[string]string, len(records))
	for _, r := range records {
		if v := r.GetString("selected_vendor"); v != "" {
			selections[r.GetString("charge")] = v
		}
	}
	return selections, nil
}

func replaceCostLines(txApp core.App, quotationID string, lines []CostLine) error {
	existing, err := txApp.FindRecordsByFilter("quotation_cost_lines",
		"quotation = {:id}", "", 0, 0, map[string]any{"id": quotationID})
	if err != nil {
		return fmt.Errorf("load cost lines: %w", err)
	}
	for _, r := range existing {
		if err := txApp.Delete(r); err != nil {
			return fmt.Errorf("delete cost line %s: %w", r.Id, err)
		}
	}

	col, err := txApp.FindCollectionByNameOrId("quotation_cost_lines")
	if err != nil {
		return fmt.Errorf("quotation_cost_lines collection not found: %w", err)
	}
	for _, line := range lines {
		r := core.NewRecord(col)
		r.Set("quotation", quotationID)
		r.Set("charge", line.ChargeID)
		r.Set("uom", line.UOMID)
		r.Set("quantity", line.Quantity)
		r.Set("vendor_costs", line.VendorCosts)
		r.Set("selected_vendor", line.SelectedVendor)
		r.Set("rate", line.Rate)
		r.Set("currency", line.Currency)
		r.Set("fx_rate", line.FxRate)
		r.Set("total_cost", line.TotalCost)
		r.Set("uncosted", line.Uncosted)
		if err := txApp.Save(r); err != nil {
			return fmt.Errorf("save cost line for charge %s: %w", line.ChargeID, err)
		}
	}
	return nil
}

func replaceSaleLines(txApp core.App, quotationID string, lines []SaleLine) error {
	existing, err := txApp.FindRecordsByFilter("quotation_sale_lines",
		"quotation = {:id}", "", 0, 0, map[string]any{"id": quotationID})
	if err != nil {
		return fmt.Errorf("load sale lines: %w", err)
	}
	for _, r := range existing {
		if err := txApp.Delete(r); err != nil {
			return fmt.Errorf("delete sale line %s: %w", r.Id, err)
		}
	}

	col, err := txApp.FindCollectionByNameOrId("quotation_sale_lines")
	if err != nil {
		return fmt.Errorf("quotation_sale_lines collection not found: %w", err)
	}
	for _, line := range lines {
		r := core.NewRecord(col)
		r.Set("quotation", quotationID)
		r.Set("charge", line.ChargeID)
		r.Set("charge_name", line.ChargeName)
		r.Set("quantity", line.Quantity)
		r.Set("unit_rate", line.UnitRate)
		r.Set("currency", line.Currency)
		r.Set("total_sale_price", line.TotalSalePrice)
		r.Set("tax_rate", line.TaxRate)
		r.Set("tax_amount", line.TaxAmount)
		r.Set("total_with_tax", line.TotalWithTax)
		r.Set("internal_cost", line.InternalCost)
		r.Set("margin_percent", line.MarginPercent)
		if err := txApp.Save(r); err != nil {
			return fmt.Errorf("save sale line for charge %s: %w", line.ChargeID, err)
		}
	}
	return nil
}
