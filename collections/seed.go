package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type currencyDef struct {
	code   string
	name   string
	symbol string
}

type uomDef struct {
	code  string
	name  string
	basis string
}

type chargeDef struct {
	code    string
	name    string
	uomCode string
	taxRate float64
}

type partyDef struct {
	name    string
	code    string
	email   string
	city    string
	country string
}

type locationDef struct {
	code    string
	name    string
	country string
	locType string
}

type chargeRuleDef struct {
	mode       string
	movement   string
	terms      string
	chargeCode string
}

type marginRuleDef struct {
	chargeCode    string // empty = all charges
	customerCode  string // empty = all customers
	precedence    int
	marginPercent float64
	marginFixed   float64
}

type exchangeRateDef struct {
	from          string
	to            string
	rate          float64
	inverseRate   float64
	effectiveDate string
	expiryDate    string
}

type rateLineDef struct {
	chargeCode  string
	uomCode     string
	rate        float64
	slabMin     float64
	slabMax     float64
	isFixedRate bool
	sequence    int
}

type rateHeaderDef struct {
	vendorCode  string
	mode        string
	movement    string
	origin      string
	destination string
	incoterm    string
	currency    string
	validFrom   string
	validUpto   string
	lines       []rateLineDef
}

type dimensionDef struct {
	lengthCM   float64
	widthCM    float64
	heightCM   float64
	pieces     int
	weightPerP float64
}

// Seed populates the engine collections with realistic freight-forwarding
// master data, pricing rules and one sample quotation. It is safe to call on
// every startup because it returns early if any charge records already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if charges already exist ───────────────────
	chargesCol, err := app.FindCollectionByNameOrId("charges")
	if err != nil {
		return fmt.Errorf("seed: could not find charges collection: %w", err)
	}
	existing, err := app.FindAllRecords(chargesCol)
	if err != nil {
		return fmt.Errorf("seed: could not query charges: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: charges collection is empty – inserting seed data …")

	// ── currencies ───────────────────────────────────────────────────
	currenciesCol, err := app.FindCollectionByNameOrId("currencies")
	if err != nil {
		return fmt.Errorf("seed: could not find currencies collection: %w", err)
	}
	currencyDefs := []currencyDef{
		{"INR", "Indian Rupee", "₹"},
		{"USD", "US Dollar", "$"},
		{"EUR", "Euro", "€"},
		{"AED", "UAE Dirham", "د.إ"},
	}
	for _, d := range currencyDefs {
		r := core.NewRecord(currenciesCol)
		r.Set("code", d.code)
		r.Set("name", d.name)
		r.Set("symbol", d.symbol)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: currency %s: %w", d.code, err)
		}
	}

	// ── UOMs ─────────────────────────────────────────────────────────
	uomsCol, err := app.FindCollectionByNameOrId("uoms")
	if err != nil {
		return fmt.Errorf("seed: could not find uoms collection: %w", err)
	}
	uomDefs := []uomDef{
		{"KG", "Per Kilogram", "weight"},
		{"CBM", "Per Cubic Metre", "volume"},
		{"SHPT", "Per Shipment", "shipment"},
	}
	uomIDs := make(map[string]string, len(uomDefs))
	for _, d := range uomDefs {
		r := core.NewRecord(uomsCol)
		r.Set("code", d.code)
		r.Set("name", d.name)
		r.Set("basis", d.basis)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: uom %s: %w", d.code, err)
		}
		uomIDs[d.code] = r.Id
	}

	// ── charges ──────────────────────────────────────────────────────
	chargeDefs := []chargeDef{
		{"AIRFRT", "Air Freight", "KG", 0},
		{"FSC", "Fuel Surcharge", "KG", 0},
		{"AHC", "Airport Handling", "KG", 18},
		{"DOC", "Documentation", "SHPT", 18},
		{"CCL", "Customs Clearance", "SHPT", 18},
	}
	chargeIDs := make(map[string]string, len(chargeDefs))
	for _, d := range chargeDefs {
		r := core.NewRecord(chargesCol)
		r.Set("code", d.code)
		r.Set("name", d.name)
		r.Set("default_uom", uomIDs[d.uomCode])
		r.Set("tax_rate", d.taxRate)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: charge %s: %w", d.code, err)
		}
		chargeIDs[d.code] = r.Id
	}

	// ── customers ────────────────────────────────────────────────────
	customersCol, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		return fmt.Errorf("seed: could not find customers collection: %w", err)
	}
	customerDefs := []partyDef{
		{"Acme Exports Pvt Ltd", "ACME", "ops@acmeexports.in", "Mumbai", "India"},
		{"Zenith Pharma Ltd", "ZENITH", "logistics@zenithpharma.in", "Ahmedabad", "India"},
	}
	customerIDs := make(map[string]string, len(customerDefs))
	for _, d := range customerDefs {
		r := core.NewRecord(customersCol)
		r.Set("name", d.name)
		r.Set("code", d.code)
		r.Set("email", d.email)
		r.Set("city", d.city)
		r.Set("country", d.country)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: customer %s: %w", d.code, err)
		}
		customerIDs[d.code] = r.Id
	}

	// ── vendors ──────────────────────────────────────────────────────
	vendorsCol, err := app.FindCollectionByNameOrId("vendors")
	if err != nil {
		return fmt.Errorf("seed: could not find vendors collection: %w", err)
	}
	vendorDefs := []partyDef{
		{"Skyline Cargo Services", "SKYLINE", "rates@skylinecargo.in", "Mumbai", "India"},
		{"GlobalAir Logistics", "GLOBALAIR", "pricing@globalair.com", "Dubai", "UAE"},
		{"Meridian Freight Co", "MERIDIAN", "quotes@meridianfreight.in", "Delhi", "India"},
	}
	vendorIDs := make(map[string]string, len(vendorDefs))
	for _, d := range vendorDefs {
		r := core.NewRecord(vendorsCol)
		r.Set("name", d.name)
		r.Set("code", d.code)
		r.Set("email", d.email)
		r.Set("city", d.city)
		r.Set("country", d.country)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: vendor %s: %w", d.code, err)
		}
		vendorIDs[d.code] = r.Id
	}

	// ── locations ────────────────────────────────────────────────────
	locationsCol, err := app.FindCollectionByNameOrId("locations")
	if err != nil {
		return fmt.Errorf("seed: could not find locations collection: %w", err)
	}
	locationDefs := []locationDef{
		{"BOM", "Mumbai (CSMIA)", "India", "airport"},
		{"DEL", "Delhi (IGI)", "India", "airport"},
		{"DXB", "Dubai International", "UAE", "airport"},
		{"SIN", "Singapore Changi", "Singapore", "airport"},
	}
	locationIDs := make(map[string]string, len(locationDefs))
	for _, d := range locationDefs {
		r := core.NewRecord(locationsCol)
		r.Set("code", d.code)
		r.Set("name", d.name)
		r.Set("country", d.country)
		r.Set("type", d.locType)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: location %s: %w", d.code, err)
		}
		locationIDs[d.code] = r.Id
	}

	// ── charge rules ─────────────────────────────────────────────────
	chargeRulesCol, err := app.FindCollectionByNameOrId("charge_rules")
	if err != nil {
		return fmt.Errorf("seed: could not find charge_rules collection: %w", err)
	}
	chargeRuleDefs := []chargeRuleDef{
		{"AIR", "EXPORT", "FOB", "AIRFRT"},
		{"AIR", "EXPORT", "FOB", "FSC"},
		{"AIR", "EXPORT", "FOB", "AHC"},
		{"AIR", "EXPORT", "CIF", "AIRFRT"},
		{"AIR", "EXPORT", "CIF", "FSC"},
		{"AIR", "EXPORT", "ALL_TERMS", "DOC"},
		{"AIR", "EXPORT", "ALL_TERMS", "CCL"},
		{"AIR", "IMPORT", "ALL_TERMS", "CCL"},
		{"AIR", "IMPORT", "ALL_TERMS", "DOC"},
		{"SEA", "EXPORT", "ALL_TERMS", "DOC"},
	}
	for _, d := range chargeRuleDefs {
		r := core.NewRecord(chargeRulesCol)
		r.Set("mode", d.mode)
		r.Set("movement", d.movement)
		r.Set("terms", d.terms)
		r.Set("charge", chargeIDs[d.chargeCode])
		r.Set("active", true)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: charge rule %s/%s/%s/%s: %w", d.mode, d.movement, d.terms, d.chargeCode, err)
		}
	}

	// ── margin rules (global safety net + cascade) ───────────────────
	marginRulesCol, err := app.FindCollectionByNameOrId("margin_rules")
	if err != nil {
		return fmt.Errorf("seed: could not find margin_rules collection: %w", err)
	}
	marginRuleDefs := []marginRuleDef{
		{"", "", 1, 0.20, 0},           // global default
		{"AIRFRT", "", 3, 0.15, 0},     // freight runs thinner
		{"AIRFRT", "ACME", 4, 0.08, 0}, // negotiated account rate
		{"DOC", "", 3, 0, 500},         // flat documentation markup
		{"", "ZENITH", 2, 0.18, 0},     // account-wide concession
	}
	for _, d := range marginRuleDefs {
		r := core.NewRecord(marginRulesCol)
		if d.chargeCode != "" {
			r.Set("charge", chargeIDs[d.chargeCode])
		}
		if d.customerCode != "" {
			r.Set("customer", customerIDs[d.customerCode])
		}
		r.Set("precedence", d.precedence)
		r.Set("margin_percent", d.marginPercent)
		r.Set("margin_fixed", d.marginFixed)
		r.Set("active", true)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: margin rule prec %d: %w", d.precedence, err)
		}
	}

	// ── exchange rates ───────────────────────────────────────────────
	ratesCol, err := app.FindCollectionByNameOrId("exchange_rates")
	if err != nil {
		return fmt.Errorf("seed: could not find exchange_rates collection: %w", err)
	}
	rateDefs := []exchangeRateDef{
		{"USD", "INR", 83.50, 0.011976, "2025-01-01", ""},
		{"USD", "INR", 85.25, 0.011730, "2025-04-01", ""},
		{"EUR", "INR", 92.00, 0.010870, "2025-01-01", ""},
		{"AED", "INR", 23.20, 0.043103, "2025-01-01", ""},
	}
	for _, d := range rateDefs {
		r := core.NewRecord(ratesCol)
		r.Set("from_currency", d.from)
		r.Set("to_currency", d.to)
		r.Set("rate", d.rate)
		r.Set("inverse_rate", d.inverseRate)
		r.Set("effective_date", d.effectiveDate+" 00:00:00.000Z")
		if d.expiryDate != "" {
			r.Set("expiry_date", d.expiryDate+" 00:00:00.000Z")
		}
		r.Set("status", "active")
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: exchange rate %s→%s: %w", d.from, d.to, err)
		}
	}

	// ── vendor rate cards ────────────────────────────────────────────
	headersCol, err := app.FindCollectionByNameOrId("vendor_rate_headers")
	if err != nil {
		return fmt.Errorf("seed: could not find vendor_rate_headers collection: %w", err)
	}
	linesCol, err := app.FindCollectionByNameOrId("vendor_rate_lines")
	if err != nil {
		return fmt.Errorf("seed: could not find vendor_rate_lines collection: %w", err)
	}
	headerDefs := []rateHeaderDef{
		{
			vendorCode: "SKYLINE", mode: "AIR", movement: "EXPORT",
			origin: "BOM", destination: "DXB", incoterm: "FOB",
			currency: "USD", validFrom: "2025-01-01", validUpto: "2025-12-31",
			lines: []rateLineDef{
				{"AIRFRT", "KG", 2.50, 0, 45, false, 1},
				{"AIRFRT", "KG", 2.10, 45.01, 100, false, 2},
				{"AIRFRT", "KG", 1.80, 100.01, 500, false, 3},
				{"FSC", "KG", 0.35, 0, 500, false, 1},
			},
		},
		{
			vendorCode: "GLOBALAIR", mode: "AIR", movement: "EXPORT",
			origin: "BOM", destination: "DXB", incoterm: "FOB",
			currency: "USD", validFrom: "2025-01-01", validUpto: "2025-12-31",
			lines: []rateLineDef{
				{"AIRFRT", "KG", 2.30, 0, 100, false, 1},
				{"AIRFRT", "KG", 1.95, 100.01, 500, false, 2},
				{"FSC", "KG", 0.40, 0, 500, false, 1},
			},
		},
		{
			vendorCode: "MERIDIAN", mode: "AIR", movement: "EXPORT",
			origin: "BOM", destination: "DXB", incoterm: "FOB",
			currency: "INR", validFrom: "2025-01-01", validUpto: "",
			lines: []rateLineDef{
				{"AHC", "KG", 12.00, 0, 1000, false, 1},
				{"DOC", "SHPT", 1500, 0, 0, true, 1},
				{"CCL", "SHPT", 3500, 0, 0, true, 1},
			},
		},
	}
	for _, hd := range headerDefs {
		h := core.NewRecord(headersCol)
		h.Set("vendor", vendorIDs[hd.vendorCode])
		h.Set("mode", hd.mode)
		h.Set("movement", hd.movement)
		h.Set("origin", locationIDs[hd.origin])
		h.Set("destination", locationIDs[hd.destination])
		h.Set("incoterm", hd.incoterm)
		h.Set("currency", hd.currency)
		h.Set("valid_from", hd.validFrom+" 00:00:00.000Z")
		if hd.validUpto != "" {
			h.Set("valid_upto", hd.validUpto+" 00:00:00.000Z")
		}
		h.Set("active", true)
		if err := app.Save(h); err != nil {
			return fmt.Errorf("seed: rate header %s: %w", hd.vendorCode, err)
		}

		for _, ld := range hd.lines {
			l := core.NewRecord(linesCol)
			l.Set("header", h.Id)
			l.Set("charge", chargeIDs[ld.chargeCode])
			l.Set("uom", uomIDs[ld.uomCode])
			l.Set("rate", ld.rate)
			l.Set("slab_min", ld.slabMin)
			l.Set("slab_max", ld.slabMax)
			l.Set("is_fixed_rate", ld.isFixedRate)
			l.Set("sequence", ld.sequence)
			if err := app.Save(l); err != nil {
				return fmt.Errorf("seed: rate line %s/%s: %w", hd.vendorCode, ld.chargeCode, err)
			}
		}
	}

	// ── volumetric divisors ──────────────────────────────────────────
	divisorsCol, err := app.FindCollectionByNameOrId("volumetric_divisors")
	if err != nil {
		return fmt.Errorf("seed: could not find volumetric_divisors collection: %w", err)
	}
	divisor := core.NewRecord(divisorsCol)
	divisor.Set("mode", "AIR")
	divisor.Set("divisor", 167)
	if err := app.Save(divisor); err != nil {
		return fmt.Errorf("seed: volumetric divisor: %w", err)
	}

	// ── sample quotation ─────────────────────────────────────────────
	quotationsCol, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		return fmt.Errorf("seed: could not find quotations collection: %w", err)
	}
	dimensionsCol, err := app.FindCollectionByNameOrId("quotation_dimensions")
	if err != nil {
		return fmt.Errorf("seed: could not find quotation_dimensions collection: %w", err)
	}

	quote := core.NewRecord(quotationsCol)
	quote.Set("quote_number", "FF-QT-ACME-25-26-001")
	quote.Set("customer", customerIDs["ACME"])
	quote.Set("mode", "AIR")
	quote.Set("movement", "EXPORT")
	quote.Set("incoterm", "FOB")
	quote.Set("origin", locationIDs["BOM"])
	quote.Set("destination", locationIDs["DXB"])
	quote.Set("base_currency", "INR")
	quote.Set("pricing_date", "2025-06-01 00:00:00.000Z")
	quote.Set("status", "draft")
	quote.Set("revision", 0)
	if err := app.Save(quote); err != nil {
		return fmt.Errorf("seed: sample quotation: %w", err)
	}

	dimensionDefs := []dimensionDef{
		{50, 40, 30, 2, 10},
		{120, 80, 60, 1, 95},
	}
	for i, d := range dimensionDefs {
		r := core.NewRecord(dimensionsCol)
		r.Set("quotation", quote.Id)
		r.Set("length_cm", d.lengthCM)
		r.Set("width_cm", d.widthCM)
		r.Set("height_cm", d.heightCM)
		r.Set("pieces", d.pieces)
		r.Set("weight_per_piece_kg", d.weightPerP)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: dimension row %d: %w", i+1, err)
		}
	}

	log.Println("seed: done")
	return nil
}
