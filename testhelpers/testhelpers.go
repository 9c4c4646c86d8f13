// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"freightquote/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestCustomer creates a customer record and returns it.
func CreateTestCustomer(t *testing.T, app *pocketbase.PocketBase, name, code string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		t.Fatalf("failed to find customers collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("code", code)
	record.Set("city", "Mumbai")
	record.Set("country", "India")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test customer: %v", err)
	}

	return record
}

// CreateTestVendor creates a vendor record and returns it.
func CreateTestVendor(t *testing.T, app *pocketbase.PocketBase, name, code string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("vendors")
	if err != nil {
		t.Fatalf("failed to find vendors collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("code", code)
	record.Set("city", "Mumbai")
	record.Set("country", "India")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test vendor: %v", err)
	}

	return record
}

// CreateTestLocation creates a location record and returns it.
func CreateTestLocation(t *testing.T, app *pocketbase.PocketBase, code, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("locations")
	if err != nil {
		t.Fatalf("failed to find locations collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("code", code)
	record.Set("name", name)
	record.Set("country", "India")
	record.Set("type", "airport")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test location: %v", err)
	}

	return record
}

// CreateTestUOM creates a unit-of-measure record and returns it.
func CreateTestUOM(t *testing.T, app *pocketbase.PocketBase, code, basis string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("uoms")
	if err != nil {
		t.Fatalf("failed to find uoms collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("code", code)
	record.Set("name", code)
	record.Set("basis", basis)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test uom: %v", err)
	}

	return record
}

// CreateTestCharge creates a charge record and returns it.
func CreateTestCharge(t *testing.T, app *pocketbase.PocketBase, code, name, uomID string, taxRate float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("charges")
	if err != nil {
		t.Fatalf("failed to find charges collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("code", code)
	record.Set("name", name)
	record.Set("default_uom", uomID)
	record.Set("tax_rate", taxRate)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test charge: %v", err)
	}

	return record
}

// CreateTestChargeRule creates an active charge rule record.
func CreateTestChargeRule(t *testing.T, app *pocketbase.PocketBase, mode, movement, terms, chargeID string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("charge_rules")
	if err != nil {
		t.Fatalf("failed to find charge_rules collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("mode", mode)
	record.Set("movement", movement)
	record.Set("terms", terms)
	record.Set("charge", chargeID)
	record.Set("active", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test charge rule: %v", err)
	}

	return record
}

// CreateTestMarginRule creates an active margin rule record. Empty chargeID
// or customerID leaves the relation unset (applies to all).
func CreateTestMarginRule(t *testing.T, app *pocketbase.PocketBase, chargeID, customerID string, precedence int, marginPercent, marginFixed float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("margin_rules")
	if err != nil {
		t.Fatalf("failed to find margin_rules collection: %v", err)
	}

	record := core.NewRecord(col)
	if chargeID != "" {
		record.Set("charge", chargeID)
	}
	if customerID != "" {
		record.Set("customer", customerID)
	}
	record.Set("precedence", precedence)
	record.Set("margin_percent", marginPercent)
	record.Set("margin_fixed", marginFixed)
	record.Set("active", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test margin rule: %v", err)
	}

	return record
}

// CreateTestExchangeRate creates an active exchange rate record effective on
// the given date ("2006-01-02").
func CreateTestExchangeRate(t *testing.T, app *pocketbase.PocketBase, from, to string, rate, inverseRate float64, effectiveDate string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("exchange_rates")
	if err != nil {
		t.Fatalf("failed to find exchange_rates collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("from_currency", from)
	record.Set("to_currency", to)
	record.Set("rate", rate)
	record.Set("inverse_rate", inverseRate)
	record.Set("effective_date", effectiveDate+" 00:00:00.000Z")
	record.Set("status", "active")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test exchange rate: %v", err)
	}

	return record
}

// CreateTestRateHeader creates an active vendor rate header valid through
// calendar year 2025.
func CreateTestRateHeader(t *testing.T, app *pocketbase.PocketBase, vendorID, mode, movement, originID, destinationID, incoterm, currency string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("vendor_rate_headers")
	if err != nil {
		t.Fatalf("failed to find vendor_rate_headers collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("vendor", vendorID)
	record.Set("mode", mode)
	record.Set("movement", movement)
	record.Set("origin", originID)
	record.Set("destination", destinationID)
	record.Set("incoterm", incoterm)
	record.Set("currency", currency)
	record.Set("valid_from", "2025-01-01 00:00:00.000Z")
	record.Set("valid_upto", "2025-12-31 00:00:00.000Z")
	record.Set("active", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test rate header: %v", err)
	}

	return record
}

// CreateTestRateLine creates a slab rate line on a header.
func CreateTestRateLine(t *testing.T, app *pocketbase.PocketBase, headerID, chargeID, uomID string, rate, slabMin, slabMax float64, sequence int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("vendor_rate_lines")
	if err != nil {
		t.Fatalf("failed to find vendor_rate_lines collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("header", headerID)
	record.Set("charge", chargeID)
	record.Set("uom", uomID)
	record.Set("rate", rate)
	record.Set("slab_min", slabMin)
	record.Set("slab_max", slabMax)
	record.Set("is_fixed_rate", false)
	record.Set("sequence", sequence)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test rate line: %v", err)
	}

	return record
}

// CreateTestFixedRateLine creates a fixed (slab-less) rate line on a header.
func CreateTestFixedRateLine(t *testing.T, app *pocketbase.PocketBase, headerID, chargeID, uomID string, rate float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("vendor_rate_lines")
	if err != nil {
		t.Fatalf("failed to find vendor_rate_lines collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("header", headerID)
	record.Set("charge", chargeID)
	record.Set("uom", uomID)
	record.Set("rate", rate)
	record.Set("slab_min", 0)
	record.Set("slab_max", 0)
	record.Set("is_fixed_rate", true)
	record.Set("sequence", 1)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test fixed rate line: %v", err)
	}

	return record
}

// CreateTestQuotation creates a draft AIR EXPORT FOB quotation priced in INR
// on 2025-06-01.
func CreateTestQuotation(t *testing.T, app *pocketbase.PocketBase, quoteNumber, customerID, originID, destinationID string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		t.Fatalf("failed to find quotations collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quote_number", quoteNumber)
	record.Set("customer", customerID)
	record.Set("mode", "AIR")
	record.Set("movement", "EXPORT")
	record.Set("incoterm", "FOB")
	record.Set("origin", originID)
	record.Set("destination", destinationID)
	record.Set("base_currency", "INR")
	record.Set("pricing_date", "2025-06-01 00:00:00.000Z")
	record.Set("status", "draft")
	record.Set("revision", 0)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quotation: %v", err)
	}

	return record
}

// CreateTestDimension creates a dimension row on a quotation.
func CreateTestDimension(t *testing.T, app *pocketbase.PocketBase, quotationID string, l, w, h float64, pieces int, weightPerPiece float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotation_dimensions")
	if err != nil {
		t.Fatalf("failed to find quotation_dimensions collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quotation", quotationID)
	record.Set("length_cm", l)
	record.Set("width_cm", w)
	record.Set("height_cm", h)
	record.Set("pieces", pieces)
	record.Set("weight_per_piece_kg", weightPerPiece)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test dimension: %v", err)
	}

	return record
}

// SeedQuotingBasics creates the minimum reference data most engine tests
// need: KG/SHPT uoms, an air freight charge with a FOB charge rule, a global
// margin rule, a USD→INR rate, a customer, a vendor with a slab rate card,
// and one draft quotation with a dimension row. It returns the quotation.
func SeedQuotingBasics(t *testing.T, app *pocketbase.PocketBase) *core.Record {
	t.Helper()

	kg := CreateTestUOM(t, app, "KG", "weight")
	charge := CreateTestCharge(t, app, "AIRFRT", "Air Freight", kg.Id, 0)
	CreateTestChargeRule(t, app, "AIR", "EXPORT", "FOB", charge.Id)
	CreateTestMarginRule(t, app, "", "", 1, 0.20, 0)
	CreateTestExchangeRate(t, app, "USD", "INR", 83.50, 0.011976, "2025-01-01")

	customer := CreateTestCustomer(t, app, "Acme Exports Pvt Ltd", "ACME")
	origin := CreateTestLocation(t, app, "BOM", "Mumbai")
	destination := CreateTestLocation(t, app, "DXB", "Dubai")

	vendor := CreateTestVendor(t, app, "Skyline Cargo Services", "SKYLINE")
	header := CreateTestRateHeader(t, app, vendor.Id, "AIR", "EXPORT", origin.Id, destination.Id, "FOB", "USD")
	CreateTestRateLine(t, app, header.Id, charge.Id, kg.Id, 2.50, 0, 100, 1)

	quote := CreateTestQuotation(t, app, "FF-QT-ACME-25-26-001", customer.Id, origin.Id, destination.Id)
	CreateTestDimension(t, app, quote.Id, 50, 40, 30, 2, 10)

	return quote
}
