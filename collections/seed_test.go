package collections_test

import (
	"testing"

	"freightquote/collections"
	"freightquote/testhelpers"
)

func TestSeed_CreatesReferenceData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	counts := map[string]int{
		"currencies":          4,
		"uoms":                3,
		"charges":             5,
		"customers":           2,
		"vendors":             3,
		"locations":           4,
		"charge_rules":        10,
		"margin_rules":        5,
		"exchange_rates":      4,
		"vendor_rate_headers": 3,
		"volumetric_divisors": 1,
		"quotations":          1,
	}
	for name, want := range counts {
		records, err := app.FindAllRecords(name)
		if err != nil {
			t.Errorf("query %s: %v", name, err)
			continue
		}
		if len(records) != want {
			t.Errorf("%s: got %d records, want %d", name, len(records), want)
		}
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	charges, _ := app.FindAllRecords("charges")
	if len(charges) != 5 {
		t.Errorf("expected 5 charges after idempotent seed, got %d", len(charges))
	}
	quotations, _ := app.FindAllRecords("quotations")
	if len(quotations) != 1 {
		t.Errorf("expected 1 quotation after idempotent seed, got %d", len(quotations))
	}
}

func TestSeed_SampleQuotation(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	quote, err := app.FindFirstRecordByData("quotations", "quote_number", "FF-QT-ACME-25-26-001")
	if err != nil {
		t.Fatalf("sample quotation missing: %v", err)
	}
	if quote.GetString("status") != "draft" {
		t.Errorf("status = %q, want draft", quote.GetString("status"))
	}
	if quote.GetInt("revision") != 0 {
		t.Errorf("revision = %d, want 0", quote.GetInt("revision"))
	}

	dims, err := app.FindRecordsByFilter("quotation_dimensions",
		"quotation = {:id}", "", 0, 0, map[string]any{"id": quote.Id})
	if err != nil {
		t.Fatal(err)
	}
	if len(dims) != 2 {
		t.Errorf("dimension rows = %d, want 2", len(dims))
	}
}

func TestSeed_RateCardSlabs(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	vendor, err := app.FindFirstRecordByData("vendors", "code", "SKYLINE")
	if err != nil {
		t.Fatal(err)
	}
	header, err := app.FindFirstRecordByFilter("vendor_rate_headers",
		"vendor = {:v}", map[string]any{"v": vendor.Id})
	if err != nil {
		t.Fatalf("skyline rate header missing: %v", err)
	}
	lines, err := app.FindRecordsByFilter("vendor_rate_lines",
		"header = {:h}", "sequence", 0, 0, map[string]any{"h": header.Id})
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) == 0 {
		t.Fatal("skyline rate lines missing")
	}
	if lines[0].GetFloat("rate") != 2.50 {
		t.Errorf("first slab rate = %v, want 2.50", lines[0].GetFloat("rate"))
	}
}
