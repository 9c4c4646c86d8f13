package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"freightquote/services"
	"freightquote/testhelpers"
)

func TestHandleQuotationView(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.SeedQuotingBasics(t, app)

	asOf, _ := time.Parse("2006-01-02", "2025-06-01")
	if _, err := services.RecomputeQuotation(app, quote.Id, asOf); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	handler := HandleQuotationView(app)

	req := httptest.NewRequest(http.MethodGet, "/quotations/"+quote.Id, nil)
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		QuoteNumber string           `json:"quote_number"`
		Status      string           `json:"status"`
		Dimensions  []map[string]any `json:"dimensions"`
		CostLines   []map[string]any `json:"cost_lines"`
		SaleLines   []map[string]any `json:"sale_lines"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.QuoteNumber != quote.GetString("quote_number") {
		t.Errorf("quote_number = %q", resp.QuoteNumber)
	}
	if resp.Status != "pending_costing" {
		t.Errorf("status = %q, want pending_costing", resp.Status)
	}
	if len(resp.Dimensions) != 1 || len(resp.CostLines) != 1 || len(resp.SaleLines) != 1 {
		t.Fatalf("dimensions/cost/sale = %d/%d/%d, want 1/1/1",
			len(resp.Dimensions), len(resp.CostLines), len(resp.SaleLines))
	}

	options, ok := resp.CostLines[0]["vendor_options"].([]any)
	if !ok || len(options) != 1 {
		t.Fatalf("vendor_options = %v, want 1 entry", resp.CostLines[0]["vendor_options"])
	}
	option := options[0].(map[string]any)
	if option["selected"] != true || option["cheapest"] != true {
		t.Errorf("vendor option flags = %v", option)
	}
	if name, _ := option["vendor_name"].(string); name == "" {
		t.Error("vendor_name not resolved")
	}
}

func TestHandleQuotationView_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleQuotationView(app)

	req := httptest.NewRequest(http.MethodGet, "/quotations/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleQuotationView_SoftDeletedHidden(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.SeedQuotingBasics(t, app)

	quote.Set("deleted", true)
	if err := app.Save(quote); err != nil {
		t.Fatal(err)
	}

	handler := HandleQuotationView(app)

	req := httptest.NewRequest(http.MethodGet, "/quotations/"+quote.Id, nil)
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for soft-deleted quotation, got %d", rec.Code)
	}
}
