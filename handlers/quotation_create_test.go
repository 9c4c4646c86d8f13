package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"freightquote/testhelpers"
)

func TestHandleQuotationCreate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Zenith Traders", "ZENITH")
	origin := testhelpers.CreateTestLocation(t, app, "BOM", "Mumbai")
	destination := testhelpers.CreateTestLocation(t, app, "DXB", "Dubai")

	handler := HandleQuotationCreate(app)

	body := `{
		"customer": "` + customer.Id + `",
		"mode": "air",
		"movement": "export",
		"incoterm": "FOB",
		"origin": "` + origin.Id + `",
		"destination": "` + destination.Id + `",
		"base_currency": "INR",
		"pricing_date": "2025-06-01"
	}`
	req := httptest.NewRequest(http.MethodPost, "/quotations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	quoteNumber, _ := resp["quote_number"].(string)
	if !strings.HasPrefix(quoteNumber, "FF-QT-ZENITH-") {
		t.Errorf("quote_number = %q, want FF-QT-ZENITH- prefix", quoteNumber)
	}
	if resp["status"] != "draft" {
		t.Errorf("status = %v, want draft", resp["status"])
	}

	record, err := app.FindRecordById("quotations", resp["id"].(string))
	if err != nil {
		t.Fatalf("created quotation not stored: %v", err)
	}
	if record.GetString("mode") != "AIR" || record.GetString("movement") != "EXPORT" {
		t.Errorf("mode/movement not normalized: %s/%s",
			record.GetString("mode"), record.GetString("movement"))
	}
	if record.GetInt("revision") != 0 {
		t.Errorf("revision = %d, want 0", record.GetInt("revision"))
	}
}

func TestHandleQuotationCreate_ValidationErrors(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleQuotationCreate(app)

	req := httptest.NewRequest(http.MethodPost, "/quotations",
		strings.NewReader(`{"mode": "TELEPORT"}`))
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"customer", "mode", "movement", "incoterm", "origin", "destination", "base_currency"} {
		if resp.Errors[field] == "" {
			t.Errorf("missing validation error for %s", field)
		}
	}
}

func TestHandleQuotationCreate_UnknownCustomer(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	origin := testhelpers.CreateTestLocation(t, app, "BOM", "Mumbai")
	destination := testhelpers.CreateTestLocation(t, app, "DXB", "Dubai")

	handler := HandleQuotationCreate(app)

	body := `{
		"customer": "missing123",
		"mode": "AIR",
		"movement": "EXPORT",
		"incoterm": "FOB",
		"origin": "` + origin.Id + `",
		"destination": "` + destination.Id + `",
		"base_currency": "INR"
	}`
	req := httptest.NewRequest(http.MethodPost, "/quotations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
