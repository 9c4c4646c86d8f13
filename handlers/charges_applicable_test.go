package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"freightquote/testhelpers"
)

func TestHandleChargesApplicable(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	kg := testhelpers.CreateTestUOM(t, app, "KG", "weight")
	shpt := testhelpers.CreateTestUOM(t, app, "SHPT", "shipment")
	airfrt := testhelpers.CreateTestCharge(t, app, "AIRFRT", "Air Freight", kg.Id, 0)
	docs := testhelpers.CreateTestCharge(t, app, "DOC", "Documentation", shpt.Id, 18)
	ccl := testhelpers.CreateTestCharge(t, app, "CCL", "Customs Clearance", shpt.Id, 18)

	testhelpers.CreateTestChargeRule(t, app, "AIR", "EXPORT", "FOB", airfrt.Id)
	testhelpers.CreateTestChargeRule(t, app, "AIR", "EXPORT", "ALL_TERMS", docs.Id)
	testhelpers.CreateTestChargeRule(t, app, "SEA", "EXPORT", "FOB", ccl.Id)

	handler := HandleChargesApplicable(app)

	req := httptest.NewRequest(http.MethodGet, "/charges/applicable?mode=AIR&movement=EXPORT&terms=FOB", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Charges []map[string]any `json:"charges"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Charges) != 2 {
		t.Fatalf("charges = %d, want 2 (exact FOB + ALL_TERMS, sea rule excluded)", len(resp.Charges))
	}
	codes := map[string]bool{}
	for _, c := range resp.Charges {
		codes[c["code"].(string)] = true
	}
	if !codes["AIRFRT"] || !codes["DOC"] {
		t.Errorf("resolved codes = %v, want AIRFRT and DOC", codes)
	}
}

func TestHandleChargesApplicable_MissingParams(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleChargesApplicable(app)

	req := httptest.NewRequest(http.MethodGet, "/charges/applicable?mode=AIR", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
