package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"freightquote/testhelpers"
)

func TestHandleQuotationSubmit_RoutesToApproval(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.SeedQuotingBasics(t, app)

	quote.Set("status", "pending_costing")
	quote.Set("total_cost", 25000)
	quote.Set("margin_percent", 15)
	if err := app.Save(quote); err != nil {
		t.Fatal(err)
	}

	handler := HandleQuotationSubmit(app)

	req := httptest.NewRequest(http.MethodPost, "/quotations/"+quote.Id+"/submit",
		strings.NewReader(`{"submitted_by": "sales.user"}`))
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
		Status        string `json:"status"`
		ApprovalID    string `json:"approval_id"`
		NeedsApproval bool   `json:"needs_approval"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "pending_approval" || !resp.NeedsApproval || resp.ApprovalID == "" {
		t.Errorf("resp = %+v, want pending_approval with approval id", resp)
	}
}

func TestHandleQuotationSubmit_FromDraftConflicts(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.SeedQuotingBasics(t, app)

	handler := HandleQuotationSubmit(app)

	req := httptest.NewRequest(http.MethodPost, "/test",
		strings.NewReader(`{"submitted_by": "sales.user"}`))
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestHandleQuotationSubmit_RequiresSubmitter(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.SeedQuotingBasics(t, app)

	handler := HandleQuotationSubmit(app)

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"submitted_by": "  "}`))
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
