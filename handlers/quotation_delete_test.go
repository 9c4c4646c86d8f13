package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"freightquote/testhelpers"
)

func TestHandleQuotationDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.SeedQuotingBasics(t, app)

	handler := HandleQuotationDelete(app)

	req := httptest.NewRequest(http.MethodDelete, "/quotations/"+quote.Id, nil)
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// The record survives as a tombstone.
	fresh, err := app.FindRecordById("quotations", quote.Id)
	if err != nil {
		t.Fatalf("record was hard-deleted: %v", err)
	}
	if !fresh.GetBool("deleted") {
		t.Error("deleted flag not set")
	}

	// A second delete treats it as gone.
	rec = httptest.NewRecorder()
	e = newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on repeat delete, got %d", rec.Code)
	}
}
