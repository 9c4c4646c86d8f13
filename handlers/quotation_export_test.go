package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"freightquote/services"
	"freightquote/testhelpers"
)

func TestHandleQuotationExport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.SeedQuotingBasics(t, app)

	asOf, _ := time.Parse("2006-01-02", "2025-06-01")
	if _, err := services.RecomputeQuotation(app, quote.Id, asOf); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	handler := HandleQuotationExport(app)

	req := httptest.NewRequest(http.MethodGet, "/quotations/"+quote.Id+"/export/excel", nil)
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content-type: %s", contentType)
	}
	disp := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disp, quote.GetString("quote_number")) {
		t.Errorf("filename should carry the quote number: %s", disp)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("export is not a valid xlsx: %v", err)
	}
	defer f.Close()

	title, _ := f.GetCellValue("Costing", "A1")
	if !strings.Contains(title, quote.GetString("quote_number")) {
		t.Errorf("title = %q, want quote number", title)
	}
}

func TestHandleQuotationExport_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleQuotationExport(app)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
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
