package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/xuri/excelize/v2"

	"freightquote/services"
	"freightquote/testhelpers"
)

// rateCardUpload builds a multipart request body containing a filled
// template file.
func rateCardUpload(t *testing.T, headerID string, rows [][]string) (*bytes.Buffer, string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName(f.GetSheetName(0), "Rates")
	for i, col := range services.RateCardTemplateColumns() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue("Rates", cell, col.Label)
	}
	for r, row := range rows {
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue("Rates", cell, val)
		}
	}
	var fileBuf bytes.Buffer
	if err := f.Write(&fileBuf); err != nil {
		t.Fatal(err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("header_id", headerID); err != nil {
		t.Fatal(err)
	}
	part, err := writer.CreateFormFile("file", "rates.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(fileBuf.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, writer.FormDataContentType()
}

func importRateHeader(t *testing.T, app *pocketbase.PocketBase) string {
	t.Helper()

	kg := testhelpers.CreateTestUOM(t, app, "KG", "weight")
	testhelpers.CreateTestCharge(t, app, "AIRFRT", "Air Freight", kg.Id, 0)
	vendor := testhelpers.CreateTestVendor(t, app, "Skyline Cargo Services", "SKYLINE")
	origin := testhelpers.CreateTestLocation(t, app, "BOM", "Mumbai")
	destination := testhelpers.CreateTestLocation(t, app, "DXB", "Dubai")
	header := testhelpers.CreateTestRateHeader(t, app, vendor.Id, "AIR", "EXPORT", origin.Id, destination.Id, "FOB", "USD")
	return header.Id
}

func TestHandleRateCardImport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	headerID := importRateHeader(t, app)

	handler := HandleRateCardImport(app)

	body, contentType := rateCardUpload(t, headerID, [][]string{
		{"AIRFRT", "KG", "2.50", "0", "45", "NO", "1"},
		{"AIRFRT", "KG", "2.10", "45.01", "100", "NO", "2"},
	})
	req := httptest.NewRequest(http.MethodPost, "/rate-cards/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result services.RateImportResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Imported != 2 || result.Failed != 0 {
		t.Errorf("result = %+v, want 2 imported", result)
	}

	lines, err := app.FindRecordsByFilter("vendor_rate_lines",
		"header = {:id}", "", 0, 0, map[string]any{"id": headerID})
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Errorf("stored lines = %d, want 2", len(lines))
	}
}

func TestHandleRateCardImport_ValidationFailure(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	headerID := importRateHeader(t, app)

	handler := HandleRateCardImport(app)

	body, contentType := rateCardUpload(t, headerID, [][]string{
		{"AIRFRT", "KG", "2.50", "0", "45", "NO", "1"},
		{"WRONG", "KG", "2.10", "45.01", "100", "NO", "2"},
	})
	req := httptest.NewRequest(http.MethodPost, "/rate-cards/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}

	lines, _ := app.FindRecordsByFilter("vendor_rate_lines",
		"header = {:id}", "", 0, 0, map[string]any{"id": headerID})
	if len(lines) != 0 {
		t.Errorf("stored lines = %d, want 0", len(lines))
	}
}

func TestHandleRateCardImport_UnknownHeader(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleRateCardImport(app)

	body, contentType := rateCardUpload(t, "missing", nil)
	req := httptest.NewRequest(http.MethodPost, "/rate-cards/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
