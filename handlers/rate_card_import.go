package handlers

import (
	"io"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"freightquote/services"
)

// HandleRateCardImport receives a filled rate-card template for a vendor rate
// header, validates every row, and commits the batch. Any validation error
// blocks the whole file.
// Route: POST /rate-cards/import (multipart: header_id, file)
func HandleRateCardImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// Max 10MB upload.
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return jsonError(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		headerID := e.Request.FormValue("header_id")
		if headerID == "" {
			return jsonError(e, http.StatusBadRequest, "header_id is required")
		}
		if _, err := app.FindRecordById("vendor_rate_headers", headerID); err != nil {
			return jsonError(e, http.StatusNotFound, "rate header not found")
		}

		file, _, err := e.Request.FormFile("file")
		if err != nil {
			return jsonError(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			log.Printf("rate_card_import: could not read upload: %v", err)
			return jsonError(e, http.StatusBadRequest, "Could not read the uploaded file")
		}

		rows, err := services.ParseRateCardFile(data)
		if err != nil {
			log.Printf("rate_card_import: %v", err)
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		result, err := services.CommitRateCardImport(app, headerID, rows)
		if err != nil {
			log.Printf("rate_card_import: commit failed for header %s: %v", headerID, err)
			return serviceError(e, err)
		}

		status := http.StatusOK
		if result.RolledBack {
			status = http.StatusUnprocessableEntity
		}
		return e.JSON(status, result)
	}
}
