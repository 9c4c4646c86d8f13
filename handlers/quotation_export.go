package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"freightquote/services"
)

// HandleQuotationExport downloads the costing sheet for a quotation as an
// Excel file.
// Route: GET /quotations/{id}/export/excel
func HandleQuotationExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := findQuotation(app, e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "quotation not found")
		}

		data, err := services.BuildCostingSheetData(app, quote.Id)
		if err != nil {
			log.Printf("quotation_export: could not build sheet data for %s: %v", quote.Id, err)
			return serviceError(e, err)
		}

		xlsxBytes, err := services.GenerateCostingExcel(data)
		if err != nil {
			log.Printf("quotation_export: failed to generate excel for %s: %v", quote.Id, err)
			return jsonError(e, http.StatusInternalServerError, "Failed to generate export")
		}

		filename := fmt.Sprintf("%s_Costing.xlsx", quote.GetString("quote_number"))

		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
