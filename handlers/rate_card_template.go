package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"freightquote/services"
)

// HandleRateCardTemplate serves the Excel template for bulk rate-card entry.
// Route: GET /rate-cards/template
func HandleRateCardTemplate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateRateCardTemplate(app)
		if err != nil {
			log.Printf("rate_card_template: failed to generate: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to generate template")
		}

		filename := fmt.Sprintf("RateCard_Template_%d.xlsx", time.Now().Year())

		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
