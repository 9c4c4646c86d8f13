package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleQuotationList lists quotations, newest first. Soft-deleted records
// are excluded; ?status= narrows to one workflow state and ?q= searches the
// quote number.
// Route: GET /quotations
func HandleQuotationList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		filter := "deleted = false"
		params := map[string]any{}

		if status := e.Request.URL.Query().Get("status"); status != "" {
			filter += " && status = {:status}"
			params["status"] = status
		}
		if q := e.Request.URL.Query().Get("q"); q != "" {
			filter += " && quote_number ~ {:q}"
			params["q"] = q
		}

		records, err := app.FindRecordsByFilter("quotations", filter, "-created", 0, 0, params)
		if err != nil {
			log.Printf("quotation_list: could not query quotations: %v", err)
			return serviceError(e, err)
		}

		customerNames := map[string]string{}
		items := make([]map[string]any, 0, len(records))
		for _, r := range records {
			customerID := r.GetString("customer")
			name, ok := customerNames[customerID]
			if !ok {
				if customer, err := app.FindRecordById("customers", customerID); err == nil {
					name = customer.GetString("name")
				}
				customerNames[customerID] = name
			}

			items = append(items, map[string]any{
				"id":             r.Id,
				"quote_number":   r.GetString("quote_number"),
				"customer":       customerID,
				"customer_name":  name,
				"mode":           r.GetString("mode"),
				"movement":       r.GetString("movement"),
				"incoterm":       r.GetString("incoterm"),
				"status":         r.GetString("status"),
				"total_cost":     r.GetFloat("total_cost"),
				"total_sale":     r.GetFloat("total_sale"),
				"margin_percent": r.GetFloat("margin_percent"),
				"revision":       r.GetInt("revision"),
				"created":        r.GetDateTime("created").Time(),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"items": items, "total": len(items)})
	}
}
