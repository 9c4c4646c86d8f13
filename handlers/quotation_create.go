package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"freightquote/services"
)

var quotationModes = []string{services.ModeAir, services.ModeSea, services.ModeRoad, services.ModeRail}

type quotationCreateRequest struct {
	Customer     string `json:"customer"`
	Mode         string `json:"mode"`
	Movement     string `json:"movement"`
	Incoterm     string `json:"incoterm"`
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	BaseCurrency string `json:"base_currency"`
	PricingDate  string `json:"pricing_date"`
}

// HandleQuotationCreate creates a draft quotation header with a generated
// quote number.
// Route: POST /quotations
func HandleQuotationCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req quotationCreateRequest
		if err := bindJSON(e, &req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}

		fieldErrors := map[string]string{}
		if req.Customer == "" {
			fieldErrors["customer"] = "customer is required"
		}
		if req.Origin == "" {
			fieldErrors["origin"] = "origin is required"
		}
		if req.Destination == "" {
			fieldErrors["destination"] = "destination is required"
		}
		req.Mode = strings.ToUpper(strings.TrimSpace(req.Mode))
		validMode := false
		for _, m := range quotationModes {
			if req.Mode == m {
				validMode = true
				break
			}
		}
		if !validMode {
			fieldErrors["mode"] = "mode must be one of AIR, SEA, ROAD, RAIL"
		}
		req.Movement = strings.ToUpper(strings.TrimSpace(req.Movement))
		if req.Movement != services.MovementImport && req.Movement != services.MovementExport {
			fieldErrors["movement"] = "movement must be IMPORT or EXPORT"
		}
		if req.Incoterm == "" {
			fieldErrors["incoterm"] = "incoterm is required"
		}
		if req.BaseCurrency == "" {
			fieldErrors["base_currency"] = "base currency is required"
		}

		pricingDate := time.Now()
		if req.PricingDate != "" {
			parsed, err := time.Parse("2006-01-02", req.PricingDate)
			if err != nil {
				fieldErrors["pricing_date"] = "pricing date must be YYYY-MM-DD"
			} else {
				pricingDate = parsed
			}
		}

		if len(fieldErrors) > 0 {
			return e.JSON(http.StatusBadRequest, map[string]any{"errors": fieldErrors})
		}

		if _, err := app.FindRecordById("customers", req.Customer); err != nil {
			return jsonError(e, http.StatusNotFound, "customer not found")
		}
		if _, err := app.FindRecordById("locations", req.Origin); err != nil {
			return jsonError(e, http.StatusNotFound, "origin location not found")
		}
		if _, err := app.FindRecordById("locations", req.Destination); err != nil {
			return jsonError(e, http.StatusNotFound, "destination location not found")
		}

		quoteNumber, err := services.GenerateQuoteNumber(app, req.Customer, time.Now())
		if err != nil {
			log.Printf("quotation_create: could not generate quote number: %v", err)
			return serviceError(e, err)
		}

		col, err := app.FindCollectionByNameOrId("quotations")
		if err != nil {
			log.Printf("quotation_create: could not find quotations collection: %v", err)
			return serviceError(e, err)
		}

		record := core.NewRecord(col)
		record.Set("quote_number", quoteNumber)
		record.Set("customer", req.Customer)
		record.Set("mode", req.Mode)
		record.Set("movement", req.Movement)
		record.Set("incoterm", strings.ToUpper(strings.TrimSpace(req.Incoterm)))
		record.Set("origin", req.Origin)
		record.Set("destination", req.Destination)
		record.Set("base_currency", strings.ToUpper(strings.TrimSpace(req.BaseCurrency)))
		record.Set("pricing_date", pricingDate.Format("2006-01-02")+" 00:00:00.000Z")
		record.Set("status", services.StatusDraft)
		record.Set("revision", 0)

		if err := app.Save(record); err != nil {
			log.Printf("quotation_create: could not save quotation: %v", err)
			return serviceError(e, err)
		}

		return e.JSON(http.StatusCreated, map[string]any{
			"id":           record.Id,
			"quote_number": quoteNumber,
			"status":       services.StatusDraft,
		})
	}
}
