package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"freightquote/services"
)

// HandleQuotationView returns the full quotation detail: header, dimension
// rows, cost lines with their vendor options, and sale lines.
// Route: GET /quotations/{id}
func HandleQuotationView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := findQuotation(app, e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "quotation not found")
		}

		dimensions, err := app.FindRecordsByFilter("quotation_dimensions",
			"quotation = {:id}", "created", 0, 0, map[string]any{"id": quote.Id})
		if err != nil {
			log.Printf("quotation_view: could not query dimensions for %s: %v", quote.Id, err)
			dimensions = nil
		}
		dimensionViews := make([]map[string]any, 0, len(dimensions))
		for _, d := range dimensions {
			dimensionViews = append(dimensionViews, map[string]any{
				"id":                  d.Id,
				"length_cm":           d.GetFloat("length_cm"),
				"width_cm":            d.GetFloat("width_cm"),
				"height_cm":           d.GetFloat("height_cm"),
				"pieces":              d.GetInt("pieces"),
				"weight_per_piece_kg": d.GetFloat("weight_per_piece_kg"),
				"cbm_per_piece":       d.GetFloat("cbm_per_piece"),
				"total_cbm":           d.GetFloat("total_cbm"),
				"total_weight_kg":     d.GetFloat("total_weight_kg"),
			})
		}

		costRecords, err := app.FindRecordsByFilter("quotation_cost_lines",
			"quotation = {:id}", "created", 0, 0, map[string]any{"id": quote.Id})
		if err != nil {
			log.Printf("quotation_view: could not query cost lines for %s: %v", quote.Id, err)
			costRecords = nil
		}
		costViews := make([]map[string]any, 0, len(costRecords))
		for _, r := range costRecords {
			line := services.CostLine{
				ChargeID:       r.GetString("charge"),
				SelectedVendor: r.GetString("selected_vendor"),
				Uncosted:       r.GetBool("uncosted"),
			}
			if err := r.UnmarshalJSONField("vendor_costs", &line.VendorCosts); err != nil {
				log.Printf("quotation_view: bad vendor_costs on line %s: %v", r.Id, err)
			}

			options := services.BuildVendorOptions(line)
			optionViews := make([]map[string]any, 0, len(options))
			for _, o := range options {
				view := map[string]any{
					"vendor":   o.VendorID,
					"cost":     o.Cost,
					"selected": o.Selected,
					"cheapest": o.Cheapest,
				}
				if vendor, err := app.FindRecordById("vendors", o.VendorID); err == nil {
					view["vendor_name"] = vendor.GetString("name")
				}
				optionViews = append(optionViews, view)
			}

			chargeName := ""
			if charge, err := app.FindRecordById("charges", line.ChargeID); err == nil {
				chargeName = charge.GetString("name")
			}

			costViews = append(costViews, map[string]any{
				"id":              r.Id,
				"charge":          line.ChargeID,
				"charge_name":     chargeName,
				"quantity":        r.GetFloat("quantity"),
				"selected_vendor": line.SelectedVendor,
				"rate":            r.GetFloat("rate"),
				"currency":        r.GetString("currency"),
				"fx_rate":         r.GetFloat("fx_rate"),
				"total_cost":      r.GetFloat("total_cost"),
				"uncosted":        line.Uncosted,
				"vendor_options":  optionViews,
			})
		}

		saleRecords, err := app.FindRecordsByFilter("quotation_sale_lines",
			"quotation = {:id}", "created", 0, 0, map[string]any{"id": quote.Id})
		if err != nil {
			log.Printf("quotation_view: could not query sale lines for %s: %v", quote.Id, err)
			saleRecords = nil
		}
		saleViews := make([]map[string]any, 0, len(saleRecords))
		for _, r := range saleRecords {
			saleViews = append(saleViews, map[string]any{
				"id":               r.Id,
				"charge":           r.GetString("charge"),
				"charge_name":      r.GetString("charge_name"),
				"quantity":         r.GetFloat("quantity"),
				"unit_rate":        r.GetFloat("unit_rate"),
				"currency":         r.GetString("currency"),
				"total_sale_price": r.GetFloat("total_sale_price"),
				"tax_rate":         r.GetFloat("tax_rate"),
				"tax_amount":       r.GetFloat("tax_amount"),
				"total_with_tax":   r.GetFloat("total_with_tax"),
				"internal_cost":    r.GetFloat("internal_cost"),
				"margin_percent":   r.GetFloat("margin_percent"),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"id":                    quote.Id,
			"quote_number":          quote.GetString("quote_number"),
			"customer":              quote.GetString("customer"),
			"mode":                  quote.GetString("mode"),
			"movement":              quote.GetString("movement"),
			"incoterm":              quote.GetString("incoterm"),
			"origin":                quote.GetString("origin"),
			"destination":           quote.GetString("destination"),
			"base_currency":         quote.GetString("base_currency"),
			"pricing_date":          quote.GetDateTime("pricing_date").Time().Format("2006-01-02"),
			"status":                quote.GetString("status"),
			"revision":              quote.GetInt("revision"),
			"total_pieces":          quote.GetInt("total_pieces"),
			"total_weight_kg":       quote.GetFloat("total_weight_kg"),
			"total_cbm":             quote.GetFloat("total_cbm"),
			"volumetric_weight_kg":  quote.GetFloat("volumetric_weight_kg"),
			"chargeable_weight_kg":  quote.GetFloat("chargeable_weight_kg"),
			"total_cost":            quote.GetFloat("total_cost"),
			"total_sale":            quote.GetFloat("total_sale"),
			"margin":                quote.GetFloat("margin"),
			"margin_percent":        quote.GetFloat("margin_percent"),
			"dimensions":            dimensionViews,
			"cost_lines":            costViews,
			"sale_lines":            saleViews,
		})
	}
}

// findQuotation loads a quotation by id, treating soft-deleted records as
// missing.
func findQuotation(app *pocketbase.PocketBase, id string) (*core.Record, error) {
	quote, err := app.FindRecordById("quotations", id)
	if err != nil {
		return nil, err
	}
	if quote.GetBool("deleted") {
		return nil, sql.ErrNoRows
	}
	return quote, nil
}
