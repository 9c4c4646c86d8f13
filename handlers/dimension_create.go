package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"freightquote/services"
)

type dimensionRequest struct {
	LengthCM         float64 `json:"length_cm"`
	WidthCM          float64 `json:"width_cm"`
	HeightCM         float64 `json:"height_cm"`
	Pieces           int     `json:"pieces"`
	WeightPerPieceKG float64 `json:"weight_per_piece_kg"`
}

func (r dimensionRequest) row() services.DimensionRow {
	return services.DimensionRow{
		LengthCM:         r.LengthCM,
		WidthCM:          r.WidthCM,
		HeightCM:         r.HeightCM,
		Pieces:           r.Pieces,
		WeightPerPieceKG: r.WeightPerPieceKG,
	}
}

// HandleDimensionCreate adds a dimension row to an editable quotation.
// Route: POST /quotations/{id}/dimensions
func HandleDimensionCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := findQuotation(app, e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "quotation not found")
		}
		if !services.CanRecompute(quote.GetString("status")) {
			return serviceError(e, services.ErrQuotationLocked)
		}

		var req dimensionRequest
		if err := bindJSON(e, &req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}

		calc, err := services.CalcDimension(req.row())
		if err != nil {
			return serviceError(e, err)
		}

		col, err := app.FindCollectionByNameOrId("quotation_dimensions")
		if err != nil {
			log.Printf("dimension_create: could not find collection: %v", err)
			return serviceError(e, err)
		}

		record := core.NewRecord(col)
		record.Set("quotation", quote.Id)
		record.Set("length_cm", req.LengthCM)
		record.Set("width_cm", req.WidthCM)
		record.Set("height_cm", req.HeightCM)
		record.Set("pieces", req.Pieces)
		record.Set("weight_per_piece_kg", req.WeightPerPieceKG)
		record.Set("cbm_per_piece", calc.CBMPerPiece)
		record.Set("total_cbm", calc.TotalCBM)
		record.Set("total_weight_kg", calc.TotalWeightKG)

		if err := app.Save(record); err != nil {
			log.Printf("dimension_create: could not save dimension: %v", err)
			return serviceError(e, err)
		}

		return e.JSON(http.StatusCreated, map[string]any{
			"id":            record.Id,
			"cbm_per_piece": calc.CBMPerPiece,
			"total_cbm":     calc.TotalCBM,
		})
	}
}
