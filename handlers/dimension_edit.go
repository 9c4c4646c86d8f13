package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"freightquote/services"
)

// HandleDimensionEdit replaces the raw values of a dimension row and refreshes
// its derived columns.
// Route: PATCH /quotations/{id}/dimensions/{dimId}
func HandleDimensionEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := findQuotation(app, e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "quotation not found")
		}
		if !services.CanRecompute(quote.GetString("status")) {
			return serviceError(e, services.ErrQuotationLocked)
		}

		dim, err := findQuotationDimension(app, quote.Id, e.Request.PathValue("dimId"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "dimension row not found")
		}

		var req dimensionRequest
		if err := bindJSON(e, &req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}

		calc, err := services.CalcDimension(req.row())
		if err != nil {
			return serviceError(e, err)
		}

		dim.Set("length_cm", req.LengthCM)
		dim.Set("width_cm", req.WidthCM)
		dim.Set("height_cm", req.HeightCM)
		dim.Set("pieces", req.Pieces)
		dim.Set("weight_per_piece_kg", req.WeightPerPieceKG)
		dim.Set("cbm_per_piece", calc.CBMPerPiece)
		dim.Set("total_cbm", calc.TotalCBM)
		dim.Set("total_weight_kg", calc.TotalWeightKG)

		if err := app.Save(dim); err != nil {
			log.Printf("dimension_edit: could not save dimension %s: %v", dim.Id, err)
			return serviceError(e, err)
		}

		return e.JSON(http.StatusOK, map[string]any{
			"id":            dim.Id,
			"cbm_per_piece": calc.CBMPerPiece,
			"total_cbm":     calc.TotalCBM,
		})
	}
}

// findQuotationDimension loads a dimension row and verifies it belongs to the
// given quotation.
func findQuotationDimension(app *pocketbase.PocketBase, quotationID, dimID string) (*core.Record, error) {
	dim, err := app.FindRecordById("quotation_dimensions", dimID)
	if err != nil {
		return nil, err
	}
	if dim.GetString("quotation") != quotationID {
		return nil, sql.ErrNoRows
	}
	return dim, nil
}
