// Package services provides the freight quotation costing engine:
// dimension math, charge applicability, vendor rate matching, currency
// conversion, margin resolution, sale pricing and approval rules.
package services

import "fmt"

// Transport modes recognised by the engine.
const (
	ModeAir  = "AIR"
	ModeSea  = "SEA"
	ModeRoad = "ROAD"
	ModeRail = "RAIL"
)

// DefaultAirDivisor is the volumetric divisor (kg per CBM) applied to AIR
// shipments when no divisor row is configured for the mode.
const DefaultAirDivisor = 167.0

// DimensionRow is one cargo piece-group as entered on a quotation.
type DimensionRow struct {
	LengthCM         float64
	WidthCM          float64
	HeightCM         float64
	Pieces           int
	WeightPerPieceKG float64
}

// DimensionCalc holds the derived values for a single dimension row.
type DimensionCalc struct {
	CBMPerPiece   float64
	TotalCBM      float64
	TotalWeightKG float64
}

// ShipmentTotals aggregates derived values across all dimension rows of a
// quotation. ChargeableWeightKG is the quantity used for weight-based
// vendor rate lookups.
type ShipmentTotals struct {
	TotalPieces        int     `json:"total_pieces"`
	TotalWeightKG      float64 `json:"total_weight_kg"`
	TotalCBM           float64 `json:"total_cbm"`
	VolumetricWeightKG float64 `json:"volumetric_weight_kg"`
	ChargeableWeightKG float64 `json:"chargeable_weight_kg"`
}

// CalcDimension derives CBM and weight for one dimension row.
// Every input must be strictly positive.
func CalcDimension(row DimensionRow) (DimensionCalc, error) {
	if row.LengthCM <= 0 || row.WidthCM <= 0 || row.HeightCM <= 0 {
		return DimensionCalc{}, fmt.Errorf("%w: length/width/height must be positive (got %.2f x %.2f x %.2f)",
			ErrInvalidDimension, row.LengthCM, row.WidthCM, row.HeightCM)
	}
	if row.Pieces <= 0 {
		return DimensionCalc{}, fmt.Errorf("%w: pieces must be positive (got %d)", ErrInvalidDimension, row.Pieces)
	}
	if row.WeightPerPieceKG <= 0 {
		return DimensionCalc{}, fmt.Errorf("%w: weight per piece must be positive (got %.3f)",
			ErrInvalidDimension, row.WeightPerPieceKG)
	}

	cbmPerPiece := row.LengthCM * row.WidthCM * row.HeightCM / 1_000_000
	return DimensionCalc{
		CBMPerPiece:   cbmPerPiece,
		TotalCBM:      cbmPerPiece * float64(row.Pieces),
		TotalWeightKG: float64(row.Pieces) * row.WeightPerPieceKG,
	}, nil
}

// UseVolumetricWeight reports whether chargeable weight takes the volumetric
// weight into account for a mode. AIR always does; other modes only when a
// divisor row has been configured for them.
func UseVolumetricWeight(mode string, divisorConfigured bool) bool {
	return mode == ModeAir || divisorConfigured
}

// CalcShipmentTotals derives the header-level aggregates for a set of
// dimension rows. The volumetric weight is always computed and stored;
// whether it feeds the chargeable weight depends on useVolumetric
// (see UseVolumetricWeight).
func CalcShipmentTotals(rows []DimensionRow, divisor float64, useVolumetric bool) (ShipmentTotals, error) {
	var totals ShipmentTotals
	for i, row := range rows {
		calc, err := CalcDimension(row)
		if err != nil {
			return ShipmentTotals{}, fmt.Errorf("dimension row %d: %w", i+1, err)
		}
		totals.TotalPieces += row.Pieces
		totals.TotalWeightKG += calc.TotalWeightKG
		totals.TotalCBM += calc.TotalCBM
	}

	totals.VolumetricWeightKG = totals.TotalCBM * divisor
	totals.ChargeableWeightKG = totals.TotalWeightKG
	if useVolumetric && totals.VolumetricWeightKG > totals.ChargeableWeightKG {
		totals.ChargeableWeightKG = totals.VolumetricWeightKG
	}
	return totals, nil
}
