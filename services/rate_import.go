package services

import (
	"bytes"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

const importBatchSize = 100

// RateRowError represents a failure in a specific template row.
type RateRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RateImportResult holds the outcome of a rate-card import operation.
type RateImportResult struct {
	TotalRows  int            `json:"total_rows"`
	Imported   int            `json:"imported"`
	Failed     int            `json:"failed"`
	Errors     []RateRowError `json:"errors,omitempty"`
	RolledBack bool           `json:"rolled_back"`
}

// parsedRateRow is one template row after type conversion.
type parsedRateRow struct {
	rowNum   int
	chargeID string
	uomID    string
	rate     float64
	slabMin  float64
	slabMax  float64
	isFixed  bool
	sequence int
}

// ParseRateCardFile reads the uploaded .xlsx into raw column-keyed rows.
// Blank rows are skipped; cell values are kept as strings for validation.
func ParseRateCardFile(data []byte) ([]map[string]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open rate card file: %w", err)
	}
	defer f.Close()

	sheetRows, err := f.GetRows("Rates")
	if err != nil {
		return nil, fmt.Errorf("rate card file has no Rates sheet: %w", err)
	}
	if len(sheetRows) < 2 {
		return nil, fmt.Errorf("rate card file has no data rows")
	}

	columns := RateCardTemplateColumns()
	var rows []map[string]string
	for _, cells := range sheetRows[1:] {
		row := make(map[string]string, len(columns))
		blank := true
		for i, col := range columns {
			val := ""
			if i < len(cells) {
				val = strings.TrimSpace(cells[i])
			}
			if val != "" {
				blank = false
			}
			row[col.Key] = val
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// ValidateRateCardRows checks every parsed row against the master data and
// the slab rules: known charge/UOM codes, numeric fields, slab_min ≤
// slab_max, and no overlap either within the file or against the header's
// existing lines. All errors are reported together.
func ValidateRateCardRows(app *pocketbase.PocketBase, headerID string, rows []map[string]string) ([]parsedRateRow, []RateRowError) {
	chargeIDs, _ := masterCodeIDs(app, "charges")
	uomIDs, _ := masterCodeIDs(app, "uoms")

	var allErrors []RateRowError
	parsed := make([]parsedRateRow, 0, len(rows))

	for rowIdx, row := range rows {
		rowNum := rowIdx + 2 // 1-indexed + header row
		p := parsedRateRow{rowNum: rowNum}
		rowOK := true

		fail := func(field, msg string) {
			allErrors = append(allErrors, RateRowError{Row: rowNum, Field: field, Message: msg})
			rowOK = false
		}

		if id, ok := chargeIDs[row["charge_code"]]; ok {
			p.chargeID = id
		} else {
			fail("Charge Code", fmt.Sprintf("unknown charge code %q", row["charge_code"]))
		}

		if id, ok := uomIDs[row["uom_code"]]; ok {
			p.uomID = id
		} else {
			fail("UOM Code", fmt.Sprintf("unknown UOM code %q", row["uom_code"]))
		}

		rate, err := strconv.ParseFloat(row["rate"], 64)
		if err != nil || rate <= 0 {
			fail("Rate", fmt.Sprintf("rate %q must be a positive number", row["rate"]))
		}
		p.rate = rate

		p.isFixed = strings.EqualFold(row["is_fixed_rate"], "YES")

		if !p.isFixed {
			p.slabMin, err = parseOptionalFloat(row["slab_min"])
			if err != nil {
				fail("Slab Min", fmt.Sprintf("slab min %q is not a number", row["slab_min"]))
			}
			p.slabMax, err = parseOptionalFloat(row["slab_max"])
			if err != nil {
				fail("Slab Max", fmt.Sprintf("slab max %q is not a number", row["slab_max"]))
			}
			if rowOK && p.slabMax < p.slabMin {
				fail("Slab Max", fmt.Sprintf("slab max %.2f is below slab min %.2f", p.slabMax, p.slabMin))
			}
		}

		seq, err := strconv.Atoi(row["sequence"])
		if err != nil || seq <= 0 {
			fail("Sequence", fmt.Sprintf("sequence %q must be a positive integer", row["sequence"]))
		}
		p.sequence = seq

		if rowOK {
			parsed = append(parsed, p)
		}
	}

	allErrors = append(allErrors, checkSlabOverlaps(app, headerID, parsed)...)
	return parsed, allErrors
}

// checkSlabOverlaps rejects slab lines that overlap other file rows or the
// header's already stored lines for the same charge and UOM.
func checkSlabOverlaps(app *pocketbase.PocketBase, headerID string, rows []parsedRateRow) []RateRowError {
	var errs []RateRowError

	type slab struct {
		min, max float64
		rowNum   int // 0 = existing DB line
	}
	byKey := make(map[string][]slab)

	var existing []struct {
		Charge  string  `db:"charge"`
		UOM     string  `db:"uom"`
		SlabMin float64 `db:"slab_min"`
		SlabMax float64 `db:"slab_max"`
	}
	err := app.DB().
		Select("charge", "uom", "slab_min", "slab_max").
		From("vendor_rate_lines").
		Where(dbx.HashExp{"header": headerID, "is_fixed_rate": false}).
		All(&existing)
	if err != nil {
		log.Printf("rate_import: could not load existing slabs for header %s: %v", headerID, err)
	}
	for _, e := range existing {
		key := e.Charge + "/" + e.UOM
		byKey[key] = append(byKey[key], slab{min: e.SlabMin, max: e.SlabMax})
	}

	for _, r := range rows {
		if r.isFixed {
			continue
		}
		key := r.chargeID + "/" + r.uomID
		for _, s := range byKey[key] {
			if r.slabMin <= s.max && r.slabMax >= s.min {
				where := "an existing rate line"
				if s.rowNum > 0 {
					where = fmt.Sprintf("row %d", s.rowNum)
				}
				errs = append(errs, RateRowError{
					Row:   r.rowNum,
					Field: "Slab Min",
					Message: fmt.Sprintf("slab [%.2f, %.2f] overlaps %s [%.2f, %.2f]",
						r.slabMin, r.slabMax, where, s.min, s.max),
				})
				break
			}
		}
		byKey[key] = append(byKey[key], slab{min: r.slabMin, max: r.slabMax, rowNum: r.rowNum})
	}
	return errs
}

// CommitRateCardImport validates and batch-inserts parsed rate rows for a
// vendor rate header. It processes rows in chunks of importBatchSize.
//
// Strategy: validate everything first; any validation error blocks the whole
// import. Within each insert chunk, a failure rolls back the entire chunk
// and records errors, then the next chunk proceeds.
func CommitRateCardImport(app *pocketbase.PocketBase, headerID string, rows []map[string]string) (*RateImportResult, error) {
	if _, err := app.FindRecordById("vendor_rate_headers", headerID); err != nil {
		return nil, fmt.Errorf("rate header %s not found: %w", headerID, err)
	}

	parsed, validationErrors := ValidateRateCardRows(app, headerID, rows)
	if len(validationErrors) > 0 {
		errorRowSet := make(map[int]bool)
		for _, e := range validationErrors {
			errorRowSet[e.Row] = true
		}
		return &RateImportResult{
			TotalRows:  len(rows),
			Imported:   0,
			Failed:     len(errorRowSet),
			Errors:     validationErrors,
			RolledBack: true,
		}, nil
	}

	col, err := app.FindCollectionByNameOrId("vendor_rate_lines")
	if err != nil {
		return nil, fmt.Errorf("vendor_rate_lines collection not found: %w", err)
	}

	result := &RateImportResult{TotalRows: len(rows)}

	for chunkStart := 0; chunkStart < len(parsed); chunkStart += importBatchSize {
		chunkEnd := chunkStart + importBatchSize
		if chunkEnd > len(parsed) {
			chunkEnd = len(parsed)
		}
		chunk := parsed[chunkStart:chunkEnd]

		chunkErrors := insertRateChunk(app, col, headerID, chunk)
		if len(chunkErrors) > 0 {
			result.Errors = append(result.Errors, chunkErrors...)
			result.Failed += len(chunk) // entire chunk failed
			result.RolledBack = true
		} else {
			result.Imported += len(chunk)
		}
	}

	return result, nil
}

// insertRateChunk inserts a batch of rate lines within a RunInTransaction
// block. If any row fails, the entire chunk is rolled back.
func insertRateChunk(app *pocketbase.PocketBase, col *core.Collection, headerID string, chunk []parsedRateRow) []RateRowError {
	var chunkErrors []RateRowError

	err := app.RunInTransaction(func(txApp core.App) error {
		for _, p := range chunk {
			record := core.NewRecord(col)
			record.Set("header", headerID)
			record.Set("charge", p.chargeID)
			record.Set("uom", p.uomID)
			record.Set("rate", p.rate)
			record.Set("slab_min", p.slabMin)
			record.Set("slab_max", p.slabMax)
			record.Set("is_fixed_rate", p.isFixed)
			record.Set("sequence", p.sequence)

			if err := txApp.Save(record); err != nil {
				chunkErrors = append(chunkErrors, RateRowError{
					Row:     p.rowNum,
					Message: fmt.Sprintf("Failed to save: %s", err.Error()),
				})
				return fmt.Errorf("save failed at row %d: %w", p.rowNum, err)
			}
		}
		return nil
	})

	if err != nil {
		log.Printf("rate_import: chunk insert rolled back: %v", err)
		if len(chunkErrors) == 0 {
			chunkErrors = append(chunkErrors, RateRowError{
				Row:     chunk[0].rowNum,
				Message: fmt.Sprintf("Transaction failed: %s", err.Error()),
			})
		}
	}

	return chunkErrors
}

// masterCodeIDs returns a code → record id lookup for a master collection.
func masterCodeIDs(app *pocketbase.PocketBase, collection string) (map[string]string, error) {
	records, err := app.FindAllRecords(collection)
	if err != nil {
		return nil, err
	}
	lookup := make(map[string]string, len(records))
	for _, r := range records {
		if code := r.GetString("code"); code != "" {
			lookup[code] = r.Id
		}
	}
	return lookup, nil
}

func parseOptionalFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
