package services

import (
	"bytes"
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/xuri/excelize/v2"
)

// RateCardColumn describes one column of the vendor rate-card template.
type RateCardColumn struct {
	Key          string
	Label        string
	Required     bool
	FormatRule   string
	Description  string
	ExampleValue string
}

// RateCardTemplateColumns returns the columns of the rate-card import file,
// in sheet order.
func RateCardTemplateColumns() []RateCardColumn {
	return []RateCardColumn{
		{
			Key: "charge_code", Label: "Charge Code", Required: true,
			FormatRule:   "Must match a configured charge code",
			Description:  "The charge this rate applies to",
			ExampleValue: "AIRFRT",
		},
		{
			Key: "uom_code", Label: "UOM Code", Required: true,
			FormatRule:   "Must match a configured UOM code",
			Description:  "Unit the rate is quoted per",
			ExampleValue: "KG",
		},
		{
			Key: "rate", Label: "Rate", Required: true,
			FormatRule:   "Positive number",
			Description:  "Unit cost rate in the rate card currency",
			ExampleValue: "2.50",
		},
		{
			Key: "slab_min", Label: "Slab Min", Required: false,
			FormatRule:   "Number, leave blank for fixed rates",
			Description:  "Inclusive lower bound of the quantity slab",
			ExampleValue: "0",
		},
		{
			Key: "slab_max", Label: "Slab Max", Required: false,
			FormatRule:   "Number ≥ Slab Min, leave blank for fixed rates",
			Description:  "Inclusive upper bound of the quantity slab",
			ExampleValue: "45",
		},
		{
			Key: "is_fixed_rate", Label: "Fixed Rate", Required: false,
			FormatRule:   "YES or NO (default NO)",
			Description:  "YES charges the rate once per shipment, ignoring slabs",
			ExampleValue: "NO",
		},
		{
			Key: "sequence", Label: "Sequence", Required: true,
			FormatRule:   "Positive integer",
			Description:  "Tie-break order among lines of the same charge",
			ExampleValue: "1",
		},
	}
}

// GenerateRateCardTemplate creates a downloadable .xlsx template for bulk
// rate-card entry, with dropdowns for the configured charge and UOM codes
// and a hidden instructions sheet.
func GenerateRateCardTemplate(app *pocketbase.PocketBase) ([]byte, error) {
	columns := RateCardTemplateColumns()

	chargeCodes, err := masterCodes(app, "charges")
	if err != nil {
		return nil, fmt.Errorf("load charge codes: %w", err)
	}
	uomCodes, err := masterCodes(app, "uoms")
	if err != nil {
		return nil, fmt.Errorf("load uom codes: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Rates"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheetName)

	requiredHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	optionalHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	cols := columnLetters(len(columns))
	for i, col := range columns {
		cell := fmt.Sprintf("%s1", cols[i])

		headerText := col.Label
		if col.Required {
			headerText += " *"
		}
		f.SetCellValue(sheetName, cell, headerText)

		if col.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredHeaderStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, optionalHeaderStyle)
		}

		width := float64(len(col.Label)) * 1.3
		if width < 14 {
			width = 14
		}
		f.SetColWidth(sheetName, cols[i], cols[i], width)
	}

	for i, col := range columns {
		rangeRef := fmt.Sprintf("%s2:%s1048576", cols[i], cols[i])

		switch col.Key {
		case "charge_code":
			dv := excelize.NewDataValidation(true)
			dv.Sqref = rangeRef
			dv.SetDropList(chargeCodes)
			f.AddDataValidation(sheetName, dv)
		case "uom_code":
			dv := excelize.NewDataValidation(true)
			dv.Sqref = rangeRef
			dv.SetDropList(uomCodes)
			f.AddDataValidation(sheetName, dv)
		case "is_fixed_rate":
			dv := excelize.NewDataValidation(true)
			dv.Sqref = rangeRef
			dv.SetDropList([]string{"YES", "NO"})
			f.AddDataValidation(sheetName, dv)
		}
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addRateInstructionsSheet(f, columns)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

// addRateInstructionsSheet creates a hidden sheet with column descriptions.
func addRateInstructionsSheet(f *excelize.File, columns []RateCardColumn) {
	instSheet := "Instructions"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", "Vendor Rate Card Import - Instructions")
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)

	instructionHeaders := []string{"Column", "Required?", "Format Rule", "Description", "Example"}
	cols := columnLetters(5)
	for i, h := range instructionHeaders {
		cell := fmt.Sprintf("%s3", cols[i])
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}

	for i, col := range columns {
		row := fmt.Sprintf("%d", i+4)
		reqLabel := "Optional"
		if col.Required {
			reqLabel = "Required"
		}
		f.SetCellValue(instSheet, cols[0]+row, col.Label)
		f.SetCellValue(instSheet, cols[1]+row, reqLabel)
		f.SetCellValue(instSheet, cols[2]+row, col.FormatRule)
		f.SetCellValue(instSheet, cols[3]+row, col.Description)
		f.SetCellValue(instSheet, cols[4]+row, col.ExampleValue)
	}

	widths := []float64{20, 12, 35, 45, 15}
	for i, w := range widths {
		f.SetColWidth(instSheet, cols[i], cols[i], w)
	}

	f.SetSheetVisible(instSheet, false)
}

// masterCodes returns the code values of a master-data collection.
func masterCodes(app *pocketbase.PocketBase, collection string) ([]string, error) {
	records, err := app.FindAllRecords(collection)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(records))
	for _, r := range records {
		if code := r.GetString("code"); code != "" {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}
