package services

import (
	"bytes"
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/xuri/excelize/v2"
)

// CostingSheetRow is one charge line of the exported costing sheet.
type CostingSheetRow struct {
	Index      int
	ChargeName string
	Quantity   float64
	UOMCode    string
	VendorName string
	Cost       float64
	SalePrice  float64
	TaxAmount  float64
	TotalTax   float64
	Uncosted   bool
}

// CostingSheetData is everything the costing sheet export renders.
type CostingSheetData struct {
	QuoteNumber  string
	CustomerName string
	Lane         string
	PricingDate  string
	BaseCurrency string
	Rows         []CostingSheetRow
	TotalCost    float64
	TotalSale    float64
	Margin       float64
	MarginPct    float64
}

// BuildCostingSheetData assembles the export payload for a quotation from
// its stored cost and sale lines.
func BuildCostingSheetData(app *pocketbase.PocketBase, quotationID string) (*CostingSheetData, error) {
	quote, err := app.FindRecordById("quotations", quotationID)
	if err != nil {
		return nil, fmt.Errorf("quotation %s not found: %w", quotationID, err)
	}

	data := &CostingSheetData{
		QuoteNumber:  quote.GetString("quote_number"),
		PricingDate:  quote.GetDateTime("pricing_date").Time().Format("02 Jan 2006"),
		BaseCurrency: quote.GetString("base_currency"),
		TotalCost:    quote.GetFloat("total_cost"),
		TotalSale:    quote.GetFloat("total_sale"),
		Margin:       quote.GetFloat("margin"),
		MarginPct:    quote.GetFloat("margin_percent"),
	}

	if customer, err := app.FindRecordById("customers", quote.GetString("customer")); err == nil {
		data.CustomerName = customer.GetString("name")
	}
	origin, oErr := app.FindRecordById("locations", quote.GetString("origin"))
	destination, dErr := app.FindRecordById("locations", quote.GetString("destination"))
	if oErr == nil && dErr == nil {
		data.Lane = fmt.Sprintf("%s → %s (%s %s)",
			origin.GetString("code"), destination.GetString("code"),
			quote.GetString("mode"), quote.GetString("incoterm"))
	}

	costRecords, err := app.FindRecordsByFilter("quotation_cost_lines",
		"quotation = {:id}", "created", 0, 0, map[string]any{"id": quotationID})
	if err != nil {
		return nil, fmt.Errorf("load cost lines: %w", err)
	}
	saleRecords, err := app.FindRecordsByFilter("quotation_sale_lines",
		"quotation = {:id}", "", 0, 0, map[string]any{"id": quotationID})
	if err != nil {
		return nil, fmt.Errorf("load sale lines: %w", err)
	}
	saleByCharge := make(map[string]float64, len(saleRecords))
	taxByCharge := make(map[string]float64, len(saleRecords))
	for _, r := range saleRecords {
		saleByCharge[r.GetString("charge")] = r.GetFloat("total_sale_price")
		taxByCharge[r.GetString("charge")] = r.GetFloat("tax_amount")
	}

	for i, r := range costRecords {
		row := CostingSheetRow{
			Index:     i + 1,
			Quantity:  r.GetFloat("quantity"),
			Cost:      r.GetFloat("total_cost"),
			SalePrice: saleByCharge[r.GetString("charge")],
			TaxAmount: taxByCharge[r.GetString("charge")],
			Uncosted:  r.GetBool("uncosted"),
		}
		if charge, err := app.FindRecordById("charges", r.GetString("charge")); err == nil {
			row.ChargeName = charge.GetString("name")
		}
		if uomID := r.GetString("uom"); uomID != "" {
			if uom, err := app.FindRecordById("uoms", uomID); err == nil {
				row.UOMCode = uom.GetString("code")
			}
		}
		if vendorID := r.GetString("selected_vendor"); vendorID != "" {
			if vendor, err := app.FindRecordById("vendors", vendorID); err == nil {
				row.VendorName = vendor.GetString("name")
			}
		}
		data.Rows = append(data.Rows, row)
	}

	return data, nil
}

// GenerateCostingExcel renders a quotation's costing sheet as an .xlsx file:
// cost vs sale per charge with the selected vendor, plus a totals block.
func GenerateCostingExcel(data *CostingSheetData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Costing"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 30, 12, 8, 28, 18, 18, 16}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	rowStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create row style: %w", err)
	}

	uncostedStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10, Color: "#B91C1C", Italic: true},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create uncosted style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header Rows (1-3) ───────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell("Quotation "+data.QuoteNumber))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
		return nil, fmt.Errorf("merge customer: %w", err)
	}
	f.SetCellValue(sheetName, "A2",
		sanitizeExcelCell(fmt.Sprintf("Customer: %s    Lane: %s", data.CustomerName, data.Lane)))
	f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)

	if err := f.MergeCell(sheetName, "A3", lastCol+"3"); err != nil {
		return nil, fmt.Errorf("merge date: %w", err)
	}
	f.SetCellValue(sheetName, "A3", "Pricing Date: "+data.PricingDate)
	f.SetCellStyle(sheetName, "A3", lastCol+"3", subtitleStyle)

	// ── Row 5: Column Headers ───────────────────────────────────────────

	headers := []string{"#", "Charge", "Qty", "UOM", "Vendor", "Cost", "Sale", "Tax"}
	for i, h := range headers {
		cell := fmt.Sprintf("%s5", columns[i])
		f.SetCellValue(sheetName, cell, h)
	}
	f.SetCellStyle(sheetName, "A5", lastCol+"5", headerStyle)

	// ── Data Rows (starting row 6) ──────────────────────────────────────

	row := 6
	for _, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetName, "A"+rowStr, r.Index)
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(r.ChargeName))
		f.SetCellValue(sheetName, "C"+rowStr, r.Quantity)
		f.SetCellValue(sheetName, "D"+rowStr, sanitizeExcelCell(r.UOMCode))

		vendor := r.VendorName
		if r.Uncosted {
			vendor = "NO VENDOR COST"
		}
		f.SetCellValue(sheetName, "E"+rowStr, sanitizeExcelCell(vendor))

		f.SetCellValue(sheetName, "F"+rowStr, FormatMoney(r.Cost, data.BaseCurrency))
		f.SetCellValue(sheetName, "G"+rowStr, FormatMoney(r.SalePrice, data.BaseCurrency))
		f.SetCellValue(sheetName, "H"+rowStr, FormatMoney(r.TaxAmount, data.BaseCurrency))

		style := rowStyle
		if r.Uncosted {
			style = uncostedStyle
		}
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, style)

		row++
	}

	// ── Summary Rows ────────────────────────────────────────────────────

	row++

	summaryRow := fmt.Sprintf("%d", row)
	f.SetCellValue(sheetName, "E"+summaryRow, "Total Cost:")
	f.SetCellStyle(sheetName, "E"+summaryRow, "E"+summaryRow, summaryLabelStyle)
	f.SetCellValue(sheetName, "F"+summaryRow, FormatMoney(data.TotalCost, data.BaseCurrency))
	f.SetCellStyle(sheetName, "F"+summaryRow, "F"+summaryRow, summaryValueStyle)
	row++

	summaryRow = fmt.Sprintf("%d", row)
	f.SetCellValue(sheetName, "E"+summaryRow, "Total Sale:")
	f.SetCellStyle(sheetName, "E"+summaryRow, "E"+summaryRow, summaryLabelStyle)
	f.SetCellValue(sheetName, "G"+summaryRow, FormatMoney(data.TotalSale, data.BaseCurrency))
	f.SetCellStyle(sheetName, "G"+summaryRow, "G"+summaryRow, summaryValueStyle)
	row++

	summaryRow = fmt.Sprintf("%d", row)
	marginLabel := fmt.Sprintf("Margin (%.1f%%):", data.MarginPct)
	f.SetCellValue(sheetName, "E"+summaryRow, marginLabel)
	f.SetCellStyle(sheetName, "E"+summaryRow, "E"+summaryRow, summaryLabelStyle)
	f.SetCellValue(sheetName, "G"+summaryRow, FormatMoney(data.Margin, data.BaseCurrency))
	f.SetCellStyle(sheetName, "G"+summaryRow, "G"+summaryRow, summaryValueStyle)

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
