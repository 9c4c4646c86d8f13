package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
)

// GetFiscalYear returns the Indian fiscal year string for a given date.
// Indian fiscal year runs April to March.
// Jan 2026 → "25-26", May 2026 → "26-27"
func GetFiscalYear(t time.Time) string {
	year := t.Year()
	month := t.Month()

	var startYear int
	if month >= time.April {
		startYear = year
	} else {
		startYear = year - 1
	}
	endYear := startYear + 1

	return fmt.Sprintf("%02d-%02d", startYear%100, endYear%100)
}

// formatQuoteNumber constructs the quotation number string from components.
// Uses "-" as separator to avoid conflicts with customer codes that contain "/".
func formatQuoteNumber(customerCode, fiscalYear string, sequence int) string {
	return fmt.Sprintf("FF-QT-%s-%s-%03d", customerCode, fiscalYear, sequence)
}

// GenerateQuoteNumber creates the next quotation number for a customer.
// Format: FF-QT-{customer_code}-{fiscal_year}-{sequence}
// - customer_code: customer's code field (falls back to customer ID if empty)
// - fiscal_year: Indian fiscal year (Apr-Mar), e.g., "25-26"
// - sequence: 3-digit zero-padded, per customer per fiscal year
func GenerateQuoteNumber(app *pocketbase.PocketBase, customerID string, now time.Time) (string, error) {
	customer, err := app.FindRecordById("customers", customerID)
	if err != nil {
		return "", fmt.Errorf("customer not found: %w", err)
	}

	customerCode := customer.GetString("code")
	if customerCode == "" {
		customerCode = customerID
	}

	fiscalYear := GetFiscalYear(now)

	prefix := fmt.Sprintf("FF-QT-%s-%s-", customerCode, fiscalYear)

	existing, err := app.FindRecordsByFilter(
		"quotations",
		"customer = {:customerId} && quote_number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{
			"customerId": customerID,
			"prefix":     prefix + "%",
		},
	)
	if err != nil {
		existing = nil
	}

	nextSeq := len(existing) + 1

	return formatQuoteNumber(customerCode, fiscalYear, nextSeq), nil
}
