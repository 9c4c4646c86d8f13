package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"freightquote/services"
)

type exchangeRateBatchRequest struct {
	ToCurrency    string             `json:"to_currency"`
	EffectiveDate string             `json:"effective_date"`
	Rates         map[string]float64 `json:"rates"`
	InverseRates  map[string]float64 `json:"inverse_rates"`
}

func (r *exchangeRateBatchRequest) validate() (string, bool) {
	if r.ToCurrency == "" {
		return "to_currency is required", false
	}
	if len(r.Rates) == 0 {
		return "rates must not be empty", false
	}
	if r.EffectiveDate != "" {
		if _, err := time.Parse("2006-01-02", r.EffectiveDate); err != nil {
			return "effective_date must be YYYY-MM-DD", false
		}
	}
	return "", true
}

// HandleExchangeRateValidate dry-runs a daily rate batch: every out-of-range
// value is reported, none is stored.
// Route: POST /exchange-rates/validate
func HandleExchangeRateValidate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req exchangeRateBatchRequest
		if err := bindJSON(e, &req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		if msg, ok := req.validate(); !ok {
			return jsonError(e, http.StatusBadRequest, msg)
		}

		batchErrors := services.ValidateRateBatch(req.Rates)
		return e.JSON(http.StatusOK, map[string]any{
			"valid":  len(batchErrors) == 0,
			"errors": batchErrors,
		})
	}
}

// HandleExchangeRateUpsert stores a validated daily rate batch. A batch with
// any invalid value is rejected whole; otherwise each currency pair is
// created or updated for the effective date.
// Route: POST /exchange-rates
func HandleExchangeRateUpsert(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req exchangeRateBatchRequest
		if err := bindJSON(e, &req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		if msg, ok := req.validate(); !ok {
			return jsonError(e, http.StatusBadRequest, msg)
		}

		if batchErrors := services.ValidateRateBatch(req.Rates); len(batchErrors) > 0 {
			return e.JSON(http.StatusUnprocessableEntity, map[string]any{
				"valid":  false,
				"errors": batchErrors,
			})
		}

		effective := req.EffectiveDate
		if effective == "" {
			effective = time.Now().Format("2006-01-02")
		}
		effectiveValue := effective + " 00:00:00.000Z"

		col, err := app.FindCollectionByNameOrId("exchange_rates")
		if err != nil {
			log.Printf("exchange_rates: could not find collection: %v", err)
			return serviceError(e, err)
		}

		created, updated := 0, 0
		err = app.RunInTransaction(func(txApp core.App) error {
			for from, rate := range req.Rates {
				record, err := txApp.FindFirstRecordByFilter("exchange_rates",
					"from_currency = {:from} && to_currency = {:to} && effective_date = {:date}",
					map[string]any{"from": from, "to": req.ToCurrency, "date": effectiveValue})
				if err != nil {
					record = core.NewRecord(col)
					record.Set("from_currency", from)
					record.Set("to_currency", req.ToCurrency)
					record.Set("effective_date", effectiveValue)
					created++
				} else {
					updated++
				}
				record.Set("rate", rate)
				if inverse, ok := req.InverseRates[from]; ok {
					record.Set("inverse_rate", inverse)
				}
				record.Set("status", "active")

				if err := txApp.Save(record); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("exchange_rates: batch upsert failed: %v", err)
			return serviceError(e, err)
		}

		return e.JSON(http.StatusOK, map[string]any{
			"effective_date": effective,
			"created":        created,
			"updated":        updated,
		})
	}
}
