package services

import (
	"fmt"
	"sort"
	"time"
)

// MaxExchangeRate is the upper bound accepted for any submitted rate.
const MaxExchangeRate = 999999.999999

// ExchangeRate is one effective-dated conversion row. ExpiryDate zero means
// open-ended. InverseRate is the administrator-entered reverse rate, used
// only as a fallback when no direct row exists for the reverse pair.
type ExchangeRate struct {
	ID            string
	FromCurrency  string
	ToCurrency    string
	Rate          float64
	InverseRate   float64
	EffectiveDate time.Time
	ExpiryDate    time.Time
	Active        bool
}

// appliesOn reports whether the row is usable for a conversion on date.
func (r ExchangeRate) appliesOn(date time.Time) bool {
	if !r.Active {
		return false
	}
	if r.EffectiveDate.After(date) {
		return false
	}
	if !r.ExpiryDate.IsZero() && r.ExpiryDate.Before(date) {
		return false
	}
	return true
}

// FindRate returns the multiplier for from→to on the given date: the most
// recently effective applicable direct row wins. When only the reverse pair
// exists, its stored InverseRate is used; the engine never computes 1/rate
// itself. from == to always yields 1.
func FindRate(rates []ExchangeRate, from, to string, date time.Time) (float64, error) {
	if from == to {
		return 1, nil
	}

	if row, ok := latestApplicable(rates, from, to, date); ok {
		return row.Rate, nil
	}
	if row, ok := latestApplicable(rates, to, from, date); ok && row.InverseRate > 0 {
		return row.InverseRate, nil
	}
	return 0, fmt.Errorf("%w: %s to %s on %s", ErrNoRateAvailable, from, to, date.Format("2006-01-02"))
}

func latestApplicable(rates []ExchangeRate, from, to string, date time.Time) (ExchangeRate, bool) {
	var best ExchangeRate
	found := false
	for _, r := range rates {
		if r.FromCurrency != from || r.ToCurrency != to || !r.appliesOn(date) {
			continue
		}
		if !found || r.EffectiveDate.After(best.EffectiveDate) {
			best = r
			found = true
		}
	}
	return best, found
}

// Convert converts amount from one currency to another on the given date.
// It returns the converted amount and the rate used.
func Convert(rates []ExchangeRate, amount float64, from, to string, date time.Time) (float64, float64, error) {
	rate, err := FindRate(rates, from, to, date)
	if err != nil {
		return 0, 0, err
	}
	return amount * rate, rate, nil
}

// RateBatchError is one invalid entry in a submitted rate batch.
type RateBatchError struct {
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
	Message  string  `json:"message"`
}

// ValidateRateBatch checks every submitted rate and reports all failures
// together rather than stopping at the first bad entry. Entries are checked
// in currency order so the error list is deterministic.
func ValidateRateBatch(rates map[string]float64) []RateBatchError {
	currencies := make([]string, 0, len(rates))
	for c := range rates {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)

	var errs []RateBatchError
	for _, c := range currencies {
		rate := rates[c]
		switch {
		case rate <= 0:
			errs = append(errs, RateBatchError{
				Currency: c,
				Rate:     rate,
				Message:  fmt.Sprintf("rate for %s must be greater than zero", c),
			})
		case rate > MaxExchangeRate:
			errs = append(errs, RateBatchError{
				Currency: c,
				Rate:     rate,
				Message:  fmt.Sprintf("rate for %s exceeds the maximum of %.6f", c, float64(MaxExchangeRate)),
			})
		}
	}
	return errs
}
