package services

import (
	"errors"
	"math"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestFindRate(t *testing.T) {
	rates := []ExchangeRate{
		{ID: "x1", FromCurrency: "USD", ToCurrency: "INR", Rate: 83.50, InverseRate: 0.011976, EffectiveDate: day("2025-01-01"), Active: true},
		{ID: "x2", FromCurrency: "USD", ToCurrency: "INR", Rate: 85.25, InverseRate: 0.011730, EffectiveDate: day("2025-04-01"), Active: true},
		{ID: "x3", FromCurrency: "USD", ToCurrency: "INR", Rate: 90.00, InverseRate: 0.011111, EffectiveDate: day("2025-07-01"), Active: true},
		{ID: "x4", FromCurrency: "EUR", ToCurrency: "INR", Rate: 92.00, InverseRate: 0.010870, EffectiveDate: day("2025-01-01"), ExpiryDate: day("2025-03-31"), Active: true},
		{ID: "x5", FromCurrency: "GBP", ToCurrency: "INR", Rate: 108.00, InverseRate: 0.009259, EffectiveDate: day("2025-01-01"), Active: false},
	}

	tests := []struct {
		name    string
		from    string
		to      string
		date    string
		want    float64
		wantErr error
	}{
		{name: "most recent effective row wins", from: "USD", to: "INR", date: "2025-06-01", want: 85.25},
		{name: "earlier date picks earlier row", from: "USD", to: "INR", date: "2025-02-15", want: 83.50},
		{name: "future row not used", from: "USD", to: "INR", date: "2025-06-30", want: 85.25},
		{name: "expired row rejected", from: "EUR", to: "INR", date: "2025-05-01", wantErr: ErrNoRateAvailable},
		{name: "unexpired row within window", from: "EUR", to: "INR", date: "2025-02-01", want: 92.00},
		{name: "inactive row rejected", from: "GBP", to: "INR", date: "2025-06-01", wantErr: ErrNoRateAvailable},
		{name: "same currency is unity", from: "INR", to: "INR", date: "2025-06-01", want: 1},
		{name: "before any effective date", from: "USD", to: "INR", date: "2024-12-31", wantErr: ErrNoRateAvailable},
		{name: "inverse fallback for reverse pair", from: "INR", to: "USD", date: "2025-06-01", want: 0.011730},
		{name: "unknown pair", from: "JPY", to: "INR", date: "2025-06-01", wantErr: ErrNoRateAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRate(rates, tt.from, tt.to, day(tt.date))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FindRate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindRate() error = %v", err)
			}
			if math.Abs(got-tt.want) > 0.000001 {
				t.Errorf("FindRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvert_MultipliesStoredRate(t *testing.T) {
	rates := []ExchangeRate{
		{ID: "x1", FromCurrency: "USD", ToCurrency: "INR", Rate: 83.50, EffectiveDate: day("2025-01-01"), Active: true},
	}

	amount, rate, err := Convert(rates, 100, "USD", "INR", day("2025-06-01"))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if math.Abs(rate-83.50) > 0.000001 {
		t.Errorf("rate = %v, want 83.50", rate)
	}
	if math.Abs(amount-8350) > 0.001 {
		t.Errorf("amount = %v, want 8350", amount)
	}
}

func TestConvert_NoInverseWithoutStoredInverseRate(t *testing.T) {
	// Reverse row exists but carries no inverse rate: the engine never
	// computes 1/rate on its own.
	rates := []ExchangeRate{
		{ID: "x1", FromCurrency: "USD", ToCurrency: "INR", Rate: 83.50, InverseRate: 0, EffectiveDate: day("2025-01-01"), Active: true},
	}

	_, _, err := Convert(rates, 1000, "INR", "USD", day("2025-06-01"))
	if !errors.Is(err, ErrNoRateAvailable) {
		t.Fatalf("Convert() error = %v, want ErrNoRateAvailable", err)
	}
}

func TestValidateRateBatch(t *testing.T) {
	tests := []struct {
		name      string
		rates     map[string]float64
		wantCurrs []string
	}{
		{
			name:  "all valid",
			rates: map[string]float64{"USD": 83.50, "EUR": 92.00, "JPY": 0.55},
		},
		{
			name:      "all failures reported together",
			rates:     map[string]float64{"USD": 0, "EUR": -5, "GBP": 1000000, "JPY": 0.55},
			wantCurrs: []string{"EUR", "GBP", "USD"},
		},
		{
			name:  "boundary max accepted",
			rates: map[string]float64{"XXX": 999999.999999},
		},
		{
			name:      "just above max rejected",
			rates:     map[string]float64{"XXX": 1000000.000001},
			wantCurrs: []string{"XXX"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRateBatch(tt.rates)
			if len(errs) != len(tt.wantCurrs) {
				t.Fatalf("ValidateRateBatch() returned %d errors, want %d: %v", len(errs), len(tt.wantCurrs), errs)
			}
			for i, want := range tt.wantCurrs {
				if errs[i].Currency != want {
					t.Errorf("errs[%d].Currency = %s, want %s", i, errs[i].Currency, want)
				}
			}
		})
	}
}
