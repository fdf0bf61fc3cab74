package totals_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/planora/internal/document"
	"github.com/MrJamesThe3rd/planora/internal/totals"
)

type stubRates struct {
	rate  decimal.Decimal
	err   error
	calls int
}

func (s *stubRates) Rate(_ context.Context, _ string) (decimal.Decimal, error) {
	s.calls++
	return s.rate, s.err
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func sampleQuote(currency string, retention bool) *document.Quote {
	return &document.Quote{
		Items: []document.LineItem{
			{Quantity: d("2"), UnitPrice: d("100")},
			{Quantity: d("1"), UnitPrice: d("50")},
		},
		Taxes: []document.Tax{
			{Name: "IVA", Amount: d("25"), Retention: retention},
		},
		Currency: currency,
	}
}

func TestCalculator_Calculate(t *testing.T) {
	type testCase struct {
		name          string
		quote         *document.Quote
		rates         *stubRates
		wantBase      string
		wantConverted string // empty means absent
		wantOrigin    totals.RateOrigin
		wantLookups   int
	}

	storedRate := d("20")

	tests := []testCase{
		{
			name:       "NonRetentionTaxAdds",
			quote:      sampleQuote("MXN", false),
			rates:      &stubRates{},
			wantBase:   "275",
			wantOrigin: totals.RateBase,
		},
		{
			name:       "RetentionSubtracts",
			quote:      sampleQuote("MXN", true),
			rates:      &stubRates{},
			wantBase:   "225",
			wantOrigin: totals.RateBase,
		},
		{
			name:       "EmptyQuote",
			quote:      &document.Quote{Currency: "MXN"},
			rates:      &stubRates{},
			wantBase:   "0",
			wantOrigin: totals.RateBase,
		},
		{
			name: "PrecomputedLineTotalWins",
			quote: &document.Quote{
				Items: []document.LineItem{
					{Quantity: d("3"), UnitPrice: d("10"), Total: new(d("27.5"))},
				},
				Currency: "mxn",
			},
			rates:      &stubRates{},
			wantBase:   "27.5",
			wantOrigin: totals.RateBase,
		},
		{
			name: "StoredRate",
			quote: func() *document.Quote {
				q := sampleQuote("USD", false)
				q.ExchangeRate = &storedRate
				return q
			}(),
			rates:         &stubRates{rate: d("17")},
			wantBase:      "275",
			wantConverted: "13.75",
			wantOrigin:    totals.RateDocument,
		},
		{
			name:          "LookupRate",
			quote:         sampleQuote("USD", false),
			rates:         &stubRates{rate: d("11")},
			wantBase:      "275",
			wantConverted: "25",
			wantOrigin:    totals.RateLookup,
			wantLookups:   1,
		},
		{
			name:        "LookupReturnsZero",
			quote:       sampleQuote("USD", false),
			rates:       &stubRates{rate: decimal.Zero},
			wantBase:    "275",
			wantOrigin:  totals.RateLookup,
			wantLookups: 1,
		},
		{
			name:        "LookupFails",
			quote:       sampleQuote("EUR", false),
			rates:       &stubRates{err: errors.New("rate service down")},
			wantBase:    "275",
			wantOrigin:  totals.RateUnavailable,
			wantLookups: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := totals.NewCalculator("MXN", tt.rates)
			got := c.Calculate(context.Background(), tt.quote)

			assert.True(t, got.BaseTotal.Equal(d(tt.wantBase)), "base total %s, want %s", got.BaseTotal, tt.wantBase)
			assert.Equal(t, tt.wantOrigin, got.RateOrigin)
			assert.Equal(t, tt.wantLookups, tt.rates.calls)

			if tt.wantConverted == "" {
				assert.Nil(t, got.ConvertedAmount)
				return
			}

			require.NotNil(t, got.ConvertedAmount)
			assert.True(t, got.ConvertedAmount.Equal(d(tt.wantConverted)), "converted %s, want %s", got.ConvertedAmount, tt.wantConverted)
		})
	}
}

func TestCalculator_LookupErrorIsReported(t *testing.T) {
	lookupErr := errors.New("timeout")
	c := totals.NewCalculator("", &stubRates{err: lookupErr})

	got := c.Calculate(context.Background(), sampleQuote("USD", false))

	assert.ErrorIs(t, got.RateErr, lookupErr)
	assert.Nil(t, got.ConvertedAmount)
	assert.Equal(t, "USD", got.Currency)
}

func TestCalculator_NilRateSource(t *testing.T) {
	c := totals.NewCalculator("MXN", nil)

	got := c.Calculate(context.Background(), sampleQuote("USD", false))

	assert.Equal(t, totals.RateUnavailable, got.RateOrigin)
	assert.Nil(t, got.ConvertedAmount)
}

func TestSubtotalAndTaxAdjustment(t *testing.T) {
	assert.True(t, totals.Subtotal(nil).IsZero())
	assert.True(t, totals.TaxAdjustment(nil).IsZero())

	adj := totals.TaxAdjustment([]document.Tax{
		{Amount: d("16")},
		{Amount: d("10"), Retention: true},
		{Amount: d("1.25"), Retention: true},
	})
	assert.True(t, adj.Equal(d("4.75")))
}
