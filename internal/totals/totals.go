package totals

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/planora/internal/document"
)

// BaseCurrency is the currency all totals are computed in.
const BaseCurrency = "MXN"

// RateSource looks up how many units of a currency buy one unit of the base currency.
type RateSource interface {
	Rate(ctx context.Context, currency string) (decimal.Decimal, error)
}

// RateOrigin records where the effective exchange rate came from.
type RateOrigin string

const (
	RateBase        RateOrigin = "base"
	RateDocument    RateOrigin = "document"
	RateLookup      RateOrigin = "lookup"
	RateUnavailable RateOrigin = "unavailable"
)

// Totals are the derived amounts of a quote. Nothing is rounded.
type Totals struct {
	Currency      string
	Subtotal      decimal.Decimal
	TaxAdjustment decimal.Decimal
	BaseTotal     decimal.Decimal
	Rate          decimal.Decimal
	RateOrigin    RateOrigin
	// RateErr is the lookup failure that made the rate unavailable, if any.
	RateErr error
	// ConvertedAmount is the base total in the quote's own currency. It is nil
	// for base-currency quotes and whenever no positive rate is known.
	ConvertedAmount *decimal.Decimal
}

// Subtotal sums the line totals.
func Subtotal(items []document.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Amount())
	}

	return sum
}

// TaxAdjustment sums taxes, subtracting retentions.
func TaxAdjustment(taxes []document.Tax) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range taxes {
		sum = sum.Add(t.Signed())
	}

	return sum
}

type Calculator struct {
	base  string
	rates RateSource
}

// NewCalculator creates a Calculator. An empty base means BaseCurrency.
// rates may be nil, in which case quotes without a stored rate are never converted.
func NewCalculator(base string, rates RateSource) *Calculator {
	if base == "" {
		base = BaseCurrency
	}

	return &Calculator{base: strings.ToUpper(base), rates: rates}
}

// IsBase reports whether currency is the base currency. An empty currency
// counts as base.
func (c *Calculator) IsBase(currency string) bool {
	currency = strings.TrimSpace(currency)

	return currency == "" || strings.EqualFold(currency, c.base)
}

// Calculate derives the totals of q. Lookup failures degrade to an absent
// converted amount and are reported in RateErr.
func (c *Calculator) Calculate(ctx context.Context, q *document.Quote) Totals {
	subtotal := Subtotal(q.Items)
	adjustment := TaxAdjustment(q.Taxes)

	t := Totals{
		Currency:      strings.ToUpper(strings.TrimSpace(q.Currency)),
		Subtotal:      subtotal,
		TaxAdjustment: adjustment,
		BaseTotal:     subtotal.Add(adjustment),
	}

	if t.Currency == "" {
		t.Currency = c.base
	}

	t.Rate, t.RateOrigin, t.RateErr = c.effectiveRate(ctx, q)

	if t.RateOrigin != RateBase && t.Rate.IsPositive() {
		converted := t.BaseTotal.Div(t.Rate)
		t.ConvertedAmount = &converted
	}

	return t
}

func (c *Calculator) effectiveRate(ctx context.Context, q *document.Quote) (decimal.Decimal, RateOrigin, error) {
	if c.IsBase(q.Currency) {
		return decimal.NewFromInt(1), RateBase, nil
	}

	if q.ExchangeRate != nil {
		return *q.ExchangeRate, RateDocument, nil
	}

	if c.rates == nil {
		return decimal.Zero, RateUnavailable, nil
	}

	rate, err := c.rates.Rate(ctx, strings.ToUpper(strings.TrimSpace(q.Currency)))
	if err != nil {
		return decimal.Zero, RateUnavailable, err
	}

	return rate, RateLookup, nil
}
