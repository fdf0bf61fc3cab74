package cli

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/planora/internal/currency"
)

// staticRates serves rates from the snapshot file and --rate flags.
type staticRates map[string]decimal.Decimal

func (s staticRates) Rate(_ context.Context, code string) (decimal.Decimal, error) {
	v, ok := s[strings.ToUpper(code)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s: %w", code, currency.ErrRateNotFound)
	}

	return v, nil
}

// parseRateFlags reads CODE=VALUE pairs.
func parseRateFlags(flags []string) (staticRates, error) {
	rates := make(staticRates, len(flags))

	for _, f := range flags {
		code, raw, ok := strings.Cut(f, "=")
		if !ok || strings.TrimSpace(code) == "" {
			return nil, fmt.Errorf("invalid --rate %q, want CODE=VALUE", f)
		}

		v, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid --rate %q: %w", f, err)
		}

		rates[strings.ToUpper(strings.TrimSpace(code))] = v
	}

	return rates, nil
}

func newTotalsCommand(opts *options) *cobra.Command {
	var (
		quote     string
		rateFlags []string
	)

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Print the totals of a quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(quote)
			if err != nil {
				return fmt.Errorf("invalid --quote: %w", err)
			}

			flagRates, err := parseRateFlags(rateFlags)
			if err != nil {
				return err
			}

			rates := staticRates{}

			e, err := opts.load(rates)
			if err != nil {
				return err
			}

			// Flags override the snapshot's rates.
			maps.Copy(rates, e.store.Rates)
			maps.Copy(rates, flagRates)

			qt, err := e.register.QuoteTotals(cmd.Context(), id)
			if err != nil {
				return err
			}

			t := qt.Totals
			out := cmd.OutOrStdout()

			converted := "n/a"
			if t.ConvertedAmount != nil {
				converted = t.ConvertedAmount.String()
			}

			_, err = fmt.Fprintf(out,
				"currency:         %s\nsubtotal:         %s\ntax adjustment:   %s\nbase total:       %s\nrate:             %s (%s)\nconverted amount: %s\n",
				t.Currency, t.Subtotal, t.TaxAdjustment, t.BaseTotal, t.Rate, t.RateOrigin, converted,
			)

			return err
		},
	}

	cmd.Flags().StringVar(&quote, "quote", "", "quote id")
	cmd.Flags().StringArrayVar(&rateFlags, "rate", nil, "exchange rate as CODE=VALUE, repeatable")
	_ = cmd.MarkFlagRequired("quote")

	return cmd
}
