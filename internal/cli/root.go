// Package cli implements docctl, which derives document codes and quote
// totals from a YAML snapshot without a database.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/planora/internal/calendar"
	"github.com/MrJamesThe3rd/planora/internal/register"
	"github.com/MrJamesThe3rd/planora/internal/register/memory"
	"github.com/MrJamesThe3rd/planora/internal/totals"
)

type options struct {
	snapshot     string
	timezone     string
	baseCurrency string
}

// NewRootCommand builds the docctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "docctl",
		Short: "Derive document codes and quote totals from a snapshot file",
		Long: `docctl reads events, documents and rates from a YAML snapshot and prints
the codes and totals the API would derive for them.

Example:
  docctl code --snapshot s.yaml --kind QT --id <uuid>
  docctl list --snapshot s.yaml --kind INV --event <uuid>
  docctl totals --snapshot s.yaml --quote <uuid> --rate USD=17.2`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.snapshot, "snapshot", "", "path to the YAML snapshot file")
	root.PersistentFlags().StringVar(&opts.timezone, "timezone", "", "timezone instants are read in (default: snapshot timezone, then local)")
	root.PersistentFlags().StringVar(&opts.baseCurrency, "base-currency", "", "base currency (default: snapshot base currency, then MXN)")
	_ = root.MarkPersistentFlagRequired("snapshot")

	root.AddCommand(
		newCodeCommand(opts),
		newListCommand(opts),
		newTotalsCommand(opts),
	)

	return root
}

// Execute runs docctl and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// env is what every subcommand needs once the snapshot is loaded.
type env struct {
	store    *memory.Store
	register *register.Service
}

func (o *options) load(rates totals.RateSource) (*env, error) {
	f, err := os.Open(o.snapshot)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	store, err := memory.Load(f)
	if err != nil {
		return nil, err
	}

	tz := firstNonEmpty(o.timezone, store.Timezone)

	loc := time.Local
	if tz != "" {
		if loc, err = time.LoadLocation(tz); err != nil {
			return nil, fmt.Errorf("loading timezone %q: %w", tz, err)
		}
	}

	calculator := totals.NewCalculator(firstNonEmpty(o.baseCurrency, store.BaseCurrency), rates)

	return &env{
		store:    store,
		register: register.NewService(store, calendar.NewNormalizer(loc), calculator),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
