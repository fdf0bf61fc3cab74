package currency

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrRateNotFound = errors.New("exchange rate not found")
	// ErrUnreadableFile marks an imported rate file whose content could not be parsed.
	ErrUnreadableFile = errors.New("unreadable rate file")
)

// Rate is an observed exchange rate: Value units of Currency per one base-currency unit.
type Rate struct {
	Currency   string
	Value      decimal.Decimal
	ObservedOn time.Time
}

//go:generate mockgen -source=currency.go -destination=currency_mock.go -package=currency
type Repository interface {
	LatestRate(ctx context.Context, currency string) (*Rate, error)
	SaveRates(ctx context.Context, rates []Rate) (int, error)
}

// Remote fetches a current rate from an external rate service.
type Remote interface {
	Fetch(ctx context.Context, currency string) (*Rate, error)
}

type Service struct {
	repo   Repository
	remote Remote
	base   string
	parser *Parser
}

// NewService creates a rate service. remote may be nil.
func NewService(repo Repository, remote Remote, base string) *Service {
	return &Service{
		repo:   repo,
		remote: remote,
		base:   strings.ToUpper(base),
		parser: NewParser(),
	}
}

// Base returns the base currency code.
func (s *Service) Base() string {
	return s.base
}

// Latest returns the most recent known rate for currency. Stored rates win;
// the remote service is asked only when none is stored, and its answer is kept.
func (s *Service) Latest(ctx context.Context, currency string) (*Rate, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if currency == s.base {
		return &Rate{Currency: currency, Value: decimal.NewFromInt(1)}, nil
	}

	rate, err := s.repo.LatestRate(ctx, currency)
	if err == nil {
		return rate, nil
	}

	if !errors.Is(err, ErrRateNotFound) || s.remote == nil {
		return nil, err
	}

	rate, err = s.remote.Fetch(ctx, currency)
	if err != nil {
		return nil, fmt.Errorf("fetching %s rate: %w", currency, err)
	}

	if _, err := s.repo.SaveRates(ctx, []Rate{*rate}); err != nil {
		slog.Warn("failed to store fetched rate", "currency", currency, "error", err)
	}

	return rate, nil
}

// Rate implements totals.RateSource.
func (s *Service) Rate(ctx context.Context, currency string) (decimal.Decimal, error) {
	rate, err := s.Latest(ctx, currency)
	if err != nil {
		return decimal.Zero, err
	}

	return rate.Value, nil
}

// ImportResult summarizes a rate file import.
type ImportResult struct {
	Profile  string
	Charset  string
	Parsed   int
	Imported int
}

// Import parses a rate file and stores every rate in it.
func (s *Service) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	parsed, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}

	n, err := s.repo.SaveRates(ctx, parsed.Rates)
	if err != nil {
		return nil, fmt.Errorf("saving rates: %w", err)
	}

	return &ImportResult{
		Profile:  parsed.Profile,
		Charset:  string(parsed.Charset),
		Parsed:   len(parsed.Rates),
		Imported: n,
	}, nil
}
