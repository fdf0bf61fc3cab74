package currency

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/planora/internal/encoding"
)

var errNoProfile = errors.New("no matching rate file format found")

// Profile describes the column layout of a rate file.
type Profile struct {
	Name        string
	DateCol     string
	CurrencyCol string
	RateCol     string
}

func (p Profile) requiredCols() []string {
	return []string{p.DateCol, p.CurrencyCol, p.RateCol}
}

// profiles are tried in order; column names are matched case-insensitively.
var profiles = []Profile{
	{Name: "banxico", DateCol: "fecha", CurrencyCol: "moneda", RateCol: "tipo de cambio"},
	{Name: "dof", DateCol: "fecha", CurrencyCol: "divisa", RateCol: "valor"},
	{Name: "generic", DateCol: "date", CurrencyCol: "currency", RateCol: "rate"},
}

var separators = []rune{';', ',', '\t'}

var dateLayouts = []string{"02/01/2006", time.DateOnly, "02-01-2006"}

// Parsed is the content of one rate file.
type Parsed struct {
	Profile string
	Charset enc.Charset
	Rates   []Rate
}

// Parser reads CSV rate files exported by Banxico, the DOF or any tool using
// date/currency/rate headers. Preamble lines before the header are skipped.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) (*Parsed, error) {
	utf8r, charset, err := enc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	for _, sep := range separators {
		rows, err := readRows(data, sep)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		rates, err := parseRows(profile, cols, rows[headerIdx+1:])
		if err != nil {
			return nil, err
		}

		return &Parsed{Profile: profile.Name, Charset: charset, Rates: rates}, nil
	}

	return nil, fmt.Errorf("%w: expected Fecha/Moneda/Tipo de cambio or date/currency/rate columns", errNoProfile)
}

func readRows(data []byte, sep rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips rows without a readable date or a positive rate, such as
// footers and the N/E markers Banxico uses for days without a fix.
func parseRows(p *Profile, cols colIndex, rows [][]string) ([]Rate, error) {
	var (
		dateIdx     = cols[p.DateCol]
		currencyIdx = cols[p.CurrencyCol]
		rateIdx     = cols[p.RateCol]
		maxIdx      = max(dateIdx, currencyIdx, rateIdx)
	)

	var rates []Rate

	for _, row := range rows {
		if len(row) <= maxIdx {
			continue
		}

		observed, ok := parseDate(strings.TrimSpace(row[dateIdx]))
		if !ok {
			continue
		}

		code := normalizeCode(row[currencyIdx])
		if code == "" {
			continue
		}

		value, err := parseRate(row[rateIdx])
		if err != nil || !value.IsPositive() {
			continue
		}

		rates = append(rates, Rate{Currency: code, Value: value, ObservedOn: observed})
	}

	if len(rates) == 0 {
		return nil, fmt.Errorf("no rate rows found after %s header", p.Name)
	}

	return rates, nil
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// currencyNames maps the names used by Mexican publications to ISO codes.
var currencyNames = map[string]string{
	"dolar":                "USD",
	"dólar":                "USD",
	"dolar estadounidense": "USD",
	"dólar estadounidense": "USD",
	"euro":                 "EUR",
	"dolar canadiense":     "CAD",
	"dólar canadiense":     "CAD",
	"libra esterlina":      "GBP",
	"yen japones":          "JPY",
	"yen japonés":          "JPY",
}

func normalizeCode(s string) string {
	s = strings.TrimSpace(s)
	if code, ok := currencyNames[strings.ToLower(s)]; ok {
		return code
	}

	return strings.ToUpper(s)
}

// parseRate accepts 17.2543, 17,2543 and 1.234,5678.
func parseRate(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)

	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	return decimal.NewFromString(clean)
}
