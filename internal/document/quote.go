package document

import (
	"github.com/shopspring/decimal"
)

// LineItem is one billable line of a quote.
type LineItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       *decimal.Decimal // Precomputed line total; wins over Quantity*UnitPrice when set.
}

// Amount returns the line total.
func (li LineItem) Amount() decimal.Decimal {
	if li.Total != nil {
		return *li.Total
	}

	return li.Quantity.Mul(li.UnitPrice)
}

// Tax is a tax entry applied to a quote. Retentions are withheld, so they
// subtract from the total instead of adding to it.
type Tax struct {
	Name      string
	Amount    decimal.Decimal
	Retention bool
}

// Signed returns the tax amount with the sign it contributes to the total.
func (t Tax) Signed() decimal.Decimal {
	if t.Retention {
		return t.Amount.Neg()
	}

	return t.Amount
}

// Quote is a document with line items, taxes and a currency.
type Quote struct {
	Document
	Items    []LineItem
	Taxes    []Tax
	Currency string
	// ExchangeRate is document-currency units per one base-currency unit.
	ExchangeRate *decimal.Decimal
}
