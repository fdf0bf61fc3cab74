package register

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/planora/internal/document"
	"github.com/MrJamesThe3rd/planora/internal/register"
	"github.com/MrJamesThe3rd/planora/internal/totals"
)

type entryResponse struct {
	ID               uuid.UUID     `json:"id"`
	Kind             document.Kind `json:"kind"`
	Code             string        `json:"code"`
	Title            string        `json:"title,omitempty"`
	EventID          *uuid.UUID    `json:"event_id,omitempty"`
	ClientID         *uuid.UUID    `json:"client_id,omitempty"`
	ReferenceEventID *uuid.UUID    `json:"reference_event_id,omitempty"`
	ReferenceDate    string        `json:"reference_date,omitempty"`
	DateStatus       string        `json:"date_status"`
	EventSequence    int           `json:"event_sequence"`
	DocumentSequence int           `json:"document_sequence"`
	CreatedAt        time.Time     `json:"created_at"`
}

func toEntryResponse(e *register.Entry) entryResponse {
	resp := entryResponse{
		ID:               e.Document.ID,
		Kind:             e.Document.Kind,
		Code:             e.Code,
		Title:            e.Document.Title,
		EventID:          e.Document.EventID,
		ClientID:         e.Document.ClientID,
		ReferenceDate:    e.ReferenceDate,
		DateStatus:       e.DateStatus.String(),
		EventSequence:    e.EventSequence,
		DocumentSequence: e.DocumentSequence,
		CreatedAt:        e.Document.CreatedAt,
	}

	if e.ReferenceEvent != nil {
		resp.ReferenceEventID = &e.ReferenceEvent.ID
	}

	return resp
}

func toEntryResponseList(entries []*register.Entry) []entryResponse {
	resp := make([]entryResponse, len(entries))
	for i, e := range entries {
		resp[i] = toEntryResponse(e)
	}

	return resp
}

type totalsResponse struct {
	QuoteID         uuid.UUID         `json:"quote_id"`
	Currency        string            `json:"currency"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	TaxAdjustment   decimal.Decimal   `json:"tax_adjustment"`
	BaseTotal       decimal.Decimal   `json:"base_total"`
	Rate            decimal.Decimal   `json:"rate"`
	RateOrigin      totals.RateOrigin `json:"rate_origin"`
	ConvertedAmount *decimal.Decimal  `json:"converted_amount"`
}

func toTotalsResponse(qt *register.QuoteTotals) totalsResponse {
	return totalsResponse{
		QuoteID:         qt.Quote.ID,
		Currency:        qt.Totals.Currency,
		Subtotal:        qt.Totals.Subtotal,
		TaxAdjustment:   qt.Totals.TaxAdjustment,
		BaseTotal:       qt.Totals.BaseTotal,
		Rate:            qt.Totals.Rate,
		RateOrigin:      qt.Totals.RateOrigin,
		ConvertedAmount: qt.Totals.ConvertedAmount,
	}
}
