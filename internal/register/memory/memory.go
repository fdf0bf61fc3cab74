// Package memory holds a register repository backed by an in-memory data set,
// typically loaded from a YAML snapshot file.
package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/MrJamesThe3rd/planora/internal/document"
	"github.com/MrJamesThe3rd/planora/internal/event"
	"github.com/MrJamesThe3rd/planora/internal/register"
)

// File is the YAML layout of a snapshot. Identifiers and amounts are kept as
// strings so that quoted and unquoted values read the same.
type File struct {
	BaseCurrency string            `yaml:"base_currency"`
	Timezone     string            `yaml:"timezone"`
	Rates        map[string]string `yaml:"rates"`
	Events       []EventRecord     `yaml:"events"`
	Documents    []DocumentRecord  `yaml:"documents"`
}

type EventRecord struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Date      string    `yaml:"date"`
	ClientID  string    `yaml:"client_id"`
	CreatedAt time.Time `yaml:"created_at"`
}

type DocumentRecord struct {
	ID        string    `yaml:"id"`
	Kind      string    `yaml:"kind"`
	EventID   string    `yaml:"event_id"`
	ClientID  string    `yaml:"client_id"`
	Title     string    `yaml:"title"`
	CreatedAt time.Time `yaml:"created_at"`

	// Quote fields.
	Currency     string       `yaml:"currency"`
	ExchangeRate string       `yaml:"exchange_rate"`
	Items        []ItemRecord `yaml:"items"`
	Taxes        []TaxRecord  `yaml:"taxes"`
}

type ItemRecord struct {
	Description string `yaml:"description"`
	Quantity    string `yaml:"quantity"`
	UnitPrice   string `yaml:"unit_price"`
	Total       string `yaml:"total"`
}

type TaxRecord struct {
	Name      string `yaml:"name"`
	Amount    string `yaml:"amount"`
	Retention bool   `yaml:"retention"`
}

// Store is a read-only register repository. Every snapshot sees the same data.
type Store struct {
	BaseCurrency string
	Timezone     string
	Rates        map[string]decimal.Decimal

	events []*event.Event
	docs   []*document.Document
	quotes map[uuid.UUID]*document.Quote
}

// Load decodes a YAML snapshot.
func Load(r io.Reader) (*Store, error) {
	var f File

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	return FromFile(&f)
}

// FromFile validates f and builds a Store from it.
func FromFile(f *File) (*Store, error) {
	s := &Store{
		BaseCurrency: f.BaseCurrency,
		Timezone:     f.Timezone,
		Rates:        make(map[string]decimal.Decimal, len(f.Rates)),
		quotes:       make(map[uuid.UUID]*document.Quote),
	}

	for code, raw := range f.Rates {
		v, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("rate %s: %w", code, err)
		}

		s.Rates[strings.ToUpper(code)] = v
	}

	for i, rec := range f.Events {
		e, err := rec.toEvent()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}

		s.events = append(s.events, e)
	}

	for i, rec := range f.Documents {
		d, err := rec.toDocument()
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}

		s.docs = append(s.docs, d)

		if d.Kind != document.KindQuote {
			continue
		}

		q, err := rec.toQuote(d)
		if err != nil {
			return nil, fmt.Errorf("quote %s: %w", d.ID, err)
		}

		s.quotes[d.ID] = q
	}

	return s, nil
}

func (rec EventRecord) toEvent() (*event.Event, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}

	clientID, err := optionalUUID(rec.ClientID)
	if err != nil {
		return nil, fmt.Errorf("client_id: %w", err)
	}

	return &event.Event{
		ID:        id,
		Name:      rec.Name,
		Date:      rec.Date,
		ClientID:  clientID,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func (rec DocumentRecord) toDocument() (*document.Document, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}

	kind, err := document.ParseKind(rec.Kind)
	if err != nil {
		return nil, err
	}

	eventID, err := optionalUUID(rec.EventID)
	if err != nil {
		return nil, fmt.Errorf("event_id: %w", err)
	}

	clientID, err := optionalUUID(rec.ClientID)
	if err != nil {
		return nil, fmt.Errorf("client_id: %w", err)
	}

	return &document.Document{
		ID:        id,
		Kind:      kind,
		EventID:   eventID,
		ClientID:  clientID,
		Title:     rec.Title,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func (rec DocumentRecord) toQuote(d *document.Document) (*document.Quote, error) {
	q := &document.Quote{Document: *d, Currency: rec.Currency}

	rate, err := optionalDecimal(rec.ExchangeRate)
	if err != nil {
		return nil, fmt.Errorf("exchange_rate: %w", err)
	}

	q.ExchangeRate = rate

	for i, it := range rec.Items {
		qty, err := decimal.NewFromString(it.Quantity)
		if err != nil {
			return nil, fmt.Errorf("item %d quantity: %w", i, err)
		}

		price, err := decimal.NewFromString(it.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("item %d unit_price: %w", i, err)
		}

		total, err := optionalDecimal(it.Total)
		if err != nil {
			return nil, fmt.Errorf("item %d total: %w", i, err)
		}

		q.Items = append(q.Items, document.LineItem{
			Description: it.Description,
			Quantity:    qty,
			UnitPrice:   price,
			Total:       total,
		})
	}

	for i, t := range rec.Taxes {
		amount, err := decimal.NewFromString(t.Amount)
		if err != nil {
			return nil, fmt.Errorf("tax %d amount: %w", i, err)
		}

		q.Taxes = append(q.Taxes, document.Tax{Name: t.Name, Amount: amount, Retention: t.Retention})
	}

	return q, nil
}

func optionalUUID(s string) (*uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}

	return &id, nil
}

func optionalDecimal(s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// BeginSnapshot implements register.Repository.
func (s *Store) BeginSnapshot(context.Context) (register.Snapshot, error) {
	return s, nil
}

func (s *Store) Rollback() error {
	return nil
}

func (s *Store) GetDocument(_ context.Context, kind document.Kind, id uuid.UUID) (*document.Document, error) {
	for _, d := range s.docs {
		if d.Kind == kind && d.ID == id {
			return d, nil
		}
	}

	return nil, register.ErrNotFound
}

// ListDocuments returns the group's documents in creation order.
func (s *Store) ListDocuments(_ context.Context, key document.GroupKey) ([]*document.Document, error) {
	var docs []*document.Document

	for _, d := range s.docs {
		if document.KeyOf(d) == key {
			docs = append(docs, d)
		}
	}

	slices.SortStableFunc(docs, func(a, b *document.Document) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return docs, nil
}

func (s *Store) GetEvent(_ context.Context, id uuid.UUID) (*event.Event, error) {
	for _, e := range s.events {
		if e.ID == id {
			return e, nil
		}
	}

	return nil, register.ErrNotFound
}

// ListEvents compares the leading YYYY-MM-DD of each stored date against the
// filter bounds, the same way the Postgres store does.
func (s *Store) ListEvents(_ context.Context, filter event.ListFilter) ([]*event.Event, error) {
	var events []*event.Event

	for _, e := range s.events {
		day := e.Date
		if len(day) > 10 {
			day = day[:10]
		}

		if filter.StartDate != nil && (day == "" || day < filter.StartDate.Format(time.DateOnly)) {
			continue
		}

		if filter.EndDate != nil && (day == "" || day > filter.EndDate.Format(time.DateOnly)) {
			continue
		}

		events = append(events, e)
	}

	slices.SortStableFunc(events, func(a, b *event.Event) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return events, nil
}

func (s *Store) GetQuote(_ context.Context, id uuid.UUID) (*document.Quote, error) {
	q, ok := s.quotes[id]
	if !ok {
		return nil, register.ErrNotFound
	}

	return q, nil
}
