package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/planora/internal/document"
	"github.com/MrJamesThe3rd/planora/internal/event"
	"github.com/MrJamesThe3rd/planora/internal/register"
)

// tables maps each document kind to the table holding it. Every table has
// id, event_id, client_id, title, created_at and deleted_at columns.
var tables = map[document.Kind]string{
	document.KindQuote:         "quotes",
	document.KindInvoice:       "invoices",
	document.KindContract:      "contracts",
	document.KindQuestionnaire: "questionnaires",
}

func tableFor(kind document.Kind) (string, error) {
	t, ok := tables[kind]
	if !ok {
		return "", fmt.Errorf("%q: %w", kind, document.ErrUnknownKind)
	}

	return t, nil
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// BeginSnapshot opens a read-only repeatable read transaction, so every read
// made through the returned snapshot sees the same committed state.
func (s *Store) BeginSnapshot(ctx context.Context) (register.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("beginning snapshot: %w", err)
	}

	return &Snapshot{tx: tx}, nil
}

type Snapshot struct {
	tx *sql.Tx
}

func (s *Snapshot) Rollback() error {
	return s.tx.Rollback()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectDocumentColumns = `id, event_id, client_id, title, created_at`

// scanDocument expects the columns of selectDocumentColumns, in order,
// followed by any extra destinations.
func scanDocument(s scanner, kind document.Kind, extra ...any) (*document.Document, error) {
	d := document.Document{Kind: kind}

	var title sql.NullString

	dest := append([]any{&d.ID, &d.EventID, &d.ClientID, &title, &d.CreatedAt}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	d.Title = title.String

	return &d, nil
}

func (s *Snapshot) GetDocument(ctx context.Context, kind document.Kind, id uuid.UUID) (*document.Document, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + selectDocumentColumns + ` FROM ` + table + `
		WHERE id = $1 AND deleted_at IS NULL`

	d, err := scanDocument(s.tx.QueryRowContext(ctx, query, id), kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, register.ErrNotFound
		}

		return nil, fmt.Errorf("getting %s: %w", kind, err)
	}

	return d, nil
}

// ListDocuments returns the live documents of a group. Documents with an
// event are grouped by event; the rest by client, or together when they
// have neither.
func (s *Snapshot) ListDocuments(ctx context.Context, key document.GroupKey) ([]*document.Document, error) {
	table, err := tableFor(key.Kind)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + selectDocumentColumns + ` FROM ` + table + ` WHERE deleted_at IS NULL`

	var args []any

	switch {
	case key.EventID != uuid.Nil:
		query += " AND event_id = $1"

		args = append(args, key.EventID)
	case key.ClientID != uuid.Nil:
		query += " AND event_id IS NULL AND client_id = $1"

		args = append(args, key.ClientID)
	default:
		query += " AND event_id IS NULL AND client_id IS NULL"
	}

	query += " ORDER BY created_at ASC, id ASC"

	rows, err := s.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	defer rows.Close()

	var docs []*document.Document

	for rows.Next() {
		d, err := scanDocument(rows, key.Kind)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", key.Kind, err)
		}

		docs = append(docs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", table, err)
	}

	return docs, nil
}

const selectEventColumns = `id, name, event_date, client_id, created_at`

func scanEvent(s scanner) (*event.Event, error) {
	var e event.Event

	var name, date sql.NullString

	if err := s.Scan(&e.ID, &name, &date, &e.ClientID, &e.CreatedAt); err != nil {
		return nil, err
	}

	e.Name = name.String
	e.Date = date.String

	return &e, nil
}

func (s *Snapshot) GetEvent(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	query := `SELECT ` + selectEventColumns + ` FROM events
		WHERE id = $1 AND deleted_at IS NULL`

	e, err := scanEvent(s.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, register.ErrNotFound
		}

		return nil, fmt.Errorf("getting event: %w", err)
	}

	return e, nil
}

// ListEvents filters on the leading YYYY-MM-DD of event_date, which holds
// either a bare date or a full timestamp. Events without a date never match
// a bounded filter.
func (s *Snapshot) ListEvents(ctx context.Context, filter event.ListFilter) ([]*event.Event, error) {
	query := `SELECT ` + selectEventColumns + ` FROM events WHERE deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND left(event_date, 10) >= $%d", argIdx)

		args = append(args, filter.StartDate.Format(time.DateOnly))
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND left(event_date, 10) <= $%d", argIdx)

		args = append(args, filter.EndDate.Format(time.DateOnly))
	}

	query += " ORDER BY created_at ASC, id ASC"

	rows, err := s.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []*event.Event

	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

// GetQuote loads a quote with its line items and taxes, both in position order.
func (s *Snapshot) GetQuote(ctx context.Context, id uuid.UUID) (*document.Quote, error) {
	query := `SELECT ` + selectDocumentColumns + `, currency, exchange_rate FROM quotes
		WHERE id = $1 AND deleted_at IS NULL`

	var (
		cur  sql.NullString
		rate decimal.NullDecimal
	)

	d, err := scanDocument(s.tx.QueryRowContext(ctx, query, id), document.KindQuote, &cur, &rate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, register.ErrNotFound
		}

		return nil, fmt.Errorf("getting quote: %w", err)
	}

	q := &document.Quote{Document: *d, Currency: cur.String}
	if rate.Valid {
		q.ExchangeRate = &rate.Decimal
	}

	if q.Items, err = s.quoteItems(ctx, id); err != nil {
		return nil, err
	}

	if q.Taxes, err = s.quoteTaxes(ctx, id); err != nil {
		return nil, err
	}

	return q, nil
}

func (s *Snapshot) quoteItems(ctx context.Context, quoteID uuid.UUID) ([]document.LineItem, error) {
	query := `
		SELECT description, quantity, unit_price, total
		FROM quote_items
		WHERE quote_id = $1
		ORDER BY position ASC
	`

	rows, err := s.tx.QueryContext(ctx, query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("listing quote items: %w", err)
	}
	defer rows.Close()

	var items []document.LineItem

	for rows.Next() {
		var (
			it    document.LineItem
			desc  sql.NullString
			total decimal.NullDecimal
		)

		if err := rows.Scan(&desc, &it.Quantity, &it.UnitPrice, &total); err != nil {
			return nil, fmt.Errorf("scanning quote item: %w", err)
		}

		it.Description = desc.String
		if total.Valid {
			it.Total = &total.Decimal
		}

		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating quote items: %w", err)
	}

	return items, nil
}

func (s *Snapshot) quoteTaxes(ctx context.Context, quoteID uuid.UUID) ([]document.Tax, error) {
	query := `
		SELECT name, amount, is_retention
		FROM quote_taxes
		WHERE quote_id = $1
		ORDER BY position ASC
	`

	rows, err := s.tx.QueryContext(ctx, query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("listing quote taxes: %w", err)
	}
	defer rows.Close()

	var taxes []document.Tax

	for rows.Next() {
		var (
			tax  document.Tax
			name sql.NullString
		)

		if err := rows.Scan(&name, &tax.Amount, &tax.Retention); err != nil {
			return nil, fmt.Errorf("scanning quote tax: %w", err)
		}

		tax.Name = name.String
		taxes = append(taxes, tax)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating quote taxes: %w", err)
	}

	return taxes, nil
}
