package register

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/planora/internal/calendar"
	"github.com/MrJamesThe3rd/planora/internal/docid"
	"github.com/MrJamesThe3rd/planora/internal/document"
	"github.com/MrJamesThe3rd/planora/internal/event"
	"github.com/MrJamesThe3rd/planora/internal/totals"
)

var ErrNotFound = errors.New("not found")

// Entry is a document with the code derived for it from one snapshot.
// Entries must not outlive the request that produced them: any insert or
// delete among the siblings renumbers the group.
type Entry struct {
	Document         *document.Document
	Code             string
	ReferenceEvent   *event.Event
	ReferenceDate    string
	DateStatus       calendar.Status
	EventSequence    int
	DocumentSequence int
}

// QuoteTotals is a quote with its derived totals.
type QuoteTotals struct {
	Quote  *document.Quote
	Totals totals.Totals
}

//go:generate mockgen -source=register.go -destination=repository_mock.go -package=register
type Repository interface {
	BeginSnapshot(ctx context.Context) (Snapshot, error)
}

// Snapshot reads rows from a single consistent view of the data.
type Snapshot interface {
	GetDocument(ctx context.Context, kind document.Kind, id uuid.UUID) (*document.Document, error)
	ListDocuments(ctx context.Context, key document.GroupKey) ([]*document.Document, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*event.Event, error)
	ListEvents(ctx context.Context, filter event.ListFilter) ([]*event.Event, error)
	GetQuote(ctx context.Context, id uuid.UUID) (*document.Quote, error)
	Rollback() error
}

type Service struct {
	repo       Repository
	dates      *calendar.Normalizer
	resolver   *docid.Resolver
	calculator *totals.Calculator
}

func NewService(repo Repository, dates *calendar.Normalizer, calculator *totals.Calculator) *Service {
	return &Service{
		repo:       repo,
		dates:      dates,
		resolver:   docid.NewResolver(dates),
		calculator: calculator,
	}
}

// Resolve derives the code of one document. fallbackEventID, when set, gives
// documents without an event the date context of that event.
func (s *Service) Resolve(ctx context.Context, kind document.Kind, id uuid.UUID, fallbackEventID *uuid.UUID) (*Entry, error) {
	snap, err := s.repo.BeginSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning snapshot: %w", err)
	}
	defer snap.Rollback()

	doc, err := snap.GetDocument(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("getting %s %s: %w", kind, id, err)
	}

	key := document.KeyOf(doc)

	entries, err := s.resolveGroup(ctx, snap, key, fallbackEventID)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.Document.ID == doc.ID {
			return e, nil
		}
	}

	return nil, fmt.Errorf("%s %s missing from group %s: %w", kind, id, key, ErrNotFound)
}

// List derives the codes of every document in a group, ordered by sequence.
func (s *Service) List(ctx context.Context, key document.GroupKey, fallbackEventID *uuid.UUID) ([]*Entry, error) {
	snap, err := s.repo.BeginSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning snapshot: %w", err)
	}
	defer snap.Rollback()

	return s.resolveGroup(ctx, snap, key, fallbackEventID)
}

// QuoteTotals derives the totals of a quote.
func (s *Service) QuoteTotals(ctx context.Context, id uuid.UUID) (*QuoteTotals, error) {
	snap, err := s.repo.BeginSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning snapshot: %w", err)
	}
	defer snap.Rollback()

	q, err := snap.GetQuote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting quote %s: %w", id, err)
	}

	t := s.calculator.Calculate(ctx, q)
	if t.RateErr != nil {
		slog.Warn("exchange rate unavailable", "quote_id", id, "currency", t.Currency, "error", t.RateErr)
	}

	return &QuoteTotals{Quote: q, Totals: t}, nil
}

// Summary renders entries as a plain-text register, one line per document.
func (s *Service) Summary(entries []*Entry) string {
	var sb strings.Builder

	for _, e := range entries {
		created := "unknown"
		if !e.Document.CreatedAt.IsZero() {
			created = e.Document.CreatedAt.In(s.dates.Location()).Format(time.DateOnly)
		}

		title := e.Document.Title
		if title == "" {
			title = "Untitled"
		}

		sb.WriteString(fmt.Sprintf("* %s | %s | %s\n", e.Code, created, title))
	}

	return sb.String()
}

func (s *Service) resolveGroup(ctx context.Context, snap Snapshot, key document.GroupKey, fallbackEventID *uuid.UUID) ([]*Entry, error) {
	siblings, err := snap.ListDocuments(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", key, err)
	}

	var refs []*event.Event

	if key.HasEvent() {
		linked, err := s.lookupEvent(ctx, snap, &key.EventID)
		if err != nil {
			return nil, err
		}

		if linked != nil {
			refs = append(refs, linked)
		}
	}

	fallback, err := s.lookupEvent(ctx, snap, fallbackEventID)
	if err != nil {
		return nil, err
	}

	if fallback != nil {
		refs = append(refs, fallback)
	}

	events, err := s.eventsAround(ctx, snap, refs)
	if err != nil {
		return nil, err
	}

	idx := docid.Indices{
		Events:            docid.BuildEventIndex(events),
		EventSequences:    docid.EventSequences(events, s.dates),
		DocumentSequences: docid.DocumentSequences(siblings),
		Fallback:          fallback,
	}

	entries := make([]*Entry, 0, len(siblings))

	for _, d := range siblings {
		res := s.resolver.Resolve(d.Kind.Prefix(), d, idx)

		if res.DateStatus == calendar.StatusInvalid {
			slog.Warn("unreadable reference date", "document_id", d.ID, "kind", d.Kind, "date", res.ReferenceDate)
		}

		entries = append(entries, &Entry{
			Document:         d,
			Code:             res.Code,
			ReferenceEvent:   res.ReferenceEvent,
			ReferenceDate:    res.ReferenceDate,
			DateStatus:       res.DateStatus,
			EventSequence:    res.EventSequence,
			DocumentSequence: res.DocumentSequence,
		})
	}

	slices.SortStableFunc(entries, func(a, b *Entry) int {
		return cmp.Compare(a.DocumentSequence, b.DocumentSequence)
	})

	return entries, nil
}

// lookupEvent treats a missing event as absent rather than as a failure.
func (s *Service) lookupEvent(ctx context.Context, snap Snapshot, id *uuid.UUID) (*event.Event, error) {
	if id == nil {
		return nil, nil
	}

	e, err := snap.GetEvent(ctx, *id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting event %s: %w", id, err)
	}

	return e, nil
}

// eventsAround collects every event held on the same calendar day as one of
// refs. Stored dates are filtered one day wide on each side so instants near
// midnight are not lost before they are normalized.
func (s *Service) eventsAround(ctx context.Context, snap Snapshot, refs []*event.Event) ([]*event.Event, error) {
	seen := make(map[uuid.UUID]bool)

	var events []*event.Event

	add := func(list ...*event.Event) {
		for _, e := range list {
			if seen[e.ID] {
				continue
			}

			seen[e.ID] = true
			events = append(events, e)
		}
	}

	for _, ref := range refs {
		if ref.Date == "" {
			continue
		}

		r := s.dates.Parse(ref.Date)
		if r.Status != calendar.StatusValid {
			continue
		}

		from := r.Date.AddDays(-1).Time()
		to := r.Date.AddDays(1).Time()

		sameDay, err := snap.ListEvents(ctx, event.ListFilter{StartDate: &from, EndDate: &to})
		if err != nil {
			return nil, fmt.Errorf("listing events around %s: %w", r.Date, err)
		}

		add(sameDay...)
	}

	add(refs...)

	return events, nil
}
