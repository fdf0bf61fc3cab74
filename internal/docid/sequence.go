package docid

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/planora/internal/calendar"
	"github.com/MrJamesThe3rd/planora/internal/document"
	"github.com/MrJamesThe3rd/planora/internal/event"
)

// Sequences maps an id to its 1-based position among its siblings.
type Sequences map[uuid.UUID]int

// Of returns the position of id, or 1 when id was never sequenced.
func (s Sequences) Of(id uuid.UUID) int {
	if n, ok := s[id]; ok {
		return n
	}

	return 1
}

// Sequenced is anything numbered among siblings by creation time.
type Sequenced interface {
	SequenceID() uuid.UUID
	Created() time.Time
}

// AssignSequences groups items by key, orders every group by ascending
// creation time and numbers it from 1. Items created at the same instant keep
// their input order. Items for which key reports false are left out.
func AssignSequences[T Sequenced, K comparable](items []T, key func(T) (K, bool)) Sequences {
	groups := make(map[K][]T)

	for _, it := range items {
		k, ok := key(it)
		if !ok {
			continue
		}

		groups[k] = append(groups[k], it)
	}

	seqs := make(Sequences, len(items))

	for _, group := range groups {
		slices.SortStableFunc(group, func(a, b T) int {
			return a.Created().Compare(b.Created())
		})

		for i, it := range group {
			seqs[it.SequenceID()] = i + 1
		}
	}

	return seqs
}

// AssignDocumentSequences numbers documents within the group the caller's key puts them in.
func AssignDocumentSequences[D Sequenced, K comparable](docs []D, key func(D) K) Sequences {
	return AssignSequences(docs, func(d D) (K, bool) {
		return key(d), true
	})
}

// DocumentSequences numbers documents within their kind and event, or kind and
// client for documents without an event.
func DocumentSequences(docs []*document.Document) Sequences {
	return AssignDocumentSequences(docs, document.KeyOf)
}

type sequencedEvent struct{ *event.Event }

func (e sequencedEvent) SequenceID() uuid.UUID { return e.ID }
func (e sequencedEvent) Created() time.Time    { return e.CreatedAt }

// EventSequences numbers events among the events held on the same calendar day.
// Events without a date, or with a date that cannot be read, get no entry.
func EventSequences(events []*event.Event, dates *calendar.Normalizer) Sequences {
	wrapped := make([]sequencedEvent, len(events))
	for i, e := range events {
		wrapped[i] = sequencedEvent{e}
	}

	return AssignSequences(wrapped, func(e sequencedEvent) (calendar.Date, bool) {
		if e.Date == "" {
			return calendar.Date{}, false
		}

		r := dates.Parse(e.Date)

		return r.Date, r.Status == calendar.StatusValid
	})
}
