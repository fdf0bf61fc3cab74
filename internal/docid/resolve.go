package docid

import (
	"time"

	"github.com/MrJamesThe3rd/planora/internal/calendar"
	"github.com/MrJamesThe3rd/planora/internal/document"
	"github.com/MrJamesThe3rd/planora/internal/event"
)

// Indices are the structures computed once per group of siblings and shared
// by every document resolved from it.
type Indices struct {
	Events            EventIndex
	EventSequences    Sequences
	DocumentSequences Sequences
	// Fallback supplies a date context for documents without an event.
	Fallback *event.Event
}

// Resolution is a resolved code and the parts it was built from.
type Resolution struct {
	Code             string
	ReferenceEvent   *event.Event
	ReferenceDate    string
	DateStatus       calendar.Status
	EventSequence    int
	DocumentSequence int
}

// Resolver turns a document and its group's indices into a code.
type Resolver struct {
	formatter *Formatter
}

func NewResolver(dates *calendar.Normalizer) *Resolver {
	return &Resolver{formatter: NewFormatter(dates)}
}

// Resolve never fails: a missing event, date or sequence entry falls back to
// the UNKNOWN date token or sequence 1.
func (r *Resolver) Resolve(prefix string, doc *document.Document, idx Indices) Resolution {
	ref, ok := idx.Events.Lookup(doc.EventID)
	usedFallback := false

	if !ok {
		ref = idx.Fallback
		usedFallback = ref != nil
	}

	var date string

	switch {
	case ref != nil:
		date = ref.Date
	case !doc.CreatedAt.IsZero():
		date = doc.CreatedAt.Format(time.RFC3339Nano)
	}

	eventSeq := 1

	switch {
	case doc.EventID != nil:
		eventSeq = idx.EventSequences.Of(*doc.EventID)
	case usedFallback:
		eventSeq = idx.EventSequences.Of(ref.ID)
	}

	docSeq := idx.DocumentSequences.Of(doc.ID)
	_, status := r.formatter.DateToken(date)

	return Resolution{
		Code:             r.formatter.Format(prefix, date, eventSeq, docSeq),
		ReferenceEvent:   ref,
		ReferenceDate:    date,
		DateStatus:       status,
		EventSequence:    eventSeq,
		DocumentSequence: docSeq,
	}
}

// ResolveCode is Resolve reduced to the code string.
func (r *Resolver) ResolveCode(prefix string, doc *document.Document, idx Indices) string {
	return r.Resolve(prefix, doc, idx).Code
}
