package document

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrUnknownKind = errors.New("unknown document kind")

// Kind is the type of a document that carries a human-readable code.
type Kind string

const (
	KindQuote         Kind = "quote"
	KindInvoice       Kind = "invoice"
	KindContract      Kind = "contract"
	KindQuestionnaire Kind = "questionnaire"
)

// Kinds lists every document kind in display order.
var Kinds = []Kind{KindQuote, KindInvoice, KindContract, KindQuestionnaire}

var prefixes = map[Kind]string{
	KindQuote:         "QT",
	KindInvoice:       "INV",
	KindContract:      "CON",
	KindQuestionnaire: "QST",
}

// Prefix returns the code prefix of the kind.
func (k Kind) Prefix() string {
	return prefixes[k]
}

// ParseKind accepts a kind name, its plural, or its code prefix, in any case.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	for _, k := range Kinds {
		if s == string(k) || s == string(k)+"s" || s == strings.ToLower(k.Prefix()) {
			return k, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Document is any record that needs a human-readable code.
type Document struct {
	ID        uuid.UUID
	Kind      Kind
	EventID   *uuid.UUID
	ClientID  *uuid.UUID // Only used for grouping when EventID is nil.
	Title     string
	CreatedAt time.Time
}

// SequenceID identifies the document among its siblings.
func (d *Document) SequenceID() uuid.UUID { return d.ID }

// Created is the timestamp siblings are ordered by.
func (d *Document) Created() time.Time { return d.CreatedAt }

// GroupKey is the scope in which document sequence numbers are assigned:
// one kind, and either one event or, for documents without an event, one client.
type GroupKey struct {
	Kind     Kind
	EventID  uuid.UUID
	ClientID uuid.UUID
}

// KeyOf returns the group a document is numbered in. Documents with neither an
// event nor a client share a single unassigned group per kind.
func KeyOf(d *Document) GroupKey {
	if d.EventID != nil {
		return ForEvent(d.Kind, *d.EventID)
	}

	if d.ClientID != nil {
		return ForClient(d.Kind, *d.ClientID)
	}

	return GroupKey{Kind: d.Kind}
}

// ForEvent is the group of documents of kind k linked to an event.
func ForEvent(k Kind, eventID uuid.UUID) GroupKey {
	return GroupKey{Kind: k, EventID: eventID}
}

// ForClient is the group of documents of kind k that belong to a client but to no event.
func ForClient(k Kind, clientID uuid.UUID) GroupKey {
	return GroupKey{Kind: k, ClientID: clientID}
}

// HasEvent reports whether the group is scoped to an event.
func (g GroupKey) HasEvent() bool {
	return g.EventID != uuid.Nil
}

func (g GroupKey) String() string {
	switch {
	case g.EventID != uuid.Nil:
		return fmt.Sprintf("%s/event/%s", g.Kind, g.EventID)
	case g.ClientID != uuid.Nil:
		return fmt.Sprintf("%s/client/%s", g.Kind, g.ClientID)
	}

	return fmt.Sprintf("%s/unassigned", g.Kind)
}
