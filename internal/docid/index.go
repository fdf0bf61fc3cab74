// Package docid derives human-readable document codes such as QT-250614-02-01.
//
// Nothing here is persisted. Codes are recomputed from a snapshot of events and
// sibling documents every time they are needed, so inserting or deleting a
// sibling renumbers the whole group.
package docid

import (
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/planora/internal/event"
)

// EventIndex maps event ids to events.
type EventIndex map[uuid.UUID]*event.Event

// BuildEventIndex indexes events by id. A repeated id keeps the last event.
func BuildEventIndex(events []*event.Event) EventIndex {
	idx := make(EventIndex, len(events))
	for _, e := range events {
		idx[e.ID] = e
	}

	return idx
}

// Lookup returns the event with the given id, if any.
func (idx EventIndex) Lookup(id *uuid.UUID) (*event.Event, bool) {
	if id == nil {
		return nil, false
	}

	e, ok := idx[*id]

	return e, ok
}
