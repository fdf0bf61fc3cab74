package event

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a scheduled engagement.
type Event struct {
	ID       uuid.UUID
	Name     string
	Date     string // As stored: YYYY-MM-DD or a full timestamp. Empty when unscheduled.
	ClientID *uuid.UUID
	// CreatedAt orders events that share a calendar day.
	CreatedAt time.Time
}

// ListFilter narrows an event listing to a window of calendar days.
// Both bounds are inclusive and compared on the day part only.
type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}
