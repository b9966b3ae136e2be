package reservation

import (
	"context"
	"time"
)

// Event is a calendar event as seen by the booking flow.
type Event struct {
	ID      string
	Summary string
	Start   time.Time
	End     time.Time
	// AllDay events carry only a date; Start/End hold the day bounds.
	AllDay bool
}

// EventInput is the payload for creating or updating a calendar event.
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// Calendar is the external calendar authority. It is the single source
// of truth for booked slots and is re-read immediately before every
// write; its state is never cached across the validate-commit boundary.
type Calendar interface {
	// ListEvents returns events overlapping [timeMin, timeMax].
	// A zero timeMax means no upper bound.
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	InsertEvent(ctx context.Context, in EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, id string, in EventInput) (*Event, error)
}

// AuditRow mirrors one reservation in the tabular audit store. It is
// kept for human review and change history, never for conflict checks.
type AuditRow struct {
	Date          string // YYYY-MM-DD
	Time          string // HH:00
	MemberID      string
	MemberName    string
	ChangeHistory string
}

// AuditLog is the append/update tabular store behind the audit rows.
type AuditLog interface {
	Append(ctx context.Context, row AuditRow) error
	// Rows returns all rows in sheet order.
	Rows(ctx context.Context) ([]AuditRow, error)
	// Update replaces the row at the given zero-based index.
	Update(ctx context.Context, index int, row AuditRow) error
}

// Notifier receives fire-and-forget booking notifications. Failures are
// logged by the service and never surfaced to the booking flow.
type Notifier interface {
	ReservationCreated(ctx context.Context, r Reservation) error
	ReservationRescheduled(ctx context.Context, prev, next Reservation) error
}
