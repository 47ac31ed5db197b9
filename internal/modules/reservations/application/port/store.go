package port

import (
	"context"
	"errors"

	"salleYaFloor/internal/modules/reservations/domain"
)

var (
	// ErrStoreUnavailable signals a transport or configuration failure
	// reaching the remote reservation store. The operation in progress is
	// aborted; no local state may be mutated on this error.
	ErrStoreUnavailable = errors.New("reservation store unavailable")
	// ErrReservationNotFound signals that the store has no row for the id.
	ErrReservationNotFound = errors.New("reservation not found")
)

// NewReservation carries the fields a caller provides when creating a
// reservation. Status defaults to new when left empty; staff entries may
// create directly at pending or, with Tables set, at assigned. Tables is
// only meaningful for creation at assigned.
type NewReservation struct {
	Name     string
	Email    string
	Phone    string
	Date     string
	Time     string
	Guests   int
	Status   domain.Status
	Comments string
	Tables   []int
}

// ContactUpdate carries corrective edits to customer contact fields, the
// only mutation allowed on terminal reservations.
type ContactUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

// ReservationStore is the gateway to the remote reservation store. All rows
// cross this boundary exactly once, already converted to the canonical
// domain shape. The store offers last-write-wins row updates and nothing
// stronger.
type ReservationStore interface {
	Create(ctx context.Context, input NewReservation) (domain.Reservation, error)
	Get(ctx context.Context, id int) (domain.Reservation, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]domain.Reservation, error)
	// ListAll returns every reservation ordered by creation time descending.
	ListAll(ctx context.Context) ([]domain.Reservation, error)
	// UpdateStatus writes status and table binding in a single row update.
	// When allTables has more than one entry the gateway appends the
	// machine-parseable table tag to the existing comment text; a transition
	// to cancelled stamps the cancellation timestamp.
	UpdateStatus(ctx context.Context, id int, status domain.Status, primaryTable *int, allTables []int) (domain.Reservation, error)
	UpdateContact(ctx context.Context, id int, update ContactUpdate) (domain.Reservation, error)
}
