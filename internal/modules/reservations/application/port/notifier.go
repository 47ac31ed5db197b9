package port

import (
	"context"

	"salleYaFloor/internal/modules/reservations/domain"
)

// Notifier delivers customer-facing confirmation and cancellation messages.
// Delivery is best-effort: callers fire it in the background with a bounded
// timeout and only log failures, never blocking a lifecycle transition.
type Notifier interface {
	SendConfirmation(ctx context.Context, reservation domain.Reservation) error
	SendCancellation(ctx context.Context, reservation domain.Reservation) error
}

// FloorView exposes the shared in-memory reservation cache kept consistent
// by the live update listener. Snapshot reads never block writers for long;
// Upsert applies an optimistic local edit that the next authoritative
// refresh overwrites.
type FloorView interface {
	Snapshot() []domain.Reservation
	Find(id int) (domain.Reservation, bool)
	Upsert(reservation domain.Reservation)
}

// Refresher requests an authoritative re-fetch of the reservation set.
// Requests are coalesced and must never block the caller.
type Refresher interface {
	RequestRefresh()
}
