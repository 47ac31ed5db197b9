package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"salleYaFloor/internal/modules/reservations/application/port"
	"salleYaFloor/internal/modules/reservations/domain"
	schedule "salleYaFloor/internal/modules/schedule/domain"
	"salleYaFloor/internal/platform/metrics"
)

const defaultNotifyTimeout = 10 * time.Second

// LifecycleUseCase drives reservations through their legal status
// transitions and fires the customer notifications each transition owes.
// Store failures abort the operation without touching local state;
// notification failures are logged and never surface to the caller.
type LifecycleUseCase struct {
	store         port.ReservationStore
	notifier      port.Notifier
	floor         port.FloorView
	refresher     port.Refresher
	notifyTimeout time.Duration
}

func NewLifecycleUseCase(store port.ReservationStore, notifier port.Notifier, floor port.FloorView, refresher port.Refresher) *LifecycleUseCase {
	return &LifecycleUseCase{
		store:         store,
		notifier:      notifier,
		floor:         floor,
		refresher:     refresher,
		notifyTimeout: defaultNotifyTimeout,
	}
}

// Create registers a reservation. Web submissions enter at new; staff may
// enter directly at pending or, with tables already chosen, at assigned.
func (uc *LifecycleUseCase) Create(ctx context.Context, input port.NewReservation) (domain.Reservation, error) {
	if strings.TrimSpace(input.Name) == "" {
		return domain.Reservation{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Guests <= 0 {
		return domain.Reservation{}, fmt.Errorf("%w: guests must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Date) == "" {
		return domain.Reservation{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if _, err := schedule.ParseClock(input.Time); err != nil {
		return domain.Reservation{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	switch input.Status {
	case domain.StatusUnknown, domain.StatusNew, domain.StatusPending:
		if len(input.Tables) > 0 {
			return domain.Reservation{}, fmt.Errorf("%w: tables may only accompany creation at %s", ErrInvalidInput, domain.StatusAssigned)
		}
	case domain.StatusAssigned:
		// A reservation entered directly at assigned carries its table
		// binding from the very first row, so the selection is mandatory
		// and checked like any assignment.
		if err := validateTableSelection(input.Tables); err != nil {
			return domain.Reservation{}, err
		}
		slot := domain.Reservation{Date: input.Date, Time: input.Time}
		if err := checkTableAvailability(uc.floor, slot, input.Tables); err != nil {
			return domain.Reservation{}, err
		}
	default:
		return domain.Reservation{}, fmt.Errorf("%w: cannot create reservation at status %q", ErrInvalidInput, input.Status)
	}

	created, err := uc.store.Create(ctx, input)
	if err != nil {
		return domain.Reservation{}, err
	}
	uc.applyLocal(created)
	return created, nil
}

// Confirm moves a web reservation from new to pending and sends the
// confirmation email/SMS in the background.
func (uc *LifecycleUseCase) Confirm(ctx context.Context, id int) (domain.Reservation, error) {
	updated, err := uc.transition(ctx, id, domain.StatusPending)
	if err != nil {
		return domain.Reservation{}, err
	}
	uc.notify(updated, "confirmation", uc.notifier.SendConfirmation)
	return updated, nil
}

// Cancel moves the reservation to cancelled from any non-terminal status
// and sends the cancellation notice. The gateway stamps the cancellation
// timestamp as part of the same write.
func (uc *LifecycleUseCase) Cancel(ctx context.Context, id int) (domain.Reservation, error) {
	updated, err := uc.transition(ctx, id, domain.StatusCancelled)
	if err != nil {
		return domain.Reservation{}, err
	}
	uc.notify(updated, "cancellation", uc.notifier.SendCancellation)
	return updated, nil
}

// Arrive marks the guest as physically present; their tables flip from
// reserved to occupied on the next occupancy resolution.
func (uc *LifecycleUseCase) Arrive(ctx context.Context, id int) (domain.Reservation, error) {
	return uc.transition(ctx, id, domain.StatusArrived)
}

// Complete closes the visit and frees the tables for the rest of the
// (date, service) slot.
func (uc *LifecycleUseCase) Complete(ctx context.Context, id int) (domain.Reservation, error) {
	return uc.transition(ctx, id, domain.StatusCompleted)
}

// CorrectContact applies corrective edits to customer contact fields. This
// is the one mutation allowed on completed and cancelled reservations.
func (uc *LifecycleUseCase) CorrectContact(ctx context.Context, id int, update port.ContactUpdate) (domain.Reservation, error) {
	if update.Name == nil && update.Email == nil && update.Phone == nil {
		return domain.Reservation{}, fmt.Errorf("%w: no contact fields provided", ErrInvalidInput)
	}
	updated, err := uc.store.UpdateContact(ctx, id, update)
	if err != nil {
		return domain.Reservation{}, err
	}
	uc.applyLocal(updated)
	return updated, nil
}

func (uc *LifecycleUseCase) transition(ctx context.Context, id int, to domain.Status) (domain.Reservation, error) {
	current, err := uc.lookup(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !domain.CanTransition(current.Status, to) {
		return domain.Reservation{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, to)
	}
	updated, err := uc.store.UpdateStatus(ctx, id, to, nil, nil)
	if err != nil {
		return domain.Reservation{}, err
	}
	metrics.TransitionsTotal.WithLabelValues(string(to)).Inc()
	uc.applyLocal(updated)
	return updated, nil
}

func (uc *LifecycleUseCase) lookup(ctx context.Context, id int) (domain.Reservation, error) {
	if uc.floor != nil {
		if reservation, ok := uc.floor.Find(id); ok {
			return reservation, nil
		}
	}
	return uc.store.Get(ctx, id)
}

// applyLocal records the confirmed store state optimistically and schedules
// a reconciling refresh so every staff session converges on the
// authoritative view.
func (uc *LifecycleUseCase) applyLocal(reservation domain.Reservation) {
	if uc.floor != nil {
		uc.floor.Upsert(reservation)
	}
	if uc.refresher != nil {
		uc.refresher.RequestRefresh()
	}
}

// notify fires a best-effort notification in the background with a bounded
// timeout. Delivery failure must never roll back or block the transition
// that triggered it.
func (uc *LifecycleUseCase) notify(reservation domain.Reservation, kind string, send func(context.Context, domain.Reservation) error) {
	if uc.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), uc.notifyTimeout)
		defer cancel()
		if err := send(ctx, reservation); err != nil {
			metrics.NotificationFailuresTotal.WithLabelValues(kind).Inc()
			slog.Warn("notification send failed",
				slog.String("kind", kind),
				slog.Int("reservationId", reservation.ID),
				slog.Any("error", err),
			)
		}
	}()
}
