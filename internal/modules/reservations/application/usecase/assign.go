package usecase

import (
	"context"
	"fmt"

	"salleYaFloor/internal/modules/reservations/application/port"
	"salleYaFloor/internal/modules/reservations/domain"
	tables "salleYaFloor/internal/modules/tables/domain"
	"salleYaFloor/internal/platform/metrics"
)

// AssignUseCase binds reservations to one or more tables. Availability is
// checked against the shared floor snapshot before the single atomic store
// write that sets status, primary table and the multi-table tag together,
// so a reassignment never opens a window where both old and new bindings
// coexist in the store.
type AssignUseCase struct {
	store     port.ReservationStore
	floor     port.FloorView
	refresher port.Refresher
}

func NewAssignUseCase(store port.ReservationStore, floor port.FloorView, refresher port.Refresher) *AssignUseCase {
	return &AssignUseCase{store: store, floor: floor, refresher: refresher}
}

// Assign validates and persists a table selection for the reservation.
// An arrived reservation keeps its arrived status; everything else lands on
// assigned. Tables held by the same reservation are exempt from the
// availability check when allowReassign is set.
func (uc *AssignUseCase) Assign(ctx context.Context, id int, tableNumbers []int, allowReassign bool) (domain.Reservation, error) {
	if err := validateTableSelection(tableNumbers); err != nil {
		return domain.Reservation{}, err
	}

	current, err := uc.lookup(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if current.Status.Active() && !allowReassign {
		return domain.Reservation{}, fmt.Errorf("%w: reservation already holds tables, reassignment not requested", ErrInvalidTransition)
	}
	if !domain.CanTransition(current.Status, domain.StatusAssigned) {
		return domain.Reservation{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, domain.StatusAssigned)
	}

	if err := checkTableAvailability(uc.floor, current, tableNumbers); err != nil {
		return domain.Reservation{}, err
	}

	// An arrived guest being moved stays arrived; the table binding is the
	// only thing that changes.
	target := domain.StatusAssigned
	if current.Status == domain.StatusArrived {
		target = domain.StatusArrived
	}

	primary := tableNumbers[0]
	updated, err := uc.store.UpdateStatus(ctx, id, target, &primary, tableNumbers)
	if err != nil {
		return domain.Reservation{}, err
	}
	metrics.TransitionsTotal.WithLabelValues(string(target)).Inc()

	if uc.floor != nil {
		uc.floor.Upsert(updated)
	}
	if uc.refresher != nil {
		uc.refresher.RequestRefresh()
	}
	return updated, nil
}

// validateTableSelection rejects empty selections, numbers that are not on
// the floor plan, and duplicates.
func validateTableSelection(tableNumbers []int) error {
	if len(tableNumbers) == 0 {
		return ErrEmptySelection
	}
	seen := make(map[int]struct{}, len(tableNumbers))
	for _, number := range tableNumbers {
		if _, ok := tables.LookupTable(number); !ok {
			return fmt.Errorf("%w: unknown table %d", ErrInvalidInput, number)
		}
		if _, dup := seen[number]; dup {
			return fmt.Errorf("%w: duplicate table %d", ErrInvalidInput, number)
		}
		seen[number] = struct{}{}
	}
	return nil
}

// checkTableAvailability rejects any requested table that is reserved or
// occupied for the reservation's (date, service) slot by another
// reservation. The store itself stays last-write-wins; this guard is the
// only double-booking defence and races between concurrent staff clients
// are resolved by the next authoritative refresh.
func checkTableAvailability(floor port.FloorView, reservation domain.Reservation, tableNumbers []int) error {
	if floor == nil {
		return nil
	}
	snapshot := floor.Snapshot()
	service := reservation.Service()
	for _, number := range tableNumbers {
		occupancy, holder := tables.ResolveOccupancy(number, reservation.Date, service, snapshot)
		if occupancy == tables.OccupancyFree {
			continue
		}
		if holder != nil && holder.ID == reservation.ID {
			continue
		}
		return fmt.Errorf("%w: table %d is %s", ErrTableUnavailable, number, occupancy)
	}
	return nil
}

func (uc *AssignUseCase) lookup(ctx context.Context, id int) (domain.Reservation, error) {
	if uc.floor != nil {
		if reservation, ok := uc.floor.Find(id); ok {
			return reservation, nil
		}
	}
	return uc.store.Get(ctx, id)
}
