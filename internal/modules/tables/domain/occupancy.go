package domain

import (
	"log/slog"

	reservations "salleYaFloor/internal/modules/reservations/domain"
	schedule "salleYaFloor/internal/modules/schedule/domain"
)

// Occupancy is the derived availability of a table for one (date, service)
// slot. It is computed from the reservation set on every query and never
// persisted anywhere.
type Occupancy string

const (
	OccupancyFree     Occupancy = "free"
	OccupancyReserved Occupancy = "reserved"
	OccupancyOccupied Occupancy = "occupied"
)

// TableStatus pairs a table with its derived occupancy and, when bound,
// the reservation that holds it.
type TableStatus struct {
	Table       Table
	Occupancy   Occupancy
	Reservation *reservations.Reservation
}

// ResolveOccupancy derives the state of a single table for the given date
// and service. Only assigned and arrived reservations bind tables; an
// arrived reservation reports the table occupied, an assigned one reserved.
// Should several reservations claim the same table the first match in list
// order wins and the inconsistency is logged for manual review.
func ResolveOccupancy(table int, date string, service schedule.Service, all []reservations.Reservation) (Occupancy, *reservations.Reservation) {
	var holder *reservations.Reservation
	matches := 0
	for i := range all {
		r := &all[i]
		if !r.Status.Active() {
			continue
		}
		if r.Date != date || r.Service() != service {
			continue
		}
		if !r.OccupiesTable(table) {
			continue
		}
		matches++
		if holder == nil {
			holder = r
		}
	}
	if holder == nil {
		return OccupancyFree, nil
	}
	if matches > 1 {
		slog.Warn("table occupancy inconsistency: multiple reservations match",
			slog.Int("table", table),
			slog.String("date", date),
			slog.String("service", string(service)),
			slog.Int("matches", matches),
			slog.Int("keptReservationId", holder.ID),
		)
	}
	if holder.Status == reservations.StatusArrived {
		return OccupancyOccupied, holder
	}
	return OccupancyReserved, holder
}

// FloorState derives the occupancy of every table in the layout for the
// given (date, service) slot.
func FloorState(date string, service schedule.Service, all []reservations.Reservation) []TableStatus {
	layout := Layout()
	statuses := make([]TableStatus, 0, len(layout))
	for _, table := range layout {
		occupancy, holder := ResolveOccupancy(table.Number, date, service, all)
		statuses = append(statuses, TableStatus{
			Table:       table,
			Occupancy:   occupancy,
			Reservation: holder,
		})
	}
	return statuses
}

// AvailableTables returns the numbers of the tables that are free for the
// given (date, service) slot, in layout order.
func AvailableTables(date string, service schedule.Service, all []reservations.Reservation) []int {
	available := make([]int, 0, TableCount)
	for _, status := range FloorState(date, service, all) {
		if status.Occupancy == OccupancyFree {
			available = append(available, status.Table.Number)
		}
	}
	return available
}
