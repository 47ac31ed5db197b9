package domain

import (
	"time"

	schedule "salleYaFloor/internal/modules/schedule/domain"
	"salleYaFloor/internal/shared/normalization"
)

// Reservation is the canonical reservation shape used everywhere inside the
// service. Store rows are converted into it exactly once, at the gateway
// boundary; no other reservation shape exists in the codebase.
type Reservation struct {
	ID            int
	Name          string
	Email         string
	Phone         string
	Date          string // calendar date, YYYY-MM-DD
	Time          string // HH:MM, service window derived from it
	Guests        int
	Status        Status
	TableAssignee *int
	Comments      string
	CreatedAt     time.Time
	CancelledAt   *time.Time
}

// Service derives the reservation's service window from its time. The
// window is never stored; it is recomputed wherever partitioning matters.
func (r Reservation) Service() schedule.Service {
	return schedule.ClassifyService(r.Time)
}

// Note returns the staff note text with any table tag stripped out.
func (r Reservation) Note() string {
	return StripTableTag(r.Comments)
}

// NormalizeReservation constructs a Reservation from a loosely typed store
// row. Rows without a positive id are rejected.
func NormalizeReservation(raw map[string]any) (Reservation, bool) {
	id := normalization.AsInt(raw["id"])
	if id <= 0 {
		return Reservation{}, false
	}

	reservation := Reservation{
		ID:       id,
		Name:     normalization.AsString(raw["name"]),
		Email:    normalization.AsString(raw["email"]),
		Phone:    normalization.AsString(raw["phone"]),
		Date:     normalization.AsString(raw["date"]),
		Time:     normalization.AsString(raw["time"]),
		Guests:   normalization.AsInt(raw["guests"]),
		Comments: normalization.AsString(raw["comments"]),
	}

	status := NormalizeStatus(raw["status"])
	if status == StatusUnknown {
		status = NormalizeStatus(raw["state"])
	}
	reservation.Status = status

	if number := normalization.AsInt(raw["table_assignee"]); number > 0 {
		reservation.TableAssignee = &number
	}
	if created, ok := normalization.AsTime(raw["created_at"]); ok {
		reservation.CreatedAt = created
	}
	if cancelled, ok := normalization.AsTime(raw["cancelled_at"]); ok {
		reservation.CancelledAt = &cancelled
	}

	return reservation, true
}

// NormalizeReservationList projects a slice of loosely typed rows into
// canonical reservations, dropping rows that fail normalization.
func NormalizeReservationList(rows []any) []Reservation {
	reservations := make([]Reservation, 0, len(rows))
	for _, row := range rows {
		rawMap, ok := row.(map[string]any)
		if !ok {
			continue
		}
		if reservation, ok := NormalizeReservation(rawMap); ok {
			reservations = append(reservations, reservation)
		}
	}
	return reservations
}
