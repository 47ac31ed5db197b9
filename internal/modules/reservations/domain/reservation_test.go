package domain

import (
	"testing"

	schedule "salleYaFloor/internal/modules/schedule/domain"
)

func TestNormalizeReservation(t *testing.T) {
	raw := map[string]any{
		"id":             float64(41),
		"name":           " Marie Lefevre ",
		"email":          "marie@example.com",
		"phone":          "06 12 34 56 78",
		"date":           "2025-06-01",
		"time":           "12:30",
		"guests":         float64(4),
		"status":         "assigned",
		"table_assignee": float64(7),
		"comments":       "near the window [Tables: 7, 8]",
		"created_at":     "2025-05-20T10:15:00Z",
	}

	reservation, ok := NormalizeReservation(raw)
	if !ok {
		t.Fatal("expected reservation")
	}
	if reservation.ID != 41 || reservation.Name != "Marie Lefevre" {
		t.Fatalf("unexpected identity fields: %+v", reservation)
	}
	if reservation.Status != StatusAssigned {
		t.Fatalf("unexpected status %q", reservation.Status)
	}
	if reservation.TableAssignee == nil || *reservation.TableAssignee != 7 {
		t.Fatalf("unexpected table assignee: %v", reservation.TableAssignee)
	}
	if reservation.Service() != schedule.ServiceMidday {
		t.Fatalf("expected midday service, got %q", reservation.Service())
	}
	if reservation.Note() != "near the window" {
		t.Fatalf("unexpected note: %q", reservation.Note())
	}
	if reservation.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be parsed")
	}
}

func TestNormalizeReservationRejectsMissingID(t *testing.T) {
	if _, ok := NormalizeReservation(map[string]any{"name": "ghost"}); ok {
		t.Fatal("expected rejection for row without id")
	}
}

func TestNormalizeReservationList(t *testing.T) {
	rows := []any{
		map[string]any{"id": float64(1), "status": "new", "time": "19:00"},
		"not a row",
		map[string]any{"status": "pending"},
		map[string]any{"id": float64(2), "state": "pending", "time": "20:30"},
	}

	reservations := NormalizeReservationList(rows)
	if len(reservations) != 2 {
		t.Fatalf("expected 2 reservations, got %d", len(reservations))
	}
	if reservations[0].Status != StatusNew {
		t.Fatalf("unexpected status for first reservation: %q", reservations[0].Status)
	}
	if reservations[1].Status != StatusPending {
		t.Fatalf("unexpected status for second reservation: %q", reservations[1].Status)
	}
}
