package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Service identifies one of the two daily seating periods. Every reservation
// belongs to exactly one service, derived from its time, never stored.
type Service string

const (
	ServiceMidday  Service = "midday"
	ServiceEvening Service = "evening"
)

// middayCutoffMinutes is the single canonical boundary between the two
// services: times up to and including 16:00 belong to the midday service.
const middayCutoffMinutes = 16 * 60

// ParseClock parses an HH:MM clock value into minutes since midnight.
func ParseClock(hhmm string) (int, error) {
	trimmed := strings.TrimSpace(hhmm)
	parts := strings.SplitN(trimmed, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", hhmm)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", hhmm)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", hhmm)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock value out of range %q", hhmm)
	}
	return hours*60 + minutes, nil
}

// ClassifyService maps an HH:MM time to its service window. The mapping is
// total: unparseable values fall into the evening service so callers always
// get a usable partition key.
func ClassifyService(hhmm string) Service {
	minutes, err := ParseClock(hhmm)
	if err != nil {
		return ServiceEvening
	}
	return classifyMinutes(minutes)
}

func classifyMinutes(minutes int) Service {
	if minutes <= middayCutoffMinutes {
		return ServiceMidday
	}
	return ServiceEvening
}

// NormalizeService returns the canonical Service for arbitrary input,
// defaulting to evening for anything unrecognised.
func NormalizeService(value string) Service {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(ServiceMidday), "lunch", "noon":
		return ServiceMidday
	default:
		return ServiceEvening
	}
}

// Booking slot bands offered to staff when entering a reservation by hand.
// Classification never depends on these; they only gate data entry.
const (
	middayFirstSlot  = 12 * 60
	middayLastSlot   = 13*60 + 45
	eveningFirstSlot = 19 * 60
	eveningLastSlot  = 21*60 + 45
	slotStepMinutes  = 15
)

// Slots returns the bookable HH:MM slots for the given service in
// 15-minute increments.
func Slots(service Service) []string {
	first, last := eveningFirstSlot, eveningLastSlot
	if service == ServiceMidday {
		first, last = middayFirstSlot, middayLastSlot
	}
	slots := make([]string, 0, (last-first)/slotStepMinutes+1)
	for m := first; m <= last; m += slotStepMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}

// ValidSlot reports whether the HH:MM value lands on a bookable slot of its
// own service.
func ValidSlot(hhmm string) bool {
	minutes, err := ParseClock(hhmm)
	if err != nil {
		return false
	}
	first, last := eveningFirstSlot, eveningLastSlot
	if classifyMinutes(minutes) == ServiceMidday {
		first, last = middayFirstSlot, middayLastSlot
	}
	if minutes < first || minutes > last {
		return false
	}
	return (minutes-first)%slotStepMinutes == 0
}
