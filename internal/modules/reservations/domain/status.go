package domain

import "strings"

// Status represents the lifecycle state of a reservation as stored by the
// remote reservation store.
type Status string

const (
	StatusUnknown   Status = ""
	StatusNew       Status = "new"
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusArrived   Status = "arrived"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var allowedStatuses = map[string]Status{
	string(StatusNew):       StatusNew,
	string(StatusPending):   StatusPending,
	string(StatusAssigned):  StatusAssigned,
	string(StatusArrived):   StatusArrived,
	string(StatusCompleted): StatusCompleted,
	string(StatusCancelled): StatusCancelled,
}

// Known reports whether the status is one of the canonical lifecycle
// values. NormalizeStatus passes unrecognised store values through, so
// anything taking a status from a caller validates with this first.
func (s Status) Known() bool {
	_, ok := allowedStatuses[string(s)]
	return ok
}

// NormalizeStatus returns the canonical Status for the given input.
// Unknown statuses are lowercased and returned as-is to avoid data loss.
func NormalizeStatus(value any) Status {
	s, ok := value.(string)
	if !ok {
		return StatusUnknown
	}
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return StatusUnknown
	}
	if status, ok := allowedStatuses[trimmed]; ok {
		return status
	}
	return Status(trimmed)
}

// transitions is the legal-move table of the lifecycle. A reservation only
// ever changes status through one of these edges; the self-edge on assigned
// and the arrived→assigned edge cover table reassignment.
var transitions = map[Status]map[Status]struct{}{
	StatusNew: {
		StatusPending:   {},
		StatusCancelled: {},
	},
	StatusPending: {
		StatusAssigned:  {},
		StatusCancelled: {},
	},
	StatusAssigned: {
		StatusAssigned:  {},
		StatusArrived:   {},
		StatusCancelled: {},
	},
	StatusArrived: {
		StatusArrived:   {},
		StatusAssigned:  {},
		StatusCompleted: {},
		StatusCancelled: {},
	},
}

// CanTransition reports whether moving a reservation from one status to
// another is a legal lifecycle edge. Completed and cancelled are terminal.
func CanTransition(from, to Status) bool {
	edges, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = edges[to]
	return ok
}

// Active reports whether the status still binds tables for its service:
// only assigned and arrived reservations count toward occupancy.
func (s Status) Active() bool {
	return s == StatusAssigned || s == StatusArrived
}

// Terminal reports whether the status accepts no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
