package domain

// Topics carried over the staff WebSocket channel. The reservations entity
// is the only stream; the created topic is kept distinct from routine
// updates so clients can ring the new-reservation alert.
const (
	EntityReservations = "reservations"

	TopicReservationsSnapshot = EntityReservations + ".snapshot"
	TopicReservationsCreated  = EntityReservations + ".created"
	TopicReservationsUpdated  = EntityReservations + ".updated"

	SystemEntity         = "system"
	TopicSystemConnected = SystemEntity + ".connected"
	TopicSystemPong      = SystemEntity + ".pong"
	TopicSystemError     = SystemEntity + ".error"

	ActionSnapshot  = "snapshot"
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionConnected = "connected"
	ActionPong      = "pong"
	ActionError     = "error"
)
