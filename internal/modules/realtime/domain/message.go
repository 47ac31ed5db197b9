package domain

import "time"

// Message is the unit of fan-out between the store's change-notification
// channel and the staff WebSocket clients.
type Message struct {
	Topic      string            `json:"topic"`
	Entity     string            `json:"entity,omitempty"`
	Action     string            `json:"action,omitempty"`
	ResourceID string            `json:"resourceId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}
