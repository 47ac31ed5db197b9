package port

import (
	"context"

	"salleYaFloor/internal/modules/realtime/domain"
)

// PubSub is the contract for consuming change events from the store's
// notification channel. A consumer is bound to one topic at construction
// and blocks in Consume until its context is cancelled.
type PubSub interface {
	Consume(ctx context.Context, handler func(*domain.Message) error) error
}

// Broadcaster fans a message out to subscribed staff WebSocket clients.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// TopicHandler is implemented by handlers registered per broker topic.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, msg *domain.Message) error
}
