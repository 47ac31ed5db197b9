package infrastructure

import (
	"context"

	"salleYaFloor/internal/modules/realtime/application/port"
	"salleYaFloor/internal/modules/realtime/domain"
)

// HandlerRegistry routes broker messages to the handler registered for
// their topic. Registration happens at startup only; Dispatch may run
// concurrently afterwards.
type HandlerRegistry struct {
	handlers map[string]port.TopicHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]port.TopicHandler)}
}

func (r *HandlerRegistry) Register(h port.TopicHandler) {
	r.handlers[h.Topic()] = h
}

func (r *HandlerRegistry) Topics() []string {
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	return topics
}

func (r *HandlerRegistry) Dispatch(ctx context.Context, msg *domain.Message) error {
	if handler, ok := r.handlers[msg.Topic]; ok {
		return handler.Handle(ctx, msg)
	}
	return nil
}
