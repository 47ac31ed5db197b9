package broker

import (
	"context"
	"log/slog"

	"salleYaFloor/internal/modules/realtime/application/port"
	"salleYaFloor/internal/modules/realtime/domain"
	"salleYaFloor/internal/modules/realtime/infrastructure"
)

// StartKafkaConsumers launches one consumer goroutine per topic, each
// dispatching into the handler registry. With no brokers configured the
// service runs on the polling fallback alone.
func StartKafkaConsumers(
	ctx context.Context,
	registry *infrastructure.HandlerRegistry,
	brokers []string,
	groupID string,
	topics []string,
) {
	if len(brokers) == 0 {
		slog.Warn("no kafka brokers configured, relying on polling fallback")
		return
	}
	for _, topic := range topics {
		go func(tp string) {
			var consumer port.PubSub = NewKafkaConsumer(brokers, groupID, tp)
			if err := consumer.Consume(ctx, func(msg *domain.Message) error {
				return registry.Dispatch(ctx, msg)
			}); err != nil && ctx.Err() == nil {
				slog.Error("kafka consumer stopped", slog.String("topic", tp), slog.Any("error", err))
			}
		}(topic)
	}
}
