package usecase

import (
	"context"

	"salleYaFloor/internal/modules/realtime/application/port"
	"salleYaFloor/internal/modules/realtime/domain"
	"salleYaFloor/internal/platform/metrics"
)

type BroadcastUseCase struct {
	broadcaster port.Broadcaster
}

func NewBroadcastUseCase(b port.Broadcaster) *BroadcastUseCase {
	return &BroadcastUseCase{broadcaster: b}
}

func (uc *BroadcastUseCase) Execute(ctx context.Context, msg *domain.Message) {
	metrics.BroadcastsTotal.WithLabelValues(msg.Topic).Inc()
	uc.broadcaster.Broadcast(ctx, msg)
}
