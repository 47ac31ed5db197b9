package handler

import (
	"context"

	"salleYaFloor/internal/modules/realtime/application/usecase"
	"salleYaFloor/internal/modules/realtime/domain"
	resport "salleYaFloor/internal/modules/reservations/application/port"
)

// ReservationStreamHandler reacts to reservation change events coming off
// the broker. The event itself is passed through to connected clients for
// immediacy, but state is never trusted from the event payload: every event
// also schedules an authoritative re-fetch from the store.
type ReservationStreamHandler struct {
	topic     string
	refresher resport.Refresher
	broadcast *usecase.BroadcastUseCase
}

func NewReservationStreamHandler(topic string, refresher resport.Refresher, broadcast *usecase.BroadcastUseCase) *ReservationStreamHandler {
	return &ReservationStreamHandler{topic: topic, refresher: refresher, broadcast: broadcast}
}

func (h *ReservationStreamHandler) Topic() string {
	return h.topic
}

func (h *ReservationStreamHandler) Handle(ctx context.Context, msg *domain.Message) error {
	h.broadcast.Execute(ctx, msg)
	h.refresher.RequestRefresh()
	return nil
}

// StreamTopics lists the broker topics the reservation stream subscribes
// to. Deletions arrive as cancellations in practice but the topic is kept
// registered for completeness.
func StreamTopics() []string {
	return []string{
		domain.TopicReservationsCreated,
		domain.TopicReservationsUpdated,
		domain.EntityReservations + "." + domain.ActionDeleted,
	}
}
