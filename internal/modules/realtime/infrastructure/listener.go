package infrastructure

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"salleYaFloor/internal/modules/realtime/application/usecase"
	"salleYaFloor/internal/modules/realtime/domain"
	resport "salleYaFloor/internal/modules/reservations/application/port"
	"salleYaFloor/internal/platform/metrics"
)

const defaultPollInterval = 20 * time.Second

// Listener keeps the floor cache in sync with the remote store and pushes
// the resulting state to staff clients. Change events from the broker and
// the polling fallback both funnel into the same Refresh path, so a refresh
// is always a full authoritative re-fetch and applying it twice is harmless.
type Listener struct {
	store        resport.ReservationStore
	cache        *FloorCache
	broadcast    *usecase.BroadcastUseCase
	pollInterval time.Duration
	requests     chan struct{}
	logger       *slog.Logger
}

func NewListener(store resport.ReservationStore, cache *FloorCache, broadcast *usecase.BroadcastUseCase, pollInterval time.Duration, logger *slog.Logger) *Listener {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		store:        store,
		cache:        cache,
		broadcast:    broadcast,
		pollInterval: pollInterval,
		requests:     make(chan struct{}, 1),
		logger:       logger,
	}
}

// RequestRefresh schedules an authoritative re-fetch. Requests arriving
// while one is already pending coalesce into it; the call never blocks.
func (l *Listener) RequestRefresh() {
	select {
	case l.requests <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is cancelled, serving coalesced refresh requests and
// falling back to polling when no change event arrives for a full interval.
func (l *Listener) Run(ctx context.Context) {
	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	if err := l.Refresh(ctx, "startup"); err != nil {
		l.logger.Error("initial reservation fetch failed", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.requests:
			ticker.Reset(l.pollInterval)
			if err := l.Refresh(ctx, "request"); err != nil {
				l.logger.Error("reservation refresh failed", slog.String("error", err.Error()))
			}
		case <-ticker.C:
			if err := l.Refresh(ctx, "poll"); err != nil {
				l.logger.Error("reservation poll failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Refresh re-fetches the full reservation set, swaps the cache, and
// broadcasts the new snapshot. Reservations seen for the first time in
// status new additionally get a created alert.
func (l *Listener) Refresh(ctx context.Context, trigger string) error {
	all, err := l.store.ListAll(ctx)
	if err != nil {
		return err
	}
	fresh := l.cache.ReplaceAll(all)
	metrics.FloorRefreshesTotal.WithLabelValues(trigger).Inc()

	now := time.Now().UTC()
	l.broadcast.Execute(ctx, &domain.Message{
		Topic:     domain.TopicReservationsSnapshot,
		Entity:    domain.EntityReservations,
		Action:    domain.ActionSnapshot,
		Data:      all,
		Timestamp: now,
	})
	for _, r := range fresh {
		l.broadcast.Execute(ctx, &domain.Message{
			Topic:      domain.TopicReservationsCreated,
			Entity:     domain.EntityReservations,
			Action:     domain.ActionCreated,
			ResourceID: strconv.Itoa(r.ID),
			Data:       r,
			Timestamp:  now,
		})
	}
	return nil
}
