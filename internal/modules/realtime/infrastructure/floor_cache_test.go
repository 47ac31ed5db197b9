package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reservations "salleYaFloor/internal/modules/reservations/domain"
	schedule "salleYaFloor/internal/modules/schedule/domain"
	tables "salleYaFloor/internal/modules/tables/domain"
)

func res(id int, status reservations.Status) reservations.Reservation {
	return reservations.Reservation{
		ID:     id,
		Name:   "Client",
		Date:   "2026-09-12",
		Time:   "20:00",
		Guests: 2,
		Status: status,
	}
}

func TestFloorCacheReplaceAllReportsNewArrivals(t *testing.T) {
	cache := NewFloorCache()

	fresh := cache.ReplaceAll([]reservations.Reservation{
		res(1, reservations.StatusNew),
		res(2, reservations.StatusPending),
	})
	if assert.Len(t, fresh, 1) {
		assert.Equal(t, 1, fresh[0].ID)
	}

	// Same set again: nothing is new anymore.
	fresh = cache.ReplaceAll([]reservations.Reservation{
		res(1, reservations.StatusNew),
		res(2, reservations.StatusPending),
	})
	assert.Empty(t, fresh)

	fresh = cache.ReplaceAll([]reservations.Reservation{
		res(1, reservations.StatusNew),
		res(2, reservations.StatusPending),
		res(5, reservations.StatusNew),
		res(3, reservations.StatusNew),
	})
	if assert.Len(t, fresh, 2) {
		assert.Equal(t, 3, fresh[0].ID)
		assert.Equal(t, 5, fresh[1].ID)
	}
}

func TestFloorCacheReplaceAllIgnoresKnownStatuses(t *testing.T) {
	cache := NewFloorCache()
	cache.ReplaceAll([]reservations.Reservation{res(1, reservations.StatusNew)})

	// A previously unseen reservation already past new does not alert.
	fresh := cache.ReplaceAll([]reservations.Reservation{
		res(1, reservations.StatusPending),
		res(2, reservations.StatusAssigned),
	})
	assert.Empty(t, fresh)
}

func TestFloorCacheReplaceAllRemovesStaleEntries(t *testing.T) {
	cache := NewFloorCache()
	cache.ReplaceAll([]reservations.Reservation{res(1, reservations.StatusNew), res(2, reservations.StatusNew)})

	cache.ReplaceAll([]reservations.Reservation{res(2, reservations.StatusPending)})
	assert.Equal(t, 1, cache.Len())

	_, ok := cache.Find(1)
	assert.False(t, ok)
}

func TestFloorCacheUpsertAndSnapshotOrder(t *testing.T) {
	cache := NewFloorCache()
	cache.Upsert(res(3, reservations.StatusNew))
	cache.Upsert(res(1, reservations.StatusPending))

	updated := res(3, reservations.StatusAssigned)
	cache.Upsert(updated)

	snapshot := cache.Snapshot()
	if assert.Len(t, snapshot, 2) {
		assert.Equal(t, 3, snapshot[0].ID)
		assert.Equal(t, reservations.StatusAssigned, snapshot[0].Status)
		assert.Equal(t, 1, snapshot[1].ID)
	}

	got, ok := cache.Find(3)
	assert.True(t, ok)
	assert.Equal(t, reservations.StatusAssigned, got.Status)
}

func TestFloorCacheFloorStateFollowsWrites(t *testing.T) {
	cache := NewFloorCache()

	assigned := res(1, reservations.StatusAssigned)
	table := 4
	assigned.TableAssignee = &table
	cache.Upsert(assigned)

	state := cache.FloorState("2026-09-12", schedule.ServiceEvening)
	require.Len(t, state, tables.TableCount)
	assert.Equal(t, tables.OccupancyReserved, state[3].Occupancy)

	// Memoized result is reused until the next write.
	again := cache.FloorState("2026-09-12", schedule.ServiceEvening)
	assert.Equal(t, tables.OccupancyReserved, again[3].Occupancy)

	arrived := assigned
	arrived.Status = reservations.StatusArrived
	cache.Upsert(arrived)

	state = cache.FloorState("2026-09-12", schedule.ServiceEvening)
	assert.Equal(t, tables.OccupancyOccupied, state[3].Occupancy)
	// Other slots stay untouched by the evening reservation.
	midday := cache.FloorState("2026-09-12", schedule.ServiceMidday)
	assert.Equal(t, tables.OccupancyFree, midday[3].Occupancy)
}

func TestFloorCacheSnapshotIsACopy(t *testing.T) {
	cache := NewFloorCache()
	cache.Upsert(res(1, reservations.StatusNew))

	snapshot := cache.Snapshot()
	snapshot[0].Status = reservations.StatusCancelled

	got, _ := cache.Find(1)
	assert.Equal(t, reservations.StatusNew, got.Status)
}
