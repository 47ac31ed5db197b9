package infrastructure

import (
	"sort"
	"sync"

	reservations "salleYaFloor/internal/modules/reservations/domain"
	schedule "salleYaFloor/internal/modules/schedule/domain"
	tables "salleYaFloor/internal/modules/tables/domain"
)

type floorKey struct {
	date    string
	service schedule.Service
}

// FloorCache is the shared in-memory reservation set every read path serves
// from. The live update listener replaces it wholesale on each authoritative
// refresh; lifecycle use cases apply optimistic local edits through Upsert
// that the next refresh overwrites either way. Derived floor states are
// memoized per (date, service) until the next write.
type FloorCache struct {
	mu    sync.RWMutex
	byID  map[int]reservations.Reservation
	order []int
	memo  map[floorKey][]tables.TableStatus
}

func NewFloorCache() *FloorCache {
	return &FloorCache{
		byID: make(map[int]reservations.Reservation),
		memo: make(map[floorKey][]tables.TableStatus),
	}
}

// Snapshot returns a copy of the cached set in insertion order. Callers own
// the returned slice.
func (c *FloorCache) Snapshot() []reservations.Reservation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *FloorCache) snapshotLocked() []reservations.Reservation {
	out := make([]reservations.Reservation, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// FloorState derives the occupancy of every table for the given slot,
// serving the memoized result when no write happened since it was computed.
func (c *FloorCache) FloorState(date string, service schedule.Service) []tables.TableStatus {
	key := floorKey{date: date, service: service}

	c.mu.RLock()
	state, ok := c.memo[key]
	c.mu.RUnlock()
	if ok {
		return state
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if state, ok := c.memo[key]; ok {
		return state
	}
	state = tables.FloorState(date, service, c.snapshotLocked())
	c.memo[key] = state
	return state
}

func (c *FloorCache) Find(id int) (reservations.Reservation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.byID[id]
	return r, ok
}

// Upsert inserts or replaces a single reservation.
func (c *FloorCache) Upsert(r reservations.Reservation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[r.ID]; !ok {
		c.order = append(c.order, r.ID)
	}
	c.byID[r.ID] = r
	c.memo = make(map[floorKey][]tables.TableStatus)
}

// ReplaceAll swaps the cached set for the authoritative one and returns
// the reservations that were not cached before and arrived in status new,
// sorted by id. Those are the ones worth an audible alert on the floor.
func (c *FloorCache) ReplaceAll(all []reservations.Reservation) []reservations.Reservation {
	c.mu.Lock()
	defer c.mu.Unlock()

	var fresh []reservations.Reservation
	byID := make(map[int]reservations.Reservation, len(all))
	order := make([]int, 0, len(all))
	for _, r := range all {
		if _, dup := byID[r.ID]; dup {
			continue
		}
		if _, known := c.byID[r.ID]; !known && r.Status == reservations.StatusNew {
			fresh = append(fresh, r)
		}
		byID[r.ID] = r
		order = append(order, r.ID)
	}
	c.byID = byID
	c.order = order
	c.memo = make(map[floorKey][]tables.TableStatus)

	sort.Slice(fresh, func(i, j int) bool { return fresh[i].ID < fresh[j].ID })
	return fresh
}

// Len reports the number of cached reservations.
func (c *FloorCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}
