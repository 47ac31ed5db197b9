package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salleYaFloor/internal/modules/reservations/application/port"
	"salleYaFloor/internal/modules/reservations/domain"
	schedule "salleYaFloor/internal/modules/schedule/domain"
	tables "salleYaFloor/internal/modules/tables/domain"
)

// fakeStore is an in-memory ReservationStore mirroring the remote store's
// last-write-wins row semantics, including the gateway-side tag append.
type fakeStore struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]domain.Reservation
	fail   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, rows: make(map[int]domain.Reservation)}
}

func (s *fakeStore) Create(_ context.Context, input port.NewReservation) (domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return domain.Reservation{}, s.fail
	}
	status := input.Status
	if status == domain.StatusUnknown {
		status = domain.StatusNew
	}
	reservation := domain.Reservation{
		ID:        s.nextID,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Date:      input.Date,
		Time:      input.Time,
		Guests:    input.Guests,
		Status:    status,
		Comments:  input.Comments,
		CreatedAt: time.Now().UTC(),
	}
	if len(input.Tables) > 0 {
		primary := input.Tables[0]
		reservation.TableAssignee = &primary
		reservation.Comments = domain.AppendTableTag(input.Comments, input.Tables)
	}
	s.rows[reservation.ID] = reservation
	s.nextID++
	return reservation, nil
}

func (s *fakeStore) Get(_ context.Context, id int) (domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return domain.Reservation{}, s.fail
	}
	reservation, ok := s.rows[id]
	if !ok {
		return domain.Reservation{}, port.ErrReservationNotFound
	}
	return reservation, nil
}

func (s *fakeStore) ListByStatus(_ context.Context, status domain.Status) ([]domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []domain.Reservation
	for _, reservation := range s.rows {
		if reservation.Status == status {
			result = append(result, reservation)
		}
	}
	return result, nil
}

func (s *fakeStore) ListAll(_ context.Context) ([]domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	result := make([]domain.Reservation, 0, len(s.rows))
	for id := 1; id < s.nextID; id++ {
		if reservation, ok := s.rows[id]; ok {
			result = append(result, reservation)
		}
	}
	return result, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id int, status domain.Status, primaryTable *int, allTables []int) (domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return domain.Reservation{}, s.fail
	}
	reservation, ok := s.rows[id]
	if !ok {
		return domain.Reservation{}, port.ErrReservationNotFound
	}
	reservation.Status = status
	if primaryTable != nil {
		primary := *primaryTable
		reservation.TableAssignee = &primary
		reservation.Comments = domain.AppendTableTag(reservation.Comments, allTables)
	} else if !status.Active() {
		reservation.TableAssignee = nil
		reservation.Comments = domain.StripTableTag(reservation.Comments)
	}
	if status == domain.StatusCancelled {
		now := time.Now().UTC()
		reservation.CancelledAt = &now
	}
	s.rows[id] = reservation
	return reservation, nil
}

func (s *fakeStore) UpdateContact(_ context.Context, id int, update port.ContactUpdate) (domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reservation, ok := s.rows[id]
	if !ok {
		return domain.Reservation{}, port.ErrReservationNotFound
	}
	if update.Name != nil {
		reservation.Name = *update.Name
	}
	if update.Email != nil {
		reservation.Email = *update.Email
	}
	if update.Phone != nil {
		reservation.Phone = *update.Phone
	}
	s.rows[id] = reservation
	return reservation, nil
}

type fakeNotifier struct {
	mu            sync.Mutex
	confirmations []int
	cancellations []int
	err           error
	done          chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{done: make(chan struct{}, 8)}
}

func (n *fakeNotifier) SendConfirmation(_ context.Context, r domain.Reservation) error {
	n.mu.Lock()
	n.confirmations = append(n.confirmations, r.ID)
	n.mu.Unlock()
	n.done <- struct{}{}
	return n.err
}

func (n *fakeNotifier) SendCancellation(_ context.Context, r domain.Reservation) error {
	n.mu.Lock()
	n.cancellations = append(n.cancellations, r.ID)
	n.mu.Unlock()
	n.done <- struct{}{}
	return n.err
}

func (n *fakeNotifier) wait(t *testing.T) {
	t.Helper()
	select {
	case <-n.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
	}
}

// fakeFloor mirrors the listener-maintained cache: a plain map guarded by a
// mutex, refresh requests counted.
type fakeFloor struct {
	mu       sync.Mutex
	rows     map[int]domain.Reservation
	refreshs int
}

func newFakeFloor() *fakeFloor {
	return &fakeFloor{rows: make(map[int]domain.Reservation)}
}

func (f *fakeFloor) Snapshot() []domain.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.Reservation, 0, len(f.rows))
	for id := 0; id < 1000; id++ {
		if reservation, ok := f.rows[id]; ok {
			result = append(result, reservation)
		}
	}
	return result
}

func (f *fakeFloor) Find(id int) (domain.Reservation, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reservation, ok := f.rows[id]
	return reservation, ok
}

func (f *fakeFloor) Upsert(reservation domain.Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[reservation.ID] = reservation
}

func (f *fakeFloor) RequestRefresh() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshs++
}

func newHarness() (*fakeStore, *fakeNotifier, *fakeFloor, *LifecycleUseCase, *AssignUseCase) {
	store := newFakeStore()
	notifier := newFakeNotifier()
	floor := newFakeFloor()
	lifecycle := NewLifecycleUseCase(store, notifier, floor, floor)
	assign := NewAssignUseCase(store, floor, floor)
	return store, notifier, floor, lifecycle, assign
}

func TestAssignEmptySelection(t *testing.T) {
	_, _, floor, lifecycle, assign := newHarness()

	created, err := lifecycle.Create(context.Background(), port.NewReservation{
		Name: "Durand", Date: "2025-06-01", Time: "19:00", Guests: 2, Status: domain.StatusPending,
	})
	require.NoError(t, err)

	_, err = assign.Assign(context.Background(), created.ID, nil, false)
	require.ErrorIs(t, err, ErrEmptySelection)

	// the stored status must be untouched
	stored, ok := floor.Find(created.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestAssignTableUnavailable(t *testing.T) {
	_, _, _, lifecycle, assign := newHarness()

	first, err := lifecycle.Create(context.Background(), port.NewReservation{
		Name: "Durand", Date: "2025-06-01", Time: "19:00", Guests: 2, Status: domain.StatusPending,
	})
	require.NoError(t, err)
	_, err = assign.Assign(context.Background(), first.ID, []int{12}, false)
	require.NoError(t, err)

	second, err := lifecycle.Create(context.Background(), port.NewReservation{
		Name: "Morel", Date: "2025-06-01", Time: "20:00", Guests: 2, Status: domain.StatusPending,
	})
	require.NoError(t, err)

	_, err = assign.Assign(context.Background(), second.ID, []int{12}, false)
	require.ErrorIs(t, err, ErrTableUnavailable)
}

func TestAssignSameServiceOtherDateIsFree(t *testing.T) {
	_, _, _, lifecycle, assign := newHarness()

	first, err := lifecycle.Create(context.Background(), port.NewReservation{
		Name: "Durand", Date: "2025-06-01", Time: "19:00", Guests: 2, Status: domain.StatusPending,
	})
	require.NoError(t, err)
	_, err = assign.Assign(context.Background(), first.ID, []int{12}, false)
	require.NoError(t, err)

	second, err := lifecycle.Create(context.Background(), port.NewReservation{
		Name: "Morel", Date: "2025-06-02", Time: "19:00", Guests: 2, Status: domain.StatusPending,
	})
	require.NoError(t, err)
	_, err = assign.Assign(context.Background(), second.ID, []int{12}, false)
	assert.NoError(t, err)
}

func TestAssignMultiTableEncodesTagAndKeepsNote(t *testing.T) {
	_, _, floor, lifecycle, assign := newHarness()

	created, err := lifecycle.Create(context.Background(), port.NewReservation{
		Name: "Garnier", Date: "2025-06-01", Time: "19:30", Guests: 6,
		Status: domain.StatusPending, Comments: "birthday, bring candles",
	})
	require.NoError(t, err)

	updated, err := assign.Assign(context.Background(), created.ID, []int{5, 6, 7}, false)
	require.NoError(t, err)

	require.NotNil(t, updated.TableAssignee)
	assert.Equal(t, 5, *updated.TableAssignee)
	assert.Equal(t, []int{5, 6, 7}, domain.ParseTableTag(updated.Comments))
	assert.Equal(t, "birthday, bring candles", updated.Note())
	assert.Equal(t, []int{5, 6, 7}, updated.AssignedTables())

	// every table in the set now resolves against the shared floor view
	for _, table := range []int{5, 6, 7} {
		occupancy, holder := tables.ResolveOccupancy(table, "2025-06-01", schedule.ServiceEvening, floor.Snapshot())
		assert.Equal(t, tables.OccupancyReserved, occupancy)
		require.NotNil(t, holder)
		assert.Equal(t, created.ID, holder.ID)
	}
}

func TestReassignReleasesOldTables(t *testing.T) {
	_, _, floor, lifecycle, assign := newHarness()

	created, err := lifecycle.Create(context.Background(), port.NewReservation{
		Name: "Petit", Date: "2025-06-01", Time: "20:00", Guests: 4, Status: domain.StatusPending,
	})
	require.NoError(t, err)
	_, err = assign.Assign(context.Background(), created.ID, []int{3, 4}, false)
	require.NoError(t, err)

	// moving to a fresh pair must succeed and free the old pair atomically
	updated, err := assign.Assign(context.Background(), created.ID, []int{10, 11}, true)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11}, updated.AssignedTables())

	occupancy, _ := tables.ResolveOccupancy(3, "2025-06-01", schedule.ServiceEvening, floor.Snapshot())
	assert.Equal(t, tables.OccupancyFree, occupancy)
}

func TestReassignRequiresExplicitFlag(t *testing.T) {
	_, _, _, lifecycle, assign := newHarness()

	created, err := lifecycle.Create(context.Background(), port.NewReservation{
		Name: "Petit", Date: "2025-06-01", Time: "20:00", Guests: 2, Status: domain.StatusPending,
	})
	require.NoError(t, err)
	_, err = assign.Assign(context.Background(), created.ID, []int{3}, false)
	require.NoError(t, err)

	_, err = assign.Assign(context.Background(), created.ID, []int{4}, false)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAssignPreservesArrivedStatus(t *testing.T) {
	_, _, _, lifecycle, assign := newHarness()

	created, err := lifecycle.Create(context.Background(), port.NewReservation{
		Name: "Roux", Date: "2025-06-01", Time: "12:30", Guests: 2, Status: domain.StatusPending,
	})
	require.NoError(t, err)
	_, err = assign.Assign(context.Background(), created.ID, []int{8}, false)
	require.NoError(t, err)
	_, err = lifecycle.Arrive(context.Background(), created.ID)
	require.NoError(t, err)

	updated, err := assign.Assign(context.Background(), created.ID, []int{9}, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusArrived, updated.Status)
}

func TestConfirmFiresNotificationAndFailureDoesNotBlock(t *testing.T) {
	_, notifier, _, lifecycle, _ := newHarness()
	notifier.err = errors.New("smtp relay down")

	created, err := lifecycle.Create(context.Background(), port.NewReservation{
		Name: "Blanc", Email: "blanc@example.com", Date: "2025-06-01", Time: "19:00", Guests: 2,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusNew, created.Status)

	confirmed, err := lifecycle.Confirm(context.Background(), created.ID)
	require.NoError(t, err, "notification failure must not roll back the transition")
	assert.Equal(t, domain.StatusPending, confirmed.Status)

	notifier.wait(t)
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Equal(t, []int{created.ID}, notifier.confirmations)
}

func TestCancelStampsTimestampAndNotifies(t *testing.T) {
	_, notifier, _, lifecycle, _ := newHarness()

	created, err := lifecycle.Create(context.Background(), port.NewReservation{
		Name: "Blanc", Date: "2025-06-01", Time: "19:00", Guests: 2,
	})
	require.NoError(t, err)

	cancelled, err := lifecycle.Cancel(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	notifier.wait(t)
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Equal(t, []int{created.ID}, notifier.cancellations)
}

func TestCancelReleasesTablesAndKeepsNote(t *testing.T) {
	_, notifier, floor, lifecycle, assign := newHarness()
	ctx := context.Background()

	created, err := lifecycle.Create(ctx, port.NewReservation{
		Name: "Garnier", Date: "2025-06-01", Time: "19:30", Guests: 6,
		Status: domain.StatusPending, Comments: "birthday, bring candles",
	})
	require.NoError(t, err)
	_, err = assign.Assign(ctx, created.ID, []int{5, 6, 7}, false)
	require.NoError(t, err)

	cancelled, err := lifecycle.Cancel(ctx, created.ID)
	require.NoError(t, err)
	notifier.wait(t)

	assert.Nil(t, cancelled.TableAssignee)
	assert.Empty(t, domain.ParseTableTag(cancelled.Comments))
	assert.Equal(t, "birthday, bring candles", cancelled.Note())

	for _, table := range []int{5, 6, 7} {
		occupancy, _ := tables.ResolveOccupancy(table, "2025-06-01", schedule.ServiceEvening, floor.Snapshot())
		assert.Equal(t, tables.OccupancyFree, occupancy)
	}
}

func TestStoreFailureLeavesLocalStateIntact(t *testing.T) {
	store, _, floor, lifecycle, _ := newHarness()

	created, err := lifecycle.Create(context.Background(), port.NewReservation{
		Name: "Blanc", Date: "2025-06-01", Time: "19:00", Guests: 2,
	})
	require.NoError(t, err)

	store.mu.Lock()
	store.fail = fmt.Errorf("%w: gateway timeout", port.ErrStoreUnavailable)
	store.mu.Unlock()

	_, err = lifecycle.Confirm(context.Background(), created.ID)
	require.ErrorIs(t, err, port.ErrStoreUnavailable)

	local, ok := floor.Find(created.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StatusNew, local.Status, "optimistic view must not claim an unconfirmed transition")
}

func TestInvalidTransitionsRejected(t *testing.T) {
	_, _, _, lifecycle, assign := newHarness()

	created, err := lifecycle.Create(context.Background(), port.NewReservation{
		Name: "Blanc", Date: "2025-06-01", Time: "19:00", Guests: 2,
	})
	require.NoError(t, err)

	// new cannot skip to arrived or be assigned before confirmation
	_, err = lifecycle.Arrive(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = assign.Assign(context.Background(), created.ID, []int{1}, false)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = lifecycle.Complete(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// Full walk of the reservation lifecycle: new -> pending -> assigned ->
// arrived -> completed, with occupancy flipping at each step.
func TestLifecycleEndToEnd(t *testing.T) {
	_, notifier, floor, lifecycle, assign := newHarness()
	ctx := context.Background()

	created, err := lifecycle.Create(ctx, port.NewReservation{
		Name: "Fabre", Email: "fabre@example.com", Phone: "+33 6 12 34 56 78",
		Date: "2025-06-01", Time: "19:00", Guests: 2,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusNew, created.Status)

	confirmed, err := lifecycle.Confirm(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, confirmed.Status)
	notifier.wait(t)

	assigned, err := assign.Assign(ctx, created.ID, []int{12}, false)
	require.NoError(t, err)
	require.Equal(t, domain.StatusAssigned, assigned.Status)
	require.NotNil(t, assigned.TableAssignee)
	require.Equal(t, 12, *assigned.TableAssignee)

	occupancy, _ := tables.ResolveOccupancy(12, "2025-06-01", schedule.ServiceEvening, floor.Snapshot())
	require.Equal(t, tables.OccupancyReserved, occupancy)

	arrived, err := lifecycle.Arrive(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusArrived, arrived.Status)
	occupancy, _ = tables.ResolveOccupancy(12, "2025-06-01", schedule.ServiceEvening, floor.Snapshot())
	require.Equal(t, tables.OccupancyOccupied, occupancy)

	completed, err := lifecycle.Complete(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, completed.Status)
	require.Nil(t, completed.TableAssignee, "leaving the active states releases the table binding")
	occupancy, _ = tables.ResolveOccupancy(12, "2025-06-01", schedule.ServiceEvening, floor.Snapshot())
	require.Equal(t, tables.OccupancyFree, occupancy, "completion frees the table for the rest of the service")
}

func TestCreateValidation(t *testing.T) {
	_, _, _, lifecycle, _ := newHarness()
	ctx := context.Background()

	cases := []struct {
		name  string
		input port.NewReservation
	}{
		{name: "missing name", input: port.NewReservation{Date: "2025-06-01", Time: "19:00", Guests: 2}},
		{name: "zero guests", input: port.NewReservation{Name: "X", Date: "2025-06-01", Time: "19:00"}},
		{name: "missing date", input: port.NewReservation{Name: "X", Time: "19:00", Guests: 2}},
		{name: "bad time", input: port.NewReservation{Name: "X", Date: "2025-06-01", Time: "25:00", Guests: 2}},
		{name: "create at arrived", input: port.NewReservation{Name: "X", Date: "2025-06-01", Time: "19:00", Guests: 2, Status: domain.StatusArrived}},
		{name: "tables on pending creation", input: port.NewReservation{Name: "X", Date: "2025-06-01", Time: "19:00", Guests: 2, Status: domain.StatusPending, Tables: []int{5}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := lifecycle.Create(ctx, tc.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateDirectlyAssigned(t *testing.T) {
	_, _, floor, lifecycle, _ := newHarness()
	ctx := context.Background()

	created, err := lifecycle.Create(ctx, port.NewReservation{
		Name: "Moreau", Date: "2025-06-01", Time: "20:00", Guests: 4,
		Status: domain.StatusAssigned, Comments: "window seat", Tables: []int{5, 6},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, created.Status)
	require.NotNil(t, created.TableAssignee)
	assert.Equal(t, 5, *created.TableAssignee)
	assert.Equal(t, []int{5, 6}, created.AssignedTables())

	occupancy, holder := tables.ResolveOccupancy(6, "2025-06-01", schedule.ServiceEvening, floor.Snapshot())
	require.Equal(t, tables.OccupancyReserved, occupancy)
	require.NotNil(t, holder)
	assert.Equal(t, created.ID, holder.ID)
}

func TestCreateDirectlyAssignedRequiresTables(t *testing.T) {
	_, _, _, lifecycle, _ := newHarness()

	_, err := lifecycle.Create(context.Background(), port.NewReservation{
		Name: "Moreau", Date: "2025-06-01", Time: "20:00", Guests: 4,
		Status: domain.StatusAssigned,
	})
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestCreateDirectlyAssignedChecksAvailability(t *testing.T) {
	_, _, _, lifecycle, assign := newHarness()
	ctx := context.Background()

	first, err := lifecycle.Create(ctx, port.NewReservation{
		Name: "Petit", Date: "2025-06-01", Time: "20:00", Guests: 2, Status: domain.StatusPending,
	})
	require.NoError(t, err)
	_, err = assign.Assign(ctx, first.ID, []int{5}, false)
	require.NoError(t, err)

	_, err = lifecycle.Create(ctx, port.NewReservation{
		Name: "Roux", Date: "2025-06-01", Time: "20:30", Guests: 2,
		Status: domain.StatusAssigned, Tables: []int{5},
	})
	assert.ErrorIs(t, err, ErrTableUnavailable)
}

func TestCorrectContactAllowedOnTerminal(t *testing.T) {
	_, _, _, lifecycle, _ := newHarness()
	ctx := context.Background()

	created, err := lifecycle.Create(ctx, port.NewReservation{
		Name: "Fabre", Date: "2025-06-01", Time: "19:00", Guests: 2,
	})
	require.NoError(t, err)
	_, err = lifecycle.Cancel(ctx, created.ID)
	require.NoError(t, err)

	email := "corrected@example.com"
	updated, err := lifecycle.CorrectContact(ctx, created.ID, port.ContactUpdate{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)
	assert.Equal(t, domain.StatusCancelled, updated.Status)
}
