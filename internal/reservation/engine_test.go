package reservation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movigo/show-booking/internal/model"
	"github.com/movigo/show-booking/internal/reservation"
)

// memShows is an in-memory show registry.
type memShows struct {
	mu    sync.Mutex
	shows map[uint64]model.Show
}

func newMemShows(shows ...model.Show) *memShows {
	m := &memShows{shows: make(map[uint64]model.Show)}
	for _, s := range shows {
		m.shows[s.ID] = s
	}
	return m
}

func (m *memShows) GetShow(ctx context.Context, showID uint64) (*model.Show, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shows[showID]
	if !ok {
		return nil, reservation.ErrShowNotFound
	}
	cp := s
	return &cp, nil
}

// memLedger is an in-memory booking ledger.  Insert deliberately does
// NOT re-check occupancy: the engine's per-show lock is what makes
// check-then-insert atomic, and these tests prove exactly that.
type memLedger struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]model.Booking
}

func newMemLedger() *memLedger {
	return &memLedger{nextID: 1, rows: make(map[uint64]model.Booking)}
}

func (m *memLedger) IsSeatBooked(ctx context.Context, showID uint64, seatNumber uint32) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.rows {
		if b.ShowID == showID && b.SeatNumber == seatNumber && b.Status == model.StatusBooked {
			return true, nil
		}
	}
	return false, nil
}

func (m *memLedger) Insert(ctx context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.nextID
	m.nextID++
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	m.rows[b.ID] = *b
	return nil
}

func (m *memLedger) GetByID(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[bookingID]
	if !ok {
		return nil, reservation.ErrBookingNotFound
	}
	cp := b
	return &cp, nil
}

func (m *memLedger) Cancel(ctx context.Context, bookingID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[bookingID]
	if !ok || b.Status != model.StatusBooked {
		return false, nil
	}
	b.Status = model.StatusCancelled
	b.UpdatedAt = time.Now().UTC()
	m.rows[bookingID] = b
	return true, nil
}

func (m *memLedger) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Booking, 0)
	// newest first: ids are monotonically increasing
	for id := m.nextID; id >= 1; id-- {
		if b, ok := m.rows[id]; ok && b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memLedger) BookedSeatNumbers(ctx context.Context, showID uint64) ([]uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]uint32, 0)
	for id := uint64(1); id < m.nextID; id++ {
		if b, ok := m.rows[id]; ok && b.ShowID == showID && b.Status == model.StatusBooked {
			out = append(out, b.SeatNumber)
		}
	}
	return out, nil
}

func (m *memLedger) CountBooked(ctx context.Context, showID uint64) (uint32, error) {
	seats, _ := m.BookedSeatNumbers(ctx, showID)
	return uint32(len(seats)), nil
}

// rowsWithStatus returns all rows for a show with the given status.
func (m *memLedger) rowsWithStatus(showID uint64, status model.BookingStatus) []model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, b := range m.rows {
		if b.ShowID == showID && b.Status == status {
			out = append(out, b)
		}
	}
	return out
}

// flakyLedger fails the first failN ledger operations with a transient
// error, then delegates to the wrapped ledger.
type flakyLedger struct {
	*memLedger
	mu    sync.Mutex
	failN int
	calls int
}

var errConnReset = errors.New("connection reset by peer")

func (f *flakyLedger) IsSeatBooked(ctx context.Context, showID uint64, seatNumber uint32) (bool, error) {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failN
	f.mu.Unlock()
	if fail {
		return false, errConnReset
	}
	return f.memLedger.IsSeatBooked(ctx, showID, seatNumber)
}

// countingLedger counts IsSeatBooked calls to observe retry behavior.
type countingLedger struct {
	*memLedger
	mu     sync.Mutex
	checks int
}

func (l *countingLedger) IsSeatBooked(ctx context.Context, showID uint64, seatNumber uint32) (bool, error) {
	l.mu.Lock()
	l.checks++
	l.mu.Unlock()
	return l.memLedger.IsSeatBooked(ctx, showID, seatNumber)
}

func newTestEngine(shows reservation.ShowStore, ledger reservation.BookingStore) *reservation.Engine {
	return reservation.NewEngine(shows, ledger, reservation.WithRetry(3, time.Millisecond))
}

func TestBookSuccess(t *testing.T) {
	ledger := newMemLedger()
	engine := newTestEngine(newMemShows(model.Show{ID: 1, TotalSeats: 10}), ledger)

	b, err := engine.Book(context.Background(), 1, 5, 42)
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Equal(t, model.StatusBooked, b.Status)
	assert.Equal(t, uint32(5), b.SeatNumber)

	taken, err := ledger.IsSeatBooked(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestBookShowNotFound(t *testing.T) {
	engine := newTestEngine(newMemShows(), newMemLedger())

	_, err := engine.Book(context.Background(), 99, 1, 42)
	assert.ErrorIs(t, err, reservation.ErrShowNotFound)
}

func TestBookSeatOutOfRange(t *testing.T) {
	ledger := newMemLedger()
	engine := newTestEngine(newMemShows(model.Show{ID: 1, TotalSeats: 10}), ledger)

	for _, seat := range []uint32{0, 11, 1000} {
		_, err := engine.Book(context.Background(), 1, seat, 42)
		assert.ErrorIs(t, err, reservation.ErrSeatOutOfRange, "seat %d", seat)
	}
	// No record of any kind was created.
	assert.Empty(t, ledger.rowsWithStatus(1, model.StatusBooked))
	assert.Empty(t, ledger.rowsWithStatus(1, model.StatusCancelled))
}

func TestBookSeatTaken(t *testing.T) {
	engine := newTestEngine(newMemShows(model.Show{ID: 1, TotalSeats: 10}), newMemLedger())

	_, err := engine.Book(context.Background(), 1, 3, 1)
	require.NoError(t, err)

	_, err = engine.Book(context.Background(), 1, 3, 2)
	assert.ErrorIs(t, err, reservation.ErrSeatTaken)
}

// TestCancelThenRebook walks the full seat lifecycle: show with two
// seats, A books seat 1, B is rejected, A cancels, B succeeds.
func TestCancelThenRebook(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	engine := newTestEngine(newMemShows(model.Show{ID: 7, TotalSeats: 2}), ledger)

	const userA, userB = 100, 200

	bookingA, err := engine.Book(ctx, 7, 1, userA)
	require.NoError(t, err)

	_, err = engine.Book(ctx, 7, 1, userB)
	require.ErrorIs(t, err, reservation.ErrSeatTaken)

	cancelled, err := engine.Cancel(ctx, bookingA.ID, userA)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	bookingB, err := engine.Book(ctx, 7, 1, userB)
	require.NoError(t, err)
	assert.NotEqual(t, bookingA.ID, bookingB.ID, "re-booking must create a new record")

	booked := ledger.rowsWithStatus(7, model.StatusBooked)
	require.Len(t, booked, 1)
	assert.Equal(t, uint64(userB), booked[0].UserID)

	historical := ledger.rowsWithStatus(7, model.StatusCancelled)
	require.Len(t, historical, 1)
	assert.Equal(t, uint64(userA), historical[0].UserID)

	avail, err := engine.Availability(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), avail.AvailableSeats)
	assert.Equal(t, []uint32{1}, avail.BookedSeatNumbers)
}

func TestCancelNotOwner(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	engine := newTestEngine(newMemShows(model.Show{ID: 1, TotalSeats: 5}), ledger)

	b, err := engine.Book(ctx, 1, 2, 100)
	require.NoError(t, err)

	_, err = engine.Cancel(ctx, b.ID, 999)
	assert.ErrorIs(t, err, reservation.ErrNotOwner)

	// Status untouched.
	got, err := ledger.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusBooked, got.Status)
}

func TestCancelAlreadyCancelled(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(newMemShows(model.Show{ID: 1, TotalSeats: 5}), newMemLedger())

	b, err := engine.Book(ctx, 1, 2, 100)
	require.NoError(t, err)

	_, err = engine.Cancel(ctx, b.ID, 100)
	require.NoError(t, err)

	_, err = engine.Cancel(ctx, b.ID, 100)
	assert.ErrorIs(t, err, reservation.ErrAlreadyCancelled)
}

func TestCancelNotFound(t *testing.T) {
	engine := newTestEngine(newMemShows(), newMemLedger())

	_, err := engine.Cancel(context.Background(), 12345, 1)
	assert.ErrorIs(t, err, reservation.ErrBookingNotFound)
}

// TestAvailabilityInvariant checks available + booked == total after a
// mix of bookings and cancellations.
func TestAvailabilityInvariant(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	engine := newTestEngine(newMemShows(model.Show{ID: 1, TotalSeats: 20}), ledger)

	var ids []uint64
	for seat := uint32(1); seat <= 8; seat++ {
		b, err := engine.Book(ctx, 1, seat, 50)
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}
	for _, id := range ids[:3] {
		_, err := engine.Cancel(ctx, id, 50)
		require.NoError(t, err)
	}

	avail, err := engine.Availability(ctx, 1)
	require.NoError(t, err)
	booked, err := ledger.CountBooked(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(20), avail.AvailableSeats+booked)
	assert.Equal(t, uint32(15), avail.AvailableSeats)
}

// TestConcurrentSameSeat races 50 goroutines for one seat: exactly one
// wins, everyone else observes the seat as taken, and the ledger holds
// exactly one BOOKED row.
func TestConcurrentSameSeat(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	engine := newTestEngine(newMemShows(model.Show{ID: 1, TotalSeats: 100}), ledger)

	const attempts = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			<-start
			_, err := engine.Book(ctx, 1, 42, userID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, reservation.ErrSeatTaken):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(uint64(i + 1))
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, ledger.rowsWithStatus(1, model.StatusBooked), 1)
}

// TestConcurrentDistinctSeats races goroutines for different seats of
// the same show; everyone must win despite the shared show lock.
func TestConcurrentDistinctSeats(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	engine := newTestEngine(newMemShows(model.Show{ID: 1, TotalSeats: 64}), ledger)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for seat := uint32(1); seat <= 64; seat++ {
		wg.Add(1)
		go func(seat uint32) {
			defer wg.Done()
			_, err := engine.Book(ctx, 1, seat, uint64(seat))
			errs <- err
		}(seat)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, ledger.rowsWithStatus(1, model.StatusBooked), 64)
}

// TestCrossShowParallelSeats books the same seat number on different
// shows concurrently; shows never serialize against each other, so both
// succeed.
func TestCrossShowParallelSeats(t *testing.T) {
	ctx := context.Background()
	shows := newMemShows(
		model.Show{ID: 1, TotalSeats: 10},
		model.Show{ID: 2, TotalSeats: 10},
	)
	engine := newTestEngine(shows, newMemLedger())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, showID := range []uint64{1, 2} {
		wg.Add(1)
		go func(i int, showID uint64) {
			defer wg.Done()
			_, errs[i] = engine.Book(ctx, showID, 4, uint64(i+1))
		}(i, showID)
	}
	wg.Wait()
	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
}

// TestBookRetriesTransientFault: the first two ledger reads fail with a
// connection error; the third attempt succeeds within the retry budget.
func TestBookRetriesTransientFault(t *testing.T) {
	flaky := &flakyLedger{memLedger: newMemLedger(), failN: 2}
	engine := newTestEngine(newMemShows(model.Show{ID: 1, TotalSeats: 10}), flaky)

	b, err := engine.Book(context.Background(), 1, 1, 42)
	require.NoError(t, err)
	assert.Equal(t, model.StatusBooked, b.Status)
}

// TestBookStorageUnavailable: a persistently failing ledger exhausts
// the retry budget and surfaces the stable storage failure, never the
// raw driver error.
func TestBookStorageUnavailable(t *testing.T) {
	flaky := &flakyLedger{memLedger: newMemLedger(), failN: 1 << 30}
	engine := newTestEngine(newMemShows(model.Show{ID: 1, TotalSeats: 10}), flaky)

	_, err := engine.Book(context.Background(), 1, 1, 42)
	assert.ErrorIs(t, err, reservation.ErrStorageUnavailable)
	assert.Equal(t, 3, flaky.calls, "retry budget is three attempts")
}

// TestConflictNotRetried: a logical seat conflict must fail on the
// first attempt, not burn the retry budget.
func TestConflictNotRetried(t *testing.T) {
	ctx := context.Background()
	counting := &countingLedger{memLedger: newMemLedger()}
	engine := newTestEngine(newMemShows(model.Show{ID: 1, TotalSeats: 10}), counting)

	_, err := engine.Book(ctx, 1, 1, 1)
	require.NoError(t, err)

	before := counting.checks
	_, err = engine.Book(ctx, 1, 1, 2)
	require.ErrorIs(t, err, reservation.ErrSeatTaken)
	assert.Equal(t, 1, counting.checks-before, "conflict must not be retried")
}

func TestUserBookingsNewestFirst(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(newMemShows(model.Show{ID: 1, TotalSeats: 10}), newMemLedger())

	first, err := engine.Book(ctx, 1, 1, 7)
	require.NoError(t, err)
	second, err := engine.Book(ctx, 1, 2, 7)
	require.NoError(t, err)

	list, err := engine.UserBookings(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}
