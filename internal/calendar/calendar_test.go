package calendar

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hustlehub34/Sporto-sub000/internal/model"
)

var testDate = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

func slot(id string, start, end int, price int64) model.TimeSlot {
	return model.TimeSlot{ID: id, Interval: model.Interval{Start: start, End: end}, Price: price}
}

func newTestCalendar(t *testing.T) *Calendar {
	t.Helper()
	c, err := NewCalendar("turf-1", testDate, []model.TimeSlot{
		slot("s1", 18*60, 19*60, 1200),
		slot("s2", 19*60, 20*60, 1200),
		slot("s3", 20*60, 21*60, 1500),
	})
	require.NoError(t, err)
	return c
}

func TestNewCalendar_DefaultsAndOrder(t *testing.T) {
	c, err := NewCalendar("turf-1", testDate.Add(15*time.Hour), []model.TimeSlot{
		slot("late", 600, 660, 100),
		slot("early", 60, 120, 100),
	})
	require.NoError(t, err)

	slots := c.ListSlots()
	require.Len(t, slots, 2)
	assert.Equal(t, "early", slots[0].ID)
	assert.Equal(t, "late", slots[1].ID)
	for _, s := range slots {
		assert.Equal(t, model.SlotOpen, s.State)
		assert.Equal(t, "turf-1", s.VenueID)
		assert.True(t, s.Date.Equal(testDate))
	}
	assert.True(t, c.Date().Equal(testDate))
}

func TestNewCalendar_RejectsBrokenInput(t *testing.T) {
	res := &model.Reservation{CustomerName: "Asha", BookingReference: "b1"}
	cases := map[string][]model.TimeSlot{
		"empty interval":  {slot("a", 60, 60, 1)},
		"past midnight":   {slot("a", 1400, 1500, 1)},
		"negative price":  {slot("a", 60, 120, -1)},
		"duplicate id":    {slot("a", 60, 120, 1), slot("a", 120, 180, 1)},
		"overlap":         {slot("a", 60, 120, 1), slot("b", 90, 150, 1)},
		"other venue":     {{ID: "a", VenueID: "turf-9", Interval: model.Interval{Start: 60, End: 120}}},
		"unknown state":   {{ID: "a", Interval: model.Interval{Start: 60, End: 120}, State: "HELD"}},
		"reserved no res": {{ID: "a", Interval: model.Interval{Start: 60, End: 120}, State: model.SlotReserved}},
		"open with res":   {{ID: "a", Interval: model.Interval{Start: 60, End: 120}, Reservation: res}},
		"missing id":      {slot("", 60, 120, 1)},
		"other date":      {{ID: "a", Date: testDate.AddDate(0, 0, 1), Interval: model.Interval{Start: 60, End: 120}}},
	}
	for name, slots := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewCalendar("turf-1", testDate, slots)
			assert.ErrorIs(t, err, ErrInvalidSlot)
		})
	}

	_, err := NewCalendar("", testDate, nil)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestNewCalendar_AdjacentSlotsDoNotOverlap(t *testing.T) {
	_, err := NewCalendar("turf-1", testDate, []model.TimeSlot{
		slot("a", 60, 120, 1),
		slot("b", 120, 180, 1),
	})
	assert.NoError(t, err)
}

func TestCalendar_SnapshotsAreCopies(t *testing.T) {
	c := newTestCalendar(t)
	_, err := c.Reserve("s1", model.Reservation{CustomerName: "Asha", BookingReference: "b1"})
	require.NoError(t, err)

	snap := c.ListSlots()
	snap[0].State = model.SlotClosed
	snap[0].Reservation.CustomerName = "Mallory"

	got, err := c.GetSlot("s1")
	require.NoError(t, err)
	assert.Equal(t, model.SlotReserved, got.State)
	assert.Equal(t, "Asha", got.Reservation.CustomerName)
}

func TestCalendar_GetSlot_NotFound(t *testing.T) {
	c := newTestCalendar(t)
	_, err := c.GetSlot("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCalendar_ListSlotsFor(t *testing.T) {
	c := newTestCalendar(t)
	slots, err := c.ListSlotsFor("turf-1", testDate.Add(9*time.Hour))
	require.NoError(t, err)
	assert.Len(t, slots, 3)

	_, err = c.ListSlotsFor("turf-2", testDate)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.ListSlotsFor("turf-1", testDate.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCalendar_ReserveAndRelease(t *testing.T) {
	c := newTestCalendar(t)
	res := model.Reservation{CustomerName: "Asha", BookingReference: "b1"}

	got, err := c.Reserve("s1", res)
	require.NoError(t, err)
	assert.Equal(t, model.SlotReserved, got.State)
	require.NotNil(t, got.Reservation)
	assert.Equal(t, res, *got.Reservation)

	_, err = c.Reserve("s1", res)
	assert.ErrorIs(t, err, ErrConflictingState)

	got, err = c.Release("s1")
	require.NoError(t, err)
	assert.Equal(t, model.SlotOpen, got.State)
	assert.Nil(t, got.Reservation)

	_, err = c.Release("s1")
	assert.ErrorIs(t, err, ErrConflictingState)
}

func TestCalendar_CloseAndReopen(t *testing.T) {
	c := newTestCalendar(t)

	got, err := c.Close("s2")
	require.NoError(t, err)
	assert.Equal(t, model.SlotClosed, got.State)

	_, err = c.Reserve("s2", model.Reservation{CustomerName: "Asha", BookingReference: "b1"})
	assert.ErrorIs(t, err, ErrConflictingState)

	got, err = c.Reopen("s2")
	require.NoError(t, err)
	assert.Equal(t, model.SlotOpen, got.State)

	_, err = c.Reopen("s2")
	assert.ErrorIs(t, err, ErrConflictingState)
}

func TestCalendar_CloseReservedIsRejected(t *testing.T) {
	c := newTestCalendar(t)
	_, err := c.Reserve("s1", model.Reservation{CustomerName: "Asha", BookingReference: "b1"})
	require.NoError(t, err)

	_, err = c.Close("s1")
	assert.ErrorIs(t, err, ErrConflictingState)

	got, err := c.GetSlot("s1")
	require.NoError(t, err)
	assert.Equal(t, model.SlotReserved, got.State)
	assert.NotNil(t, got.Reservation)
}

func TestCalendar_CompareAndSwap_IllegalEdges(t *testing.T) {
	c := newTestCalendar(t)
	res := &model.Reservation{CustomerName: "Asha", BookingReference: "b1"}

	_, err := c.CompareAndSwap("s1", model.SlotReserved, model.SlotClosed, nil)
	assert.ErrorIs(t, err, ErrConflictingState)
	_, err = c.CompareAndSwap("s1", model.SlotClosed, model.SlotReserved, res)
	assert.ErrorIs(t, err, ErrConflictingState)
	_, err = c.CompareAndSwap("s1", model.SlotOpen, model.SlotOpen, nil)
	assert.ErrorIs(t, err, ErrConflictingState)
	_, err = c.CompareAndSwap("s1", model.SlotOpen, model.SlotReserved, nil)
	assert.ErrorIs(t, err, ErrInvalidSlot)
	_, err = c.CompareAndSwap("ghost", model.SlotOpen, model.SlotClosed, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := c.GetSlot("s1")
	require.NoError(t, err)
	assert.Equal(t, model.SlotOpen, got.State)
}

func TestCalendar_ForceClose(t *testing.T) {
	c := newTestCalendar(t)
	res := model.Reservation{CustomerName: "Asha", BookingReference: "b1"}
	_, err := c.Reserve("s1", res)
	require.NoError(t, err)

	got, cancelled, err := c.ForceClose("s1")
	require.NoError(t, err)
	assert.Equal(t, model.SlotClosed, got.State)
	assert.Nil(t, got.Reservation)
	require.NotNil(t, cancelled)
	assert.Equal(t, res, *cancelled)

	got, cancelled, err = c.ForceClose("s2")
	require.NoError(t, err)
	assert.Equal(t, model.SlotClosed, got.State)
	assert.Nil(t, cancelled)

	_, _, err = c.ForceClose("s2")
	assert.ErrorIs(t, err, ErrConflictingState)
	_, _, err = c.ForceClose("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCalendar_Counts(t *testing.T) {
	c := newTestCalendar(t)
	_, _ = c.Reserve("s1", model.Reservation{CustomerName: "Asha", BookingReference: "b1"})
	_, _ = c.Close("s2")
	assert.Equal(t, Counts{Open: 1, Reserved: 1, Closed: 1}, c.Counts())
}

func TestCalendar_ReserveAll_AllOrNothing(t *testing.T) {
	c := newTestCalendar(t)
	_, err := c.Close("s2")
	require.NoError(t, err)

	res := model.Reservation{CustomerName: "Asha", BookingReference: "b1"}
	_, err = c.ReserveAll([]string{"s1", "s2", "ghost"}, res)

	var stale *StaleSlotsError
	require.True(t, errors.As(err, &stale))
	assert.Equal(t, []string{"s2", "ghost"}, stale.SlotIDs)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	got, err := c.GetSlot("s1")
	require.NoError(t, err)
	assert.Equal(t, model.SlotOpen, got.State, "s1 must stay OPEN after an aborted batch")
}

func TestCalendar_ReserveAll_Success(t *testing.T) {
	c := newTestCalendar(t)
	res := model.Reservation{CustomerName: "Asha", BookingReference: "b1"}

	slots, err := c.ReserveAll([]string{"s3", "s1", "s3"}, res)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "s3", slots[0].ID)
	assert.Equal(t, "s1", slots[1].ID)
	for _, s := range slots {
		assert.Equal(t, model.SlotReserved, s.State)
		assert.Equal(t, "b1", s.Reservation.BookingReference)
	}
	assert.Equal(t, Counts{Open: 1, Reserved: 2}, c.Counts())
}

func TestCalendar_Unavailable(t *testing.T) {
	c := newTestCalendar(t)
	_, _ = c.Close("s3")
	assert.Empty(t, c.Unavailable([]string{"s1", "s2"}))
	assert.Equal(t, []string{"s3", "x"}, c.Unavailable([]string{"s1", "s3", "x"}))
}

func TestCalendar_ConcurrentReserveHasOneWinner(t *testing.T) {
	c := newTestCalendar(t)
	const n = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.Reserve("s1", model.Reservation{CustomerName: "c", BookingReference: string(rune('a' + i%26))})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrConflictingState)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestStaleSlotsError_Message(t *testing.T) {
	err := &StaleSlotsError{SlotIDs: []string{"a", "b"}}
	assert.Equal(t, "slots no longer available: a, b", err.Error())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.NotErrorIs(t, err, ErrConflictingState)
}

func TestCalendar_ReservationPresentExactlyWhenReserved(t *testing.T) {
	c := newTestCalendar(t)
	rng := rand.New(rand.NewSource(7))
	ids := []string{"s1", "s2", "s3", "ghost"}
	res := model.Reservation{CustomerName: "Asha", BookingReference: "b1"}
	for i := 0; i < 2000; i++ {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(6) {
		case 0:
			_, _ = c.Reserve(id, res)
		case 1:
			_, _ = c.Release(id)
		case 2:
			_, _ = c.Close(id)
		case 3:
			_, _ = c.Reopen(id)
		case 4:
			_, _, _ = c.ForceClose(id)
		case 5:
			_, _ = c.ReserveAll([]string{id, ids[rng.Intn(3)]}, res)
		}
		for _, s := range c.ListSlots() {
			require.Equal(t, s.State == model.SlotReserved, s.Reservation != nil, "slot %s in %s", s.ID, s.State)
		}
	}
}
