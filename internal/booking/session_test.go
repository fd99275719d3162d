package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	st := NewSessionStore()
	cal := newCalendar(t)

	s := st.Open("user-1", cal, 20)
	require.NotEmpty(t, s.ID)
	assert.Equal(t, "user-1", s.Owner)
	assert.Equal(t, 1, st.Len())

	got, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	assert.True(t, st.Discard(s.ID))
	assert.False(t, st.Discard(s.ID))
	_, err = st.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStore_DiscardLeavesCalendarUntouched(t *testing.T) {
	st := NewSessionStore()
	cal := newCalendar(t)
	s := st.Open("user-1", cal, 20)
	require.NoError(t, s.Selector.Toggle("S1"))

	st.Discard(s.ID)
	assert.Empty(t, cal.Unavailable([]string{"S1", "S2", "S3"}))
}

func TestSessionStore_Sweep(t *testing.T) {
	st := NewSessionStore()
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }
	cal := newCalendar(t)

	old := st.Open("a", cal, 20)
	now = now.Add(20 * time.Minute)
	fresh := st.Open("b", cal, 20)
	now = now.Add(15 * time.Minute)

	assert.Equal(t, 1, st.Sweep(30*time.Minute))
	_, err := st.Get(old.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = st.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestSessionStore_SweepKeepsActiveSessions(t *testing.T) {
	st := NewSessionStore()
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }
	cal := newCalendar(t)

	busy := st.Open("a", cal, 20)
	idle := st.Open("b", cal, 20)
	for i := 0; i < 4; i++ {
		now = now.Add(10 * time.Minute)
		_, err := st.Get(busy.ID)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, st.Sweep(30*time.Minute))
	_, err := st.Get(busy.ID)
	assert.NoError(t, err, "a session used within the TTL survives")
	_, err = st.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, now, busy.LastSeen)
	assert.True(t, busy.CreatedAt.Before(busy.LastSeen))
}
