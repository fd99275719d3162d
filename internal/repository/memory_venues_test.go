package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hustlehub34/Sporto-sub000/internal/model"
)

func TestMemoryVenues_SampleCatalogue(t *testing.T) {
	m, err := NewMemoryVenues(SampleVenues()...)
	require.NoError(t, err)

	v, err := m.GetVenue(context.Background(), "turf-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1200), v.PriceAt(10*60))
	assert.Equal(t, int64(1500), v.PriceAt(18*60))

	list, err := m.ListVenues(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.LessOrEqual(t, list[i-1].Name, list[i].Name)
	}
}

func TestMemoryVenues_NotFound(t *testing.T) {
	m, err := NewMemoryVenues()
	require.NoError(t, err)
	_, err = m.GetVenue(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestMemoryVenues_RejectsInvalid(t *testing.T) {
	for _, v := range []model.Venue{
		{},
		{ID: "x", OpensAt: 600, ClosesAt: 500},
		{ID: "x", OpensAt: 0, ClosesAt: 2000},
		{ID: "x", OpensAt: 0, ClosesAt: 600, BasePrice: -1},
		{ID: "x", OpensAt: 0, ClosesAt: 600, PriceBands: []model.PriceBand{{Start: 60, End: 60, Price: 1}}},
	} {
		_, err := NewMemoryVenues(v)
		assert.ErrorIs(t, err, ErrInvalidVenue)
	}
}
