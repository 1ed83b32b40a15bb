package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCart(t *testing.T, e *env) (*CartService, *memorySession) {
	t.Helper()

	sess := newMemorySession()
	cart := NewCartService(sess, e.catalog())
	cart.now = func() time.Time { return time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC) }

	return cart, sess
}

func TestCartService_AddIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cart, _ := newCart(t, e)
	b := e.bike(t, "Stumpjumper", 500)

	require.NoError(t, cart.Add(ctx, b.ID))
	require.NoError(t, cart.Add(ctx, b.ID))

	assert.Equal(t, []uint{b.ID}, cart.BikeIDs())
	assert.Equal(t, 500, cart.Price())
}

func TestCartService_AddUnknownBike(t *testing.T) {
	e := newEnv(t)
	cart, _ := newCart(t, e)

	err := cart.Add(context.Background(), 404)
	assert.ErrorIs(t, err, ErrBikeNotFound)
	assert.True(t, cart.IsEmpty())
}

func TestCartService_PriceIsPerDay(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cart, _ := newCart(t, e)
	b1 := e.bike(t, "Enduro", 500)
	b2 := e.bike(t, "Levo", 750)

	require.NoError(t, cart.Add(ctx, b1.ID))
	require.NoError(t, cart.Add(ctx, b2.ID))
	from, to := date("2024-05-10"), date("2024-05-13")
	require.NoError(t, cart.SetDateRange(&from, &to))

	assert.Equal(t, 1250, cart.Price())
	assert.Equal(t, []uint{b1.ID, b2.ID}, cart.BikeIDs())
}

func TestCartService_RemoveAbsentBike(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cart, _ := newCart(t, e)
	b := e.bike(t, "Enduro", 500)

	require.NoError(t, cart.Add(ctx, b.ID))
	require.NoError(t, cart.Remove(b.ID+100))
	require.NoError(t, cart.Remove(b.ID))

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.Price())
}

func TestCartService_ContentSkipsDeletedBikes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cart, _ := newCart(t, e)
	b1 := e.bike(t, "Enduro", 500)
	b2 := e.bike(t, "Levo", 750)

	require.NoError(t, cart.Add(ctx, b1.ID))
	require.NoError(t, cart.Add(ctx, b2.ID))
	require.NoError(t, e.bikes.Delete(ctx, b2.ID))

	bikes, err := cart.Content(ctx)
	require.NoError(t, err)
	require.Len(t, bikes, 1)
	assert.Equal(t, b1.ID, bikes[0].ID)
}

func TestCartService_DateRange(t *testing.T) {
	e := newEnv(t)
	cart, sess := newCart(t, e)

	assert.Equal(t, DateRange{From: "2024-05-10", To: "2024-05-11"}, cart.DateRange())

	require.NoError(t, cart.SetDateRange(nil, nil))
	assert.Equal(t, 0, sess.saves)

	from, to := date("2024-06-01"), date("2024-06-04")
	require.NoError(t, cart.SetDateRange(&from, &to))
	assert.Equal(t, DateRange{From: "2024-06-01", To: "2024-06-04"}, cart.DateRange())

	gotFrom, gotTo, err := cart.DateRange().Dates()
	require.NoError(t, err)
	assert.Equal(t, from, gotFrom)
	assert.Equal(t, to, gotTo)
}

func TestCartService_ClearKeepsDates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cart, _ := newCart(t, e)
	b := e.bike(t, "Enduro", 500)

	require.NoError(t, cart.Add(ctx, b.ID))
	from, to := date("2024-06-01"), date("2024-06-04")
	require.NoError(t, cart.SetDateRange(&from, &to))
	require.NoError(t, cart.Clear())

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, "2024-06-01", cart.DateRange().From)
}

func TestCartService_CorruptSessionIsEmpty(t *testing.T) {
	e := newEnv(t)
	cart, sess := newCart(t, e)
	sess.Set(cartSessionKey, "{not json")

	assert.True(t, cart.IsEmpty())
	assert.Empty(t, cart.BikeIDs())
}
