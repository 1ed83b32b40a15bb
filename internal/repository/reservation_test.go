package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/repository/dao"
)

func TestReservationRepository_CreateAndHydrate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := f.user(t, "eva@example.com")
	a := f.bike(t, "A", 500, `29"`, `19"`)
	b := f.bike(t, "B", 750, `29"`, `19"`)
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	created, err := f.reservations.Create(ctx, domain.Reservation{
		CustomerID:  customer.ID,
		CreatedByID: customer.ID,
		FromDate:    from,
		ToDate:      from.AddDate(0, 0, 3),
		BikeIDs:     []uint{b.ID, a.ID},
		State:       domain.StateReservation,
		Price:       3750,
	})
	require.NoError(t, err)

	assert.Equal(t, []uint{a.ID, b.ID}, created.BikeIDs)
	require.Len(t, created.Bikes, 2)
	assert.Equal(t, "Kona A", created.Bikes[0].FullName())
	require.NotNil(t, created.Customer)
	assert.Equal(t, "eva@example.com", created.Customer.Email)
	assert.True(t, from.Equal(created.FromDate))
	assert.Equal(t, 3, created.Days())

	var rows int64
	require.NoError(t, f.db.Model(&dao.ReservationBike{}).Where("reservation_id = ?", created.ID).Count(&rows).Error)
	assert.EqualValues(t, 2, rows)
}

func TestReservationRepository_UpdateReplacesBikeSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := f.user(t, "eva@example.com")
	staff := f.user(t, "staff@example.com")
	a := f.bike(t, "A", 500, `29"`, `19"`)
	b := f.bike(t, "B", 750, `29"`, `19"`)
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	created, err := f.reservations.Create(ctx, domain.Reservation{
		CustomerID: customer.ID, CreatedByID: customer.ID,
		FromDate: from, ToDate: from.AddDate(0, 0, 1),
		BikeIDs: []uint{a.ID}, Price: 500,
	})
	require.NoError(t, err)

	created.BikeIDs = []uint{b.ID}
	created.CreatedByID = staff.ID
	created.State = domain.StateOngoing
	created.Price = 750

	updated, err := f.reservations.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, updated.BikeIDs)
	assert.Equal(t, staff.ID, updated.CreatedByID)
	assert.Equal(t, domain.StateOngoing, updated.State)

	created.ID = 999
	_, err = f.reservations.Update(ctx, created)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestReservationRepository_StateQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := f.user(t, "eva@example.com")
	a := f.bike(t, "A", 500, `29"`, `19"`)
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := f.reservations.Create(ctx, domain.Reservation{
			CustomerID: customer.ID, CreatedByID: customer.ID,
			FromDate: from.AddDate(0, 0, i), ToDate: from.AddDate(0, 0, i+1),
			BikeIDs: []uint{a.ID}, Price: 500,
		})
		require.NoError(t, err)
	}

	all, err := f.reservations.Find(ctx, ReservationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, r := range all {
		assert.Equal(t, []uint{a.ID}, r.BikeIDs)
	}

	require.NoError(t, f.reservations.UpdateState(ctx, all[0].ID, domain.StateOngoing))
	assert.ErrorIs(t, f.reservations.UpdateState(ctx, 999, domain.StateOngoing), ErrReservationNotFound)

	ongoing := domain.StateOngoing
	found, err := f.reservations.Find(ctx, ReservationFilter{State: &ongoing})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, all[0].ID, found[0].ID)

	counts, err := f.reservations.CountByState(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[domain.StateReservation])
	assert.EqualValues(t, 1, counts[domain.StateOngoing])

	mine, err := f.reservations.Find(ctx, ReservationFilter{CustomerID: &customer.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}
