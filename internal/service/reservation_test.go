package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/repository"
)

func newReservationService(e *env, rule domain.DelayRule) (*ReservationService, *recordingNotifier, *countingMetrics) {
	n := &recordingNotifier{}
	m := &countingMetrics{}

	return NewReservationService(e.reservations, e.bikes, e.users, n, m, rule), n, m
}

func TestReservationService_CreateComputesPrice(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s, _, _ := newReservationService(e, nil)
	admin := e.user(t, "admin@example.com", domain.RoleAdmin, domain.UserStateActivated)
	customer := e.user(t, "eva@example.com", domain.RoleCustomer, domain.UserStateActivated)
	b1 := e.bike(t, "Enduro", 500)
	b2 := e.bike(t, "Levo", 750)

	res, err := s.Create(ctx, ReservationInput{
		CustomerID:  customer.ID,
		CreatedByID: admin.ID,
		FromDate:    time.Date(2024, 5, 10, 18, 30, 0, 0, time.UTC),
		ToDate:      date("2024-05-13"),
		BikeIDs:     []uint{b2.ID, b1.ID, b2.ID},
		State:       domain.StateReservation,
	})
	require.NoError(t, err)

	assert.Equal(t, 3750, res.Price)
	assert.Equal(t, []uint{b1.ID, b2.ID}, res.BikeIDs)
	assert.Equal(t, date("2024-05-10"), res.FromDate)

	stored, err := s.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 3750, stored.Price)
	assert.Equal(t, customer.ID, stored.CustomerID)
	assert.Equal(t, admin.ID, stored.CreatedByID)
}

func TestReservationService_CreateRejectsInvalidInput(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s, _, _ := newReservationService(e, nil)
	customer := e.user(t, "eva@example.com", domain.RoleCustomer, domain.UserStateActivated)
	b := e.bike(t, "Enduro", 500)

	base := ReservationInput{
		CustomerID:  customer.ID,
		CreatedByID: customer.ID,
		FromDate:    date("2024-05-10"),
		ToDate:      date("2024-05-11"),
		BikeIDs:     []uint{b.ID},
	}

	in := base
	in.BikeIDs = nil
	_, err := s.Create(ctx, in)
	assert.ErrorIs(t, err, ErrEmptyBikeSet)

	in = base
	in.ToDate = in.FromDate
	_, err = s.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	in = base
	in.BikeIDs = []uint{b.ID, b.ID + 50}
	_, err = s.Create(ctx, in)
	assert.ErrorIs(t, err, ErrBikeNotFound)

	in = base
	in.CustomerID = customer.ID + 50
	_, err = s.Create(ctx, in)
	assert.ErrorIs(t, err, ErrUserNotFound)

	in = base
	in.State = domain.ReservationState(4)
	_, err = s.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestReservationService_UpdateRecomputesPrice(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s, _, _ := newReservationService(e, nil)
	customer := e.user(t, "eva@example.com", domain.RoleCustomer, domain.UserStateActivated)
	b1 := e.bike(t, "Enduro", 500)
	b2 := e.bike(t, "Levo", 750)

	res, err := s.Create(ctx, ReservationInput{
		CustomerID:  customer.ID,
		CreatedByID: customer.ID,
		FromDate:    date("2024-05-10"),
		ToDate:      date("2024-05-11"),
		BikeIDs:     []uint{b1.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 500, res.Price)

	updated, err := s.Update(ctx, res.ID, ReservationInput{
		CustomerID:  customer.ID,
		CreatedByID: customer.ID,
		FromDate:    date("2024-05-10"),
		ToDate:      date("2024-05-12"),
		BikeIDs:     []uint{b2.ID},
		State:       domain.StateOngoing,
	})
	require.NoError(t, err)
	assert.Equal(t, 1500, updated.Price)
	assert.Equal(t, []uint{b2.ID}, updated.BikeIDs)
	assert.Equal(t, domain.StateOngoing, updated.State)
}

func TestReservationService_ChangeState(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s, _, _ := newReservationService(e, nil)
	customer := e.user(t, "eva@example.com", domain.RoleCustomer, domain.UserStateActivated)
	b := e.bike(t, "Enduro", 500)

	res, err := s.Create(ctx, ReservationInput{
		CustomerID:  customer.ID,
		CreatedByID: customer.ID,
		FromDate:    date("2024-05-10"),
		ToDate:      date("2024-05-11"),
		BikeIDs:     []uint{b.ID},
	})
	require.NoError(t, err)

	changed, err := s.ChangeState(ctx, res.ID, "2")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.ChangeState(ctx, res.ID, "4")
	require.NoError(t, err)
	assert.False(t, changed)

	stored, err := s.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateOngoing, stored.State)

	for _, value := range []string{"7", "-1", "ongoing", ""} {
		_, err = s.ChangeState(ctx, res.ID, value)
		assert.ErrorIs(t, err, ErrInvalidState, value)
	}

	_, err = s.ChangeState(ctx, res.ID+10, "1")
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestReservationService_CheckoutGuest(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s, n, m := newReservationService(e, nil)
	b := e.bike(t, "Enduro", 500)

	cart, _ := newCart(t, e)
	require.NoError(t, cart.Add(ctx, b.ID))

	res, err := s.Checkout(ctx, CheckoutInput{
		FromDate:       "2024-05-10",
		ToDate:         "2024-05-13",
		FirstName:      "Petr",
		LastName:       "Dvorak",
		Email:          "petr@example.com",
		TermsAgreement: true,
	}, cart)
	require.NoError(t, err)

	assert.Equal(t, 1500, res.Price)
	assert.Equal(t, domain.StateReservation, res.State)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, []string{ChannelCheckout}, m.channels)
	require.Len(t, n.customers, 1)

	guest, err := e.users.FindByEmail(ctx, "petr@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, guest.Role)
	assert.Equal(t, domain.UserStateBlocked, guest.State)
	assert.Empty(t, guest.PasswordHash)
	assert.Equal(t, guest.ID, res.CustomerID)
	assert.Equal(t, guest.ID, res.CreatedByID)

	// A second checkout with the same email reuses the account.
	require.NoError(t, cart.Add(ctx, b.ID))
	_, err = s.Checkout(ctx, CheckoutInput{
		FromDate:       "2024-06-10",
		ToDate:         "2024-06-11",
		Email:          "petr@example.com",
		TermsAgreement: true,
	}, cart)
	require.NoError(t, err)

	users, err := e.users.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestReservationService_CheckoutSignedIn(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s, _, _ := newReservationService(e, nil)
	customer := e.user(t, "eva@example.com", domain.RoleCustomer, domain.UserStateActivated)
	b := e.bike(t, "Enduro", 500)

	cart, _ := newCart(t, e)
	require.NoError(t, cart.Add(ctx, b.ID))

	res, err := s.Checkout(ctx, CheckoutInput{
		UserID:         &customer.ID,
		FromDate:       "2024-05-10",
		ToDate:         "2024-05-11",
		TermsAgreement: true,
	}, cart)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, res.CustomerID)
}

func TestReservationService_CheckoutValidatesBeforeCreatingUsers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s, _, _ := newReservationService(e, nil)
	b := e.bike(t, "Enduro", 500)

	full, _ := newCart(t, e)
	require.NoError(t, full.Add(ctx, b.ID))
	empty, _ := newCart(t, e)

	tests := []struct {
		name string
		in   CheckoutInput
		cart CheckoutCart
		want error
	}{
		{
			name: "terms not accepted",
			in:   CheckoutInput{FromDate: "2024-05-10", ToDate: "2024-05-11", Email: "petr@example.com"},
			cart: full,
			want: ErrTermsNotAccepted,
		},
		{
			name: "bad date",
			in:   CheckoutInput{FromDate: "2024-05-10", ToDate: "13/05/2024", Email: "petr@example.com", TermsAgreement: true},
			cart: full,
			want: ErrInvalidDateRange,
		},
		{
			name: "reversed dates",
			in:   CheckoutInput{FromDate: "2024-05-10", ToDate: "2024-05-09", Email: "petr@example.com", TermsAgreement: true},
			cart: full,
			want: ErrInvalidDateRange,
		},
		{
			name: "empty cart",
			in:   CheckoutInput{FromDate: "2024-05-10", ToDate: "2024-05-11", Email: "petr@example.com", TermsAgreement: true},
			cart: empty,
			want: ErrEmptyBikeSet,
		},
		{
			name: "no email",
			in:   CheckoutInput{FromDate: "2024-05-10", ToDate: "2024-05-11", TermsAgreement: true},
			cart: full,
			want: ErrContactRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Checkout(ctx, tt.in, tt.cart)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	users, err := e.users.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestReservationService_ListAndStateCounts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s, _, _ := newReservationService(e, domain.OverdueDelayRule)
	s.now = func() time.Time { return date("2024-05-20") }
	eva := e.user(t, "eva@example.com", domain.RoleCustomer, domain.UserStateActivated)
	jan := e.user(t, "jan@example.com", domain.RoleCustomer, domain.UserStateActivated)
	b := e.bike(t, "Enduro", 500)

	create := func(customer domain.User, from, to string, state domain.ReservationState) domain.Reservation {
		res, err := s.Create(ctx, ReservationInput{
			CustomerID:  customer.ID,
			CreatedByID: customer.ID,
			FromDate:    date(from),
			ToDate:      date(to),
			BikeIDs:     []uint{b.ID},
			State:       state,
		})
		require.NoError(t, err)
		return res
	}

	overdue := create(eva, "2024-05-10", "2024-05-12", domain.StateOngoing)
	create(eva, "2024-05-19", "2024-05-25", domain.StateOngoing)
	create(jan, "2024-06-01", "2024-06-02", domain.StateReservation)

	counts, err := s.StateCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[domain.DisplayDelayed])
	assert.Equal(t, int64(1), counts[domain.DisplayState(domain.StateOngoing)])
	assert.Equal(t, int64(1), counts[domain.DisplayState(domain.StateReservation)])

	assert.Equal(t, domain.DisplayDelayed, s.EffectiveState(overdue))

	evaID := eva.ID
	rs, err := s.List(ctx, repository.ReservationFilter{CustomerID: &evaID})
	require.NoError(t, err)
	assert.Len(t, rs, 2)
}
