package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/repository"
)

var (
	ErrReservationNotFound = repository.ErrReservationNotFound
	ErrEmptyBikeSet        = errors.New("a reservation needs at least one bike")
	ErrInvalidDateRange    = errors.New("the end date must be at least one day after the start date")
	ErrInvalidState        = errors.New("invalid reservation state")
	ErrTermsNotAccepted    = errors.New("the terms must be accepted")
	ErrContactRequired     = errors.New("email is required to check out without an account")
)

// delayedStateValue is the submitted value of the derived delayed state.
const delayedStateValue = "4"

const (
	ChannelCheckout = "checkout"
	ChannelAdmin    = "admin"
)

type ReservationRepository interface {
	Create(ctx context.Context, res domain.Reservation) (domain.Reservation, error)
	Update(ctx context.Context, res domain.Reservation) (domain.Reservation, error)
	UpdateState(ctx context.Context, id uint, state domain.ReservationState) error
	FindByID(ctx context.Context, id uint) (domain.Reservation, error)
	Find(ctx context.Context, filter repository.ReservationFilter) ([]domain.Reservation, error)
	CountByState(ctx context.Context) (map[domain.ReservationState]int64, error)
}

type ReservationBikeRepository interface {
	FindByIDs(ctx context.Context, ids []uint) ([]domain.Bike, error)
}

type ReservationUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type ReservationNotifier interface {
	ReservationCreated(res domain.Reservation, customer domain.User)
}

type ReservationMetrics interface {
	ReservationCreated(channel string)
}

// CheckoutCart is the part of the cart a checkout consumes.
type CheckoutCart interface {
	BikeIDs() []uint
	Clear() error
}

type ReservationInput struct {
	CustomerID  uint
	CreatedByID uint
	FromDate    time.Time
	ToDate      time.Time
	BikeIDs     []uint
	State       domain.ReservationState
}

type CheckoutInput struct {
	// UserID is the signed-in user, nil for guests.
	UserID         *uint
	FromDate       string
	ToDate         string
	FirstName      string
	LastName       string
	Email          string
	TermsAgreement bool
}

type ReservationService struct {
	repo      ReservationRepository
	bikes     ReservationBikeRepository
	users     ReservationUserRepository
	notifier  ReservationNotifier
	metrics   ReservationMetrics
	delayRule domain.DelayRule
	now       func() time.Time
}

func NewReservationService(
	repo ReservationRepository,
	bikes ReservationBikeRepository,
	users ReservationUserRepository,
	notifier ReservationNotifier,
	metrics ReservationMetrics,
	delayRule domain.DelayRule,
) *ReservationService {
	if delayRule == nil {
		delayRule = domain.LegacyDelayRule
	}

	return &ReservationService{
		repo:      repo,
		bikes:     bikes,
		users:     users,
		notifier:  notifier,
		metrics:   metrics,
		delayRule: delayRule,
		now:       time.Now,
	}
}

// EffectiveState is the state to show for res at the current time.
func (s *ReservationService) EffectiveState(res domain.Reservation) domain.DisplayState {
	return res.EffectiveState(s.now(), s.delayRule)
}

func (s *ReservationService) Get(ctx context.Context, id uint) (domain.Reservation, error) {
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return res, nil
}

func (s *ReservationService) List(ctx context.Context, filter repository.ReservationFilter) ([]domain.Reservation, error) {
	rs, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Find -> %w", err)
	}

	return rs, nil
}

// Create stores a reservation entered in the back office.
func (s *ReservationService) Create(ctx context.Context, in ReservationInput) (domain.Reservation, error) {
	res, err := s.create(ctx, in)
	if err != nil {
		return domain.Reservation{}, err
	}

	s.recordCreated(ChannelAdmin)

	return res, nil
}

// Update replaces every field of the reservation and recomputes its price.
func (s *ReservationService) Update(ctx context.Context, id uint, in ReservationInput) (domain.Reservation, error) {
	res, err := s.build(ctx, in)
	if err != nil {
		return domain.Reservation{}, err
	}
	res.ID = id

	updated, err := s.repo.Update(ctx, res)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// ChangeState stores a new state given in its numeric form. The delayed state
// cannot be stored: asking for it changes nothing and reports false.
func (s *ReservationService) ChangeState(ctx context.Context, id uint, newState string) (bool, error) {
	if newState == delayedStateValue {
		return false, nil
	}

	state, err := domain.ParseReservationState(newState)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.repo.UpdateState(ctx, id, state); err != nil {
		return false, fmt.Errorf("s.repo.UpdateState -> %w", err)
	}

	return true, nil
}

// Checkout turns the cart into a reservation. Guests are matched by email; an
// unknown email gets a blocked customer account without a password.
func (s *ReservationService) Checkout(ctx context.Context, in CheckoutInput, cart CheckoutCart) (domain.Reservation, error) {
	if !in.TermsAgreement {
		return domain.Reservation{}, ErrTermsNotAccepted
	}

	from, to, err := parseRange(in.FromDate, in.ToDate)
	if err != nil {
		return domain.Reservation{}, err
	}
	if domain.DaysBetween(from, to) < 1 {
		return domain.Reservation{}, ErrInvalidDateRange
	}

	bikeIDs := cart.BikeIDs()
	if len(bikeIDs) == 0 {
		return domain.Reservation{}, ErrEmptyBikeSet
	}

	creator, err := s.resolveCreator(ctx, in)
	if err != nil {
		return domain.Reservation{}, err
	}

	res, err := s.create(ctx, ReservationInput{
		CustomerID:  creator.ID,
		CreatedByID: creator.ID,
		FromDate:    from,
		ToDate:      to,
		BikeIDs:     bikeIDs,
		State:       domain.StateReservation,
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	if err := cart.Clear(); err != nil {
		zap.L().Warn("failed to clear cart after checkout", zap.Uint("reservation_id", res.ID), zap.Error(err))
	}

	s.recordCreated(ChannelCheckout)
	if s.notifier != nil {
		s.notifier.ReservationCreated(res, creator)
	}

	return res, nil
}

// StateCounts counts reservations by effective state.
func (s *ReservationService) StateCounts(ctx context.Context) (map[domain.DisplayState]int64, error) {
	stored, err := s.repo.CountByState(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.CountByState -> %w", err)
	}

	counts := make(map[domain.DisplayState]int64, len(stored)+1)
	for state, n := range stored {
		counts[domain.DisplayState(state)] = n
	}

	ongoing := domain.StateOngoing
	rs, err := s.repo.Find(ctx, repository.ReservationFilter{State: &ongoing})
	if err != nil {
		return nil, fmt.Errorf("s.repo.Find -> %w", err)
	}

	now := s.now()
	for _, res := range rs {
		if res.EffectiveState(now, s.delayRule) == domain.DisplayDelayed {
			counts[domain.DisplayState(domain.StateOngoing)]--
			counts[domain.DisplayDelayed]++
		}
	}

	return counts, nil
}

func (s *ReservationService) create(ctx context.Context, in ReservationInput) (domain.Reservation, error) {
	res, err := s.build(ctx, in)
	if err != nil {
		return domain.Reservation{}, err
	}

	created, err := s.repo.Create(ctx, res)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *ReservationService) recordCreated(channel string) {
	if s.metrics != nil {
		s.metrics.ReservationCreated(channel)
	}
}

func (s *ReservationService) resolveCreator(ctx context.Context, in CheckoutInput) (domain.User, error) {
	if in.UserID != nil {
		user, err := s.users.FindByID(ctx, *in.UserID)
		if err != nil {
			return domain.User{}, fmt.Errorf("s.users.FindByID -> %w", err)
		}

		return user, nil
	}

	if in.Email == "" {
		return domain.User{}, ErrContactRequired
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return domain.User{}, fmt.Errorf("s.users.FindByEmail -> %w", err)
	}

	guest, err := s.users.Create(ctx, domain.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Role:      domain.RoleCustomer,
		State:     domain.UserStateBlocked,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.Create -> %w", err)
	}

	zap.L().Info("created guest customer at checkout", zap.Uint("user_id", guest.ID))

	return guest, nil
}

func (s *ReservationService) build(ctx context.Context, in ReservationInput) (domain.Reservation, error) {
	if !in.State.Valid() {
		return domain.Reservation{}, fmt.Errorf("%w: %d", ErrInvalidState, in.State)
	}

	ids := uniqueIDs(in.BikeIDs)
	if len(ids) == 0 {
		return domain.Reservation{}, ErrEmptyBikeSet
	}

	from, to := domain.Midnight(in.FromDate), domain.Midnight(in.ToDate)
	days := domain.DaysBetween(from, to)
	if days < 1 {
		return domain.Reservation{}, ErrInvalidDateRange
	}

	if _, err := s.users.FindByID(ctx, in.CustomerID); err != nil {
		return domain.Reservation{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	bikes, err := s.bikes.FindByIDs(ctx, ids)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("s.bikes.FindByIDs -> %w", err)
	}
	if len(bikes) != len(ids) {
		return domain.Reservation{}, ErrBikeNotFound
	}

	return domain.Reservation{
		CustomerID:  in.CustomerID,
		CreatedByID: in.CreatedByID,
		FromDate:    from,
		ToDate:      to,
		BikeIDs:     ids,
		Bikes:       bikes,
		State:       in.State,
		Price:       domain.RentalPrice(bikes, days),
	}, nil
}

func parseRange(fromDate, toDate string) (time.Time, time.Time, error) {
	from, err := time.Parse(domain.DateLayout, fromDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from date: %v", ErrInvalidDateRange, err)
	}
	to, err := time.Parse(domain.DateLayout, toDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to date: %v", ErrInvalidDateRange, err)
	}

	return from, to, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}
