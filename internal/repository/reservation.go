package repository

import (
	"context"
	"fmt"

	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/repository/dao"
)

var ErrReservationNotFound = dao.ErrReservationNotFound

type ReservationDAO interface {
	Insert(ctx context.Context, r dao.Reservation, bikeIDs []uint) (dao.Reservation, error)
	Update(ctx context.Context, r dao.Reservation, bikeIDs []uint) (dao.Reservation, error)
	UpdateState(ctx context.Context, id uint, state int) error
	FindByID(ctx context.Context, id uint) (dao.Reservation, error)
	Find(ctx context.Context, q dao.ReservationQuery) ([]dao.Reservation, error)
	FindBikeIDs(ctx context.Context, reservationIDs []uint) (map[uint][]uint, error)
	CountByState(ctx context.Context) (map[int]int64, error)
}

// ReservationFilter narrows a reservation listing. Nil fields match everything.
type ReservationFilter struct {
	CustomerID *uint
	State      *domain.ReservationState
}

type ReservationRepository struct {
	dao     ReservationDAO
	bikeDAO BikeDAO
}

func NewReservationRepository(dao ReservationDAO, bikeDAO BikeDAO) *ReservationRepository {
	return &ReservationRepository{
		dao:     dao,
		bikeDAO: bikeDAO,
	}
}

func (r *ReservationRepository) Create(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	created, err := r.dao.Insert(ctx, reservationDomainToDAO(res), res.BikeIDs)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.hydrateOne(ctx, created)
}

func (r *ReservationRepository) Update(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	updated, err := r.dao.Update(ctx, reservationDomainToDAO(res), res.BikeIDs)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.hydrateOne(ctx, updated)
}

func (r *ReservationRepository) UpdateState(ctx context.Context, id uint, state domain.ReservationState) error {
	if err := r.dao.UpdateState(ctx, id, int(state)); err != nil {
		return fmt.Errorf("r.dao.UpdateState -> %w", err)
	}

	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uint) (domain.Reservation, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.hydrateOne(ctx, found)
}

func (r *ReservationRepository) Find(ctx context.Context, filter ReservationFilter) ([]domain.Reservation, error) {
	q := dao.ReservationQuery{CustomerID: filter.CustomerID}
	if filter.State != nil {
		state := int(*filter.State)
		q.State = &state
	}

	found, err := r.dao.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Find -> %w", err)
	}

	return r.hydrate(ctx, found)
}

func (r *ReservationRepository) CountByState(ctx context.Context) (map[domain.ReservationState]int64, error) {
	counts, err := r.dao.CountByState(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountByState -> %w", err)
	}

	result := make(map[domain.ReservationState]int64, len(counts))
	for state, n := range counts {
		result[domain.ReservationState(state)] = n
	}

	return result, nil
}

func (r *ReservationRepository) hydrateOne(ctx context.Context, res dao.Reservation) (domain.Reservation, error) {
	hydrated, err := r.hydrate(ctx, []dao.Reservation{res})
	if err != nil {
		return domain.Reservation{}, err
	}

	return hydrated[0], nil
}

// hydrate attaches bike sets with two queries for the whole batch: one for
// the join rows and one for the bikes.
func (r *ReservationRepository) hydrate(ctx context.Context, rs []dao.Reservation) ([]domain.Reservation, error) {
	ids := make([]uint, 0, len(rs))
	for _, res := range rs {
		ids = append(ids, res.ID)
	}

	sets, err := r.dao.FindBikeIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindBikeIDs -> %w", err)
	}

	seen := make(map[uint]struct{})
	var bikeIDs []uint
	for _, set := range sets {
		for _, id := range set {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				bikeIDs = append(bikeIDs, id)
			}
		}
	}

	bikes, err := r.bikeDAO.FindByIDs(ctx, bikeIDs)
	if err != nil {
		return nil, fmt.Errorf("r.bikeDAO.FindByIDs -> %w", err)
	}

	byID := make(map[uint]domain.Bike, len(bikes))
	for _, b := range bikes {
		byID[b.ID] = bikeDAOToDomain(b)
	}

	result := make([]domain.Reservation, 0, len(rs))
	for _, res := range rs {
		d := reservationDAOToDomain(res)
		d.BikeIDs = sets[res.ID]
		for _, id := range d.BikeIDs {
			if b, ok := byID[id]; ok {
				d.Bikes = append(d.Bikes, b)
			}
		}
		result = append(result, d)
	}

	return result, nil
}

func reservationDomainToDAO(r domain.Reservation) dao.Reservation {
	return dao.Reservation{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		CreatedByID: r.CreatedByID,
		FromDate:    r.FromDate,
		ToDate:      r.ToDate,
		State:       int(r.State),
		Price:       r.Price,
	}
}

func reservationDAOToDomain(r dao.Reservation) domain.Reservation {
	res := domain.Reservation{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		CreatedByID: r.CreatedByID,
		FromDate:    r.FromDate.UTC(),
		ToDate:      r.ToDate.UTC(),
		State:       domain.ReservationState(r.State),
		Price:       r.Price,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}

	if r.Customer.ID != 0 {
		c := userDAOToDomain(r.Customer)
		res.Customer = &c
	}
	if r.CreatedBy.ID != 0 {
		c := userDAOToDomain(r.CreatedBy)
		res.CreatedBy = &c
	}

	return res
}
