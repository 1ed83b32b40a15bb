package repository

import (
	"context"
	"fmt"

	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/repository/dao"
)

var ErrBikeNotFound = dao.ErrBikeNotFound

type BikeDAO interface {
	Insert(ctx context.Context, bike dao.Bike) (dao.Bike, error)
	Update(ctx context.Context, bike dao.Bike) (dao.Bike, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (dao.Bike, error)
	FindByIDs(ctx context.Context, ids []uint) ([]dao.Bike, error)
	Find(ctx context.Context, q dao.BikeQuery) ([]dao.Bike, error)
	DistinctWheelSizes(ctx context.Context) ([]string, error)
	DistinctFrameSizes(ctx context.Context) ([]string, error)
}

type BikeRepository struct {
	dao BikeDAO
}

func NewBikeRepository(dao BikeDAO) *BikeRepository {
	return &BikeRepository{
		dao: dao,
	}
}

func (r *BikeRepository) Create(ctx context.Context, bike domain.Bike) (domain.Bike, error) {
	created, err := r.dao.Insert(ctx, bikeDomainToDAO(bike))
	if err != nil {
		return domain.Bike{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return bikeDAOToDomain(created), nil
}

func (r *BikeRepository) Update(ctx context.Context, bike domain.Bike) (domain.Bike, error) {
	updated, err := r.dao.Update(ctx, bikeDomainToDAO(bike))
	if err != nil {
		return domain.Bike{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return bikeDAOToDomain(updated), nil
}

func (r *BikeRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *BikeRepository) FindByID(ctx context.Context, id uint) (domain.Bike, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Bike{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return bikeDAOToDomain(found), nil
}

func (r *BikeRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Bike, error) {
	found, err := r.dao.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByIDs -> %w", err)
	}

	return bikesDAOToDomain(found), nil
}

func (r *BikeRepository) Find(ctx context.Context, filter domain.BikeFilter) ([]domain.Bike, error) {
	found, err := r.dao.Find(ctx, dao.BikeQuery{
		UsageIDs:   filter.UsageIDs,
		WheelSizes: filter.WheelSizes,
		FrameSizes: filter.FrameSizes,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.Find -> %w", err)
	}

	return bikesDAOToDomain(found), nil
}

func (r *BikeRepository) DistinctWheelSizes(ctx context.Context) ([]string, error) {
	sizes, err := r.dao.DistinctWheelSizes(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.DistinctWheelSizes -> %w", err)
	}

	return sizes, nil
}

func (r *BikeRepository) DistinctFrameSizes(ctx context.Context) ([]string, error) {
	sizes, err := r.dao.DistinctFrameSizes(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.DistinctFrameSizes -> %w", err)
	}

	return sizes, nil
}

func bikeDomainToDAO(b domain.Bike) dao.Bike {
	return dao.Bike{
		ID:             b.ID,
		ManufacturerID: b.ManufacturerID,
		Name:           b.Name,
		UsageID:        b.UsageID,
		GalleryID:      b.GalleryID,
		FrameMaterial:  string(b.FrameMaterial),
		FrameSize:      b.FrameSize,
		WheelSize:      b.WheelSize,
		ForkTravel:     b.ForkTravel,
		ShockTravel:    b.ShockTravel,
		Speeds:         b.Speeds,
		Price:          b.Price,
	}
}

func bikeDAOToDomain(b dao.Bike) domain.Bike {
	bike := domain.Bike{
		ID:             b.ID,
		ManufacturerID: b.ManufacturerID,
		Name:           b.Name,
		UsageID:        b.UsageID,
		GalleryID:      b.GalleryID,
		FrameMaterial:  domain.FrameMaterial(b.FrameMaterial),
		FrameSize:      b.FrameSize,
		WheelSize:      b.WheelSize,
		ForkTravel:     b.ForkTravel,
		ShockTravel:    b.ShockTravel,
		Speeds:         b.Speeds,
		Price:          b.Price,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}

	if b.Manufacturer.ID != 0 {
		m := manufacturerDAOToDomain(b.Manufacturer)
		bike.Manufacturer = &m
	}
	if b.Usage.ID != 0 {
		u := usageDAOToDomain(b.Usage)
		bike.Usage = &u
	}
	if b.Gallery != nil {
		g := galleryDAOToDomain(*b.Gallery)
		bike.Gallery = &g
	}

	return bike
}

func bikesDAOToDomain(bs []dao.Bike) []domain.Bike {
	bikes := make([]domain.Bike, 0, len(bs))
	for _, b := range bs {
		bikes = append(bikes, bikeDAOToDomain(b))
	}

	return bikes
}
