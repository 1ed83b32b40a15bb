package repository

import (
	"context"
	"fmt"

	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/repository/dao"
)

var (
	ErrManufacturerNotFound   = dao.ErrManufacturerNotFound
	ErrManufacturerNameExists = dao.ErrManufacturerNameExists
	ErrUsageNotFound          = dao.ErrUsageNotFound
	ErrUsageNameExists        = dao.ErrUsageNameExists
	ErrGalleryNotFound        = dao.ErrGalleryNotFound
	ErrGalleryNameExists      = dao.ErrGalleryNameExists
)

type ManufacturerDAO interface {
	Insert(ctx context.Context, m dao.Manufacturer) (dao.Manufacturer, error)
	Rename(ctx context.Context, id uint, name string) (dao.Manufacturer, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (dao.Manufacturer, error)
	FindByName(ctx context.Context, name string) (dao.Manufacturer, error)
	FindAll(ctx context.Context) ([]dao.Manufacturer, error)
}

type ManufacturerRepository struct {
	dao ManufacturerDAO
}

func NewManufacturerRepository(dao ManufacturerDAO) *ManufacturerRepository {
	return &ManufacturerRepository{
		dao: dao,
	}
}

func (r *ManufacturerRepository) Create(ctx context.Context, name string) (domain.Manufacturer, error) {
	created, err := r.dao.Insert(ctx, dao.Manufacturer{Name: name})
	if err != nil {
		return domain.Manufacturer{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return manufacturerDAOToDomain(created), nil
}

func (r *ManufacturerRepository) Rename(ctx context.Context, id uint, name string) (domain.Manufacturer, error) {
	updated, err := r.dao.Rename(ctx, id, name)
	if err != nil {
		return domain.Manufacturer{}, fmt.Errorf("r.dao.Rename -> %w", err)
	}

	return manufacturerDAOToDomain(updated), nil
}

func (r *ManufacturerRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *ManufacturerRepository) FindByID(ctx context.Context, id uint) (domain.Manufacturer, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Manufacturer{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return manufacturerDAOToDomain(found), nil
}

func (r *ManufacturerRepository) FindByName(ctx context.Context, name string) (domain.Manufacturer, error) {
	found, err := r.dao.FindByName(ctx, name)
	if err != nil {
		return domain.Manufacturer{}, fmt.Errorf("r.dao.FindByName -> %w", err)
	}

	return manufacturerDAOToDomain(found), nil
}

func (r *ManufacturerRepository) FindAll(ctx context.Context) ([]domain.Manufacturer, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	ms := make([]domain.Manufacturer, 0, len(found))
	for _, m := range found {
		ms = append(ms, manufacturerDAOToDomain(m))
	}

	return ms, nil
}

type UsageDAO interface {
	Insert(ctx context.Context, u dao.BikeUsage) (dao.BikeUsage, error)
	Rename(ctx context.Context, id uint, name string) (dao.BikeUsage, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (dao.BikeUsage, error)
	FindByName(ctx context.Context, name string) (dao.BikeUsage, error)
	FindAll(ctx context.Context) ([]dao.BikeUsage, error)
}

type UsageRepository struct {
	dao UsageDAO
}

func NewUsageRepository(dao UsageDAO) *UsageRepository {
	return &UsageRepository{
		dao: dao,
	}
}

func (r *UsageRepository) Create(ctx context.Context, name string) (domain.BikeUsage, error) {
	created, err := r.dao.Insert(ctx, dao.BikeUsage{Name: name})
	if err != nil {
		return domain.BikeUsage{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return usageDAOToDomain(created), nil
}

func (r *UsageRepository) Rename(ctx context.Context, id uint, name string) (domain.BikeUsage, error) {
	updated, err := r.dao.Rename(ctx, id, name)
	if err != nil {
		return domain.BikeUsage{}, fmt.Errorf("r.dao.Rename -> %w", err)
	}

	return usageDAOToDomain(updated), nil
}

func (r *UsageRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *UsageRepository) FindByID(ctx context.Context, id uint) (domain.BikeUsage, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.BikeUsage{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return usageDAOToDomain(found), nil
}

func (r *UsageRepository) FindByName(ctx context.Context, name string) (domain.BikeUsage, error) {
	found, err := r.dao.FindByName(ctx, name)
	if err != nil {
		return domain.BikeUsage{}, fmt.Errorf("r.dao.FindByName -> %w", err)
	}

	return usageDAOToDomain(found), nil
}

func (r *UsageRepository) FindAll(ctx context.Context) ([]domain.BikeUsage, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	us := make([]domain.BikeUsage, 0, len(found))
	for _, u := range found {
		us = append(us, usageDAOToDomain(u))
	}

	return us, nil
}

type GalleryDAO interface {
	Insert(ctx context.Context, g dao.Gallery) (dao.Gallery, error)
	Update(ctx context.Context, id uint, name, url string) (dao.Gallery, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (dao.Gallery, error)
	FindByName(ctx context.Context, name string) (dao.Gallery, error)
	FindAll(ctx context.Context) ([]dao.Gallery, error)
}

type GalleryRepository struct {
	dao GalleryDAO
}

func NewGalleryRepository(dao GalleryDAO) *GalleryRepository {
	return &GalleryRepository{
		dao: dao,
	}
}

func (r *GalleryRepository) Create(ctx context.Context, name, url string) (domain.Gallery, error) {
	created, err := r.dao.Insert(ctx, dao.Gallery{Name: name, URL: url})
	if err != nil {
		return domain.Gallery{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return galleryDAOToDomain(created), nil
}

func (r *GalleryRepository) Update(ctx context.Context, id uint, name, url string) (domain.Gallery, error) {
	updated, err := r.dao.Update(ctx, id, name, url)
	if err != nil {
		return domain.Gallery{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return galleryDAOToDomain(updated), nil
}

func (r *GalleryRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *GalleryRepository) FindByID(ctx context.Context, id uint) (domain.Gallery, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Gallery{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return galleryDAOToDomain(found), nil
}

func (r *GalleryRepository) FindByName(ctx context.Context, name string) (domain.Gallery, error) {
	found, err := r.dao.FindByName(ctx, name)
	if err != nil {
		return domain.Gallery{}, fmt.Errorf("r.dao.FindByName -> %w", err)
	}

	return galleryDAOToDomain(found), nil
}

func (r *GalleryRepository) FindAll(ctx context.Context) ([]domain.Gallery, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	gs := make([]domain.Gallery, 0, len(found))
	for _, g := range found {
		gs = append(gs, galleryDAOToDomain(g))
	}

	return gs, nil
}

func manufacturerDAOToDomain(m dao.Manufacturer) domain.Manufacturer {
	return domain.Manufacturer{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func usageDAOToDomain(u dao.BikeUsage) domain.BikeUsage {
	return domain.BikeUsage{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

func galleryDAOToDomain(g dao.Gallery) domain.Gallery {
	return domain.Gallery{ID: g.ID, Name: g.Name, URL: g.URL, CreatedAt: g.CreatedAt, UpdatedAt: g.UpdatedAt}
}
