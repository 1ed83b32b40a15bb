package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bikerent/bikerent-api/internal/cache"
	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/repository"
)

var (
	ErrBikeNotFound = repository.ErrBikeNotFound
	ErrInvalidBike  = errors.New("invalid bike")
)

type BikeRepository interface {
	Create(ctx context.Context, bike domain.Bike) (domain.Bike, error)
	Update(ctx context.Context, bike domain.Bike) (domain.Bike, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (domain.Bike, error)
	FindByIDs(ctx context.Context, ids []uint) ([]domain.Bike, error)
	Find(ctx context.Context, filter domain.BikeFilter) ([]domain.Bike, error)
	DistinctWheelSizes(ctx context.Context) ([]string, error)
	DistinctFrameSizes(ctx context.Context) ([]string, error)
}

type CatalogManufacturerRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Manufacturer, error)
}

type CatalogUsageRepository interface {
	FindByID(ctx context.Context, id uint) (domain.BikeUsage, error)
	FindAll(ctx context.Context) ([]domain.BikeUsage, error)
}

type CatalogGalleryRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Gallery, error)
}

// FilterCart is the part of the cart the catalog filter reads and writes.
type FilterCart interface {
	DateRange() DateRange
	SetDateRange(from, to *time.Time) error
}

type FilterInput struct {
	FromDate   string
	ToDate     string
	UsageIDs   []uint
	WheelSizes []string
	FrameSizes []string
}

type FilterResult struct {
	Bikes     []domain.Bike
	DateRange DateRange
}

type BikeInput struct {
	ManufacturerID uint
	Name           string
	UsageID        uint
	GalleryID      *uint
	FrameMaterial  string
	FrameSize      string
	WheelSize      string
	ForkTravel     *int
	ShockTravel    *int
	Speeds         string
	Price          int
}

type CatalogService struct {
	bikes         BikeRepository
	manufacturers CatalogManufacturerRepository
	usages        CatalogUsageRepository
	galleries     CatalogGalleryRepository
	cache         cache.Cache
	cacheTTL      time.Duration
}

func NewCatalogService(
	bikes BikeRepository,
	manufacturers CatalogManufacturerRepository,
	usages CatalogUsageRepository,
	galleries CatalogGalleryRepository,
	c cache.Cache,
	cacheTTL time.Duration,
) *CatalogService {
	if c == nil {
		c = cache.NopCache{}
	}

	return &CatalogService{
		bikes:         bikes,
		manufacturers: manufacturers,
		usages:        usages,
		galleries:     galleries,
		cache:         c,
		cacheTTL:      cacheTTL,
	}
}

func bikeCacheKey(id uint) string {
	return fmt.Sprintf("bike:%d", id)
}

func (s *CatalogService) ListBikes(ctx context.Context) ([]domain.Bike, error) {
	bikes, err := s.bikes.Find(ctx, domain.BikeFilter{})
	if err != nil {
		return nil, fmt.Errorf("s.bikes.Find -> %w", err)
	}

	return bikes, nil
}

// GetBike reads through the cache.
func (s *CatalogService) GetBike(ctx context.Context, id uint) (domain.Bike, error) {
	key := bikeCacheKey(id)

	if data, err := s.cache.Get(ctx, key); err == nil {
		var bike domain.Bike
		if err := json.Unmarshal(data, &bike); err == nil {
			return bike, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		zap.L().Warn("bike cache read failed", zap.String("key", key), zap.Error(err))
	}

	bike, err := s.bikes.FindByID(ctx, id)
	if err != nil {
		return domain.Bike{}, fmt.Errorf("s.bikes.FindByID -> %w", err)
	}

	if data, err := json.Marshal(bike); err == nil {
		if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			zap.L().Warn("bike cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return bike, nil
}

func (s *CatalogService) BikesByIDs(ctx context.Context, ids []uint) ([]domain.Bike, error) {
	bikes, err := s.bikes.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("s.bikes.FindByIDs -> %w", err)
	}

	return bikes, nil
}

// Filter resolves the requested dates, falling back per field to the date the
// cart already holds, stores them in the cart and returns the matching bikes.
func (s *CatalogService) Filter(ctx context.Context, in FilterInput, cart FilterCart) (FilterResult, error) {
	current := cart.DateRange()

	from := resolveDate(in.FromDate, current.From)
	to := resolveDate(in.ToDate, current.To)
	if err := cart.SetDateRange(from, to); err != nil {
		return FilterResult{}, fmt.Errorf("cart.SetDateRange -> %w", err)
	}

	bikes, err := s.bikes.Find(ctx, domain.BikeFilter{
		UsageIDs:   in.UsageIDs,
		WheelSizes: in.WheelSizes,
		FrameSizes: in.FrameSizes,
	})
	if err != nil {
		return FilterResult{}, fmt.Errorf("s.bikes.Find -> %w", err)
	}

	return FilterResult{Bikes: bikes, DateRange: cart.DateRange()}, nil
}

func resolveDate(submitted, fallback string) *time.Time {
	if d, err := time.Parse(domain.DateLayout, submitted); err == nil {
		return &d
	}
	if d, err := time.Parse(domain.DateLayout, fallback); err == nil {
		return &d
	}

	return nil
}

func (s *CatalogService) FilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	wheels, err := s.bikes.DistinctWheelSizes(ctx)
	if err != nil {
		return domain.FilterOptions{}, fmt.Errorf("s.bikes.DistinctWheelSizes -> %w", err)
	}

	frames, err := s.bikes.DistinctFrameSizes(ctx)
	if err != nil {
		return domain.FilterOptions{}, fmt.Errorf("s.bikes.DistinctFrameSizes -> %w", err)
	}

	usages, err := s.usages.FindAll(ctx)
	if err != nil {
		return domain.FilterOptions{}, fmt.Errorf("s.usages.FindAll -> %w", err)
	}

	return domain.FilterOptions{WheelSizes: wheels, FrameSizes: frames, Usages: usages}, nil
}

func (s *CatalogService) CreateBike(ctx context.Context, in BikeInput) (domain.Bike, error) {
	bike, err := s.bikeFromInput(ctx, in)
	if err != nil {
		return domain.Bike{}, err
	}

	zero := 0
	if bike.ForkTravel == nil {
		bike.ForkTravel = &zero
	}
	if bike.ShockTravel == nil {
		bike.ShockTravel = &zero
	}

	created, err := s.bikes.Create(ctx, bike)
	if err != nil {
		return domain.Bike{}, fmt.Errorf("s.bikes.Create -> %w", err)
	}

	return created, nil
}

func (s *CatalogService) UpdateBike(ctx context.Context, id uint, in BikeInput) (domain.Bike, error) {
	bike, err := s.bikeFromInput(ctx, in)
	if err != nil {
		return domain.Bike{}, err
	}
	bike.ID = id

	updated, err := s.bikes.Update(ctx, bike)
	if err != nil {
		return domain.Bike{}, fmt.Errorf("s.bikes.Update -> %w", err)
	}

	s.invalidate(ctx, id)

	return updated, nil
}

// DeleteBike removes the bike. A missing bike is not an error.
func (s *CatalogService) DeleteBike(ctx context.Context, id uint) error {
	if err := s.bikes.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.bikes.Delete -> %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// BikeIDsByGallery lists the bikes showing the gallery.
func (s *CatalogService) BikeIDsByGallery(ctx context.Context, galleryID uint) ([]uint, error) {
	bikes, err := s.bikes.Find(ctx, domain.BikeFilter{})
	if err != nil {
		return nil, fmt.Errorf("s.bikes.Find -> %w", err)
	}

	var ids []uint
	for _, b := range bikes {
		if b.GalleryID != nil && *b.GalleryID == galleryID {
			ids = append(ids, b.ID)
		}
	}

	return ids, nil
}

// ForgetBikes drops the cached copies of the given bikes.
func (s *CatalogService) ForgetBikes(ctx context.Context, ids []uint) {
	for _, id := range ids {
		s.invalidate(ctx, id)
	}
}

func (s *CatalogService) invalidate(ctx context.Context, id uint) {
	if err := s.cache.Delete(ctx, bikeCacheKey(id)); err != nil {
		zap.L().Warn("bike cache invalidation failed", zap.Uint("bike_id", id), zap.Error(err))
	}
}

func (s *CatalogService) bikeFromInput(ctx context.Context, in BikeInput) (domain.Bike, error) {
	material, err := domain.ParseFrameMaterial(in.FrameMaterial)
	if err != nil {
		return domain.Bike{}, fmt.Errorf("%w: %v", ErrInvalidBike, err)
	}
	if in.Price < 0 {
		return domain.Bike{}, fmt.Errorf("%w: price must not be negative", ErrInvalidBike)
	}

	if _, err := s.manufacturers.FindByID(ctx, in.ManufacturerID); err != nil {
		return domain.Bike{}, fmt.Errorf("s.manufacturers.FindByID -> %w", err)
	}
	if _, err := s.usages.FindByID(ctx, in.UsageID); err != nil {
		return domain.Bike{}, fmt.Errorf("s.usages.FindByID -> %w", err)
	}
	if in.GalleryID != nil {
		if _, err := s.galleries.FindByID(ctx, *in.GalleryID); err != nil {
			return domain.Bike{}, fmt.Errorf("s.galleries.FindByID -> %w", err)
		}
	}

	return domain.Bike{
		ManufacturerID: in.ManufacturerID,
		Name:           in.Name,
		UsageID:        in.UsageID,
		GalleryID:      in.GalleryID,
		FrameMaterial:  material,
		FrameSize:      in.FrameSize,
		WheelSize:      in.WheelSize,
		ForkTravel:     in.ForkTravel,
		ShockTravel:    in.ShockTravel,
		Speeds:         in.Speeds,
		Price:          in.Price,
	}, nil
}
