package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/pkg/imagestore"
	"github.com/bikerent/bikerent-api/internal/repository"
)

var (
	ErrGalleryNotFound = repository.ErrGalleryNotFound
	ErrInvalidImage    = imagestore.ErrInvalidImage
	ErrImageRequired   = errors.New("image is required")
)

type GalleryRepository interface {
	Create(ctx context.Context, name, url string) (domain.Gallery, error)
	Update(ctx context.Context, id uint, name, url string) (domain.Gallery, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (domain.Gallery, error)
	FindByName(ctx context.Context, name string) (domain.Gallery, error)
	FindAll(ctx context.Context) ([]domain.Gallery, error)
}

type ImageStore interface {
	SaveGallery(r io.Reader) (string, error)
	Remove(url string) error
}

// GalleryBikeCache drops cached bikes that embed a gallery.
type GalleryBikeCache interface {
	BikeIDsByGallery(ctx context.Context, galleryID uint) ([]uint, error)
	ForgetBikes(ctx context.Context, ids []uint)
}

type GalleryService struct {
	repo   GalleryRepository
	images ImageStore
	bikes  GalleryBikeCache
}

// NewGalleryService builds the service. bikes may be nil when no bike cache is
// kept.
func NewGalleryService(repo GalleryRepository, images ImageStore, bikes GalleryBikeCache) *GalleryService {
	return &GalleryService{
		repo:   repo,
		images: images,
		bikes:  bikes,
	}
}

func (s *GalleryService) List(ctx context.Context) ([]domain.Gallery, error) {
	gs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return gs, nil
}

func (s *GalleryService) Get(ctx context.Context, id uint) (domain.Gallery, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Gallery{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return g, nil
}

func (s *GalleryService) Create(ctx context.Context, name string, image io.Reader) (domain.Gallery, error) {
	if image == nil {
		return domain.Gallery{}, ErrImageRequired
	}
	if err := s.checkName(ctx, 0, name); err != nil {
		return domain.Gallery{}, err
	}

	url, err := s.images.SaveGallery(image)
	if err != nil {
		return domain.Gallery{}, fmt.Errorf("s.images.SaveGallery -> %w", err)
	}

	g, err := s.repo.Create(ctx, name, url)
	if err != nil {
		s.removeImage(url)
		if errors.Is(err, repository.ErrGalleryNameExists) {
			return domain.Gallery{}, duplicateGallery(name)
		}

		return domain.Gallery{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return g, nil
}

// Update renames the gallery and, when image is not nil, replaces its picture.
func (s *GalleryService) Update(ctx context.Context, id uint, name string, image io.Reader) (domain.Gallery, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Gallery{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if err := s.checkName(ctx, id, name); err != nil {
		return domain.Gallery{}, err
	}

	url := ""
	if image != nil {
		if url, err = s.images.SaveGallery(image); err != nil {
			return domain.Gallery{}, fmt.Errorf("s.images.SaveGallery -> %w", err)
		}
	}

	g, err := s.repo.Update(ctx, id, name, url)
	if err != nil {
		s.removeImage(url)
		if errors.Is(err, repository.ErrGalleryNameExists) {
			return domain.Gallery{}, duplicateGallery(name)
		}

		return domain.Gallery{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	if url != "" {
		s.removeImage(current.URL)
	}
	s.forgetBikes(ctx, s.bikesUsing(ctx, id))

	return g, nil
}

// Delete removes the gallery and its file. Bikes using it lose their picture
// and are evicted from the bike cache. A missing gallery is not an error.
func (s *GalleryService) Delete(ctx context.Context, id uint) error {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGalleryNotFound) {
			return nil
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	using := s.bikesUsing(ctx, id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	s.removeImage(g.URL)
	s.forgetBikes(ctx, using)

	return nil
}

func (s *GalleryService) removeImage(url string) {
	if url == "" {
		return
	}
	if err := s.images.Remove(url); err != nil {
		zap.L().Warn("failed to remove gallery image", zap.String("url", url), zap.Error(err))
	}
}

func (s *GalleryService) bikesUsing(ctx context.Context, id uint) []uint {
	if s.bikes == nil {
		return nil
	}
	ids, err := s.bikes.BikeIDsByGallery(ctx, id)
	if err != nil {
		zap.L().Warn("failed to list bikes of gallery", zap.Uint("gallery_id", id), zap.Error(err))
		return nil
	}

	return ids
}

func (s *GalleryService) forgetBikes(ctx context.Context, ids []uint) {
	if s.bikes == nil || len(ids) == 0 {
		return
	}
	s.bikes.ForgetBikes(ctx, ids)
}

func (s *GalleryService) checkName(ctx context.Context, id uint, name string) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrGalleryNotFound) {
			return nil
		}

		return fmt.Errorf("s.repo.FindByName -> %w", err)
	}
	if existing.ID != id {
		return duplicateGallery(name)
	}

	return nil
}

func duplicateGallery(name string) error {
	return &domain.DuplicateNameError{Entity: "gallery", Field: "name", Value: name}
}
