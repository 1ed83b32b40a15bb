package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/repository"
)

var ErrUsageNotFound = repository.ErrUsageNotFound

type UsageRepository interface {
	Create(ctx context.Context, name string) (domain.BikeUsage, error)
	Rename(ctx context.Context, id uint, name string) (domain.BikeUsage, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (domain.BikeUsage, error)
	FindByName(ctx context.Context, name string) (domain.BikeUsage, error)
	FindAll(ctx context.Context) ([]domain.BikeUsage, error)
}

type UsageService struct {
	repo UsageRepository
}

func NewUsageService(repo UsageRepository) *UsageService {
	return &UsageService{
		repo: repo,
	}
}

func (s *UsageService) List(ctx context.Context) ([]domain.BikeUsage, error) {
	us, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return us, nil
}

func (s *UsageService) Get(ctx context.Context, id uint) (domain.BikeUsage, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.BikeUsage{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return u, nil
}

func (s *UsageService) Create(ctx context.Context, name string) (domain.BikeUsage, error) {
	if err := s.checkName(ctx, 0, name); err != nil {
		return domain.BikeUsage{}, err
	}

	u, err := s.repo.Create(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrUsageNameExists) {
			return domain.BikeUsage{}, duplicateUsage(name)
		}

		return domain.BikeUsage{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return u, nil
}

func (s *UsageService) Rename(ctx context.Context, id uint, name string) (domain.BikeUsage, error) {
	if err := s.checkName(ctx, id, name); err != nil {
		return domain.BikeUsage{}, err
	}

	u, err := s.repo.Rename(ctx, id, name)
	if err != nil {
		if errors.Is(err, repository.ErrUsageNameExists) {
			return domain.BikeUsage{}, duplicateUsage(name)
		}

		return domain.BikeUsage{}, fmt.Errorf("s.repo.Rename -> %w", err)
	}

	return u, nil
}

func (s *UsageService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// checkName rejects a name already used by another usage than id.
func (s *UsageService) checkName(ctx context.Context, id uint, name string) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrUsageNotFound) {
			return nil
		}

		return fmt.Errorf("s.repo.FindByName -> %w", err)
	}
	if existing.ID != id {
		return duplicateUsage(name)
	}

	return nil
}

func duplicateUsage(name string) error {
	return &domain.DuplicateNameError{Entity: "usage", Field: "name", Value: name}
}
