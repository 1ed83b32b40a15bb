package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/repository"
)

var (
	ErrManufacturerNotFound = repository.ErrManufacturerNotFound
	ErrReferenced           = repository.ErrReferenced
)

type ManufacturerRepository interface {
	Create(ctx context.Context, name string) (domain.Manufacturer, error)
	Rename(ctx context.Context, id uint, name string) (domain.Manufacturer, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (domain.Manufacturer, error)
	FindByName(ctx context.Context, name string) (domain.Manufacturer, error)
	FindAll(ctx context.Context) ([]domain.Manufacturer, error)
}

type ManufacturerService struct {
	repo ManufacturerRepository
}

func NewManufacturerService(repo ManufacturerRepository) *ManufacturerService {
	return &ManufacturerService{
		repo: repo,
	}
}

func (s *ManufacturerService) List(ctx context.Context) ([]domain.Manufacturer, error) {
	ms, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return ms, nil
}

func (s *ManufacturerService) Get(ctx context.Context, id uint) (domain.Manufacturer, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Manufacturer{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return m, nil
}

func (s *ManufacturerService) Create(ctx context.Context, name string) (domain.Manufacturer, error) {
	if err := s.checkName(ctx, 0, name); err != nil {
		return domain.Manufacturer{}, err
	}

	m, err := s.repo.Create(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrManufacturerNameExists) {
			return domain.Manufacturer{}, duplicateManufacturer(name)
		}

		return domain.Manufacturer{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return m, nil
}

func (s *ManufacturerService) Rename(ctx context.Context, id uint, name string) (domain.Manufacturer, error) {
	if err := s.checkName(ctx, id, name); err != nil {
		return domain.Manufacturer{}, err
	}

	m, err := s.repo.Rename(ctx, id, name)
	if err != nil {
		if errors.Is(err, repository.ErrManufacturerNameExists) {
			return domain.Manufacturer{}, duplicateManufacturer(name)
		}

		return domain.Manufacturer{}, fmt.Errorf("s.repo.Rename -> %w", err)
	}

	return m, nil
}

func (s *ManufacturerService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// checkName rejects a name already used by another manufacturer than id.
func (s *ManufacturerService) checkName(ctx context.Context, id uint, name string) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrManufacturerNotFound) {
			return nil
		}

		return fmt.Errorf("s.repo.FindByName -> %w", err)
	}
	if existing.ID != id {
		return duplicateManufacturer(name)
	}

	return nil
}

func duplicateManufacturer(name string) error {
	return &domain.DuplicateNameError{Entity: "manufacturer", Field: "name", Value: name}
}
