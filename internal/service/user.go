package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/repository"
)

var (
	ErrUserNotFound     = repository.ErrUserNotFound
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidUserState = errors.New("invalid user state")
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	UpdateRole(ctx context.Context, id uint, role domain.Role) error
	UpdateState(ctx context.Context, id uint, state domain.UserState) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByState(ctx context.Context, state domain.UserState) ([]domain.User, error)
}

// UserInput is what the back office submits for a user. Password is only
// read on creation.
type UserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      domain.Role
	State     domain.UserState
}

type ProfileInput struct {
	FirstName string
	LastName  string
	Email     string
	// Password is optional; empty keeps the current one.
	Password string
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return users, nil
}

// ListActivated returns the users that can be picked as a reservation customer.
func (s *UserService) ListActivated(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.FindByState(ctx, domain.UserStateActivated)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByState -> %w", err)
	}

	return users, nil
}

func (s *UserService) CreateUser(ctx context.Context, in UserInput) (domain.User, error) {
	if in.Password == "" {
		return domain.User{}, ErrPasswordRequired
	}
	if err := validateRoleState(in.Role, in.State); err != nil {
		return domain.User{}, err
	}
	if err := checkEmailFree(ctx, s.repo, 0, in.Email); err != nil {
		return domain.User{}, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	created, err := s.repo.Create(ctx, domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		State:        in.State,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserEmailExists) {
			return domain.User{}, duplicateEmail(in.Email)
		}

		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// UpdateUser replaces name, email, role and state. The password is untouched.
func (s *UserService) UpdateUser(ctx context.Context, id uint, in UserInput) (domain.User, error) {
	if err := validateRoleState(in.Role, in.State); err != nil {
		return domain.User{}, err
	}

	return s.update(ctx, id, func(u *domain.User) {
		u.FirstName = in.FirstName
		u.LastName = in.LastName
		u.Email = in.Email
		u.Role = in.Role
		u.State = in.State
	}, in.Email)
}

// UpdateProfile is the self-service edit of the signed-in user.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (domain.User, error) {
	hash := ""
	if in.Password != "" {
		var err error
		if hash, err = hashPassword(in.Password); err != nil {
			return domain.User{}, err
		}
	}

	return s.update(ctx, id, func(u *domain.User) {
		u.FirstName = in.FirstName
		u.LastName = in.LastName
		u.Email = in.Email
		u.PasswordHash = hash
	}, in.Email)
}

func (s *UserService) update(ctx context.Context, id uint, apply func(u *domain.User), email string) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if err := checkEmailFree(ctx, s.repo, id, email); err != nil {
		return domain.User{}, err
	}

	apply(&user)

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUserEmailExists) {
			return domain.User{}, duplicateEmail(email)
		}

		return domain.User{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// DeleteUser removes the user. A missing user is not an error.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *UserService) ChangeRole(ctx context.Context, id uint, role string) error {
	r, err := domain.ParseRole(role)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRole, err)
	}

	if err := s.repo.UpdateRole(ctx, id, r); err != nil {
		return fmt.Errorf("s.repo.UpdateRole -> %w", err)
	}

	return nil
}

func (s *UserService) ChangeState(ctx context.Context, id uint, state string) error {
	st, err := domain.ParseUserState(state)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUserState, err)
	}

	if err := s.repo.UpdateState(ctx, id, st); err != nil {
		return fmt.Errorf("s.repo.UpdateState -> %w", err)
	}

	return nil
}

func validateRoleState(role domain.Role, state domain.UserState) error {
	if _, err := domain.ParseRole(string(role)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRole, err)
	}
	if !state.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidUserState, state)
	}

	return nil
}
