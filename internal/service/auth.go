package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/pkg/jwthelper"
	"github.com/bikerent/bikerent-api/internal/repository"
)

var (
	ErrUserEmailExists   = repository.ErrUserEmailExists
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrPasswordRequired  = errors.New("password is required")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type PasswordResetNotifier interface {
	PasswordResetRequested(user domain.User, token string)
}

type SignUpInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type AuthService struct {
	repo       AuthUserRepository
	notifier   PasswordResetNotifier
	signingKey []byte
}

func NewAuthService(repo AuthUserRepository, notifier PasswordResetNotifier, signingKey []byte) *AuthService {
	return &AuthService{
		repo:       repo,
		notifier:   notifier,
		signingKey: signingKey,
	}
}

// Authenticate checks the credentials and returns the identity of the user.
// Failures are *domain.AuthenticationError telling a missing account apart
// from a wrong password.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (domain.Identity, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.Identity{}, &domain.AuthenticationError{Reason: domain.AuthenticationNotFound}
		}

		return domain.Identity{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.Identity{}, &domain.AuthenticationError{Reason: domain.AuthenticationInvalidPassword}
	}

	return user.Identity(), nil
}

// Identify rebuilds the identity of a signed-in user from storage.
func (s *AuthService) Identify(ctx context.Context, userID uint) (domain.Identity, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user.Identity(), nil
}

// SignUp registers a customer account. New accounts start fresh.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (domain.User, error) {
	if in.Password == "" {
		return domain.User{}, ErrPasswordRequired
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
		Role:         domain.RoleCustomer,
		State:        domain.UserStateFresh,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserEmailExists) {
			return domain.User{}, duplicateEmail(in.Email)
		}

		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// RequestPasswordReset mails a reset link when the address belongs to an
// account. Unknown addresses are ignored so callers cannot discover accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			zap.L().Info("password reset requested for unknown email")
			return nil
		}

		return fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	token, err := jwthelper.GenerateResetToken(s.signingKey, user.ID, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("jwthelper.GenerateResetToken -> %w", err)
	}

	s.notifier.PasswordResetRequested(user, token)

	return nil
}

// ResetPassword sets a new password for the user the token was issued to.
// A token only works while the password it was issued against is unchanged.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if password == "" {
		return ErrPasswordRequired
	}

	claims, err := jwthelper.ParseToken(s.signingKey, token, jwthelper.PurposeReset)
	if err != nil {
		return ErrInvalidResetToken
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidResetToken
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if jwthelper.Fingerprint(user.PasswordHash) != claims.Fingerprint {
		return ErrInvalidResetToken
	}

	if user.PasswordHash, err = hashPassword(password); err != nil {
		return err
	}
	if _, err = s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	return string(hash), nil
}

type emailFinder interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// checkEmailFree fails when email belongs to a user other than id.
func checkEmailFree(ctx context.Context, repo emailFinder, id uint, email string) error {
	existing, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}

		return fmt.Errorf("repo.FindByEmail -> %w", err)
	}
	if existing.ID != id {
		return duplicateEmail(email)
	}

	return nil
}

func duplicateEmail(email string) error {
	return &domain.DuplicateNameError{Entity: "user", Field: "email", Value: email}
}
