package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikerent/bikerent-api/internal/domain"
)

var signingKey = []byte("test-signing-key")

func TestAuthService_Authenticate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := NewAuthService(e.users, &recordingNotifier{}, signingKey)
	u := e.user(t, "eva@example.com", domain.RoleEmployee, domain.UserStateActivated)

	id, err := s.Authenticate(ctx, "eva@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.ID)
	assert.True(t, id.IsStaff())

	_, err = s.Authenticate(ctx, "eva@example.com", "wrong")
	var authErr *domain.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, domain.AuthenticationInvalidPassword, authErr.Reason)

	_, err = s.Authenticate(ctx, "nobody@example.com", "secret123")
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, domain.AuthenticationNotFound, authErr.Reason)
	assert.ErrorIs(t, err, &domain.AuthenticationError{})
}

func TestAuthService_GuestAccountCannotSignIn(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := NewAuthService(e.users, &recordingNotifier{}, signingKey)

	_, err := e.users.Create(ctx, domain.User{
		FirstName: "Petr",
		LastName:  "Dvorak",
		Email:     "petr@example.com",
		Role:      domain.RoleCustomer,
		State:     domain.UserStateBlocked,
	})
	require.NoError(t, err)

	_, err = s.Authenticate(ctx, "petr@example.com", "")
	var authErr *domain.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, domain.AuthenticationInvalidPassword, authErr.Reason)
}

func TestAuthService_SignUp(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := NewAuthService(e.users, &recordingNotifier{}, signingKey)

	u, err := s.SignUp(ctx, SignUpInput{FirstName: "Eva", LastName: "Svobodova", Email: "eva@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, u.Role)
	assert.Equal(t, domain.UserStateFresh, u.State)
	assert.NotEqual(t, "secret123", u.PasswordHash)

	_, err = s.SignUp(ctx, SignUpInput{Email: "eva@example.com", Password: "other1234"})
	var dup *domain.DuplicateNameError
	assert.ErrorAs(t, err, &dup)

	_, err = s.SignUp(ctx, SignUpInput{Email: "jan@example.com"})
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestAuthService_PasswordReset(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	n := &recordingNotifier{}
	s := NewAuthService(e.users, n, signingKey)
	e.user(t, "eva@example.com", domain.RoleCustomer, domain.UserStateActivated)

	require.NoError(t, s.RequestPasswordReset(ctx, "nobody@example.com"))
	assert.Empty(t, n.resets)

	require.NoError(t, s.RequestPasswordReset(ctx, "eva@example.com"))
	require.Len(t, n.resets, 1)
	token := n.resets[0]

	assert.ErrorIs(t, s.ResetPassword(ctx, "garbage", "newpass123"), ErrInvalidResetToken)
	assert.ErrorIs(t, s.ResetPassword(ctx, token, ""), ErrPasswordRequired)

	require.NoError(t, s.ResetPassword(ctx, token, "newpass123"))

	_, err := s.Authenticate(ctx, "eva@example.com", "newpass123")
	require.NoError(t, err)

	// The token was bound to the old password.
	assert.ErrorIs(t, s.ResetPassword(ctx, token, "again1234"), ErrInvalidResetToken)
}
