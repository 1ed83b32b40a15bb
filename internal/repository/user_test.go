package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikerent/bikerent-api/internal/domain"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.user(t, "eva@example.com")
	assert.NotZero(t, created.ID)

	byEmail, err := f.users.FindByEmail(ctx, "eva@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, domain.RoleCustomer, byEmail.Role)
	assert.Equal(t, domain.UserStateActivated, byEmail.State)

	_, err = f.users.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	f := newFixture(t)

	f.user(t, "eva@example.com")
	_, err := f.users.Create(context.Background(), domain.User{Email: "eva@example.com", Role: domain.RoleCustomer, State: domain.UserStateFresh})

	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestUserRepository_UpdateKeepsPasswordWhenEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "eva@example.com")
	u.FirstName = "Eliska"
	u.PasswordHash = ""

	updated, err := f.users.Update(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, "Eliska", updated.FirstName)
	assert.Equal(t, "hash", updated.PasswordHash)

	_, err = f.users.Update(ctx, domain.User{ID: 999, Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_RoleStateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "eva@example.com")
	require.NoError(t, f.users.UpdateRole(ctx, u.ID, domain.RoleEmployee))
	require.NoError(t, f.users.UpdateState(ctx, u.ID, domain.UserStateBlocked))

	found, err := f.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, found.Role)
	assert.Equal(t, domain.UserStateBlocked, found.State)

	blocked, err := f.users.FindByState(ctx, domain.UserStateBlocked)
	require.NoError(t, err)
	assert.Len(t, blocked, 1)

	assert.ErrorIs(t, f.users.UpdateRole(ctx, 999, domain.RoleAdmin), ErrUserNotFound)

	require.NoError(t, f.users.Delete(ctx, u.ID))
	require.NoError(t, f.users.Delete(ctx, u.ID))
	_, err = f.users.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
