package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserState(t *testing.T) {
	st, err := ParseUserState("2")
	require.NoError(t, err)
	assert.Equal(t, UserStateBlocked, st)

	st, err = ParseUserState("fresh")
	require.NoError(t, err)
	assert.Equal(t, UserStateFresh, st)

	_, err = ParseUserState("0")
	assert.Error(t, err)
	_, err = ParseUserState("sleeping")
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("employee")
	require.NoError(t, err)
	assert.True(t, r.IsStaff())
	assert.False(t, RoleCustomer.IsStaff())

	_, err = ParseRole("root")
	assert.Error(t, err)
}

func TestUser_Identity(t *testing.T) {
	u := User{ID: 7, FirstName: "Jan", LastName: "Novak", Email: "jan@example.com", Role: RoleAdmin, State: UserStateActivated}

	assert.Equal(t, "Jan Novak", u.FullName())
	assert.Equal(t, Identity{ID: 7, Role: RoleAdmin, FirstName: "Jan", LastName: "Novak", Email: "jan@example.com", State: UserStateActivated}, u.Identity())
}

func TestBike_FullName(t *testing.T) {
	b := Bike{Name: "Stumpjumper"}
	assert.Equal(t, "Stumpjumper", b.FullName())

	b.Manufacturer = &Manufacturer{Name: "Specialized"}
	assert.Equal(t, "Specialized Stumpjumper", b.FullName())
}

func TestAuthenticationError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped -> %w", &AuthenticationError{Reason: AuthenticationInvalidPassword})

	assert.True(t, errors.Is(err, &AuthenticationError{}))
	assert.True(t, errors.Is(err, &AuthenticationError{Reason: AuthenticationInvalidPassword}))
	assert.False(t, errors.Is(err, &AuthenticationError{Reason: AuthenticationNotFound}))
}
