package domain

import (
	"fmt"
	"strconv"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleCustomer Role = "customer"
)

var Roles = []Role{RoleAdmin, RoleEmployee, RoleCustomer}

func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}

	return "", fmt.Errorf("unknown role %q", s)
}

// IsStaff reports whether the role may enter the back office.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// UserState values are persisted as integers.
type UserState int

const (
	UserStateActivated UserState = 1
	UserStateBlocked   UserState = 2
	UserStateFresh     UserState = 3
)

var UserStates = []UserState{UserStateActivated, UserStateBlocked, UserStateFresh}

func (s UserState) Valid() bool {
	return s >= UserStateActivated && s <= UserStateFresh
}

func (s UserState) String() string {
	switch s {
	case UserStateActivated:
		return "activated"
	case UserStateBlocked:
		return "blocked"
	case UserStateFresh:
		return "fresh"
	default:
		return "unknown"
	}
}

// ParseUserState accepts the numeric form ("1") or the name ("blocked").
func ParseUserState(s string) (UserState, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if st := UserState(n); st.Valid() {
			return st, nil
		}
		return 0, fmt.Errorf("unknown user state %q", s)
	}

	for _, st := range UserStates {
		if st.String() == s {
			return st, nil
		}
	}

	return 0, fmt.Errorf("unknown user state %q", s)
}

type User struct {
	ID           uint      `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	State        UserState `json:"state"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u User) Identity() Identity {
	return Identity{
		ID:        u.ID,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		State:     u.State,
	}
}
