package domain

import (
	"errors"
	"fmt"
)

type AuthenticationReason int

const (
	AuthenticationNotFound AuthenticationReason = iota + 1
	AuthenticationInvalidPassword
)

func (r AuthenticationReason) String() string {
	switch r {
	case AuthenticationNotFound:
		return "identity not found"
	case AuthenticationInvalidPassword:
		return "invalid password"
	default:
		return "authentication failed"
	}
}

type AuthenticationError struct {
	Reason AuthenticationReason
}

func (e *AuthenticationError) Error() string {
	return e.Reason.String()
}

// Is matches any *AuthenticationError with the same reason, or any reason when
// the target reason is zero.
func (e *AuthenticationError) Is(target error) bool {
	var t *AuthenticationError
	if !errors.As(target, &t) {
		return false
	}

	return t.Reason == 0 || t.Reason == e.Reason
}

// DuplicateNameError reports a uniqueness clash on a named field.
type DuplicateNameError struct {
	Entity string
	Field  string
	Value  string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}
