package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/bikerent/bikerent-api/internal/domain"
)

func roleValues() []interface{} {
	values := make([]interface{}, 0, len(domain.Roles))
	for _, r := range domain.Roles {
		values = append(values, string(r))
	}

	return values
}

func userStateValues() []interface{} {
	values := make([]interface{}, 0, len(domain.UserStates))
	for _, s := range domain.UserStates {
		values = append(values, int(s))
	}

	return values
}

// UserRequest is the back office user form. Password is only read when
// creating a user.
type UserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	State     int    `json:"state"`
}

func (req *UserRequest) Validate(create bool) error {
	fields := []*validation.FieldRules{
		validation.Field(&req.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Role, validation.Required, validation.In(roleValues()...)),
		validation.Field(&req.State, validation.Required, validation.In(userStateValues()...)),
	}
	if create {
		fields = append(fields, validation.Field(&req.Password, validation.Required))
	}

	if err := validation.ValidateStruct(req, fields...); err != nil {
		return err
	}
	if create {
		return validatePassword(req.Password, req.Password)
	}

	return nil
}

type RoleRequest struct {
	Role string `json:"role"`
}

func (req *RoleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Role, validation.Required),
	)
}

// StateRequest carries a state as its numeric string form, the way the grid
// quick actions submit it.
type StateRequest struct {
	State string `json:"state"`
}

func (req *StateRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.State, validation.Required),
	)
}
