package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/bikerent/bikerent-api/internal/domain"
)

type AddCartItemRequest struct {
	BikeID uint `json:"bike_id"`
}

func (req *AddCartItemRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BikeID, validation.Required),
	)
}

type DateRangeRequest struct {
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
}

func (req *DateRangeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FromDate, validation.Required, validation.Date(domain.DateLayout)),
		validation.Field(&req.ToDate, validation.Required, validation.Date(domain.DateLayout)),
	)
}

// CheckoutRequest carries the contact fields a guest fills in. Signed-in
// customers only send the dates and the terms agreement.
type CheckoutRequest struct {
	FromDate       string `json:"from_date"`
	ToDate         string `json:"to_date"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	TermsAgreement bool   `json:"terms_agreement"`
}

func (req *CheckoutRequest) Validate(guest bool) error {
	fields := []*validation.FieldRules{
		validation.Field(&req.FromDate, validation.Required, validation.Date(domain.DateLayout)),
		validation.Field(&req.ToDate, validation.Required, validation.Date(domain.DateLayout)),
	}
	if guest {
		fields = append(fields,
			validation.Field(&req.FirstName, validation.Required),
			validation.Field(&req.LastName, validation.Required),
			validation.Field(&req.Email, validation.Required, is.Email),
		)
	}

	return validation.ValidateStruct(req, fields...)
}
