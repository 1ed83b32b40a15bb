package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/bikerent/bikerent-api/internal/domain"
)

type ReservationRequest struct {
	CustomerID uint   `json:"customer_id"`
	FromDate   string `json:"from_date"`
	ToDate     string `json:"to_date"`
	BikeIDs    []uint `json:"bike_ids"`
	State      int    `json:"state"`
}

func (req *ReservationRequest) Validate() error {
	states := make([]interface{}, 0, len(domain.ReservationStates))
	for _, s := range domain.ReservationStates {
		states = append(states, int(s))
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.CustomerID, validation.Required),
		validation.Field(&req.FromDate, validation.Required, validation.Date(domain.DateLayout)),
		validation.Field(&req.ToDate, validation.Required, validation.Date(domain.DateLayout)),
		validation.Field(&req.BikeIDs, validation.Required),
		validation.Field(&req.State, validation.In(states...)),
	)
}
