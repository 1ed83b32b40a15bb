package response

import (
	"github.com/bikerent/bikerent-api/internal/domain"
)

type LoginResponse struct {
	Token string          `json:"token"`
	User  domain.Identity `json:"user"`
}

type Message struct {
	Message string `json:"message"`
}

type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Cart struct {
	Bikes     []domain.Bike `json:"bikes"`
	Price     int           `json:"price"`
	DateRange DateRange     `json:"date_range"`
}

type Products struct {
	Bikes     []domain.Bike `json:"bikes"`
	DateRange DateRange     `json:"date_range"`
}

type Reservation struct {
	domain.Reservation
	// EffectiveState is the state to display, delayed included.
	EffectiveState     domain.DisplayState `json:"effective_state"`
	EffectiveStateName string              `json:"effective_state_name"`
}

func NewReservation(res domain.Reservation, state domain.DisplayState) Reservation {
	return Reservation{
		Reservation:        res,
		EffectiveState:     state,
		EffectiveStateName: state.String(),
	}
}

// StateChange answers a quick state change. Reload asks interactive clients
// to refresh the reservation grid.
type StateChange struct {
	Changed bool `json:"changed"`
	Reload  bool `json:"reload"`
}
