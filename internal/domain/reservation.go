package domain

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the ISO date format used for rental dates.
const DateLayout = "2006-01-02"

// ReservationState is a persisted lifecycle state. Delayed is not one of them:
// it only exists as a DisplayState.
type ReservationState int

const (
	StateReservation ReservationState = iota
	StateCancelled
	StateOngoing
	StateReturned
)

var ReservationStates = []ReservationState{StateReservation, StateCancelled, StateOngoing, StateReturned}

func (s ReservationState) Valid() bool {
	return s >= StateReservation && s <= StateReturned
}

func (s ReservationState) String() string {
	return DisplayState(s).String()
}

// ParseReservationState parses the numeric form of a storable state.
func ParseReservationState(s string) (ReservationState, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("reservation state %q is not a number", s)
	}

	st := ReservationState(n)
	if !st.Valid() {
		return 0, fmt.Errorf("reservation state %d is not storable", n)
	}

	return st, nil
}

// DisplayState is the state shown to users: a stored state, or Delayed.
type DisplayState int

const DisplayDelayed DisplayState = 4

func (s DisplayState) String() string {
	switch s {
	case DisplayState(StateReservation):
		return "reservation"
	case DisplayState(StateCancelled):
		return "cancelled"
	case DisplayState(StateOngoing):
		return "ongoing"
	case DisplayState(StateReturned):
		return "returned"
	case DisplayDelayed:
		return "delayed"
	default:
		return "unknown"
	}
}

type Reservation struct {
	ID          uint             `json:"id"`
	CustomerID  uint             `json:"customer_id"`
	Customer    *User            `json:"customer,omitempty"`
	CreatedByID uint             `json:"created_by_id"`
	CreatedBy   *User            `json:"created_by,omitempty"`
	FromDate    time.Time        `json:"from_date"`
	ToDate      time.Time        `json:"to_date"`
	BikeIDs     []uint           `json:"bike_ids"`
	Bikes       []Bike           `json:"bikes,omitempty"`
	State       ReservationState `json:"state"`
	Price       int              `json:"price"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Days is the number of whole rental days the reservation covers.
func (r Reservation) Days() int {
	return DaysBetween(r.FromDate, r.ToDate)
}

func (r Reservation) EffectiveState(now time.Time, rule DelayRule) DisplayState {
	if rule != nil && rule(r, now) {
		return DisplayDelayed
	}

	return DisplayState(r.State)
}

// DelayRule decides whether a reservation should be shown as delayed.
type DelayRule func(r Reservation, now time.Time) bool

// LegacyDelayRule reports delayed for an ongoing reservation whose start date
// is less than a second away from now, so the check almost never fires.
// The whole difference is compared, not only the seconds field of the
// interval: a reservation started exactly five minutes ago is not delayed.
func LegacyDelayRule(r Reservation, now time.Time) bool {
	if r.State != StateOngoing {
		return false
	}

	diff := now.Sub(r.FromDate)
	if diff < 0 {
		diff = -diff
	}

	return int64(diff/time.Second) <= 0
}

// OverdueDelayRule reports delayed for an ongoing reservation whose end date
// has passed.
func OverdueDelayRule(r Reservation, now time.Time) bool {
	return r.State == StateOngoing && now.After(r.ToDate)
}

func DelayRuleByName(name string) (DelayRule, error) {
	switch name {
	case "", "legacy":
		return LegacyDelayRule, nil
	case "overdue":
		return OverdueDelayRule, nil
	default:
		return nil, fmt.Errorf("unknown delay rule %q", name)
	}
}

// DaysBetween counts calendar days from from to to, ignoring the time of day.
func DaysBetween(from, to time.Time) int {
	return int(Midnight(to).Sub(Midnight(from)).Hours() / 24)
}

// Midnight truncates t to the start of its UTC calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RentalPrice is the sum of the bikes' daily prices times the day count.
func RentalPrice(bikes []Bike, days int) int {
	sum := 0
	for _, b := range bikes {
		sum += b.Price
	}

	return sum * days
}
