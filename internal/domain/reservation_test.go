package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := time.Parse(DateLayout, s)
	require.NoError(t, err)

	return d
}

func TestRentalPrice(t *testing.T) {
	bikes := []Bike{{Price: 500}, {Price: 750}}
	days := DaysBetween(date(t, "2024-05-01"), date(t, "2024-05-04"))

	assert.Equal(t, 3, days)
	assert.Equal(t, 3750, RentalPrice(bikes, days))
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)
	to := time.Date(2024, 5, 2, 0, 15, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysBetween(from, to))
}

func TestParseReservationState(t *testing.T) {
	tests := []struct {
		in      string
		want    ReservationState
		wantErr bool
	}{
		{in: "0", want: StateReservation},
		{in: "1", want: StateCancelled},
		{in: "2", want: StateOngoing},
		{in: "3", want: StateReturned},
		{in: "4", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "ongoing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReservationState(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLegacyDelayRule(t *testing.T) {
	from := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r := Reservation{FromDate: from, ToDate: from.AddDate(0, 0, 2), State: StateOngoing}

	assert.True(t, LegacyDelayRule(r, from))
	assert.True(t, LegacyDelayRule(r, from.Add(500*time.Millisecond)))
	assert.False(t, LegacyDelayRule(r, from.Add(time.Second)))
	assert.False(t, LegacyDelayRule(r, from.Add(5*time.Minute)))
	assert.False(t, LegacyDelayRule(r, from.Add(-2*time.Hour)))
	assert.False(t, LegacyDelayRule(r, from.AddDate(0, 0, 5)))

	r.State = StateReservation
	assert.False(t, LegacyDelayRule(r, from))
}

func TestOverdueDelayRule(t *testing.T) {
	from := date(t, "2024-05-01")
	r := Reservation{FromDate: from, ToDate: from.AddDate(0, 0, 2), State: StateOngoing}

	assert.False(t, OverdueDelayRule(r, from.AddDate(0, 0, 1)))
	assert.True(t, OverdueDelayRule(r, from.AddDate(0, 0, 3)))

	r.State = StateReturned
	assert.False(t, OverdueDelayRule(r, from.AddDate(0, 0, 3)))
}

func TestReservation_EffectiveState(t *testing.T) {
	from := date(t, "2024-05-01")
	r := Reservation{FromDate: from, ToDate: from.AddDate(0, 0, 2), State: StateOngoing}
	late := from.AddDate(0, 0, 10)

	assert.Equal(t, DisplayState(StateOngoing), r.EffectiveState(late, LegacyDelayRule))
	assert.Equal(t, DisplayDelayed, r.EffectiveState(late, OverdueDelayRule))
	assert.Equal(t, "delayed", r.EffectiveState(late, OverdueDelayRule).String())
	assert.Equal(t, DisplayState(StateOngoing), r.EffectiveState(late, nil))
}

func TestDelayRuleByName(t *testing.T) {
	_, err := DelayRuleByName("legacy")
	assert.NoError(t, err)
	_, err = DelayRuleByName("overdue")
	assert.NoError(t, err)
	_, err = DelayRuleByName("never")
	assert.Error(t, err)
}
