package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikerent/bikerent-api/internal/domain"
)

type fixedCounter struct {
	counts map[domain.DisplayState]int64
	err    error
}

func (c fixedCounter) StateCounts(context.Context) (map[domain.DisplayState]int64, error) {
	return c.counts, c.err
}

type recordingGauge struct {
	last map[string]int64
}

func (g *recordingGauge) SetReservationStates(counts map[string]int64) {
	g.last = counts
}

func TestJobService_ReportReservationStates(t *testing.T) {
	g := &recordingGauge{}
	s := NewJobService(fixedCounter{counts: map[domain.DisplayState]int64{
		domain.DisplayState(domain.StateOngoing): 3,
		domain.DisplayDelayed:                    1,
	}}, g)

	require.NoError(t, s.ReportReservationStates(context.Background()))
	assert.Equal(t, map[string]int64{"ongoing": 3, "delayed": 1}, g.last)
}

func TestJobService_ReportFailureLeavesGauge(t *testing.T) {
	g := &recordingGauge{}
	s := NewJobService(fixedCounter{err: errors.New("db down")}, g)

	assert.Error(t, s.ReportReservationStates(context.Background()))
	assert.Nil(t, g.last)
}

func TestJobService_StartRejectsBadSpec(t *testing.T) {
	s := NewJobService(fixedCounter{}, &recordingGauge{})

	assert.Error(t, s.Start("every now and then"))
}

func TestJobService_StartRunsImmediately(t *testing.T) {
	g := &recordingGauge{}
	s := NewJobService(fixedCounter{counts: map[domain.DisplayState]int64{}}, g)

	require.NoError(t, s.Start("@every 1h"))
	defer s.Stop()

	assert.NotNil(t, g.last)
}
