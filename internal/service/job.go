package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/bikerent/bikerent-api/internal/domain"
)

type StateCounter interface {
	StateCounts(ctx context.Context) (map[domain.DisplayState]int64, error)
}

type StateGauge interface {
	SetReservationStates(counts map[string]int64)
}

// JobService runs the periodic back office jobs.
type JobService struct {
	counter StateCounter
	gauge   StateGauge
	cron    *cron.Cron
	timeout time.Duration
}

func NewJobService(counter StateCounter, gauge StateGauge) *JobService {
	return &JobService{
		counter: counter,
		gauge:   gauge,
		cron:    cron.New(),
		timeout: time.Minute,
	}
}

// ReportReservationStates publishes the number of reservations in each
// effective state, delayed included.
func (s *JobService) ReportReservationStates(ctx context.Context) error {
	counts, err := s.counter.StateCounts(ctx)
	if err != nil {
		return fmt.Errorf("s.counter.StateCounts -> %w", err)
	}

	byName := make(map[string]int64, len(counts))
	for state, n := range counts {
		byName[state.String()] = n
	}
	s.gauge.SetReservationStates(byName)

	zap.L().Debug("reported reservation states", zap.Any("counts", byName))

	return nil
}

// Start schedules the jobs with the given cron spec and runs one report right
// away so the gauges are filled before the first tick.
func (s *JobService) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runReport); err != nil {
		return fmt.Errorf("s.cron.AddFunc -> %w", err)
	}

	s.runReport()
	s.cron.Start()

	return nil
}

// Stop waits for running jobs to finish.
func (s *JobService) Stop() {
	<-s.cron.Stop().Done()
}

func (s *JobService) runReport() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.ReportReservationStates(ctx); err != nil {
		zap.L().Error("reservation state report failed", zap.Error(err))
	}
}
