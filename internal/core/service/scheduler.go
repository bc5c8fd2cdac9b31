package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

var ErrHandlerPanic = errors.New("handler panicked")

// Job is one unit of scheduled work. Fault is called with the slot still held
// when Run fails or panics.
type Job struct {
	Name  string
	Seq   uint64
	Run   func(ctx context.Context) error
	Fault func(ctx context.Context, err error)
}

// Scheduler runs jobs with at most maxConcurrency of them in flight. Slots are
// granted first come, first served; with a single slot jobs run strictly one
// after another in submission order.
type Scheduler struct {
	slots   *semaphore.Weighted
	metrics *Metrics
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler. maxConcurrency <= 0 means unbounded.
func NewScheduler(maxConcurrency int, metrics *Metrics) *Scheduler {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	s := &Scheduler{metrics: metrics}
	if maxConcurrency > 0 {
		s.slots = semaphore.NewWeighted(int64(maxConcurrency))
	}

	log.Info().Int("maxConcurrency", maxConcurrency).Msg("scheduler configured")

	return s
}

// Submit blocks until a slot is free, then starts the job on its own goroutine.
// It only fails when ctx ends while waiting. The job itself runs detached from
// ctx cancellation and always runs to completion.
func (s *Scheduler) Submit(ctx context.Context, job Job) error {
	if s.slots != nil {
		start := time.Now()

		s.metrics.Waiting.Inc()
		err := s.slots.Acquire(ctx, 1)
		s.metrics.Waiting.Dec()
		if err != nil {
			return fmt.Errorf("waiting for slot: %w", err)
		}

		s.metrics.AdmissionWait.Observe(time.Since(start).Seconds())
	}

	s.metrics.InFlight.Inc()
	s.wg.Add(1)

	go s.run(context.WithoutCancel(ctx), job)

	return nil
}

// Wait blocks until every admitted job has finished.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context, job Job) {
	defer s.wg.Done()
	defer s.metrics.InFlight.Dec()
	if s.slots != nil {
		defer s.slots.Release(1)
	}

	l := log.With().Str("job", job.Name).Uint64("seq", job.Seq).Logger()
	l.Debug().Msg("job admitted")

	err := protect(func() error { return job.Run(ctx) })
	if err == nil {
		l.Debug().Msg("job done")
		return
	}

	l.Error().Err(err).Msg("job failed")

	if job.Fault == nil {
		return
	}
	if err := protect(func() error { job.Fault(ctx, err); return nil }); err != nil {
		l.Error().Err(err).Msg("fault handler failed")
	}
}

func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()

	return fn()
}
