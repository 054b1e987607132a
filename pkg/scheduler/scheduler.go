// Package scheduler implements the Pulse batch scheduler engine: the
// in-memory job/partition model, submission validation, the periodic
// scheduling cycle, and the metrics it publishes every cycle.
//
// A Scheduler is constructed explicitly (scheduler.New) and owns every
// piece of mutable state it touches — the job store, the partition
// table, its random source, and its Prometheus registry. Nothing here is
// a package-level singleton, so a test may build as many independent
// schedulers as it needs.
package scheduler

import (
	"math/rand"
	"sync"
	"time"

	"github.com/cuemby/pulse-scheduler/pkg/log"
	"github.com/cuemby/pulse-scheduler/pkg/metrics"
	"github.com/cuemby/pulse-scheduler/pkg/store"
	"github.com/cuemby/pulse-scheduler/pkg/types"
	"github.com/rs/zerolog"
)

const cycleInterval = time.Second

// randSource is the fraction of math/rand.Rand the stochastic completion
// roll in §4.3 needs. Tests supply fakes that satisfy it without going
// through a seeded PRNG.
type randSource interface {
	Float64() float64
}

// Scheduler is the single owner of the job store, the partition table,
// and the background cycle that advances them. Every mutating operation
// — submission, cancellation, and each cycle step — serializes through mu.
type Scheduler struct {
	mu      sync.Mutex
	store   *store.Store
	metrics *metrics.Registry
	logger  zerolog.Logger
	rng     randSource

	idCounter uint64

	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithRand overrides the scheduler's random source. Tests use this to pin
// the stochastic completion roll in §4.3 to a deterministic or
// always/never-fire sequence.
func WithRand(r randSource) Option {
	return func(s *Scheduler) { s.rng = r }
}

// WithPartitions replaces the default partition set with the given one.
// Deployments with a configuration file use this to resize or rename
// partitions without touching code.
func WithPartitions(partitions []*types.Partition) Option {
	return func(s *Scheduler) { s.store = store.NewWithPartitions(partitions) }
}

// New builds a Scheduler seeded with the default partition set. It does
// not start the background cycle; call Start for that.
func New(version string, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:   store.New(),
		metrics: metrics.NewRegistry(version),
		logger:  log.WithComponent("scheduler"),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Metrics returns the scheduler's owned Prometheus registry, for mounting
// its HTTP handler.
func (s *Scheduler) Metrics() *metrics.Registry {
	return s.metrics
}

// Running reports whether the background cycle is currently active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start begins the scheduling cycle loop in a background goroutine. Safe
// to call once; a second call before Stop is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	go s.run()
	s.logger.Info().Msg("scheduler started")
}

// Stop signals the background cycle to exit and waits for the in-flight
// cycle, if any, to complete before returning.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	done := s.doneCh
	s.mu.Unlock()

	<-done
	s.logger.Info().Msg("scheduler stopped")
}

// run is the background scheduling cycle: pace at one cycle per second,
// observe cycle duration, and keep going after a transient error.
func (s *Scheduler) run() {
	defer close(s.doneCh)

	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		start := time.Now()
		if err := s.runCycle(); err != nil {
			s.logger.Error().Err(err).Msg("scheduling cycle failed")
			select {
			case <-time.After(time.Second):
			case <-s.stopCh:
				return
			}
			continue
		}
		elapsed := time.Since(start)

		sleep := cycleInterval - elapsed
		if sleep < 100*time.Millisecond {
			sleep = 100 * time.Millisecond
		}
		select {
		case <-time.After(sleep):
		case <-s.stopCh:
			return
		}
	}
}

// runCycle performs one scheduling cycle under the global lock: advance
// running jobs, admit pending jobs, then republish metrics.
func (s *Scheduler) runCycle() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer := metrics.NewTimer()
	now := time.Now()

	s.advanceRunningJobs(now)
	admitted := s.admitPendingJobs(now)
	s.metrics.SchedulerBackfillJobs.Set(float64(admitted))
	s.publishMetrics()

	timer.ObserveDuration(s.metrics.SchedulerCycleSeconds)
	return nil
}

func (s *Scheduler) nextJobID() string {
	s.idCounter++
	return zeroPad(s.idCounter, 6)
}

func zeroPad(n uint64, width int) string {
	digits := []byte{}
	for n > 0 || len(digits) == 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	for len(digits) < width {
		digits = append([]byte{'0'}, digits...)
	}
	return string(digits)
}
