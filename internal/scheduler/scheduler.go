// Package scheduler runs named background jobs on periodic or one-off
// triggers, gated by host constraints, with bounded retry on failure.
// It mirrors the job lifecycle of a mobile work scheduler: jobs move
// Enqueued → Running → {Succeeded | Retrying → Running | Failed}, periodic
// jobs re-enqueue after every run, and scheduling a name that is already
// live keeps the existing job instead of replacing it.
package scheduler

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"michauchera/internal/logger"
)

// State is the lifecycle state of a scheduled job.
type State string

const (
	StateEnqueued  State = "enqueued"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateRetrying  State = "retrying"
	StateFailed    State = "failed"
)

const (
	// maxAttempts bounds the retry budget for one run.
	maxAttempts = 3

	// defaultBackoff seeds the exponential backoff between attempts.
	defaultBackoff = 10 * time.Second

	// gatePollInterval is how often a delayed one-off job re-checks an
	// unsatisfied constraint gate.
	gatePollInterval = 30 * time.Second
)

// Job is the unit of work a trigger runs. A non-nil error is treated as a
// transient fault and retried while attempts remain.
type Job func(ctx context.Context) error

// Constraints gate when a job may execute.
type Constraints struct {
	RequireNetwork       bool
	RequireBatteryNotLow bool
}

// ConstraintGate answers whether the host currently satisfies a constraint
// set. The default gate always says yes; deployments embed their own checks.
type ConstraintGate interface {
	Satisfied(c Constraints) bool
}

type alwaysSatisfied struct{}

func (alwaysSatisfied) Satisfied(Constraints) bool { return true }

// AlwaysSatisfied returns a gate that never defers a run.
func AlwaysSatisfied() ConstraintGate { return alwaysSatisfied{} }

type jobEntry struct {
	state  State
	cancel context.CancelFunc
}

// Scheduler tracks named jobs and their states.
type Scheduler struct {
	gate     ConstraintGate
	backoff  time.Duration
	gatePoll time.Duration

	mu   sync.Mutex
	jobs map[string]*jobEntry
	wg   sync.WaitGroup
}

// New creates a Scheduler using the given constraint gate.
func New(gate ConstraintGate) *Scheduler {
	if gate == nil {
		gate = AlwaysSatisfied()
	}
	return &Scheduler{
		gate:     gate,
		backoff:  defaultBackoff,
		gatePoll: gatePollInterval,
		jobs:     make(map[string]*jobEntry),
	}
}

// register claims a name under the keep-existing policy. It returns false
// when a live job already owns the name.
func (s *Scheduler) register(name string, cancel context.CancelFunc) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.jobs[name]; ok {
		if entry.state == StateEnqueued || entry.state == StateRunning || entry.state == StateRetrying {
			return false
		}
	}
	s.jobs[name] = &jobEntry{state: StateEnqueued, cancel: cancel}
	return true
}

func (s *Scheduler) setState(name string, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.jobs[name]; ok {
		entry.state = state
	}
}

// SchedulePeriodic enqueues a job that runs once per interval, somewhere
// inside the flex window at the end of each interval. Returns false when a
// job with the same name is already enqueued or running (it is kept).
func (s *Scheduler) SchedulePeriodic(ctx context.Context, name string, interval, flex time.Duration, c Constraints, job Job) bool {
	runCtx, cancel := context.WithCancel(ctx)
	if !s.register(name, cancel) {
		cancel()
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			timer := time.NewTimer(flexedDelay(interval, flex))
			select {
			case <-runCtx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			if !s.gate.Satisfied(c) {
				logger.Get().Infow("constraints unsatisfied, deferring run", "job", name)
				continue
			}

			s.runWithRetry(runCtx, name, job)

			// Periodic jobs return to the queue after every run.
			select {
			case <-runCtx.Done():
				return
			default:
				s.setState(name, StateEnqueued)
			}
		}
	}()
	return true
}

// ScheduleOnce enqueues a job that runs a single time after delay. The same
// keep-existing policy applies to the name.
func (s *Scheduler) ScheduleOnce(ctx context.Context, name string, delay time.Duration, c Constraints, job Job) bool {
	runCtx, cancel := context.WithCancel(ctx)
	if !s.register(name, cancel) {
		cancel()
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-runCtx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}

		// A one-off waits for its constraints instead of skipping the run.
		for !s.gate.Satisfied(c) {
			logger.Get().Infow("constraints unsatisfied, waiting", "job", name)
			timer := time.NewTimer(s.gatePoll)
			select {
			case <-runCtx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}

		s.runWithRetry(runCtx, name, job)
	}()
	return true
}

// runWithRetry executes one run of the job with the bounded retry budget and
// exponential backoff, recording states as it goes. The cause of a failure
// is not inspected: every error takes the transient-retry path.
func (s *Scheduler) runWithRetry(ctx context.Context, name string, job Job) {
	attempts := 0
	backoff := retry.WithMaxRetries(maxAttempts-1, retry.NewExponential(s.backoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		s.setState(name, StateRunning)
		if err := job(ctx); err != nil {
			if attempts < maxAttempts {
				logger.Get().Warnw("job attempt failed, will retry",
					"job", name, "attempt", attempts, "error", err)
				s.setState(name, StateRetrying)
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})

	if err != nil {
		// Terminal: visible only through Status, never to the end user.
		logger.Get().Errorw("job failed", "job", name, "attempts", attempts, "error", err)
		s.setState(name, StateFailed)
		return
	}
	s.setState(name, StateSucceeded)
}

// Cancel stops the job scheduled under name and forgets it.
func (s *Scheduler) Cancel(name string) {
	s.mu.Lock()
	entry, ok := s.jobs[name]
	if ok {
		delete(s.jobs, name)
	}
	s.mu.Unlock()
	if ok {
		entry.cancel()
	}
}

// Status returns the current state of the named job.
func (s *Scheduler) Status(name string) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.jobs[name]
	if !ok {
		return "", false
	}
	return entry.state, true
}

// Stop cancels every job and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for name, entry := range s.jobs {
		entry.cancel()
		delete(s.jobs, name)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// flexedDelay places the next run inside the flex window at the end of the
// interval: [interval-flex, interval).
func flexedDelay(interval, flex time.Duration) time.Duration {
	if flex <= 0 || flex >= interval {
		return interval
	}
	return interval - flex + time.Duration(rand.Int63n(int64(flex)))
}
