package spend_broadcaster

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var ErrRestartsExhausted = errors.New("spend broadcaster failed and will not be restarted")

type Runner interface {
	Run(ctx context.Context) error
}

// Supervisor runs a Runner and restarts it with an exponential backoff after a fatal error.
type Supervisor struct {
	runner             Runner
	logger             *slog.Logger
	stats              *Stats
	restartEnabled     bool
	newBackOff         func() backoff.BackOff
	healthyRunDuration time.Duration
	now                func() time.Time

	running atomic.Bool
}

type SupervisorOption func(*Supervisor)

// WithRestartPolicy configures restarts. With enabled=false the first fatal error is returned
// from Run.
func WithRestartPolicy(enabled bool, initialInterval, maxInterval, maxElapsedTime time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		s.restartEnabled = enabled
		s.newBackOff = func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = initialInterval
			bo.MaxInterval = maxInterval
			bo.MaxElapsedTime = maxElapsedTime
			return bo
		}
	}
}

// WithBackOff replaces the backoff between restarts and enables restarts.
func WithBackOff(newBackOff func() backoff.BackOff) SupervisorOption {
	return func(s *Supervisor) {
		s.restartEnabled = true
		s.newBackOff = newBackOff
	}
}

// WithHealthyRunDuration resets the backoff if the runner failed after running at least d.
func WithHealthyRunDuration(d time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		s.healthyRunDuration = d
	}
}

func WithSupervisorStats(stats *Stats) SupervisorOption {
	return func(s *Supervisor) {
		s.stats = stats
	}
}

func WithSupervisorNow(nowFunc func() time.Time) SupervisorOption {
	return func(s *Supervisor) {
		s.now = nowFunc
	}
}

func NewSupervisor(runner Runner, logger *slog.Logger, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		runner:             runner,
		logger:             logger.With(slog.String("module", "supervisor")),
		restartEnabled:     false,
		newBackOff:         func() backoff.BackOff { return &backoff.StopBackOff{} },
		healthyRunDuration: 10 * time.Minute,
		now:                time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Running reports whether the runner is currently running.
func (s *Supervisor) Running() bool {
	return s.running.Load()
}

// Run blocks until ctx is cancelled, in which case it returns nil, or until the runner failed and
// is not restarted any more.
func (s *Supervisor) Run(ctx context.Context) error {
	bo := backoff.WithContext(s.newBackOff(), ctx)

	operation := func() error {
		start := s.now()

		s.running.Store(true)
		err := s.runner.Run(ctx)
		s.running.Store(false)

		if err == nil || ctx.Err() != nil {
			return nil
		}

		s.stats.fatalError()
		s.logger.Error("Spend broadcaster stopped with fatal error",
			slog.String("err", err.Error()),
			slog.Bool("restart", s.restartEnabled),
			slog.String("uptime", s.now().Sub(start).String()),
		)

		if !s.restartEnabled {
			return backoff.Permanent(err)
		}

		if s.now().Sub(start) >= s.healthyRunDuration {
			bo.Reset()
		}

		return err
	}

	notify := func(err error, next time.Duration) {
		s.stats.restart()
		s.logger.Warn("Restarting spend broadcaster", slog.String("in", next.String()), slog.String("err", err.Error()))
	}

	err := backoff.RetryNotify(operation, bo, notify)
	if err == nil || ctx.Err() != nil {
		return nil
	}

	if !s.restartEnabled {
		return err
	}

	return errors.Join(ErrRestartsExhausted, err)
}
