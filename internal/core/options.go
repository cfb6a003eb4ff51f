package core

import (
	"time"

	"workmgmt/pkg/domain"
)

// Logger is the structured logger the service writes to. *log.Logger from
// charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Info(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
	Error(msg any, keyvals ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(any, ...any) {}
func (noopLogger) Info(any, ...any)  {}
func (noopLogger) Warn(any, ...any)  {}
func (noopLogger) Error(any, ...any) {}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// Option configures a Service.
type Option func(*Service)

// WithLogger routes service logs to logger.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used to time operations.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMetrics replaces the default private-registry metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithBackend sets the durable record backend used by Load and Save.
func WithBackend(backend domain.Backend) Option {
	return func(s *Service) { s.backend = backend }
}

// WithAutosave toggles saving after every applied mutation.
func WithAutosave(enabled bool) Option {
	return func(s *Service) { s.autosave = enabled }
}

// WithRoster replaces the default user roster.
func WithRoster(roster domain.Roster) Option {
	return func(s *Service) {
		if roster != nil {
			s.roster = roster
		}
	}
}

// WithIDGenerator replaces the UUID generator. Intended for tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.idFn = fn }
}
