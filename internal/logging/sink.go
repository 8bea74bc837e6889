package logging

import (
	"log/slog"
)

// Sink receives the informational and error messages produced while a scan
// runs. When disabled, informational lines are dropped; errors are always
// forwarded so the log never hides a problem that the run report shows.
type Sink struct {
	logger  *slog.Logger
	enabled bool
}

// NewSink wraps logger. A nil logger yields a sink that discards everything.
func NewSink(logger *slog.Logger, enabled bool) *Sink {
	if logger == nil {
		logger = NewNop()
	}
	return &Sink{logger: logger, enabled: enabled}
}

// With returns a sink whose lines carry attrs.
func (s *Sink) With(attrs ...Attr) *Sink {
	if s == nil {
		return NewSink(nil, false)
	}
	return &Sink{logger: s.logger.With(Args(attrs...)...), enabled: s.enabled}
}

// Info records a progress message.
func (s *Sink) Info(msg string, attrs ...Attr) {
	if s == nil || !s.enabled {
		return
	}
	s.logger.Info(msg, Args(attrs...)...)
}

// Warn records a run-level problem such as an interrupted scan. Like Error
// it is forwarded even when the sink is disabled.
func (s *Sink) Warn(msg string, attrs ...Attr) {
	if s == nil {
		return
	}
	s.logger.Warn(msg, Args(attrs...)...)
}

// Error records a failure message.
func (s *Sink) Error(msg string, attrs ...Attr) {
	if s == nil {
		return
	}
	s.logger.Error(msg, Args(attrs...)...)
}

// Logger exposes the underlying logger.
func (s *Sink) Logger() *slog.Logger {
	if s == nil {
		return NewNop()
	}
	return s.logger
}
