package devserver

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/transkit/pkg/emitter"
	"github.com/dmitrymomot/transkit/pkg/notify"
)

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address. Defaults to ":8080".
func WithAddr(addr string) Option {
	if addr == "" {
		panic("WithAddr: addr cannot be empty")
	}
	return func(s *Server) { s.addr = addr }
}

// WithShutdownTimeout sets the time allowed for graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithShutdownTimeout: duration must be > 0")
	}
	return func(s *Server) { s.shutdownTimeout = d }
}

// WithHeartbeat sets the interval of keep-alive comments on event streams.
func WithHeartbeat(d time.Duration) Option {
	if d <= 0 {
		panic("WithHeartbeat: duration must be > 0")
	}
	return func(s *Server) { s.heartbeat = d }
}

// WithEmitter writes every successful rebuild through e.
func WithEmitter(e *emitter.Emitter) Option {
	return func(s *Server) { s.emitter = e }
}

// WithNotifier forwards build events to n in addition to the event stream.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Server) {
		if n != nil {
			s.notifiers = append(s.notifiers, n)
		}
	}
}

// WithEventBuffer sets the per-subscriber buffer of the event stream.
func WithEventBuffer(size int) Option {
	return func(s *Server) { s.eventBuffer = size }
}

// WithHealthCheck adds a readiness check to /healthz.
func WithHealthCheck(check func(context.Context) error) Option {
	if check == nil {
		panic("WithHealthCheck: nil check")
	}
	return func(s *Server) { s.checks = append(s.checks, check) }
}

// WithLogger sets the logger. A discard logger is used by default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
