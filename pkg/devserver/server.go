package devserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/transkit/pkg/compiler"
	"github.com/dmitrymomot/transkit/pkg/emitter"
	"github.com/dmitrymomot/transkit/pkg/logger"
	"github.com/dmitrymomot/transkit/pkg/notify"
)

// Server serves the results of one Compiler.
type Server struct {
	compiler        *compiler.Compiler
	emitter         *emitter.Emitter
	broadcaster     *notify.MemoryBroadcaster
	notifiers       []notify.Notifier
	notifier        notify.Notifier
	checks          []func(context.Context) error
	logger          *slog.Logger
	addr            string
	shutdownTimeout time.Duration
	heartbeat       time.Duration
	eventBuffer     int

	srv  *http.Server
	once sync.Once
	mu   sync.Mutex
}

// New returns a server for c.
func New(c *compiler.Compiler, opts ...Option) *Server {
	s := &Server{
		compiler:        c,
		logger:          logger.Discard(),
		addr:            ":8080",
		shutdownTimeout: 5 * time.Second,
		heartbeat:       15 * time.Second,
		eventBuffer:     16,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.broadcaster = notify.NewMemoryBroadcaster(s.eventBuffer)
	s.notifier = notify.Multi(append([]notify.Notifier{s.broadcaster}, s.notifiers...)...)
	return s
}

// Subscribe returns a subscription to the build events of this server.
func (s *Server) Subscribe(ctx context.Context) *notify.Subscription {
	return s.broadcaster.Subscribe(ctx)
}

// Rebuild forces a full compilation. On success the result is emitted when an
// emitter is configured. A build event is published either way.
func (s *Server) Rebuild(ctx context.Context) (compiler.Output, error) {
	out, _, err := s.build(ctx, compiler.Force())
	return out, err
}

func (s *Server) build(ctx context.Context, opts ...compiler.CompileOption) (compiler.Output, []string, error) {
	opts = append(opts, compiler.CollectDiagnostics())
	out, err := s.compiler.Compile(ctx, opts...)
	if err != nil || out.Result == nil {
		s.publish(ctx, notify.NewEvent(notify.EventFailed, uuid.Nil, nil))
		return out, nil, err
	}

	var files []string
	if s.emitter != nil {
		files, err = s.emitter.Emit(ctx, out.Result)
		if err != nil {
			s.publish(ctx, notify.NewEvent(notify.EventFailed, out.Result.ID, nil))
			return out, files, err
		}
	}
	s.publish(ctx, notify.NewEvent(notify.EventBuilt, out.Result.ID, out.Result.LocaleNames()))
	return out, files, nil
}

func (s *Server) publish(ctx context.Context, ev notify.Event) {
	if err := s.notifier.Notify(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish build event",
			logger.Event(string(ev.Type)),
			logger.Error(err),
		)
	}
}

// Run builds once, then serves until ctx is cancelled. A failing initial
// build is logged and served as a 422 until it is fixed.
// It returns ErrStart wrapped with the underlying error if the listener fails.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, ErrAlreadyRunning)
	}
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.srv = srv
	s.mu.Unlock()

	if _, err := s.Rebuild(ctx); err != nil {
		s.logger.WarnContext(ctx, "Initial build failed", logger.Error(err))
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.InfoContext(ctx, "Dev server listening", slog.String("addr", s.addr))

	var runErr error
	select {
	case <-ctx.Done():
		_ = s.Shutdown(context.Background())
		runErr = <-errCh
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return errors.Join(ErrStart, runErr)
	}
	return nil
}

// Shutdown closes event streams and stops the listener gracefully.
// It is safe for repeated calls.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		_ = s.broadcaster.Close()

		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()
		if srv == nil {
			return
		}

		ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(ctx)
		s.logger.InfoContext(ctx, "Dev server stopped")
	})

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}
