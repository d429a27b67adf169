package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmitrymomot/transkit/pkg/compiler"
	"github.com/dmitrymomot/transkit/pkg/diagnostic"
	"github.com/dmitrymomot/transkit/pkg/emitter"
	"github.com/dmitrymomot/transkit/pkg/logger"
	"github.com/dmitrymomot/transkit/pkg/notify"
	"github.com/dmitrymomot/transkit/pkg/schema"
	"github.com/dmitrymomot/transkit/pkg/store"
)

// Handler returns the router of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.health)
	r.Get("/locales/{file}", s.bundle)
	r.Get("/locales/{locale}/{file}", s.unit)
	r.Post("/rebuild", s.rebuild)
	r.Post("/reload/{locale}/{unit}", s.reload)
	r.Get("/events", s.events)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.ContextWithAttrs(r.Context(), logger.RequestID(middleware.GetReqID(r.Context())))
		r = r.WithContext(ctx)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.DebugContext(ctx, "Request served",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			logger.Duration(time.Since(started)),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	meta := map[string]any{"state": string(s.compiler.State())}
	if res := s.compiler.Result(); res != nil {
		meta["build_id"] = res.ID.String()
	}

	for _, check := range s.checks {
		if err := check(r.Context()); err != nil {
			s.logger.ErrorContext(r.Context(), "Readiness check failed", logger.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, Envelope{
				Meta:  meta,
				Error: &ErrorDetail{Code: "not_ready", Message: err.Error()},
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, Envelope{Data: "ok", Meta: meta})
}

func (s *Server) bundle(w http.ResponseWriter, r *http.Request) {
	locale, ok := strings.CutSuffix(chi.URLParam(r, "file"), ".json")
	if !ok || locale == "" {
		writeError(w, http.StatusNotFound, "not_found", "expected /locales/{locale}.json")
		return
	}
	res, ok := s.current(w, r)
	if !ok {
		return
	}
	tbl, err := emitter.Bundle(res, locale)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown_locale", err.Error())
		return
	}
	s.serve(w, r, tbl)
}

func (s *Server) unit(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(chi.URLParam(r, "file"), ".json")
	if !ok || name == "" {
		writeError(w, http.StatusNotFound, "not_found", "expected /locales/{locale}/{unit}.json")
		return
	}
	res, ok := s.current(w, r)
	if !ok {
		return
	}
	tbl, err := emitter.Content(res, chi.URLParam(r, "locale"), name)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown_unit", err.Error())
		return
	}
	s.serve(w, r, tbl)
}

// serve writes v as a locale file with a content ETag.
func (s *Server) serve(w http.ResponseWriter, r *http.Request, v any) {
	data, err := emitter.Encode(v, "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	etag := `"` + emitter.Hash(data) + `"`
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && strings.Contains(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeFile(w, data)
}

// current returns the cached result, compiling it first when needed.
// On failure it writes the error response and returns false.
func (s *Server) current(w http.ResponseWriter, r *http.Request) (*compiler.Result, bool) {
	if res := s.compiler.Result(); res != nil {
		return res, true
	}
	out, _, err := s.build(r.Context())
	if err != nil || out.Result == nil {
		s.fail(r.Context(), w, out, err)
		return nil, false
	}
	return out.Result, true
}

func (s *Server) rebuild(w http.ResponseWriter, r *http.Request) {
	out, files, err := s.build(r.Context(), compiler.Force())
	if err != nil || out.Result == nil {
		s.fail(r.Context(), w, out, err)
		return
	}
	writeJSON(w, http.StatusOK, buildEnvelope(out.Result, files))
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	locale, name := chi.URLParam(r, "locale"), chi.URLParam(r, "unit")

	err := s.compiler.Reload(ctx, locale, name)
	switch {
	case errors.Is(err, compiler.ErrNotScanned):
		// Nothing to patch yet; the build below performs the first scan.
	case errors.Is(err, store.ErrUnitNotFound):
		writeError(w, http.StatusNotFound, "unknown_unit", err.Error())
		return
	case err != nil:
		s.fail(ctx, w, compiler.Output{}, err)
		return
	default:
		s.publish(ctx, notify.NewEvent(notify.EventReloaded, uuid.Nil, []string{locale}))
	}

	out, files, err := s.build(ctx)
	if err != nil || out.Result == nil {
		s.fail(ctx, w, out, err)
		return
	}
	writeJSON(w, http.StatusOK, buildEnvelope(out.Result, files))
}

func buildEnvelope(res *compiler.Result, files []string) Envelope {
	data := map[string]any{
		"build_id": res.ID.String(),
		"locales":  res.LocaleNames(),
		"units":    res.Len(),
	}
	if len(files) > 0 {
		data["files"] = files
	}
	return Envelope{Data: data}
}

// fail maps a failed build to a response: diagnostics and schema problems
// are 422, everything else 500.
func (s *Server) fail(ctx context.Context, w http.ResponseWriter, out compiler.Output, err error) {
	var derr *diagnostic.Error
	switch {
	case errors.As(err, &derr):
		code := "compilation_failed"
		if errors.Is(err, diagnostic.ErrSchemaMismatch) {
			code = "schema_mismatch"
		}
		writeJSON(w, http.StatusUnprocessableEntity, Envelope{Error: &ErrorDetail{
			Code:    code,
			Message: derr.Kind.Error(),
			Details: derr.Diagnostics,
		}})
	case err == nil && !out.Diagnostics.Empty():
		writeJSON(w, http.StatusUnprocessableEntity, Envelope{Error: &ErrorDetail{
			Code:    "compilation_failed",
			Message: diagnostic.ErrCompilationFailed.Error(),
			Details: out.Diagnostics,
		}})
	case errors.Is(err, schema.ErrPrimaryLocaleMissing):
		writeError(w, http.StatusUnprocessableEntity, "primary_locale_missing", err.Error())
	case errors.Is(err, context.Canceled):
		s.logger.DebugContext(ctx, "Build cancelled by client")
	default:
		if err == nil {
			err = errors.New("build produced no result")
		}
		s.logger.ErrorContext(ctx, "Build failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "build_failed", err.Error())
	}
}

func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", ErrStreamingUnsupported.Error())
		return
	}

	ctx := r.Context()
	sub := s.broadcaster.Subscribe(ctx)
	defer sub.Close()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.logger.ErrorContext(ctx, "Failed to encode build event", logger.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
