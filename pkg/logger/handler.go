package logger

import (
	"context"
	"log/slog"
)

// contextHandler stamps records with the values transkit keeps in a
// context: the build id and the attributes added by ContextWithAttrs.
// A key the record already carries is not added again, so an explicit
// logger.BuildID(...) argument wins over the context value.
type contextHandler struct {
	next slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	attrs := attrsFromContext(ctx)
	id, hasID := BuildIDFromContext(ctx)
	if len(attrs) == 0 && !hasID {
		return h.next.Handle(ctx, rec)
	}

	seen := make(map[string]struct{}, rec.NumAttrs()+len(attrs)+1)
	rec.Attrs(func(a slog.Attr) bool {
		seen[a.Key] = struct{}{}
		return true
	})
	add := func(a slog.Attr) {
		if _, ok := seen[a.Key]; ok {
			return
		}
		seen[a.Key] = struct{}{}
		rec.AddAttrs(a)
	}
	for _, a := range attrs {
		add(a)
	}
	if hasID {
		add(BuildID(id))
	}
	return h.next.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name)}
}
