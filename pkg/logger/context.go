package logger

import (
	"context"
	"log/slog"
	"slices"
)

type (
	buildIDKey struct{}
	attrsKey   struct{}
)

// ContextWithBuildID stores the identifier of the running build in ctx.
// Loggers built by New add it to every record logged with the context.
func ContextWithBuildID(ctx context.Context, id any) context.Context {
	return context.WithValue(ctx, buildIDKey{}, id)
}

// BuildIDFromContext returns the build identifier stored in ctx, if any.
func BuildIDFromContext(ctx context.Context) (any, bool) {
	id := ctx.Value(buildIDKey{})
	return id, id != nil
}

// ContextWithAttrs returns a copy of ctx carrying attrs after the attributes
// it already carries. Loggers built by New add them to every record logged
// with the context. Empty attributes are dropped.
func ContextWithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	prev := attrsFromContext(ctx)
	next := make([]slog.Attr, 0, len(prev)+len(attrs))
	next = append(next, prev...)
	for _, a := range attrs {
		if !a.Equal(slog.Attr{}) {
			next = append(next, a)
		}
	}
	if len(next) == len(prev) {
		return ctx
	}
	return context.WithValue(ctx, attrsKey{}, slices.Clip(next))
}

func attrsFromContext(ctx context.Context) []slog.Attr {
	attrs, _ := ctx.Value(attrsKey{}).([]slog.Attr)
	return attrs
}
