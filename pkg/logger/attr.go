package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Command records the CLI command under the key "command".
func Command(name string) slog.Attr {
	return slog.String("command", name)
}

// Locale records a locale identifier under the key "locale".
func Locale(locale string) slog.Attr {
	return slog.String("locale", locale)
}

// Unit records a unit identifier ("locale/name") under the key "unit".
func Unit(id string) slog.Attr {
	return slog.String("unit", id)
}

// Project records a workspace project name under the key "project".
func Project(name string) slog.Attr {
	return slog.String("project", name)
}

// RequestID records an HTTP request identifier under the key "request_id".
// If id is empty, it returns an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Path records a file or object path under the key "path".
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// BuildID records the build identifier under the key "build_id".
// If id is nil, it returns an empty Attr.
func BuildID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("build_id", id)
}

// State records a lifecycle state under the key "state".
func State(state any) slog.Attr {
	return slog.Any("state", state)
}

// Count records a quantity under the key "count".
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Event records a lifecycle or notification event under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
