// Package logger builds the *slog.Logger used by the transkit command and
// the dev server.
//
// New returns a logger configured by Option functions: output format (text
// or json), minimum level and static attributes. Records logged with a
// context also carry the values transkit stores in it: the build id set by
// ContextWithBuildID and any attributes added with ContextWithAttrs, such as
// the request id of a dev server request. Keys already present on a record
// are not repeated.
//
//	log := logger.New(
//		logger.WithFormat(logger.FormatText),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	ctx := logger.ContextWithBuildID(ctx, res.ID)
//	ctx = logger.ContextWithAttrs(ctx, logger.Project("app"))
//	log.InfoContext(ctx, "Bundles written", logger.Locale("en"), logger.Count(3))
//
// Attribute helpers in attr.go keep key names consistent: Locale, Unit,
// Path, Project, RequestID, BuildID, Count, Component, Error and friends.
// Error returns an empty attribute for a nil error so callers can log
// unconditionally.
//
// ParseLevel and ParseFormat convert configuration strings and report
// unknown values as errors instead of panicking.
package logger
