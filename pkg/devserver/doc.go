// Package devserver serves compiled translations over HTTP during development.
//
// Routes:
//
//	GET  /healthz                       liveness plus optional readiness checks
//	GET  /locales/{locale}.json         bundle of every unit of a locale
//	GET  /locales/{locale}/{unit}.json  content of a single unit
//	POST /rebuild                       forced compilation, emit and notify
//	POST /reload/{locale}/{unit}        re-read one unit, then recompile
//	GET  /events                        Server-Sent Events stream of build events
//
// Locale files are served exactly as the emitter writes them. Every other
// endpoint answers with a JSON envelope of the form
// {"data": ..., "meta": ..., "error": {"code", "message", "details"}}.
// A compilation that fails with diagnostics answers 422 and lists them under
// error.details.
//
// Run blocks until the context is cancelled, then shuts the listener down
// gracefully and closes open event streams.
package devserver
