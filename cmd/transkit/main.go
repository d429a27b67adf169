// Command transkit compiles translation sources into JSON bundles.
//
//	transkit compile --input locales --output dist/locales
//	transkit check --input locales
//	transkit serve --addr :8080
//
// Every flag falls back to a TRANSKIT_* environment variable, optionally
// read from .env files given with --env-file.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
