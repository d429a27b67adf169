package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrymomot/transkit/pkg/compiler"
	"github.com/dmitrymomot/transkit/pkg/config"
	"github.com/dmitrymomot/transkit/pkg/devserver"
	"github.com/dmitrymomot/transkit/pkg/diagnostic"
	"github.com/dmitrymomot/transkit/pkg/emitter"
	"github.com/dmitrymomot/transkit/pkg/logger"
	"github.com/dmitrymomot/transkit/pkg/notify"
)

func runCompile(ctx context.Context, cfg config.Config, log *slog.Logger, stdout io.Writer) error {
	c, err := newCompiler(ctx, cfg, log)
	if err != nil {
		return err
	}
	out, err := c.Compile(ctx)
	if err != nil {
		return err
	}

	em, storage, err := newEmitter(ctx, cfg, log)
	if err != nil {
		return err
	}
	paths, err := em.Emit(ctx, out.Result)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "compiled %d units in %d locales (build %s)\n",
		out.Result.Len(), len(out.Result.Locales), out.Result.ID)
	for _, p := range paths {
		fmt.Fprintf(stdout, "  %s\n", storage.URL(p))
	}
	return nil
}

func runCheck(ctx context.Context, cfg config.Config, log *slog.Logger, stdout io.Writer) error {
	c, err := newCompiler(ctx, cfg, log)
	if err != nil {
		return err
	}
	out, err := c.Compile(ctx, compiler.CollectDiagnostics())
	if err != nil {
		return err
	}
	if !out.Diagnostics.Empty() {
		fmt.Fprintln(stdout, out.Diagnostics.Report())
		return fmt.Errorf("%w: %d problems found", diagnostic.ErrCompilationFailed, out.Diagnostics.Len())
	}

	fmt.Fprintf(stdout, "ok: %d units in %d locales\n", out.Result.Len(), len(out.Result.Locales))
	return nil
}

func runServe(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	c, err := newCompiler(ctx, cfg, log)
	if err != nil {
		return err
	}
	em, _, err := newEmitter(ctx, cfg, log)
	if err != nil {
		return err
	}

	opts := []devserver.Option{
		devserver.WithAddr(cfg.HTTP.Addr),
		devserver.WithEmitter(em),
		devserver.WithLogger(log),
	}
	if cfg.HTTP.ShutdownTimeout > 0 {
		opts = append(opts, devserver.WithShutdownTimeout(cfg.HTTP.ShutdownTimeout))
	}
	if cfg.HTTP.Heartbeat > 0 {
		opts = append(opts, devserver.WithHeartbeat(cfg.HTTP.Heartbeat))
	}

	if cfg.Redis.ConnectionURL != "" {
		client, err := notify.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()

		pub, err := notify.NewRedisPublisher(client,
			notify.WithChannel(cfg.Redis.Channel),
			notify.WithLogger(log),
		)
		if err != nil {
			return usageError{err}
		}
		opts = append(opts,
			devserver.WithNotifier(pub),
			devserver.WithHealthCheck(func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}),
		)
		log.InfoContext(ctx, "Publishing build events", slog.String("channel", pub.Channel()))
	}

	return devserver.New(c, opts...).Run(ctx)
}

// newEmitter writes to S3 when a bucket is configured and to the output
// directory otherwise.
func newEmitter(ctx context.Context, cfg config.Config, log *slog.Logger) (*emitter.Emitter, emitter.Storage, error) {
	layout, err := emitter.ParseLayout(cfg.Layout)
	if err != nil {
		return nil, nil, usageError{err}
	}

	var storage emitter.Storage
	if cfg.S3.Enabled() {
		storage, err = emitter.NewS3Storage(ctx, cfg.S3.Storage(),
			emitter.WithCacheControl(cfg.S3.CacheControl),
			emitter.WithS3UploadTimeout(cfg.S3.UploadTimeout),
		)
		if err != nil {
			return nil, nil, usageError{err}
		}
		log.DebugContext(ctx, "Writing output to S3", slog.String("bucket", cfg.S3.Bucket))
	} else {
		storage, err = emitter.NewLocalStorage(cfg.Output)
		if err != nil {
			return nil, nil, err
		}
		log.DebugContext(ctx, "Writing output to directory", logger.Path(cfg.Output))
	}

	opts := []emitter.Option{
		emitter.WithLayout(layout),
		emitter.WithIndent(cfg.Indent),
		emitter.WithLogger(log),
	}
	if cfg.Manifest {
		opts = append(opts, emitter.WithManifest())
	}
	return emitter.New(storage, opts...), storage, nil
}
