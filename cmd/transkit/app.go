package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/dmitrymomot/transkit/pkg/compiler"
	"github.com/dmitrymomot/transkit/pkg/config"
	"github.com/dmitrymomot/transkit/pkg/logger"
	"github.com/dmitrymomot/transkit/pkg/store"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// usageError marks failures caused by invalid arguments or configuration.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

type flags struct {
	envFiles  []string
	input     string
	primary   string
	workspace string
	project   string
	logLevel  string
	logFormat string

	output   string
	layout   string
	indent   string
	manifest bool

	s3Bucket   string
	s3Region   string
	s3Endpoint string
	s3Prefix   string

	addr     string
	redisURL string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var f flags

	app := kingpin.New("transkit", "Translation compiler: resolves references between translation units and emits JSON.")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	helped := false
	app.Terminate(func(int) { helped = true })
	app.HelpFlag.Short('h')

	app.Flag("env-file", "Load environment variables from this .env file (repeatable).").StringsVar(&f.envFiles)
	app.Flag("input", "Input directory with one sub-directory per locale.").Short('i').StringVar(&f.input)
	app.Flag("primary", "Primary locale used as the schema reference.").Short('p').StringVar(&f.primary)
	app.Flag("workspace", "HCL workspace file declaring other projects.").StringVar(&f.workspace)
	app.Flag("project", "Name of this project inside the workspace.").StringVar(&f.project)
	app.Flag("log-level", "Log level: debug, info, warn or error.").StringVar(&f.logLevel)
	app.Flag("log-format", "Log format: text or json.").StringVar(&f.logFormat)

	compileCmd := app.Command("compile", "Compile the input and write the output files.")
	outputFlags(compileCmd, &f)
	compileCmd.Flag("s3-bucket", "Upload output to this S3 bucket instead of the output directory.").StringVar(&f.s3Bucket)
	compileCmd.Flag("s3-region", "S3 region.").StringVar(&f.s3Region)
	compileCmd.Flag("s3-endpoint", "Endpoint of an S3-compatible service.").StringVar(&f.s3Endpoint)
	compileCmd.Flag("s3-prefix", "Key prefix of uploaded objects.").StringVar(&f.s3Prefix)

	checkCmd := app.Command("check", "Validate and resolve the input, reporting every problem.")

	serveCmd := app.Command("serve", "Serve compiled output over HTTP and rebuild on demand.")
	outputFlags(serveCmd, &f)
	serveCmd.Flag("addr", "Listen address.").Short('a').StringVar(&f.addr)
	serveCmd.Flag("redis-url", "Publish build events to Redis at this URL.").StringVar(&f.redisURL)

	command, err := app.Parse(args)
	if helped {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "transkit: %v\n", err)
		return exitUsage
	}

	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintf(stderr, "transkit: %v\n", err)
		return exitUsage
	}
	log, err := newLogger(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "transkit: %v\n", err)
		return exitUsage
	}

	switch command {
	case compileCmd.FullCommand():
		err = runCompile(ctx, cfg, log, stdout)
	case checkCmd.FullCommand():
		err = runCheck(ctx, cfg, log, stdout)
	case serveCmd.FullCommand():
		err = runServe(ctx, cfg, log)
	}
	return exitCode(err, stderr)
}

func outputFlags(cmd *kingpin.CmdClause, f *flags) {
	cmd.Flag("output", "Output directory.").Short('o').StringVar(&f.output)
	cmd.Flag("layout", "Output layout: bundle or split.").StringVar(&f.layout)
	cmd.Flag("indent", "Indent JSON output with this string.").StringVar(&f.indent)
	cmd.Flag("manifest", "Also write manifest.json.").BoolVar(&f.manifest)
}

// loadConfig reads the environment, then applies the flags given on the
// command line on top of it.
func loadConfig(f flags) (config.Config, error) {
	cfg, err := config.Load(f.envFiles...)
	if err != nil {
		return config.Config{}, err
	}

	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.Workspace, f.workspace)
	override(&cfg.Project, f.project)
	override(&cfg.LogLevel, f.logLevel)
	override(&cfg.LogFormat, f.logFormat)
	override(&cfg.Output, f.output)
	override(&cfg.Layout, f.layout)
	override(&cfg.Indent, f.indent)
	override(&cfg.S3.Bucket, f.s3Bucket)
	override(&cfg.S3.Region, f.s3Region)
	override(&cfg.S3.Endpoint, f.s3Endpoint)
	override(&cfg.S3.Prefix, f.s3Prefix)
	override(&cfg.HTTP.Addr, f.addr)
	override(&cfg.Redis.ConnectionURL, f.redisURL)
	if f.manifest {
		cfg.Manifest = true
	}

	// A project declared in the workspace provides input and primary locale
	// unless the flags name them.
	if cfg.Workspace != "" && cfg.Project != "" {
		ws, err := config.LoadWorkspace(cfg.Workspace)
		if err != nil {
			return config.Config{}, err
		}
		if p, ok := ws.Project(cfg.Project); ok {
			cfg.Input = p.Input
			override(&cfg.PrimaryLocale, p.PrimaryLocale)
		}
	}
	override(&cfg.Input, f.input)
	override(&cfg.PrimaryLocale, f.primary)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(w),
	), nil
}

// newCompiler builds a compiler for the configured input. Workspace projects
// are scanned by the compiler together with the input.
func newCompiler(ctx context.Context, cfg config.Config, log *slog.Logger) (*compiler.Compiler, error) {
	scanner := store.NewScanner(cfg.Input,
		store.WithOutputDir(cfg.Output),
		store.WithLogger(log),
	)
	opts := []compiler.Option{
		compiler.WithPrimaryLocale(cfg.PrimaryLocale),
		compiler.WithLogger(log),
	}

	if cfg.Workspace != "" {
		ws, err := config.LoadWorkspace(cfg.Workspace)
		if err != nil {
			return nil, usageError{err}
		}
		projects := make([]compiler.Project, 0, len(ws.Projects))
		for _, p := range ws.Projects {
			projects = append(projects, compiler.Project{
				Name:    p.Name,
				Scanner: store.NewScanner(p.Input, store.WithLogger(log)),
			})
		}
		opts = append(opts, compiler.WithWorkspaceProjects(projects...))
		log.DebugContext(ctx, "Workspace loaded", logger.Path(ws.Path), logger.Count(len(projects)))
	}
	if cfg.Project != "" {
		opts = append(opts, compiler.WithProject(cfg.Project))
	}
	return compiler.New(scanner, opts...), nil
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(stderr, "transkit: %s\n", strings.TrimRight(err.Error(), "\n"))
	var uerr usageError
	if errors.As(err, &uerr) {
		return exitUsage
	}
	return exitFailure
}
