package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/transkit/pkg/emitter"
	"github.com/dmitrymomot/transkit/pkg/logger"
	"github.com/dmitrymomot/transkit/pkg/notify"
)

// Prefix is prepended to every environment variable name.
const Prefix = "TRANSKIT_"

// Config holds every setting of the transkit binary.
type Config struct {
	Input         string `env:"INPUT" envDefault:"locales"`       // Input is the directory holding one sub-directory per locale.
	Output        string `env:"OUTPUT" envDefault:"dist/locales"` // Output is the local output directory, ignored when S3 is configured.
	PrimaryLocale string `env:"PRIMARY_LOCALE" envDefault:"en"`   // PrimaryLocale is the reference locale of the schema check.
	Project       string `env:"PROJECT"`                          // Project names this input inside a workspace.
	Workspace     string `env:"WORKSPACE"`                        // Workspace is the path of an HCL workspace file.
	Layout        string `env:"LAYOUT" envDefault:"bundle"`       // Layout is "bundle" or "split".
	Indent        string `env:"INDENT"`                           // Indent pretty-prints output JSON when set.
	Manifest      bool   `env:"MANIFEST"`                         // Manifest also writes manifest.json.
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`      // LogLevel is debug, info, warn or error.
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`     // LogFormat is text or json.

	HTTP  HTTPConfig
	S3    S3Config `envPrefix:"S3_"`
	Redis notify.Config
}

// HTTPConfig configures the dev server.
type HTTPConfig struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	Heartbeat       time.Duration `env:"HTTP_HEARTBEAT" envDefault:"15s"`
}

// S3Config configures S3 output. S3 is used when Bucket is set.
type S3Config struct {
	Bucket         string        `env:"BUCKET"`
	Region         string        `env:"REGION" envDefault:"us-east-1"`
	Endpoint       string        `env:"ENDPOINT"`
	AccessKeyID    string        `env:"ACCESS_KEY_ID"`
	SecretKey      string        `env:"SECRET_ACCESS_KEY"`
	Prefix         string        `env:"PREFIX"`
	BaseURL        string        `env:"BASE_URL"`
	CacheControl   string        `env:"CACHE_CONTROL"`
	ForcePathStyle bool          `env:"FORCE_PATH_STYLE"`
	UploadTimeout  time.Duration `env:"UPLOAD_TIMEOUT" envDefault:"30s"`
}

// Enabled reports whether output goes to S3.
func (c S3Config) Enabled() bool {
	return strings.TrimSpace(c.Bucket) != ""
}

// Storage returns the emitter configuration.
func (c S3Config) Storage() emitter.S3Config {
	return emitter.S3Config{
		Bucket:         c.Bucket,
		Region:         c.Region,
		AccessKeyID:    c.AccessKeyID,
		SecretKey:      c.SecretKey,
		Endpoint:       c.Endpoint,
		Prefix:         c.Prefix,
		BaseURL:        c.BaseURL,
		ForcePathStyle: c.ForcePathStyle,
	}
}

// Load reads .env files and parses the environment into a Config.
// Without arguments ./.env is loaded when it exists; named files must exist.
// Values already present in the environment are never overridden by files.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Join(ErrLoadingEnvFile, err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, errors.Join(ErrLoadingEnvFile, err)
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that env tags cannot express.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Input) == "" {
		errs = append(errs, fmt.Errorf("%w: input directory is empty", ErrInvalidConfig))
	}
	if strings.TrimSpace(c.PrimaryLocale) == "" {
		errs = append(errs, fmt.Errorf("%w: primary locale is empty", ErrInvalidConfig))
	}
	if _, err := emitter.ParseLayout(c.Layout); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	if _, err := logger.ParseFormat(c.LogFormat); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	return errors.Join(errs...)
}
