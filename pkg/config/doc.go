// Package config loads transkit settings from the environment and describes
// multi-project workspaces.
//
// Load reads optional .env files with github.com/joho/godotenv and parses the
// environment into Config with github.com/caarlos0/env/v11. Every variable is
// prefixed with TRANSKIT_, for example TRANSKIT_INPUT or TRANSKIT_S3_BUCKET.
// Nothing is cached: each call parses the environment again.
//
//	cfg, err := config.Load()            // optional ./.env
//	cfg, err := config.Load("dev.env")   // explicit files must exist
//
// LoadWorkspace decodes an HCL workspace file listing the projects that
// "@@project.unit" references may point to:
//
//	project "shared" {
//	  input          = "../shared/locales"
//	  primary_locale = "en"
//	}
//
// Relative inputs are resolved against the directory of the workspace file.
package config
