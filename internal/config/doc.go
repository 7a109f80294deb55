// Package config provides the collector's configuration.
//
// Credentials and logging knobs come from the environment (a .env file is
// loaded by the CLI via godotenv). The collection plan describing what to
// snapshot and how often comes from a TOML file.
package config
