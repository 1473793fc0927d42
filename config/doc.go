// Package config provides configuration loading and validation for
// pipes-cliff.
//
// It uses Viper to load tunables from a YAML file and environment
// variables, with .env support via godotenv. Environment variables use the
// PIPECLIFF_ prefix with underscore-separated paths (e.g.
// PIPECLIFF_CHUNK_SIZE).
//
// # Usage
//
//	tun, err := config.Load(config.WithConfigFile("pipes.yml"))
//
// The documented defaults (one pending chunk per mailbox, 1 KiB reads, a
// five second termination grace period) apply whenever a field is unset.
package config
