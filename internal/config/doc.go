// Package config handles configuration loading, parsing, and validation
// from various sources (.env file, config.yaml, environment variables). It
// provides type-safe access to the settings needed by the server, the
// notifier process and the maintenance commands.
package config
