// Package config loads, normalizes, and validates the TOML configuration
// shared by every curator command.
package config
