// Package config loads server settings from an optional config.yaml and
// PROJPOOL_* environment variables through viper, applies defaults, and
// validates the result before any component starts.
package config
