// Package config loads, normalizes, and validates oledstat configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the environment variables the
// status display has always been configured with: SAB_ADDRESS, SAB_API_KEY,
// TAUTULLI_ADDRESS and TAUTULLI_API_KEY. The Config type centralizes every knob
// the polling loop, the display driver, and the CLI need.
//
// Always obtain settings through this package so downstream code receives
// trimmed service URLs, canonical log formats, and clear validation errors.
package config
