// Package config loads, normalizes, and validates NorTrans configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the NORTRANS_API_URL environment
// fallback. The Config type centralizes every knob the daemon and CLI need:
// translation backend settings, offline model directory, worker limits, and
// log output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
