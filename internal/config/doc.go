// Package config loads, normalizes, and validates mlsimport configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from ~/.config/mlsimport/config.toml or a
// project-local mlsimport.toml. Always obtain settings through this package so
// downstream code receives sanitized paths and clear validation errors.
package config
