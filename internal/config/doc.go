// Package config loads and validates the YAML configuration for the
// prospecting pipeline: extraction, clustering, scoring, mission and
// registry knobs. Watch provides fsnotify-based hot reload so tuning
// parameters can change without a restart.
package config
