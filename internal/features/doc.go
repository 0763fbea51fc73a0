// Package features turns raw telemetry windows into statistical feature
// vectors: temperature histogram entropy, mean absolute gradient, a
// variance-based stability index, arithmetic means and the spectral
// energy of the vibration series.
//
// Extraction is pure and deterministic; ExtractAll fans windows out
// across a bounded worker group while preserving input order in the
// result.
package features
