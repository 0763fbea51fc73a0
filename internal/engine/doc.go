// Package engine orchestrates the telemetry-to-opportunity pipeline:
// windows are extracted into feature vectors (concurrently, order
// preserved), clustered in one batch call, scored and aggregated into
// opportunity zones.
package engine
