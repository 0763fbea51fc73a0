// Package registry holds the opportunity zones published by recent
// pipeline runs in a thread-safe in-memory map with TTL staleness
// eviction. It is the lookup surface for mission risk estimation and
// for external scheduling collaborators; durable persistence is an
// external concern.
package registry
