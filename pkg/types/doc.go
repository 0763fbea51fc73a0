// Package types defines the shared domain types of the prospecting
// pipeline. These are the canonical in-memory representations of
// telemetry windows, feature vectors, resource clusters, opportunity
// zones and discoveries, separate from any external wire format.
package types
