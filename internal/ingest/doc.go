// Package ingest decodes telemetry exported by acquisition systems into
// the pipeline's ordered windows. The only supported wire format is
// Prometheus text exposition with (window, seq)-labelled temperature
// and vibration gauges; acquisition itself belongs to the external
// ingestion collaborator.
package ingest
