package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/prospectd/prospectd/pkg/types"
)

// Metric families and labels of the telemetry exposition contract.
// Each sample is one (window, seq)-labelled gauge pair.
const (
	FamilyTemperature = "asset_temperature_celsius"
	FamilyVibration   = "asset_vibration_amplitude"

	labelWindow = "window"
	labelSeq    = "seq"
)

// ParseText decodes telemetry exported in Prometheus text exposition
// format into ordered windows.
//
// Samples are paired by their window and seq labels; within a window
// samples are ordered by ascending seq, and windows are returned sorted
// by window label. A sample missing its temperature or vibration
// counterpart keeps a zero for the absent reading — degenerate exports
// are tolerated, not rejected. Metrics without the required labels are
// skipped with a log line.
func ParseText(r io.Reader) ([]types.TelemetryWindow, error) {
	mfs, err := parseFamilies(r)
	if err != nil {
		return nil, err
	}

	temps := collect(mfs[FamilyTemperature])
	vibs := collect(mfs[FamilyVibration])

	ids := make(map[string]struct{})
	for id := range temps {
		ids[id] = struct{}{}
	}
	for id := range vibs {
		ids[id] = struct{}{}
	}

	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	windows := make([]types.TelemetryWindow, 0, len(sorted))
	for _, id := range sorted {
		windows = append(windows, buildWindow(id, temps[id], vibs[id]))
	}
	return windows, nil
}

// parseFamilies decodes a Prometheus text exposition from r.
// A partial result with a non-fatal parse warning is still returned
// successfully.
func parseFamilies(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("ingest: parse prometheus text: %w", err)
	}
	return mfs, nil
}

// collect indexes a family's values by window id, then by sequence
// number.
func collect(mf *dto.MetricFamily) map[string]map[int]float64 {
	out := make(map[string]map[int]float64)
	if mf == nil {
		return out
	}

	for _, m := range mf.GetMetric() {
		var window string
		var seqRaw string
		for _, lp := range m.GetLabel() {
			switch lp.GetName() {
			case labelWindow:
				window = lp.GetValue()
			case labelSeq:
				seqRaw = lp.GetValue()
			}
		}
		if window == "" || seqRaw == "" {
			slog.Warn("ingest: metric missing window/seq labels — skipped",
				"family", mf.GetName())
			continue
		}
		seq, err := strconv.Atoi(seqRaw)
		if err != nil {
			slog.Warn("ingest: non-numeric seq label — skipped",
				"family", mf.GetName(), "seq", seqRaw)
			continue
		}

		if out[window] == nil {
			out[window] = make(map[int]float64)
		}
		out[window][seq] = sampleValue(m)
	}
	return out
}

// sampleValue extracts the gauge, untyped or counter value of a metric.
func sampleValue(m *dto.Metric) float64 {
	switch {
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	case m.Untyped != nil:
		return m.Untyped.GetValue()
	case m.Counter != nil:
		return m.Counter.GetValue()
	}
	return 0
}

// buildWindow zips the temperature and vibration readings of one window
// into seq order.
func buildWindow(id string, temps, vibs map[int]float64) types.TelemetryWindow {
	seqs := make(map[int]struct{})
	for s := range temps {
		seqs[s] = struct{}{}
	}
	for s := range vibs {
		seqs[s] = struct{}{}
	}

	order := make([]int, 0, len(seqs))
	for s := range seqs {
		order = append(order, s)
	}
	sort.Ints(order)

	w := types.TelemetryWindow{ID: id, Samples: make([]types.TelemetrySample, 0, len(order))}
	for _, s := range order {
		w.Samples = append(w.Samples, types.TelemetrySample{
			Temperature: temps[s],
			Vibration:   vibs[s],
		})
	}
	return w
}
