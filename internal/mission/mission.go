package mission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prospectd/prospectd/pkg/types"
)

// State is the exploration mission lifecycle state.
type State string

// Mission states. Terminal states are final: no further transitions are
// permitted once one is reached.
const (
	StateProposed   State = "proposed"
	StatePlanned    State = "planned"
	StateAuthorized State = "authorized"
	StateExecuting  State = "executing"
	StateValidated  State = "validated"
	StateRejected   State = "rejected"
	StateAborted    State = "aborted"
)

// Terminal reports whether s permits no further transitions.
func (s State) Terminal() bool {
	switch s {
	case StateValidated, StateRejected, StateAborted:
		return true
	}
	return false
}

// transitions is the closed transition table. Anything not listed is
// invalid and fails with ErrInvalidTransition at the call site.
var transitions = map[State][]State{
	StateProposed:   {StatePlanned},
	StatePlanned:    {StateAuthorized, StateAborted},
	StateAuthorized: {StateExecuting},
	StateExecuting:  {StateValidated, StateRejected},
}

// allowed reports whether the table permits from → to.
func allowed(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Typed mission errors.
var (
	// ErrInvalidTransition is returned when a state change is not in the
	// transition table.
	ErrInvalidTransition = errors.New("mission: invalid state transition")

	// ErrMissionConsumed is returned when Run is called on a mission
	// that has already run. Missions are single-use: retrying a zone
	// requires a fresh mission.
	ErrMissionConsumed = errors.New("mission: already run")
)

// LogEntry is one audit record of a state transition.
type LogEntry struct {
	State  State     `json:"state"`
	At     time.Time `json:"at"`
	Reason string    `json:"reason"`
}

// Collaborators are the pluggable decision points of a mission run.
// All four must be set.
type Collaborators struct {
	Risk   RiskEstimator
	Healer HealingPlanner
	Probes []Probe
	Hazard HazardMonitor
}

// Options tune a single mission.
type Options struct {
	// RiskTolerance is the predicted-risk ceiling for unconditional
	// authorization. Values outside (0, 1] fall back to 0.2.
	RiskTolerance float64

	// ROIScale converts the residual-risk fraction (1 - predicted risk)
	// into the discovery's ROI estimate. Defaults to 100.
	ROIScale float64

	// Clock is injectable for deterministic log timestamps in tests.
	// Defaults to time.Now.
	Clock func() time.Time
}

// Mission drives one exploration attempt against a single zone through
// the plan/simulate/execute/validate sequence. A Mission is created
// fresh per attempt and may run at most once.
type Mission struct {
	ID            string
	ZoneID        string
	RiskTolerance float64

	// Mitigated is true when the mission was authorized via an approved
	// healing plan rather than a low predicted risk. The two paths are
	// deliberately distinguishable for audit purposes.
	Mitigated bool

	deps     Collaborators
	roiScale float64
	now      func() time.Time

	state State
	log   []LogEntry
	ran   bool
}

// New creates a mission in the proposed state for the given zone.
func New(zoneID string, deps Collaborators, opts Options) *Mission {
	tolerance := opts.RiskTolerance
	if tolerance <= 0 || tolerance > 1 {
		tolerance = 0.2
	}
	roiScale := opts.ROIScale
	if roiScale <= 0 {
		roiScale = 100
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	m := &Mission{
		ID:            uuid.NewString(),
		ZoneID:        zoneID,
		RiskTolerance: tolerance,
		deps:          deps,
		roiScale:      roiScale,
		now:           clock,
		state:         StateProposed,
	}
	m.log = append(m.log, LogEntry{State: StateProposed, At: clock(), Reason: "mission proposed"})
	return m
}

// State returns the current mission state.
func (m *Mission) State() State { return m.state }

// Log returns a copy of the append-only transition log.
func (m *Mission) Log() []LogEntry {
	out := make([]LogEntry, len(m.log))
	copy(out, m.log)
	return out
}

// transition moves the mission to next, appending an audit log entry.
func (m *Mission) transition(next State, reason string) error {
	if !allowed(m.state, next) {
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, m.state, next)
	}
	m.state = next
	m.log = append(m.log, LogEntry{State: next, At: m.now(), Reason: reason})
	slog.Info("mission: state changed",
		"mission", m.ID, "zone", m.ZoneID, "state", next, "reason", reason)
	return nil
}

// Run executes the mission to a terminal state.
//
// The returned discovery is non-nil if and only if the final state is
// validated. A nil discovery with a nil error means the mission resolved
// to an aborted or rejected terminal state by design — denied healing
// and detected hazards are outcomes, not errors. A non-nil error means
// a collaborator failed or the mission was misused; the mission is
// still left in a terminal state.
func (m *Mission) Run(ctx context.Context) (*types.Discovery, error) {
	if m.ran {
		return nil, ErrMissionConsumed
	}
	m.ran = true

	if err := m.transition(StatePlanned, "exploration plan drafted"); err != nil {
		return nil, err
	}

	predicted, err := m.simulate(ctx)
	if err != nil || m.state.Terminal() {
		return nil, err
	}

	return m.execute(ctx, predicted)
}

// simulate obtains a risk prediction and decides authorization. High
// predicted risk triggers the healing-plan approval path; denial ends
// the mission in the aborted state.
func (m *Mission) simulate(ctx context.Context) (float64, error) {
	predicted, err := m.deps.Risk.PredictRisk(ctx, m.ZoneID)
	if err != nil {
		if terr := m.transition(StateAborted, "risk estimation failed"); terr != nil {
			return 0, terr
		}
		return 0, fmt.Errorf("mission %s: predict risk: %w", m.ID, err)
	}

	if predicted <= m.RiskTolerance {
		return predicted, m.transition(StateAuthorized,
			fmt.Sprintf("predicted risk %.3f within tolerance %.3f", predicted, m.RiskTolerance))
	}

	approved, err := m.deps.Healer.ApprovePlan(ctx, m.ZoneID, predicted)
	if err != nil {
		if terr := m.transition(StateAborted, "healing plan approval failed"); terr != nil {
			return 0, terr
		}
		return 0, fmt.Errorf("mission %s: approve healing plan: %w", m.ID, err)
	}
	if !approved {
		return predicted, m.transition(StateAborted,
			fmt.Sprintf("healing plan denied at predicted risk %.3f", predicted))
	}

	m.Mitigated = true
	return predicted, m.transition(StateAuthorized,
		fmt.Sprintf("authorized under mitigation at predicted risk %.3f", predicted))
}

// execute runs the probe sequence, checks the hazard signal and either
// validates a discovery or stabilizes and rejects.
func (m *Mission) execute(ctx context.Context, predicted float64) (*types.Discovery, error) {
	if err := m.transition(StateExecuting, "probe sequence started"); err != nil {
		return nil, err
	}

	for _, probe := range m.deps.Probes {
		if err := probe.Run(ctx, m.ZoneID); err != nil {
			m.stabilize(ctx)
			if terr := m.transition(StateRejected,
				fmt.Sprintf("probe %q failed, emergency stabilization run", probe.Name())); terr != nil {
				return nil, terr
			}
			return nil, fmt.Errorf("mission %s: probe %q: %w", m.ID, probe.Name(), err)
		}
	}

	hazard, err := m.deps.Hazard.Detect(ctx, m.ZoneID)
	if err != nil {
		m.stabilize(ctx)
		if terr := m.transition(StateRejected, "hazard check failed, emergency stabilization run"); terr != nil {
			return nil, terr
		}
		return nil, fmt.Errorf("mission %s: hazard check: %w", m.ID, err)
	}
	if hazard {
		m.stabilize(ctx)
		return nil, m.transition(StateRejected, "hazard detected, emergency stabilization run")
	}

	discovery := &types.Discovery{
		ID:          uuid.NewString(),
		ZoneID:      m.ZoneID,
		Hypothesis:  fmt.Sprintf("zone %s holds recoverable resource potential", m.ZoneID),
		Validated:   true,
		ROIEstimate: (1 - predicted) * m.roiScale,
	}
	if err := m.transition(StateValidated, "probe results validated discovery"); err != nil {
		return nil, err
	}
	return discovery, nil
}

// stabilize runs the emergency healing procedure. A stabilization
// failure is logged but never masks the mission outcome.
func (m *Mission) stabilize(ctx context.Context) {
	if err := m.deps.Healer.Stabilize(ctx, m.ZoneID); err != nil {
		slog.Error("mission: emergency stabilization failed",
			"mission", m.ID, "zone", m.ZoneID, "err", err)
	}
}
