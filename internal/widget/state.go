package widget

import (
	"encoding/json"

	"github.com/alexivanou/meteo-widget/internal/model"
	"github.com/alexivanou/meteo-widget/internal/weather"
)

// Phase tags the variant held by a State
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	}
	return "idle"
}

// Failure is a user-facing message together with the structured error behind it
type Failure struct {
	Message string
	Err     error
}

// State is exactly one of Idle, Loading, Loaded(snapshot) or Failed(failure).
// The zero value is Idle.
type State struct {
	phase    Phase
	snapshot model.WeatherSnapshot
	failure  Failure
}

func Idle() State    { return State{phase: PhaseIdle} }
func Loading() State { return State{phase: PhaseLoading} }

func Loaded(snapshot model.WeatherSnapshot) State {
	return State{phase: PhaseLoaded, snapshot: snapshot}
}

// Failed builds a failed state whose message is derived from err
func Failed(err error) State {
	return State{phase: PhaseFailed, failure: Failure{Message: weather.UserMessage(err), Err: err}}
}

func (s State) Phase() Phase { return s.phase }

// Snapshot returns the loaded snapshot; ok is false in every other phase
func (s State) Snapshot() (model.WeatherSnapshot, bool) {
	if s.phase != PhaseLoaded {
		return model.WeatherSnapshot{}, false
	}
	return s.snapshot, true
}

// Failure returns the failure; ok is false in every other phase
func (s State) Failure() (Failure, bool) {
	if s.phase != PhaseFailed {
		return Failure{}, false
	}
	return s.failure, true
}

type stateJSON struct {
	Phase    string                 `json:"phase"`
	Snapshot *model.WeatherSnapshot `json:"snapshot,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// MarshalJSON exposes the user message only, never the underlying cause
func (s State) MarshalJSON() ([]byte, error) {
	out := stateJSON{Phase: s.phase.String()}
	switch s.phase {
	case PhaseLoaded:
		snap := s.snapshot
		out.Snapshot = &snap
	case PhaseFailed:
		out.Error = s.failure.Message
	}
	return json.Marshal(out)
}
