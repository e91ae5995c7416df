// Package scene evaluates beamline scene scripts into an executable plan.
// A scene script is a small sandboxed Lisp program naming the sweep jobs to
// run (aperture tubes, beam-envelope tubes) and where their meshes go.
package scene

// JobKind enumerates the sweep job types a scene can request.
type JobKind int

const (
	JobAperture JobKind = iota // beam-pipe aperture tube from traced profiles
	JobEnvelope                // beam-envelope tube from statistical footprints
)

func (k JobKind) String() string {
	switch k {
	case JobAperture:
		return "aperture"
	case JobEnvelope:
		return "envelope"
	default:
		return "unknown"
	}
}

// Job default parameters.
const (
	DefaultSigmas     = 3.0
	DefaultThickness  = 1.0
	DefaultResolution = 24
)

// Job describes one sweep to run. Aperture jobs pair the survey with a
// traced profile source; envelope jobs pair it with a beam statistics source.
type Job struct {
	Kind        JobKind `json:"kind"`
	Name        string  `json:"name"`
	SurveyPath  string  `json:"survey_path"`
	SectionPath string  `json:"section_path"`
	Sigmas      float64 `json:"sigmas,omitempty"`     // envelope: number of beam sigmas
	Resolution  int     `json:"resolution,omitempty"` // envelope: ellipse vertex count
	Thickness   float64 `json:"thickness,omitempty"`  // aperture: cross-section scale
	Color       string  `json:"color,omitempty"`      // hex color override
}

// Output describes where finished meshes are written. Empty paths disable
// the corresponding writer.
type Output struct {
	OBJPath string `json:"obj_path,omitempty"`
	STLPath string `json:"stl_path,omitempty"`
	PerRun  bool   `json:"per_run"` // one mesh per run instead of one per job
}

// Plan is the immutable result of evaluating a scene script. Each evaluation
// produces a new plan; plans are never mutated after evaluation returns.
type Plan struct {
	Jobs   []Job  `json:"jobs"`
	Output Output `json:"output"`
}

// NewPlan creates an empty plan.
func NewPlan() *Plan {
	return &Plan{}
}
