package main

import (
	"fmt"
	"log"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/beamvis/beamvis/pkg/export"
	"github.com/beamvis/beamvis/pkg/mesh"
	"github.com/beamvis/beamvis/pkg/scene"
	"github.com/beamvis/beamvis/pkg/survey"
	"github.com/beamvis/beamvis/pkg/sweep"
)

// colorPalette assigns distinct flat colors to runs that carry no explicit
// color override.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// progressEvery controls how often sweep progress is logged.
const progressEvery = 1000

// App wires the scene engine to the sweep pipeline and the exporters.
type App struct {
	scene *scene.Engine
}

// NewApp creates a new App with a fresh scene engine.
func NewApp() *App {
	return &App{scene: scene.NewEngine()}
}

// RunScript evaluates a scene script, runs every job it names, and writes
// any outputs the script requested. Finished meshes are returned in job
// order.
func (a *App) RunScript(source string) ([]*mesh.Mesh, error) {
	plan, evalErrs, err := a.scene.Evaluate(source)
	if err != nil {
		return nil, fmt.Errorf("scene evaluation: %w", err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			log.Printf("scene error: %s", e.Error())
		}
		return nil, fmt.Errorf("scene script failed: %s", evalErrs[0].Error())
	}
	return a.RunPlan(plan)
}

// RunPlan executes all jobs of a plan. Jobs are independent sweeps with no
// shared mutable state, so each runs on its own goroutine; a job's meshes
// are collected only after its sweep fully completes, never partially. A job
// whose sources are unreadable is logged and dropped without aborting the
// remaining jobs.
func (a *App) RunPlan(plan *scene.Plan) ([]*mesh.Mesh, error) {
	type jobResult struct {
		idx    int
		meshes []*mesh.Mesh
		err    error
	}

	results := make(chan jobResult, len(plan.Jobs))
	for i, job := range plan.Jobs {
		go func(idx int, j scene.Job) {
			ms, err := runJob(j, plan.Output.PerRun)
			results <- jobResult{idx: idx, meshes: ms, err: err}
		}(i, job)
	}

	collected := make([][]*mesh.Mesh, len(plan.Jobs))
	var firstErr error
	for range plan.Jobs {
		res := <-results
		if res.err != nil {
			log.Printf("job %q: %v", plan.Jobs[res.idx].Name, res.err)
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		collected[res.idx] = res.meshes
	}

	var meshes []*mesh.Mesh
	for _, ms := range collected {
		meshes = append(meshes, ms...)
	}
	if len(meshes) == 0 && firstErr != nil {
		return nil, firstErr
	}

	if plan.Output.OBJPath != "" {
		if err := export.WriteOBJFile(plan.Output.OBJPath, meshes); err != nil {
			return nil, err
		}
		log.Printf("wrote %s", plan.Output.OBJPath)
	}
	if plan.Output.STLPath != "" {
		if err := export.SaveSTL(plan.Output.STLPath, meshes); err != nil {
			return nil, err
		}
		log.Printf("wrote %s", plan.Output.STLPath)
	}

	return meshes, nil
}

// runJob loads a job's paired sources and sweeps them into meshes, one per
// run or one combined per the emission mode.
func runJob(j scene.Job, perRun bool) ([]*mesh.Mesh, error) {
	cfg := sweep.Config{Progress: logProgress(j.Name)}
	var runs []*mesh.Mesh

	switch j.Kind {
	case scene.JobAperture:
		slices, sections, err := survey.LoadApertureFile(j.SurveyPath, j.SectionPath)
		if err != nil {
			return nil, err
		}
		cfg.ThicknessScale = j.Thickness
		runs = sweep.BuildRuns(j.Name, slices, func(i int) []v2.Vec { return sections[i] }, cfg)

	case scene.JobEnvelope:
		slices, stats, err := survey.LoadBeamFile(j.SurveyPath, j.SectionPath)
		if err != nil {
			return nil, err
		}
		res := j.Resolution
		if res <= 0 {
			res = sweep.DefaultEllipseResolution
		}
		section := func(i int) []v2.Vec {
			row := stats[i]
			if !row.Valid {
				return nil
			}
			sx, sy := row.Sigma(j.Sigmas)
			return sweep.Ellipse(row.Centroid, sx, sy, res)
		}
		runs = sweep.BuildRuns(j.Name, slices, section, cfg)

	default:
		return nil, fmt.Errorf("unknown job kind: %v", j.Kind)
	}

	for i, m := range runs {
		if j.Color != "" {
			m.Color = j.Color
		} else {
			m.Color = colorPalette[i%len(colorPalette)]
		}
	}

	if !perRun {
		combined := mesh.Merge(j.Name, runs)
		combined.Color = j.Color
		if combined.Color == "" {
			combined.Color = colorPalette[0]
		}
		return []*mesh.Mesh{combined}, nil
	}
	return runs, nil
}

// logProgress returns a fire-and-forget progress callback for one job. It is
// invoked synchronously on the job's worker goroutine.
func logProgress(name string) func(done, total int) {
	return func(done, total int) {
		if done%progressEvery == 0 || done == total {
			log.Printf("%s: %d/%d slices", name, done, total)
		}
	}
}
