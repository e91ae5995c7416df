// Command beamvis builds beam-pipe aperture and beam-envelope tube meshes
// from accelerator survey data and exports them for rendering.
//
// Usage:
//
//	beamvis -scene demo.scene
//	beamvis -survey survey.tsv -profiles profiles.tsv -obj beamline.obj
package main

import (
	"flag"
	"log"
	"os"

	"github.com/beamvis/beamvis/pkg/mesh"
	"github.com/beamvis/beamvis/pkg/scene"
)

func main() {
	var (
		scenePath   = flag.String("scene", "", "scene script to evaluate")
		surveyPath  = flag.String("survey", "", "path survey file (direct mode)")
		profilePath = flag.String("profiles", "", "aperture profile file (direct mode)")
		statsPath   = flag.String("envelope", "", "beam statistics file (direct mode)")
		sigmas      = flag.Float64("sigmas", scene.DefaultSigmas, "beam sigmas for the envelope tube")
		objPath     = flag.String("obj", "", "write a Wavefront OBJ (+ .mtl) to this path")
		stlPath     = flag.String("stl", "", "write a binary STL to this path")
		perRun      = flag.Bool("per-run", false, "emit one mesh per run instead of one per job")
	)
	flag.Parse()

	app := NewApp()

	var meshes []*mesh.Mesh
	var err error
	switch {
	case *scenePath != "":
		src, rerr := os.ReadFile(*scenePath)
		if rerr != nil {
			log.Fatalf("read scene: %v", rerr)
		}
		meshes, err = app.RunScript(string(src))

	case *surveyPath != "" && (*profilePath != "" || *statsPath != ""):
		plan := directPlan(*surveyPath, *profilePath, *statsPath, *sigmas, *objPath, *stlPath, *perRun)
		meshes, err = app.RunPlan(plan)

	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("beamvis: %v", err)
	}

	total := 0
	for _, m := range meshes {
		total += m.TriangleCount()
	}
	log.Printf("built %d mesh(es), %d triangles", len(meshes), total)
}

// directPlan assembles a plan from command-line flags, bypassing the scene
// script.
func directPlan(surveyPath, profilePath, statsPath string, sigmas float64, objPath, stlPath string, perRun bool) *scene.Plan {
	plan := scene.NewPlan()
	if profilePath != "" {
		plan.Jobs = append(plan.Jobs, scene.Job{
			Kind:        scene.JobAperture,
			Name:        "aperture",
			SurveyPath:  surveyPath,
			SectionPath: profilePath,
			Thickness:   scene.DefaultThickness,
		})
	}
	if statsPath != "" {
		plan.Jobs = append(plan.Jobs, scene.Job{
			Kind:        scene.JobEnvelope,
			Name:        "envelope",
			SurveyPath:  surveyPath,
			SectionPath: statsPath,
			Sigmas:      sigmas,
			Resolution:  scene.DefaultResolution,
		})
	}
	plan.Output = scene.Output{OBJPath: objPath, STLPath: stlPath, PerRun: perRun}
	return plan
}
