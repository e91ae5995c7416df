package survey

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/beamvis/beamvis/pkg/sweep"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Beam-envelope source column layout (0-indexed): transverse centroid
// position, raw variances, raw closed-orbit offsets, optional label.
const (
	colCentroidX = iota
	colCentroidY
	colVarX
	colVarY
	colOffsetX
	colOffsetY
	colEnvLabel

	envelopeMinFields = 7
)

// Fixed scaling applied to the raw statistics columns: variances arrive in
// m^2 and the visualized footprint is in mm, matching the survey positions.
const (
	sigmaUnitScale = 1e3  // m -> mm
	sigmaVarScale  = 1e-6 // raw variance -> m^2
)

// EnvelopeRow carries the per-slice beam statistics from which an elliptical
// cross-section footprint is derived. Valid is false for rows that failed
// validation; such slices contribute no cross-section but keep their row
// slot so pairing with the survey stays aligned.
type EnvelopeRow struct {
	Centroid v2.Vec
	VarX     float64
	VarY     float64
	OffsetX  float64
	OffsetY  float64
	Valid    bool
}

// Sigma returns the elliptical footprint semi-axes at the given number of
// beam sigmas.
func (e EnvelopeRow) Sigma(numSigmas float64) (sx, sy float64) {
	sx = sigmaUnitScale*numSigmas*math.Sqrt(sigmaVarScale*e.VarX) + math.Abs(e.OffsetX)
	sy = sigmaUnitScale*numSigmas*math.Sqrt(sigmaVarScale*e.VarY) + math.Abs(e.OffsetY)
	return sx, sy
}

// envelopeFromRow converts one statistics row. Short or non-numeric rows
// yield an invalid row.
func envelopeFromRow(fields []string) EnvelopeRow {
	if len(fields) < envelopeMinFields {
		return EnvelopeRow{}
	}
	var vals [6]float64
	for i := range vals {
		f, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil {
			return EnvelopeRow{}
		}
		vals[i] = f
	}
	return EnvelopeRow{
		Centroid: v2.Vec{X: vals[colCentroidX], Y: vals[colCentroidY]},
		VarX:     vals[colVarX],
		VarY:     vals[colVarY],
		OffsetX:  vals[colOffsetX],
		OffsetY:  vals[colOffsetY],
		Valid:    true,
	}
}

// LoadEnvelope reads a beam statistics source on its own, one row slot per
// data row.
func LoadEnvelope(r io.Reader) ([]EnvelopeRow, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	out := make([]EnvelopeRow, len(rows))
	for i, row := range rows {
		out[i] = envelopeFromRow(row)
	}
	return out, nil
}

// LoadBeam reads a path survey and its parallel beam statistics source in
// one synchronized pass, mirroring LoadAperture's pairing rules.
func LoadBeam(surveyR, statsR io.Reader) ([]sweep.Slice, []EnvelopeRow, error) {
	surveyRows, err := readRows(surveyR)
	if err != nil {
		return nil, nil, err
	}
	statsRows, err := readRows(statsR)
	if err != nil {
		return nil, nil, err
	}

	n := len(surveyRows)
	if len(statsRows) < n {
		n = len(statsRows)
	}

	slices := make([]sweep.Slice, 0, n)
	stats := make([]EnvelopeRow, 0, n)
	for i := 0; i < n; i++ {
		sl, ok := parseSlice(surveyRows[i])
		if !ok {
			continue
		}
		slices = append(slices, sl)
		stats = append(stats, envelopeFromRow(statsRows[i]))
	}
	return slices, stats, nil
}

// LoadBeamFile opens and reads a survey/statistics file pair.
func LoadBeamFile(surveyPath, statsPath string) ([]sweep.Slice, []EnvelopeRow, error) {
	sf, err := os.Open(surveyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("survey: open %s: %w", surveyPath, err)
	}
	defer sf.Close()

	ef, err := os.Open(statsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("survey: open %s: %w", statsPath, err)
	}
	defer ef.Close()

	return LoadBeam(sf, ef)
}
