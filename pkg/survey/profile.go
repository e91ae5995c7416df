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

// Aperture profile source column layout (0-indexed). Columns 3 and 4 hold
// bracket-delimited coordinate lists, e.g. "[1.0, 2.0, None]".
const (
	colProfileX = 3
	colProfileY = 4

	profileMinFields = 5
)

// parseBracketList parses a bracket-delimited comma-separated numeric list.
// None, empty, and unparseable tokens map to NaN, the missing-value marker,
// so element positions are preserved for the caller.
func parseBracketList(s string) []float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return nil
	}

	toks := strings.Split(s, ",")
	out := make([]float64, 0, len(toks))
	for _, tok := range toks {
		tok = strings.TrimSpace(tok)
		if tok == "" || strings.EqualFold(tok, "none") {
			out = append(out, math.NaN())
			continue
		}
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			out = append(out, math.NaN())
			continue
		}
		out = append(out, f)
	}
	return out
}

// sectionFromRow converts one profile row into a traced boundary polygon.
// A short row, or a row whose leading x coordinate is missing, yields nil
// (the whole line is rejected). Missing markers elsewhere only drop the
// affected point pair; the rest of the polygon is kept.
func sectionFromRow(fields []string) []v2.Vec {
	if len(fields) < profileMinFields {
		return nil
	}
	xs := parseBracketList(fields[colProfileX])
	ys := parseBracketList(fields[colProfileY])
	if len(xs) == 0 || math.IsNaN(xs[0]) {
		return nil
	}

	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	pts := make([]v2.Vec, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		pts = append(pts, v2.Vec{X: xs[i], Y: ys[i]})
	}
	return pts
}

// LoadProfiles reads an aperture profile source on its own. The returned
// sections are indexed by data-row ordinal; rejected rows occupy a nil slot.
func LoadProfiles(r io.Reader) ([][]v2.Vec, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	sections := make([][]v2.Vec, len(rows))
	for i, row := range rows {
		sections[i] = sectionFromRow(row)
	}
	return sections, nil
}

// LoadAperture reads a path survey and its parallel aperture profile source
// in one synchronized pass. Both returned slices have equal length: a survey
// row that fails validation drops the row on both sides, while a profile row
// yielding too few points keeps the slice paired with an empty section so the
// builder can skip it without breaking alignment.
func LoadAperture(surveyR, profileR io.Reader) ([]sweep.Slice, [][]v2.Vec, error) {
	surveyRows, err := readRows(surveyR)
	if err != nil {
		return nil, nil, err
	}
	profileRows, err := readRows(profileR)
	if err != nil {
		return nil, nil, err
	}

	n := len(surveyRows)
	if len(profileRows) < n {
		n = len(profileRows)
	}

	slices := make([]sweep.Slice, 0, n)
	sections := make([][]v2.Vec, 0, n)
	for i := 0; i < n; i++ {
		sl, ok := parseSlice(surveyRows[i])
		if !ok {
			continue
		}
		slices = append(slices, sl)
		sections = append(sections, sectionFromRow(profileRows[i]))
	}
	return slices, sections, nil
}

// LoadApertureFile opens and reads a survey/profile file pair.
func LoadApertureFile(surveyPath, profilePath string) ([]sweep.Slice, [][]v2.Vec, error) {
	sf, err := os.Open(surveyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("survey: open %s: %w", surveyPath, err)
	}
	defer sf.Close()

	pf, err := os.Open(profilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("survey: open %s: %w", profilePath, err)
	}
	defer pf.Close()

	return LoadAperture(sf, pf)
}
