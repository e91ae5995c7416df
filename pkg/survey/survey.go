// Package survey parses the tabular path-survey, aperture-profile and
// beam-envelope sources into sweep inputs. All sources are tab-delimited
// text with a single header row. Malformed or short rows are skipped, never
// fatal; an unreadable source fails fast with a descriptive error.
//
// Paired loaders (LoadAperture, LoadBeam) read both sources in a single
// filtering pass keyed by data-row ordinal, so that a row rejected on one
// side is dropped on both and the slice/cross-section pairing can never
// desynchronize.
package survey

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/beamvis/beamvis/pkg/sweep"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Survey source column layout (0-indexed).
const (
	colX = iota
	colY
	colZ
	colTheta
	colPhi
	colPsi // roll about the path axis, degrees
	colKind

	surveyMinFields = 7
)

const degToRad = math.Pi / 180

// maxRowBytes bounds a single source row; profile rows carry long bracket
// lists.
const maxRowBytes = 1 << 20

// readRows scans r into one field-slice per data row. The header row is
// discarded. Every physical line after the header occupies a row slot, valid
// or not, so parallel sources can be paired by row ordinal.
func readRows(r io.Reader) ([][]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxRowBytes)

	var rows [][]string
	first := true
	for sc.Scan() {
		if first {
			first = false
			continue
		}
		rows = append(rows, strings.Split(sc.Text(), "\t"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("survey: reading rows: %w", err)
	}
	return rows, nil
}

// parseSlice converts one survey row into a path slice. ok is false for
// short or non-numeric rows, which callers skip.
func parseSlice(fields []string) (sweep.Slice, bool) {
	if len(fields) < surveyMinFields {
		return sweep.Slice{}, false
	}
	var vals [6]float64
	for i := range vals {
		f, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil {
			return sweep.Slice{}, false
		}
		vals[i] = f
	}
	return sweep.Slice{
		Center: v3.Vec{X: vals[colX], Y: vals[colY], Z: vals[colZ]},
		Roll:   vals[colPsi] * degToRad,
		Kind:   strings.TrimSpace(fields[colKind]),
	}, true
}

// LoadSlices reads a path survey on its own, dropping invalid rows. Use the
// paired loaders when a parallel cross-section source must stay aligned.
func LoadSlices(r io.Reader) ([]sweep.Slice, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	slices := make([]sweep.Slice, 0, len(rows))
	for _, row := range rows {
		if sl, ok := parseSlice(row); ok {
			slices = append(slices, sl)
		}
	}
	return slices, nil
}

// LoadSlicesFile opens and reads a path survey file.
func LoadSlicesFile(path string) ([]sweep.Slice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("survey: open %s: %w", path, err)
	}
	defer f.Close()
	return LoadSlices(f)
}
