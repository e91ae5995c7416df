package survey

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const surveyHeader = "x\ty\tz\ttheta\tphi\tpsi\tkind\n"

func surveyRow(x, y, z, theta, phi, psi, kind string) string {
	return strings.Join([]string{x, y, z, theta, phi, psi, kind}, "\t") + "\n"
}

func TestLoadSlices(t *testing.T) {
	src := surveyHeader +
		surveyRow("1.5", "2.0", "3.0", "0", "0", "90", "drift") +
		surveyRow("4.0", "5.0", "6.0", "0", "0", "-45", "quad")

	slices, err := LoadSlices(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, slices, 2)

	assert.Equal(t, 1.5, slices[0].Center.X)
	assert.Equal(t, 2.0, slices[0].Center.Y)
	assert.Equal(t, 3.0, slices[0].Center.Z)
	assert.InDelta(t, math.Pi/2, slices[0].Roll, 1e-12)
	assert.Equal(t, "drift", slices[0].Kind)
	assert.InDelta(t, -math.Pi/4, slices[1].Roll, 1e-12)
	assert.Equal(t, "quad", slices[1].Kind)
}

func TestLoadSlicesSkipsBadRows(t *testing.T) {
	src := surveyHeader +
		surveyRow("1", "2", "3", "0", "0", "0", "a") +
		"short\trow\n" +
		surveyRow("not-a-number", "2", "3", "0", "0", "0", "b") +
		surveyRow("4", "5", "6", "0", "0", "0", "c")

	slices, err := LoadSlices(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, slices, 2)
	assert.Equal(t, "a", slices[0].Kind)
	assert.Equal(t, "c", slices[1].Kind)
}

func TestLoadSlicesEmptySource(t *testing.T) {
	slices, err := LoadSlices(strings.NewReader(surveyHeader))
	require.NoError(t, err)
	assert.Empty(t, slices)
}

func TestLoadSlicesFileMissing(t *testing.T) {
	_, err := LoadSlicesFile("/no/such/survey.tsv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/no/such/survey.tsv")
}

func TestParseBracketList(t *testing.T) {
	vals := parseBracketList("[1.0, 2.5, None]")
	require.Len(t, vals, 3)
	assert.Equal(t, 1.0, vals[0])
	assert.Equal(t, 2.5, vals[1])
	assert.True(t, math.IsNaN(vals[2]))

	assert.Empty(t, parseBracketList("[]"))
	assert.Empty(t, parseBracketList("  "))

	vals = parseBracketList("[3.0, junk, -4.5]")
	require.Len(t, vals, 3)
	assert.True(t, math.IsNaN(vals[1]))
	assert.Equal(t, -4.5, vals[2])
}

func profileRow(xs, ys string) string {
	return strings.Join([]string{"0", "0", "0", xs, ys}, "\t") + "\n"
}

const profileHeader = "a\tb\tc\txs\tys\n"

func TestLoadProfiles(t *testing.T) {
	src := profileHeader +
		profileRow("[1.0, 0.0, -1.0, 0.0]", "[0.0, 1.0, 0.0, -1.0]") +
		profileRow("[None, 1.0]", "[0.0, 1.0]") + // leading missing x rejects the row
		profileRow("[1.0, None, -1.0]", "[0.0, 1.0, 0.0]") + // interior pair dropped
		"short\n"

	sections, err := LoadProfiles(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, sections, 4)

	assert.Len(t, sections[0], 4)
	assert.Nil(t, sections[1])
	require.Len(t, sections[2], 2)
	assert.Equal(t, 1.0, sections[2][0].X)
	assert.Equal(t, -1.0, sections[2][1].X)
	assert.Nil(t, sections[3])
}

func TestLoadAperturePairing(t *testing.T) {
	// The second survey row is invalid: its profile row must be dropped with
	// it. The third profile row is sparse: its slice survives with an empty
	// section.
	surveySrc := surveyHeader +
		surveyRow("0", "0", "0", "0", "0", "0", "a") +
		surveyRow("bad", "0", "10", "0", "0", "0", "a") +
		surveyRow("0", "0", "20", "0", "0", "0", "a")
	profileSrc := profileHeader +
		profileRow("[1.0, 0.0, -1.0]", "[0.0, 1.0, 0.0]") +
		profileRow("[9.0, 8.0, 7.0]", "[0.0, 1.0, 0.0]") +
		profileRow("[]", "[]")

	slices, sections, err := LoadAperture(
		strings.NewReader(surveySrc), strings.NewReader(profileSrc))
	require.NoError(t, err)
	require.Len(t, slices, 2)
	require.Len(t, sections, 2)

	assert.Equal(t, 0.0, slices[0].Center.Z)
	assert.Equal(t, 20.0, slices[1].Center.Z)
	assert.Len(t, sections[0], 3)
	assert.Empty(t, sections[1])
}

func TestLoadApertureUnevenLengths(t *testing.T) {
	// Extra survey rows past the end of the profile source are ignored.
	surveySrc := surveyHeader +
		surveyRow("0", "0", "0", "0", "0", "0", "a") +
		surveyRow("0", "0", "10", "0", "0", "0", "a")
	profileSrc := profileHeader +
		profileRow("[1.0, 0.0, -1.0]", "[0.0, 1.0, 0.0]")

	slices, sections, err := LoadAperture(
		strings.NewReader(surveySrc), strings.NewReader(profileSrc))
	require.NoError(t, err)
	assert.Len(t, slices, 1)
	assert.Len(t, sections, 1)
}
