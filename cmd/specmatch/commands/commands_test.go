package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestKernelCommand(t *testing.T) {
	out, _, err := run(t, "kernel", "0", "5", "--dv", "1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "FWHM")
	assert.True(t, strings.HasPrefix(lines[2], "0.00"), lines[2])
	assert.Contains(t, lines[2], "1.000000")
	assert.True(t, strings.HasPrefix(lines[3], "5.00"), lines[3])
}

func TestKernelCommandRejectsInput(t *testing.T) {
	_, _, err := run(t, "kernel", "fast")
	assert.Error(t, err)

	_, _, err = run(t, "kernel", "--taps", "150", "5")
	assert.Error(t, err)
}

// selftestRows parses a selftest table into fields keyed by variant.
func selftestRows(t *testing.T, out string) map[string][]string {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4, out)

	rows := make(map[string][]string, 2)
	for _, l := range lines[2:] {
		f := strings.Fields(l)
		require.GreaterOrEqual(t, len(f), 4, l)
		rows[f[0]] = f
	}
	return rows
}

func recoveredVsini(t *testing.T, rows map[string][]string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(strings.TrimPrefix(rows["single"][3], "vsini="), 64)
	require.NoError(t, err, rows["single"][3])
	return v
}

func recoveredWeights(t *testing.T, rows map[string][]string) (float64, float64) {
	t.Helper()
	parts := strings.Split(rows["lincomb"][3], "/")
	require.Len(t, parts, 2, rows["lincomb"][3])
	a, err := strconv.ParseFloat(parts[0], 64)
	require.NoError(t, err)
	b, err := strconv.ParseFloat(parts[1], 64)
	require.NoError(t, err)
	return a, b
}

func TestSelftestCommand(t *testing.T) {
	out, stderr, err := run(t, "selftest", "--vsini", "5")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	rows := selftestRows(t, out)
	assert.Equal(t, "vsini=5.000", rows["single"][2])
	assert.InDelta(t, 5.0, recoveredVsini(t, rows), 0.25)

	assert.Equal(t, "0.300/0.700", rows["lincomb"][2])
	a, b := recoveredWeights(t, rows)
	assert.InDelta(t, 0.3, a, 0.05)
	assert.InDelta(t, 0.7, b, 0.05)
}

func TestSelftestDefaults(t *testing.T) {
	for _, args := range [][]string{
		{"selftest"},
		{"selftest", "--oversample", "1"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			out, stderr, err := run(t, args...)
			require.NoError(t, err)
			assert.Empty(t, stderr)

			rows := selftestRows(t, out)
			assert.Equal(t, "vsini=4.000", rows["single"][2])
			assert.InDelta(t, 4.0, recoveredVsini(t, rows), 0.25)

			a, b := recoveredWeights(t, rows)
			assert.InDelta(t, 0.3, a, 0.05)
			assert.InDelta(t, 0.7, b, 0.05)
		})
	}
}

func TestSyntheticSpectraStayPositive(t *testing.T) {
	s := synthetic{lo: 5000, hi: 5010, points: 1000, lines: 40, errBar: 0.01}
	w := s.grid()
	for seed := range int64(20) {
		flux := s.spectrum(w, seed).Flux
		for i, v := range flux {
			require.Greater(t, v, 0.0, "seed %d index %d", seed, i)
			require.LessOrEqual(t, v, 1.0, "seed %d index %d", seed, i)
		}
	}
}

func TestSelftestUsesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("optimizer: nelder\nlog: silent\n"), 0o600))

	out, _, err := run(t, "--config", path, "selftest", "--points", "300")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "nelder")
}

func TestRootRejectsBadFlags(t *testing.T) {
	_, _, err := run(t, "--log", "loud", "kernel")
	assert.Error(t, err)

	_, _, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "kernel")
	assert.Error(t, err)

	_, _, err = run(t, "selftest", "--weight", "2")
	assert.Error(t, err)
}

func TestSelftestRejectsShortGrid(t *testing.T) {
	_, _, err := run(t, "--log", "silent", "selftest", "--points", "5")
	assert.Error(t, err)
}

func TestStellarCommand(t *testing.T) {
	out, _, err := run(t, "stellar")
	require.NoError(t, err)
	assert.Contains(t, out, "log g [cgs]")
	assert.Contains(t, out, "4.43")
	assert.NotContains(t, out, "distance")

	out, _, err = run(t, "stellar", "--plx", "100", "--plx-err", "1", "--theta", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "10.0000")
	assert.Contains(t, out, "radius [R_sun]")

	_, _, err = run(t, "stellar", "--mass", "-1")
	assert.Error(t, err)

	_, _, err = run(t, "stellar", "--plx", "100")
	assert.Error(t, err)
}
