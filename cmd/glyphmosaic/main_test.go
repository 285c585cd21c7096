package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"github.com/wbrown/glyphmosaic/imageutil"
)

// runApp runs the CLI with args and returns its output and error. Exit
// codes are returned instead of terminating the test binary.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	var out bytes.Buffer
	app := newApp(log)
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"glyphmosaic"}, args...))
	return out.String(), err
}

func writeInput(t *testing.T, width, height int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.png")
	require.NoError(t, imageutil.SaveImage(imageutil.CreateGradientImage(width, height).Gray, path))
	return path
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	var ec cli.ExitCoder
	require.True(t, errors.As(err, &ec), "expected an exit error, got %v", err)
	assert.Equal(t, code, ec.ExitCode())
}

func TestRunConvertsImage(t *testing.T) {
	in := writeInput(t, 47, 31)
	out := filepath.Join(t.TempDir(), "out.png")

	_, err := runApp(t, "-v", "--seed", "3", "-g", "@#", "-t", "15", "-o", out, in)
	require.NoError(t, err)

	img, err := imageutil.LoadImage(out)
	require.NoError(t, err)
	assert.Equal(t, 45, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestRunBackends(t *testing.T) {
	in := writeInput(t, 40, 20)

	for _, backend := range []string{"opentype", "freetype"} {
		out := filepath.Join(t.TempDir(), backend+".png")
		_, err := runApp(t, "--backend", backend, "--no-random", "--anchor", "center",
			"--filter", "catmullrom", "--sharpen", "-t", "10", "-o", out, in)
		require.NoError(t, err, backend)
		_, err = os.Stat(out)
		assert.NoError(t, err, backend)
	}
}

func TestRunInvalidTileSize(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")

	// The input does not exist: the tile size is rejected before loading.
	_, err := runApp(t, "-t", "0", "-o", out, filepath.Join(t.TempDir(), "missing.png"))
	requireExitCode(t, err, 1)
	assert.Contains(t, err.Error(), "tile size must be positive")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunMissingGlyph(t *testing.T) {
	in := writeInput(t, 30, 30)
	out := filepath.Join(t.TempDir(), "out.png")

	_, err := runApp(t, "-g", "@😀", "--no-random", "-o", out, in)
	requireExitCode(t, err, 1)
	assert.Contains(t, err.Error(), "glyph not found")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunBadFlags(t *testing.T) {
	in := writeInput(t, 30, 30)

	tests := []struct {
		name string
		args []string
	}{
		{"no input", nil},
		{"unknown backend", []string{"--backend", "cairo", in}},
		{"unknown filter", []string{"--filter", "box", in}},
		{"unknown anchor", []string{"--anchor", "bottom", in}},
		{"missing font", []string{"-f", filepath.Join(t.TempDir(), "none.ttf"), in}},
		{"missing input", []string{filepath.Join(t.TempDir(), "none.png")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runApp(t, append([]string{"-o", filepath.Join(t.TempDir(), "out.png")}, tt.args...)...)
			requireExitCode(t, err, 1)
		})
	}
}

func TestRunVersion(t *testing.T) {
	for _, flag := range []string{"--version", "-V"} {
		out, err := runApp(t, flag)
		require.NoError(t, err, flag)
		assert.Contains(t, out, "glyphmosaic version 1.0.0", flag)
	}
}
