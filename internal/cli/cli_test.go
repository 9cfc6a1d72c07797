package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse(nil, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Empty(t, cfg.ScenePath)
	assert.Equal(t, "./training_data", cfg.OutputPath)
	assert.Equal(t, 960, cfg.Width)
	assert.Equal(t, 544, cfg.Height)
	assert.Equal(t, 1000, cfg.FrameCount)
	assert.True(t, cfg.Headless)
	assert.Equal(t, "preview", cfg.RenderQuality)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.WorkerCount)
}

func TestParse_ScenePathSources(t *testing.T) {
	out := &bytes.Buffer{}

	t.Run("long flag", func(t *testing.T) {
		cfg, _, err := Parse([]string{"-scene", "scene.hcl"}, out)
		require.NoError(t, err)
		assert.Equal(t, "scene.hcl", cfg.ScenePath)
	})

	t.Run("shorthand flag", func(t *testing.T) {
		cfg, _, err := Parse([]string{"-s", "scene.hcl"}, out)
		require.NoError(t, err)
		assert.Equal(t, "scene.hcl", cfg.ScenePath)
	})

	t.Run("positional argument", func(t *testing.T) {
		cfg, _, err := Parse([]string{"scene.hcl"}, out)
		require.NoError(t, err)
		assert.Equal(t, "scene.hcl", cfg.ScenePath)
	})
}

func TestParse_Overrides(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, _, err := Parse([]string{
		"-output", "/tmp/ds",
		"-width", "640", "-height", "480",
		"-frames", "10",
		"-seed", "42",
		"-writer", "cbor",
		"-quality", "pathtraced",
		"-log-format", "TEXT",
		"-workers", "8",
	}, out)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ds", cfg.OutputPath)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
	assert.Equal(t, 10, cfg.FrameCount)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "cbor", cfg.WriterName)
	assert.Equal(t, "pathtraced", cfg.RenderQuality)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 8, cfg.WorkerCount)
}

func TestParse_Help(t *testing.T) {
	out := &bytes.Buffer{}
	_, shouldExit, err := Parse([]string{"-h"}, out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_Invalid(t *testing.T) {
	cases := []struct {
		name string
		args []string
		msg  string
	}{
		{"log format", []string{"-log-format", "xml"}, "invalid log-format"},
		{"log level", []string{"-log-level", "verbose"}, "invalid log-level"},
		{"quality", []string{"-quality", "ultra"}, "unknown render quality"},
		{"resolution", []string{"-width", "0"}, "resolution"},
		{"frames", []string{"-frames", "-3"}, "frame count"},
		{"empty output", []string{"-output", ""}, "OutputPath"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			_, _, err := Parse(tc.args, out)
			require.Error(t, err)

			exitErr, ok := err.(*ExitError)
			require.True(t, ok, "expected an ExitError")
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.msg)
		})
	}
}
