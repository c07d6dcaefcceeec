package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	t.Run("version", func(t *testing.T) {
		out, err := execute(t, "", "version")
		require.NoError(t, err)
		assert.Contains(t, out, "onboard version ")
	})

	t.Run("presets", func(t *testing.T) {
		out, err := execute(t, "", "presets")
		require.NoError(t, err)
		assert.Contains(t, out, "calorie-plan")
		assert.Contains(t, out, "ecommerce")
	})

	t.Run("validate preset", func(t *testing.T) {
		out, err := execute(t, "", "validate", "app-preferences")
		require.NoError(t, err)
		assert.Contains(t, out, `"app-preferences" is valid (2 steps)`)
	})

	t.Run("graph", func(t *testing.T) {
		out, err := execute(t, "", "graph", "ecommerce")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "graph TD"))
	})

	t.Run("run plain", func(t *testing.T) {
		out, err := execute(t, "electronics\n2\n", "run", "ecommerce", "--plain", "--print-answers")
		require.NoError(t, err)
		assert.Contains(t, out, `"budget": "mid"`)
	})

	t.Run("unknown flow", func(t *testing.T) {
		_, err := execute(t, "", "graph", "nope")
		assert.Error(t, err)
	})
}
