package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns what
// fn wrote.
func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fnErr := fn()
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, fnErr)
	return string(out)
}

func writeRegistry(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func resetFlags() {
	verbose = false
	noColor = false
	exclusionsPath = ""
	allowMissing = nil
	allowIncorrect = nil
}

func TestRunComparison(t *testing.T) {
	logger = zap.NewNop()
	resetFlags()
	noColor = true

	dir := t.TempDir()
	local := writeRegistry(t, dir, "local.yaml", "a: 1\nb: 2\n")
	ref := writeRegistry(t, dir, "ref.yaml", "b: 2\nc: 3\n")

	out := captureStdout(t, func() error {
		return runComparison(local, ref)
	})

	assert.Equal(t, "❌ Incorrect:\na\n\n🔁 Missing:\nc\n", out)
}

func TestRunComparison_DefaultExclusionsApply(t *testing.T) {
	logger = zap.NewNop()
	resetFlags()
	noColor = true

	dir := t.TempDir()
	local := writeRegistry(t, dir, "local.yaml", "tenant_token_guide_generate_sdk_1: 1\n")
	ref := writeRegistry(t, dir, "ref.yaml", "updating_guide_create_dump: 1\n")

	out := captureStdout(t, func() error {
		return runComparison(local, ref)
	})

	// Both keys are in the built-in exclusion lists.
	assert.Equal(t, "❌ Incorrect:\n\n\n🔁 Missing:\n\n", out)
}

func TestRunComparison_AllowFlags(t *testing.T) {
	logger = zap.NewNop()
	resetFlags()
	noColor = true
	allowMissing = []string{"ref_only"}
	allowIncorrect = []string{"local_only"}

	dir := t.TempDir()
	local := writeRegistry(t, dir, "local.yaml", "local_only: 1\n")
	ref := writeRegistry(t, dir, "ref.yaml", "ref_only: 1\n")

	out := captureStdout(t, func() error {
		return runComparison(local, ref)
	})

	assert.Equal(t, "❌ Incorrect:\n\n\n🔁 Missing:\n\n", out)
}

func TestRunComparison_ExclusionsFileReplacesDefaults(t *testing.T) {
	logger = zap.NewNop()
	resetFlags()
	noColor = true

	dir := t.TempDir()
	local := writeRegistry(t, dir, "local.yaml", "")
	// A default-excluded key must reappear once the defaults are replaced.
	ref := writeRegistry(t, dir, "ref.yaml", "updating_guide_create_dump: 1\n")
	exclusionsPath = writeRegistry(t, dir, "exclusions.yaml", "not_needed_locally: []\nnot_in_reference: []\n")

	out := captureStdout(t, func() error {
		return runComparison(local, ref)
	})

	assert.Contains(t, out, "updating_guide_create_dump")
}

func TestRunComparison_ParseErrorProducesNoOutput(t *testing.T) {
	logger = zap.NewNop()
	resetFlags()

	dir := t.TempDir()
	local := writeRegistry(t, dir, "local.yaml", "a: 1\n")
	ref := writeRegistry(t, dir, "ref.yaml", "- not\n- a\n- mapping\n")

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	runErr := runComparison(local, ref)
	os.Stdout = old
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)

	require.Error(t, runErr)
	assert.Empty(t, out, "no partial sections on failure")
}

func TestRunKeys(t *testing.T) {
	logger = zap.NewNop()
	resetFlags()

	dir := t.TempDir()
	path := writeRegistry(t, dir, "samples.yaml", "zeta: 1\nalpha: 2\n")

	out := captureStdout(t, func() error {
		return runKeys(&cobra.Command{}, []string{path})
	})

	assert.Equal(t, "alpha\nzeta\n", out)
}

func TestRootCmd_WrongArgCount(t *testing.T) {
	resetFlags()

	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	rootCmd.SetOut(&stderr)
	rootCmd.SetArgs([]string{"only-one-file.yaml"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arg")
	assert.Contains(t, stderr.String(), "Usage:")
}
