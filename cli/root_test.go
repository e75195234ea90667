package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeFather2/python-ast-visualizer/pkgs/graph"
)

func TestExitCodeUnwrapsExitError(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitUsage, ExitCode(fmt.Errorf("some generic failure")))
	assert.Equal(t, ExitLexError, ExitCode(&exitError{code: ExitLexError, err: fmt.Errorf("bad token")}))
	assert.Equal(t, ExitHashMismatch, ExitCode(fmt.Errorf("wrapped: %w", &exitError{code: ExitHashMismatch, err: fmt.Errorf("mismatch")})))
}

func TestOutputPathSingleInputHasNoDisambiguation(t *testing.T) {
	got := outputPath("output/output", []string{"a.py"}, "a.py", "ast")
	assert.Equal(t, "output/outputast", got)
}

func TestOutputPathMultipleInputsEmbedsBaseName(t *testing.T) {
	inputs := []string{"a.py", "b.py"}
	got := outputPath("output/output", inputs, "b.py", "cfg")
	assert.Equal(t, "output/output-b-cfg", got)
}

func TestRootCommandEndToEndWritesDOTFile(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "sample.py")
	require.NoError(t, os.WriteFile(inputPath, []byte("while c:\n    x\n"), 0o644))

	outPrefix := filepath.Join(dir, "out-")
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"-i", inputPath, "-o", outPrefix, "-m", "CFG"})
	err := cmd.Execute()
	require.NoError(t, err)

	data, err := os.ReadFile(outPrefix + "cfg")
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph {")
	assert.Contains(t, string(data), "Loop entry")
}

func TestRootCommandMissingInputExitsUsage(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitUsage, ExitCode(err))
}

func TestRootCommandJSONFlagWritesSchemaValidDump(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "sample.py")
	require.NoError(t, os.WriteFile(inputPath, []byte("x = 1\n"), 0o644))

	outPrefix := filepath.Join(dir, "out-")
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"-i", inputPath, "-o", outPrefix, "--json"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(outPrefix + "ast.json")
	require.NoError(t, err)

	var g graph.Graph
	require.NoError(t, json.Unmarshal(data, &g))
	assert.NotEmpty(t, g.Nodes)
}

func TestRootCommandVerifyHashMismatchExits5(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "sample.py")
	require.NoError(t, os.WriteFile(inputPath, []byte("x = 1\n"), 0o644))

	outPrefix := filepath.Join(dir, "out-")
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"-i", inputPath, "-o", outPrefix, "--verify-hash", "not-a-real-hash"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitHashMismatch, ExitCode(err))
}
