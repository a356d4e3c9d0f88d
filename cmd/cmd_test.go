// Filename: cmd/cmd_test.go
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTranslateCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "sample.py", `
def pick(flag):
    if flag:
        result = 1
    else:
        result = 2
    return result
`)
	outDir := filepath.Join(dir, "out")
	reportPath := filepath.Join(dir, "report.json")

	_, err := runCommand(t, "translate", src, "--out-dir", outDir, "--report", reportPath)
	require.NoError(t, err)

	generated, err := os.ReadFile(filepath.Join(outDir, "sample.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(generated), "public static class Sample")
	assert.Contains(t, string(generated), "object result = null;")

	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var reports []map[string]any
	require.NoError(t, json.Unmarshal(raw, &reports))
	require.Len(t, reports, 1)
	assert.EqualValues(t, 1, reports[0]["translated"])
}

func TestTranslateCommand_StrictFailure(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "broken.py", `
def broken(xs):
    return [x for x in xs]
`)

	_, err := runCommand(t, "translate", src, "--strict", "--out-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list comprehension")
}

func TestTranslateCommand_MissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := runCommand(t, "translate", filepath.Join(dir, "absent.py"), "--out-dir", dir)
	require.Error(t, err)
}

func TestDumpCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "loop.py", `
def drain(queue):
    while (item := queue.pop()):
        handle(item)
`)

	out, err := runCommand(t, "dump", src, "--hoisted")
	require.NoError(t, err)
	assert.Contains(t, out, `"kind"`)
	assert.Contains(t, out, `"declaration"`)
	assert.Contains(t, out, `"item"`)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "molt")
}

func TestOutputName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "util.cs", outputName("pkg/util.py"))
	assert.Equal(t, "main.cs", outputName("main.py"))
}
