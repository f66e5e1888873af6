package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: red_post
description: post meta reaches the destination
setup:
  - site: source
    toggles: {post_meta: "on"}
    posts: [{name: hello}]
  - site: destination
    toggles: {post_meta: "on"}
    posts: [{name: hello}]
flow:
  - site: source
    meta: {action: add, entity: post, object: hello, key: color, value: red}
  - site: source
    sync: {to: destination}
assertions:
  - {type: meta_equals, site: destination, entity: post, object: hello, key: color, value: red}
`

const failingScenario = `name: wrong_value
description: expects an event while post_meta is off
flow:
  - site: source
    meta: {action: add, entity: post, object: hello, key: color, value: red}
setup:
  - site: source
    posts: [{name: hello}]
assertions:
  - {type: event_count, site: source, count: 1}
`

func init() {
	color.NoColor = true
}

func writeScenario(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestTest_Scenarios(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "red_post.yaml", passingScenario)

	out := mustRun(t, "", "test", dir)
	assert.Contains(t, out, "✓ red_post")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTest_HarnessScenarios(t *testing.T) {
	out := mustRun(t, "", "test", filepath.Join("..", "harness", "testdata", "scenarios"))
	assert.Contains(t, out, "✓ post_meta_round_trip")
	assert.Contains(t, out, "✓ term_meta_reference_match")
}

func TestTest_FailureExitCode(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "red_post.yaml", passingScenario)
	writeScenario(t, dir, "wrong_value.yaml", failingScenario)

	out, code := runCLI(t, "", "test", dir)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, out, "✗ wrong_value")
	assert.Contains(t, out, "1 passed, 1 failed, 2 total")
	assert.Contains(t, out, "Error [E006]: 1 scenario(s) failed")
}

func TestTest_Filter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "red_post.yaml", passingScenario)
	writeScenario(t, dir, "wrong_value.yaml", failingScenario)

	out := mustRun(t, "", "test", dir, "--filter", "red_*")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTest_GoldenUpdateAndMismatch(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "red_post.yaml", passingScenario)

	mustRun(t, "", "test", dir, "--update")
	golden := filepath.Join(dir, "golden", "red_post.golden")
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario_name":"red_post"`)

	mustRun(t, "", "test", dir)

	require.NoError(t, os.WriteFile(golden, []byte(`{}`), 0o644))
	out, code := runCLI(t, "", "test", dir)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTest_JSON(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "red_post.yaml", passingScenario)

	out := mustRun(t, "", "--format", "json", "test", dir)
	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Passed)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "red_post", resp.Data.Scenarios[0].Name)
}

func TestTest_MissingDirectory(t *testing.T) {
	_, code := runCLI(t, "", "test", filepath.Join(t.TempDir(), "nope"))
	assert.Equal(t, ExitCommandError, code)
}
