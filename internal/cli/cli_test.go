package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/phaseline/internal/config"
	"github.com/Makepad-fr/phaseline/internal/lanes"
	"github.com/Makepad-fr/phaseline/internal/model"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PHASELINE_LOG", filepath.Join(t.TempDir(), "phaseline.log"))

	root := NewRootCmd()
	var out, errb bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errb)
	code = run(root, append([]string{"--no-color"}, args...))
	return out.String(), errb.String(), code
}

func TestLanes_Text(t *testing.T) {
	out, _, code := execute(t, "lanes", "testdata/plan.json")
	require.Equal(t, 0, code)
	assert.Equal(t, "1 → 0\n2 → 1\n3 → 0\n", out)
}

func TestLanes_JSON(t *testing.T) {
	out, _, code := execute(t, "lanes", "--format", "json", "testdata/plan.json")
	require.Equal(t, 0, code)

	var got []model.LanedItem
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "Build", got[1].Name)
	assert.Equal(t, 1, got[1].Lane)
}

func TestLanes_YAML(t *testing.T) {
	out, _, code := execute(t, "lanes", "-f", "yaml", "testdata/plan.json")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "name: Build")
	assert.Contains(t, out, "lane: 1")
}

func TestLanes_DuplicateIDs(t *testing.T) {
	out, _, code := execute(t, "lanes", "testdata/dupes.yaml")
	require.Equal(t, 0, code)
	assert.Equal(t, "1 → 0\n1 → 0\n", out)

	_, stderr, code := execute(t, "--strict", "lanes", "testdata/dupes.yaml")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "duplicate id")
}

func TestCheck(t *testing.T) {
	out, _, code := execute(t, "check", "testdata/plan.json")
	require.Equal(t, 0, code)
	assert.Equal(t, "✔ 3 phases, 2 lanes, peak 2, 2025-01-01 → 2025-01-14\n", out)
}

func TestCheck_Failures(t *testing.T) {
	_, stderr, code := execute(t, "check", "testdata/bad.json")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "item 5")
	assert.Contains(t, stderr, "Hint:")

	_, stderr, code = execute(t, "check", "testdata/dupes.yaml")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "item 1: duplicate id")
	assert.NotContains(t, stderr, "Hint:")

	_, stderr, code = execute(t, "check", "testdata/missing.json")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "read file")
}

func TestUsageErrors(t *testing.T) {
	tests := [][]string{
		{"lanes"},
		{"lanes", "a.json", "b.json"},
		{"lanes", "--format", "xml", "testdata/plan.json"},
		{"lanes", "--nope", "testdata/plan.json"},
		{"--buffer", "-1", "lanes", "testdata/plan.json"},
		{"svg", "--zoom", "9", "testdata/plan.json"},
		{"--theme", "bogus", "lanes", "testdata/plan.json"},
	}
	for _, args := range tests {
		t.Run(fmt.Sprint(args), func(t *testing.T) {
			_, stderr, code := execute(t, args...)
			assert.Equal(t, 2, code)
			assert.NotEmpty(t, stderr)
		})
	}
}

func TestConfigFile_InvalidBuffer(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "phaseline.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("layout:\n  buffer_days: -2\n"), 0o644))

	_, stderr, code := execute(t, "--config", cfg, "lanes", "testdata/plan.json")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "buffer_days")
}

func TestConfigFile_Buffer(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "phaseline.yaml")
	// Plan ends 01-05 and Ship starts 01-12: 7 buffer days still fit, 8 do not
	require.NoError(t, os.WriteFile(cfg, []byte("layout:\n  buffer_days: 7\n"), 0o644))

	out, _, code := execute(t, "--config", cfg, "lanes", "testdata/plan.json")
	require.Equal(t, 0, code)
	assert.Equal(t, "1 → 0\n2 → 1\n3 → 0\n", out)

	out, _, code = execute(t, "--config", cfg, "--buffer", "8", "lanes", "testdata/plan.json")
	require.Equal(t, 0, code)
	assert.Equal(t, "1 → 0\n2 → 1\n3 → 2\n", out)
}

func TestConfigFile_StrictIDs(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "phaseline.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("layout:\n  strict_ids: true\n"), 0o644))

	_, stderr, code := execute(t, "--config", cfg, "lanes", "testdata/dupes.yaml")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "duplicate id")

	// --buffer on top of the file keeps strict ids
	_, _, code = execute(t, "--config", cfg, "--buffer", "0", "lanes", "testdata/dupes.yaml")
	assert.Equal(t, 2, code)
}

func TestConfigFile_UnknownTheme(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "phaseline.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("tui:\n  theme: sepia\n"), 0o644))

	_, stderr, code := execute(t, "--config", cfg, "lanes", "testdata/plan.json")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "tui.theme")

	_, _, code = execute(t, "--config", cfg, "--theme", "mono", "lanes", "testdata/plan.json")
	assert.Equal(t, 0, code)
}

func TestSVG(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "plan.svg")
	out, _, code := execute(t, "svg", "-o", dest, "--title", "Plan", "testdata/plan.json")
	require.Equal(t, 0, code)
	assert.Equal(t, "✔ wrote "+dest+"\n", out)

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(b), `<g id="phase-3">`)

	out, _, code = execute(t, "svg", "-o", "-", "testdata/plan.json")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "</svg>")
}

func TestReport_Raw(t *testing.T) {
	out, _, code := execute(t, "report", "--raw", "testdata/plan.json")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "# plan.json")
	assert.Contains(t, out, "| 3 | 2 | 2 | 2025-01-01 | 2025-01-14 | 14 |")
	assert.Contains(t, out, "## Lane 1")
	assert.Contains(t, out, "- **Ship** (#3)")
}

func TestReport_Rendered(t *testing.T) {
	out, _, code := execute(t, "report", "testdata/plan.json")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Lane 0")
	assert.Contains(t, out, "Ship")
}

func TestLs(t *testing.T) {
	out, _, code := execute(t, "ls", "testdata/plan.json")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "plan.json")
	assert.Contains(t, out, "Build 2025-01-03 → 2025-01-10")
	assert.Contains(t, out, "L1")
}

func TestRoot_NoArgsShowsHelp(t *testing.T) {
	out, _, code := execute(t)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "packs dated phases")
	assert.Contains(t, out, "lanes")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, exitCode(errors.New("disk full")))
	assert.Equal(t, 2, exitCode(usagef("bad")))
	assert.Equal(t, 2, exitCode(fmt.Errorf("x.json: %w", &lanes.ItemError{ID: 1, Err: lanes.ErrInvalidDate})))
	assert.Equal(t, 2, exitCode(fmt.Errorf("layout: %w", lanes.ErrInvalidBuffer)))
	assert.Equal(t, 2, exitCode(fmt.Errorf("%w: tui.theme", config.ErrInvalid)))
}
