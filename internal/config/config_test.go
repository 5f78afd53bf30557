package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/phaseline/internal/lanes"
)

// isolate points XDG at an empty dir and moves into another one so no
// real user or project config leaks into a test.
func isolate(t *testing.T) (xdg, work string) {
	t.Helper()
	xdg = t.TempDir()
	work = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Chdir(work)
	return xdg, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 1, cfg.Layout.BufferDays)
	assert.Equal(t, 40.0, cfg.Geometry.DayWidth)
	assert.Equal(t, "classic", cfg.TUI.Theme)
}

func TestLoad_UserFile(t *testing.T) {
	xdg, _ := isolate(t)
	writeFile(t, filepath.Join(xdg, "phaseline", "config.yaml"), `
layout:
  buffer_days: 3
tui:
  theme: neon
`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Layout.BufferDays)
	assert.Equal(t, "neon", cfg.TUI.Theme)
	assert.Equal(t, 120.0, cfg.Geometry.LaneHeight, "unset keys keep defaults")
}

func TestLoad_ProjectOverridesUser(t *testing.T) {
	xdg, work := isolate(t)
	writeFile(t, filepath.Join(xdg, "phaseline", "config.yaml"), "layout:\n  buffer_days: 3\n")
	writeFile(t, filepath.Join(work, ".phaseline.yaml"), "layout:\n  buffer_days: 0\n  strict_ids: true\n")

	sub := filepath.Join(work, "plans", "2025")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	t.Chdir(sub)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Layout.BufferDays)
	assert.True(t, cfg.Layout.StrictIDs)
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, ".phaseline.yaml"), "layout:\n  buffer_days: 4\n")
	t.Setenv("PHASELINE_LAYOUT_BUFFER_DAYS", "2")
	t.Setenv("PHASELINE_TUI_ZOOM", "1.5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Layout.BufferDays)
	assert.Equal(t, 1.5, cfg.TUI.Zoom)
}

func TestLoad_ExplicitFile(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, ".phaseline.yaml"), "layout:\n  buffer_days: 4\n")
	explicit := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, explicit, "geometry:\n  day_width: 12\n")

	cfg, err := Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, 12.0, cfg.Geometry.DayWidth)
	assert.Equal(t, 1, cfg.Layout.BufferDays, "project file is skipped")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative buffer", "layout:\n  buffer_days: -1\n"},
		{"zero day width", "geometry:\n  day_width: 0\n"},
		{"zoom too large", "tui:\n  zoom: 9\n"},
		{"negative padding", "geometry:\n  padding_days: -2\n"},
		{"unknown theme", "tui:\n  theme: sepia\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			p := filepath.Join(t.TempDir(), "c.yaml")
			writeFile(t, p, tt.content)
			_, err := Load(p)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	isolate(t)
	p := filepath.Join(t.TempDir(), "c.yaml")
	writeFile(t, p, "layout:\n  buffer_days: -1\n")
	_, err := Load(p)
	assert.ErrorIs(t, err, lanes.ErrInvalidBuffer)
}

func TestValidate_Themes(t *testing.T) {
	cfg := Default()
	for _, name := range []string{"classic", "neon", "mono", "NEON"} {
		cfg.TUI.Theme = name
		assert.NoError(t, cfg.Validate(), name)
	}
	cfg.TUI.Theme = "sepia"
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "classic, neon, mono")
}

func TestLaneOptionsAndScale(t *testing.T) {
	cfg := Default()
	cfg.Layout.BufferDays = 0
	cfg.Layout.StrictIDs = true
	assert.Len(t, cfg.LaneOptions(), 2)

	s := cfg.Scale()
	assert.Equal(t, 40.0, s.DayWidth)
	assert.Equal(t, 60.0, s.HeaderHeight)
}

func TestUserConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "phaseline"), UserConfigDir())
}
