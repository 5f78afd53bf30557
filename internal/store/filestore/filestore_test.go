package filestore

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/phaseline/internal/model"
)

func TestFormatFor(t *testing.T) {
	assert.Equal(t, YAML, FormatFor("plan.yaml"))
	assert.Equal(t, YAML, FormatFor("dir/PLAN.YML"))
	assert.Equal(t, JSON, FormatFor("plan.json"))
	assert.Equal(t, JSON, FormatFor("plan"))
	assert.Equal(t, "yaml", YAML.String())
}

func TestLoad_JSON(t *testing.T) {
	items, err := Load(filepath.Join("testdata", "phases.json"))
	require.NoError(t, err)
	require.Len(t, items, 16)
	assert.Equal(t, model.Item{
		ID:        1,
		Name:      "Project Planning & Requirements",
		StartDate: "2025-01-01",
		EndDate:   "2025-01-14",
	}, items[0])
	assert.Equal(t, 19, items[15].ID)
}

func TestLoad_YAML(t *testing.T) {
	items, err := Load(filepath.Join("testdata", "phases.yaml"))
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Design", items[1].Name)
	// unquoted dates stay as written
	assert.Equal(t, "2025-01-29", items[2].StartDate)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("")
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	p := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(p, []byte(`[{"id": "one"}]`), 0o644))
	_, err = Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json unmarshal")
}

func TestDecode_EmptyDocument(t *testing.T) {
	items, err := Decode(strings.NewReader("  \n"), YAML)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSave_RoundTripsBothFormats(t *testing.T) {
	items := []model.Item{
		{ID: 1, Name: "Kickoff", StartDate: "2025-01-01", EndDate: "2025-01-02"},
		{ID: 2, Name: "Wrap-up: \"final\"", StartDate: "2025-02-01", EndDate: "2025-02-03"},
	}
	for _, name := range []string{"plan.json", "plan.yaml"} {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(p, items))

			got, err := Load(p)
			require.NoError(t, err)
			assert.Equal(t, items, got)

			entries, err := os.ReadDir(filepath.Dir(p))
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temp file left behind")
		})
	}
}

func TestEncode_LanedItems(t *testing.T) {
	laned := []model.LanedItem{{Item: model.Item{ID: 3, Name: "Build", StartDate: "2025-01-01", EndDate: "2025-01-02"}, Lane: 1}}

	var js bytes.Buffer
	require.NoError(t, Encode(&js, JSON, laned))
	assert.Contains(t, js.String(), `"lane": 1`)
	assert.Contains(t, js.String(), `"startDate": "2025-01-01"`)

	var ys bytes.Buffer
	require.NoError(t, Encode(&ys, YAML, laned))
	assert.Contains(t, ys.String(), "lane: 1")
	assert.Contains(t, ys.String(), "name: Build")
}
