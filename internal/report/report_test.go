package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/phaseline/internal/lanes"
	"github.com/Makepad-fr/phaseline/internal/model"
)

func TestMarkdown(t *testing.T) {
	items := []model.Item{
		{ID: 1, Name: "Planning", StartDate: "2025-01-01", EndDate: "2025-01-14"},
		{ID: 2, Name: "Design_v2", StartDate: "2025-01-10", EndDate: "2025-01-28"},
		{ID: 3, Name: "Build", StartDate: "2025-01-16", EndDate: "2025-02-01"},
	}
	l, err := lanes.Assign(items)
	require.NoError(t, err)
	peak, err := lanes.Peak(items)
	require.NoError(t, err)

	md := Markdown(l, "Q1", peak)
	assert.Contains(t, md, "# Q1\n")
	assert.Contains(t, md, "| 3 | 2 | 2 | 2025-01-01 | 2025-02-01 | 32 |")
	assert.Contains(t, md, "## Lane 0\n\n2 phases, 31 busy days.")
	assert.Contains(t, md, "## Lane 1\n\n1 phases, 19 busy days.")
	assert.Contains(t, md, "- **Design\\_v2** (#2) `2025-01-10` → `2025-01-28`")
	assert.NotContains(t, md, "## Lane 2")
}

func TestMarkdown_Empty(t *testing.T) {
	l, err := lanes.Assign(nil)
	require.NoError(t, err)
	assert.Equal(t, "# Timeline\n\n_No phases._\n", Markdown(l, "", 0))
}

func TestMarkdown_PeakColumn(t *testing.T) {
	l, err := lanes.Assign([]model.Item{
		{ID: 1, Name: "A", StartDate: "2025-01-01", EndDate: "2025-01-02"},
	})
	require.NoError(t, err)
	assert.Contains(t, Markdown(l, "", 4), "| 1 | 1 | 4 | 2025-01-01 | 2025-01-02 | 2 |")
}

func TestRender(t *testing.T) {
	out, err := Render("# Heading\n\nsome text", 40)
	require.NoError(t, err)
	assert.Contains(t, out, "Heading")
	assert.Contains(t, out, "some text")

	again, err := getRenderer(40)
	require.NoError(t, err)
	first, _ := rendererCache.Load(40)
	assert.Same(t, first, again)
}
