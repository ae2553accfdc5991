package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder() *Builder {
	return &Builder{Catalog: DefaultCatalog(), CorpusMaxResults: 5}
}

func TestBuildAlwaysEnabledPlusDetected(t *testing.T) {
	b := newBuilder()
	selected := b.Build("Use coldTransfer if needed", "", 0)

	// Two always-enabled tools plus the detected one, in catalog order.
	require.Len(t, selected, 3)
	assert.Equal(t, toolID(t, b.Catalog, "transferFromAiTriageWithMetadata"), selected[0].ToolID)
	assert.Equal(t, toolID(t, b.Catalog, "hangUp"), selected[1].ToolID)
	assert.Equal(t, toolID(t, b.Catalog, "coldTransfer"), selected[2].ToolID)
	for _, s := range selected {
		assert.Nil(t, s.ParameterOverrides)
	}
}

func TestBuildSkipsCorpusToolWithoutCorpusID(t *testing.T) {
	b := newBuilder()
	selected := b.Build("Answer questions with queryCorpus.", "", 0)

	require.Len(t, selected, 2)
	for _, s := range selected {
		assert.NotEqual(t, toolID(t, b.Catalog, CorpusQueryTool), s.ToolID)
	}
}

func TestBuildCorpusToolCarriesParameters(t *testing.T) {
	b := newBuilder()
	selected := b.Build("Answer questions with queryCorpus.", "corpus-123", 0)

	require.Len(t, selected, 3)
	corpus := selected[2]
	assert.Equal(t, toolID(t, b.Catalog, CorpusQueryTool), corpus.ToolID)
	assert.Equal(t, "corpus-123", corpus.ParameterOverrides["corpus_id"])
	assert.Equal(t, 5, corpus.ParameterOverrides["max_results"])
}

func TestBuildCorpusToolClientLimitWins(t *testing.T) {
	b := newBuilder()
	selected := b.Build("queryCorpus", "corpus-123", 12)

	require.Len(t, selected, 3)
	assert.Equal(t, 12, selected[2].ParameterOverrides["max_results"])
}

func TestBuildDeterministicOrder(t *testing.T) {
	b := newBuilder()
	prompt := "queryCorpus then transferToOnCall then coldTransfer"

	first := b.Build(prompt, "corpus-123", 0)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, b.Build(prompt, "corpus-123", 0))
	}
}

func TestBuildEmptyPromptOnlyAlwaysEnabled(t *testing.T) {
	b := newBuilder()
	selected := b.Build("", "corpus-123", 0)

	require.Len(t, selected, 2)
}

func toolID(t *testing.T, c *Catalog, name string) string {
	t.Helper()
	e, ok := c.Lookup(name)
	require.True(t, ok, "catalog is missing %s", name)
	return e.ToolID
}
