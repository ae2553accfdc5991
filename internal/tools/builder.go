package tools

import (
	"log/slog"

	"voicesync/internal/ultravox"
)

// Builder assembles the desired tool selection for one client.
type Builder struct {
	Catalog *Catalog
	// CorpusMaxResults is the result limit used when the client record
	// carries none.
	CorpusMaxResults int
}

// Build merges the always-enabled tools with the ones detected in the
// prompt and resolves their parameters, in catalog order. Tools whose
// required parameters are missing are skipped entirely, never emitted
// with partial values.
func (b *Builder) Build(prompt, corpusID string, maxResults int) []ultravox.SelectedTool {
	enabled := Detect(prompt, b.Catalog)
	for _, e := range b.Catalog.Entries() {
		if e.AlwaysEnabled {
			enabled[e.Name] = true
		} else if enabled[e.Name] {
			slog.Info("tool detected in prompt", "tool", e.Name)
		}
	}

	selected := make([]ultravox.SelectedTool, 0, len(enabled))
	for _, e := range b.Catalog.Entries() {
		if !enabled[e.Name] {
			continue
		}
		delete(enabled, e.Name)

		if e.Name == CorpusQueryTool {
			if corpusID == "" {
				slog.Warn("skipping corpus tool, client has no corpus id", "tool", e.Name)
				continue
			}
			limit := maxResults
			if limit <= 0 {
				limit = b.CorpusMaxResults
			}
			selected = append(selected, ultravox.SelectedTool{
				ToolID: e.ToolID,
				ParameterOverrides: map[string]any{
					"corpus_id":   corpusID,
					"max_results": limit,
				},
			})
			continue
		}

		selected = append(selected, ultravox.SelectedTool{ToolID: e.ToolID})
	}

	// Anything still in the set never matched a catalog entry.
	for name := range enabled {
		slog.Warn("skipping unknown tool", "tool", name)
	}

	return selected
}
