package ultravox

import (
	"encoding/json"
	"sort"
)

// Agent is the subset of the agent template the sync reads. The
// configuration that matters lives nested in callTemplate.
type Agent struct {
	AgentID      string       `json:"agentId"`
	Name         string       `json:"name"`
	CallTemplate CallTemplate `json:"callTemplate"`
}

type CallTemplate struct {
	SystemPrompt  string         `json:"systemPrompt"`
	Voice         string         `json:"voice,omitempty"`
	SelectedTools []SelectedTool `json:"selectedTools,omitempty"`
}

// SelectedTool enables one tool on an agent, optionally pinning
// parameter values.
type SelectedTool struct {
	ToolID             string         `json:"toolId"`
	ParameterOverrides map[string]any `json:"parameterOverrides,omitempty"`
}

// SelectedToolsEqual compares two tool selections ignoring list order
// and map key order. Each entry is reduced to its canonical JSON
// encoding and the sorted encodings are compared pairwise.
func SelectedToolsEqual(a, b []SelectedTool) bool {
	if len(a) != len(b) {
		return false
	}
	ca, cb := canonicalTools(a), canonicalTools(b)
	for i := range ca {
		if ca[i] != cb[i] {
			return false
		}
	}
	return true
}

func canonicalTools(tools []SelectedTool) []string {
	out := make([]string, 0, len(tools))
	for _, t := range tools {
		// encoding/json writes map keys in sorted order, which is
		// canonical enough for equality.
		raw, err := json.Marshal(t)
		if err != nil {
			raw = []byte(t.ToolID)
		}
		out = append(out, string(raw))
	}
	sort.Strings(out)
	return out
}
