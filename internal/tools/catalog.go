// Package tools decides which callable tools an agent should have
// enabled, based on a static catalog and the client's prompt text.
package tools

// Entry maps a canonical tool name to its durable Ultravox tool id.
type Entry struct {
	Name          string
	ToolID        string
	AlwaysEnabled bool
}

// CorpusQueryTool is the one parameterized tool: it needs a corpus id
// from the client record before it can be enabled.
const CorpusQueryTool = "queryCorpus"

// Catalog is an immutable tool lookup table. Iteration order is
// declaration order so built tool lists are stable across runs.
type Catalog struct {
	entries []Entry
	byName  map[string]Entry
}

func NewCatalog(entries ...Entry) *Catalog {
	byName := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}
	return &Catalog{entries: entries, byName: byName}
}

// DefaultCatalog returns the tools known to the sync. The ids are the
// durable tool ids registered on the Ultravox account.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Entry{Name: "transferFromAiTriageWithMetadata", ToolID: "4f0aa8a3-97a8-4d52-a68a-b16b74e2b1a3", AlwaysEnabled: true},
		Entry{Name: "hangUp", ToolID: "56294126-5a7d-4948-b67d-3b7d4f602eeb", AlwaysEnabled: true},
		Entry{Name: "coldTransfer", ToolID: "d3e21a44-09ab-42c6-ae19-ed26cb0b2491"},
		Entry{Name: "transferToOnCall", ToolID: "9c58f9f1-62ba-4314-a700-4ab7c26270d4"},
		Entry{Name: CorpusQueryTool, ToolID: "fde9196c-57b3-4b52-8b7a-2d66bd6b6e19"},
	)
}

func (c *Catalog) Entries() []Entry {
	return c.entries
}

func (c *Catalog) Lookup(name string) (Entry, bool) {
	e, ok := c.byName[name]
	return e, ok
}
