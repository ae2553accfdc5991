package tools

import "strings"

// Detect returns the catalog names referenced by the prompt. The rule
// is plain substring containment: no tokenization, no word boundaries.
// A name that happens to appear inside prose (or inside another tool
// name) counts as a reference; prompts are expected to spell tool
// names exactly when they mean them.
func Detect(prompt string, catalog *Catalog) map[string]bool {
	found := make(map[string]bool)
	for _, e := range catalog.Entries() {
		if strings.Contains(prompt, e.Name) {
			found[e.Name] = true
		}
	}
	return found
}
