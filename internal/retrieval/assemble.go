package retrieval

import (
	"fmt"
	"sort"
	"strings"
)

// contextCap bounds how many evidence items reach the prompt.
const contextCap = 20

// emptyContext is returned when no channel produced evidence, so the model
// is told explicitly that the graph had nothing rather than being handed an
// empty string.
const emptyContext = "No relevant data found in the knowledge graph for this query."

// AssembleContext merges vector and graph hits into the prompt context.
// Items are ordered by score descending, deduplicated on the first 100
// characters of text keeping the first occurrence, capped, and rendered as
// numbered provenance-tagged lines.
func AssembleContext(vectorHits, graphHits []Hit) string {
	all := make([]Hit, 0, len(vectorHits)+len(graphHits))
	all = append(all, vectorHits...)
	all = append(all, graphHits...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Score > all[j].Score })
	all = dedupByTextPrefix(all)

	if len(all) > contextCap {
		all = all[:contextCap]
	}
	if len(all) == 0 {
		return emptyContext
	}

	parts := make([]string, 0, len(all))
	for i, h := range all {
		prov := fmt.Sprintf("[%s/%s | %s | relevance:%.2f]",
			strings.ToUpper(string(h.Source)), h.Label, h.Path, h.Score)
		parts = append(parts, fmt.Sprintf("%d. %s\n   %s", i+1, prov, h.Text))
	}
	return strings.Join(parts, "\n\n")
}

// dedupByTextPrefix drops hits whose first 100 text characters repeat an
// earlier hit. Input order is preserved, so with score-sorted input the
// highest-scoring variant survives. Hits with empty text are dropped.
func dedupByTextPrefix(hits []Hit) []Hit {
	seen := make(map[string]struct{}, len(hits))
	out := hits[:0:0]
	for _, h := range hits {
		if h.Text == "" {
			continue
		}
		key := truncateRunes(h.Text, 100)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, h)
	}
	return out
}

// truncateRunes shortens s to at most n characters without splitting a
// multibyte rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
