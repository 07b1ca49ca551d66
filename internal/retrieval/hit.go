// Package retrieval answers natural-language billing questions by combining
// vector similarity search over embedded node text with intent-gated graph
// traversals, then grounding an LLM completion in the assembled evidence.
package retrieval

// HitSource tells which retrieval channel produced a hit.
type HitSource string

const (
	HitSourceVector HitSource = "vector"
	HitSourceGraph  HitSource = "graph"
)

// Hit is one piece of retrieved evidence.
type Hit struct {
	// Source is the retrieval channel.
	Source HitSource
	// Label is the node label for vector hits.
	Label string
	// Path describes the traversal shape for graph hits.
	Path string
	// Text is the evidence sentence shown to the model.
	Text string
	// Score is the relevance in [0, 1]. Vector hits carry the index
	// similarity; graph hits carry the family confidence.
	Score float64
}
