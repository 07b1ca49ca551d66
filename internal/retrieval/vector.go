package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/finops-kb/costgraph/internal/embedder"
	"github.com/finops-kb/costgraph/internal/graph"
)

// searchTarget pairs a vector index with the text property surfaced from its
// matches.
type searchTarget struct {
	label     string
	indexName string
	textProp  string
}

// searchTargets lists the indexes probed for every query. Glossary labels
// are included so schema questions resolve semantically.
func searchTargets() []searchTarget {
	return []searchTarget{
		{"Service", "service_embedding", "serviceName"},
		{"Charge", "charge_embedding", "chargeDescription"},
		{"FocusColumn", "focuscolumn_embedding", "description"},
		{"AllocationMethod", "allocationmethod_embedding", "description"},
	}
}

// VectorRetriever finds semantically similar nodes across the embedded
// labels.
type VectorRetriever struct {
	client   graph.Client
	embedder embedder.Embedder
	log      *slog.Logger
}

// NewVectorRetriever creates a vector retriever.
func NewVectorRetriever(client graph.Client, emb embedder.Embedder, log *slog.Logger) *VectorRetriever {
	if log == nil {
		log = slog.Default()
	}
	return &VectorRetriever{client: client, embedder: emb, log: log}
}

// Search embeds the query once and probes every target index. A target whose
// probe fails contributes nothing; results are merged across targets, sorted
// by score, deduplicated on text prefix, and truncated to topK.
func (v *VectorRetriever) Search(ctx context.Context, query string, topK int) ([]Hit, error) {
	embedding, err := v.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for _, target := range searchTargets() {
		cypher := fmt.Sprintf(`
		CALL db.index.vector.queryNodes('%s', $k, $embedding)
		YIELD node, score
		RETURN node.%s AS text, labels(node)[0] AS label,
		       score, node.description AS description
		ORDER BY score DESC`, target.indexName, target.textProp)

		result, err := v.client.Read(ctx, cypher, map[string]any{
			"k": topK, "embedding": embedding,
		})
		if err != nil {
			v.log.Warn("vector probe failed", "index", target.indexName, "error", err)
			continue
		}
		for _, rec := range result.Records {
			text, _ := rec["text"].(string)
			if text == "" {
				text, _ = rec["description"].(string)
			}
			label, _ := rec["label"].(string)
			score, _ := rec["score"].(float64)
			hits = append(hits, Hit{
				Source: HitSourceVector,
				Label:  label,
				Text:   text,
				Score:  score,
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	hits = dedupByTextPrefix(hits)
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}
