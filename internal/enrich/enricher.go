// Package enrich attaches embedding vectors to graph nodes that carry
// descriptive text. Only nodes without an embedding are selected, so a rerun
// after a partial failure or a fresh ingestion picks up exactly the nodes
// that still need vectors.
package enrich

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finops-kb/costgraph/internal/embedder"
	"github.com/finops-kb/costgraph/internal/graph"
	"github.com/finops-kb/costgraph/internal/schema"
	"github.com/finops-kb/costgraph/internal/types"
)

// batchSize is how many node texts are embedded per provider call.
const batchSize = 64

// selectLimit caps how many pending nodes one pass picks up per label.
const selectLimit = 10000

// Enricher embeds node descriptions and writes the vectors back.
type Enricher struct {
	client   graph.Client
	embedder embedder.Embedder
	log      *slog.Logger
}

// TargetSummary reports embedding progress for one node label.
type TargetSummary struct {
	Label    string
	Embedded int
}

// NewEnricher creates an enricher over the given graph and embedding model.
func NewEnricher(client graph.Client, emb embedder.Embedder, log *slog.Logger) *Enricher {
	if log == nil {
		log = slog.Default()
	}
	return &Enricher{client: client, embedder: emb, log: log}
}

// EmbedAll embeds every pending node across all embeddable labels.
func (e *Enricher) EmbedAll(ctx context.Context) ([]TargetSummary, error) {
	summaries := make([]TargetSummary, 0, len(schema.EmbedTargets()))
	for _, target := range schema.EmbedTargets() {
		count, err := e.EmbedTarget(ctx, target)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, TargetSummary{Label: string(target.Kind), Embedded: count})
	}
	return summaries, nil
}

// EmbedTarget embeds pending nodes of a single label and returns how many
// vectors were written.
func (e *Enricher) EmbedTarget(ctx context.Context, target schema.EmbedTarget) (int, error) {
	ids, texts, err := e.pendingNodes(ctx, target)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		e.log.Debug("no nodes pending embedding", "label", string(target.Kind))
		return 0, nil
	}
	e.log.Info("embedding nodes", "label", string(target.Kind), "count", len(ids))

	embedded := 0
	for start := 0; start < len(ids); start += batchSize {
		end := min(start+batchSize, len(ids))
		vectors, err := e.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return embedded, types.WrapError(types.EMBED_FAILED,
				fmt.Sprintf("embed %s batch", target.Kind), err)
		}
		if err := e.writeEmbeddings(ctx, target, ids[start:end], vectors); err != nil {
			return embedded, err
		}
		embedded += end - start
	}
	return embedded, nil
}

func (e *Enricher) pendingNodes(ctx context.Context, target schema.EmbedTarget) ([]string, []string, error) {
	cypher := fmt.Sprintf(`
	MATCH (n:%s)
	WHERE n.%s IS NOT NULL AND n.%s <> ''
	  AND n.%s IS NULL
	RETURN elementId(n) AS nodeId, n.%s AS text
	LIMIT %d`,
		target.Kind, target.TextProp, target.TextProp,
		schema.EmbeddingProperty, target.TextProp, selectLimit)

	result, err := e.client.Read(ctx, cypher, nil)
	if err != nil {
		return nil, nil, types.WrapError(types.EMBED_FAILED,
			fmt.Sprintf("select pending %s nodes", target.Kind), err)
	}

	ids := make([]string, 0, len(result.Records))
	texts := make([]string, 0, len(result.Records))
	for _, rec := range result.Records {
		id, _ := rec["nodeId"].(string)
		text, _ := rec["text"].(string)
		if id == "" || text == "" {
			continue
		}
		ids = append(ids, id)
		texts = append(texts, text)
	}
	return ids, texts, nil
}

func (e *Enricher) writeEmbeddings(ctx context.Context, target schema.EmbedTarget, ids []string, vectors [][]float64) error {
	updates := make([]map[string]any, len(ids))
	for i, id := range ids {
		updates[i] = map[string]any{"nodeId": id, "embedding": vectors[i]}
	}
	cypher := fmt.Sprintf(`
	UNWIND $updates AS update
	MATCH (n:%s)
	WHERE elementId(n) = update.nodeId
	SET n.%s = update.embedding`,
		target.Kind, schema.EmbeddingProperty)

	if _, err := e.client.Write(ctx, cypher, map[string]any{"updates": updates}); err != nil {
		return types.WrapError(types.EMBED_WRITE_FAILED,
			fmt.Sprintf("write %s embeddings", target.Kind), err)
	}
	return nil
}
