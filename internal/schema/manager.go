// Package schema declares the cost graph's identity scheme, uniqueness
// constraints, secondary indexes, and vector indexes. All declarations are
// idempotent: re-applying an existing constraint or index succeeds silently.
package schema

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/finops-kb/costgraph/internal/graph"
	"github.com/finops-kb/costgraph/internal/types"
)

// secondaryIndexes lists the (kind, property) pairs that get a range index
// for frequent filter predicates.
var secondaryIndexes = []struct {
	Kind NodeKind
	Prop string
}{
	{KindService, "serviceCategory"},
	{KindResource, "resourceType"},
	{KindCharge, "chargeCategory"},
	{KindCostRecord, "source"},
	{KindTag, "key"},
	{KindBillingPeriod, "start"},
}

// Manager applies and resets the graph schema.
type Manager struct {
	client     graph.Client
	dimensions int
	log        *slog.Logger
}

// NewManager creates a schema manager. dimensions is the embedding
// dimensionality used when declaring vector indexes.
func NewManager(client graph.Client, dimensions int, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{client: client, dimensions: dimensions, log: log}
}

// Setup applies all uniqueness constraints, secondary indexes, and vector
// indexes. Every statement uses IF NOT EXISTS, so Setup can be re-run at any
// time against any schema state.
func (m *Manager) Setup(ctx context.Context) error {
	for _, kind := range AllKinds() {
		cypher := fmt.Sprintf(
			"CREATE CONSTRAINT %s_key IF NOT EXISTS FOR (n:%s) REQUIRE n.%s IS UNIQUE",
			constraintName(kind), kind, kind.KeyProperty())
		if _, err := m.client.Write(ctx, cypher, nil); err != nil {
			return types.WrapError(types.SCHEMA_SETUP_FAILED,
				fmt.Sprintf("constraint for %s", kind), err)
		}
	}

	for _, idx := range secondaryIndexes {
		cypher := fmt.Sprintf(
			"CREATE INDEX %s_%s_idx IF NOT EXISTS FOR (n:%s) ON (n.%s)",
			constraintName(idx.Kind), strings.ToLower(idx.Prop), idx.Kind, idx.Prop)
		if _, err := m.client.Write(ctx, cypher, nil); err != nil {
			return types.WrapError(types.SCHEMA_SETUP_FAILED,
				fmt.Sprintf("index for %s.%s", idx.Kind, idx.Prop), err)
		}
	}

	for _, target := range EmbedTargets() {
		cypher := fmt.Sprintf(`CREATE VECTOR INDEX %s IF NOT EXISTS
FOR (n:%s) ON (n.%s)
OPTIONS {indexConfig: {
  `+"`vector.dimensions`"+`: %d,
  `+"`vector.similarity_function`"+`: 'cosine'
}}`, target.VectorIndexName(), target.Kind, EmbeddingProperty, m.dimensions)
		if _, err := m.client.Write(ctx, cypher, nil); err != nil {
			return types.WrapError(types.SCHEMA_SETUP_FAILED,
				fmt.Sprintf("vector index for %s", target.Kind), err)
		}
	}

	m.log.Info("schema setup complete",
		"constraints", len(AllKinds()),
		"indexes", len(secondaryIndexes),
		"vector_indexes", len(EmbedTargets()),
		"dimensions", m.dimensions)
	return nil
}

// Reset deletes every node and relationship in the database. It refuses to
// run unless confirm is true and is never invoked implicitly by any other
// component.
func (m *Manager) Reset(ctx context.Context, confirm bool) error {
	if !confirm {
		return types.NewError(types.SCHEMA_RESET_REFUSED,
			"reset requires explicit confirmation")
	}
	if _, err := m.client.Write(ctx, "MATCH (n) DETACH DELETE n", nil); err != nil {
		return types.WrapError(types.SCHEMA_RESET_FAILED, "detach delete failed", err)
	}
	m.log.Warn("graph database cleared")
	return nil
}

// Stats summarizes the current graph contents.
type Stats struct {
	TotalNodes          int64            `json:"total_nodes"`
	TotalRelationships  int64            `json:"total_relationships"`
	NodesByLabel        map[string]int64 `json:"nodes_by_label"`
	RelationshipsByType map[string]int64 `json:"relationships_by_type"`
}

// Stats returns node counts by label and relationship counts by type.
func (m *Manager) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		NodesByLabel:        make(map[string]int64),
		RelationshipsByType: make(map[string]int64),
	}

	nodeResult, err := m.client.Read(ctx,
		"MATCH (n) RETURN labels(n)[0] AS label, count(n) AS count", nil)
	if err != nil {
		return nil, err
	}
	for _, rec := range nodeResult.Records {
		label, _ := rec["label"].(string)
		count := asInt64(rec["count"])
		if label != "" {
			stats.NodesByLabel[label] = count
			stats.TotalNodes += count
		}
	}

	relResult, err := m.client.Read(ctx,
		"MATCH ()-[r]->() RETURN type(r) AS rel, count(r) AS count", nil)
	if err != nil {
		return nil, err
	}
	for _, rec := range relResult.Records {
		rel, _ := rec["rel"].(string)
		count := asInt64(rec["count"])
		if rel != "" {
			stats.RelationshipsByType[rel] = count
			stats.TotalRelationships += count
		}
	}

	return stats, nil
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

// constraintName lowercases a kind into a snake-ish identifier for index and
// constraint names.
func constraintName(kind NodeKind) string {
	return strings.ToLower(string(kind))
}

// vectorIndexName returns the vector index name for a kind, following the
// "<label>_embedding" convention used by the retriever.
func vectorIndexName(kind NodeKind) string {
	return constraintName(kind) + "_" + EmbeddingProperty
}
