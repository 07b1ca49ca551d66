package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/finops-kb/costgraph/internal/graph"
	"github.com/finops-kb/costgraph/internal/intent"
)

// Scores assigns a confidence to each graph query family. Graph hits carry a
// hand-assigned confidence rather than a similarity; purchase analysis ranks
// highest because its double-counting warning must survive assembly.
type Scores struct {
	TopServices      float64
	ProductionTag    float64
	StorageCategory  float64
	PurchaseCharges  float64
	ColumnGlossary   float64
	ChargeCategories float64
}

// DefaultScores returns the default family confidences.
func DefaultScores() Scores {
	return Scores{
		TopServices:      0.90,
		ProductionTag:    0.85,
		StorageCategory:  0.88,
		PurchaseCharges:  0.95,
		ColumnGlossary:   0.92,
		ChargeCategories: 0.87,
	}
}

// GraphRetriever runs intent-gated traversal families over the cost graph.
type GraphRetriever struct {
	client graph.Client
	scores Scores
	log    *slog.Logger
}

// NewGraphRetriever creates a graph retriever with the given family scores.
func NewGraphRetriever(client graph.Client, scores Scores, log *slog.Logger) *GraphRetriever {
	if log == nil {
		log = slog.Default()
	}
	return &GraphRetriever{client: client, scores: scores, log: log}
}

// Search runs every family whose gate matches the classification. Families
// are independent; one failing family contributes zero hits.
func (g *GraphRetriever) Search(ctx context.Context, c intent.Classification) []Hit {
	var hits []Hit

	if c.HasIntent(intent.IntentCostAnalysis) || c.HasIntent(intent.IntentServiceComparison) {
		hits = append(hits, g.topServices(ctx, c)...)
	}
	if c.HasEntity(intent.EntityProduction) || c.HasIntent(intent.IntentTagQuery) {
		hits = append(hits, g.productionTag(ctx)...)
	}
	if c.HasEntity(intent.EntityStorage) || c.HasIntent(intent.IntentServiceComparison) {
		hits = append(hits, g.storageCategory(ctx)...)
	}
	if c.HasIntent(intent.IntentCommitmentAnalysis) {
		hits = append(hits, g.purchaseCharges(ctx)...)
	}
	if c.HasIntent(intent.IntentSchemaQuery) {
		hits = append(hits, g.columnGlossary(ctx)...)
	}
	if c.HasIntent(intent.IntentCostAnalysis) || c.HasIntent(intent.IntentCommitmentAnalysis) {
		hits = append(hits, g.chargeCategories(ctx)...)
	}
	return hits
}

func (g *GraphRetriever) topServices(ctx context.Context, c intent.Classification) []Hit {
	providerFilter := ""
	if c.HasEntity(intent.EntityAWS) && !c.HasEntity(intent.EntityAzure) {
		providerFilter = "AND cr.source = 'aws'"
	} else if c.HasEntity(intent.EntityAzure) && !c.HasEntity(intent.EntityAWS) {
		providerFilter = "AND cr.source = 'azure'"
	}
	cypher := fmt.Sprintf(`
	MATCH (cr:CostRecord)-[:INCURRED_BY]->(r:Resource)-[:USES_SERVICE]->(s:Service)
	WHERE cr.effectiveCost > 0 %s
	WITH s.serviceName AS service, s.serviceCategory AS category,
	     cr.source AS provider, SUM(cr.effectiveCost) AS totalCost, COUNT(cr) AS records
	ORDER BY totalCost DESC LIMIT 10
	RETURN service, category, provider, totalCost, records`, providerFilter)

	return g.run(ctx, "top services", cypher, nil, "CostRecord->Resource->Service",
		g.scores.TopServices, func(rec map[string]any) string {
			return fmt.Sprintf("Service '%s' (%s) on %s: total cost $%.4f across %d records",
				str(rec, "service"), str(rec, "category"),
				strings.ToUpper(str(rec, "provider")),
				num(rec, "totalCost"), count(rec, "records"))
		})
}

func (g *GraphRetriever) productionTag(ctx context.Context) []Hit {
	cypher := `
	MATCH (cr:CostRecord)-[:INCURRED_BY]->(r:Resource)-[:USES_SERVICE]->(s:Service)
	WHERE cr.tagEnvironment =~ '(?i).*prod.*'
	WITH s.serviceName AS service, cr.source AS provider,
	     SUM(cr.effectiveCost) AS totalCost, COUNT(cr) AS records
	ORDER BY totalCost DESC LIMIT 5
	RETURN service, provider, totalCost, records`

	return g.run(ctx, "production tag", cypher, nil, "CostRecord[env=prod]->Resource->Service",
		g.scores.ProductionTag, func(rec map[string]any) string {
			return fmt.Sprintf("Production tag: '%s' on %s costs $%.4f (%d records)",
				str(rec, "service"), strings.ToUpper(str(rec, "provider")),
				num(rec, "totalCost"), count(rec, "records"))
		})
}

func (g *GraphRetriever) storageCategory(ctx context.Context) []Hit {
	cypher := `
	MATCH (cr:CostRecord)-[:INCURRED_BY]->(r:Resource)-[:USES_SERVICE]->(s:Service)
	WHERE s.serviceCategory =~ '(?i).*storage.*'
	WITH cr.source AS provider, SUM(cr.effectiveCost) AS totalCost,
	     COUNT(cr) AS records, COLLECT(DISTINCT s.serviceName)[..3] AS services
	RETURN provider, totalCost, records, services ORDER BY provider`

	return g.run(ctx, "storage category", cypher, nil, "CostRecord->Resource->Service[Storage]",
		g.scores.StorageCategory, func(rec map[string]any) string {
			return fmt.Sprintf("Storage on %s: $%.4f total, %d records. Services: %s",
				strings.ToUpper(str(rec, "provider")), num(rec, "totalCost"),
				count(rec, "records"), strings.Join(strs(rec, "services"), ", "))
		})
}

func (g *GraphRetriever) purchaseCharges(ctx context.Context) []Hit {
	cypher := `
	MATCH (cr:CostRecord)-[:HAS_CHARGE]->(c:Charge)
	WHERE c.chargeCategory = 'Purchase'
	WITH cr.source AS provider, SUM(cr.billedCost) AS billed,
	     SUM(cr.effectiveCost) AS effective, COUNT(cr) AS records
	RETURN provider, billed, effective, records`

	return g.run(ctx, "purchase charges", cypher, nil, "CostRecord[Purchase]->Charge",
		g.scores.PurchaseCharges, func(rec map[string]any) string {
			return fmt.Sprintf("Commitment purchases on %s: Billed=$%.2f, Effective=$%.2f. "+
				"WARNING: Including Purchase charges with Usage causes double-counting.",
				strings.ToUpper(str(rec, "provider")), num(rec, "billed"), num(rec, "effective"))
		})
}

func (g *GraphRetriever) columnGlossary(ctx context.Context) []Hit {
	cypher := `
	MATCH (f:FocusColumn)
	RETURN f.name AS name, f.description AS description, f.standard AS standard
	ORDER BY f.standard, f.name LIMIT 15`

	return g.run(ctx, "column glossary", cypher, nil, "FocusColumn",
		g.scores.ColumnGlossary, func(rec map[string]any) string {
			return fmt.Sprintf("[%s] %s: %s",
				str(rec, "standard"), str(rec, "name"), str(rec, "description"))
		})
}

func (g *GraphRetriever) chargeCategories(ctx context.Context) []Hit {
	cypher := `
	MATCH (cr:CostRecord)-[:HAS_CHARGE]->(c:Charge)
	WITH c.chargeCategory AS category, cr.source AS provider,
	     SUM(cr.effectiveCost) AS total, SUM(cr.billedCost) AS billed
	RETURN category, provider, total, billed ORDER BY total DESC`

	return g.run(ctx, "charge categories", cypher, nil, "CostRecord->Charge[category]",
		g.scores.ChargeCategories, func(rec map[string]any) string {
			return fmt.Sprintf("Charge category '%s' on %s: EffectiveCost=$%.4f, BilledCost=$%.4f",
				str(rec, "category"), strings.ToUpper(str(rec, "provider")),
				num(rec, "total"), num(rec, "billed"))
		})
}

func (g *GraphRetriever) run(ctx context.Context, family, cypher string, params map[string]any,
	path string, score float64, render func(map[string]any) string) []Hit {

	result, err := g.client.Read(ctx, cypher, params)
	if err != nil {
		g.log.Warn("graph query family failed", "family", family, "error", err)
		return nil
	}
	hits := make([]Hit, 0, len(result.Records))
	for _, rec := range result.Records {
		hits = append(hits, Hit{
			Source: HitSourceGraph,
			Path:   path,
			Text:   render(rec),
			Score:  score,
		})
	}
	return hits
}

func str(rec map[string]any, key string) string {
	s, _ := rec[key].(string)
	return s
}

func num(rec map[string]any, key string) float64 {
	switch v := rec[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func count(rec map[string]any, key string) int64 {
	switch v := rec[key].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

func strs(rec map[string]any, key string) []string {
	items, _ := rec[key].([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
