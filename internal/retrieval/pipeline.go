package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finops-kb/costgraph/internal/intent"
	"github.com/finops-kb/costgraph/internal/llm"
)

// systemPrompt frames the generator as a FinOps analyst grounded in the
// retrieved evidence.
const systemPrompt = `You are a cloud cost management expert with deep knowledge of:
- FOCUS 1.0 specification (FinOps Open Cost & Usage Specification)
- AWS and Azure billing data and services
- FinOps best practices for cost optimization

When answering:
1. Ground your answer in the provided context
2. Cite specific cost figures when available
3. Explain FOCUS concepts clearly
4. Flag double-counting risks where relevant
`

// DefaultTopK caps vector results when the caller does not choose.
const DefaultTopK = 10

// Result is everything one question produced.
type Result struct {
	Answer     string
	Intents    []intent.Intent
	Entities   map[intent.Entity]bool
	VectorHits []Hit
	GraphHits  []Hit
	Context    string
	// RetrievalMethod labels how the evidence was gathered, e.g.
	// "hybrid (vector=4, graph=7)".
	RetrievalMethod string
	// Concepts holds the leading vector hit texts, truncated.
	Concepts []string
	// Paths holds the distinct traversal shapes behind the graph hits.
	Paths []string
	// Confidence is the mean of the top vector scores, 0.5 when vector
	// search found nothing.
	Confidence float64
}

// Pipeline wires classification, hybrid retrieval, assembly, and generation.
type Pipeline struct {
	classifier *intent.Classifier
	vector     *VectorRetriever
	graph      *GraphRetriever
	generator  llm.Generator
	log        *slog.Logger
}

// NewPipeline creates the question-answering pipeline.
func NewPipeline(classifier *intent.Classifier, vector *VectorRetriever,
	graph *GraphRetriever, generator llm.Generator, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		classifier: classifier,
		vector:     vector,
		graph:      graph,
		generator:  generator,
		log:        log,
	}
}

// Query answers one natural-language question. Vector search failure
// degrades to graph-only retrieval; generation failure degrades to an
// explanatory message carrying the raw context.
func (p *Pipeline) Query(ctx context.Context, question string, topK int) Result {
	if topK <= 0 {
		topK = DefaultTopK
	}
	classification := p.classifier.Classify(question)

	vectorHits, err := p.vector.Search(ctx, question, topK)
	if err != nil {
		p.log.Warn("vector search unavailable", "error", err)
		vectorHits = nil
	}
	graphHits := p.graph.Search(ctx, classification)

	contextText := AssembleContext(vectorHits, graphHits)

	answer, err := p.generator.Generate(ctx, systemPrompt, buildPrompt(question, contextText))
	if err != nil {
		p.log.Warn("generation failed, returning raw context", "provider", p.generator.Name(), "error", err)
		answer = fmt.Sprintf("%s error: %v\n\n--- Retrieved context ---\n%s",
			p.generator.Name(), err, contextText)
	}

	return Result{
		Answer:          answer,
		Intents:         classification.Intents,
		Entities:        classification.Entities,
		VectorHits:      vectorHits,
		GraphHits:       graphHits,
		Context:         contextText,
		RetrievalMethod: fmt.Sprintf("hybrid (vector=%d, graph=%d)", len(vectorHits), len(graphHits)),
		Concepts:        topConcepts(vectorHits),
		Paths:           distinctPaths(graphHits),
		Confidence:      confidence(vectorHits),
	}
}

func buildPrompt(question, contextText string) string {
	return fmt.Sprintf(
		"Based on the following cloud cost knowledge graph context:\n\n%s\n\n---\n\nQuestion: %s\n\nProvide a comprehensive, data-backed answer.",
		contextText, question)
}

// topConcepts extracts the leading vector hit texts, truncated to 100
// characters each.
func topConcepts(vectorHits []Hit) []string {
	concepts := make([]string, 0, 5)
	for _, h := range vectorHits {
		if len(concepts) == 5 {
			break
		}
		concepts = append(concepts, truncateRunes(h.Text, 100))
	}
	return concepts
}

// distinctPaths lists the traversal shapes behind the first graph hits,
// first occurrence order.
func distinctPaths(graphHits []Hit) []string {
	seen := make(map[string]struct{})
	var paths []string
	for i, h := range graphHits {
		if i == 5 {
			break
		}
		if h.Path == "" {
			continue
		}
		if _, dup := seen[h.Path]; dup {
			continue
		}
		seen[h.Path] = struct{}{}
		paths = append(paths, h.Path)
	}
	return paths
}

// confidence averages the top five vector scores, defaulting to 0.5 when
// vector retrieval produced nothing.
func confidence(vectorHits []Hit) float64 {
	n := min(len(vectorHits), 5)
	if n == 0 {
		return 0.5
	}
	var sum float64
	for _, h := range vectorHits[:n] {
		sum += h.Score
	}
	return sum / float64(n)
}
