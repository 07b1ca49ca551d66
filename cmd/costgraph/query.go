package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/finops-kb/costgraph/internal/embedder"
	"github.com/finops-kb/costgraph/internal/intent"
	"github.com/finops-kb/costgraph/internal/llm"
	"github.com/finops-kb/costgraph/internal/retrieval"
)

var (
	topK        int
	showContext bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a natural-language question about cloud costs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		question := strings.Join(args, " ")

		client, err := connectGraph(ctx)
		if err != nil {
			return err
		}
		defer client.Close(ctx)

		emb, err := embedder.NewEmbedder(cfg.Embedder)
		if err != nil {
			return err
		}
		generator, err := llm.NewGenerator(ctx, cfg.LLM)
		if err != nil {
			return err
		}

		pipeline := retrieval.NewPipeline(
			intent.NewClassifier(),
			retrieval.NewVectorRetriever(client, emb, log),
			retrieval.NewGraphRetriever(client, retrieval.DefaultScores(), log),
			generator,
			log,
		)

		if topK <= 0 {
			topK = cfg.Query.TopK
		}
		result := pipeline.Query(ctx, question, topK)

		cmd.Println(result.Answer)
		cmd.Println()
		cmd.Printf("retrieval: %s | confidence: %.3f\n", result.RetrievalMethod, result.Confidence)
		if len(result.Paths) > 0 {
			cmd.Printf("paths: %s\n", strings.Join(result.Paths, ", "))
		}
		if showContext {
			cmd.Println()
			cmd.Println(result.Context)
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Maximum vector results (default from config)")
	queryCmd.Flags().BoolVar(&showContext, "show-context", false, "Print the assembled retrieval context")
}
