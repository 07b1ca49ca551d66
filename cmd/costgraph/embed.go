package main

import (
	"github.com/spf13/cobra"

	"github.com/finops-kb/costgraph/internal/embedder"
	"github.com/finops-kb/costgraph/internal/enrich"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Generate embeddings for nodes that do not have one yet",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := connectGraph(ctx)
		if err != nil {
			return err
		}
		defer client.Close(ctx)

		emb, err := embedder.NewEmbedder(cfg.Embedder)
		if err != nil {
			return err
		}

		enricher := enrich.NewEnricher(client, emb, log)
		summaries, err := enricher.EmbedAll(ctx)
		for _, s := range summaries {
			cmd.Printf("  %s: %d embedded\n", s.Label, s.Embedded)
		}
		return err
	},
}
