package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/finops-kb/costgraph/internal/schema"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show node and relationship counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := connectGraph(ctx)
		if err != nil {
			return err
		}
		defer client.Close(ctx)

		manager := schema.NewManager(client, cfg.Embedder.Dimensions, log)
		stats, err := manager.Stats(ctx)
		if err != nil {
			return err
		}

		cmd.Printf("Nodes: %d\n", stats.TotalNodes)
		for _, label := range sortedKeys(stats.NodesByLabel) {
			cmd.Printf("  %s: %d\n", label, stats.NodesByLabel[label])
		}
		cmd.Printf("Relationships: %d\n", stats.TotalRelationships)
		for _, rel := range sortedKeys(stats.RelationshipsByType) {
			cmd.Printf("  [%s]: %d\n", rel, stats.RelationshipsByType[rel])
		}
		return nil
	},
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
