package main

import (
	"github.com/spf13/cobra"

	"github.com/finops-kb/costgraph/internal/focus"
	"github.com/finops-kb/costgraph/internal/ingest"
)

var (
	awsPath   string
	azurePath string
	seedOnly  bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load FOCUS billing exports into the knowledge graph",
	Long: `Reads normalized FOCUS 1.0 CSV exports, builds CostRecord nodes
with their dimension nodes and relationships, and seeds the FOCUS glossary.
Re-running over the same files is idempotent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := connectGraph(ctx)
		if err != nil {
			return err
		}
		defer client.Close(ctx)

		engine := ingest.NewEngine(client, log)
		if err := engine.SeedKnowledge(ctx); err != nil {
			return err
		}
		if seedOnly {
			cmd.Println("Glossary seeded.")
			return nil
		}

		var rows []focus.CostRow
		if awsPath != "" {
			awsRows, err := focus.LoadCSV(awsPath, focus.SourceAWS)
			if err != nil {
				return err
			}
			rows = append(rows, awsRows...)
		}
		if azurePath != "" {
			azureRows, err := focus.LoadCSV(azurePath, focus.SourceAzure)
			if err != nil {
				return err
			}
			rows = append(rows, azureRows...)
		}

		summary := engine.IngestAll(ctx, rows)
		cmd.Printf("Ingested %d rows: %d succeeded, %d failed (run %s)\n",
			summary.Total, summary.Succeeded, summary.Failed, summary.RunID)
		for _, failure := range summary.Errors {
			cmd.Printf("  row %d: %v\n", failure.RowIndex, failure.Err)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&awsPath, "aws", "", "Path to AWS FOCUS CSV export")
	ingestCmd.Flags().StringVar(&azurePath, "azure", "", "Path to Azure FOCUS CSV export")
	ingestCmd.Flags().BoolVar(&seedOnly, "seed-only", false, "Only seed the FOCUS glossary nodes")
}
