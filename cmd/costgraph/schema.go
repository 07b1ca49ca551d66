package main

import (
	"github.com/spf13/cobra"

	"github.com/finops-kb/costgraph/internal/schema"
)

var resetConfirm bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage graph constraints and vector indexes",
}

var schemaSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create constraints, secondary indexes, and vector indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := connectGraph(ctx)
		if err != nil {
			return err
		}
		defer client.Close(ctx)

		manager := schema.NewManager(client, cfg.Embedder.Dimensions, log)
		if err := manager.Setup(ctx); err != nil {
			return err
		}
		cmd.Println("Schema setup complete.")
		return nil
	},
}

var schemaResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every node and relationship in the graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := connectGraph(ctx)
		if err != nil {
			return err
		}
		defer client.Close(ctx)

		manager := schema.NewManager(client, cfg.Embedder.Dimensions, log)
		if err := manager.Reset(ctx, resetConfirm); err != nil {
			return err
		}
		cmd.Println("Graph reset complete.")
		return nil
	},
}

func init() {
	schemaResetCmd.Flags().BoolVar(&resetConfirm, "confirm", false, "Confirm destructive reset")
	schemaCmd.AddCommand(schemaSetupCmd)
	schemaCmd.AddCommand(schemaResetCmd)
}
