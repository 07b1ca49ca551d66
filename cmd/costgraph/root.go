package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/finops-kb/costgraph/internal/config"
	"github.com/finops-kb/costgraph/internal/graph"
)

var (
	configFile string
	verbose    bool

	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "costgraph",
	Short: "costgraph - cloud cost knowledge graph with hybrid retrieval",
	Long: `costgraph builds a Neo4j knowledge graph from FOCUS 1.0 billing
exports (AWS and Azure), embeds its descriptive text for semantic search,
and answers natural-language cost questions by combining vector similarity
with graph traversal.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}

	var err error
	cfg, err = config.Load(configFile)
	return err
}

// connectGraph opens the Neo4j client configured for this invocation. The
// caller owns the Close.
func connectGraph(ctx context.Context) (graph.Client, error) {
	client, err := graph.NewNeo4jClient(cfg.Graph)
	if err != nil {
		return nil, err
	}
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(embedCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(statsCmd)
}
