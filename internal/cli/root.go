package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"ragserve/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ragserve",
	Short: "RAG document service - store, search and chat over text documents",
	Long: `ragserve stores text documents as vector embeddings in a durable local
index, retrieves the most similar documents for a query, and optionally
forwards retrieved context to an Ollama backend for a grounded answer.

Example usage:
  ragserve serve                  # Run the HTTP service
  ragserve ingest ./docs          # Bulk-load text files into the index
  ragserve query -q "python"      # One-shot similarity search
  ragserve stats                  # Show collection statistics`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
}
