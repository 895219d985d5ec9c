package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		retriever, index, err := openRetriever(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize retrieval core: %w", err)
		}
		defer index.Close()

		stats, err := retriever.Stats()
		if err != nil {
			return err
		}

		fmt.Printf("Collection:      %s\n", stats.CollectionName)
		fmt.Printf("Documents:       %d\n", stats.TotalDocuments)
		fmt.Printf("Embedding model: %s\n", stats.EmbeddingModel)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
