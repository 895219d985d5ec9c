package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	queryText string
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search the index from the command line",
	Long: `Run a one-shot similarity search against the local index.

Examples:
  ragserve query -q "how does billing work"
  ragserve query -q "python" -k 10 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "query text (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	retriever, index, err := openRetriever(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize retrieval core: %w", err)
	}
	defer index.Close()

	topK := cfg.Retrieve.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}

	results, err := retriever.Query(queryText, topK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		type result struct {
			ID       string         `json:"id"`
			Text     string         `json:"text"`
			Metadata map[string]any `json:"metadata"`
			Distance float64        `json:"distance"`
		}
		out := make([]result, len(results))
		for i, r := range results {
			out[i] = result{ID: r.ID, Text: r.Text, Metadata: r.Metadata, Distance: r.Distance}
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results for: %s\n\n", len(results), queryText)
	for i, r := range results {
		text := r.Text
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		fmt.Printf("%d. %s (distance %.4f)\n", i+1, r.ID, r.Distance)
		if source, ok := r.Metadata["source"]; ok {
			fmt.Printf("   source: %v\n", source)
		}
		fmt.Printf("   %s\n\n", text)
	}
	return nil
}
