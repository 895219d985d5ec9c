package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"ragserve/internal/adapter/chunker"
	"ragserve/internal/adapter/fs"
	"ragserve/internal/domain"
)

var (
	ingestIncludes   []string
	ingestExcludes   []string
	ingestChunkChars int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Bulk-load text files into the index",
	Long: `Read text files under the given directory and add each one as a document,
with the relative file path recorded as the source metadata. Files larger
than --chunk-chars are split at paragraph boundaries into multiple documents.

Examples:
  ragserve ingest ./docs
  ragserve ingest ./notes --include "**/*.md" --chunk-chars 2000`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringSliceVar(&ingestIncludes, "include", nil, "include glob patterns (default **/*.txt, **/*.md)")
	ingestCmd.Flags().StringSliceVar(&ingestExcludes, "exclude", nil, "exclude glob patterns")
	ingestCmd.Flags().IntVar(&ingestChunkChars, "chunk-chars", 4000, "split files larger than this many characters (0 = never split)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", root)
	}

	retriever, index, err := openRetriever(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize retrieval core: %w", err)
	}
	defer index.Close()

	walker := fs.NewWalker(ingestIncludes, ingestExcludes)
	files, err := walker.Walk(root)
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", root, err)
	}
	if len(files) == 0 {
		fmt.Println("No matching files found.")
		return nil
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("Ingesting"),
	)

	var added, failed int
	for _, relPath := range files {
		data, err := os.ReadFile(filepath.Join(root, relPath))
		if err != nil {
			failed++
			bar.Add(1)
			continue
		}

		chunks := chunker.Split(string(data), ingestChunkChars)
		for i, text := range chunks {
			metadata := domain.Metadata{"source": relPath}
			if len(chunks) > 1 {
				metadata["chunk"] = i + 1
			}
			if _, err := retriever.AddDocument(text, metadata); err != nil {
				failed++
				continue
			}
			added++
		}
		bar.Add(1)
	}

	fmt.Printf("\nIngested %d documents from %d files", added, len(files))
	if failed > 0 {
		fmt.Printf(" (%d failures)", failed)
	}
	fmt.Println()
	return nil
}
