package usecase

import (
	"fmt"
	"strings"

	"ragserve/internal/domain"
)

// noDocumentsContext is the fallback context block used when retrieval
// produced nothing, so the generation prompt is never silently context-free.
const noDocumentsContext = "No relevant documents found."

// BuildContext formats ranked documents into a single delimited text block
// for prompting. Documents are rendered in the order supplied.
func BuildContext(docs []domain.QueryResult) string {
	if len(docs) == 0 {
		return noDocumentsContext
	}

	blocks := make([]string, len(docs))
	for i, doc := range docs {
		source := "Unknown"
		if v, ok := doc.Metadata["source"]; ok {
			source = fmt.Sprintf("%v", v)
		}
		blocks[i] = fmt.Sprintf("[Document %d - Source: %s]\n%s", i+1, source, doc.Text)
	}

	return strings.Join(blocks, "\n\n")
}
