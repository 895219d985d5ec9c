package usecase

import (
	"strings"
	"testing"

	"ragserve/internal/domain"
)

func TestBuildContextEmpty(t *testing.T) {
	got := BuildContext(nil)
	if got != "No relevant documents found." {
		t.Errorf("expected sentinel string, got %q", got)
	}
	if got := BuildContext([]domain.QueryResult{}); got != "No relevant documents found." {
		t.Errorf("expected sentinel string for empty slice, got %q", got)
	}
}

func TestBuildContextFormatting(t *testing.T) {
	docs := []domain.QueryResult{
		{Text: "first text", Metadata: domain.Metadata{"source": "a.txt"}},
		{Text: "second text", Metadata: domain.Metadata{}},
	}

	got := BuildContext(docs)

	want := "[Document 1 - Source: a.txt]\nfirst text\n\n[Document 2 - Source: Unknown]\nsecond text"
	if got != want {
		t.Errorf("unexpected context:\n%q\nwant:\n%q", got, want)
	}
}

func TestBuildContextPreservesOrder(t *testing.T) {
	docs := []domain.QueryResult{
		{Text: "ranked first"},
		{Text: "ranked second"},
		{Text: "ranked third"},
	}

	got := BuildContext(docs)

	first := strings.Index(got, "ranked first")
	second := strings.Index(got, "ranked second")
	third := strings.Index(got, "ranked third")
	if !(first < second && second < third) {
		t.Errorf("documents reordered:\n%s", got)
	}
}

func TestBuildContextNonStringSource(t *testing.T) {
	docs := []domain.QueryResult{
		{Text: "text", Metadata: domain.Metadata{"source": 42}},
	}
	got := BuildContext(docs)
	if !strings.Contains(got, "Source: 42") {
		t.Errorf("expected numeric source rendered, got %q", got)
	}
}
