package chunker

import (
	"strings"
	"testing"
)

func TestSplitShortText(t *testing.T) {
	chunks := Split("short text", 100)
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Errorf("expected single chunk, got %v", chunks)
	}
}

func TestSplitEmptyText(t *testing.T) {
	if chunks := Split("   \n  ", 100); chunks != nil {
		t.Errorf("expected nil for blank text, got %v", chunks)
	}
}

func TestSplitDisabled(t *testing.T) {
	long := strings.Repeat("x", 500)
	chunks := Split(long, 0)
	if len(chunks) != 1 {
		t.Errorf("expected splitting disabled for maxChars=0, got %d chunks", len(chunks))
	}
}

func TestSplitAtParagraphBoundaries(t *testing.T) {
	text := strings.Repeat("a", 40) + "\n\n" + strings.Repeat("b", 40) + "\n\n" + strings.Repeat("c", 40)
	chunks := Split(text, 50)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(chunks), chunks)
	}
	for i, c := range chunks {
		if len(c) > 50 {
			t.Errorf("chunk %d exceeds limit: %d chars", i, len(c))
		}
		if strings.Contains(c, "\n\n") {
			t.Errorf("chunk %d spans a paragraph break", i)
		}
	}
}

func TestSplitGroupsSmallParagraphs(t *testing.T) {
	text := "one\n\ntwo\n\nthree"
	chunks := Split(text, 100)
	if len(chunks) != 1 {
		t.Errorf("expected small paragraphs grouped into one chunk, got %d", len(chunks))
	}
}

func TestSplitOversizeParagraph(t *testing.T) {
	text := strings.Repeat("x", 120)
	chunks := Split(text, 50)

	if len(chunks) < 3 {
		t.Fatalf("expected oversize paragraph split, got %d chunks", len(chunks))
	}
	var total int
	for _, c := range chunks {
		if len(c) > 50 {
			t.Errorf("chunk exceeds limit: %d chars", len(c))
		}
		total += len(c)
	}
	if total != 120 {
		t.Errorf("expected all content preserved, got %d chars", total)
	}
}
