package chunker

import "strings"

// Split breaks text into chunks of at most maxChars characters, preferring
// paragraph boundaries (blank lines). A paragraph longer than maxChars is
// split mid-paragraph. maxChars <= 0 disables splitting.
func Split(text string, maxChars int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if maxChars <= 0 || len(text) <= maxChars {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if current.Len() > 0 && current.Len()+len(para)+2 > maxChars {
			flush()
		}

		for len(para) > maxChars {
			flush()
			chunks = append(chunks, strings.TrimSpace(para[:maxChars]))
			para = strings.TrimSpace(para[maxChars:])
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()

	return chunks
}
