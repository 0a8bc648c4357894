package ai

import (
	"strings"
	"unicode"
)

const (
	// ChunkSize is the maximum character count per chunk.
	ChunkSize = 500
	// ChunkOverlap is the character count carried over between chunks.
	ChunkOverlap = 50
)

// ChunkText splits note content into bounded-length chunks for embedding,
// preserving paragraph boundaries when possible.
func ChunkText(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if len(content) <= ChunkSize {
		return []string{content}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunks = append(chunks, current.String())
		overlap := tailWords(current.String(), ChunkOverlap)
		current.Reset()
		if overlap != "" {
			current.WriteString(overlap)
		}
	}

	for _, para := range splitParagraphs(content) {
		if current.Len() > 0 && current.Len()+len(para)+2 > ChunkSize {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)

		// Force-split paragraphs longer than a whole chunk.
		for current.Len() > ChunkSize {
			text := current.String()
			cut := breakPoint(text[:ChunkSize])
			chunks = append(chunks, strings.TrimSpace(text[:cut]))
			current.Reset()
			current.WriteString(strings.TrimSpace(text[cut:]))
		}
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func splitParagraphs(content string) []string {
	var paras []string
	for _, p := range strings.Split(content, "\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// tailWords returns up to n trailing characters of text, trimmed to a word
// boundary, for chunk overlap.
func tailWords(text string, n int) string {
	if len(text) <= n {
		return text
	}
	tail := text[len(text)-n:]
	if idx := strings.IndexAny(tail, " \t\n"); idx >= 0 {
		return strings.TrimSpace(tail[idx:])
	}
	return tail
}

// breakPoint finds a sentence or word boundary to split at, scanning backwards.
func breakPoint(text string) int {
	for i := len(text) - 1; i > 0; i-- {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && (i == len(text)-1 || unicode.IsSpace(rune(text[i+1]))) {
			return i + 1
		}
	}
	for i := len(text) - 1; i >= len(text)/2; i-- {
		if unicode.IsSpace(rune(text[i])) {
			return i
		}
	}
	return len(text)
}
