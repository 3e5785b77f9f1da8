package scrape

import "strings"

// Chunk packs paragraph blocks into chunks bounded by maxChars so each
// fits a model context window. Whole paragraphs are packed greedily; a
// single paragraph that alone exceeds the budget is split at word
// boundaries. Order is preserved.
func Chunk(paragraphs []string, maxChars int) []string {
	var chunks []string
	var current []string
	currentLen := 0

	for _, paragraph := range paragraphs {
		paraLen := len(paragraph)

		if currentLen+paraLen > maxChars && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))
			current = nil
			currentLen = 0
		}

		if paraLen > maxChars {
			if len(current) > 0 {
				chunks = append(chunks, strings.Join(current, "\n\n"))
				current = nil
				currentLen = 0
			}
			chunks = append(chunks, splitWords(paragraph, maxChars)...)
			continue
		}

		current = append(current, paragraph)
		currentLen += paraLen + 2 // joined with blank line
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n\n"))
	}

	return chunks
}

// splitWords splits one oversized paragraph at word boundaries
func splitWords(paragraph string, maxChars int) []string {
	var chunks []string
	var current []string
	currentLen := 0

	for _, word := range strings.Fields(paragraph) {
		wordLen := len(word) + 1 // trailing space
		if currentLen+wordLen > maxChars && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
			currentLen = 0
		}
		current = append(current, word)
		currentLen += wordLen
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}
