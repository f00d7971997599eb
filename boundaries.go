package mosaic

import (
	"strings"
	"unicode"
)

// Boundary splitters divide raw text into ordered atomic units. All three
// share one edge-case policy: a splitter that detects zero units in
// non-empty text returns the whole trimmed text as a single unit, so every
// assembler is guaranteed to make progress. Scanning is rune-based
// throughout; a multi-byte codepoint is never cut.

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// splitSentences partitions text at a sentence terminator (. ! ?) followed
// by whitespace and an uppercase letter, or at end of string. Sentences
// come back trimmed and non-empty. A trailing run without a terminator is
// still emitted so no text is lost.
func splitSentences(text string) []string {
	runes := []rune(text)
	n := len(runes)

	var sentences []string
	start := 0
	for i := 0; i < n; i++ {
		if !isTerminator(runes[i]) {
			continue
		}

		// Consume a terminator run ("...", "?!") as one ending.
		end := i + 1
		for end < n && isTerminator(runes[end]) {
			end++
		}

		// Look past the whitespace that follows.
		next := end
		for next < n && unicode.IsSpace(runes[next]) {
			next++
		}

		atEnd := next == n
		startsSentence := next > end && unicode.IsUpper(runes[next])
		if atEnd || startsSentence {
			if s := strings.TrimSpace(string(runes[start:end])); s != "" {
				sentences = append(sentences, s)
			}
			start = next
			i = next - 1
			continue
		}
		i = end - 1
	}

	if start < n {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}

	if len(sentences) == 0 {
		if s := strings.TrimSpace(text); s != "" {
			return []string{s}
		}
		return nil
	}
	return sentences
}

// splitParagraphs partitions text on blank-line separators, where a line
// containing only whitespace counts as blank. Paragraphs come back trimmed
// with empties dropped; text without any blank line yields the whole
// trimmed text as a single unit.
func splitParagraphs(text string) []string {
	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		if p := strings.TrimSpace(strings.Join(current, "\n")); p != "" {
			paragraphs = append(paragraphs, p)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	if len(paragraphs) == 0 {
		if p := strings.TrimSpace(text); p != "" {
			return []string{p}
		}
		return nil
	}
	return paragraphs
}

// splitWords splits on whitespace runs. Empty or whitespace-only text
// yields no units.
func splitWords(text string) []string {
	return strings.Fields(text)
}
