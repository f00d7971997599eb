package mosaic

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Metrics summarizes one chunking run. Derived from the produced chunks,
// never stored by the engine.
type Metrics struct {
	TotalChunks   int           `json:"total_chunks"`
	MinTokens     int           `json:"min_tokens"`
	MaxTokens     int           `json:"max_tokens"`
	AvgTokens     float64       `json:"avg_tokens"`
	AvgQuality    float64       `json:"avg_quality"`
	AvgOverlapPct float64       `json:"avg_overlap_percentage,omitempty"`
	Duration      time.Duration `json:"duration_ns"`
	Insights      []string      `json:"insights,omitempty"`
}

// Summarize computes aggregate metrics for chunks produced with p. The
// insights are human-readable narrative; nothing in the engine branches on
// them.
func Summarize(chunks []Chunk, p Params, elapsed time.Duration) Metrics {
	m := Metrics{TotalChunks: len(chunks), Duration: elapsed}
	if len(chunks) == 0 {
		return m
	}
	target, _ := clampParams(p.TargetSize, p.Overlap)

	tokenSum := 0
	qualitySum := 0.0
	overlapSum := 0.0
	overlapped := 0
	m.MinTokens = chunks[0].EstimatedTokens
	for _, c := range chunks {
		tokenSum += c.EstimatedTokens
		m.MinTokens = min(m.MinTokens, c.EstimatedTokens)
		m.MaxTokens = max(m.MaxTokens, c.EstimatedTokens)
		qualitySum += chunkQuality(c, target)
		if c.OverlapPercent > 0 {
			overlapSum += c.OverlapPercent
			overlapped++
		}
	}
	m.AvgTokens = float64(tokenSum) / float64(len(chunks))
	m.AvgQuality = qualitySum / float64(len(chunks))
	if overlapped > 0 {
		m.AvgOverlapPct = overlapSum / float64(overlapped)
	}
	m.Insights = insights(m)
	return m
}

// chunkQuality averages whichever quality signals the chunk carries, always
// including the size-to-target ratio. The ratio is measured in the
// strategy's own unit: characters for fixed, sentence and paragraph chunks,
// estimated tokens for semantic and sliding.
func chunkQuality(c Chunk, target int) float64 {
	size := c.EstimatedTokens
	switch c.Strategy {
	case StrategyFixed, StrategySentence, StrategyParagraph:
		size = c.CharCount
	}
	ratio := 0.0
	if size > 0 && target > 0 {
		ratio = min(float64(size)/float64(target), float64(target)/float64(size))
	}

	sum, n := ratio, 1
	if c.Completeness > 0 {
		sum += c.Completeness
		n++
	}
	if c.Coherence > 0 {
		sum += c.Coherence
		n++
	}
	if c.SemanticDensity > 0 {
		sum += c.SemanticDensity
		n++
	}
	return sum / float64(n)
}

func insights(m Metrics) []string {
	var out []string
	switch {
	case m.TotalChunks < 3:
		out = append(out, "few chunks produced; a smaller target size would give retrieval more candidates")
	case m.TotalChunks > 200:
		out = append(out, "many chunks produced; a larger target size would reduce indexing volume")
	}
	if m.MinTokens > 0 && m.MaxTokens > 3*m.MinTokens {
		out = append(out, fmt.Sprintf("chunk sizes vary widely (%d to %d tokens)", m.MinTokens, m.MaxTokens))
	}
	if m.AvgQuality > 0 && m.AvgQuality < 0.5 {
		out = append(out, "low average quality; a different strategy or target size may fit this document better")
	}
	return out
}

// --- Per-chunk lexical scores ---

// lexicalRepetition returns the duplicate-word fraction of text after
// lowercasing and trimming punctuation from word edges.
func lexicalRepetition(text string) float64 {
	seen := make(map[string]struct{})
	dups, total := 0, 0
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = trimWordEdges(w)
		if w == "" {
			continue
		}
		total++
		if _, ok := seen[w]; ok {
			dups++
		} else {
			seen[w] = struct{}{}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(dups) / float64(total)
}

// coherenceScore scales the repetition fraction as a crude proxy for
// topical consistency, capped at 1. Deliberately lexical, not NLP.
func coherenceScore(text string, scale float64) float64 {
	return min(lexicalRepetition(text)*scale, 1.0)
}

// semanticDensity normalizes average words per sentence against 20, about
// the length of a full written sentence, capped at 1.
func semanticDensity(text string, sentenceCount int) float64 {
	if sentenceCount == 0 {
		return 0
	}
	avg := float64(len(strings.Fields(text))) / float64(sentenceCount)
	return min(avg/20, 1.0)
}

// topKeywords returns the n most frequent non-stopword terms of at least
// four runes, lowercased. Ties break alphabetically so the result is
// deterministic.
func topKeywords(text string, n int) []string {
	counts := make(map[string]int)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = trimWordEdges(w)
		if utf8.RuneCountInString(w) < 4 || stopwords[w] {
			continue
		}
		counts[w]++
	}
	if len(counts) == 0 {
		return nil
	}
	terms := make([]string, 0, len(counts))
	for w := range counts {
		terms = append(terms, w)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	return terms[:min(n, len(terms))]
}

func trimWordEdges(w string) string {
	return strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// stopwords excluded from topic keyword extraction. A fixed closed set of
// common English words, not meant to be exhaustive.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"if": true, "then": true, "else": true, "when": true, "while": true,
	"this": true, "that": true, "these": true, "those": true, "there": true,
	"here": true, "where": true, "which": true, "what": true, "whose": true,
	"is": true, "are": true, "was": true, "were": true, "been": true,
	"being": true, "have": true, "has": true, "had": true, "does": true,
	"did": true, "will": true, "would": true, "could": true, "should": true,
	"might": true, "must": true, "shall": true, "with": true, "from": true,
	"into": true, "over": true, "under": true, "about": true, "after": true,
	"before": true, "between": true, "during": true, "through": true,
	"against": true, "above": true, "below": true, "their": true, "them": true,
	"they": true, "your": true, "yours": true, "some": true, "such": true,
	"only": true, "other": true, "more": true, "most": true, "very": true,
	"also": true, "just": true, "than": true, "each": true, "both": true,
	"same": true, "because": true,
}
