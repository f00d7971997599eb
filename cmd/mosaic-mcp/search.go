// search.go implements a BM25-scored index over produced chunks, so a
// client can ask "which chunk would answer this query" without any
// embedding backend. Queries are tokenized into terms and scored with
// Okapi BM25; terms that made a chunk's topic keywords score higher.
package main

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	mosaic "github.com/nevindra/mosaic"
)

// BM25 tuning parameters.
const (
	bm25K1       = 1.2
	bm25B        = 0.75
	keywordBoost = 2.0 // multiplier for terms in a chunk's topic keywords
	maxResults   = 5
	snippetWords = 40
)

// chunkIndex is a BM25-scored inverted index over a single document's chunks.
type chunkIndex struct {
	chunks    []mosaic.Chunk
	postings  map[string][]posting    // term -> chunk postings
	keyTerms  map[string]map[int]bool // term -> chunk set (topic keywords)
	chunkLens []int                   // token count per chunk
	avgLen    float64
}

// posting records a term's frequency in a single chunk.
type posting struct {
	chunk int // index into chunks
	freq  int
}

// hit is a single search result with score and context snippet.
type hit struct {
	chunk   mosaic.Chunk
	score   float64
	snippet string
}

// newChunkIndex builds an inverted index from the given chunks.
func newChunkIndex(chunks []mosaic.Chunk) *chunkIndex {
	idx := &chunkIndex{
		chunks:    chunks,
		postings:  make(map[string][]posting),
		keyTerms:  make(map[string]map[int]bool),
		chunkLens: make([]int, len(chunks)),
	}

	totalLen := 0
	for i, c := range chunks {
		tokens := tokenize(c.Text)
		idx.chunkLens[i] = len(tokens)
		totalLen += len(tokens)

		tf := make(map[string]int)
		for _, t := range tokens {
			tf[t]++
		}
		for term, freq := range tf {
			idx.postings[term] = append(idx.postings[term], posting{chunk: i, freq: freq})
		}

		for _, kw := range c.TopicKeywords {
			for _, t := range tokenize(kw) {
				if idx.keyTerms[t] == nil {
					idx.keyTerms[t] = make(map[int]bool)
				}
				idx.keyTerms[t][i] = true
			}
		}
	}

	if len(chunks) > 0 {
		idx.avgLen = float64(totalLen) / float64(len(chunks))
	}
	return idx
}

// search finds chunks matching the query, ranked by BM25 score. Returns up
// to maxResults hits.
func (idx *chunkIndex) search(query string) []hit {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var unique []string
	for _, t := range terms {
		if !seen[t] {
			seen[t] = true
			unique = append(unique, t)
		}
	}

	n := float64(len(idx.chunks))
	scores := make(map[int]float64)

	for _, term := range unique {
		posts, ok := idx.postings[term]
		if !ok {
			continue
		}

		df := float64(len(posts))
		idf := math.Log((n-df+0.5)/(df+0.5) + 1.0)

		for _, p := range posts {
			cl := float64(idx.chunkLens[p.chunk])
			tf := float64(p.freq)
			tfNorm := (tf * (bm25K1 + 1)) / (tf + bm25K1*(1-bm25B+bm25B*(cl/idx.avgLen)))

			score := idf * tfNorm
			if idx.keyTerms[term][p.chunk] {
				score *= keywordBoost
			}
			scores[p.chunk] += score
		}
	}

	if len(scores) == 0 {
		return nil
	}

	termSet := make(map[string]bool, len(unique))
	for _, t := range unique {
		termSet[t] = true
	}

	hits := make([]hit, 0, len(scores))
	for i, score := range scores {
		hits = append(hits, hit{
			chunk:   idx.chunks[i],
			score:   score,
			snippet: extractSnippet(idx.chunks[i].Text, termSet),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].chunk.Index < hits[j].chunk.Index
	})

	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}
	return hits
}

// extractSnippet returns the window of up to snippetWords words containing
// the most distinct query terms, with ellipses where the chunk was clipped.
func extractSnippet(text string, queryTerms map[string]bool) string {
	words := strings.Fields(text)
	if len(words) <= snippetWords {
		return strings.Join(words, " ")
	}

	matches := make([]int, len(words))
	for i, w := range words {
		for _, t := range tokenize(w) {
			if queryTerms[t] {
				matches[i] = 1
				break
			}
		}
	}

	bestStart, bestScore := 0, -1
	for i := 0; i+snippetWords <= len(words); i++ {
		score := 0
		for j := i; j < i+snippetWords; j++ {
			score += matches[j]
		}
		if score > bestScore {
			bestScore = score
			bestStart = i
		}
	}

	end := bestStart + snippetWords
	snippet := strings.Join(words[bestStart:end], " ")
	if bestStart > 0 {
		snippet = "... " + snippet
	}
	if end < len(words) {
		snippet += " ..."
	}
	return snippet
}

// formatHits formats search hits for MCP tool output.
func formatHits(query string, hits []hit) string {
	if len(hits) == 0 {
		return fmt.Sprintf("No chunk matches %q. Try different terms.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d matching chunk(s):\n", len(hits))
	for _, h := range hits {
		fmt.Fprintf(&b, "\n## Chunk %d (score %.2f, %d tokens)\n\n%s\n",
			h.chunk.Index, h.score, h.chunk.EstimatedTokens, h.snippet)
	}
	return b.String()
}

// tokenize splits text into lowercase search tokens. Hyphenated words are
// indexed both whole ("multi-agent") and as parts ("multi", "agent").
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	var tokens []string
	var buf strings.Builder

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		word := strings.Trim(buf.String(), "-")
		buf.Reset()
		if len(word) < 2 {
			return
		}
		tokens = append(tokens, word)
		if strings.Contains(word, "-") {
			for _, part := range strings.Split(word, "-") {
				if len(part) >= 2 {
					tokens = append(tokens, part)
				}
			}
		}
	}

	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			buf.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}
