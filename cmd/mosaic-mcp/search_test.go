package main

import (
	"fmt"
	"strings"
	"testing"

	mosaic "github.com/nevindra/mosaic"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple words", "hello world", []string{"hello", "world"}},
		{"mixed case", "Hello World", []string{"hello", "world"}},
		{"hyphenated", "multi-pass splitter", []string{"multi-pass", "multi", "pass", "splitter"}},
		{"punctuation", "foo, bar. baz!", []string{"foo", "bar", "baz"}},
		{"short words filtered", "a I go do it", []string{"go", "do", "it"}},
		{"numbers", "v2 utf8 bm25", []string{"v2", "utf8", "bm25"}},
		{"leading hyphens trimmed", "--flag --verbose", []string{"flag", "verbose"}},
		{"empty string", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("tokenize(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSearchSingleTerm(t *testing.T) {
	chunks := []mosaic.Chunk{
		{Index: 0, Text: "The estimator counts words and weighs punctuation density."},
		{Index: 1, Text: "Sliding windows advance by a fixed stride between chunks."},
		{Index: 2, Text: "Paragraph boundaries follow blank lines in the source text."},
	}

	idx := newChunkIndex(chunks)
	hits := idx.search("stride")

	if len(hits) != 1 {
		t.Fatalf("expected 1 hit for 'stride', got %d", len(hits))
	}
	if hits[0].chunk.Index != 1 {
		t.Errorf("top hit = chunk %d, want chunk 1", hits[0].chunk.Index)
	}
}

func TestSearchMultiWord(t *testing.T) {
	chunks := []mosaic.Chunk{
		{Index: 0, Text: "overlap carries trailing context between windows"},
		{Index: 1, Text: "overlap tokens are copied verbatim"},
		{Index: 2, Text: "quality scoring looks at sentence completeness"},
	}

	idx := newChunkIndex(chunks)
	hits := idx.search("overlap trailing context")

	if len(hits) == 0 {
		t.Fatal("expected hits for 'overlap trailing context'")
	}
	// Chunk 0 contains all three query terms and should rank highest.
	if hits[0].chunk.Index != 0 {
		t.Errorf("top hit = chunk %d, want chunk 0", hits[0].chunk.Index)
	}
}

func TestSearchNoResults(t *testing.T) {
	chunks := []mosaic.Chunk{
		{Index: 0, Text: "plain prose about nothing in particular"},
	}

	idx := newChunkIndex(chunks)
	hits := idx.search("nonexistent term xyzzy")

	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	idx := newChunkIndex([]mosaic.Chunk{{Text: "some content"}})
	hits := idx.search("")

	if hits != nil {
		t.Errorf("expected nil for empty query, got %v", hits)
	}
}

func TestSearchKeywordBoost(t *testing.T) {
	// Both chunks mention "caching" once with equal length, so the base
	// BM25 score ties. The chunk whose topic keywords list the term wins.
	chunks := []mosaic.Chunk{
		{Index: 0, Text: "caching layers store hot values"},
		{Index: 1, Text: "caching avoids repeated backend calls", TopicKeywords: []string{"caching"}},
	}

	idx := newChunkIndex(chunks)
	hits := idx.search("caching")

	if len(hits) < 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].chunk.Index != 1 {
		t.Errorf("expected keyword-boosted chunk to rank first, got chunk %d", hits[0].chunk.Index)
	}
	if hits[0].score <= hits[1].score {
		t.Errorf("boosted score (%.2f) should be > unboosted score (%.2f)", hits[0].score, hits[1].score)
	}
}

func TestSearchResultCap(t *testing.T) {
	var chunks []mosaic.Chunk
	for i := 0; i < maxResults+3; i++ {
		chunks = append(chunks, mosaic.Chunk{
			Index: i,
			Text:  fmt.Sprintf("retrieval chunk number %d mentions retrieval", i),
		})
	}

	idx := newChunkIndex(chunks)
	hits := idx.search("retrieval")

	if len(hits) != maxResults {
		t.Errorf("expected %d hits, got %d", maxResults, len(hits))
	}
}

func TestExtractSnippetWindow(t *testing.T) {
	words := make([]string, 100)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	words[60] = "needle"
	text := strings.Join(words, " ")

	snippet := extractSnippet(text, map[string]bool{"needle": true})

	if !strings.Contains(snippet, "needle") {
		t.Errorf("snippet should include the matching word, got:\n%s", snippet)
	}
	if !strings.HasPrefix(snippet, "... ") {
		t.Errorf("clipped snippet should start with ellipsis, got:\n%s", snippet)
	}
	if got := len(strings.Fields(snippet)); got > snippetWords+2 {
		t.Errorf("snippet has %d words, want at most %d plus ellipses", got, snippetWords)
	}
}

func TestExtractSnippetShortText(t *testing.T) {
	text := "just a few words here"
	snippet := extractSnippet(text, map[string]bool{"words": true})

	if snippet != text {
		t.Errorf("short text should be returned whole, got %q", snippet)
	}
}

func TestFormatHitsEmpty(t *testing.T) {
	out := formatHits("test", nil)
	if !strings.Contains(out, "No chunk matches") {
		t.Errorf("expected 'No chunk matches' message, got: %s", out)
	}
}

func TestFormatHitsWithMatches(t *testing.T) {
	hits := []hit{
		{chunk: mosaic.Chunk{Index: 2, EstimatedTokens: 128}, score: 4.2, snippet: "some snippet"},
	}
	out := formatHits("overlap", hits)

	if !strings.Contains(out, "Found 1 matching") {
		t.Errorf("expected match count, got: %s", out)
	}
	if !strings.Contains(out, "Chunk 2") {
		t.Errorf("expected chunk index in output, got: %s", out)
	}
	if !strings.Contains(out, "some snippet") {
		t.Errorf("expected snippet in output, got: %s", out)
	}
}
