package mosaic

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewReturnsStrategyChunker(t *testing.T) {
	tests := []struct {
		strategy Strategy
		want     string
	}{
		{StrategyFixed, "*mosaic.FixedSizeChunker"},
		{StrategySentence, "*mosaic.SentenceChunker"},
		{StrategyParagraph, "*mosaic.ParagraphChunker"},
		{StrategySemantic, "*mosaic.SemanticChunker"},
		{StrategySliding, "*mosaic.SlidingWindowChunker"},
	}
	for _, tt := range tests {
		c := New(tt.strategy)
		var got string
		switch c.(type) {
		case *FixedSizeChunker:
			got = "*mosaic.FixedSizeChunker"
		case *SentenceChunker:
			got = "*mosaic.SentenceChunker"
		case *ParagraphChunker:
			got = "*mosaic.ParagraphChunker"
		case *SemanticChunker:
			got = "*mosaic.SemanticChunker"
		case *SlidingWindowChunker:
			got = "*mosaic.SlidingWindowChunker"
		}
		if got != tt.want {
			t.Errorf("New(%q) = %s, want %s", tt.strategy, got, tt.want)
		}
	}
}

func TestNewUnknownStrategyFallsBack(t *testing.T) {
	c := New("banana")
	if _, ok := c.(*FixedSizeChunker); !ok {
		t.Fatalf("unknown strategy should fall back to fixed-size, got %T", c)
	}
	got := ChunkText("hello world", Params{Strategy: "banana", TargetSize: 100})
	if len(got) != 1 {
		t.Fatalf("got %d chunks, want 1", len(got))
	}
	if got[0].Strategy != StrategyFixed {
		t.Errorf("fallback chunk tagged %q, want %q", got[0].Strategy, StrategyFixed)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in     string
		want   Strategy
		wantOK bool
	}{
		{"fixed", StrategyFixed, true},
		{"fixed-size", StrategyFixed, true},
		{"fixed_size", StrategyFixed, true},
		{"sentence", StrategySentence, true},
		{"paragraph", StrategyParagraph, true},
		{"semantic", StrategySemantic, true},
		{"sliding", StrategySliding, true},
		{"sliding-window", StrategySliding, true},
		{"sliding_window", StrategySliding, true},
		{"SEMANTIC", StrategySemantic, true},
		{"banana", StrategyFixed, false},
		{"", StrategyFixed, false},
	}
	for _, tt := range tests {
		got, ok := ParseStrategy(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseStrategy(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
	if len(Strategies()) != 5 {
		t.Errorf("Strategies() lists %d strategies, want 5", len(Strategies()))
	}
}

func TestChunkEmptyInputAllStrategies(t *testing.T) {
	for _, s := range Strategies() {
		p := Params{Strategy: s, TargetSize: 100, Overlap: 10}
		if got := ChunkText("", p); got != nil {
			t.Errorf("%s: expected nil for empty input, got %+v", s, got)
		}
		if got := ChunkText(" \n\t  ", p); got != nil {
			t.Errorf("%s: expected nil for whitespace input, got %+v", s, got)
		}
	}
}

func TestChunkCountShrinksWithTarget(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("The quick brown fox jumps. ", 40))
	for _, s := range Strategies() {
		prev := -1
		for _, size := range []int{400, 200, 100, 50} {
			n := len(ChunkText(text, Params{Strategy: s, TargetSize: size}))
			if n == 0 {
				t.Fatalf("%s size %d: no chunks", s, size)
			}
			if prev >= 0 && n < prev {
				t.Errorf("%s: shrinking the target produced fewer chunks (%d then %d)", s, prev, n)
			}
			prev = n
		}
	}
}

func TestChunkSentenceUnitsGapless(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("The quick brown fox jumps. ", 40))
	got := ChunkText(text, Params{Strategy: StrategySentence, TargetSize: 100, Overlap: 20})
	if len(got) < 2 {
		t.Fatalf("got %d chunks, want several", len(got))
	}
	if got[0].UnitStart != 1 {
		t.Errorf("first chunk starts at sentence %d, want 1", got[0].UnitStart)
	}
	for i := 1; i < len(got); i++ {
		if got[i].UnitStart > got[i-1].UnitEnd+1 {
			t.Errorf("sentences skipped between chunks %d and %d", i, i+1)
		}
	}
	if got[len(got)-1].UnitEnd != 40 {
		t.Errorf("last chunk ends at sentence %d, want 40", got[len(got)-1].UnitEnd)
	}
}

func TestChunkDegradedParameters(t *testing.T) {
	text := "Some text. More text here! And a question? Final bit"
	budget := utf8.RuneCountInString(text) + 1
	for _, s := range Strategies() {
		for _, size := range []int{-10, 0, 1, 7} {
			for _, overlap := range []int{0, 3, 7, 10000} {
				got := ChunkText(text, Params{Strategy: s, TargetSize: size, Overlap: overlap})
				if len(got) == 0 {
					t.Fatalf("%s size=%d overlap=%d: no chunks", s, size, overlap)
				}
				if len(got) > budget {
					t.Errorf("%s size=%d overlap=%d: %d chunks for %d runes", s, size, overlap, len(got), budget-1)
				}
				for _, ch := range got {
					if strings.TrimSpace(ch.Text) == "" {
						t.Errorf("%s size=%d overlap=%d: blank chunk emitted", s, size, overlap)
					}
				}
			}
		}
	}
}

func TestChunkDeterministic(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("Alpha bravo charlie. Delta echo foxtrot! ", 15))
	for _, s := range Strategies() {
		p := Params{Strategy: s, TargetSize: 80, Overlap: 16}
		first := ChunkText(text, p)
		for run := 0; run < 5; run++ {
			again := ChunkText(text, p)
			if len(again) != len(first) {
				t.Fatalf("%s: run %d produced %d chunks, first produced %d", s, run, len(again), len(first))
			}
			for i := range again {
				if again[i].Text != first[i].Text || again[i].Index != first[i].Index {
					t.Errorf("%s: run %d chunk %d differs", s, run, i)
				}
			}
		}
	}
}

func TestChunkWithMetrics(t *testing.T) {
	chunks, m := ChunkWithMetrics("Hello world. This is a test.", Params{
		Strategy:   StrategySentence,
		TargetSize: 15,
		Overlap:    5,
	})
	if len(chunks) != 2 || m.TotalChunks != 2 {
		t.Fatalf("got %d chunks, metrics counted %d, want 2", len(chunks), m.TotalChunks)
	}
	if m.MinTokens <= 0 || m.MaxTokens < m.MinTokens {
		t.Errorf("token range %d..%d is not sane", m.MinTokens, m.MaxTokens)
	}
	if m.AvgTokens <= 0 || m.AvgQuality <= 0 {
		t.Errorf("averages missing: tokens=%v quality=%v", m.AvgTokens, m.AvgQuality)
	}
	if m.Duration < 0 {
		t.Errorf("duration = %v", m.Duration)
	}
	found := false
	for _, in := range m.Insights {
		if strings.Contains(in, "few chunks") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a few-chunks insight, got %v", m.Insights)
	}
}

func TestDefaultOptions(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 400))
	for _, ch := range New(StrategyFixed).Chunk(text) {
		if ch.CharCount > defaultTargetSize {
			t.Errorf("default window exceeded %d runes: %d", defaultTargetSize, ch.CharCount)
		}
	}
}
