package mosaic

import (
	"strings"
	"testing"
)

func TestEstimateTokensEmpty(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("EstimateTokens(\"\") = %d, want 0", got)
	}
}

func TestEstimateTokensShortSentence(t *testing.T) {
	got := EstimateTokens("The quick brown fox.")
	if got < 4 || got > 6 {
		t.Errorf("EstimateTokens(short sentence) = %d, want 4-6", got)
	}
}

func TestEstimateTokensMinimumOne(t *testing.T) {
	for _, text := range []string{" ", "\t\n", "...", "x"} {
		if got := EstimateTokens(text); got < 1 {
			t.Errorf("EstimateTokens(%q) = %d, want at least 1", text, got)
		}
	}
}

func TestEstimateTokensPunctuation(t *testing.T) {
	// 3 words plus ceil(3/2.5) = 2 for the punctuation marks.
	if got := EstimateTokens("a, b, c."); got != 5 {
		t.Errorf("EstimateTokens = %d, want 5", got)
	}
}

func TestEstimateTokensNumericRuns(t *testing.T) {
	// words: version, 3, 14; punct: the dot; numeric runs: 3 and 14.
	// 3 + ceil(1/2.5) + floor(2*0.7) = 3 + 1 + 1.
	if got := EstimateTokens("version 3.14"); got != 5 {
		t.Errorf("EstimateTokens = %d, want 5", got)
	}
}

func TestEstimateTokensLongWords(t *testing.T) {
	// 10 words over six runes add floor(10*0.3) = 3.
	text := strings.TrimSpace(strings.Repeat("wonderful ", 10))
	if got := EstimateTokens(text); got != 13 {
		t.Errorf("EstimateTokens = %d, want 13", got)
	}
}

func TestEstimateTokensDeterministic(t *testing.T) {
	text := "Determinism matters: the same input must yield the same count, every time."
	first := EstimateTokens(text)
	for i := 0; i < 10; i++ {
		if got := EstimateTokens(text); got != first {
			t.Fatalf("EstimateTokens changed between calls: %d then %d", first, got)
		}
	}
}

func TestEstimateTokensMonotonic(t *testing.T) {
	base := "Adding more content never lowers the estimate"
	longer := base + " because every term in the formula is additive."
	if EstimateTokens(longer) < EstimateTokens(base) {
		t.Errorf("estimate decreased when content grew: %d < %d",
			EstimateTokens(longer), EstimateTokens(base))
	}
}

func TestEstimateTokensUnicode(t *testing.T) {
	if got := EstimateTokens("héllo wörld"); got != 2 {
		t.Errorf("EstimateTokens(accented words) = %d, want 2", got)
	}
}
