package mosaic

import (
	"strings"
	"unicode/utf8"
)

// --- Segmentation strategies ---

// Strategy identifies one of the five segmentation algorithms.
type Strategy string

const (
	StrategyFixed     Strategy = "fixed"
	StrategySentence  Strategy = "sentence"
	StrategyParagraph Strategy = "paragraph"
	StrategySemantic  Strategy = "semantic"
	StrategySliding   Strategy = "sliding"
)

// Strategies lists the known strategies in a stable order.
func Strategies() []Strategy {
	return []Strategy{StrategyFixed, StrategySentence, StrategyParagraph, StrategySemantic, StrategySliding}
}

// ParseStrategy maps a strategy name to a known Strategy. It accepts the
// canonical names plus common aliases ("fixed-size", "sliding-window").
// Unknown names report ok=false together with StrategyFixed, the fallback
// the dispatcher uses.
func ParseStrategy(s string) (Strategy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "fixed-size", "fixed_size":
		return StrategyFixed, true
	case "sentence":
		return StrategySentence, true
	case "paragraph":
		return StrategyParagraph, true
	case "semantic":
		return StrategySemantic, true
	case "sliding", "sliding-window", "sliding_window":
		return StrategySliding, true
	}
	return StrategyFixed, false
}

// --- Segmentation parameters ---

// Params is the saved segmentation configuration a host keeps per knowledge
// base. TargetSize is measured in characters for the fixed, sentence and
// paragraph strategies and in estimated tokens for semantic and sliding.
// Out-of-range values are clamped at call time, never rejected.
type Params struct {
	Strategy   Strategy `json:"strategy" toml:"strategy"`
	TargetSize int      `json:"target_size" toml:"target_size"`
	Overlap    int      `json:"overlap" toml:"overlap"`
}

// --- Chunk record ---

// Chunk is the engine's output unit. An assembler creates it once and it is
// immutable afterwards. Index is 1-based assignment order. UnitCount and
// UnitStart/UnitEnd describe the atomic units (sentences, paragraphs or
// words) the chunk was assembled from, where the strategy has such units.
// The quality fields are strategy-specific; absent ones stay zero and are
// omitted from JSON.
type Chunk struct {
	Index           int      `json:"sequence_index"`
	Text            string   `json:"text"`
	EstimatedTokens int      `json:"estimated_tokens"`
	CharCount       int      `json:"character_count"`
	UnitCount       int      `json:"unit_count,omitempty"`
	UnitStart       int      `json:"unit_start,omitempty"`
	UnitEnd         int      `json:"unit_end,omitempty"`
	Strategy        Strategy `json:"strategy"`

	Completeness    float64  `json:"completeness,omitempty"`
	Coherence       float64  `json:"coherence,omitempty"`
	SemanticDensity float64  `json:"semantic_density,omitempty"`
	TopicKeywords   []string `json:"topic_keywords,omitempty"`
	OverlapTokens   int      `json:"overlap_tokens,omitempty"`
	OverlapPercent  float64  `json:"overlap_percentage,omitempty"`
}

// newChunk fills the fields every assembler computes the same way.
func newChunk(index int, text string, strategy Strategy) Chunk {
	return Chunk{
		Index:           index,
		Text:            text,
		EstimatedTokens: EstimateTokens(text),
		CharCount:       utf8.RuneCountInString(text),
		Strategy:        strategy,
	}
}

// --- Host-side document record ---

// Document is the record a chunked upload becomes on the host side. The
// engine itself never stores it; the ingest subpackage mints one per
// extracted source.
type Document struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Source    string `json:"source"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}
