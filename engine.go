package mosaic

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Chunker splits document text into ordered chunk records. All five
// strategy implementations satisfy it. Implementations are stateless
// between calls and safe for concurrent use.
type Chunker interface {
	Chunk(text string) []Chunk
}

// --- Options shared by all chunker constructors ---

// Option configures a chunker built by New or a strategy constructor.
type Option func(*config)

type config struct {
	targetSize int
	overlap    int
	logger     *slog.Logger
}

const (
	defaultTargetSize = 512
	defaultOverlap    = 50
)

func buildConfig(opts []Option) config {
	cfg := config{targetSize: defaultTargetSize, overlap: defaultOverlap}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = nopLogger
	}
	cfg.targetSize, cfg.overlap = clampParams(cfg.targetSize, cfg.overlap)
	return cfg
}

// WithTargetSize sets the chunk size budget: characters for the fixed,
// sentence and paragraph strategies, estimated tokens for semantic and
// sliding. Values at or below zero clamp to 1.
func WithTargetSize(n int) Option {
	return func(c *config) { c.targetSize = n }
}

// WithOverlap sets how much content consecutive chunks share, in the same
// unit as the target size. Values at or above the target size clamp to
// target size minus one.
func WithOverlap(n int) Option {
	return func(c *config) { c.overlap = n }
}

// WithLogger sets the logger used to report strategy fallbacks. Nil (the
// default) discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// nopLogger discards all output. Used when WithLogger is not set.
var nopLogger = slog.New(discardHandler{})

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// clampParams applies the degradation rules every assembler shares: a
// target size at or below zero becomes 1 and the overlap is forced below
// the target so every pass advances.
func clampParams(targetSize, overlap int) (int, int) {
	if targetSize <= 0 {
		targetSize = 1
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= targetSize {
		overlap = targetSize - 1
	}
	return targetSize, overlap
}

// --- Strategy dispatcher ---

// New returns the assembler for the given strategy. An unknown strategy
// falls back to fixed-size; the fallback is logged when a logger is
// configured, never surfaced as an error.
func New(strategy Strategy, opts ...Option) Chunker {
	cfg := buildConfig(opts)
	s, ok := ParseStrategy(string(strategy))
	if !ok {
		cfg.logger.Warn("unknown chunking strategy, falling back to fixed-size", "strategy", string(strategy))
	}
	switch s {
	case StrategySentence:
		return &SentenceChunker{targetSize: cfg.targetSize, overlap: cfg.overlap}
	case StrategyParagraph:
		return &ParagraphChunker{targetSize: cfg.targetSize, overlap: cfg.overlap}
	case StrategySemantic:
		return &SemanticChunker{targetSize: cfg.targetSize, overlap: cfg.overlap}
	case StrategySliding:
		return &SlidingWindowChunker{targetSize: cfg.targetSize, overlap: cfg.overlap}
	default:
		return &FixedSizeChunker{targetSize: cfg.targetSize, overlap: cfg.overlap}
	}
}

// ChunkText splits text with the given parameters. It is the engine's one
// logical entry point: empty or whitespace-only text returns nil without
// running any assembler, out-of-range parameters clamp instead of failing,
// and unknown strategies fall back to fixed-size.
func ChunkText(text string, p Params) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return New(p.Strategy, WithTargetSize(p.TargetSize), WithOverlap(p.Overlap)).Chunk(text)
}

// ChunkWithMetrics runs ChunkText and summarizes the produced chunks.
func ChunkWithMetrics(text string, p Params) ([]Chunk, Metrics) {
	start := time.Now()
	chunks := ChunkText(text, p)
	return chunks, Summarize(chunks, p, time.Since(start))
}
