package observer

import (
	"context"
	"time"
	"unicode/utf8"

	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	mosaic "github.com/nevindra/mosaic"
)

// ObservedChunker wraps a mosaic.Chunker with OTEL instrumentation.
type ObservedChunker struct {
	inner    mosaic.Chunker
	inst     *Instruments
	strategy mosaic.Strategy
}

// WrapChunker returns an instrumented chunker. The strategy is recorded as
// an attribute on every span and metric point.
func WrapChunker(inner mosaic.Chunker, strategy mosaic.Strategy, inst *Instruments) *ObservedChunker {
	return &ObservedChunker{inner: inner, inst: inst, strategy: strategy}
}

// Chunk implements mosaic.Chunker. Spans emitted here are roots; use
// ChunkContext to nest them under a caller's trace.
func (o *ObservedChunker) Chunk(text string) []mosaic.Chunk {
	return o.ChunkContext(context.Background(), text)
}

func (o *ObservedChunker) ChunkContext(ctx context.Context, text string) []mosaic.Chunk {
	ctx, span := o.inst.Tracer.Start(ctx, "chunking.run", trace.WithAttributes(
		AttrStrategy.String(string(o.strategy)),
		AttrInputRunes.Int(utf8.RuneCountInString(text)),
	))
	defer span.End()
	start := time.Now()

	chunks := o.inner.Chunk(text)

	durationMs := float64(time.Since(start).Microseconds()) / 1e3
	tokens := 0
	for _, c := range chunks {
		tokens += c.EstimatedTokens
	}
	span.SetAttributes(AttrChunkCount.Int(len(chunks)))

	attrs := metric.WithAttributes(AttrStrategy.String(string(o.strategy)))
	o.inst.ChunkRuns.Add(ctx, 1, attrs)
	o.inst.ChunksProduced.Add(ctx, int64(len(chunks)), attrs)
	o.inst.TokensProcessed.Add(ctx, int64(tokens), attrs)
	o.inst.ChunkDuration.Record(ctx, durationMs, attrs)

	// Structured log
	var rec otellog.Record
	rec.SetSeverity(otellog.SeverityInfo)
	rec.SetBody(otellog.StringValue("chunking completed"))
	rec.AddAttributes(
		otellog.String("chunking.strategy", string(o.strategy)),
		otellog.Int("chunking.chunk_count", len(chunks)),
		otellog.Int("chunking.tokens", tokens),
		otellog.Float64("chunking.duration_ms", durationMs),
	)
	o.inst.Logger.Emit(ctx, rec)

	return chunks
}
