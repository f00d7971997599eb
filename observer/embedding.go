package observer

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/nevindra/mosaic/ingest"
)

// ObservedEmbedder wraps an ingest.Embedder with OTEL instrumentation.
// Wrap the backend before handing it to the pipeline:
//
//	ingest.NewPipeline(ingest.WithEmbedder(observer.WrapEmbedder(backend, "openai", inst)))
type ObservedEmbedder struct {
	inner   ingest.Embedder
	inst    *Instruments
	backend string
}

// WrapEmbedder returns an instrumented embedder. The backend label names
// the underlying service on every span and metric point.
func WrapEmbedder(inner ingest.Embedder, backend string, inst *Instruments) *ObservedEmbedder {
	return &ObservedEmbedder{inner: inner, inst: inst, backend: backend}
}

func (o *ObservedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, span := o.inst.Tracer.Start(ctx, "embedding.embed", trace.WithAttributes(
		attribute.String("embedding.backend", o.backend),
		attribute.Int("embedding.text_count", len(texts)),
	))
	defer span.End()
	start := time.Now()

	result, err := o.inner.Embed(ctx, texts)

	durationMs := float64(time.Since(start).Milliseconds())
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	attrs := metric.WithAttributes(
		attribute.String("embedding.backend", o.backend),
		attribute.String("status", status),
	)
	o.inst.EmbedRequests.Add(ctx, 1, attrs)
	o.inst.EmbedDuration.Record(ctx, durationMs, attrs)

	// Structured log
	var rec otellog.Record
	rec.SetSeverity(otellog.SeverityInfo)
	rec.SetBody(otellog.StringValue("embedding completed"))
	rec.AddAttributes(
		otellog.String("embedding.backend", o.backend),
		otellog.Int("embedding.text_count", len(texts)),
		otellog.Float64("embedding.duration_ms", durationMs),
		otellog.String("status", status),
	)
	o.inst.Logger.Emit(ctx, rec)

	return result, err
}
