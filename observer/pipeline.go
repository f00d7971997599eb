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

// ObservedPipeline wraps an ingest.Pipeline with OTEL instrumentation.
type ObservedPipeline struct {
	inner *ingest.Pipeline
	inst  *Instruments
}

// WrapPipeline returns an instrumented pipeline.
func WrapPipeline(inner *ingest.Pipeline, inst *Instruments) *ObservedPipeline {
	return &ObservedPipeline{inner: inner, inst: inst}
}

// Preview delegates to the pipeline under a span. No metrics are recorded;
// previews are interactive and cheap.
func (o *ObservedPipeline) Preview(ctx context.Context, content []byte, filename string) (ingest.Preview, error) {
	_, span := o.inst.Tracer.Start(ctx, "ingest.preview", trace.WithAttributes(
		AttrSource.String(filename),
	))
	defer span.End()

	pv, err := o.inner.Preview(content, filename)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return pv, err
	}
	span.SetAttributes(
		AttrContentType.String(string(pv.ContentType)),
		AttrChunkCount.Int(len(pv.Chunks)),
	)
	return pv, nil
}

// Ingest delegates to the pipeline and records the document counter, the
// end-to-end duration, and a structured log record.
func (o *ObservedPipeline) Ingest(ctx context.Context, content []byte, filename string) (ingest.Result, error) {
	ctx, span := o.inst.Tracer.Start(ctx, "ingest.document", trace.WithAttributes(
		AttrSource.String(filename),
	))
	defer span.End()
	start := time.Now()

	res, err := o.inner.Ingest(ctx, content, filename)

	durationMs := float64(time.Since(start).Milliseconds())
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(
			AttrDocumentID.String(res.Document.ID),
			AttrContentType.String(string(res.ContentType)),
			AttrChunkCount.Int(res.Indexed),
		)
	}

	attrs := metric.WithAttributes(attribute.String("status", status))
	o.inst.IngestDocuments.Add(ctx, 1, attrs)
	o.inst.IngestDuration.Record(ctx, durationMs, attrs)

	// Structured log
	var rec otellog.Record
	if err != nil {
		rec.SetSeverity(otellog.SeverityError)
		rec.SetBody(otellog.StringValue("document ingest failed"))
	} else {
		rec.SetSeverity(otellog.SeverityInfo)
		rec.SetBody(otellog.StringValue("document ingested"))
	}
	rec.AddAttributes(
		otellog.String("ingest.source", filename),
		otellog.String("status", status),
		otellog.Float64("ingest.duration_ms", durationMs),
	)
	o.inst.Logger.Emit(ctx, rec)

	return res, err
}
