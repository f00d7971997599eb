package observer

import "go.opentelemetry.io/otel/attribute"

// Attribute keys for chunking and ingest spans and metrics.
var (
	AttrStrategy   = attribute.Key("chunking.strategy")
	AttrTargetSize = attribute.Key("chunking.target_size")
	AttrOverlap    = attribute.Key("chunking.overlap")
	AttrChunkCount = attribute.Key("chunking.chunk_count")
	AttrInputRunes = attribute.Key("chunking.input_runes")

	AttrDocumentID  = attribute.Key("ingest.document_id")
	AttrSource      = attribute.Key("ingest.source")
	AttrContentType = attribute.Key("ingest.content_type")
)
