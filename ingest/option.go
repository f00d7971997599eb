package ingest

import (
	"log/slog"

	mosaic "github.com/nevindra/mosaic"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithParams sets the chunking parameters. Out-of-range values are
// clamped by the engine at call time, never rejected.
func WithParams(params mosaic.Params) Option {
	return func(p *Pipeline) { p.params = params }
}

// WithExtractor registers an Extractor for a content type, replacing any
// builtin registered for it.
func WithExtractor(ct ContentType, e Extractor) Option {
	return func(p *Pipeline) { p.extractors[ct] = e }
}

// WithEmbedder sets the embedding backend required by Ingest.
func WithEmbedder(e Embedder) Option {
	return func(p *Pipeline) { p.embedder = e }
}

// WithIndexer sets the index backend required by Ingest.
func WithIndexer(ix Indexer) Option {
	return func(p *Pipeline) { p.indexer = ix }
}

// WithBatchSize sets the number of chunks per Embed call (default 64).
func WithBatchSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithLogger sets the pipeline logger. Nil (the default) discards output.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		p.logger = l
	}
}
