// Package ingest turns raw uploads into chunked, embeddable documents.
// It pairs format-specific extractors with the chunking engine and, when
// configured, an embedding and indexing backend.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	mosaic "github.com/nevindra/mosaic"
)

var (
	ErrNoEmbedder = errors.New("ingest: pipeline has no embedder")
	ErrNoIndexer  = errors.New("ingest: pipeline has no indexer")
)

// Embedder turns chunk texts into vectors. Implementations must preserve
// order: vector i belongs to texts[i].
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Indexer receives embedded entries for storage. The pipeline calls it
// once per document with all entries in sequence order.
type Indexer interface {
	Index(ctx context.Context, entries []Entry) error
}

// Entry is one chunk ready for indexing.
type Entry struct {
	DocumentID    string    `json:"document_id"`
	SequenceIndex int       `json:"sequence_index"`
	Text          string    `json:"text"`
	Vector        []float32 `json:"vector,omitempty"`
}

// Preview is the outcome of extraction and chunking, before any embedding.
// Section offsets index the text as the extractor returned it.
type Preview struct {
	Document    mosaic.Document `json:"document"`
	ContentType ContentType     `json:"content_type"`
	Sections    []Section       `json:"sections,omitempty"`
	Chunks      []mosaic.Chunk  `json:"chunks"`
	Metrics     mosaic.Metrics  `json:"metrics"`
}

// Result is a Preview that has been embedded and indexed.
type Result struct {
	Preview
	Indexed int `json:"indexed"`
}

// Pipeline handles extraction, chunking and, when an embedder and indexer
// are configured, embedding and storage. The zero value is not usable;
// construct with NewPipeline.
type Pipeline struct {
	params     mosaic.Params
	extractors map[ContentType]Extractor
	embedder   Embedder
	indexer    Indexer
	batchSize  int
	logger     *slog.Logger
}

// NewPipeline creates a pipeline with the builtin extractors, paragraph
// chunking at the engine defaults and an embed batch size of 64.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		params: mosaic.Params{
			Strategy:   mosaic.StrategyParagraph,
			TargetSize: 512,
			Overlap:    50,
		},
		extractors: builtinExtractors(),
		batchSize:  64,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Preview extracts content and chunks it without touching the embedder or
// indexer. The filename extension picks the extractor; unknown extensions
// fall back to plain text.
func (p *Pipeline) Preview(content []byte, filename string) (Preview, error) {
	ct := ContentTypeFromPath(filename)
	extractor, ok := p.extractors[ct]
	if !ok {
		extractor = PlainTextExtractor{}
	}

	var ex Extraction
	var err error
	if se, ok := extractor.(SectionExtractor); ok {
		ex, err = se.ExtractSections(content)
	} else {
		ex.Text, err = extractor.Extract(content)
	}
	if err != nil {
		return Preview{}, fmt.Errorf("extract %s: %w", ct, err)
	}

	pv := p.previewText(ex.Text, filename, filepath.Base(filename))
	pv.ContentType = ct
	pv.Sections = ex.Sections
	return pv, nil
}

// PreviewText chunks already-extracted plain text.
func (p *Pipeline) PreviewText(text, source, title string) Preview {
	pv := p.previewText(text, source, title)
	pv.ContentType = TypePlainText
	return pv
}

func (p *Pipeline) previewText(text, source, title string) Preview {
	text = normalizeText(text)

	chunks, metrics := mosaic.ChunkWithMetrics(text, p.params)

	doc := mosaic.Document{
		ID:        mosaic.NewID(),
		Title:     title,
		Source:    source,
		Content:   text,
		CreatedAt: mosaic.NowUnix(),
	}
	p.logger.Debug("chunked document",
		"document_id", doc.ID,
		"strategy", string(p.params.Strategy),
		"chunks", len(chunks),
	)
	return Preview{Document: doc, Chunks: chunks, Metrics: metrics}
}

// Ingest runs the full path for one file: extract, chunk, embed in
// batches, hand the entries to the indexer.
func (p *Pipeline) Ingest(ctx context.Context, content []byte, filename string) (Result, error) {
	if p.embedder == nil {
		return Result{}, ErrNoEmbedder
	}
	if p.indexer == nil {
		return Result{}, ErrNoIndexer
	}
	pv, err := p.Preview(content, filename)
	if err != nil {
		return Result{}, err
	}
	return p.index(ctx, pv)
}

// IngestText ingests already-extracted text under the given source label.
func (p *Pipeline) IngestText(ctx context.Context, text, source, title string) (Result, error) {
	if p.embedder == nil {
		return Result{}, ErrNoEmbedder
	}
	if p.indexer == nil {
		return Result{}, ErrNoIndexer
	}
	return p.index(ctx, p.PreviewText(text, source, title))
}

// IngestReader reads everything from r and ingests it under filename.
func (p *Pipeline) IngestReader(ctx context.Context, r io.Reader, filename string) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read: %w", err)
	}
	return p.Ingest(ctx, data, filename)
}

func (p *Pipeline) index(ctx context.Context, pv Preview) (Result, error) {
	entries := make([]Entry, len(pv.Chunks))
	for i, c := range pv.Chunks {
		entries[i] = Entry{
			DocumentID:    pv.Document.ID,
			SequenceIndex: c.Index,
			Text:          c.Text,
		}
	}

	if err := p.embedEntries(ctx, entries); err != nil {
		return Result{}, err
	}
	if len(entries) > 0 {
		if err := p.indexer.Index(ctx, entries); err != nil {
			return Result{}, fmt.Errorf("index: %w", err)
		}
	}

	p.logger.Info("document ingested",
		"document_id", pv.Document.ID,
		"source", pv.Document.Source,
		"chunks", len(entries),
	)
	return Result{Preview: pv, Indexed: len(entries)}, nil
}

// embedEntries attaches vectors in batches of p.batchSize.
func (p *Pipeline) embedEntries(ctx context.Context, entries []Entry) error {
	for i := 0; i < len(entries); i += p.batchSize {
		end := min(i+p.batchSize, len(entries))
		batch := entries[i:end]

		texts := make([]string, len(batch))
		for j, e := range batch {
			texts[j] = e.Text
		}

		vectors, err := p.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed batch %d-%d: %w", i, end, err)
		}
		for j := range batch {
			if j < len(vectors) {
				batch[j].Vector = vectors[j]
			}
		}
	}
	return nil
}

// zeroWidth strips the invisible code points that commonly survive web
// copy-paste and PDF extraction.
var zeroWidth = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\ufeff", "",
)

// normalizeText applies NFC and drops zero-width characters so token
// estimates stay stable across sources of the same text.
func normalizeText(text string) string {
	return norm.NFC.String(zeroWidth.Replace(text))
}
