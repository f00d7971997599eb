// Package mosaic is a document chunking engine for retrieval-augmented
// generation (RAG) pipelines.
//
// It splits arbitrary document text into overlapping segments ("chunks")
// ready for embedding and indexing. Five segmentation strategies are
// provided, along with a tokenizer-free token estimator, overlap tracking
// between adjacent chunks, and per-chunk quality scoring. Every operation
// is a pure, deterministic, in-memory text transform: no I/O, no shared
// state, safe to call concurrently.
//
// # Quick Start
//
// Chunk a document with the one-call entry point:
//
//	chunks := mosaic.ChunkText(text, mosaic.Params{
//		Strategy:   mosaic.StrategySentence,
//		TargetSize: 512,
//		Overlap:    64,
//	})
//	for _, c := range chunks {
//		fmt.Println(c.Index, c.EstimatedTokens, c.Text)
//	}
//
// Or build a reusable chunker for one strategy:
//
//	chunker := mosaic.New(mosaic.StrategySemantic,
//		mosaic.WithTargetSize(400),
//		mosaic.WithOverlap(50),
//	)
//	chunks := chunker.Chunk(text)
//
// # Components
//
//   - [Chunker]: the contract all five strategies implement
//   - [FixedSizeChunker], [SentenceChunker], [ParagraphChunker],
//     [SemanticChunker], [SlidingWindowChunker]: the strategies
//   - [EstimateTokens]: heuristic token estimator, usable standalone
//   - [Summarize]: aggregate metrics over a produced chunk list
//
// Malformed parameters never fail a call. Sizes at or below zero clamp to
// one, overlap is forced below the target size, unknown strategy names fall
// back to fixed-size, and empty or whitespace-only input yields an empty
// chunk list.
//
// The ingest subpackage pairs the engine with content extraction (plain
// text, markdown, HTML, CSV, JSON, DOCX, PDF) and a preview/ingest
// pipeline. See cmd/mosaic for a complete reference application.
package mosaic
