package mosaic

import (
	"strings"
	"unicode/utf8"
)

// ParagraphChunker accumulates blank-line-separated paragraphs into chunks,
// accounting for the two-character "\n\n" join when checking the size
// budget. A single paragraph longer than the target does not become one
// oversized chunk: it is split at sentence boundaries with the same
// accumulation rules, so a document without blank lines still respects the
// target size.
type ParagraphChunker struct {
	targetSize int
	overlap    int
}

// NewParagraph creates a ParagraphChunker with the given options.
func NewParagraph(opts ...Option) *ParagraphChunker {
	cfg := buildConfig(opts)
	return &ParagraphChunker{targetSize: cfg.targetSize, overlap: cfg.overlap}
}

// Chunk splits text at paragraph boundaries into overlapping chunks.
func (c *ParagraphChunker) Chunk(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	size, overlap := clampParams(c.targetSize, c.overlap)

	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	var chunks []Chunk

	// Paragraphs within the size budget accumulate normally; an oversized
	// one interrupts the run and is emitted via the sentence fallback.
	// Overlap is not carried across the interruption.
	flushRun := func(lo, hi int) {
		if hi <= lo {
			return
		}
		for _, sp := range accumulate(paragraphs[lo:hi], 2, size, overlap) {
			chunks = append(chunks, paragraphChunk(paragraphs, span{lo + sp.lo, lo + sp.hi}, len(chunks)+1))
		}
	}

	runStart := 0
	for i, p := range paragraphs {
		if utf8.RuneCountInString(p) <= size {
			continue
		}
		flushRun(runStart, i)
		chunks = appendSentenceFallback(chunks, p, i+1, size, overlap)
		runStart = i + 1
	}
	flushRun(runStart, len(paragraphs))

	return chunks
}

func paragraphChunk(paragraphs []string, sp span, index int) Chunk {
	units := paragraphs[sp.lo:sp.hi]
	ch := newChunk(index, strings.Join(units, "\n\n"), StrategyParagraph)
	ch.UnitCount = len(units)
	ch.UnitStart = sp.lo + 1
	ch.UnitEnd = sp.hi
	ch.Coherence = coherenceScore(ch.Text, 3)
	return ch
}

// appendSentenceFallback splits one oversized paragraph at sentence
// boundaries and appends the resulting chunks. Each carries the paragraph's
// own unit index.
func appendSentenceFallback(chunks []Chunk, paragraph string, unitIndex, size, overlap int) []Chunk {
	sentences := splitSentences(paragraph)
	for _, sp := range accumulate(sentences, 1, size, overlap) {
		ch := newChunk(len(chunks)+1, strings.Join(sentences[sp.lo:sp.hi], " "), StrategyParagraph)
		ch.UnitCount = 1
		ch.UnitStart = unitIndex
		ch.UnitEnd = unitIndex
		ch.Coherence = coherenceScore(ch.Text, 3)
		chunks = append(chunks, ch)
	}
	return chunks
}
