package mosaic

import (
	"strings"
)

// SemanticChunker accumulates sentences with the token estimator as the
// size metric rather than raw characters. When the buffered estimate
// overflows the target, the buffer is cut at the point where cumulative
// tokens first reach 80% of the target and that prefix becomes a chunk; a
// short run of its trailing sentences is carried into the next buffer as
// overlap. Emitted chunks carry coherence, topic keywords and semantic
// density scores, all cheap lexical proxies rather than NLP.
type SemanticChunker struct {
	targetSize int
	overlap    int
}

// NewSemantic creates a SemanticChunker with the given options.
func NewSemantic(opts ...Option) *SemanticChunker {
	cfg := buildConfig(opts)
	return &SemanticChunker{targetSize: cfg.targetSize, overlap: cfg.overlap}
}

// Chunk splits text into token-budgeted, sentence-aligned chunks.
func (c *SemanticChunker) Chunk(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	size, overlap := clampParams(c.targetSize, c.overlap)

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	// Per-sentence costs drive every sizing decision in this assembler.
	costs := make([]int, len(sentences))
	for i, s := range sentences {
		costs[i] = EstimateTokens(s)
	}

	var chunks []Chunk
	lo, hi := 0, 0    // buffered sentences: sentences[lo:hi]
	bufTokens := 0    // summed cost of the buffer
	lastEmitted := -1 // highest sentence index present in any emitted chunk

	for i := range sentences {
		if hi == lo {
			lo = i
		}
		hi = i + 1
		bufTokens += costs[i]
		if bufTokens <= size {
			continue
		}

		// Overflow: emit the prefix that first reaches 80% of the target,
		// then rebuild the buffer from the carried overlap plus whatever
		// the cut left behind. At most one emission per appended sentence
		// bounds the chunk count by the sentence count.
		cut := breakIndex(costs, lo, hi, size)
		chunks = append(chunks, semanticChunk(sentences, lo, cut, len(chunks)+1))
		lastEmitted = max(lastEmitted, cut-1)

		carry := min(overlapUnits(costs, lo, cut, overlap), (hi-lo)/2)
		lo = cut - carry
		bufTokens = 0
		for j := lo; j < hi; j++ {
			bufTokens += costs[j]
		}
	}

	// Flush the tail, unless the buffer holds nothing but carried overlap.
	if hi > lo && hi-1 > lastEmitted {
		chunks = append(chunks, semanticChunk(sentences, lo, hi, len(chunks)+1))
	}
	return chunks
}

// breakIndex returns the exclusive cut position within sentences[lo:hi] at
// which cumulative token cost first reaches 80% of the target. The midpoint
// is the fallback when no prefix reaches it.
func breakIndex(costs []int, lo, hi, target int) int {
	threshold := int(float64(target) * 0.8)
	cum := 0
	for k := lo; k < hi; k++ {
		cum += costs[k]
		if cum >= threshold {
			return k + 1
		}
	}
	return lo + max((hi-lo)/2, 1)
}

// overlapUnits returns how many trailing sentences of the emitted prefix
// sentences[lo:cut] cover the overlap token budget: the smallest run whose
// summed cost reaches it, or the whole prefix when it falls short.
func overlapUnits(costs []int, lo, cut, overlap int) int {
	if overlap <= 0 {
		return 0
	}
	acc := 0
	for n := 1; n <= cut-lo; n++ {
		acc += costs[cut-n]
		if acc >= overlap {
			return n
		}
	}
	return cut - lo
}

func semanticChunk(sentences []string, lo, hi, index int) Chunk {
	units := sentences[lo:hi]
	text := strings.Join(units, " ")
	ch := newChunk(index, text, StrategySemantic)
	ch.UnitCount = len(units)
	ch.UnitStart = lo + 1
	ch.UnitEnd = hi
	ch.Coherence = coherenceScore(text, 2)
	ch.TopicKeywords = topKeywords(text, 5)
	ch.SemanticDensity = semanticDensity(text, len(units))
	return ch
}
